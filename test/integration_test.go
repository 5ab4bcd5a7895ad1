package test

import (
	"testing"

	"github.com/rony4d/go-opera-dao/integration"
)

// Package integration_test verifies that configuration presets behave correctly:
// - Each preset produces distinct, internally consistent configurations
// - Presets override default values as expected
// - Helper functions (GetPresetByName, ApplyPreset) work correctly
// - Edge cases and invalid inputs are handled gracefully
//
// These tests ensure that operators can reliably use presets without
// unexpected side effects or configuration conflicts.

// TestDefaultPreset_hasReasonableDefaults verifies that DefaultPreset returns
// a configuration with sensible baseline values. This test acts as a regression
// guard: if defaults change, we want to know immediately.
func TestDefaultPreset_hasReasonableDefaults(t *testing.T) {
	cfg := integration.DefaultPreset()

	// Verify preset name is set correctly for logging/config dumps
	if cfg.Name != "default" {
		t.Fatalf("Name = %q, want 'default'", cfg.Name)
	}

	// Production rules profile
	if cfg.RulesName != "main" {
		t.Fatalf("RulesName = %q, want 'main'", cfg.RulesName)
	}

	// Timelock delay must be non-zero and within a sane operational range
	if cfg.TimelockDelaySec == 0 || cfg.TimelockDelaySec > 30*24*60*60 {
		t.Fatalf("TimelockDelaySec = %d, want value between 1 and 30 days", cfg.TimelockDelaySec)
	}

	// The execution grace window should be at least as long as the delay
	if cfg.TimelockGraceSec < cfg.TimelockDelaySec {
		t.Fatalf("TimelockGraceSec (%d) should be >= TimelockDelaySec (%d)", cfg.TimelockGraceSec, cfg.TimelockDelaySec)
	}

	// Debug logging off by default to keep production output readable
	if cfg.EnableDebugLog {
		t.Fatal("EnableDebugLog should be false by default")
	}
}

// TestDevnetPreset_overridesDefaults verifies that DevnetPreset produces a
// configuration distinct from DefaultPreset, with values optimized for
// development environments.
func TestDevnetPreset_overridesDefaults(t *testing.T) {
	devnetCfg := integration.DevnetPreset()

	// Devnet preset should have a different name
	if devnetCfg.Name != "devnet" {
		t.Fatalf("Name = %q, want 'devnet'", devnetCfg.Name)
	}

	// Devnet compresses the governance windows via the fake rules profile
	if devnetCfg.RulesName != "fake" {
		t.Fatalf("RulesName = %q, want 'fake' for devnet preset", devnetCfg.RulesName)
	}

	// Debug logging should be enabled for development diagnostics
	if !devnetCfg.EnableDebugLog {
		t.Fatal("EnableDebugLog should be true for devnet preset")
	}
}

// TestCouncilPreset_overridesDefaults verifies that CouncilPreset produces a
// verifier-node configuration with extended timelock windows.
func TestCouncilPreset_overridesDefaults(t *testing.T) {
	defaultCfg := integration.DefaultPreset()
	councilCfg := integration.CouncilPreset()

	// Council preset should have a different name
	if councilCfg.Name != "council" {
		t.Fatalf("Name = %q, want 'council'", councilCfg.Name)
	}

	// Verifiers operate against production rules
	if councilCfg.RulesName != "main" {
		t.Fatalf("RulesName = %q, want 'main' for council preset", councilCfg.RulesName)
	}

	// Both timelock windows should be extended relative to default
	if councilCfg.TimelockDelaySec <= defaultCfg.TimelockDelaySec {
		t.Fatalf("Council delay (%d) should be longer than default (%d)", councilCfg.TimelockDelaySec, defaultCfg.TimelockDelaySec)
	}
	if councilCfg.TimelockGraceSec <= defaultCfg.TimelockGraceSec {
		t.Fatalf("Council grace (%d) should be longer than default (%d)", councilCfg.TimelockGraceSec, defaultCfg.TimelockGraceSec)
	}

	// Info-level logging only; debug stays opt-in via flags
	if councilCfg.EnableDebugLog {
		t.Fatal("EnableDebugLog should be false for council preset")
	}
}

// TestArchivePreset_overridesDefaults verifies that ArchivePreset keeps
// production governance timing while maximizing what lands in the journal.
func TestArchivePreset_overridesDefaults(t *testing.T) {
	defaultCfg := integration.DefaultPreset()
	archiveCfg := integration.ArchivePreset()

	// Archive preset should have a different name
	if archiveCfg.Name != "archive" {
		t.Fatalf("Name = %q, want 'archive'", archiveCfg.Name)
	}

	// Timing must match production so replayed histories line up
	if archiveCfg.RulesName != "main" {
		t.Fatalf("RulesName = %q, want 'main' for archive preset", archiveCfg.RulesName)
	}
	if archiveCfg.TimelockDelaySec != defaultCfg.TimelockDelaySec {
		t.Fatalf("Archive delay (%d) should match default (%d)", archiveCfg.TimelockDelaySec, defaultCfg.TimelockDelaySec)
	}
	if archiveCfg.TimelockGraceSec != defaultCfg.TimelockGraceSec {
		t.Fatalf("Archive grace (%d) should match default (%d)", archiveCfg.TimelockGraceSec, defaultCfg.TimelockGraceSec)
	}

	// Debug logging enabled to capture every transition for consumers
	if !archiveCfg.EnableDebugLog {
		t.Fatal("EnableDebugLog should be true for archive preset")
	}
}

// TestPresets_haveDistinctValues verifies that all presets produce unique
// configurations. This ensures presets are actually useful and not redundant.
func TestPresets_haveDistinctValues(t *testing.T) {
	devnet := integration.DevnetPreset()
	council := integration.CouncilPreset()
	archive := integration.ArchivePreset()

	// Each preset should have a unique name
	names := map[string]bool{
		devnet.Name:  true,
		council.Name: true,
		archive.Name: true,
	}
	if len(names) != 3 {
		t.Fatalf("Presets should have unique names, got: %v", names)
	}

	// Rules profiles: devnet compresses, council/archive track production
	if devnet.RulesName != "fake" {
		t.Fatal("Devnet preset should use the fake rules profile")
	}
	if council.RulesName != "main" || archive.RulesName != "main" {
		t.Fatal("Council and archive presets should use the main rules profile")
	}

	// Council extends the timelock windows beyond every other preset
	if council.TimelockGraceSec <= archive.TimelockGraceSec {
		t.Fatalf("Council grace (%d) should be longer than archive (%d)", council.TimelockGraceSec, archive.TimelockGraceSec)
	}
}

// TestGetPresetByName_validPresets verifies that GetPresetByName correctly
// returns the expected preset for all valid preset names.
func TestGetPresetByName_validPresets(t *testing.T) {
	tests := []struct {
		name     string
		wantName string
	}{
		{"devnet", "devnet"},
		{"council", "council"},
		{"archive", "archive"},
		{"default", "default"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := integration.GetPresetByName(tt.name)
			if err != nil {
				t.Fatalf("GetPresetByName(%q) returned error: %v", tt.name, err)
			}
			// Verify the returned preset has the correct name
			if cfg.Name != tt.wantName {
				t.Fatalf("Preset name = %q, want %q", cfg.Name, tt.wantName)
			}
			// Verify the preset has reasonable values (non-zero timelock windows)
			if cfg.TimelockDelaySec == 0 || cfg.TimelockGraceSec == 0 {
				t.Fatalf("Preset %q has zero timelock windows: delay=%d grace=%d", tt.name, cfg.TimelockDelaySec, cfg.TimelockGraceSec)
			}
		})
	}
}

// TestGetPresetByName_invalidPreset verifies that GetPresetByName returns
// an error for unrecognized preset names.
func TestGetPresetByName_invalidPreset(t *testing.T) {
	invalidNames := []string{"unknown", "invalid", "", "DEVNET", "Council"}

	for _, name := range invalidNames {
		t.Run(name, func(t *testing.T) {
			cfg, err := integration.GetPresetByName(name)
			if err == nil {
				t.Fatalf("GetPresetByName(%q) should return error, got config: %+v", name, cfg)
			}
			// Error message should be helpful and mention valid options
			if err.Error() == "" {
				t.Fatal("Error message should not be empty")
			}
		})
	}
}

// TestApplyPreset_overridesTarget verifies that ApplyPreset correctly merges
// preset values into an existing configuration, overriding only the fields
// that are set in the preset.
func TestApplyPreset_overridesTarget(t *testing.T) {
	// Start with a custom target config
	target := integration.PresetConfig{
		Name:             "custom",
		RulesName:        "test",
		TimelockDelaySec: 1000,
		TimelockGraceSec: 2000,
		EnableDebugLog:   true,
	}

	// Apply the council preset
	preset := integration.CouncilPreset()
	integration.ApplyPreset(&target, preset)

	// Verify all preset fields were applied
	if target.Name != preset.Name {
		t.Fatalf("Name not overridden: got %q, want %q", target.Name, preset.Name)
	}
	if target.RulesName != preset.RulesName {
		t.Fatalf("RulesName not overridden: got %q, want %q", target.RulesName, preset.RulesName)
	}
	if target.TimelockDelaySec != preset.TimelockDelaySec {
		t.Fatalf("TimelockDelaySec not overridden: got %d, want %d", target.TimelockDelaySec, preset.TimelockDelaySec)
	}
	if target.TimelockGraceSec != preset.TimelockGraceSec {
		t.Fatalf("TimelockGraceSec not overridden: got %d, want %d", target.TimelockGraceSec, preset.TimelockGraceSec)
	}
	if target.EnableDebugLog != preset.EnableDebugLog {
		t.Fatalf("EnableDebugLog not overridden: got %v, want %v", target.EnableDebugLog, preset.EnableDebugLog)
	}
}

// TestApplyPreset_partialOverride verifies that ApplyPreset handles partial
// presets correctly (presets with some zero values should only override
// non-zero fields).
func TestApplyPreset_partialOverride(t *testing.T) {
	target := integration.DefaultPreset()
	originalName := target.Name
	originalRules := target.RulesName

	// Create a partial preset that only sets the delay
	partial := integration.PresetConfig{
		TimelockDelaySec: 5 * 24 * 60 * 60,
		// Name and RulesName are empty, so they shouldn't override
		// TimelockGraceSec is zero, so it shouldn't override either
	}

	integration.ApplyPreset(&target, partial)

	// The delay should be overridden
	if target.TimelockDelaySec != 5*24*60*60 {
		t.Fatalf("TimelockDelaySec should be overridden, got %d", target.TimelockDelaySec)
	}

	// Name should remain unchanged (empty string in preset means don't override)
	if target.Name != originalName {
		t.Fatalf("Name should remain %q when preset has empty name, got %q", originalName, target.Name)
	}
	if target.RulesName != originalRules {
		t.Fatalf("RulesName should remain %q when preset has empty rules, got %q", originalRules, target.RulesName)
	}
}

// TestPresets_areIdempotent verifies that calling preset functions multiple
// times returns consistent results. This ensures presets don't have hidden
// state or side effects.
func TestPresets_areIdempotent(t *testing.T) {
	// Call each preset function twice
	devnet1 := integration.DevnetPreset()
	devnet2 := integration.DevnetPreset()

	council1 := integration.CouncilPreset()
	council2 := integration.CouncilPreset()

	archive1 := integration.ArchivePreset()
	archive2 := integration.ArchivePreset()

	// Compare results: they should be identical
	if devnet1 != devnet2 {
		t.Fatal("DevnetPreset() should return identical results on multiple calls")
	}
	if council1 != council2 {
		t.Fatal("CouncilPreset() should return identical results on multiple calls")
	}
	if archive1 != archive2 {
		t.Fatal("ArchivePreset() should return identical results on multiple calls")
	}
}
