package integration

import "fmt"

// Package integration provides configuration presets for assembling the
// governance node runtime. Presets bundle common settings (rules profile,
// timelock windows, log verbosity) into named profiles (default, devnet,
// council, archive) so operators can quickly spin up nodes tuned for
// different deployments without tweaking individual flags.
//
// Usage:
//   cfg := integration.DevnetPreset()  // for development
//   cfg := integration.CouncilPreset() // for admin-operated verifier nodes
//   cfg := integration.ArchivePreset() // for read-heavy journal consumers
//
// Each preset returns a PresetConfig struct that the launcher merges into
// its main config during node initialization.

// PresetConfig captures the tunable parameters that vary across preset
// profiles. It intentionally excludes fields that are always the same (like
// the role table or datadir) so presets focus on timing and observability
// trade-offs.
type PresetConfig struct {
	Name             string // human-readable identifier (e.g., "devnet", "council")
	RulesName        string // governance rules profile: "main", "test", or "fake"
	TimelockDelaySec uint64 // mandatory wait between queueing and execution, in seconds
	TimelockGraceSec uint64 // window after eta in which execution stays valid, in seconds
	EnableDebugLog   bool   // whether to raise log verbosity to debug level
}

func DefaultPreset() PresetConfig {

	return PresetConfig{
		Name:             "default",
		RulesName:        "main",             // production rules: 2d delay, 5d voting window
		TimelockDelaySec: 2 * 24 * 60 * 60,   // 2 days: proposals mature slowly enough to audit
		TimelockGraceSec: 14 * 24 * 60 * 60,  // 14 days: generous execution window before staleness
		EnableDebugLog:   false,              // info-level logging keeps production output readable
	}
}

// DevnetPreset returns a configuration optimized for local development and
// CI runs. It compresses every governance window so a full proposal round
// completes in minutes rather than days.
//
// Use cases:
//   - Local development on laptops
//   - CI pipelines exercising the full proposal lifecycle
//   - Demos of the propose/vote/queue/execute round
//
// Trade-offs:
//   - Compressed windows leave no time for real deliberation (never deploy)
//   - Debug logging is verbose; pipe it to a file for long sessions
func DevnetPreset() PresetConfig {
	cfg := DefaultPreset()            // start with balanced defaults
	cfg.Name = "devnet"               // set preset identifier for logging/config dumps
	cfg.RulesName = "fake"            // minimum-bound windows: rounds complete in about an hour
	cfg.TimelockDelaySec = 2 * 24 * 60 * 60 // timelock floor is hardcoded; cannot go lower
	cfg.EnableDebugLog = true         // debug logs show every state transition during development
	return cfg
}

// CouncilPreset returns a configuration for admin-operated verifier nodes.
// Council operators spend their time verifying and occasionally vetoing
// proposals, so the preset keeps production rules but extends the execution
// grace window to tolerate slow multi-party sign-off.
//
// Use cases:
//   - Nodes run by proposal verifiers
//   - Veto-authority standby nodes
//
// Trade-offs:
//   - The long grace window delays when stale proposals become clearable
//   - Info-level logging only; enable debug via flags when investigating
func CouncilPreset() PresetConfig {
	cfg := DefaultPreset()
	cfg.Name = "council"
	cfg.RulesName = "main"                   // verifiers operate against production rules
	cfg.TimelockDelaySec = 3 * 24 * 60 * 60  // extra day of maturation gives the council veto room
	cfg.TimelockGraceSec = 21 * 24 * 60 * 60 // 21 days: multi-party execution sign-off is slow
	cfg.EnableDebugLog = false
	return cfg
}

// ArchivePreset returns a configuration for nodes that exist to consume the
// event journal: explorers, analytics platforms, and reporting tools. The
// governance timing matches production so replayed histories line up, and
// debug logging is enabled to maximize what lands in the journal sink.
//
// Use cases:
//   - Governance explorers
//   - Analytics and reporting tools over proposal history
//
// Trade-offs:
//   - Debug logging grows log volume linearly with governance activity
func ArchivePreset() PresetConfig {
	cfg := DefaultPreset()
	cfg.Name = "archive"
	cfg.RulesName = "main"                   // must match production timing for history replay
	cfg.TimelockDelaySec = 2 * 24 * 60 * 60  // production delay
	cfg.TimelockGraceSec = 14 * 24 * 60 * 60 // production grace
	cfg.EnableDebugLog = true                // capture every transition for downstream consumers
	return cfg
}

// GetPresetByName looks up a preset by its string identifier and returns the
// corresponding PresetConfig. Returns an error if the name is unrecognized.
// This helper enables CLI flags like --preset=devnet to select configurations
// dynamically.
//
// Example:
//
//	preset, err := integration.GetPresetByName("devnet")
//	if err != nil {
//	    log.Fatal(err)
//	}
func GetPresetByName(name string) (PresetConfig, error) {
	switch name {
	case "devnet":
		return DevnetPreset(), nil
	case "council":
		return CouncilPreset(), nil
	case "archive":
		return ArchivePreset(), nil
	case "default":
		return DefaultPreset(), nil
	default:
		return PresetConfig{}, fmt.Errorf("unknown preset: %q (valid: devnet, council, archive, default)", name)
	}
}

// ApplyPreset merges a preset configuration into an existing PresetConfig.
// Fields set in the preset override the corresponding values in the target.
// This allows presets to be layered without clobbering unrelated settings.
//
// Example:
//
//	base := integration.DefaultPreset()
//	integration.ApplyPreset(&base, integration.DevnetPreset())
func ApplyPreset(target *PresetConfig, preset PresetConfig) {
	if preset.RulesName != "" {
		target.RulesName = preset.RulesName
	}
	if preset.TimelockDelaySec > 0 {
		target.TimelockDelaySec = preset.TimelockDelaySec
	}
	if preset.TimelockGraceSec > 0 {
		target.TimelockGraceSec = preset.TimelockGraceSec
	}
	// boolean flags are always applied (no zero-value check needed)
	target.EnableDebugLog = preset.EnableDebugLog
	if preset.Name != "" {
		target.Name = preset.Name
	}
}
