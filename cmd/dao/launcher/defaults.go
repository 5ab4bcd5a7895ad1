package launcher

// Defaults bundles the baseline configuration values the launcher will use
// before presets, config files, and flags override them.

type Defaults struct {
	Node       NodeDefaults
	Governance GovernanceDefaults
	Timelock   TimelockDefaults
	FakeNet    FakeNetDefaults
	Logging    LoggingDefaults
	Sentry     SentryDefaults
}

// NodeDefaults captures top-level node settings (datadir, identity).
type NodeDefaults struct {
	DataDir string // Filesystem root where the node stores everything (journal dumps, config, logs). Changing it lets you run multiple nodes or keep test data isolated.
	Name    string // Human-readable node identity used in logs; helps operators distinguish instances.
}

// GovernanceDefaults selects the engine's rules preset and role table.
type GovernanceDefaults struct {
	RulesName string   // Governance rules preset name: "main", "test", or "fake". Every preset still respects the hardcoded parameter bounds.
	Admins    []string // Hex addresses holding the admin role (verify/veto/threshold tuning). Must be non-empty; the engine refuses an empty role table.
}

// TimelockDefaults tunes the delayed-execution collaborator.
type TimelockDefaults struct {
	DelaySec uint64 // Mandatory wait (seconds) between queueing a succeeded proposal and its earliest execution.
	GraceSec uint64 // Window (seconds) after eta in which execution is still allowed; past it the proposal is stale and clearable.
}

// FakeNetDefaults configures the synthetic local network.
type FakeNetDefaults struct {
	Accounts int    // Number of synthetic staker accounts seeded into the in-memory ledger.
	Stake    uint64 // Stake assigned to each synthetic account.
}

// LoggingDefaults controls log verbosity/format.
type LoggingDefaults struct {
	Verbosity int    // Log level numeric (0=fatal, 1=error, 2=warn, 3=info, 4=debug, 5=trace).
	Format    string // Log output format (text vs json).
	Color     bool   // Whether to use ANSI color codes in logs (helpful on terminals, best disabled when piping to files).
}

// SentryDefaults controls the optional error-reporting hook.
type SentryDefaults struct {
	DSN string // Sentry DSN; the hook is only installed when non-empty.
}

// DefaultConfig returns a fully populated Defaults instance.

func DefaultConfig() Defaults {
	return Defaults{
		Node: NodeDefaults{
			DataDir: "~/.opera-dao",
			Name:    "opera-dao",
		},
		Governance: GovernanceDefaults{
			RulesName: "main",
			Admins: []string{
				"0x1000000000000000000000000000000000000001",
			},
		},
		Timelock: TimelockDefaults{
			DelaySec: 2 * 24 * 60 * 60,  // 2 days
			GraceSec: 14 * 24 * 60 * 60, // 14 days
		},
		FakeNet: FakeNetDefaults{
			Accounts: 5,
			Stake:    1000,
		},
		Logging: LoggingDefaults{
			Verbosity: 3,
			Format:    "text",
			Color:     true,
		},
		Sentry: SentryDefaults{},
	}
}
