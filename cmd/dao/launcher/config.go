// This file maps CLI context to the launcher config struct: defaults first,
// then an optional JSON config file, then flag overrides.

package launcher

import (
	"encoding/json"
	"fmt"
	"io/ioutil"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"gopkg.in/urfave/cli.v1"

	"github.com/rony4d/go-opera-dao/gov"
	"github.com/rony4d/go-opera-dao/integration"
)

// Well-known in-process identities. The timelock authority is the account
// parameter-tuning proposals execute from; the ledger identity authenticates
// the community-score callback.
var (
	TimelockAddress = common.HexToAddress("0x00000000000000000000000000000000Da000001")
	LedgerAddress   = common.HexToAddress("0x00000000000000000000000000000000Da000002")
)

// Config aggregates every subsystem's configuration the launcher needs.
type Config struct {
	Node       NodeConfig
	Governance GovernanceConfig
	Timelock   TimelockConfig
	FakeNet    FakeNetConfig
	Logging    LoggingConfig
	Sentry     SentryConfig
}

type NodeConfig struct {
	DataDir string
	Name    string
}

type GovernanceConfig struct {
	Rules  gov.Rules
	Admins []common.Address
}

type TimelockConfig struct {
	Delay time.Duration
	Grace time.Duration
}

type FakeNetConfig struct {
	Enabled  bool
	Accounts int
	Stake    uint64
}

type LoggingConfig struct {
	Verbosity int
	Format    string
	Color     bool
}

type SentryConfig struct {
	DSN string
}

// defaultConfig materializes the Defaults from defaults.go into a Config.
func defaultConfig() Config {
	home := GuessHomeDir()
	d := DefaultConfig()

	admins := make([]common.Address, 0, len(d.Governance.Admins))
	for _, a := range d.Governance.Admins {
		admins = append(admins, common.HexToAddress(a))
	}
	return Config{
		Node: NodeConfig{
			DataDir: filepath.Join(home, strings.TrimPrefix(d.Node.DataDir, "~/")),
			Name:    d.Node.Name,
		},
		Governance: GovernanceConfig{
			Rules:  rulesByName(d.Governance.RulesName),
			Admins: admins,
		},
		Timelock: TimelockConfig{
			Delay: time.Duration(d.Timelock.DelaySec) * time.Second,
			Grace: time.Duration(d.Timelock.GraceSec) * time.Second,
		},
		FakeNet: FakeNetConfig{
			Accounts: d.FakeNet.Accounts,
			Stake:    d.FakeNet.Stake,
		},
		Logging: LoggingConfig{
			Verbosity: d.Logging.Verbosity,
			Format:    d.Logging.Format,
			Color:     d.Logging.Color,
		},
		Sentry: SentryConfig{DSN: d.Sentry.DSN},
	}
}

// MakeAllConfigs merges defaults, the selected runtime preset, an optional
// config file, and finally CLI flag overrides into a single config struct.
func MakeAllConfigs(ctx *cli.Context) (Config, error) {
	cfg := defaultConfig()

	if name := ctx.GlobalString("preset"); name != "" {
		preset, err := integration.GetPresetByName(name)
		if err != nil {
			return Config{}, err
		}
		applyPreset(&cfg, preset)
	}

	if file := ctx.GlobalString("config"); file != "" {
		if err := loadConfigFile(file, &cfg); err != nil {
			return Config{}, fmt.Errorf("failed to load config file %s: %w", file, err)
		}
	}

	applyCLIOverrides(ctx, &cfg)

	if err := ensureDir(cfg.Node.DataDir); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// applyPreset merges a runtime preset into the config.
func applyPreset(cfg *Config, p integration.PresetConfig) {
	if p.RulesName != "" {
		cfg.Governance.Rules = rulesByName(p.RulesName)
	}
	if p.TimelockDelaySec > 0 {
		cfg.Timelock.Delay = time.Duration(p.TimelockDelaySec) * time.Second
	}
	if p.TimelockGraceSec > 0 {
		cfg.Timelock.Grace = time.Duration(p.TimelockGraceSec) * time.Second
	}
	if p.EnableDebugLog && cfg.Logging.Verbosity < 4 {
		cfg.Logging.Verbosity = 4
	}
}

func rulesByName(name string) gov.Rules {
	switch name {
	case "test":
		return gov.TestNetRules()
	case "fake":
		return gov.FakeNetRules()
	default:
		return gov.MainNetRules()
	}
}

// loadConfigFile decodes a JSON config file over the current config, so the
// file only needs to carry the fields it overrides.
func loadConfigFile(path string, cfg *Config) error {
	b, err := ioutil.ReadFile(path)
	if err != nil {
		return err
	}
	return json.Unmarshal(b, cfg)
}

func applyCLIOverrides(ctx *cli.Context, cfg *Config) {
	if ctx.GlobalIsSet("datadir") {
		cfg.Node.DataDir = resolvePath(ctx.GlobalString("datadir"))
	}

	if ctx.GlobalIsSet("gov.rules") {
		cfg.Governance.Rules = rulesByName(ctx.GlobalString("gov.rules"))
	}
	if ctx.GlobalIsSet("gov.votingdelay") {
		cfg.Governance.Rules.VotingDelay = gov.DurationOf(ctx.GlobalDuration("gov.votingdelay"))
	}
	if ctx.GlobalIsSet("gov.votingperiod") {
		cfg.Governance.Rules.VotingPeriod = gov.DurationOf(ctx.GlobalDuration("gov.votingperiod"))
	}
	if ctx.GlobalIsSet("gov.thresholdbps") {
		cfg.Governance.Rules.ProposalThresholdBPS = ctx.GlobalUint64("gov.thresholdbps")
	}
	if ctx.GlobalIsSet("gov.quorumbps") {
		cfg.Governance.Rules.QuorumVotesBPS = ctx.GlobalUint64("gov.quorumbps")
	}
	if ctx.GlobalIsSet("gov.refund.proposing") {
		cfg.Governance.Rules.ProposalRefund = ctx.GlobalBool("gov.refund.proposing")
	}
	if ctx.GlobalIsSet("gov.refund.voting") {
		cfg.Governance.Rules.VotingRefund = ctx.GlobalBool("gov.refund.voting")
	}
	if ctx.GlobalIsSet("gov.admins") {
		cfg.Governance.Admins = parseAddresses(ctx.GlobalString("gov.admins"))
	}

	if ctx.GlobalIsSet("timelock.delay") {
		cfg.Timelock.Delay = ctx.GlobalDuration("timelock.delay")
	}
	if ctx.GlobalIsSet("timelock.grace") {
		cfg.Timelock.Grace = ctx.GlobalDuration("timelock.grace")
	}

	if ctx.GlobalBool("fakenet") {
		cfg.FakeNet.Enabled = true
		cfg.Governance.Rules = gov.FakeNetRules()
	}
	if ctx.GlobalIsSet("fakenet.accounts") {
		cfg.FakeNet.Accounts = ctx.GlobalInt("fakenet.accounts")
	}
	if ctx.GlobalIsSet("fakenet.stake") {
		cfg.FakeNet.Stake = ctx.GlobalUint64("fakenet.stake")
	}

	if ctx.GlobalIsSet("log.format") {
		cfg.Logging.Format = ctx.GlobalString("log.format")
	}
	if ctx.GlobalIsSet("log.verbosity") {
		cfg.Logging.Verbosity = ctx.GlobalInt("log.verbosity")
	}
	if ctx.GlobalIsSet("log.color") {
		cfg.Logging.Color = ctx.GlobalBool("log.color")
	}
	if ctx.GlobalIsSet("sentry.dsn") {
		cfg.Sentry.DSN = ctx.GlobalString("sentry.dsn")
	}
}

// -----------------------------------------------------------------------------
// Helpers
// -----------------------------------------------------------------------------

func parseAddresses(raw string) []common.Address {
	parts := splitCSV(raw)
	out := make([]common.Address, 0, len(parts))
	for _, p := range parts {
		out = append(out, common.HexToAddress(p))
	}
	return out
}

func ensureDir(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create datadir %s: %w", dir, err)
	}
	return nil
}

func resolvePath(p string) string {
	if strings.HasPrefix(p, "~") {
		return filepath.Join(GuessHomeDir(), strings.TrimPrefix(p, "~"))
	}
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(GuessWorkDir(), p)
}

func splitCSV(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := parts[:0]
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

func GuessWorkDir() string {
	if wd, err := os.Getwd(); err == nil {
		return wd
	}
	return "."
}

func GuessHomeDir() string {
	if dir, err := os.UserHomeDir(); err == nil {
		return dir
	}
	return "."
}
