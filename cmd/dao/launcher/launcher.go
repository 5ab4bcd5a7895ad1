// The launcher assembles the governance node: logger, ledger, timelock
// executor, and the governance engine, wired per the merged configuration.
// On --fakenet it additionally drives one scripted
// propose→verify→vote→queue→execute round against a synthetic stake table,
// which doubles as a smoke test of the whole pipeline.

package launcher

import (
	"fmt"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/evalphobia/logrus_sentry"
	"github.com/sirupsen/logrus"
	"gopkg.in/urfave/cli.v1"

	"github.com/rony4d/go-opera-dao/flags"
	"github.com/rony4d/go-opera-dao/gov"
	"github.com/rony4d/go-opera-dao/gov/ledger"
	"github.com/rony4d/go-opera-dao/gov/timelock"
)

var app = flags.NewApp()

func init() {
	app.Flags = append(app.Flags, flags.CommonFlags()...)
	app.Flags = append(app.Flags, flags.GovFlags()...)
	app.Flags = append(app.Flags, flags.TimelockFlags()...)
	app.Flags = append(app.Flags, flags.FakeNetFlags()...)
	app.Action = runNode
}

// Launch parses flags and starts the governance node.
func Launch(args []string) error {
	return app.Run(args)
}

func runNode(ctx *cli.Context) error {
	cfg, err := MakeAllConfigs(ctx)
	if err != nil {
		return err
	}
	logger, err := makeLogger(cfg)
	if err != nil {
		return err
	}

	n, err := assemble(cfg, logger)
	if err != nil {
		return err
	}
	logger.WithFields(logrus.Fields{
		"name":    cfg.Node.Name,
		"datadir": cfg.Node.DataDir,
		"rules":   n.engine.Rules().Name,
	}).Info("governance node assembled")

	if cfg.FakeNet.Enabled {
		return runFakeRound(cfg, n, logger)
	}
	logger.Info("no fakenet requested; engine is ready for embedding")
	return nil
}

// node bundles the assembled runtime pieces.
type node struct {
	engine   *gov.Governance
	executor *timelock.Executor
	stakes   *ledger.StakeLedger
}

// makeLogger configures logrus from the logging config and installs the
// optional sentry hook.
func makeLogger(cfg Config) (*logrus.Logger, error) {
	logger := logrus.New()

	switch {
	case cfg.Logging.Verbosity <= 0:
		logger.SetLevel(logrus.FatalLevel)
	case cfg.Logging.Verbosity == 1:
		logger.SetLevel(logrus.ErrorLevel)
	case cfg.Logging.Verbosity == 2:
		logger.SetLevel(logrus.WarnLevel)
	case cfg.Logging.Verbosity == 3:
		logger.SetLevel(logrus.InfoLevel)
	case cfg.Logging.Verbosity == 4:
		logger.SetLevel(logrus.DebugLevel)
	default:
		logger.SetLevel(logrus.TraceLevel)
	}

	if cfg.Logging.Format == "json" {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{
			ForceColors:   cfg.Logging.Color,
			DisableColors: !cfg.Logging.Color,
			FullTimestamp: true,
		})
	}

	if cfg.Sentry.DSN != "" {
		hook, err := logrus_sentry.NewSentryHook(cfg.Sentry.DSN, []logrus.Level{
			logrus.PanicLevel,
			logrus.FatalLevel,
			logrus.ErrorLevel,
		})
		if err != nil {
			return nil, fmt.Errorf("sentry hook: %w", err)
		}
		logger.Hooks.Add(hook)
	}
	return logger, nil
}

// assemble wires the ledger, the timelock executor, the role table, and the
// governance engine together.
func assemble(cfg Config, logger *logrus.Logger) (*node, error) {
	stakes, err := ledger.NewStakeLedger(LedgerAddress, logger)
	if err != nil {
		return nil, err
	}
	executor, err := timelock.NewExecutor(
		gov.DurationOf(cfg.Timelock.Delay),
		gov.DurationOf(cfg.Timelock.Grace),
		nil,
		logger,
	)
	if err != nil {
		return nil, err
	}
	auth, err := gov.NewAuthority(cfg.Governance.Admins, TimelockAddress)
	if err != nil {
		return nil, err
	}
	engine, err := gov.New(cfg.Governance.Rules, auth, stakes, executor, logger)
	if err != nil {
		return nil, err
	}
	return &node{engine: engine, executor: executor, stakes: stakes}, nil
}

// runFakeRound seeds a synthetic stake table and drives one full lifecycle
// round with a scripted clock, logging every transition.
func runFakeRound(cfg Config, n *node, logger *logrus.Logger) error {
	log := logger.WithField("module", "fakenet")

	// Scripted clock shared by the engine and the executor.
	now := gov.TimestampOf(time.Now())
	clock := func() gov.Timestamp { return now }
	n.engine.SetClock(clock)
	n.executor.SetClock(clock)

	// Deterministic synthetic accounts: 1..Accounts.
	accounts := make([]common.Address, cfg.FakeNet.Accounts)
	genesis := make(map[common.Address]*big.Int, cfg.FakeNet.Accounts)
	for i := range accounts {
		accounts[i] = common.BigToAddress(big.NewInt(int64(i + 1)))
		genesis[accounts[i]] = new(big.Int).SetUint64(cfg.FakeNet.Stake)
	}
	if err := n.stakes.Bootstrap(genesis); err != nil {
		return err
	}

	rules := n.engine.Rules()
	proposer := accounts[0]
	admin := cfg.Governance.Admins[0]

	id, err := n.engine.Propose(proposer, []gov.Call{{
		Target:    TimelockAddress,
		Value:     new(big.Int),
		Signature: "setPendingAdmin(address)",
		Data:      proposer.Bytes(),
	}}, "fakenet smoke round")
	if err != nil {
		return err
	}
	if err := n.engine.Verify(admin, id); err != nil {
		return err
	}

	// Open the window and vote with every account.
	now += rules.VotingDelay + 1
	for _, voter := range accounts {
		if _, err := n.engine.CastVote(voter, id, gov.VoteFor); err != nil {
			return err
		}
	}

	// Close the window, queue, mature, execute.
	now += rules.VotingPeriod + 1
	eta, err := n.engine.Queue(common.Address{1}, id)
	if err != nil {
		return err
	}
	now = eta + 1
	if err := n.engine.Execute(common.Address{1}, id); err != nil {
		return err
	}

	st, err := n.engine.State(id)
	if err != nil {
		return err
	}
	log.WithFields(logrus.Fields{
		"id":     id,
		"state":  st.String(),
		"events": n.engine.Journal().Len(),
	}).Info("fakenet round complete")
	return nil
}
