package flags

import (
	"time"

	"gopkg.in/urfave/cli.v1"
)

// GovFlags covers the governance engine's tuning parameters. Values are
// validated against the hardcoded bounds when the engine is assembled.

func GovFlags() []cli.Flag {
	return []cli.Flag{
		cli.StringFlag{
			Name:  "gov.rules",
			Usage: "Governance rules preset (main|test|fake)",
			Value: "main",
		},
		cli.DurationFlag{
			Name:  "gov.votingdelay",
			Usage: "Wait between proposal creation and the opening of its voting window",
		},
		cli.DurationFlag{
			Name:  "gov.votingperiod",
			Usage: "Length of the voting window",
		},
		cli.Uint64Flag{
			Name:  "gov.thresholdbps",
			Usage: "Proposal threshold in basis points of total voting power",
		},
		cli.Uint64Flag{
			Name:  "gov.quorumbps",
			Usage: "Quorum in basis points of total voting power",
		},
		cli.BoolFlag{
			Name:  "gov.refund.proposing",
			Usage: "Enable gas-refund bookkeeping for proposers",
		},
		cli.BoolFlag{
			Name:  "gov.refund.voting",
			Usage: "Enable gas-refund bookkeeping for voters",
		},
		cli.StringFlag{
			Name:  "gov.admins",
			Usage: "Comma-separated hex addresses holding the admin role",
		},
	}
}

// TimelockFlags isolates the delayed-execution knobs.
func TimelockFlags() []cli.Flag {
	return []cli.Flag{
		cli.DurationFlag{
			Name:  "timelock.delay",
			Usage: "Mandatory wait between queueing and execution",
			Value: 2 * 24 * time.Hour,
		},
		cli.DurationFlag{
			Name:  "timelock.grace",
			Usage: "Window after eta in which execution is allowed",
			Value: 14 * 24 * time.Hour,
		},
	}
}

// FakeNetFlags configures the synthetic local network used for development.
func FakeNetFlags() []cli.Flag {
	return []cli.Flag{
		cli.BoolFlag{
			Name:  "fakenet",
			Usage: "Run a local fake network with a scripted governance round",
		},
		cli.IntFlag{
			Name:  "fakenet.accounts",
			Usage: "Number of synthetic staker accounts to seed",
			Value: 5,
		},
		cli.Uint64Flag{
			Name:  "fakenet.stake",
			Usage: "Stake assigned to each synthetic account",
			Value: 1000,
		},
	}
}
