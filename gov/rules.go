// Governance tuning rules and their hardcoded bounds.
//
// Rules play the same role for the governance engine that network rules play
// for the node: a named bundle of consensus-critical parameters with presets
// for mainnet, testnet, and local fake networks. The basis-point parameters
// only shape *future* proposals; every proposal snapshots its absolute
// threshold and quorum at creation, so changing the rules never retroactively
// affects an in-flight vote.

package gov

import (
	"encoding/json"
	"time"
)

// Hardcoded bounds for the four global tuning parameters. Setters reject
// values outside these ranges with ErrParameterOutOfBounds.
const (
	// MinVotingDelay / MaxVotingDelay bound the wait between proposal
	// creation and the opening of its voting window.
	MinVotingDelay = Timestamp(time.Minute / time.Second)
	MaxVotingDelay = Timestamp(7 * 24 * time.Hour / time.Second)

	// MinVotingPeriod / MaxVotingPeriod bound the length of the voting window.
	MinVotingPeriod = Timestamp(time.Hour / time.Second)
	MaxVotingPeriod = Timestamp(30 * 24 * time.Hour / time.Second)

	// MinProposalThresholdBPS / MaxProposalThresholdBPS bound the voting
	// power required to submit a proposal: 0.01% .. 10% of total power.
	MinProposalThresholdBPS uint64 = 1
	MaxProposalThresholdBPS uint64 = 1000

	// MinQuorumVotesBPS / MaxQuorumVotesBPS bound the for-vote weight
	// required for a proposal to succeed: 2% .. 20% of total power.
	MinQuorumVotesBPS uint64 = 200
	MaxQuorumVotesBPS uint64 = 2000
)

// Rules bundles the governance engine's global tuning parameters.
type Rules struct {
	// Name identifies the preset (e.g. "main", "test", "fake").
	Name string

	// VotingDelay is the wait between creation and StartTime.
	VotingDelay Timestamp
	// VotingPeriod is the length of the voting window.
	VotingPeriod Timestamp

	// ProposalThresholdBPS is the submission threshold as a basis-point
	// fraction of total voting power.
	ProposalThresholdBPS uint64
	// QuorumVotesBPS is the quorum as a basis-point fraction of total
	// voting power.
	QuorumVotesBPS uint64

	// ProposalRefund / VotingRefund toggle the off-engine gas refund
	// bookkeeping for proposers and voters. The engine records the toggles;
	// the actual cost accounting lives outside the state machine.
	ProposalRefund bool
	VotingRefund   bool
}

// Validate checks every tunable against its hardcoded range.
func (r Rules) Validate() error {
	if r.VotingDelay < MinVotingDelay || r.VotingDelay > MaxVotingDelay {
		return ErrParameterOutOfBounds
	}
	if r.VotingPeriod < MinVotingPeriod || r.VotingPeriod > MaxVotingPeriod {
		return ErrParameterOutOfBounds
	}
	if r.ProposalThresholdBPS < MinProposalThresholdBPS || r.ProposalThresholdBPS > MaxProposalThresholdBPS {
		return ErrParameterOutOfBounds
	}
	if r.QuorumVotesBPS < MinQuorumVotesBPS || r.QuorumVotesBPS > MaxQuorumVotesBPS {
		return ErrParameterOutOfBounds
	}
	return nil
}

// MainNetRules returns the production governance configuration: a two-day
// review delay, a five-day voting window, and conservative thresholds.
func MainNetRules() Rules {
	return Rules{
		Name:                 "main",
		VotingDelay:          DurationOf(2 * 24 * time.Hour),
		VotingPeriod:         DurationOf(5 * 24 * time.Hour),
		ProposalThresholdBPS: 50,  // 0.5% of total voting power to propose
		QuorumVotesBPS:       400, // 4% of total voting power to pass
		ProposalRefund:       false,
		VotingRefund:         false,
	}
}

// TestNetRules returns the testnet configuration. Same thresholds as
// mainnet, shorter windows so test rounds complete within a day.
func TestNetRules() Rules {
	return Rules{
		Name:                 "test",
		VotingDelay:          DurationOf(time.Hour),
		VotingPeriod:         DurationOf(6 * time.Hour),
		ProposalThresholdBPS: 50,
		QuorumVotesBPS:       400,
		ProposalRefund:       true,
		VotingRefund:         true,
	}
}

// FakeNetRules returns the configuration for local fake networks: minimum
// legal windows and the loosest thresholds, so a full
// propose/verify/vote/queue/execute round can be driven by a scripted clock.
func FakeNetRules() Rules {
	return Rules{
		Name:                 "fake",
		VotingDelay:          MinVotingDelay,
		VotingPeriod:         MinVotingPeriod,
		ProposalThresholdBPS: MinProposalThresholdBPS,
		QuorumVotesBPS:       MinQuorumVotesBPS,
		ProposalRefund:       true,
		VotingRefund:         true,
	}
}

// Copy returns a copy of the rules. Rules currently hold no reference types,
// but callers go through Copy so adding one later cannot introduce shared
// state.
func (r Rules) Copy() Rules {
	return r
}

// String returns a JSON representation for logs and config dumps.
func (r Rules) String() string {
	b, _ := json.Marshal(&r)
	return string(b)
}
