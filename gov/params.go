// The parameter governor: bounded-range setters for the global tuning
// parameters, the refund toggles, and the voting-power-source migration.
//
// The voting windows may only be retuned by the execution-delay authority
// (i.e. through a passed proposal flowing back via the timelock). The
// basis-point thresholds may additionally be adjusted by administrators.
// None of the setters touch in-flight proposals: thresholds and windows are
// snapshotted per proposal at creation.

package gov

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/sirupsen/logrus"
)

// SetVotingDelay retunes the wait between proposal creation and the opening
// of its voting window. Executor-only.
func (g *Governance) SetVotingDelay(caller common.Address, delay Timestamp) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if err := g.auth.requireExecutor(caller); err != nil {
		return err
	}
	if delay < MinVotingDelay || delay > MaxVotingDelay {
		return ErrParameterOutOfBounds
	}
	old := g.rules.VotingDelay
	g.rules.VotingDelay = delay
	g.recordParamChange("votingDelay", uint64(old), uint64(delay))
	return nil
}

// SetVotingPeriod retunes the length of the voting window. Executor-only.
func (g *Governance) SetVotingPeriod(caller common.Address, period Timestamp) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if err := g.auth.requireExecutor(caller); err != nil {
		return err
	}
	if period < MinVotingPeriod || period > MaxVotingPeriod {
		return ErrParameterOutOfBounds
	}
	old := g.rules.VotingPeriod
	g.rules.VotingPeriod = period
	g.recordParamChange("votingPeriod", uint64(old), uint64(period))
	return nil
}

// SetProposalThresholdBPS retunes the submission threshold. Executor or admin.
func (g *Governance) SetProposalThresholdBPS(caller common.Address, bps uint64) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if err := g.auth.requireExecutorOrAdmin(caller); err != nil {
		return err
	}
	if bps < MinProposalThresholdBPS || bps > MaxProposalThresholdBPS {
		return ErrParameterOutOfBounds
	}
	old := g.rules.ProposalThresholdBPS
	g.rules.ProposalThresholdBPS = bps
	g.recordParamChange("proposalThresholdBPS", old, bps)
	return nil
}

// SetQuorumVotesBPS retunes the quorum. Executor or admin.
func (g *Governance) SetQuorumVotesBPS(caller common.Address, bps uint64) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if err := g.auth.requireExecutorOrAdmin(caller); err != nil {
		return err
	}
	if bps < MinQuorumVotesBPS || bps > MaxQuorumVotesBPS {
		return ErrParameterOutOfBounds
	}
	old := g.rules.QuorumVotesBPS
	g.rules.QuorumVotesBPS = bps
	g.recordParamChange("quorumVotesBPS", old, bps)
	return nil
}

// SetProposalRefund toggles the proposer gas-refund bookkeeping. Executor or
// admin; the toggle carries no bounds.
func (g *Governance) SetProposalRefund(caller common.Address, enabled bool) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if err := g.auth.requireExecutorOrAdmin(caller); err != nil {
		return err
	}
	old := boolToUint(g.rules.ProposalRefund)
	g.rules.ProposalRefund = enabled
	g.recordParamChange("proposalRefund", old, boolToUint(enabled))
	return nil
}

// SetVotingRefund toggles the voter gas-refund bookkeeping. Executor or admin.
func (g *Governance) SetVotingRefund(caller common.Address, enabled bool) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if err := g.auth.requireExecutorOrAdmin(caller); err != nil {
		return err
	}
	old := boolToUint(g.rules.VotingRefund)
	g.rules.VotingRefund = enabled
	g.recordParamChange("votingRefund", old, boolToUint(enabled))
	return nil
}

// SetVotingSource replaces the voting-power ledger reference wholesale.
// Executor-only. Future weight reads and the community-score callback
// authorization follow the new source immediately; existing proposals keep
// their snapshotted thresholds.
func (g *Governance) SetVotingSource(caller common.Address, src VotesLedger) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if err := g.auth.requireExecutor(caller); err != nil {
		return err
	}
	if src == nil || src.Address() == (common.Address{}) {
		return ErrZeroAddress
	}
	old := g.ledger.Address()
	g.ledger = src

	g.journal.append(&VotingSourceChanged{Old: old, New: src.Address()})
	g.log.WithFields(logrus.Fields{
		"old": old.Hex(),
		"new": src.Address().Hex(),
	}).Info("voting source migrated")
	return nil
}

func (g *Governance) recordParamChange(name string, old, new_ uint64) {
	g.journal.append(&ParameterChanged{Name: name, Old: old, New: new_})
	g.log.WithFields(logrus.Fields{
		"param": name,
		"old":   old,
		"new":   new_,
	}).Info("parameter changed")
}

func boolToUint(b bool) uint64 {
	if b {
		return 1
	}
	return 0
}
