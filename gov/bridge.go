// The execution bridge: queue/execute choreography against the external
// timelock.

package gov

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/sirupsen/logrus"
)

// Queue schedules every call of a Succeeded proposal on the timelock at
// eta = now + the timelock's delay, then removes the proposal from the
// active set. Queueing is permissionless: once a proposal has succeeded,
// anyone may push it toward execution.
func (g *Governance) Queue(caller common.Address, id uint64) (Timestamp, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	st, err := g.resolve(id)
	if err != nil {
		return 0, err
	}
	if st != StateSucceeded {
		return 0, ErrInvalidStatus
	}
	p, _ := g.store.get(id)
	eta := g.now() + g.timelock.Delay()
	for _, c := range p.Calls {
		if _, err := g.timelock.QueueTransaction(c, eta); err != nil {
			return 0, fmt.Errorf("queue proposal %d: %w", id, err)
		}
	}
	p.Eta = eta
	if err := g.store.removeActive(id); err != nil {
		// A Succeeded proposal is an active-set member by invariant; if it
		// is not, the bookkeeping is corrupt.
		g.log.WithField("id", id).Error("queued proposal missing from active set")
		return 0, err
	}

	g.journal.append(&ProposalQueued{ID: id, Eta: eta})
	g.log.WithFields(logrus.Fields{
		"id":     id,
		"caller": caller.Hex(),
		"eta":    uint64(eta),
	}).Info("proposal queued")
	return eta, nil
}

// Execute dispatches every call of a Queued proposal through the timelock,
// in original order, using the stored eta.
//
// The executed latch is set, and the proposer's proposals-passed counter is
// credited, before the calls are forwarded. A dispatch failure therefore
// leaves executed=true with no rollback. This mirrors the original
// contract's observable behavior and is deliberate: once dispatch begins
// the proposal must never become re-queueable, and partial-failure recovery
// belongs to the timelock's side of the boundary.
func (g *Governance) Execute(caller common.Address, id uint64) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	st, err := g.resolve(id)
	if err != nil {
		return err
	}
	if st != StateQueued {
		return ErrInvalidStatus
	}
	p, _ := g.store.get(id)
	g.store.bumpPassed(p.Proposer)
	p.Executed = true
	for _, c := range p.Calls {
		if _, err := g.timelock.ExecuteTransaction(c, p.Eta); err != nil {
			g.log.WithFields(logrus.Fields{
				"id":     id,
				"target": c.Target.Hex(),
			}).WithError(err).Error("proposal call dispatch failed")
			return fmt.Errorf("execute proposal %d: %w", id, err)
		}
	}

	g.journal.append(&ProposalExecuted{ID: id})
	g.log.WithFields(logrus.Fields{
		"id":     id,
		"caller": caller.Hex(),
	}).Info("proposal executed")
	return nil
}
