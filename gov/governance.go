// The governance engine: proposal lifecycle, eligibility, and transition
// legality.
//
// The engine executes in a strictly serialized, single-writer model: every
// state transition (propose/verify/vote/queue/execute/cancel/veto/clear/
// parameter-set) runs to completion under one mutex with no interleaving.
// Correctness across "racing" transactions rests on the one-way latches
// (Verified, Canceled, Vetoed, Executed, per-voter HasVoted) acting as
// compare-and-set guards: a transition checks the latch, performs its
// side effects, and sets the latch before releasing the lock, so a second
// invocation always observes the latch and fails with ErrInvalidStatus.
//
// The engine mediates between two external collaborators:
//   - the voting-power ledger (VotesLedger), read for weights and totals;
//   - the delayed-execution timelock (Timelock), driven by the execution
//     bridge in bridge.go.
//
// An action scheduled on the timelock is never left dangling: cancel, veto,
// and clear all undo the schedule entry-by-entry when the proposal is in a
// queued or expired state, and the timelock's cancel is idempotent so the
// undo is safe to repeat.

package gov

import (
	"fmt"
	"math/big"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/sirupsen/logrus"
)

// Governance owns the aggregate governance state and serializes access to it.
type Governance struct {
	mu sync.Mutex

	log      *logrus.Entry
	rules    Rules
	auth     *Authority
	ledger   VotesLedger
	timelock Timelock
	store    *Store
	journal  *Journal

	// now is the clock; overridable for tests and scripted fake networks.
	now func() Timestamp
}

// New assembles a governance engine. The rules are validated against the
// hardcoded parameter bounds; nil collaborators are rejected.
func New(rules Rules, auth *Authority, ledger VotesLedger, timelock Timelock, logger *logrus.Logger) (*Governance, error) {
	if auth == nil || ledger == nil || timelock == nil {
		return nil, ErrZeroAddress
	}
	if err := rules.Validate(); err != nil {
		return nil, fmt.Errorf("invalid governance rules %s: %w", rules.Name, err)
	}
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	entry := logger.WithField("module", "gov")
	g := &Governance{
		log:      entry,
		rules:    rules.Copy(),
		auth:     auth,
		ledger:   ledger,
		timelock: timelock,
		store:    NewStore(),
		journal:  NewJournal(entry, 0),
		now: func() Timestamp {
			return TimestampOf(time.Now())
		},
	}
	return g, nil
}

// SetClock replaces the engine's time source. Used by tests and by the
// fakenet demo loop to drive the lifecycle with a scripted clock.
func (g *Governance) SetClock(now func() Timestamp) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.now = now
}

// Propose submits a new proposal. The caller must hold at least the
// threshold share of the ledger's current total voting power and must not
// already have a proposal in Pending or Active state. On success the
// proposal is recorded with threshold and quorum snapshots, its voting
// window is fixed, and it joins the active set.
func (g *Governance) Propose(proposer common.Address, calls []Call, description string) (uint64, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if proposer == (common.Address{}) {
		return 0, ErrZeroAddress
	}
	if len(calls) == 0 || len(calls) > MaxOperations {
		return 0, ErrInvalidProposal
	}
	for _, c := range calls {
		if c.Target == (common.Address{}) {
			return 0, ErrInvalidProposal
		}
	}

	total := g.ledger.GetTotalVotingPower()
	threshold := bpsOf(total, g.rules.ProposalThresholdBPS)
	if g.ledger.GetVotes(proposer).Cmp(threshold) < 0 {
		return 0, ErrNotEligible
	}

	// One live proposal per proposer. The 0 sentinel means "no proposal";
	// it never reaches the resolver.
	if latest := g.store.latestOf(proposer); latest != 0 {
		st, err := g.resolve(latest)
		if err != nil {
			return 0, err
		}
		if st == StatePending || st == StateActive {
			return 0, ErrNotEligible
		}
	}

	now := g.now()
	p := &Proposal{
		ID:                g.store.nextID(),
		Proposer:          proposer,
		Calls:             make([]Call, len(calls)),
		Description:       description,
		StartTime:         now + g.rules.VotingDelay,
		EndTime:           now + g.rules.VotingDelay + g.rules.VotingPeriod,
		ProposalThreshold: threshold,
		QuorumVotes:       bpsOf(total, g.rules.QuorumVotesBPS),
		ForVotes:          new(big.Int),
		AgainstVotes:      new(big.Int),
		AbstainVotes:      new(big.Int),
	}
	for i, c := range calls {
		p.Calls[i] = c.Copy()
	}
	g.store.insert(p)

	g.journal.append(&ProposalCreated{
		ID:          p.ID,
		Proposer:    p.Proposer,
		Calls:       p.Calls,
		StartTime:   p.StartTime,
		EndTime:     p.EndTime,
		Threshold:   p.ProposalThreshold,
		Quorum:      p.QuorumVotes,
		Description: p.Description,
	})
	g.log.WithFields(logrus.Fields{
		"id":       p.ID,
		"proposer": proposer.Hex(),
		"calls":    len(p.Calls),
		"start":    uint64(p.StartTime),
		"end":      uint64(p.EndTime),
	}).Info("proposal created")
	return p.ID, nil
}

// Verify is the admin confirmation that arms a proposal's voting window.
// Only a Pending proposal can be verified; verification also credits the
// proposer's (and the aggregate) proposals-created counter.
func (g *Governance) Verify(caller common.Address, id uint64) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if err := g.auth.requireAdmin(caller); err != nil {
		return err
	}
	st, err := g.resolve(id)
	if err != nil {
		return err
	}
	if st != StatePending {
		return ErrInvalidStatus
	}
	p, _ := g.store.get(id)
	p.Verified = true
	g.store.bumpCreated(p.Proposer)

	g.journal.append(&ProposalVerified{ID: id, Admin: caller})
	g.log.WithFields(logrus.Fields{"id": id, "admin": caller.Hex()}).Info("proposal verified")
	return nil
}

// Cancel withdraws a proposal. The proposer may cancel at any point before
// the proposal is executed, canceled, or vetoed. Anyone may cancel a stale
// proposal that was never verified once its voting window has ended. If the
// proposal is already scheduled, the schedule is undone entry-by-entry;
// otherwise the proposal leaves the active set.
func (g *Governance) Cancel(caller common.Address, id uint64) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	p, err := g.store.get(id)
	if err != nil {
		return err
	}
	if p.Executed || p.Canceled || p.Vetoed {
		return ErrInvalidStatus
	}
	now := g.now()
	if caller != p.Proposer && !(!p.Verified && now > p.EndTime) {
		return ErrNotEligible
	}
	if err := g.retire(p); err != nil {
		return err
	}
	p.Canceled = true

	g.journal.append(&ProposalCanceled{ID: id, Caller: caller})
	g.log.WithFields(logrus.Fields{"id": id, "caller": caller.Hex()}).Info("proposal canceled")
	return nil
}

// Veto strikes a proposal down. Admin-only; subject to the same latch rules
// and schedule-undo as Cancel.
func (g *Governance) Veto(caller common.Address, id uint64) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if err := g.auth.requireAdmin(caller); err != nil {
		return err
	}
	p, err := g.store.get(id)
	if err != nil {
		return err
	}
	if p.Executed || p.Canceled || p.Vetoed {
		return ErrInvalidStatus
	}
	if err := g.retire(p); err != nil {
		return err
	}
	p.Vetoed = true

	g.journal.append(&ProposalVetoed{ID: id, Admin: caller})
	g.log.WithFields(logrus.Fields{"id": id, "admin": caller.Hex()}).Info("proposal vetoed")
	return nil
}

// Clear is permissionless garbage collection for proposals that decayed
// without ever reaching execution: Expired (queued but never executed in
// time) or Defeated. It performs the same schedule-undo or active-set
// removal as Cancel but deliberately sets no latch, distinguishing
// housekeeping from an explicit cancellation. Clearing an already-cleared
// proposal is a no-op.
func (g *Governance) Clear(caller common.Address, id uint64) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	st, err := g.resolve(id)
	if err != nil {
		return err
	}
	if st != StateExpired && st != StateDefeated {
		return ErrNotEligible
	}
	p, _ := g.store.get(id)
	if err := g.retire(p); err != nil {
		// A repeated clear finds the proposal already out of the active
		// set; that is the idempotent case, not a consistency failure.
		if err != ErrNotInActiveProposals {
			return err
		}
		return nil
	}

	g.journal.append(&ProposalCleared{ID: id, Caller: caller})
	g.log.WithFields(logrus.Fields{"id": id, "state": st.String()}).Info("proposal cleared")
	return nil
}

// retire takes a proposal out of circulation: if it is scheduled on the
// timelock (Queued or Expired), every entry is unscheduled; otherwise it is
// removed from the active set. ErrNotInActiveProposals from the removal is
// surfaced to the caller, which decides whether it is fatal.
func (g *Governance) retire(p *Proposal) error {
	st := resolveState(p, g.now(), g.timelock.GracePeriod())
	if st == StateQueued || st == StateExpired {
		for _, c := range p.Calls {
			if err := g.timelock.CancelTransaction(c, p.Eta); err != nil {
				return fmt.Errorf("unschedule proposal %d: %w", p.ID, err)
			}
		}
		return nil
	}
	if err := g.store.removeActive(p.ID); err != nil {
		if err == ErrNotInActiveProposals {
			return err
		}
		return fmt.Errorf("retire proposal %d: %w", p.ID, err)
	}
	return nil
}

// resolve derives the current state of a stored proposal. The caller holds
// the engine lock.
func (g *Governance) resolve(id uint64) (ProposalState, error) {
	p, err := g.store.get(id)
	if err != nil {
		return 0, err
	}
	return resolveState(p, g.now(), g.timelock.GracePeriod()), nil
}

// State resolves the lifecycle state of a proposal at the current time.
// It is a pure read: calling it twice without intervening writes yields
// identical results.
func (g *Governance) State(id uint64) (ProposalState, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.resolve(id)
}

// Proposal returns a deep copy of the stored proposal record.
func (g *Governance) Proposal(id uint64) (*Proposal, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	p, err := g.store.get(id)
	if err != nil {
		return nil, err
	}
	return p.Copy(), nil
}

// GetReceipt returns a copy of the voter's receipt for the proposal, or
// a zero receipt when the voter has not voted.
func (g *Governance) GetReceipt(id uint64, voter common.Address) (Receipt, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if _, err := g.store.get(id); err != nil {
		return Receipt{}, err
	}
	r := g.store.receipt(id, voter)
	if r == nil {
		return Receipt{}, nil
	}
	return r.Copy(), nil
}

// GetActiveProposals returns the ids not yet queued, executed, canceled, or
// vetoed, in no particular order.
func (g *Governance) GetActiveProposals() []uint64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.store.activeIDs()
}

// ProposalCount returns the number of proposals ever created.
func (g *Governance) ProposalCount() uint64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.store.Count()
}

// CommunityScoreOf returns the participation counters of an address.
func (g *Governance) CommunityScoreOf(addr common.Address) CommunityScore {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.store.scoreOf(addr)
}

// AggregateScore returns the network-wide participation counters.
func (g *Governance) AggregateScore() CommunityScore {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.store.aggregate
}

// Rules returns a copy of the rules currently in force.
func (g *Governance) Rules() Rules {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.rules.Copy()
}

// Journal exposes the event journal.
func (g *Governance) Journal() *Journal {
	return g.journal
}

// UpdateCommunityScore is the ledger-only callback that overwrites one
// address's community score and the aggregate wholesale. The ledger uses it
// to fold a departing delegator's history into the aggregate while zeroing
// the live record. Any other caller is rejected.
func (g *Governance) UpdateCommunityScore(caller common.Address, member common.Address, score CommunityScore, aggregate CommunityScore) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if caller != g.ledger.Address() {
		return ErrUnauthorized
	}
	if member == (common.Address{}) {
		return ErrZeroAddress
	}
	g.store.overwriteScores(member, score, aggregate)

	g.journal.append(&ScoresSynced{Member: member})
	g.log.WithField("member", member.Hex()).Info("community scores synced by ledger")
	return nil
}
