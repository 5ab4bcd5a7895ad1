// Proposal lifecycle states and the resolver that derives them.
//
// The state of a proposal is never stored directly. It is a pure function of
// the stored record and the current time, so two reads without an intervening
// write always agree, and there is no stored status to drift out of sync with
// the flags. The resolver evaluates its rules in strict precedence order;
// reordering them changes the semantics (for example, an unverified proposal
// whose window has ended must resolve Canceled before the Pending rule gets
// a chance to fire).

package gov

// ProposalState is the resolved lifecycle state of a proposal.
type ProposalState uint8

const (
	// StatePending: the voting window has not opened, or the proposal has
	// not been verified by an administrator yet.
	StatePending ProposalState = iota
	// StateActive: the voting window is open and votes are being tallied.
	StateActive
	// StateCanceled: explicitly canceled, or left unverified past its window.
	StateCanceled
	// StateDefeated: the window closed with against >= for, or with for
	// votes short of the quorum snapshot.
	StateDefeated
	// StateSucceeded: the window closed with a passing tally; not yet queued.
	StateSucceeded
	// StateQueued: scheduled on the timelock, waiting for eta.
	StateQueued
	// StateExpired: queued but unexecuted past eta + the timelock grace period.
	StateExpired
	// StateExecuted: dispatched through the timelock.
	StateExecuted
	// StateVetoed: struck down by an administrator.
	StateVetoed
)

func (s ProposalState) String() string {
	switch s {
	case StatePending:
		return "pending"
	case StateActive:
		return "active"
	case StateCanceled:
		return "canceled"
	case StateDefeated:
		return "defeated"
	case StateSucceeded:
		return "succeeded"
	case StateQueued:
		return "queued"
	case StateExpired:
		return "expired"
	case StateExecuted:
		return "executed"
	case StateVetoed:
		return "vetoed"
	}
	return "unknown"
}

// Finalized reports whether the state is terminal for the active-set
// bookkeeping: a proposal leaves the active set when queued, executed,
// canceled, or vetoed.
func (s ProposalState) Finalized() bool {
	switch s {
	case StateQueued, StateExpired, StateExecuted, StateCanceled, StateVetoed:
		return true
	}
	return false
}

// resolveState derives the lifecycle state of a stored proposal at the given
// time. grace is the timelock's grace period, read by the caller.
//
// The precedence order is load-bearing:
//  1. Vetoed wins over everything, including Executed (the veto latch and the
//     executed latch are mutually exclusive by construction, so this case
//     never actually shadows an execution).
//  2. Canceled covers both the explicit latch and the implicit case of a
//     proposal whose window ended without ever being verified.
//  3. Pending covers both "window not open yet" and "not verified yet":
//     verification is what arms the Active window.
//  4. Active while now <= EndTime.
//  5. Defeated on a tie-or-loss tally, or on a quorum shortfall, regardless
//     of the for/against ratio.
//  6. Succeeded while eta is unset (passed, not yet queued).
//  7. Executed once the latch is set.
//  8. Expired once eta + grace has elapsed without execution.
//  9. Queued otherwise.
func resolveState(p *Proposal, now Timestamp, grace Timestamp) ProposalState {
	switch {
	case p.Vetoed:
		return StateVetoed
	case p.Canceled || (!p.Verified && now > p.EndTime):
		return StateCanceled
	case now < p.StartTime || !p.Verified:
		return StatePending
	case now <= p.EndTime:
		return StateActive
	case p.AgainstVotes.Cmp(p.ForVotes) >= 0 || p.ForVotes.Cmp(p.QuorumVotes) < 0:
		return StateDefeated
	case p.Eta == 0:
		return StateSucceeded
	case p.Executed:
		return StateExecuted
	case now >= p.Eta+grace:
		return StateExpired
	default:
		return StateQueued
	}
}
