package gov

import "errors"

// Every failure is synchronous and aborts the whole operation with no partial
// state change. No retries happen inside the engine; callers retry at the
// right lifecycle stage.
var (
	// ErrInvalidID indicates a proposal id outside 1..proposalCount.
	ErrInvalidID = errors.New("gov: invalid proposal id")

	// ErrInvalidProposal indicates a malformed action payload.
	ErrInvalidProposal = errors.New("gov: invalid proposal payload")

	// ErrInvalidStatus indicates an operation attempted from the wrong
	// lifecycle state.
	ErrInvalidStatus = errors.New("gov: invalid proposal status")

	// ErrInvalidInput indicates a malformed vote support value.
	ErrInvalidInput = errors.New("gov: invalid input")

	// ErrNotEligible indicates the caller lacks the required voting power or
	// standing: below the proposal threshold, already holding a live
	// proposal, or attempting an unauthorized cancel.
	ErrNotEligible = errors.New("gov: caller not eligible")

	// ErrAlreadyVoted indicates the voter already holds a receipt for the
	// proposal.
	ErrAlreadyVoted = errors.New("gov: voter already voted")

	// ErrNotInActiveProposals indicates an active-set removal for an id that
	// is not a member. On the strict paths (queue/cancel/veto) this is
	// unreachable while the invariants hold, so its occurrence is a fatal
	// bug signal.
	ErrNotInActiveProposals = errors.New("gov: proposal not in active set")

	// ErrUnauthorized indicates a failed role check.
	ErrUnauthorized = errors.New("gov: caller not authorized")

	// ErrParameterOutOfBounds indicates a tuning value outside its
	// hardcoded [min,max] range.
	ErrParameterOutOfBounds = errors.New("gov: parameter out of bounds")

	// ErrAlreadyInitialized indicates a one-shot setup operation invoked twice.
	ErrAlreadyInitialized = errors.New("gov: already initialized")

	// ErrZeroAddress indicates a zero address where an identity is required.
	ErrZeroAddress = errors.New("gov: zero address")
)
