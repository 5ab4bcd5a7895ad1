// Package gov implements the on-chain governance engine: proposal lifecycle,
// weighted voting, tallying, and the choreography against the delayed-execution
// timelock. This file contains the core data structures shared by every
// component of the engine.
//
// Key concepts:
//   - Proposal: a batch of privileged calls submitted for a weighted yes/no/abstain vote
//   - Call: a single (target, value, signature, calldata) action inside a proposal
//   - Receipt: immutable record of one voter's participation in one proposal
//   - CommunityScore: per-address participation counters maintained by the engine
//
// Usage:
//
//	p, err := engine.Proposal(id)
//	st, err := engine.State(id)
//	weight, err := engine.CastVote(voter, id, gov.VoteFor)
//
// Proposals are produced by the lifecycle engine (Propose/Verify) and consumed
// by the voting engine and the execution bridge. All weights are *big.Int so
// the engine is agnostic to the ledger's token precision.

package gov

import (
	"math/big"
	"time"

	"github.com/Fantom-foundation/lachesis-base/common/bigendian"
	"github.com/Fantom-foundation/lachesis-base/hash"
	"github.com/ethereum/go-ethereum/common"
)

// MaxOperations bounds the number of calls a single proposal may carry.
const MaxOperations = 10

// BPSDenominator is the basis-point denominator: thresholds are expressed
// as parts per 10,000 of the ledger's total voting power.
const BPSDenominator = 10000

// Timestamp is a UNIX timestamp in seconds. It is also used for durations
// (voting delay, voting period, timelock delay/grace), mirroring how the
// network rules express epoch durations.
type Timestamp uint64

// TimestampOf converts a wall-clock time to a Timestamp.
func TimestampOf(t time.Time) Timestamp {
	return Timestamp(t.Unix())
}

// DurationOf converts a time.Duration to a Timestamp span (whole seconds).
func DurationOf(d time.Duration) Timestamp {
	return Timestamp(d / time.Second)
}

// Time converts the Timestamp back to wall-clock time.
func (t Timestamp) Time() time.Time {
	return time.Unix(int64(t), 0)
}

// Bytes returns the big-endian encoding of the Timestamp, used as digest material.
func (t Timestamp) Bytes() []byte {
	return bigendian.Uint64ToBytes(uint64(t))
}

// VoteSupport encodes a voter's position on a proposal.
type VoteSupport uint8

const (
	// VoteAgainst counts the voter's weight against the proposal.
	VoteAgainst VoteSupport = 0
	// VoteFor counts the voter's weight for the proposal.
	VoteFor VoteSupport = 1
	// VoteAbstain counts the voter's weight as present but neutral.
	VoteAbstain VoteSupport = 2
)

// Valid reports whether the support value is one of the three defined positions.
func (s VoteSupport) Valid() bool {
	return s <= VoteAbstain
}

func (s VoteSupport) String() string {
	switch s {
	case VoteAgainst:
		return "against"
	case VoteFor:
		return "for"
	case VoteAbstain:
		return "abstain"
	}
	return "invalid"
}

// Call is a single privileged action carried by a proposal. The engine never
// interprets the payload; it forwards the tuple verbatim to the timelock.
type Call struct {
	// Target is the account the call is addressed to.
	Target common.Address
	// Value is the native token amount forwarded with the call.
	Value *big.Int
	// Signature is the function signature the calldata is encoded against,
	// e.g. "setParameter(uint256)". May be empty for raw calls.
	Signature string
	// Data is the ABI-encoded argument payload.
	Data []byte
}

// Copy returns a deep copy of the call. Value and Data are owned by the
// store once a proposal is recorded, so callers get copies back.
func (c Call) Copy() Call {
	cp := c
	if c.Value != nil {
		cp.Value = new(big.Int).Set(c.Value)
	}
	cp.Data = append([]byte(nil), c.Data...)
	return cp
}

// Digest returns a deterministic fingerprint of the call, bound to the given
// execution-ready time. The timelock keys its queued set by this digest, so a
// proposal re-queued at a different eta never collides with a stale entry.
func (c Call) Digest(eta Timestamp) hash.Hash {
	value := c.Value
	if value == nil {
		value = new(big.Int)
	}
	return hash.Of(
		c.Target.Bytes(),
		value.Bytes(),
		[]byte(c.Signature),
		c.Data,
		eta.Bytes(),
	)
}

// Receipt records one voter's participation in one proposal's vote.
// Once written it is never overwritten.
type Receipt struct {
	// HasVoted latches once the voter's weight has been tallied.
	HasVoted bool
	// Support is the position the voter took.
	Support VoteSupport
	// Votes is the weight that was counted, read from the ledger at vote time.
	Votes *big.Int
}

// Copy returns a deep copy of the receipt.
func (r Receipt) Copy() Receipt {
	cp := r
	if r.Votes != nil {
		cp.Votes = new(big.Int).Set(r.Votes)
	}
	return cp
}

// CommunityScore tracks an address's governance participation. The aggregate
// score uses the same shape with the counters summed over all addresses.
type CommunityScore struct {
	// ProposalsCreated counts proposals by this address that passed verification.
	ProposalsCreated uint64
	// ProposalsPassed counts proposals by this address that reached execution.
	ProposalsPassed uint64
	// VotesCast counts votes this address has cast.
	VotesCast uint64
}

// Proposal is the durable record of one submission. Records are never
// deleted; the lifecycle flags and the resolver derive the current state.
type Proposal struct {
	// ID is the 1-based sequence number; 0 is the "no proposal" sentinel.
	ID uint64
	// Proposer is the submitting account.
	Proposer common.Address
	// Calls is the ordered action payload, 1..MaxOperations entries.
	Calls []Call
	// Description is the free-form human-readable rationale.
	Description string

	// StartTime and EndTime bound the voting window. Both are fixed at
	// creation from the rules in force at that moment.
	StartTime Timestamp
	EndTime   Timestamp
	// Eta is the execution-ready time; zero until the proposal is queued.
	Eta Timestamp

	// ProposalThreshold and QuorumVotes are absolute weights snapshotted at
	// creation from the ledger's total voting power and the basis-point
	// parameters. Later parameter changes never touch an in-flight proposal.
	ProposalThreshold *big.Int
	QuorumVotes       *big.Int

	// Tallies. Monotonically non-decreasing, mutated only during the
	// Active window.
	ForVotes     *big.Int
	AgainstVotes *big.Int
	AbstainVotes *big.Int

	// One-way latches. At most one of Canceled/Vetoed/Executed ever becomes
	// true for a given proposal.
	Verified bool
	Canceled bool
	Vetoed   bool
	Executed bool
}

// Copy returns a deep copy of the proposal so callers cannot mutate the
// store's record through the returned value.
func (p *Proposal) Copy() *Proposal {
	cp := *p
	cp.Calls = make([]Call, len(p.Calls))
	for i, c := range p.Calls {
		cp.Calls[i] = c.Copy()
	}
	cp.ProposalThreshold = new(big.Int).Set(p.ProposalThreshold)
	cp.QuorumVotes = new(big.Int).Set(p.QuorumVotes)
	cp.ForVotes = new(big.Int).Set(p.ForVotes)
	cp.AgainstVotes = new(big.Int).Set(p.AgainstVotes)
	cp.AbstainVotes = new(big.Int).Set(p.AbstainVotes)
	return &cp
}

// Digest returns a fingerprint of the proposal's immutable identity: the
// proposer, the action payload, and the voting window.
func (p *Proposal) Digest() hash.Hash {
	material := make([][]byte, 0, len(p.Calls)+4)
	material = append(material,
		bigendian.Uint64ToBytes(p.ID),
		p.Proposer.Bytes(),
		p.StartTime.Bytes(),
		p.EndTime.Bytes(),
	)
	for _, c := range p.Calls {
		d := c.Digest(0)
		material = append(material, d.Bytes())
	}
	return hash.Of(material...)
}

// VotesLedger is the external voting-power source consumed by the engine.
// The engine reads weights at call time and never snapshots balances itself.
type VotesLedger interface {
	// GetVotes returns the current voting power of an account.
	GetVotes(addr common.Address) *big.Int
	// GetTotalVotingPower returns the denominator for basis-point thresholds.
	GetTotalVotingPower() *big.Int
	// Address identifies the ledger; only this identity may invoke the
	// community-score callback.
	Address() common.Address
}

// Timelock is the external delayed-execution collaborator. One call is
// forwarded per proposal action; the engine never batches.
type Timelock interface {
	// Delay returns the mandatory wait between queueing and execution.
	Delay() Timestamp
	// GracePeriod returns the window after eta in which execution is allowed.
	GracePeriod() Timestamp
	// QueueTransaction schedules a call for execution at eta.
	QueueTransaction(c Call, eta Timestamp) (hash.Hash, error)
	// CancelTransaction removes a scheduled call. Canceling a call that is
	// not scheduled is a no-op, which keeps schedule-undo idempotent.
	CancelTransaction(c Call, eta Timestamp) error
	// ExecuteTransaction dispatches a scheduled call once eta has elapsed.
	ExecuteTransaction(c Call, eta Timestamp) ([]byte, error)
}

// bpsOf scales a total weight by a basis-point fraction, rounding down.
func bpsOf(total *big.Int, bps uint64) *big.Int {
	out := new(big.Int).Mul(total, new(big.Int).SetUint64(bps))
	return out.Div(out, big.NewInt(BPSDenominator))
}
