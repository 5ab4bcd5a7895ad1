// The proposal store: durable records, per-voter receipts, the active-set
// working set, and the community-score counters.
//
// The store does no locking of its own. The engine serializes every mutating
// operation behind a single mutex (one writer, run-to-completion), so a given
// proposal's mutable fields are exclusively owned by the operation touching
// them. The store's job is bookkeeping, not policy: it enforces structural
// invariants (ids never reused, receipts never overwritten, active-set
// membership) and leaves lifecycle legality to the engine.

package gov

import (
	"github.com/ethereum/go-ethereum/common"
)

// Store holds every proposal ever created, their receipts, the active
// proposal set, and the community scores.
type Store struct {
	proposals map[uint64]*Proposal
	receipts  map[uint64]map[common.Address]*Receipt
	count     uint64

	// The active set is maintained, not derived: an id is a member iff the
	// proposal has not yet been queued, executed, canceled, or vetoed.
	// Removal is swap-with-last-and-shrink, so ordering is not guaranteed.
	active    []uint64
	activeIdx map[uint64]int

	// latest maps a proposer to their most recent proposal id, used to
	// enforce the one-live-proposal-per-proposer rule.
	latest map[common.Address]uint64

	scores    map[common.Address]CommunityScore
	aggregate CommunityScore
}

// NewStore returns an empty proposal store.
func NewStore() *Store {
	return &Store{
		proposals: make(map[uint64]*Proposal),
		receipts:  make(map[uint64]map[common.Address]*Receipt),
		activeIdx: make(map[uint64]int),
		latest:    make(map[common.Address]uint64),
		scores:    make(map[common.Address]CommunityScore),
	}
}

// Count returns the number of proposals ever created. Ids are 1..Count.
func (s *Store) Count() uint64 {
	return s.count
}

// nextID allocates the next proposal id. The counter only increases; ids are
// never reused.
func (s *Store) nextID() uint64 {
	s.count++
	return s.count
}

// insert records a freshly created proposal, marks it active, and registers
// it as the proposer's latest.
func (s *Store) insert(p *Proposal) {
	s.proposals[p.ID] = p
	s.receipts[p.ID] = make(map[common.Address]*Receipt)
	s.activeIdx[p.ID] = len(s.active)
	s.active = append(s.active, p.ID)
	s.latest[p.Proposer] = p.ID
}

// get returns the stored (live, not copied) proposal record, or ErrInvalidID
// when the id is 0 or beyond the counter.
func (s *Store) get(id uint64) (*Proposal, error) {
	p, ok := s.proposals[id]
	if !ok {
		return nil, ErrInvalidID
	}
	return p, nil
}

// latestOf returns the proposer's most recent proposal id, 0 if none.
func (s *Store) latestOf(proposer common.Address) uint64 {
	return s.latest[proposer]
}

// receipt returns the stored receipt for (id, voter), nil if the voter has
// not voted. The caller must have validated the id.
func (s *Store) receipt(id uint64, voter common.Address) *Receipt {
	return s.receipts[id][voter]
}

// putReceipt writes the one and only receipt for (id, voter). Overwriting an
// existing receipt is a programming error; the voting engine checks first.
func (s *Store) putReceipt(id uint64, voter common.Address, r *Receipt) {
	s.receipts[id][voter] = r
}

// removeActive drops an id from the active set by swapping it with the last
// member and shrinking. Returns ErrNotInActiveProposals when the id is not a
// member; the caller decides whether that is fatal (queue/cancel/veto) or a
// benign repeat (clear).
func (s *Store) removeActive(id uint64) error {
	i, ok := s.activeIdx[id]
	if !ok {
		return ErrNotInActiveProposals
	}
	last := len(s.active) - 1
	moved := s.active[last]
	s.active[i] = moved
	s.activeIdx[moved] = i
	s.active = s.active[:last]
	delete(s.activeIdx, id)
	return nil
}

// activeIDs returns a copy of the active proposal set, in no particular order.
func (s *Store) activeIDs() []uint64 {
	out := make([]uint64, len(s.active))
	copy(out, s.active)
	return out
}

// inActive reports active-set membership.
func (s *Store) inActive(id uint64) bool {
	_, ok := s.activeIdx[id]
	return ok
}

// scoreOf returns the community score of an address (zero value if unseen).
func (s *Store) scoreOf(addr common.Address) CommunityScore {
	return s.scores[addr]
}

// bumpCreated increments the proposals-created counters for the address and
// the aggregate.
func (s *Store) bumpCreated(addr common.Address) {
	sc := s.scores[addr]
	sc.ProposalsCreated++
	s.scores[addr] = sc
	s.aggregate.ProposalsCreated++
}

// bumpPassed increments the proposals-passed counters.
func (s *Store) bumpPassed(addr common.Address) {
	sc := s.scores[addr]
	sc.ProposalsPassed++
	s.scores[addr] = sc
	s.aggregate.ProposalsPassed++
}

// bumpVoted increments the votes-cast counters.
func (s *Store) bumpVoted(addr common.Address) {
	sc := s.scores[addr]
	sc.VotesCast++
	s.scores[addr] = sc
	s.aggregate.VotesCast++
}

// overwriteScores replaces one address's live score and the aggregate
// wholesale. Only the ledger callback reaches this: it is how a departing
// delegator's history gets folded into the aggregate while the live record
// is zeroed.
func (s *Store) overwriteScores(addr common.Address, score CommunityScore, aggregate CommunityScore) {
	s.scores[addr] = score
	s.aggregate = aggregate
}
