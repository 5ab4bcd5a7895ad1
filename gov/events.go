// Event records: the persisted external surface of the engine.
//
// Every state transition appends a typed record to the journal and logs it.
// Records are RLP-stable (fixed exported field sets) so integrators can
// persist or relay them, and each record exposes a digest fingerprinting its
// content.

package gov

import (
	"math/big"

	"github.com/Fantom-foundation/lachesis-base/hash"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/rlp"
	"github.com/sirupsen/logrus"
)

// Record is one journal entry.
type Record interface {
	// Kind names the record type, e.g. "proposal.created".
	Kind() string
	// Digest fingerprints the record content.
	Digest() hash.Hash
}

// recordDigest hashes the RLP encoding of a record. RLP is total over the
// record types below, so a failed encode is a programming error.
func recordDigest(r interface{}) hash.Hash {
	b, err := rlp.EncodeToBytes(r)
	if err != nil {
		panic("gov: can't encode record: " + err.Error())
	}
	return hash.Of(b)
}

// ProposalCreated carries the full payload of a new proposal, including both
// snapshot thresholds.
type ProposalCreated struct {
	ID          uint64
	Proposer    common.Address
	Calls       []Call
	StartTime   Timestamp
	EndTime     Timestamp
	Threshold   *big.Int
	Quorum      *big.Int
	Description string
}

func (e *ProposalCreated) Kind() string     { return "proposal.created" }
func (e *ProposalCreated) Digest() hash.Hash { return recordDigest(e) }

// ProposalVerified marks the admin confirmation that arms the voting window.
type ProposalVerified struct {
	ID    uint64
	Admin common.Address
}

func (e *ProposalVerified) Kind() string     { return "proposal.verified" }
func (e *ProposalVerified) Digest() hash.Hash { return recordDigest(e) }

// VoteCast records one voter's tallied weight.
type VoteCast struct {
	Voter      common.Address
	ProposalID uint64
	Support    VoteSupport
	Votes      *big.Int
}

func (e *VoteCast) Kind() string     { return "vote.cast" }
func (e *VoteCast) Digest() hash.Hash { return recordDigest(e) }

// ProposalQueued records the scheduling of a succeeded proposal.
type ProposalQueued struct {
	ID  uint64
	Eta Timestamp
}

func (e *ProposalQueued) Kind() string     { return "proposal.queued" }
func (e *ProposalQueued) Digest() hash.Hash { return recordDigest(e) }

// ProposalExecuted records the dispatch of a queued proposal.
type ProposalExecuted struct {
	ID uint64
}

func (e *ProposalExecuted) Kind() string     { return "proposal.executed" }
func (e *ProposalExecuted) Digest() hash.Hash { return recordDigest(e) }

// ProposalCanceled records an explicit cancellation.
type ProposalCanceled struct {
	ID     uint64
	Caller common.Address
}

func (e *ProposalCanceled) Kind() string     { return "proposal.canceled" }
func (e *ProposalCanceled) Digest() hash.Hash { return recordDigest(e) }

// ProposalVetoed records an administrative veto.
type ProposalVetoed struct {
	ID    uint64
	Admin common.Address
}

func (e *ProposalVetoed) Kind() string     { return "proposal.vetoed" }
func (e *ProposalVetoed) Digest() hash.Hash { return recordDigest(e) }

// ProposalCleared records permissionless garbage collection of a decayed
// proposal. Unlike cancel/veto it sets no latch on the proposal.
type ProposalCleared struct {
	ID     uint64
	Caller common.Address
}

func (e *ProposalCleared) Kind() string     { return "proposal.cleared" }
func (e *ProposalCleared) Digest() hash.Hash { return recordDigest(e) }

// ParameterChanged records an old/new pair for one global tunable.
type ParameterChanged struct {
	Name string
	Old  uint64
	New  uint64
}

func (e *ParameterChanged) Kind() string     { return "parameter.changed" }
func (e *ParameterChanged) Digest() hash.Hash { return recordDigest(e) }

// VotingSourceChanged records a wholesale migration of the voting-power
// ledger reference.
type VotingSourceChanged struct {
	Old common.Address
	New common.Address
}

func (e *VotingSourceChanged) Kind() string     { return "source.changed" }
func (e *VotingSourceChanged) Digest() hash.Hash { return recordDigest(e) }

// ScoresSynced records the ledger callback overwriting an address's
// community score and the aggregate.
type ScoresSynced struct {
	Member common.Address
}

func (e *ScoresSynced) Kind() string     { return "scores.synced" }
func (e *ScoresSynced) Digest() hash.Hash { return recordDigest(e) }

// Journal is an append-only in-memory record log with an optional capacity.
// When the capacity is reached the oldest records are dropped; integrators
// that need full history relay records as they are appended.
type Journal struct {
	log      *logrus.Entry
	records  []Record
	capacity int
}

// NewJournal creates a journal. capacity <= 0 means unbounded.
func NewJournal(log *logrus.Entry, capacity int) *Journal {
	return &Journal{log: log, capacity: capacity}
}

// append records an entry and logs it at Info with structured fields.
func (j *Journal) append(r Record) {
	if j.capacity > 0 && len(j.records) >= j.capacity {
		drop := len(j.records) - j.capacity + 1
		j.records = append(j.records[:0], j.records[drop:]...)
	}
	j.records = append(j.records, r)
	if j.log != nil {
		j.log.WithFields(logrus.Fields{
			"kind":   r.Kind(),
			"digest": r.Digest().Hex(),
		}).Info("governance event")
	}
}

// Records returns a copy of the retained record slice, oldest first.
func (j *Journal) Records() []Record {
	out := make([]Record, len(j.records))
	copy(out, j.records)
	return out
}

// Len returns the number of retained records.
func (j *Journal) Len() int {
	return len(j.records)
}
