// Package timelock provides the in-process delayed-execution collaborator
// consumed by the governance engine.
//
// The executor keeps a set of scheduled transactions keyed by a keccak
// digest of the call bound to its eta. Queueing requires the eta to respect
// the mandatory delay; execution is only allowed inside the window
// [eta, eta+grace]. What a dispatched call actually does is decided by the
// pluggable Dispatcher, so node operators can wire parameter writes, native
// transfers, or plain logging without the executor knowing.
package timelock

import (
	"errors"
	"math/big"
	"sync"
	"time"

	"github.com/Fantom-foundation/lachesis-base/hash"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/rlp"
	"github.com/sirupsen/logrus"

	"github.com/rony4d/go-opera-dao/gov"
)

// Bounds on the executor's mandatory delay, and the default staleness window.
const (
	MinimumDelay       = gov.Timestamp(2 * 24 * time.Hour / time.Second)
	MaximumDelay       = gov.Timestamp(30 * 24 * time.Hour / time.Second)
	DefaultGracePeriod = gov.Timestamp(14 * 24 * time.Hour / time.Second)
)

var (
	// ErrDelayOutOfBounds indicates a delay outside [MinimumDelay, MaximumDelay].
	ErrDelayOutOfBounds = errors.New("timelock: delay out of bounds")
	// ErrEtaTooSoon indicates a queue attempt whose eta does not respect the delay.
	ErrEtaTooSoon = errors.New("timelock: eta must satisfy the delay")
	// ErrNotQueued indicates an execute attempt for a transaction that is not scheduled.
	ErrNotQueued = errors.New("timelock: transaction not queued")
	// ErrTooEarly indicates an execute attempt before eta.
	ErrTooEarly = errors.New("timelock: transaction not yet ready")
	// ErrStale indicates an execute attempt after eta + grace period.
	ErrStale = errors.New("timelock: transaction is stale")
)

// Dispatcher applies a matured call. The executor does not interpret calls.
type Dispatcher interface {
	Dispatch(c gov.Call) ([]byte, error)
}

// DispatcherFunc adapts a plain function to the Dispatcher interface.
type DispatcherFunc func(c gov.Call) ([]byte, error)

// Dispatch implements Dispatcher.
func (f DispatcherFunc) Dispatch(c gov.Call) ([]byte, error) {
	return f(c)
}

// Executor implements gov.Timelock with an in-memory scheduled set.
type Executor struct {
	mu sync.Mutex

	log        *logrus.Entry
	delay      gov.Timestamp
	grace      gov.Timestamp
	queued     map[hash.Hash]bool
	dispatcher Dispatcher

	now func() gov.Timestamp
}

// NewExecutor builds an executor with the given mandatory delay and grace
// period. A nil dispatcher makes execution a logged no-op, which is what the
// fake networks use.
func NewExecutor(delay, grace gov.Timestamp, d Dispatcher, logger *logrus.Logger) (*Executor, error) {
	if delay < MinimumDelay || delay > MaximumDelay {
		return nil, ErrDelayOutOfBounds
	}
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	if grace == 0 {
		grace = DefaultGracePeriod
	}
	return &Executor{
		log:        logger.WithField("module", "timelock"),
		delay:      delay,
		grace:      grace,
		queued:     make(map[hash.Hash]bool),
		dispatcher: d,
		now: func() gov.Timestamp {
			return gov.TimestampOf(time.Now())
		},
	}, nil
}

// SetClock replaces the executor's time source; tests and fake networks
// share one scripted clock between the engine and the executor.
func (e *Executor) SetClock(now func() gov.Timestamp) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.now = now
}

// Delay returns the mandatory wait between queueing and execution.
func (e *Executor) Delay() gov.Timestamp {
	return e.delay
}

// GracePeriod returns the window after eta in which execution is allowed.
func (e *Executor) GracePeriod() gov.Timestamp {
	return e.grace
}

// QueueTransaction schedules a call for execution at eta and returns its
// digest. The eta must be at least now + delay.
func (e *Executor) QueueTransaction(c gov.Call, eta gov.Timestamp) (hash.Hash, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if eta < e.now()+e.delay {
		return hash.Hash{}, ErrEtaTooSoon
	}
	digest := TxDigest(c, eta)
	e.queued[digest] = true
	e.log.WithFields(logrus.Fields{
		"digest": digest.Hex(),
		"target": c.Target.Hex(),
		"eta":    uint64(eta),
	}).Info("transaction queued")
	return digest, nil
}

// CancelTransaction removes a scheduled call. Canceling an unknown digest is
// a no-op: undo paths in the governance engine must be safe to repeat, and a
// scheduled entry must never survive a cancellation, so the operation is
// idempotent by construction.
func (e *Executor) CancelTransaction(c gov.Call, eta gov.Timestamp) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	digest := TxDigest(c, eta)
	if e.queued[digest] {
		delete(e.queued, digest)
		e.log.WithField("digest", digest.Hex()).Info("transaction canceled")
	}
	return nil
}

// ExecuteTransaction dispatches a scheduled call. The call must be queued,
// its eta must have elapsed, and it must not be stale.
func (e *Executor) ExecuteTransaction(c gov.Call, eta gov.Timestamp) ([]byte, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	digest := TxDigest(c, eta)
	if !e.queued[digest] {
		return nil, ErrNotQueued
	}
	now := e.now()
	if now < eta {
		return nil, ErrTooEarly
	}
	if now > eta+e.grace {
		return nil, ErrStale
	}
	delete(e.queued, digest)

	var (
		out []byte
		err error
	)
	if e.dispatcher != nil {
		out, err = e.dispatcher.Dispatch(c)
		if err != nil {
			e.log.WithField("digest", digest.Hex()).WithError(err).Error("transaction dispatch failed")
			return nil, err
		}
	}
	e.log.WithFields(logrus.Fields{
		"digest": digest.Hex(),
		"target": c.Target.Hex(),
	}).Info("transaction executed")
	return out, nil
}

// Queued reports whether a (call, eta) pair is currently scheduled.
func (e *Executor) Queued(c gov.Call, eta gov.Timestamp) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.queued[TxDigest(c, eta)]
}

// txRecord is the RLP layout the digest commits to.
type txRecord struct {
	Target    common.Address
	Value     *big.Int
	Signature string
	Data      []byte
	Eta       uint64
}

// TxDigest returns the keccak digest keying the scheduled set, committing
// to every field of the call and the eta.
func TxDigest(c gov.Call, eta gov.Timestamp) hash.Hash {
	value := c.Value
	if value == nil {
		value = new(big.Int)
	}
	b, err := rlp.EncodeToBytes(&txRecord{
		Target:    c.Target,
		Value:     value,
		Signature: c.Signature,
		Data:      c.Data,
		Eta:       uint64(eta),
	})
	if err != nil {
		panic("timelock: can't encode tx record: " + err.Error())
	}
	return hash.BytesToHash(crypto.Keccak256(b))
}
