// Package ledger provides an in-memory voting-power ledger implementing
// gov.VotesLedger.
//
// Production deployments read voting power from the staking system; this
// implementation backs local fake networks, the launcher's demo loop, and
// the engine's tests. It still honors the one behavioral contract the
// engine cares about beyond weight reads: when an account delegates away,
// its governance history is folded into the aggregate through the engine's
// ledger-only callback while the live record is zeroed.
package ledger

import (
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"github.com/sirupsen/logrus"

	"github.com/rony4d/go-opera-dao/gov"
)

// ScoreSink is the slice of the governance engine the ledger drives: the
// community-score callback and the reads needed to fold a record.
type ScoreSink interface {
	UpdateCommunityScore(caller common.Address, member common.Address, score gov.CommunityScore, aggregate gov.CommunityScore) error
	AggregateScore() gov.CommunityScore
}

// StakeLedger is an in-memory stake table with a running total.
type StakeLedger struct {
	mu sync.RWMutex

	log    *logrus.Entry
	addr   common.Address
	stakes map[common.Address]*big.Int
	total  *big.Int

	booted bool
}

// NewStakeLedger creates an empty ledger presenting the given identity to
// the governance engine.
func NewStakeLedger(addr common.Address, logger *logrus.Logger) (*StakeLedger, error) {
	if addr == (common.Address{}) {
		return nil, gov.ErrZeroAddress
	}
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &StakeLedger{
		log:    logger.WithField("module", "ledger"),
		addr:   addr,
		stakes: make(map[common.Address]*big.Int),
		total:  new(big.Int),
	}, nil
}

// Address implements gov.VotesLedger.
func (l *StakeLedger) Address() common.Address {
	return l.addr
}

// GetVotes implements gov.VotesLedger. Unknown accounts have zero power.
func (l *StakeLedger) GetVotes(addr common.Address) *big.Int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if s, ok := l.stakes[addr]; ok {
		return new(big.Int).Set(s)
	}
	return new(big.Int)
}

// GetTotalVotingPower implements gov.VotesLedger.
func (l *StakeLedger) GetTotalVotingPower() *big.Int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return new(big.Int).Set(l.total)
}

// Bootstrap seeds the ledger with a genesis stake table. One-shot: a second
// call fails with gov.ErrAlreadyInitialized.
func (l *StakeLedger) Bootstrap(genesis map[common.Address]*big.Int) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.booted {
		return gov.ErrAlreadyInitialized
	}
	for addr, stake := range genesis {
		if addr == (common.Address{}) {
			return gov.ErrZeroAddress
		}
		s := new(big.Int).Set(stake)
		l.stakes[addr] = s
		l.total.Add(l.total, s)
	}
	l.booted = true
	l.log.WithField("accounts", len(genesis)).Info("stake ledger bootstrapped")
	return nil
}

// SetStake replaces an account's stake, adjusting the total.
func (l *StakeLedger) SetStake(addr common.Address, stake *big.Int) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if addr == (common.Address{}) {
		return gov.ErrZeroAddress
	}
	if old, ok := l.stakes[addr]; ok {
		l.total.Sub(l.total, old)
	}
	s := new(big.Int).Set(stake)
	l.stakes[addr] = s
	l.total.Add(l.total, s)
	return nil
}

// Unstake removes an account's stake entirely, adjusting the total. Unknown
// accounts are a no-op.
func (l *StakeLedger) Unstake(addr common.Address) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if old, ok := l.stakes[addr]; ok {
		l.total.Sub(l.total, old)
		delete(l.stakes, addr)
	}
}

// DelegateAway removes an account's stake and folds its governance history
// into the engine's aggregate: the live community-score record is zeroed
// through the ledger-only callback while the aggregate keeps the counters.
func (l *StakeLedger) DelegateAway(sink ScoreSink, addr common.Address) error {
	l.mu.Lock()
	if old, ok := l.stakes[addr]; ok {
		l.total.Sub(l.total, old)
		delete(l.stakes, addr)
	}
	l.mu.Unlock()

	// The aggregate already sums every address's history, so folding means
	// zeroing the member while the aggregate stays as-is.
	aggregate := sink.AggregateScore()
	if err := sink.UpdateCommunityScore(l.addr, addr, gov.CommunityScore{}, aggregate); err != nil {
		return err
	}
	l.log.WithField("member", addr.Hex()).Info("stake delegated away, history folded")
	return nil
}
