package gov

import (
	"errors"
	"math/big"
	"testing"
	"time"

	"github.com/Fantom-foundation/lachesis-base/hash"
	"github.com/ethereum/go-ethereum/common"
	"github.com/sirupsen/logrus"
)

// Shared test doubles for the engine tests: a scripted clock, an in-memory
// voting-power ledger, and a recording timelock.

var (
	testAdmin    = common.HexToAddress("0x00000000000000000000000000000000000000a1")
	testExecutor = common.HexToAddress("0x00000000000000000000000000000000000000e1")
	testLedgerID = common.HexToAddress("0x00000000000000000000000000000000000000d1")

	alice = common.HexToAddress("0x0000000000000000000000000000000000000001")
	bob   = common.HexToAddress("0x0000000000000000000000000000000000000002")
	carol = common.HexToAddress("0x0000000000000000000000000000000000000003")
)

// testClock is a scripted time source shared between the engine and the
// timelock double.
type testClock struct {
	now Timestamp
}

func (c *testClock) fn() func() Timestamp {
	return func() Timestamp { return c.now }
}

func (c *testClock) advance(d Timestamp) {
	c.now += d
}

// fakeLedger is an in-memory VotesLedger with fixed weights.
type fakeLedger struct {
	addr  common.Address
	total *big.Int
	votes map[common.Address]*big.Int
}

func newFakeLedger(total uint64) *fakeLedger {
	return &fakeLedger{
		addr:  testLedgerID,
		total: new(big.Int).SetUint64(total),
		votes: make(map[common.Address]*big.Int),
	}
}

func (l *fakeLedger) set(addr common.Address, votes uint64) {
	l.votes[addr] = new(big.Int).SetUint64(votes)
}

func (l *fakeLedger) GetVotes(addr common.Address) *big.Int {
	if v, ok := l.votes[addr]; ok {
		return new(big.Int).Set(v)
	}
	return new(big.Int)
}

func (l *fakeLedger) GetTotalVotingPower() *big.Int {
	return new(big.Int).Set(l.total)
}

func (l *fakeLedger) Address() common.Address {
	return l.addr
}

// fakeTimelock records schedule/unschedule/dispatch traffic. execErr, when
// set, makes every dispatch fail.
type fakeTimelock struct {
	delay Timestamp
	grace Timestamp

	queued    map[hash.Hash]bool
	executed  []Call
	canceled  int
	execErr   error
}

func newFakeTimelock(delay, grace Timestamp) *fakeTimelock {
	return &fakeTimelock{
		delay:  delay,
		grace:  grace,
		queued: make(map[hash.Hash]bool),
	}
}

func (tl *fakeTimelock) Delay() Timestamp       { return tl.delay }
func (tl *fakeTimelock) GracePeriod() Timestamp { return tl.grace }

func (tl *fakeTimelock) QueueTransaction(c Call, eta Timestamp) (hash.Hash, error) {
	d := c.Digest(eta)
	tl.queued[d] = true
	return d, nil
}

func (tl *fakeTimelock) CancelTransaction(c Call, eta Timestamp) error {
	// Idempotent: unknown digests are a no-op, matching the real executor.
	d := c.Digest(eta)
	if tl.queued[d] {
		delete(tl.queued, d)
		tl.canceled++
	}
	return nil
}

func (tl *fakeTimelock) ExecuteTransaction(c Call, eta Timestamp) ([]byte, error) {
	if tl.execErr != nil {
		return nil, tl.execErr
	}
	d := c.Digest(eta)
	if !tl.queued[d] {
		return nil, errors.New("fake timelock: not queued")
	}
	delete(tl.queued, d)
	tl.executed = append(tl.executed, c)
	return nil, nil
}

// testEnv bundles an engine with its doubles and a scripted clock.
type testEnv struct {
	engine   *Governance
	ledger   *fakeLedger
	timelock *fakeTimelock
	clock    *testClock
	rules    Rules
}

// newTestEnv assembles an engine on FakeNetRules with total power 10000 and a
// handful of pre-funded voters. The clock starts at a fixed epoch so windows
// are deterministic.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	return newTestEnvRules(t, FakeNetRules())
}

func newTestEnvRules(t *testing.T, rules Rules) *testEnv {
	t.Helper()

	ledger := newFakeLedger(10000)
	ledger.set(alice, 2500)
	ledger.set(bob, 100)
	ledger.set(carol, 50)

	timelock := newFakeTimelock(DurationOf(48*time.Hour), DurationOf(14*24*time.Hour))

	auth, err := NewAuthority([]common.Address{testAdmin}, testExecutor)
	if err != nil {
		t.Fatalf("NewAuthority: %v", err)
	}
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel) // keep test output quiet

	engine, err := New(rules, auth, ledger, timelock, logger)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	clock := &testClock{now: 1_000_000}
	engine.SetClock(clock.fn())

	return &testEnv{
		engine:   engine,
		ledger:   ledger,
		timelock: timelock,
		clock:    clock,
		rules:    rules,
	}
}

// oneCall returns a minimal single-action payload.
func oneCall() []Call {
	return []Call{{
		Target:    common.HexToAddress("0x00000000000000000000000000000000000000f1"),
		Value:     new(big.Int),
		Signature: "setParameter(uint256)",
		Data:      []byte{0x01},
	}}
}

// propose submits a single-action proposal from alice and fails the test on error.
func (env *testEnv) propose(t *testing.T) uint64 {
	t.Helper()
	id, err := env.engine.Propose(alice, oneCall(), "test proposal")
	if err != nil {
		t.Fatalf("Propose: %v", err)
	}
	return id
}

// verified submits and admin-verifies a proposal.
func (env *testEnv) verified(t *testing.T) uint64 {
	t.Helper()
	id := env.propose(t)
	if err := env.engine.Verify(testAdmin, id); err != nil {
		t.Fatalf("Verify: %v", err)
	}
	return id
}

// activate moves the clock into the proposal's voting window.
func (env *testEnv) activate(t *testing.T, id uint64) {
	t.Helper()
	env.clock.advance(env.rules.VotingDelay + 1)
	st, err := env.engine.State(id)
	if err != nil {
		t.Fatalf("State: %v", err)
	}
	if st != StateActive {
		t.Fatalf("state = %s, want active", st)
	}
}

// closeWindow moves the clock past the proposal's voting window.
func (env *testEnv) closeWindow() {
	env.clock.advance(env.rules.VotingPeriod + 1)
}
