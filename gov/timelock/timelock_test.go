package timelock

import (
	"errors"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"github.com/rony4d/go-opera-dao/gov"
)

func quietLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	return logger
}

func testCall() gov.Call {
	return gov.Call{
		Target:    common.HexToAddress("0x00000000000000000000000000000000000000f1"),
		Value:     big.NewInt(7),
		Signature: "setParameter(uint256)",
		Data:      []byte{0x2a},
	}
}

func newTestExecutor(t *testing.T, d Dispatcher) (*Executor, *gov.Timestamp) {
	t.Helper()
	e, err := NewExecutor(MinimumDelay, 0, d, quietLogger())
	if err != nil {
		t.Fatalf("NewExecutor: %v", err)
	}
	now := gov.Timestamp(1_000_000)
	e.SetClock(func() gov.Timestamp { return now })
	return e, &now
}

func TestNewExecutor_delayBounds(t *testing.T) {
	if _, err := NewExecutor(MinimumDelay-1, 0, nil, quietLogger()); err != ErrDelayOutOfBounds {
		t.Fatalf("err = %v, want ErrDelayOutOfBounds", err)
	}
	if _, err := NewExecutor(MaximumDelay+1, 0, nil, quietLogger()); err != ErrDelayOutOfBounds {
		t.Fatalf("err = %v, want ErrDelayOutOfBounds", err)
	}

	e, err := NewExecutor(MaximumDelay, 0, nil, quietLogger())
	require.NoError(t, err)
	require.Equal(t, MaximumDelay, e.Delay())
	// A zero grace falls back to the default.
	require.Equal(t, DefaultGracePeriod, e.GracePeriod())
}

func TestQueueTransaction_respectsDelay(t *testing.T) {
	e, now := newTestExecutor(t, nil)
	c := testCall()

	if _, err := e.QueueTransaction(c, *now+e.Delay()-1); err != ErrEtaTooSoon {
		t.Fatalf("err = %v, want ErrEtaTooSoon", err)
	}

	eta := *now + e.Delay()
	digest, err := e.QueueTransaction(c, eta)
	require.NoError(t, err)
	require.Equal(t, TxDigest(c, eta), digest)
	require.True(t, e.Queued(c, eta))
}

func TestCancelTransaction_idempotent(t *testing.T) {
	e, now := newTestExecutor(t, nil)
	c := testCall()
	eta := *now + e.Delay()

	// Unknown digest: no-op, no error.
	require.NoError(t, e.CancelTransaction(c, eta))

	if _, err := e.QueueTransaction(c, eta); err != nil {
		t.Fatalf("QueueTransaction: %v", err)
	}
	require.NoError(t, e.CancelTransaction(c, eta))
	require.False(t, e.Queued(c, eta))

	// Repeating the cancel stays a no-op.
	require.NoError(t, e.CancelTransaction(c, eta))
}

func TestExecuteTransaction_window(t *testing.T) {
	dispatched := 0
	e, now := newTestExecutor(t, DispatcherFunc(func(c gov.Call) ([]byte, error) {
		dispatched++
		return []byte("ok"), nil
	}))
	c := testCall()
	eta := *now + e.Delay()

	// Not queued yet.
	if _, err := e.ExecuteTransaction(c, eta); err != ErrNotQueued {
		t.Fatalf("err = %v, want ErrNotQueued", err)
	}

	if _, err := e.QueueTransaction(c, eta); err != nil {
		t.Fatalf("QueueTransaction: %v", err)
	}

	// Before eta.
	if _, err := e.ExecuteTransaction(c, eta); err != ErrTooEarly {
		t.Fatalf("err = %v, want ErrTooEarly", err)
	}

	// Past the grace window.
	*now = eta + e.GracePeriod() + 1
	if _, err := e.ExecuteTransaction(c, eta); err != ErrStale {
		t.Fatalf("err = %v, want ErrStale", err)
	}

	// Inside the window.
	*now = eta + 1
	out, err := e.ExecuteTransaction(c, eta)
	require.NoError(t, err)
	require.Equal(t, []byte("ok"), out)
	require.Equal(t, 1, dispatched)

	// Execution consumes the entry.
	require.False(t, e.Queued(c, eta))
	if _, err := e.ExecuteTransaction(c, eta); err != ErrNotQueued {
		t.Fatalf("re-execute: err = %v, want ErrNotQueued", err)
	}
}

func TestExecuteTransaction_dispatchFailure(t *testing.T) {
	boom := errors.New("target reverted")
	e, now := newTestExecutor(t, DispatcherFunc(func(c gov.Call) ([]byte, error) {
		return nil, boom
	}))
	c := testCall()
	eta := *now + e.Delay()
	if _, err := e.QueueTransaction(c, eta); err != nil {
		t.Fatalf("QueueTransaction: %v", err)
	}
	*now = eta

	if _, err := e.ExecuteTransaction(c, eta); err != boom {
		t.Fatalf("err = %v, want dispatcher error", err)
	}
	// The entry was consumed before dispatch; a retry is refused.
	if _, err := e.ExecuteTransaction(c, eta); err != ErrNotQueued {
		t.Fatalf("retry: err = %v, want ErrNotQueued", err)
	}
}

func TestExecuteTransaction_nilDispatcher(t *testing.T) {
	e, now := newTestExecutor(t, nil)
	c := testCall()
	eta := *now + e.Delay()
	if _, err := e.QueueTransaction(c, eta); err != nil {
		t.Fatalf("QueueTransaction: %v", err)
	}
	*now = eta

	out, err := e.ExecuteTransaction(c, eta)
	require.NoError(t, err)
	require.Nil(t, out)
}

func TestTxDigest_commitsToEveryField(t *testing.T) {
	base := testCall()
	eta := gov.Timestamp(5000)
	d := TxDigest(base, eta)

	// Same content, same digest.
	require.Equal(t, d, TxDigest(testCall(), eta))

	// Any field change moves the digest.
	mutations := []func(c *gov.Call){
		func(c *gov.Call) { c.Target = common.HexToAddress("0x00000000000000000000000000000000000000f2") },
		func(c *gov.Call) { c.Value = big.NewInt(8) },
		func(c *gov.Call) { c.Signature = "setParameter(uint128)" },
		func(c *gov.Call) { c.Data = []byte{0x2b} },
	}
	for i, mutate := range mutations {
		c := testCall()
		mutate(&c)
		if TxDigest(c, eta) == d {
			t.Fatalf("mutation %d did not change the digest", i)
		}
	}
	if TxDigest(base, eta+1) == d {
		t.Fatalf("eta change did not change the digest")
	}

	// A nil value digests like an explicit zero, so re-encoded calls agree.
	a := testCall()
	a.Value = nil
	b := testCall()
	b.Value = new(big.Int)
	require.Equal(t, TxDigest(a, eta), TxDigest(b, eta))
}
