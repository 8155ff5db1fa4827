package multisig

import (
	"context"
	"testing"

	"github.com/iov-one/msigwallet/errors"
	"github.com/iov-one/msigwallet/store"
	"github.com/iov-one/msigwallet/weave"
	"github.com/iov-one/msigwallet/weavetest"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// mockExecutor records executions and returns the configured error.
type mockExecutor struct {
	mock.Mock
}

var _ Executor = (*mockExecutor)(nil)

func (m *mockExecutor) Execute(ctx weave.Context, db weave.KVStore, walletID []byte, p *Proposal) error {
	args := m.Called(ctx, db, walletID, p)
	return args.Error(0)
}

// executorFunc adapts a function to the Executor interface.
type executorFunc func(ctx weave.Context, db weave.KVStore, walletID []byte, p *Proposal) error

func (fn executorFunc) Execute(ctx weave.Context, db weave.KVStore, walletID []byte, p *Proposal) error {
	return fn(ctx, db, walletID, p)
}

var noopExecutor = executorFunc(func(weave.Context, weave.KVStore, []byte, *Proposal) error {
	return nil
})

// testRouter dispatches messages by path. It is the minimal registry the
// handlers of this package need.
type testRouter map[string]weave.Handler

var (
	_ weave.Registry  = testRouter{}
	_ weave.Deliverer = testRouter{}
)

func (r testRouter) Handle(path string, h weave.Handler) {
	r[path] = h
}

func (r testRouter) Deliver(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*weave.DeliverResult, error) {
	h, ok := r[weave.GetPath(tx)]
	if !ok {
		return nil, errors.Wrapf(errors.ErrNotFound, "path %s", weave.GetPath(tx))
	}
	return h.Deliver(ctx, db, tx)
}

// owners returns n new random owner addresses.
func owners(n int) []weave.Address {
	out := make([]weave.Address, n)
	for i := range out {
		out[i] = weavetest.NewCondition().Address()
	}
	return out
}

// newWallet initializes a wallet with id 1 in a new store.
func newWallet(t testing.TB, owners []weave.Address, required uint32, policy AccessPolicy) (weave.CacheableKVStore, *Authority) {
	t.Helper()
	db := store.MemStore()
	a, err := Initialize(db, weavetest.SequenceID(1), owners, required, policy)
	require.NoError(t, err)
	return db, a
}

// reload returns a fresh Authority for the wallet, so that no state is
// carried between operations.
func reload(t testing.TB, db weave.KVStore, a *Authority) *Authority {
	t.Helper()
	fresh, err := LoadAuthority(db, a.ID())
	require.NoError(t, err)
	return fresh
}

// dump returns every key value pair in the store.
func dump(db weave.ReadOnlyKVStore) map[string]string {
	out := make(map[string]string)
	it := db.Iterator(nil, nil)
	defer it.Close()
	for ; it.Valid(); it.Next() {
		out[string(it.Key())] = string(it.Value())
	}
	return out
}

func background() weave.Context {
	return context.Background()
}
