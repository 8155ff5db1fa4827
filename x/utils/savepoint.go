package utils

import (
	"github.com/iov-one/msigwallet/weave"
)

// Savepoint runs the rest of the stack on a cache of the store. The cache
// is written back when the call succeeds and dropped when it fails, so a
// rejected transaction leaves no partial wallet state behind. It is enabled
// separately for Check and for Deliver.
type Savepoint struct {
	onCheck   bool
	onDeliver bool
}

var _ weave.Decorator = Savepoint{}

// NewSavepoint returns a Savepoint that is not enabled for any call yet.
func NewSavepoint() Savepoint {
	return Savepoint{}
}

// OnCheck enables the savepoint for CheckTx.
func (s Savepoint) OnCheck() Savepoint {
	s.onCheck = true
	return s
}

// OnDeliver enables the savepoint for DeliverTx.
func (s Savepoint) OnDeliver() Savepoint {
	s.onDeliver = true
	return s
}

func (s Savepoint) Check(ctx weave.Context, store weave.KVStore, tx weave.Tx, next weave.Checker) (*weave.CheckResult, error) {
	if !s.onCheck {
		return next.Check(ctx, store, tx)
	}
	var res *weave.CheckResult
	err := withSavepoint(ctx, store, func(db weave.KVStore) (err error) {
		res, err = next.Check(ctx, db, tx)
		return err
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

func (s Savepoint) Deliver(ctx weave.Context, store weave.KVStore, tx weave.Tx, next weave.Deliverer) (*weave.DeliverResult, error) {
	if !s.onDeliver {
		return next.Deliver(ctx, store, tx)
	}
	var res *weave.DeliverResult
	err := withSavepoint(ctx, store, func(db weave.KVStore) (err error) {
		res, err = next.Deliver(ctx, db, tx)
		return err
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

// withSavepoint calls fn with a cache of store when the store supports it.
func withSavepoint(ctx weave.Context, store weave.KVStore, fn func(weave.KVStore) error) error {
	cstore, ok := store.(weave.CacheableKVStore)
	if !ok {
		return fn(store)
	}
	cache := cstore.CacheWrap()
	if err := fn(cache); err != nil {
		cache.Discard()
		weave.GetLogger(ctx).Debug("savepoint rolled back", "err", err)
		return err
	}
	cache.Write()
	return nil
}
