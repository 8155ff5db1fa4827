package app

import (
	"github.com/iov-one/msigwallet/errors"
	"github.com/iov-one/msigwallet/weave"
)

// CommitStore handles loading from a CommitKVStore, maintaining different
// CacheWraps for Deliver and Check, and returning useful state info.
type CommitStore struct {
	committed weave.CommitKVStore
	deliver   weave.KVCacheWrap
	check     weave.KVCacheWrap
}

// NewCommitStore loads the CommitKVStore from disk. It sets up the
// deliver and check caches.
func NewCommitStore(store weave.CommitKVStore) (*CommitStore, error) {
	if err := store.LoadLatestVersion(); err != nil {
		return nil, errors.Wrap(err, "load latest version")
	}
	return &CommitStore{
		committed: store,
		deliver:   store.CacheWrap(),
		check:     store.CacheWrap(),
	}, nil
}

// CommitInfo returns the current height and hash
func (cs *CommitStore) CommitInfo() weave.CommitID {
	return cs.committed.LatestVersion()
}

// Commit will flush deliver to the underlying store and commit it
// to disk. It then regenerates new deliver/check caches
func (cs *CommitStore) Commit() weave.CommitID {
	// flush deliver to store and discard check
	cs.deliver.Write()
	cs.check.Discard()

	res := cs.committed.Commit()

	cs.deliver = cs.committed.CacheWrap()
	cs.check = cs.committed.CacheWrap()
	return res
}

// Committed returns a read only view of the last committed state.
func (cs *CommitStore) Committed() weave.ReadOnlyKVStore {
	return cs.committed.CacheWrap()
}

// CheckStore returns a store implementation that must be used during the
// checking phase.
func (cs *CommitStore) CheckStore() weave.CacheableKVStore {
	return cs.check
}

// DeliverStore returns a store implementation that must be used during the
// delivery phase.
func (cs *CommitStore) DeliverStore() weave.CacheableKVStore {
	return cs.deliver
}
