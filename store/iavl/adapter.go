package iavl

import (
	"github.com/iov-one/msigwallet/errors"
	"github.com/iov-one/msigwallet/store"
	"github.com/tendermint/iavl"
	dbm "github.com/tendermint/tendermint/libs/db"
)

// DefaultCacheSize is the number of iavl nodes kept in memory.
const DefaultCacheSize = 10000

// CommitStore manages a iavl committed state
type CommitStore struct {
	tree *iavl.MutableTree
}

var _ store.CommitKVStore = CommitStore{}

// NewCommitStore creates a new store with disk backing
func NewCommitStore(path, name string) (CommitStore, error) {
	db, err := dbm.NewGoLevelDB(name, path)
	if err != nil {
		return CommitStore{}, errors.Wrapf(errors.ErrDatabase, "cannot open %s/%s: %s", path, name, err)
	}
	return NewCommitStoreFromDB(db), nil
}

// NewCommitStoreFromDB wraps any tendermint database. Use
// dbm.NewMemDB() for in memory commit stores.
func NewCommitStoreFromDB(db dbm.DB) CommitStore {
	tree := iavl.NewMutableTree(db, DefaultCacheSize)
	return CommitStore{tree}
}

// Get returns the value at last committed state
// returns nil iff key doesn't exist. Panics on nil key.
func (s CommitStore) Get(key []byte) []byte {
	_, val := s.tree.GetVersioned(key, s.tree.Version())
	return val
}

// Commit the next version to disk, and returns info
func (s CommitStore) Commit() store.CommitID {
	hash, version, err := s.tree.SaveVersion()
	if err != nil {
		panic(err)
	}
	return store.CommitID{
		Version: version,
		Hash:    hash,
	}
}

// LoadLatestVersion loads the latest persisted version.
// If there was a crash during the last commit, it is guaranteed
// to return a stable state, even if older.
func (s CommitStore) LoadLatestVersion() error {
	_, err := s.tree.Load()
	return errors.Wrap(err, "load iavl tree")
}

// LatestVersion returns info on the latest version saved to disk
func (s CommitStore) LatestVersion() store.CommitID {
	return store.CommitID{
		Version: s.tree.Version(),
		Hash:    s.tree.Hash(),
	}
}

// CacheWrap gives us a savepoint to perform actions.
// Writing the cache applies the changes to the working tree, they are
// persisted on the next Commit.
func (s CommitStore) CacheWrap() store.KVCacheWrap {
	return adapter{s.tree}.CacheWrap()
}

// adapter converts the working tree into a store.KVStore
type adapter struct {
	tree *iavl.MutableTree
}

var _ store.CacheableKVStore = adapter{}

// Get returns nil iff key doesn't exist. Panics on nil key.
func (a adapter) Get(key []byte) []byte {
	_, val := a.tree.Get(key)
	return val
}

// Has checks if a key exists. Panics on nil key.
func (a adapter) Has(key []byte) bool {
	return a.tree.Has(key)
}

// Set adds a new value
func (a adapter) Set(key, value []byte) {
	a.tree.Set(key, value)
}

// Delete removes from the tree
func (a adapter) Delete(key []byte) {
	a.tree.Remove(key)
}

// NewBatch returns a batch that can write multiple ops atomically
func (a adapter) NewBatch() store.Batch {
	return store.NewNonAtomicBatch(a)
}

// CacheWrap wraps us once again, with btree
func (a adapter) CacheWrap() store.KVCacheWrap {
	return store.NewBTreeCacheWrap(a, a.NewBatch(), nil)
}

// Iterator over a domain of keys in ascending order. End is exclusive.
func (a adapter) Iterator(start, end []byte) store.Iterator {
	return a.iterate(start, end, true)
}

// ReverseIterator over a domain of keys in descending order. End is exclusive.
func (a adapter) ReverseIterator(start, end []byte) store.Iterator {
	return a.iterate(start, end, false)
}

func (a adapter) iterate(start, end []byte, ascending bool) store.Iterator {
	var res []store.Model
	add := func(key []byte, value []byte) bool {
		res = append(res, store.Model{Key: key, Value: value})
		return false
	}
	a.tree.IterateRange(start, end, ascending, add)
	return store.NewSliceIterator(res)
}
