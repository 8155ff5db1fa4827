package app

import (
	"github.com/iov-one/msigwallet/errors"
	"github.com/iov-one/msigwallet/weave"
	abci "github.com/tendermint/tendermint/abci/types"
)

// ABCIStore exposes the abci.Query interface of an application as a
// ReadOnlyKVStore. Wrapped with a bucket it reuses the key and parse logic
// of the bucket on the client side.
type ABCIStore struct {
	app  abci.Application
	path string
}

var _ weave.ReadOnlyKVStore = (*ABCIStore)(nil)

// NewABCIStore returns a store that queries the raw key value store
// registered under path, usually "/".
func NewABCIStore(app abci.Application, path string) *ABCIStore {
	return &ABCIStore{app: app, path: path}
}

// Get will query for exactly one value over the abci store.
func (a *ABCIStore) Get(key []byte) []byte {
	models := a.query(weave.KeyQueryMod, key)
	if len(models) == 0 {
		return nil
	}
	return models[0].Value
}

// Has returns true if the given key in in the abci app store
func (a *ABCIStore) Has(key []byte) bool {
	return len(a.Get(key)) > 0
}

// Iterator supports only a full range iteration, that is served by a prefix
// query with an empty prefix.
func (a *ABCIStore) Iterator(start, end []byte) weave.Iterator {
	if start != nil || end != nil {
		panic("iterator only implemented for entire range")
	}
	return NewSliceIterator(a.query(weave.PrefixQueryMod, nil))
}

// ReverseIterator iterates the entire range in descending order.
func (a *ABCIStore) ReverseIterator(start, end []byte) weave.Iterator {
	if start != nil || end != nil {
		panic("iterator only implemented for entire range")
	}
	models := a.query(weave.PrefixQueryMod, nil)
	for i, j := 0, len(models)-1; i < j; i, j = i+1, j-1 {
		models[i], models[j] = models[j], models[i]
	}
	return NewSliceIterator(models)
}

// query panics on failure, as the store interface cannot return errors.
func (a *ABCIStore) query(mod string, data []byte) []weave.Model {
	path := a.path
	if mod != weave.KeyQueryMod {
		path += "?" + mod
	}
	res := a.app.Query(abci.RequestQuery{Path: path, Data: data})
	if res.Code != errors.SuccessABCICode {
		panic(res.Log)
	}
	models, err := toModels(res.Key, res.Value)
	if err != nil {
		panic(errors.Wrap(err, "cannot convert to model"))
	}
	return models
}

func toModels(keys, values []byte) ([]weave.Model, error) {
	var k, v ResultSet
	if err := k.Unmarshal(keys); err != nil {
		return nil, errors.Wrap(err, "cannot unmarshal keys")
	}
	if err := v.Unmarshal(values); err != nil {
		return nil, errors.Wrap(err, "cannot unmarshal values")
	}
	return JoinResults(&k, &v)
}

// sliceIterator wraps an Iterator over a slice of models
type sliceIterator struct {
	data []weave.Model
	idx  int
}

// NewSliceIterator creates a new Iterator over this slice
func NewSliceIterator(data []weave.Model) weave.Iterator {
	return &sliceIterator{
		data: data,
	}
}

// Valid implements Iterator and returns true iff it can be read
func (s *sliceIterator) Valid() bool {
	return s.idx < len(s.data)
}

// Next moves the iterator to the next sequential key in the database, as
// defined by order of iteration.
//
// If Valid returns false, this method will panic.
func (s *sliceIterator) Next() {
	s.assertValid()
	s.idx++
}

func (s *sliceIterator) assertValid() {
	if s.idx >= len(s.data) {
		panic("Passed end of slice")
	}
}

// Key returns the key of the cursor.
func (s *sliceIterator) Key() (key []byte) {
	s.assertValid()
	return s.data[s.idx].Key
}

// Value returns the value of the cursor.
func (s *sliceIterator) Value() (value []byte) {
	s.assertValid()
	return s.data[s.idx].Value
}

// Close releases the Iterator.
func (s *sliceIterator) Close() {
	s.data = nil
}
