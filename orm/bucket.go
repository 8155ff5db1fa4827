/*
Package orm provides an easy to use db wrapper

Break state space into prefixed sections called Buckets.
* Each bucket contains only one type of object.
* It has a primary key, which may be composite.
* Easy queries for one and iteration over a key prefix.

For inspiration, look at [storm](https://github.com/asdine/storm) built on top of [bolt kvstore](https://github.com/boltdb/bolt#using-buckets).
* Do not use so much reflection magic. Better do stuff compile-time static, even if it is a bit of boilerplate.
* Consider general usability flow from that project
*/
package orm

import (
	"fmt"
	"regexp"

	"github.com/iov-one/msigwallet/errors"
	"github.com/iov-one/msigwallet/weave"
)

var (
	isBucketName = regexp.MustCompile(`^[a-z_]{3,10}$`).MatchString
)

// Bucket is a generic holder that stores data as well
// as references to sequences.
//
// This is a generic building block that should generally
// be embedded in a type-safe wrapper to ensure all data
// is the same type.
// Bucket is a prefixed subspace of the DB
// proto defines the default Model, all elements of this type
type Bucket struct {
	name   string
	prefix []byte
	proto  Cloneable
}

var _ weave.QueryHandler = Bucket{}

// NewBucket creates a bucket to store data
func NewBucket(name string, proto Cloneable) Bucket {
	if !isBucketName(name) {
		panic(fmt.Sprintf("Illegal bucket: %s", name))
	}

	return Bucket{
		name:   name,
		prefix: append([]byte(name), ':'),
		proto:  proto,
	}
}

// Name returns the name of the bucket.
func (b Bucket) Name() string {
	return b.name
}

// Register registers this Bucket for queries.
// You can define a name here for queries, which is
// different than the bucket name used to prefix the data
func (b Bucket) Register(name string, r weave.QueryRouter) {
	if name == "" {
		name = b.name
	}
	r.Register("/"+name, b)
}

// Query handles queries from the QueryRouter
func (b Bucket) Query(db weave.ReadOnlyKVStore, mod string, data []byte) ([]weave.Model, error) {
	switch mod {
	case weave.KeyQueryMod:
		key := b.DBKey(data)
		value := db.Get(key)
		// return nothing on miss
		if value == nil {
			return nil, nil
		}
		res := []weave.Model{{Key: key, Value: value}}
		return res, nil
	case weave.PrefixQueryMod:
		prefix := b.DBKey(data)
		return queryPrefix(db, prefix), nil
	default:
		return nil, errors.Wrapf(errors.ErrInput, "unknown mod: %s", mod)
	}
}

// DBKey is the full key we store in the db, including prefix
// We copy into a new array rather than use append, as we don't
// want consequetive calls to overwrite the same byte array.
func (b Bucket) DBKey(key []byte) []byte {
	l := len(b.prefix)
	out := make([]byte, l+len(key))
	copy(out, b.prefix)
	copy(out[l:], key)
	return out
}

// Get one element. Returns nil, nil if nothing is stored under the key.
func (b Bucket) Get(db weave.ReadOnlyKVStore, key []byte) (Object, error) {
	dbkey := b.DBKey(key)
	bz := db.Get(dbkey)
	if bz == nil {
		return nil, nil
	}
	return b.Parse(key, bz)
}

// Has returns true if an element is stored under given key.
func (b Bucket) Has(db weave.ReadOnlyKVStore, key []byte) bool {
	return db.Has(b.DBKey(key))
}

// Parse takes a key and value data (weave.Model) and
// reconstructs the data this Bucket would return.
//
// Used internally as part of Get.
// It is exposed mainly as a test helper, but can work for
// any code that wants to parse
func (b Bucket) Parse(key, value []byte) (Object, error) {
	obj := b.proto.Clone()
	if err := obj.Value().Unmarshal(value); err != nil {
		return nil, err
	}
	obj.SetKey(key)
	return obj, nil
}

// Save will write a model, it must be of the same type as proto
func (b Bucket) Save(db weave.KVStore, model Object) error {
	if err := model.Validate(); err != nil {
		return err
	}
	bz, err := model.Value().Marshal()
	if err != nil {
		return err
	}
	db.Set(b.DBKey(model.Key()), bz)
	return nil
}

// Delete will remove the value at a key
func (b Bucket) Delete(db weave.KVStore, key []byte) {
	db.Delete(b.DBKey(key))
}

// PrefixScan returns all objects whose key starts with given prefix, in
// ascending key order.
func (b Bucket) PrefixScan(db weave.ReadOnlyKVStore, prefix []byte) ([]Object, error) {
	var res []Object
	for _, m := range queryPrefix(db, b.DBKey(prefix)) {
		obj, err := b.Parse(m.Key[len(b.prefix):], m.Value)
		if err != nil {
			return nil, err
		}
		res = append(res, obj)
	}
	return res, nil
}

// Sequence returns a Sequence by name
func (b Bucket) Sequence(name string) Sequence {
	return NewSequence(b.name, name)
}
