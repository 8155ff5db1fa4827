package orm

import (
	"encoding/binary"

	"github.com/iov-one/msigwallet/weave"
)

// Sequence maintains a counter, and generates a
// series of keys. Each key is greater than the last,
// both NextInt() as well as bytes.Compare() on NextVal().
type Sequence struct {
	id []byte
}

// NewSequence returns a sequence counter. Sequence is using following pattern
// to construct a key:
//    _s.<bucket>:<name>
func NewSequence(bucket, name string) Sequence {
	id := "_s." + bucket + ":" + name
	return Sequence{
		id: []byte(id),
	}
}

// NextVal increments the sequence and returns its state as 8 bytes.
func (s *Sequence) NextVal(db weave.KVStore) []byte {
	_, bz := s.increment(db, 1)
	return bz
}

// NextInt increments the sequence and returns its state as int.
func (s *Sequence) NextInt(db weave.KVStore) uint64 {
	val, _ := s.increment(db, 1)
	return val
}

// Latest returns the recently returned value of the sequence. This method does
// not modify the sequence state. Use NextVal or NextInt to acquire a sequence
// value that was not given to anyone else.
func (s *Sequence) Latest(db weave.ReadOnlyKVStore) uint64 {
	return DecodeSequence(db.Get(s.id))
}

func (s *Sequence) increment(db weave.KVStore, inc uint64) (uint64, []byte) {
	val := DecodeSequence(db.Get(s.id)) + inc
	raw := EncodeSequence(val)
	db.Set(s.id, raw)
	return val, raw
}

// DecodeSequence converts the 8 byte big endian form back to a number.
// A missing value is zero.
func DecodeSequence(bz []byte) uint64 {
	if bz == nil {
		return 0
	}
	return binary.BigEndian.Uint64(bz)
}

// EncodeSequence returns the 8 byte big endian form of a value, which
// orders lexicographically the same way as the numbers do.
func EncodeSequence(val uint64) []byte {
	bz := make([]byte, 8)
	binary.BigEndian.PutUint64(bz, val)
	return bz
}
