package sigs

import (
	"github.com/iov-one/msigwallet/codec"
	"github.com/iov-one/msigwallet/crypto"
	"github.com/iov-one/msigwallet/errors"
	"github.com/iov-one/msigwallet/orm"
	"github.com/iov-one/msigwallet/weave"
)

// BucketName is where we store the accounts
const BucketName = "sigs"

//---- UserData
// Model stores the persistent state and all domain logic
// associated with valid state and state transitions.

// UserData is the signer account. It holds the public key once the first
// signature was verified and the sequence expected in the next signature.
type UserData struct {
	Pubkey   crypto.PublicKey
	Sequence int64
}

var _ orm.Model = (*UserData)(nil)

func (u *UserData) Marshal() ([]byte, error) {
	return codec.Marshal(u)
}

func (u *UserData) Unmarshal(bz []byte) error {
	return codec.Unmarshal(bz, u)
}

func (u *UserData) Validate() error {
	if seq := u.Sequence; seq < 0 {
		return errors.Wrap(ErrInvalidSequence, "negative")
	} else if seq > 0 && len(u.Pubkey.Ed25519) == 0 {
		return errors.Wrap(ErrInvalidSequence, "needs pubkey")
	}
	return nil
}

// CheckAndIncrementSequence implements check and increment operation.
// If current sequence value is the same as given expected value then it is
// incremented. Otherwise an error is returned.
// Before incrementing the sequence, this function is testing for a value
// overflow.
func (u *UserData) CheckAndIncrementSequence(expected int64) error {
	if u.Sequence != expected {
		return errors.Wrapf(ErrInvalidSequence, "mismatch expected %d, got %d", expected, u.Sequence)
	}

	next := u.Sequence + 1

	// The greatest nonce a javascript client can represent is
	//   Number.MAX_SAFE_INTEGER = 9007199254740991 = 2^53 - 1
	const maxSequenceValue = (1 << 53) - 1
	if next <= 0 || next > maxSequenceValue {
		return errors.Wrap(errors.ErrOverflow, "sequence out of range")
	}
	u.Sequence = next
	return nil
}

//-------------------- Object Wrapper -------

// AsUser will safely type-cast any value from Bucket to a UserData
func AsUser(obj orm.Object) *UserData {
	if obj == nil || obj.Value() == nil {
		return nil
	}
	return obj.Value().(*UserData)
}

// NewUser constructs an object from a pubkey
func NewUser(pubkey *crypto.PublicKey) orm.Object {
	var key weave.Address
	value := &UserData{}
	if pubkey != nil {
		value.Pubkey = *pubkey
		key = pubkey.Address()
	}
	return orm.NewSimpleObj(key, value)
}

// Bucket extends orm.Bucket with GetOrCreate
type Bucket struct {
	orm.Bucket
}

// NewBucket creates the proper bucket for this extension
func NewBucket() Bucket {
	return Bucket{
		Bucket: orm.NewBucket(BucketName, NewUser(nil)),
	}
}

// GetOrCreate initializes a UserData if none exist for that key
func (b Bucket) GetOrCreate(db weave.KVStore, pubkey *crypto.PublicKey) (orm.Object, error) {
	obj, err := b.Get(db, pubkey.Address())
	if err == nil && obj == nil {
		obj = NewUser(pubkey)
	}
	return obj, err
}
