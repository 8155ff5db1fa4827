package cash

import (
	"github.com/iov-one/msigwallet/codec"
	"github.com/iov-one/msigwallet/coin"
	"github.com/iov-one/msigwallet/errors"
	"github.com/iov-one/msigwallet/orm"
	"github.com/iov-one/msigwallet/weave"
)

// BucketName is where we store the balances
const BucketName = "cash"

// Balance is the amount held by a single account.
type Balance struct {
	Amount coin.Amount
}

var _ orm.Model = (*Balance)(nil)

func (b *Balance) Marshal() ([]byte, error) {
	return codec.Marshal(b)
}

func (b *Balance) Unmarshal(bz []byte) error {
	return codec.Unmarshal(bz, b)
}

// Validate requires a canonical amount.
func (b *Balance) Validate() error {
	return errors.Wrap(b.Amount.Validate(), "amount")
}

// NewAccount returns an account object holding the given amount.
func NewAccount(addr weave.Address, amount coin.Amount) orm.Object {
	return orm.NewSimpleObj(addr, &Balance{Amount: amount})
}

// AsBalance will safely type-cast any value from Bucket to a Balance
func AsBalance(obj orm.Object) *Balance {
	if obj == nil || obj.Value() == nil {
		return nil
	}
	return obj.Value().(*Balance)
}

// Bucket is a type-safe wrapper around orm.Bucket
type Bucket struct {
	orm.Bucket
}

// NewBucket initializes a cash.Bucket with default name
func NewBucket() Bucket {
	return Bucket{
		Bucket: orm.NewBucket(BucketName, NewAccount(nil, nil)),
	}
}

// GetOrCreate returns the account stored under addr or a new empty one.
func (b Bucket) GetOrCreate(db weave.ReadOnlyKVStore, addr weave.Address) (orm.Object, error) {
	obj, err := b.Get(db, addr)
	if err != nil {
		return nil, err
	}
	if obj == nil {
		obj = NewAccount(addr, nil)
	}
	return obj, nil
}
