package cash

import (
	"github.com/iov-one/msigwallet/coin"
	"github.com/iov-one/msigwallet/errors"
	"github.com/iov-one/msigwallet/weave"
)

// Controller is the functionality needed by other extensions to inspect
// and move balances.
type Controller interface {
	Balance(db weave.ReadOnlyKVStore, addr weave.Address) (coin.Amount, error)
	MoveCoins(db weave.KVStore, src, dest weave.Address, amount coin.Amount) error
	IssueCoins(db weave.KVStore, dest weave.Address, amount coin.Amount) error
}

// BaseController is a simple implementation of the Controller backed by a
// single bucket.
type BaseController struct {
	bucket Bucket
}

var _ Controller = BaseController{}

// NewController returns a controller using the given bucket.
func NewController(bucket Bucket) BaseController {
	return BaseController{bucket: bucket}
}

// Balance returns the amount held by addr. Unknown accounts hold zero.
func (c BaseController) Balance(db weave.ReadOnlyKVStore, addr weave.Address) (coin.Amount, error) {
	obj, err := c.bucket.Get(db, addr)
	if err != nil {
		return nil, err
	}
	if obj == nil {
		return nil, nil
	}
	return AsBalance(obj).Amount, nil
}

// MoveCoins moves the given amount from src to dest.
// If src doesn't exist, or doesn't have sufficient
// coins, it fails.
func (c BaseController) MoveCoins(db weave.KVStore, src, dest weave.Address, amount coin.Amount) error {
	if err := amount.Validate(); err != nil {
		return errors.Wrap(err, "amount")
	}
	if amount.IsZero() {
		return errors.Wrap(errors.ErrAmount, "non-positive amount")
	}

	sender, err := c.bucket.Get(db, src)
	if err != nil {
		return err
	}
	if sender == nil {
		return errors.Wrapf(errors.ErrEmpty, "empty account %s", src)
	}
	left, err := AsBalance(sender).Amount.Sub(amount)
	if err != nil {
		return errors.Wrapf(err, "account %s", src)
	}
	if src.Equals(dest) {
		return nil
	}

	recipient, err := c.bucket.GetOrCreate(db, dest)
	if err != nil {
		return err
	}
	total, err := AsBalance(recipient).Amount.Add(amount)
	if err != nil {
		return errors.Wrapf(err, "account %s", dest)
	}

	// nothing is written until both accounts are known to be valid
	AsBalance(sender).Amount = left
	AsBalance(recipient).Amount = total
	if err := c.bucket.Save(db, sender); err != nil {
		return err
	}
	return c.bucket.Save(db, recipient)
}

// IssueCoins attempts to add the given amount of coins to
// the destination address. Fails if it overflows the account.
func (c BaseController) IssueCoins(db weave.KVStore, dest weave.Address, amount coin.Amount) error {
	if err := amount.Validate(); err != nil {
		return errors.Wrap(err, "amount")
	}
	recipient, err := c.bucket.GetOrCreate(db, dest)
	if err != nil {
		return err
	}
	total, err := AsBalance(recipient).Amount.Add(amount)
	if err != nil {
		return errors.Wrapf(err, "account %s", dest)
	}
	AsBalance(recipient).Amount = total
	return c.bucket.Save(db, recipient)
}
