/*
Package coin implements the value type moved around by the wallet.

An Amount is an unsigned 256 bit integer stored as its minimal big endian
byte representation, so that it serializes compactly with the application
codec. All arithmetic is overflow checked.
*/
package coin

import (
	"encoding/json"

	"github.com/holiman/uint256"
	"github.com/iov-one/msigwallet/errors"
)

// maxAmountLen is the byte size of the largest representable amount.
const maxAmountLen = 32

// Amount is a non negative 256 bit integer. The zero value is a valid zero
// amount.
type Amount []byte

// NewAmount returns an amount of the given value.
func NewAmount(v uint64) Amount {
	return fromInt(uint256.NewInt(v))
}

// ParseAmount reads a base 10 representation of an amount.
func ParseAmount(s string) (Amount, error) {
	n, err := uint256.FromDecimal(s)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrAmount, "parse %q: %s", s, err)
	}
	return fromInt(n), nil
}

func fromInt(n *uint256.Int) Amount {
	if n.IsZero() {
		return nil
	}
	return Amount(n.Bytes())
}

func (a Amount) toInt() *uint256.Int {
	return new(uint256.Int).SetBytes(a)
}

// Validate returns an error if the amount cannot be represented in 256 bits
// or is not in its minimal form.
func (a Amount) Validate() error {
	if len(a) > maxAmountLen {
		return errors.Wrapf(errors.ErrAmount, "too long: %d bytes", len(a))
	}
	if len(a) > 0 && a[0] == 0 {
		return errors.Wrap(errors.ErrAmount, "leading zero byte")
	}
	return nil
}

// IsZero returns true if the amount is zero.
func (a Amount) IsZero() bool {
	for _, b := range a {
		if b != 0 {
			return false
		}
	}
	return true
}

// Cmp compares two amounts and returns -1, 0 or 1.
func (a Amount) Cmp(b Amount) int {
	return a.toInt().Cmp(b.toInt())
}

// Equals returns true if both amounts have the same value.
func (a Amount) Equals(b Amount) bool {
	return a.Cmp(b) == 0
}

// Add returns the sum of both amounts. An ErrOverflow error is returned if
// the result does not fit in 256 bits.
func (a Amount) Add(b Amount) (Amount, error) {
	if err := a.Validate(); err != nil {
		return nil, err
	}
	if err := b.Validate(); err != nil {
		return nil, err
	}
	sum, overflow := new(uint256.Int).AddOverflow(a.toInt(), b.toInt())
	if overflow {
		return nil, errors.Wrapf(errors.ErrOverflow, "%s + %s", a, b)
	}
	return fromInt(sum), nil
}

// Sub returns a - b. An ErrInsufficientAmount error is returned if b is
// greater than a.
func (a Amount) Sub(b Amount) (Amount, error) {
	if err := a.Validate(); err != nil {
		return nil, err
	}
	if err := b.Validate(); err != nil {
		return nil, err
	}
	diff, underflow := new(uint256.Int).SubOverflow(a.toInt(), b.toInt())
	if underflow {
		return nil, errors.Wrapf(errors.ErrInsufficientAmount, "%s - %s", a, b)
	}
	return fromInt(diff), nil
}

// String returns the base 10 representation.
func (a Amount) String() string {
	if len(a) > maxAmountLen {
		return "(invalid)"
	}
	return a.toInt().Dec()
}

// MarshalJSON encodes the amount as a decimal string, as JSON numbers cannot
// carry 256 bit values.
func (a Amount) MarshalJSON() ([]byte, error) {
	return json.Marshal(a.String())
}

// UnmarshalJSON accepts a decimal string or a JSON number.
func (a *Amount) UnmarshalJSON(raw []byte) error {
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		var n json.Number
		if err := json.Unmarshal(raw, &n); err != nil {
			return errors.Wrap(errors.ErrAmount, "not a string or number")
		}
		s = n.String()
	}
	if s == "" {
		return errors.Wrap(errors.ErrAmount, "empty")
	}
	v, err := ParseAmount(s)
	if err != nil {
		return err
	}
	*a = v
	return nil
}
