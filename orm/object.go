package orm

import (
	"reflect"

	"github.com/iov-one/msigwallet/errors"
	"github.com/iov-one/msigwallet/weave"
)

// SimpleObj is a Model stored under a key. Every bucket uses one, with a
// nil key, as the template its stored objects are parsed into.
type SimpleObj struct {
	key   []byte
	value Model
}

var _ Object = (*SimpleObj)(nil)

// NewSimpleObj returns an object storing value under key.
func NewSimpleObj(key []byte, value Model) *SimpleObj {
	return &SimpleObj{key: key, value: value}
}

func (o SimpleObj) Key() []byte { return o.key }

func (o *SimpleObj) SetKey(key []byte) { o.key = key }

func (o SimpleObj) Value() weave.Persistent { return o.value }

// Validate requires a key and a value. A value error names the key, so
// that a broken entry of a wallet ledger can be located.
func (o SimpleObj) Validate() error {
	switch {
	case len(o.key) == 0:
		return errors.Wrap(errors.ErrEmpty, "missing key")
	case o.value == nil:
		return errors.Wrap(errors.ErrEmpty, "missing value")
	}
	if err := o.value.Validate(); err != nil {
		return errors.Wrapf(err, "key %X", o.key)
	}
	return nil
}

// Clone returns an object holding a zero value of the same model type and
// a copy of the key, ready for Unmarshal.
func (o *SimpleObj) Clone() Object {
	return &SimpleObj{
		key:   copyKey(o.key),
		value: zeroModel(o.value),
	}
}

// zeroModel allocates a new model of the type m points to.
func zeroModel(m Model) Model {
	return reflect.New(reflect.TypeOf(m).Elem()).Interface().(Model)
}

func copyKey(key []byte) []byte {
	if len(key) == 0 {
		return nil
	}
	return append([]byte(nil), key...)
}
