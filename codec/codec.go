/*
Package codec holds the binary codec shared by every model, message and
transaction in the application.

Extensions register their concrete message types in their init functions
so that messages can travel inside a transaction behind the weave.Msg
interface.
*/
package codec

import (
	"github.com/iov-one/msigwallet/errors"
	"github.com/iov-one/msigwallet/weave"
	amino "github.com/tendermint/go-amino"
)

// Cdc is the application wide amino codec.
var Cdc = amino.NewCodec()

func init() {
	Cdc.RegisterInterface((*weave.Msg)(nil), nil)
}

// RegisterMsg registers a concrete message type under the given name.
// It must be called during program initialization.
func RegisterMsg(msg weave.Msg, name string) {
	Cdc.RegisterConcrete(msg, name, nil)
}

// Marshal serializes given object.
func Marshal(o interface{}) ([]byte, error) {
	bz, err := Cdc.MarshalBinaryBare(o)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrType, "marshal %T: %s", o, err)
	}
	return bz, nil
}

// Unmarshal deserializes data into ptr, that must be a pointer.
func Unmarshal(bz []byte, ptr interface{}) error {
	if err := Cdc.UnmarshalBinaryBare(bz, ptr); err != nil {
		return errors.Wrapf(errors.ErrState, "unmarshal %T: %s", ptr, err)
	}
	return nil
}

// MustMarshal is Marshal that panics on failure. Use it only with data that
// is known to serialize.
func MustMarshal(o interface{}) []byte {
	bz, err := Marshal(o)
	if err != nil {
		panic(err)
	}
	return bz
}

// DecodeMsg deserializes a message that was serialized behind the weave.Msg
// interface.
func DecodeMsg(bz []byte) (weave.Msg, error) {
	var msg weave.Msg
	if err := Cdc.UnmarshalBinaryBare(bz, &msg); err != nil {
		return nil, errors.Wrapf(errors.ErrMsg, "decode message: %s", err)
	}
	if msg == nil {
		return nil, errors.Wrap(errors.ErrMsg, "empty message")
	}
	return msg, nil
}

// EncodeMsg serializes a message behind the weave.Msg interface, so that
// DecodeMsg can restore its concrete type.
func EncodeMsg(msg weave.Msg) ([]byte, error) {
	bz, err := Cdc.MarshalBinaryBare(msg)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrMsg, "encode message: %s", err)
	}
	return bz, nil
}
