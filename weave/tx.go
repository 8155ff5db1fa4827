package weave

import (
	"reflect"

	"github.com/iov-one/msigwallet/errors"
)

// Msg is message for the blockchain to take an action
// (Make a state transition). It is just the request, and
// must be validated by the Handlers. All authentication
// information is in the wrapping Tx.
type Msg interface {
	// Path returns the message path.
	// This is used by the Router to locate the proper Handler.
	// Msg should be created alongside the Handler that corresponds to them.
	//
	// Multiple types may have the same value, and will end up at the
	// same Handler.
	//
	// Must be alphanumeric [0-9A-Za-z_\-/]+
	Path() string

	// Validate performs a sanity checks on this message. It returns an
	// error if at least one of the checks fails.
	Validate() error
}

// Tx represent the data sent from the user to the chain.
// It includes the actual message, along with information needed
// to authenticate the sender (cryptographic signatures),
// and anything else needed to pass through middleware.
//
// Each Application must define their own tx type, which
// embeds all the middlewares that we wish to use.
type Tx interface {
	// GetMsg returns the action we wish to communicate
	GetMsg() (Msg, error)
}

// GetPath returns the path of the message, or (missing) if no message
func GetPath(tx Tx) string {
	msg, err := tx.GetMsg()
	if err == nil && msg != nil {
		return msg.Path()
	}
	return "(missing)"
}

// LogFielder is implemented by messages that name the object they act on,
// for example a multisig wallet. The fields are added to the log context of
// the transaction carrying the message.
type LogFielder interface {
	LogFields() []interface{}
}

// TxDecoder can parse bytes into a Tx
type TxDecoder func(txBytes []byte) (Tx, error)

// LoadMsg extracts the message represented by given transaction into given
// destination. Before returning message validation method is called.
func LoadMsg(tx Tx, destination interface{}) error {
	msg, err := tx.GetMsg()
	if err != nil {
		return errors.Wrap(err, "cannot get transaction message")
	}
	if msg == nil {
		return errors.Wrap(errors.ErrMsg, "no message")
	}

	// Reflection is needed, because destination is an interface of a
	// pointer to the message type.
	msgVal := reflect.ValueOf(msg)
	if msgVal.Kind() == reflect.Ptr {
		msgVal = msgVal.Elem()
	}
	destVal := reflect.ValueOf(destination)
	if destVal.Kind() != reflect.Ptr || destVal.IsNil() {
		return errors.Wrap(errors.ErrHuman, "destination must be a non nil pointer")
	}
	destVal = destVal.Elem()
	if !msgVal.Type().AssignableTo(destVal.Type()) {
		return errors.Wrapf(errors.ErrType, "%T cannot be loaded into %T", msg, destination)
	}

	if err := msg.Validate(); err != nil {
		return errors.Wrap(err, "invalid message")
	}
	destVal.Set(msgVal)
	return nil
}

// Marshaller is anything that can be represented in binary
//
// Marshal may validate the data before serializing it and
// unless you previously validated the struct,
// errors should be expected.
type Marshaller interface {
	Marshal() ([]byte, error)
}

// Persistent supports Marshal and Unmarshal
//
// This is separated from Marshal, as this almost always requires
// a pointer, and functions that only need to marshal bytes can
// use the Marshaller interface to access non-pointers.
type Persistent interface {
	Marshaller
	Unmarshal([]byte) error
}
