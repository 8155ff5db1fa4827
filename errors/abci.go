package errors

import (
	stderrors "errors"
	"fmt"
)

const (
	// SuccessABCICode declares an ABCI response use 0 to signal that the
	// processing was successful and no error is returned.
	SuccessABCICode uint32 = 0

	// Errors that do not provide an ABCI code are reported under the
	// internal code with a generic message.
	internalABCICode uint32 = 1
	internalABCILog         = "internal error"
)

// ABCIInfo returns the ABCI error information as consumed by the tendermint
// client. Returned code and log message should be used as a ABCI response.
// Any error that does not provide ABCICode information is categorized as error
// with code 1 and, unless running in debug mode, its message is replaced with
// a generic "internal error".
func ABCIInfo(err error, debug bool) (uint32, string) {
	if errIsNil(err) {
		return SuccessABCICode, ""
	}

	code := abciCode(err)
	if debug {
		return code, fmt.Sprintf("%+v", err)
	}
	if code == internalABCICode || code == ErrPanic.code {
		return code, internalABCILog
	}
	return code, err.Error()
}

type coder interface {
	ABCICode() uint32
}

// abciCode returns the code of the first error in the Cause chain that
// provides one. Errors without a code are internal.
func abciCode(err error) uint32 {
	if errIsNil(err) {
		return SuccessABCICode
	}
	for {
		if c, ok := err.(coder); ok {
			return c.ABCICode()
		}
		if c, ok := err.(causer); ok {
			err = c.Cause()
		} else {
			return internalABCICode
		}
	}
}

// Redact replaces all errors that are not rooted in a registered weave error
// with a generic internal error instance. Panics are redacted as well.
//
// This is a no-operation function when running in debug mode.
func Redact(err error, debug bool) error {
	if debug {
		return err
	}
	if ErrPanic.Is(err) {
		return stderrors.New(internalABCILog)
	}
	if abciCode(err) == internalABCICode {
		return stderrors.New(internalABCILog)
	}
	return err
}
