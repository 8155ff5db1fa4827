package multisig

import (
	"github.com/iov-one/msigwallet/errors"
)

// multisig reserves 1030 ~ 1049.
var (
	ErrAlreadyInitialized          = errors.Register(1030, "wallet already initialized")
	ErrNotInitialized              = errors.Register(1031, "wallet not initialized")
	ErrZeroOwners                  = errors.Register(1032, "no owners")
	ErrInvalidConfirmationNumber   = errors.Register(1033, "invalid confirmation number")
	ErrInvalidOwner                = errors.Register(1034, "invalid owner")
	ErrOwnerNotUnique              = errors.Register(1035, "owner not unique")
	ErrNotOwner                    = errors.Register(1036, "not an owner")
	ErrTxDoesNotExist              = errors.Register(1037, "transaction does not exist")
	ErrTxAlreadyExecuted           = errors.Register(1038, "transaction already executed")
	ErrTxAlreadyConfirmed          = errors.Register(1039, "transaction already confirmed")
	ErrTxNotConfirmed              = errors.Register(1040, "transaction not confirmed")
	ErrConfirmationNumberNotEnough = errors.Register(1041, "confirmation number not enough")
	ErrExecuteFailed               = errors.Register(1042, "execution failed")
)
