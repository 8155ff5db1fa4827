package sigs

import (
	"github.com/iov-one/msigwallet/errors"
)

// ErrInvalidSequence is returned when a signature carries a sequence value
// that does not match the signer account.
// x/sigs reserves 120 ~ 129.
var ErrInvalidSequence = errors.Register(120, "invalid sequence number")
