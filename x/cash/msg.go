package cash

import (
	"github.com/iov-one/msigwallet/codec"
	"github.com/iov-one/msigwallet/coin"
	"github.com/iov-one/msigwallet/errors"
	"github.com/iov-one/msigwallet/weave"
)

func init() {
	codec.RegisterMsg(&SendMsg{}, "cash/send")
}

const (
	pathSendMsg = "cash/send"

	sendTxCost int64 = 100

	maxMemoSize int = 128
)

// SendMsg moves funds between two accounts.
type SendMsg struct {
	Source      weave.Address
	Destination weave.Address
	Amount      coin.Amount
	Memo        string
}

// Ensure we implement the Msg interface
var _ weave.Msg = (*SendMsg)(nil)

// Path returns the routing path for this message
func (SendMsg) Path() string {
	return pathSendMsg
}

// Validate makes sure that this is sensible
func (s *SendMsg) Validate() error {
	if err := s.Amount.Validate(); err != nil {
		return errors.Wrap(err, "amount")
	}
	if s.Amount.IsZero() {
		return errors.Wrap(errors.ErrAmount, "non-positive SendMsg")
	}
	if err := s.Source.Validate(); err != nil {
		return errors.Wrap(err, "source")
	}
	if err := s.Destination.Validate(); err != nil {
		return errors.Wrap(err, "destination")
	}
	if len(s.Memo) > maxMemoSize {
		return errors.Wrap(errors.ErrInput, "memo too long")
	}
	return nil
}
