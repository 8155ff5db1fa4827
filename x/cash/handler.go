package cash

import (
	"github.com/iov-one/msigwallet/coin"
	"github.com/iov-one/msigwallet/errors"
	"github.com/iov-one/msigwallet/weave"
	"github.com/iov-one/msigwallet/x"
	"github.com/tendermint/tendermint/libs/common"
)

// TransferObserver is called by the SendHandler after a delivered transfer
// moved the funds. Returned tags are added to the deliver result. An error
// fails the whole transfer.
type TransferObserver interface {
	OnTransfer(db weave.KVStore, src, dest weave.Address, amount coin.Amount) ([]common.KVPair, error)
}

// RegisterRoutes will instantiate and register
// all handlers in this package
func RegisterRoutes(r weave.Registry, auth x.Authenticator, control Controller, observers ...TransferObserver) {
	r.Handle(pathSendMsg, NewSendHandler(auth, control, observers...))
}

// RegisterQuery will register this bucket as "/balances"
func RegisterQuery(qr weave.QueryRouter) {
	NewBucket().Register("balances", qr)
}

// SendHandler will handle sending coins
type SendHandler struct {
	auth      x.Authenticator
	control   Controller
	observers []TransferObserver
}

var _ weave.Handler = SendHandler{}

// NewSendHandler creates a handler for SendMsg
func NewSendHandler(auth x.Authenticator, control Controller, observers ...TransferObserver) SendHandler {
	return SendHandler{
		auth:      auth,
		control:   control,
		observers: observers,
	}
}

// Check just verifies it is properly formed and returns
// the cost of executing it
func (h SendHandler) Check(ctx weave.Context, store weave.KVStore, tx weave.Tx) (*weave.CheckResult, error) {
	if _, err := h.validate(ctx, tx); err != nil {
		return nil, err
	}
	res := weave.NewCheck(sendTxCost, "")
	return &res, nil
}

// Deliver moves the tokens from source to receiver if
// all preconditions are met
func (h SendHandler) Deliver(ctx weave.Context, store weave.KVStore, tx weave.Tx) (*weave.DeliverResult, error) {
	msg, err := h.validate(ctx, tx)
	if err != nil {
		return nil, err
	}
	if err := h.control.MoveCoins(store, msg.Source, msg.Destination, msg.Amount); err != nil {
		return nil, err
	}
	var tags []common.KVPair
	for _, o := range h.observers {
		t, err := o.OnTransfer(store, msg.Source, msg.Destination, msg.Amount)
		if err != nil {
			return nil, errors.Wrap(err, "transfer observer")
		}
		tags = append(tags, t...)
	}
	return &weave.DeliverResult{Tags: tags}, nil
}

func (h SendHandler) validate(ctx weave.Context, tx weave.Tx) (*SendMsg, error) {
	var msg SendMsg
	if err := weave.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	// Make sure we have permission from the source.
	if !h.auth.HasAddress(ctx, msg.Source) {
		return nil, errors.Wrap(errors.ErrUnauthorized, "account owner signature missing")
	}
	return &msg, nil
}
