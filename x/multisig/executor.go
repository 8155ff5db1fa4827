package multisig

import (
	"github.com/iov-one/msigwallet/codec"
	"github.com/iov-one/msigwallet/errors"
	"github.com/iov-one/msigwallet/weave"
	"github.com/iov-one/msigwallet/x"
	"github.com/iov-one/msigwallet/x/cash"
)

// RouterExecutor moves the proposal value from the wallet account to the
// target and dispatches the proposal payload, if any, through a handler.
// Target receives only the value. The payload is routed by its message
// path, never by Target.
//
// The dispatched message is authenticated only by the wallet condition.
// Signers of the executing transaction are not visible to it.
type RouterExecutor struct {
	bank     cash.Controller
	dispatch weave.Deliverer
}

var _ Executor = RouterExecutor{}

// NewRouterExecutor returns an executor that dispatches payloads to the
// given handler, usually the application router.
func NewRouterExecutor(bank cash.Controller, dispatch weave.Deliverer) RouterExecutor {
	return RouterExecutor{
		bank:     bank,
		dispatch: dispatch,
	}
}

// Execute implements Executor.
func (e RouterExecutor) Execute(ctx weave.Context, db weave.KVStore, walletID []byte, p *Proposal) error {
	cond := WalletCondition(walletID)
	if !p.Value.IsZero() {
		if err := e.bank.MoveCoins(db, cond.Address(), p.Target, p.Value); err != nil {
			return errors.Wrap(err, "transfer value")
		}
	}
	if len(p.Payload) == 0 {
		return nil
	}

	msg, err := codec.DecodeMsg(p.Payload)
	if err != nil {
		return err
	}
	ctx = x.WithSubcall(ctx, cond)
	if _, err := e.dispatch.Deliver(ctx, db, &payloadTx{msg: msg}); err != nil {
		return errors.Wrapf(err, "dispatch %s", msg.Path())
	}
	return nil
}

// payloadTx carries a dispatched message.
type payloadTx struct {
	msg weave.Msg
}

var _ weave.Tx = (*payloadTx)(nil)

func (tx *payloadTx) GetMsg() (weave.Msg, error) {
	return tx.msg, nil
}
