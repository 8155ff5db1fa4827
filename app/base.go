package app

import (
	"encoding/hex"

	"github.com/iov-one/msigwallet/errors"
	"github.com/iov-one/msigwallet/weave"
	abci "github.com/tendermint/tendermint/abci/types"
	"github.com/tendermint/tendermint/crypto/tmhash"
)

// BaseApp decodes transactions and runs them through the handler stack on
// top of the storage and query functionality of StoreApp.
type BaseApp struct {
	*StoreApp
	decoder weave.TxDecoder
	handler weave.Handler
	debug   bool
}

var _ abci.Application = BaseApp{}

// NewBaseApp constructs a basic abci application. With debug set, error
// responses carry the full stack trace.
func NewBaseApp(store *StoreApp, decoder weave.TxDecoder, handler weave.Handler, debug bool) BaseApp {
	return BaseApp{
		StoreApp: store,
		decoder:  decoder,
		handler:  handler,
		debug:    debug,
	}
}

// DeliverTx - ABCI - dispatches to the handler
func (b BaseApp) DeliverTx(txBytes []byte) abci.ResponseDeliverTx {
	tx, err := b.loadTx(txBytes)
	if err != nil {
		return weave.DeliverTxError(err, b.debug)
	}
	ctx := txContext(b.BlockContext(), "deliver_tx", txBytes, tx)
	res, err := b.handler.Deliver(ctx, b.DeliverStore(), tx)
	return weave.DeliverOrError(res, err, b.debug)
}

// CheckTx - ABCI - dispatches to the handler
func (b BaseApp) CheckTx(txBytes []byte) abci.ResponseCheckTx {
	tx, err := b.loadTx(txBytes)
	if err != nil {
		return weave.CheckTxError(err, b.debug)
	}
	ctx := txContext(b.BlockContext(), "check_tx", txBytes, tx)
	res, err := b.handler.Check(ctx, b.CheckStore(), tx)
	return weave.CheckOrError(res, err, b.debug)
}

// txContext attaches the call, the transaction hash and the message path
// to the logger of ctx, followed by the fields of a weave.LogFielder
// message.
func txContext(ctx weave.Context, call string, txBytes []byte, tx weave.Tx) weave.Context {
	fields := []interface{}{
		"call", call,
		"tx", hex.EncodeToString(tmhash.SumTruncated(txBytes)),
		"path", weave.GetPath(tx),
	}
	if msg, err := tx.GetMsg(); err == nil {
		if lf, ok := msg.(weave.LogFielder); ok {
			fields = append(fields, lf.LogFields()...)
		}
	}
	return weave.WithLogInfo(ctx, fields...)
}

// loadTx calls the decoder, and capture any panics
func (b BaseApp) loadTx(txBytes []byte) (tx weave.Tx, err error) {
	defer errors.Recover(&err)
	tx, err = b.decoder(txBytes)
	return
}
