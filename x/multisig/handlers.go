package multisig

import (
	"encoding/hex"
	"strconv"

	"github.com/iov-one/msigwallet/errors"
	"github.com/iov-one/msigwallet/orm"
	"github.com/iov-one/msigwallet/weave"
	"github.com/iov-one/msigwallet/x"
	"github.com/iov-one/msigwallet/x/cash"
	"github.com/tendermint/tendermint/libs/common"
)

const (
	creationCost int64 = 100
	proposalCost int64 = 10
	voteCost     int64 = 1
)

// RegisterRoutes will instantiate and register
// all handlers in this package
func RegisterRoutes(r weave.Registry, auth x.Authenticator, bank cash.Controller, exec Executor) {
	r.Handle(pathCreateWalletMsg, CreateWalletHandler{auth: auth, bucket: NewWalletBucket()})
	r.Handle(pathDepositMsg, DepositHandler{auth: auth, bank: bank})
	r.Handle(pathSubmitProposalMsg, SubmitProposalHandler{auth: auth})
	r.Handle(pathConfirmProposalMsg, ConfirmProposalHandler{auth: auth})
	r.Handle(pathRevokeConfirmationMsg, RevokeConfirmationHandler{auth: auth})
	r.Handle(pathExecuteProposalMsg, ExecuteProposalHandler{auth: auth, exec: exec})
}

// RegisterQuery register queries from buckets in this package
func RegisterQuery(qr weave.QueryRouter) {
	NewWalletBucket().Register("wallets", qr)
	NewProposalBucket().Register("proposals", qr)
	NewConfirmationBucket().Register("confirmations", qr)
}

func deliverResult(a *Authority, data []byte) *weave.DeliverResult {
	return &weave.DeliverResult{
		Data: data,
		Tags: EventTags(a.ID(), a.Events()),
	}
}

// CreateWalletHandler creates new wallets.
type CreateWalletHandler struct {
	auth   x.Authenticator
	bucket WalletBucket
}

var _ weave.Handler = CreateWalletHandler{}

func (h CreateWalletHandler) Check(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*weave.CheckResult, error) {
	if _, err := h.validate(ctx, tx); err != nil {
		return nil, err
	}
	res := weave.NewCheck(creationCost, "")
	return &res, nil
}

func (h CreateWalletHandler) Deliver(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*weave.DeliverResult, error) {
	msg, err := h.validate(ctx, tx)
	if err != nil {
		return nil, err
	}
	id := h.bucket.NextID(db)
	if _, err := Initialize(db, id, msg.Owners, msg.RequiredConfirmations, msg.Policy); err != nil {
		return nil, err
	}
	weave.GetLogger(ctx).Debug("wallet created", "wallet", hex.EncodeToString(id), "owners", len(msg.Owners))
	return &weave.DeliverResult{
		Data: id,
		Tags: []common.KVPair{
			tag(tagEvent, "create"),
			tag(tagWallet, hex.EncodeToString(id)),
		},
	}, nil
}

func (h CreateWalletHandler) validate(ctx weave.Context, tx weave.Tx) (*CreateWalletMsg, error) {
	var msg CreateWalletMsg
	if err := weave.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	if _, err := x.Actor(ctx, h.auth, nil); err != nil {
		return nil, err
	}
	return &msg, nil
}

// DepositHandler moves funds into a wallet.
type DepositHandler struct {
	auth x.Authenticator
	bank cash.Controller
}

var _ weave.Handler = DepositHandler{}

func (h DepositHandler) Check(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*weave.CheckResult, error) {
	if _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	res := weave.NewCheck(proposalCost, "")
	return &res, nil
}

func (h DepositHandler) Deliver(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*weave.DeliverResult, error) {
	msg, a, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	if err := a.Deposit(h.bank, msg.Sender, msg.Amount); err != nil {
		return nil, err
	}
	return deliverResult(a, nil), nil
}

func (h DepositHandler) validate(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*DepositMsg, *Authority, error) {
	var msg DepositMsg
	if err := weave.LoadMsg(tx, &msg); err != nil {
		return nil, nil, errors.Wrap(err, "load msg")
	}
	if !h.auth.HasAddress(ctx, msg.Sender) {
		return nil, nil, errors.Wrap(errors.ErrUnauthorized, "sender signature missing")
	}
	a, err := LoadAuthority(db, msg.WalletID)
	if err != nil {
		return nil, nil, err
	}
	return &msg, a, nil
}

// SubmitProposalHandler appends proposals to a wallet ledger.
type SubmitProposalHandler struct {
	auth x.Authenticator
}

var _ weave.Handler = SubmitProposalHandler{}

func (h SubmitProposalHandler) Check(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*weave.CheckResult, error) {
	if _, _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	res := weave.NewCheck(proposalCost, "")
	return &res, nil
}

func (h SubmitProposalHandler) Deliver(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*weave.DeliverResult, error) {
	msg, a, from, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	index, err := a.Submit(from, msg.Target, msg.Value, msg.Payload)
	if err != nil {
		return nil, err
	}
	return deliverResult(a, orm.EncodeSequence(index)), nil
}

func (h SubmitProposalHandler) validate(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*SubmitProposalMsg, *Authority, weave.Address, error) {
	var msg SubmitProposalMsg
	if err := weave.LoadMsg(tx, &msg); err != nil {
		return nil, nil, nil, errors.Wrap(err, "load msg")
	}
	from, err := x.Actor(ctx, h.auth, msg.Sender)
	if err != nil {
		return nil, nil, nil, err
	}
	a, err := LoadAuthority(db, msg.WalletID)
	if err != nil {
		return nil, nil, nil, err
	}
	return &msg, a, from, nil
}

// ConfirmProposalHandler records owner confirmations.
type ConfirmProposalHandler struct {
	auth x.Authenticator
}

var _ weave.Handler = ConfirmProposalHandler{}

func (h ConfirmProposalHandler) Check(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*weave.CheckResult, error) {
	var msg ConfirmProposalMsg
	if _, _, err := loadIndexMsg(ctx, h.auth, db, tx, &msg); err != nil {
		return nil, err
	}
	res := weave.NewCheck(voteCost, "")
	return &res, nil
}

func (h ConfirmProposalHandler) Deliver(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*weave.DeliverResult, error) {
	var msg ConfirmProposalMsg
	a, from, err := loadIndexMsg(ctx, h.auth, db, tx, &msg)
	if err != nil {
		return nil, err
	}
	if err := a.Confirm(from, msg.Index); err != nil {
		return nil, err
	}
	return deliverResult(a, nil), nil
}

// RevokeConfirmationHandler withdraws owner confirmations.
type RevokeConfirmationHandler struct {
	auth x.Authenticator
}

var _ weave.Handler = RevokeConfirmationHandler{}

func (h RevokeConfirmationHandler) Check(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*weave.CheckResult, error) {
	var msg RevokeConfirmationMsg
	if _, _, err := loadIndexMsg(ctx, h.auth, db, tx, &msg); err != nil {
		return nil, err
	}
	res := weave.NewCheck(voteCost, "")
	return &res, nil
}

func (h RevokeConfirmationHandler) Deliver(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*weave.DeliverResult, error) {
	var msg RevokeConfirmationMsg
	a, from, err := loadIndexMsg(ctx, h.auth, db, tx, &msg)
	if err != nil {
		return nil, err
	}
	if err := a.Revoke(from, msg.Index); err != nil {
		return nil, err
	}
	return deliverResult(a, nil), nil
}

// ExecuteProposalHandler executes proposals that reached the quorum.
//
// A failed execution is not an error of the transaction. The proposal is
// marked executed and that must be committed, so the failure is reported
// in the result log and tags instead.
type ExecuteProposalHandler struct {
	auth x.Authenticator
	exec Executor
}

var _ weave.Handler = ExecuteProposalHandler{}

func (h ExecuteProposalHandler) Check(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*weave.CheckResult, error) {
	var msg ExecuteProposalMsg
	if _, _, err := loadIndexMsg(ctx, h.auth, db, tx, &msg); err != nil {
		return nil, err
	}
	res := weave.NewCheck(proposalCost, "")
	return &res, nil
}

func (h ExecuteProposalHandler) Deliver(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*weave.DeliverResult, error) {
	var msg ExecuteProposalMsg
	a, from, err := loadIndexMsg(ctx, h.auth, db, tx, &msg)
	if err != nil {
		return nil, err
	}

	logger := weave.GetLogger(ctx).With("wallet", hex.EncodeToString(a.ID()), "index", msg.Index)
	err = a.Execute(ctx, h.exec, from, msg.Index)
	switch {
	case ErrExecuteFailed.Is(err):
		logger.Info("proposal execution failed", "err", err)
		res := deliverResult(a, nil)
		res.Log = err.Error()
		res.Tags = append(res.Tags,
			tag(tagEvent, executeFailedEvent),
			tag(tagWallet, hex.EncodeToString(a.ID())),
			tag(tagIndex, strconv.FormatUint(msg.Index, 10)),
			tag(tagResult, "failed"),
		)
		return res, nil
	case err != nil:
		return nil, err
	}
	logger.Info("proposal executed")
	return deliverResult(a, nil), nil
}

// indexMsg is implemented by the messages that refer to a single proposal.
type indexMsg interface {
	weave.Msg
	walletID() []byte
	sender() weave.Address
}

func (m *ConfirmProposalMsg) walletID() []byte         { return m.WalletID }
func (m *ConfirmProposalMsg) sender() weave.Address    { return m.Sender }
func (m *RevokeConfirmationMsg) walletID() []byte      { return m.WalletID }
func (m *RevokeConfirmationMsg) sender() weave.Address { return m.Sender }
func (m *ExecuteProposalMsg) walletID() []byte         { return m.WalletID }
func (m *ExecuteProposalMsg) sender() weave.Address    { return m.Sender }

// loadIndexMsg loads the message into msg and returns the wallet and the
// acting address.
func loadIndexMsg(ctx weave.Context, auth x.Authenticator, db weave.KVStore, tx weave.Tx, msg indexMsg) (*Authority, weave.Address, error) {
	if err := weave.LoadMsg(tx, msg); err != nil {
		return nil, nil, errors.Wrap(err, "load msg")
	}
	from, err := x.Actor(ctx, auth, msg.sender())
	if err != nil {
		return nil, nil, err
	}
	a, err := LoadAuthority(db, msg.walletID())
	if err != nil {
		return nil, nil, err
	}
	return a, from, nil
}
