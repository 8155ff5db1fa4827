package multisig

import (
	"context"
	"encoding/hex"
	"testing"

	"github.com/iov-one/msigwallet/codec"
	"github.com/iov-one/msigwallet/coin"
	"github.com/iov-one/msigwallet/errors"
	"github.com/iov-one/msigwallet/orm"
	"github.com/iov-one/msigwallet/store"
	"github.com/iov-one/msigwallet/weave"
	"github.com/iov-one/msigwallet/weavetest"
	"github.com/iov-one/msigwallet/x"
	"github.com/iov-one/msigwallet/x/cash"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tendermint/tendermint/libs/common"
)

// testApp wires the multisig and cash handlers the way the application
// does.
type testApp struct {
	t      *testing.T
	db     weave.CacheableKVStore
	auth   *weavetest.CtxAuth
	bank   cash.Controller
	router testRouter
}

func newTestApp(t *testing.T) *testApp {
	auth := &weavetest.CtxAuth{Key: "auth"}
	chain := x.ChainAuth(auth, x.SubcallAuth{})
	bank := cash.NewController(cash.NewBucket())
	router := testRouter{}
	cash.RegisterRoutes(router, chain, bank, NewDepositObserver(bank))
	RegisterRoutes(router, chain, bank, NewRouterExecutor(bank, router))
	return &testApp{
		t:      t,
		db:     store.MemStore(),
		auth:   auth,
		bank:   bank,
		router: router,
	}
}

func (a *testApp) deliver(msg weave.Msg, signers ...weave.Condition) (*weave.DeliverResult, error) {
	ctx := a.auth.SetConditions(context.Background(), signers...)
	tx := &weavetest.Tx{Msg: msg}
	if _, err := a.router[weave.GetPath(tx)].Check(ctx, a.db, tx); err != nil {
		return nil, err
	}
	return a.router.Deliver(ctx, a.db, tx)
}

func (a *testApp) mustDeliver(msg weave.Msg, signers ...weave.Condition) *weave.DeliverResult {
	a.t.Helper()
	res, err := a.deliver(msg, signers...)
	require.NoError(a.t, err)
	return res
}

func (a *testApp) balance(addr weave.Address) string {
	a.t.Helper()
	b, err := a.bank.Balance(a.db, addr)
	require.NoError(a.t, err)
	return b.String()
}

func tagValues(tags []common.KVPair, key string) []string {
	var out []string
	for _, kv := range tags {
		if string(kv.Key) == key {
			out = append(out, string(kv.Value))
		}
	}
	return out
}

func TestHandlersFullFlow(t *testing.T) {
	app := newTestApp(t)
	alice, bob, carol := weavetest.NewCondition(), weavetest.NewCondition(), weavetest.NewCondition()
	stranger := weavetest.NewCondition()
	beneficiary := weavetest.NewCondition().Address()

	res := app.mustDeliver(&CreateWalletMsg{
		Owners:                []weave.Address{alice.Address(), bob.Address(), carol.Address()},
		RequiredConfirmations: 2,
	}, alice)
	id := res.Data
	assert.Equal(t, weavetest.SequenceID(1), id)
	assert.Equal(t, []string{"create"}, tagValues(res.Tags, tagEvent))
	wallet := WalletCondition(id).Address()

	require.NoError(t, app.bank.IssueCoins(app.db, alice.Address(), coin.NewAmount(100)))
	res = app.mustDeliver(&DepositMsg{WalletID: id, Sender: alice.Address(), Amount: coin.NewAmount(60)}, alice)
	assert.Equal(t, []string{"60"}, tagValues(res.Tags, tagBalance))
	assert.Equal(t, "60", app.balance(wallet))

	payload, err := codec.EncodeMsg(&cash.SendMsg{
		Source:      wallet,
		Destination: beneficiary,
		Amount:      coin.NewAmount(25),
	})
	require.NoError(t, err)
	res = app.mustDeliver(&SubmitProposalMsg{
		WalletID: id,
		Target:   bob.Address(),
		Value:    coin.NewAmount(10),
		Payload:  payload,
	}, stranger)
	assert.Equal(t, orm.EncodeSequence(0), res.Data)
	assert.Equal(t, []string{"submit"}, tagValues(res.Tags, tagEvent))

	app.mustDeliver(&ConfirmProposalMsg{WalletID: id, Index: 0}, alice)
	_, err = app.deliver(&ExecuteProposalMsg{WalletID: id, Index: 0}, stranger)
	assert.True(t, ErrConfirmationNumberNotEnough.Is(err), "%+v", err)

	res = app.mustDeliver(&ConfirmProposalMsg{WalletID: id, Index: 0}, carol)
	assert.Equal(t, []string{carol.Address().String()}, tagValues(res.Tags, tagOwner))

	res = app.mustDeliver(&ExecuteProposalMsg{WalletID: id, Index: 0}, stranger)
	assert.Empty(t, res.Log)
	assert.Equal(t, []string{ExecuteTransaction{}.Name()}, tagValues(res.Tags, tagEvent))
	assert.Equal(t, []string{"0"}, tagValues(res.Tags, tagIndex))
	assert.Empty(t, tagValues(res.Tags, tagResult))

	assert.Equal(t, "25", app.balance(wallet))
	assert.Equal(t, "10", app.balance(bob.Address()))
	assert.Equal(t, "25", app.balance(beneficiary))

	_, err = app.deliver(&ExecuteProposalMsg{WalletID: id, Index: 0}, alice)
	assert.True(t, ErrTxAlreadyExecuted.Is(err), "%+v", err)
}

func TestExecutedPayloadCannotUseSigners(t *testing.T) {
	app := newTestApp(t)
	alice, bob := weavetest.NewCondition(), weavetest.NewCondition()
	res := app.mustDeliver(&CreateWalletMsg{
		Owners:                []weave.Address{alice.Address(), bob.Address()},
		RequiredConfirmations: 1,
	}, alice)
	id := res.Data

	require.NoError(t, app.bank.IssueCoins(app.db, alice.Address(), coin.NewAmount(50)))

	// the payload tries to spend the funds of the executing signer
	payload, err := codec.EncodeMsg(&cash.SendMsg{
		Source:      alice.Address(),
		Destination: bob.Address(),
		Amount:      coin.NewAmount(50),
	})
	require.NoError(t, err)
	app.mustDeliver(&SubmitProposalMsg{WalletID: id, Target: bob.Address(), Payload: payload}, alice)
	app.mustDeliver(&ConfirmProposalMsg{WalletID: id, Index: 0}, alice)

	res, err = app.deliver(&ExecuteProposalMsg{WalletID: id, Index: 0}, alice)
	require.NoError(t, err)
	assert.Contains(t, res.Log, "unauthorized")
	assert.Equal(t, []string{"failed"}, tagValues(res.Tags, tagResult))
	assert.Equal(t, "50", app.balance(alice.Address()))
	assert.Equal(t, "0", app.balance(bob.Address()))

	a, err := LoadAuthority(app.db, id)
	require.NoError(t, err)
	p, err := a.Transaction(0)
	require.NoError(t, err)
	assert.True(t, p.Executed)
}

func TestExecuteFailureCommitsExecutedFlag(t *testing.T) {
	app := newTestApp(t)
	alice := weavetest.NewCondition()
	id := app.mustDeliver(&CreateWalletMsg{
		Owners:                []weave.Address{alice.Address()},
		RequiredConfirmations: 1,
	}, alice).Data

	// the wallet has no funds to move
	app.mustDeliver(&SubmitProposalMsg{
		WalletID: id,
		Target:   weavetest.NewCondition().Address(),
		Value:    coin.NewAmount(1),
	}, alice)
	app.mustDeliver(&ConfirmProposalMsg{WalletID: id, Index: 0}, alice)

	res, err := app.deliver(&ExecuteProposalMsg{WalletID: id, Index: 0}, alice)
	require.NoError(t, err)
	assert.NotEmpty(t, res.Log)
	assert.Equal(t, []string{executeFailedEvent}, tagValues(res.Tags, tagEvent))
	assert.NotContains(t, tagValues(res.Tags, tagEvent), ExecuteTransaction{}.Name())
	assert.Equal(t, []string{"0"}, tagValues(res.Tags, tagIndex))

	_, err = app.deliver(&ExecuteProposalMsg{WalletID: id, Index: 0}, alice)
	assert.True(t, ErrTxAlreadyExecuted.Is(err), "%+v", err)
}

func TestSendToWalletAddressIsDeposit(t *testing.T) {
	app := newTestApp(t)
	alice := weavetest.NewCondition()
	id := app.mustDeliver(&CreateWalletMsg{
		Owners:                []weave.Address{alice.Address()},
		RequiredConfirmations: 1,
	}, alice).Data
	wallet := WalletCondition(id).Address()
	require.NoError(t, app.bank.IssueCoins(app.db, alice.Address(), coin.NewAmount(30)))

	res := app.mustDeliver(&cash.SendMsg{Source: alice.Address(), Destination: wallet, Amount: coin.NewAmount(12)}, alice)
	assert.Equal(t, []string{Deposit{}.Name()}, tagValues(res.Tags, tagEvent))
	assert.Equal(t, []string{hex.EncodeToString(id)}, tagValues(res.Tags, tagWallet))
	assert.Equal(t, []string{alice.Address().String()}, tagValues(res.Tags, tagSender))
	assert.Equal(t, []string{"12"}, tagValues(res.Tags, tagAmount))
	assert.Equal(t, []string{"12"}, tagValues(res.Tags, tagBalance))

	res = app.mustDeliver(&cash.SendMsg{Source: alice.Address(), Destination: wallet, Amount: coin.NewAmount(3)}, alice)
	assert.Equal(t, []string{"15"}, tagValues(res.Tags, tagBalance))

	// an ordinary account is not a wallet
	res = app.mustDeliver(&cash.SendMsg{Source: alice.Address(), Destination: weavetest.NewCondition().Address(), Amount: coin.NewAmount(1)}, alice)
	assert.Empty(t, res.Tags)
}

func TestUndecodablePayload(t *testing.T) {
	app := newTestApp(t)
	alice := weavetest.NewCondition()
	id := app.mustDeliver(&CreateWalletMsg{
		Owners:                []weave.Address{alice.Address()},
		RequiredConfirmations: 1,
	}, alice).Data

	app.mustDeliver(&SubmitProposalMsg{
		WalletID: id,
		Target:   alice.Address(),
		Payload:  []byte("not a message"),
	}, alice)
	app.mustDeliver(&ConfirmProposalMsg{WalletID: id, Index: 0}, alice)
	res, err := app.deliver(&ExecuteProposalMsg{WalletID: id, Index: 0}, alice)
	require.NoError(t, err)
	assert.Equal(t, []string{"failed"}, tagValues(res.Tags, tagResult))
}

func TestHandlerErrors(t *testing.T) {
	alice, bob := weavetest.NewCondition(), weavetest.NewCondition()
	stranger := weavetest.NewCondition()
	walletID := weavetest.SequenceID(1)

	cases := map[string]struct {
		msg     weave.Msg
		signers []weave.Condition
		wantErr *errors.Error
	}{
		"create without signature": {
			msg:     &CreateWalletMsg{Owners: []weave.Address{alice.Address()}, RequiredConfirmations: 1},
			wantErr: errors.ErrUnauthorized,
		},
		"create with invalid quorum": {
			msg:     &CreateWalletMsg{Owners: []weave.Address{alice.Address()}, RequiredConfirmations: 2},
			signers: []weave.Condition{alice},
			wantErr: ErrInvalidConfirmationNumber,
		},
		"deposit signed by another account": {
			msg:     &DepositMsg{WalletID: walletID, Sender: alice.Address(), Amount: coin.NewAmount(1)},
			signers: []weave.Condition{bob},
			wantErr: errors.ErrUnauthorized,
		},
		"deposit nothing": {
			msg:     &DepositMsg{WalletID: walletID, Sender: alice.Address()},
			signers: []weave.Condition{alice},
			wantErr: errors.ErrAmount,
		},
		"deposit to missing wallet": {
			msg:     &DepositMsg{WalletID: weavetest.SequenceID(9), Sender: alice.Address(), Amount: coin.NewAmount(1)},
			signers: []weave.Condition{alice},
			wantErr: ErrNotInitialized,
		},
		"submit to missing wallet": {
			msg:     &SubmitProposalMsg{WalletID: weavetest.SequenceID(9), Target: bob.Address()},
			signers: []weave.Condition{alice},
			wantErr: ErrNotInitialized,
		},
		"submit for unauthenticated sender": {
			msg:     &SubmitProposalMsg{WalletID: walletID, Sender: alice.Address(), Target: bob.Address()},
			signers: []weave.Condition{stranger},
			wantErr: errors.ErrUnauthorized,
		},
		"submit oversized payload": {
			msg:     &SubmitProposalMsg{WalletID: walletID, Target: bob.Address(), Payload: make([]byte, maxPayloadSize+1)},
			signers: []weave.Condition{alice},
			wantErr: errors.ErrInput,
		},
		"confirm by stranger": {
			msg:     &ConfirmProposalMsg{WalletID: walletID, Index: 0},
			signers: []weave.Condition{stranger},
			wantErr: ErrNotOwner,
		},
		"confirm without signature": {
			msg:     &ConfirmProposalMsg{WalletID: walletID, Index: 0},
			wantErr: errors.ErrUnauthorized,
		},
		"confirm twice": {
			msg:     &ConfirmProposalMsg{WalletID: walletID, Index: 0, Sender: alice.Address()},
			signers: []weave.Condition{alice, bob},
			wantErr: ErrTxAlreadyConfirmed,
		},
		"revoke unconfirmed": {
			msg:     &RevokeConfirmationMsg{WalletID: walletID, Index: 0, Sender: bob.Address()},
			signers: []weave.Condition{alice, bob},
			wantErr: ErrTxNotConfirmed,
		},
		"revoke missing proposal": {
			msg:     &RevokeConfirmationMsg{WalletID: walletID, Index: 3},
			signers: []weave.Condition{alice},
			wantErr: ErrTxDoesNotExist,
		},
		"execute below quorum": {
			msg:     &ExecuteProposalMsg{WalletID: walletID, Index: 0},
			signers: []weave.Condition{alice},
			wantErr: ErrConfirmationNumberNotEnough,
		},
		"execute without wallet id": {
			msg:     &ExecuteProposalMsg{Index: 0},
			signers: []weave.Condition{alice},
			wantErr: errors.ErrEmpty,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			app := newTestApp(t)
			id := app.mustDeliver(&CreateWalletMsg{
				Owners:                []weave.Address{alice.Address(), bob.Address()},
				RequiredConfirmations: 2,
			}, alice).Data
			require.Equal(t, walletID, id)
			app.mustDeliver(&SubmitProposalMsg{WalletID: id, Target: bob.Address()}, alice)
			app.mustDeliver(&ConfirmProposalMsg{WalletID: id, Index: 0}, alice)

			before := dump(app.db)
			_, err := app.deliver(tc.msg, tc.signers...)
			require.True(t, tc.wantErr.Is(err), "%+v", err)
			assert.Equal(t, before, dump(app.db))
		})
	}
}

func TestQueries(t *testing.T) {
	app := newTestApp(t)
	alice := weavetest.NewCondition()
	id := app.mustDeliver(&CreateWalletMsg{
		Owners:                []weave.Address{alice.Address()},
		RequiredConfirmations: 1,
	}, alice).Data
	app.mustDeliver(&SubmitProposalMsg{WalletID: id, Target: alice.Address()}, alice)
	app.mustDeliver(&ConfirmProposalMsg{WalletID: id, Index: 0}, alice)

	qr := weave.NewQueryRouter()
	RegisterQuery(qr)

	models, err := qr.Handler("/wallets").Query(app.db, weave.KeyQueryMod, id)
	require.NoError(t, err)
	require.Len(t, models, 1)
	var w Wallet
	require.NoError(t, w.Unmarshal(models[0].Value))
	assert.Equal(t, []weave.Address{alice.Address()}, w.Owners)

	models, err = qr.Handler("/proposals").Query(app.db, weave.PrefixQueryMod, WalletPrefix(id))
	require.NoError(t, err)
	require.Len(t, models, 1)
	var p Proposal
	require.NoError(t, p.Unmarshal(models[0].Value))
	assert.Equal(t, uint32(1), p.ConfirmationCount)

	models, err = qr.Handler("/confirmations").Query(app.db, weave.PrefixQueryMod, ProposalKey(id, 0))
	require.NoError(t, err)
	require.Len(t, models, 1)
}
