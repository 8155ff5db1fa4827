package sigs

import (
	"context"
	"testing"

	"github.com/iov-one/msigwallet/crypto"
	"github.com/iov-one/msigwallet/store"
	"github.com/iov-one/msigwallet/weave"
	"github.com/iov-one/msigwallet/weavetest"
	"github.com/iov-one/msigwallet/x"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecorator(t *testing.T) {
	kv := store.MemStore()
	checkKv := kv.CacheWrap()
	signers := new(SigCheckHandler)
	d := NewDecorator()
	chainID := "deco-rate"
	ctx := weave.WithChainID(context.Background(), chainID)

	priv := crypto.GenPrivKeyEd25519()
	perms := []weave.Condition{priv.PublicKey().Condition()}

	bz := []byte("art")
	tx := NewStdTx(bz)
	sig, err := SignTx(priv, tx, chainID, 0)
	require.NoError(t, err)
	sig1, err := SignTx(priv, tx, chainID, 1)
	require.NoError(t, err)

	deliver := func(dec weave.Decorator, my weave.Tx) error {
		_, err := dec.Deliver(ctx, kv, my, signers)
		return err
	}
	check := func(dec weave.Decorator, my weave.Tx) error {
		_, err := dec.Check(ctx, checkKv, my, signers)
		return err
	}

	for i, fn := range []func(weave.Decorator, weave.Tx) error{check, deliver} {
		// test with no sigs
		tx.Signatures = nil
		err := fn(d, tx)
		assert.Error(t, err, "%d", i)

		// test with one
		tx.Signatures = []StdSignature{*sig}
		err = fn(d, tx)
		assert.NoError(t, err, "%d", i)
		assert.Equal(t, perms, signers.Signers)

		// test with replay
		err = fn(d, tx)
		assert.Error(t, err, "%d", i)

		// test allowing none
		ad := d.AllowMissingSigs()
		tx.Signatures = nil
		err = fn(ad, tx)
		assert.NoError(t, err, "%d", i)
		assert.Equal(t, []weave.Condition{}, signers.Signers)

		// test allowing, with next sequence
		tx.Signatures = []StdSignature{*sig1}
		err = fn(ad, tx)
		assert.NoError(t, err, "%d", i)
		assert.Equal(t, perms, signers.Signers)
	}
}

func TestDecoratorPassesUnsignedTx(t *testing.T) {
	kv := store.MemStore()
	signers := new(SigCheckHandler)
	ctx := weave.WithChainID(context.Background(), "no-signatures")

	tx := &weavetest.Tx{Msg: &weavetest.Msg{RoutePath: "sigs/test"}}
	_, err := NewDecorator().Deliver(ctx, kv, tx, signers)
	require.NoError(t, err)
	assert.Empty(t, signers.Signers)
}

func TestAuthenticateInSubcall(t *testing.T) {
	cond := crypto.GenPrivKeyEd25519().PublicKey().Condition()
	ctx := withSigners(context.Background(), []weave.Condition{cond})

	var auth Authenticate
	assert.Equal(t, []weave.Condition{cond}, auth.GetConditions(ctx))
	assert.True(t, auth.HasAddress(ctx, cond.Address()))

	sub := x.WithSubcall(ctx, weave.NewCondition("multisig", "wallet", []byte{1}))
	assert.Empty(t, auth.GetConditions(sub))
	assert.False(t, auth.HasAddress(sub, cond.Address()))
}
