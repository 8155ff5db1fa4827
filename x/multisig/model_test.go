package multisig

import (
	"encoding/json"
	"testing"

	"github.com/iov-one/msigwallet/errors"
	"github.com/iov-one/msigwallet/store"
	"github.com/iov-one/msigwallet/weave"
	"github.com/iov-one/msigwallet/weavetest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccessPolicyJSON(t *testing.T) {
	cases := map[string]struct {
		raw     string
		want    AccessPolicy
		wantErr *errors.Error
	}{
		"open":         {raw: `"open"`, want: PolicyOpen},
		"empty":        {raw: `""`, want: PolicyOpen},
		"owners only":  {raw: `"owners_only"`, want: PolicyOwnersOnly},
		"unknown name": {raw: `"everyone"`, wantErr: errors.ErrInput},
		"number":       {raw: `1`, wantErr: errors.ErrInput},
	}
	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			var p AccessPolicy
			err := json.Unmarshal([]byte(tc.raw), &p)
			if tc.wantErr != nil {
				require.True(t, tc.wantErr.Is(err), "%+v", err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, p)
		})
	}

	raw, err := json.Marshal(PolicyOwnersOnly)
	require.NoError(t, err)
	assert.Equal(t, `"owners_only"`, string(raw))
	assert.Equal(t, "AccessPolicy(9)", AccessPolicy(9).String())
}

func TestWalletKeysDoNotOverlap(t *testing.T) {
	short := []byte{1}
	long := []byte{1, 0}
	owner := weavetest.NewCondition().Address()

	// a wallet id that is a prefix of another id must not share keys
	assert.NotEqual(t, WalletPrefix(short), WalletPrefix(long)[:len(WalletPrefix(short))])
	assert.Equal(t, ProposalKey(short, 3), ConfirmationKey(short, 3, owner)[:len(ProposalKey(short, 3))])
	assert.NotEqual(t, ProposalKey(short, 3), ProposalKey(short, 4))
}

func TestProposalBucket(t *testing.T) {
	db := store.MemStore()
	b := NewProposalBucket()
	id := weavetest.SequenceID(5)

	p, err := b.GetProposal(db, id, 0)
	require.NoError(t, err)
	assert.Nil(t, p)

	want := &Proposal{
		Submitter: weavetest.NewCondition().Address(),
		Target:    weavetest.NewCondition().Address(),
	}
	require.NoError(t, b.Put(db, id, 0, want))
	got, err := b.GetProposal(db, id, 0)
	require.NoError(t, err)
	assert.Equal(t, want, got)

	err = b.Put(db, id, 1, &Proposal{Target: weave.Address{1}})
	assert.True(t, errors.ErrInput.Is(err), "%+v", err)
}

func TestConfirmers(t *testing.T) {
	db := store.MemStore()
	b := NewConfirmationBucket()
	id := weavetest.SequenceID(1)
	a, c := weavetest.NewCondition().Address(), weavetest.NewCondition().Address()

	for _, o := range []weave.Address{a, c} {
		require.NoError(t, b.Save(db, newConfirmationObj(ConfirmationKey(id, 2, o), o)))
	}
	// other proposals and wallets are not listed
	other := weavetest.NewCondition().Address()
	require.NoError(t, b.Save(db, newConfirmationObj(ConfirmationKey(id, 1, other), other)))
	require.NoError(t, b.Save(db, newConfirmationObj(ConfirmationKey(weavetest.SequenceID(2), 2, other), other)))

	confirmers, err := b.Confirmers(db, id, 2)
	require.NoError(t, err)
	assert.ElementsMatch(t, []weave.Address{a, c}, confirmers)
	assert.True(t, b.Confirmed(db, id, 2, a))
	assert.False(t, b.Confirmed(db, id, 2, other))
}

func TestWalletAddressBucket(t *testing.T) {
	db := store.MemStore()
	id := weavetest.SequenceID(2)

	_, err := Initialize(db, id, []weave.Address{weavetest.NewCondition().Address()}, 1, PolicyOpen)
	require.NoError(t, err)

	b := NewWalletAddressBucket()
	got, err := b.WalletID(db, WalletCondition(id).Address())
	require.NoError(t, err)
	assert.Equal(t, id, got)

	got, err = b.WalletID(db, weavetest.NewCondition().Address())
	require.NoError(t, err)
	assert.Nil(t, got)
}
