package app

import (
	"testing"

	"github.com/iov-one/msigwallet/weave"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	abci "github.com/tendermint/tendermint/abci/types"
	dbm "github.com/tendermint/tendermint/libs/db"
)

func TestABCIStore(t *testing.T) {
	s := newStoreApp(t, dbm.NewMemDB())
	s.InitChain(abci.RequestInitChain{
		ChainId:       "test-chain-7",
		AppStateBytes: []byte(`{"dummy": "value"}`),
	})
	db := s.DeliverStore()
	db.Set([]byte("a"), []byte("1"))
	db.Set([]byte("b"), []byte("2"))
	s.Commit()

	full := NewBaseApp(s, nil, nil, false)
	abciStore := NewABCIStore(full, "/")
	assert.Equal(t, []byte("1"), abciStore.Get([]byte("a")))
	assert.True(t, abciStore.Has([]byte("b")))
	assert.False(t, abciStore.Has([]byte("c")))
	assert.Nil(t, abciStore.Get([]byte("c")))

	var keys []string
	for it := abciStore.Iterator(nil, nil); it.Valid(); it.Next() {
		keys = append(keys, string(it.Key()))
	}
	assert.Equal(t, []string{"_wv:chainID", "a", "b", "dummy"}, keys)

	keys = nil
	for it := abciStore.ReverseIterator(nil, nil); it.Valid(); it.Next() {
		keys = append(keys, string(it.Key()))
	}
	assert.Equal(t, []string{"dummy", "b", "a", "_wv:chainID"}, keys)

	assert.Panics(t, func() { abciStore.Iterator([]byte("a"), nil) })
	assert.Panics(t, func() { NewABCIStore(full, "/missing").Get([]byte("a")) })
}

func TestSliceIterator(t *testing.T) {
	models := []weave.Model{
		weave.Pair([]byte("k1"), []byte("v1")),
		weave.Pair([]byte("k2"), []byte("v2")),
	}
	it := NewSliceIterator(models)
	require.True(t, it.Valid())
	assert.Equal(t, []byte("k1"), it.Key())
	assert.Equal(t, []byte("v1"), it.Value())
	it.Next()
	require.True(t, it.Valid())
	assert.Equal(t, []byte("k2"), it.Key())
	it.Next()
	assert.False(t, it.Valid())
	assert.Panics(t, func() { it.Next() })
	assert.Panics(t, func() { it.Key() })
	it.Close()
}
