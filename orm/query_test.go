package orm

import (
	"testing"

	"github.com/iov-one/msigwallet/errors"
	"github.com/iov-one/msigwallet/store"
	"github.com/iov-one/msigwallet/weave"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRawQuery(t *testing.T) {
	db := store.MemStore()
	db.Set([]byte("foo:1"), []byte("one"))
	db.Set([]byte("foo:2"), []byte("two"))
	db.Set([]byte("fop"), []byte("other"))

	qr := weave.NewQueryRouter()
	RegisterQuery(qr)
	h := qr.Handler("/")
	require.NotNil(t, h)

	models, err := h.Query(db, weave.KeyQueryMod, []byte("foo:2"))
	require.NoError(t, err)
	assert.Equal(t, []weave.Model{weave.Pair([]byte("foo:2"), []byte("two"))}, models)

	models, err = h.Query(db, weave.KeyQueryMod, []byte("missing"))
	require.NoError(t, err)
	assert.Empty(t, models)

	models, err = h.Query(db, weave.PrefixQueryMod, []byte("foo:"))
	require.NoError(t, err)
	assert.Len(t, models, 2)

	models, err = h.Query(db, weave.PrefixQueryMod, nil)
	require.NoError(t, err)
	assert.Len(t, models, 3)

	_, err = h.Query(db, "range", nil)
	assert.True(t, errors.ErrInput.Is(err))
}
