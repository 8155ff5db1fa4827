package iavl

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	dbm "github.com/tendermint/tendermint/libs/db"
)

func TestCommitStore(t *testing.T) {
	db := dbm.NewMemDB()
	s := NewCommitStoreFromDB(db)
	require.NoError(t, s.LoadLatestVersion())
	assert.Equal(t, int64(0), s.LatestVersion().Version)

	cache := s.CacheWrap()
	cache.Set([]byte("wallet"), []byte("one"))
	cache.Set([]byte("proposal"), []byte("two"))
	// not visible in the committed state before writing
	assert.Nil(t, s.Get([]byte("wallet")))
	cache.Write()

	id := s.Commit()
	assert.Equal(t, int64(1), id.Version)
	assert.NotEmpty(t, id.Hash)
	assert.Equal(t, []byte("one"), s.Get([]byte("wallet")))

	cache = s.CacheWrap()
	cache.Delete([]byte("wallet"))
	cache.Discard()
	cache.Write()
	id2 := s.Commit()
	assert.Equal(t, int64(2), id2.Version)
	assert.Equal(t, id.Hash, id2.Hash)

	// reload from the same database
	reloaded := NewCommitStoreFromDB(db)
	require.NoError(t, reloaded.LoadLatestVersion())
	assert.Equal(t, id2, reloaded.LatestVersion())
	assert.Equal(t, []byte("two"), reloaded.Get([]byte("proposal")))
}

func TestAdapterIterators(t *testing.T) {
	s := NewCommitStoreFromDB(dbm.NewMemDB())
	cache := s.CacheWrap()
	for _, k := range []string{"a", "b", "c"} {
		cache.Set([]byte(k), []byte(k))
	}
	cache.Write()
	s.Commit()

	cache = s.CacheWrap()
	cache.Delete([]byte("b"))
	var keys []string
	for it := cache.ReverseIterator(nil, nil); it.Valid(); it.Next() {
		keys = append(keys, string(it.Key()))
	}
	assert.Equal(t, []string{"c", "a"}, keys)
}
