package orm

import (
	"testing"

	"github.com/iov-one/msigwallet/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSimpleObj(t *testing.T) {
	key := []byte("foo")
	val := &Counter{Count: 5}

	obj := NewSimpleObj(key, val)
	require.Equal(t, key, obj.Key())
	require.EqualValues(t, val, obj.Value())
	require.NoError(t, obj.Validate())

	// clone returns an empty value of the same type, ready for loading
	o2 := obj.Clone()
	require.Equal(t, key, o2.Key())
	require.IsType(t, &Counter{}, o2.Value())
	assert.Equal(t, int64(0), o2.Value().(*Counter).Count)

	bz, err := obj.Value().Marshal()
	require.NoError(t, err)
	require.NoError(t, o2.Value().Unmarshal(bz))
	assert.Equal(t, val, o2.Value())

	// empty-ness is no good
	nokey := NewSimpleObj([]byte{}, &Counter{})
	assert.True(t, errors.ErrEmpty.Is(nokey.Validate()))
	nokey.SetKey([]byte{1, 3})
	assert.NoError(t, nokey.Validate())

	novalue := NewSimpleObj(key, nil)
	assert.True(t, errors.ErrEmpty.Is(novalue.Validate()))

	// a value error names the key
	negative := NewSimpleObj([]byte{0xAB}, &Counter{Count: -1})
	err = negative.Validate()
	assert.True(t, errors.ErrState.Is(err), "%+v", err)
	assert.Contains(t, err.Error(), "key AB")

	// a template without key clones without key
	assert.Nil(t, NewSimpleObj(nil, &Counter{}).Clone().Key())
}
