package orm

import (
	"bytes"
	"fmt"
	"testing"

	"github.com/iov-one/msigwallet/store"
	"github.com/stretchr/testify/assert"
)

func TestSequence(t *testing.T) {
	db := store.MemStore()

	cases := []struct {
		bucket     string
		name       string
		init       uint64
		increments uint64
	}{
		0: {"proposal", "a", 0, 22},
		1: {"proposal", "b", 0, 11},
		// every case ends with one NextVal on top of its increments
		2: {"proposal", "a", 23, 18},
		3: {"other", "a", 0, 77},
		4: {"proposal", "b", 12, 248},
	}

	for i, tc := range cases {
		t.Run(fmt.Sprintf("case-%d", i), func(t *testing.T) {
			s := NewSequence(tc.bucket, tc.name)
			orig := EncodeSequence(s.Latest(db))
			assert.Equal(t, tc.init, s.Latest(db))

			var val uint64
			for i := uint64(0); i < tc.increments; i++ {
				val = s.NextInt(db)
			}
			// expect the final value to be this
			assert.Equal(t, tc.init+tc.increments, val)
			assert.Equal(t, val, s.Latest(db))

			// make sure final value is bigger than original value
			// if we use the raw bytes to index stuff
			last := s.NextVal(db)
			assert.Equal(t, 1, bytes.Compare(last, orig))
			assert.Equal(t, val+1, DecodeSequence(last))
		})
	}
}
