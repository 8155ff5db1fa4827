package weavetest

import (
	"encoding/binary"

	"github.com/iov-one/msigwallet/crypto"
	"github.com/iov-one/msigwallet/weave"
)

// NewKey returns a new random ed25519 key.
func NewKey() *crypto.PrivateKey {
	return crypto.GenPrivKeyEd25519()
}

// NewCondition returns the signature condition of a new random key.
func NewCondition() weave.Condition {
	return NewKey().PublicKey().Condition()
}

// SequenceID returns an 8 byte big endian encoded number, the way sequence
// generated keys are stored.
func SequenceID(n uint64) []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, n)
	return b
}
