package crypto

import (
	"bytes"

	"github.com/iov-one/msigwallet/weave"
	"golang.org/x/crypto/ed25519"
)

// ExtensionName is used for the Conditions we get from signatures
const ExtensionName = "sigs"

// PublicKey is an ed25519 public key.
type PublicKey struct {
	Ed25519 []byte
}

// PrivateKey is an ed25519 private key. No serializing helpers are provided
// so that hardware signers can satisfy Signer as well.
type PrivateKey struct {
	Ed25519 []byte
}

// Signature is an ed25519 signature.
type Signature struct {
	Ed25519 []byte
}

// Signer is the functionality we use from a private key.
type Signer interface {
	Sign(message []byte) (*Signature, error)
	PublicKey() *PublicKey
}

var _ Signer = (*PrivateKey)(nil)

// Verify verifies the signature was created with this message and public key
func (p *PublicKey) Verify(message []byte, sig *Signature) bool {
	if p == nil || sig == nil || len(p.Ed25519) != ed25519.PublicKeySize {
		return false
	}
	if len(sig.Ed25519) != ed25519.SignatureSize {
		return false
	}
	return ed25519.Verify(ed25519.PublicKey(p.Ed25519), message, sig.Ed25519)
}

// Condition encodes the public key into a weave condition.
// Returns nil for an empty key.
func (p *PublicKey) Condition() weave.Condition {
	if p == nil || len(p.Ed25519) == 0 {
		return nil
	}
	return weave.NewCondition(ExtensionName, "ed25519", p.Ed25519)
}

// Address is the address of the signature condition of this key.
func (p *PublicKey) Address() weave.Address {
	return p.Condition().Address()
}

// Equals compares two public keys.
func (p *PublicKey) Equals(o *PublicKey) bool {
	if p == nil || o == nil {
		return p == o
	}
	return bytes.Equal(p.Ed25519, o.Ed25519)
}

// Sign returns a matching signature for this private key
func (p *PrivateKey) Sign(message []byte) (*Signature, error) {
	privateKey := ed25519.PrivateKey(p.Ed25519)
	return &Signature{Ed25519: ed25519.Sign(privateKey, message)}, nil
}

// PublicKey returns the corresponding PublicKey
func (p *PrivateKey) PublicKey() *PublicKey {
	privateKey := ed25519.PrivateKey(p.Ed25519)
	pub := privateKey.Public().(ed25519.PublicKey)
	return &PublicKey{Ed25519: pub}
}

// GenPrivKeyEd25519 returns a random new private key
func GenPrivKeyEd25519() *PrivateKey {
	_, priv, err := ed25519.GenerateKey(nil)
	if err != nil {
		panic(err)
	}
	return &PrivateKey{Ed25519: priv}
}

// PrivKeyEd25519FromSeed will deterministically generate a private key from
// a given seed. Use if you have a strong source of external randomness,
// or for deterministic keys in test cases.
func PrivKeyEd25519FromSeed(seed []byte) *PrivateKey {
	return &PrivateKey{Ed25519: ed25519.NewKeyFromSeed(seed)}
}
