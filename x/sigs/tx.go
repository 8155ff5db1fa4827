package sigs

import (
	"github.com/iov-one/msigwallet/crypto"
	"github.com/iov-one/msigwallet/errors"
)

// SignedTx represents a transaction that contains signatures,
// which can be verified by the sigs.Decorator
type SignedTx interface {
	// GetSignBytes returns the canonical byte representation of the Msg.
	// Equivalent to codec.MustMarshal(tx.GetMsg()) if Msg has a
	// deterministic serialization.
	GetSignBytes() ([]byte, error)

	// GetSignatures returns the signature of signers who signed the Msg.
	GetSignatures() []StdSignature
}

// StdSignature binds a signature to the public key that produced it and to
// the sequence of the signer account at the signing time.
type StdSignature struct {
	Pubkey    crypto.PublicKey
	Signature crypto.Signature
	Sequence  int64
}

// Validate ensures the StdSignature meets basic standards
func (s *StdSignature) Validate() error {
	if s.Sequence < 0 {
		return errors.Wrap(ErrInvalidSequence, "negative")
	}
	if len(s.Pubkey.Ed25519) == 0 {
		return errors.Wrap(errors.ErrUnauthorized, "missing public key")
	}
	if len(s.Signature.Ed25519) == 0 {
		return errors.Wrap(errors.ErrUnauthorized, "missing signature")
	}
	return nil
}
