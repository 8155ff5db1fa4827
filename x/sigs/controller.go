package sigs

import (
	"crypto/sha512"
	"encoding/binary"

	"github.com/iov-one/msigwallet/crypto"
	"github.com/iov-one/msigwallet/errors"
	"github.com/iov-one/msigwallet/weave"
)

// SignCodeV1 is the current way to prefix the bytes we use to build
// a signature
var SignCodeV1 = []byte{0, 0xCA, 0xFE, 0}

// VerifyTxSignatures checks all the signatures on the tx.
//
// returns list of signer conditions (possibly empty),
// or error if any signature is invalid
func VerifyTxSignatures(store weave.KVStore, tx SignedTx, chainID string) ([]weave.Condition, error) {
	bz, err := tx.GetSignBytes()
	if err != nil {
		return nil, err
	}
	sigs := tx.GetSignatures()

	signers := make([]weave.Condition, 0, len(sigs))
	for i := range sigs {
		signer, err := VerifySignature(store, &sigs[i], bz, chainID)
		if err != nil {
			return nil, errors.Wrapf(err, "signature %d", i)
		}
		signers = append(signers, signer)
	}
	return signers, nil
}

// VerifySignature checks one signature against signbytes,
// check chain and updates state in the store
func VerifySignature(db weave.KVStore, sig *StdSignature, signBytes []byte, chainID string) (weave.Condition, error) {
	// we guarantee sequence makes sense and pubkey is there
	if err := sig.Validate(); err != nil {
		return nil, err
	}

	bucket := NewBucket()
	obj, err := bucket.GetOrCreate(db, &sig.Pubkey)
	if err != nil {
		return nil, err
	}

	toSign, err := BuildSignBytes(signBytes, chainID, sig.Sequence)
	if err != nil {
		return nil, err
	}

	user := AsUser(obj)
	if !user.Pubkey.Verify(toSign, &sig.Signature) {
		return nil, errors.Wrap(errors.ErrUnauthorized, "invalid signature")
	}

	if err := user.CheckAndIncrementSequence(sig.Sequence); err != nil {
		return nil, err
	}
	if err := bucket.Save(db, obj); err != nil {
		return nil, err
	}
	return user.Pubkey.Condition(), nil
}

/*
BuildSignBytes combines all info on the actual tx before signing

We use the following format:

version | len(chainID) | chainID      | nonce             | signBytes
4bytes  | uint8        | ascii string | int64 (bigendian) | serialized transaction

This is then prehashed with sha512 before fed into
the public key signing/verification step
*/
func BuildSignBytes(signBytes []byte, chainID string, seq int64) ([]byte, error) {
	if seq < 0 {
		return nil, errors.Wrap(ErrInvalidSequence, "negative")
	}
	if !weave.IsValidChainID(chainID) {
		return nil, errors.Wrapf(errors.ErrInput, "chain id: %v", chainID)
	}

	// encode nonce as 8 byte, big-endian
	nonce := make([]byte, 8)
	binary.BigEndian.PutUint64(nonce, uint64(seq))

	output := make([]byte, 0, 4+1+len(chainID)+8+len(signBytes))
	output = append(output, SignCodeV1...)
	output = append(output, uint8(len(chainID)))
	output = append(output, []byte(chainID)...)
	output = append(output, nonce...)
	output = append(output, signBytes...)

	// constant length output to feed into eddsa
	hashed := sha512.Sum512(output)
	return hashed[:], nil
}

// BuildSignBytesTx calculates the sign bytes given a tx
func BuildSignBytesTx(tx SignedTx, chainID string, seq int64) ([]byte, error) {
	signBytes, err := tx.GetSignBytes()
	if err != nil {
		return nil, err
	}
	return BuildSignBytes(signBytes, chainID, seq)
}

// SignTx creates a signature for the given tx
func SignTx(signer crypto.Signer, tx SignedTx, chainID string, seq int64) (*StdSignature, error) {
	signBytes, err := BuildSignBytesTx(tx, chainID, seq)
	if err != nil {
		return nil, err
	}

	sig, err := signer.Sign(signBytes)
	if err != nil {
		return nil, err
	}

	res := &StdSignature{
		Pubkey:    *signer.PublicKey(),
		Signature: *sig,
		Sequence:  seq,
	}
	return res, nil
}
