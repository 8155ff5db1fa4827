package app

import (
	"github.com/iov-one/msigwallet/codec"
	"github.com/iov-one/msigwallet/errors"
	"github.com/iov-one/msigwallet/weave"
	"github.com/iov-one/msigwallet/x/sigs"
)

// Tx is the transaction format of the wallet chain. The message is encoded
// behind the weave.Msg interface, so any registered message can be carried.
type Tx struct {
	Signatures []sigs.StdSignature
	Msg        weave.Msg
}

// make sure tx fulfills all interfaces
var _ weave.Tx = (*Tx)(nil)
var _ sigs.SignedTx = (*Tx)(nil)

// TxDecoder creates a Tx and unmarshals bytes into it
func TxDecoder(bz []byte) (weave.Tx, error) {
	tx := new(Tx)
	if err := tx.Unmarshal(bz); err != nil {
		return nil, err
	}
	return tx, nil
}

func (tx *Tx) Marshal() ([]byte, error) {
	return codec.Marshal(tx)
}

func (tx *Tx) Unmarshal(bz []byte) error {
	if err := codec.Unmarshal(bz, tx); err != nil {
		return errors.Wrap(errors.ErrMsg, err.Error())
	}
	return nil
}

// GetMsg returns the carried message.
func (tx *Tx) GetMsg() (weave.Msg, error) {
	if tx.Msg == nil {
		return nil, errors.Wrap(errors.ErrMsg, "missing message")
	}
	return tx.Msg, nil
}

// GetSignatures returns the signatures of the transaction.
func (tx *Tx) GetSignatures() []sigs.StdSignature {
	return tx.Signatures
}

// GetSignBytes returns the bytes to sign...
func (tx *Tx) GetSignBytes() ([]byte, error) {
	// temporarily unset the signatures, as the sign bytes
	// should only come from the data itself, not previous signatures
	sigs := tx.Signatures
	tx.Signatures = nil

	bz, err := tx.Marshal()

	// reset the signatures after calculating the bytes
	tx.Signatures = sigs
	return bz, err
}
