package multisig

import (
	"github.com/iov-one/msigwallet/coin"
	"github.com/iov-one/msigwallet/errors"
	"github.com/iov-one/msigwallet/weave"
	"github.com/iov-one/msigwallet/x/cash"
	"github.com/tendermint/tendermint/libs/common"
)

// DepositObserver tags plain cash transfers whose destination is a wallet
// address with a Deposit event, the same event DepositMsg emits.
type DepositObserver struct {
	bank    cash.Controller
	wallets WalletAddressBucket
}

var _ cash.TransferObserver = DepositObserver{}

// NewDepositObserver returns an observer reading wallet balances from bank.
func NewDepositObserver(bank cash.Controller) DepositObserver {
	return DepositObserver{
		bank:    bank,
		wallets: NewWalletAddressBucket(),
	}
}

// OnTransfer implements cash.TransferObserver.
func (o DepositObserver) OnTransfer(db weave.KVStore, src, dest weave.Address, amount coin.Amount) ([]common.KVPair, error) {
	id, err := o.wallets.WalletID(db, dest)
	if err != nil {
		return nil, err
	}
	if id == nil {
		return nil, nil
	}
	balance, err := o.bank.Balance(db, dest)
	if err != nil {
		return nil, errors.Wrap(err, "balance")
	}
	return Deposit{Sender: src, Amount: amount, Balance: balance}.Tags(id), nil
}
