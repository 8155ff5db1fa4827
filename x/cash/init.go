package cash

import (
	"github.com/iov-one/msigwallet/coin"
	"github.com/iov-one/msigwallet/errors"
	"github.com/iov-one/msigwallet/weave"
)

const optKey = "cash"

// GenesisAccount is used to parse the json from genesis file
// use weave.Address, so address in hex, not base64
type GenesisAccount struct {
	Address weave.Address `json:"address"`
	Amount  coin.Amount   `json:"amount"`
}

// Initializer fulfils the Initializer interface to load data from
// the genesis file
type Initializer struct{}

var (
	_ weave.Initializer   = Initializer{}
	_ weave.SectionReader = Initializer{}
)

// GenesisSections implements weave.SectionReader.
func (Initializer) GenesisSections() []string {
	return []string{optKey}
}

// FromGenesis will parse initial account info from genesis
// and save it to the database
func (Initializer) FromGenesis(opts weave.Options, kv weave.KVStore) error {
	var accts []GenesisAccount
	if err := opts.ReadOptions(optKey, &accts); err != nil {
		return errors.Wrap(errors.ErrInput, err.Error())
	}
	bucket := NewBucket()
	for i, acct := range accts {
		if err := acct.Address.Validate(); err != nil {
			return errors.Wrapf(err, "account %d", i)
		}
		if err := bucket.Save(kv, NewAccount(acct.Address, acct.Amount)); err != nil {
			return errors.Wrapf(err, "account %d", i)
		}
	}
	return nil
}
