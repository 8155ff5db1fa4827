package multisig

import (
	"github.com/iov-one/msigwallet/errors"
	"github.com/iov-one/msigwallet/weave"
)

const optKey = "multisig"

// GenesisWallet is used to parse the json from genesis file.
type GenesisWallet struct {
	Owners                []weave.Address `json:"owners"`
	RequiredConfirmations uint32          `json:"required_confirmations"`
	Policy                AccessPolicy    `json:"policy"`
}

// Initializer fulfils the Initializer interface to load data from the genesis
// file
type Initializer struct{}

var (
	_ weave.Initializer   = Initializer{}
	_ weave.SectionReader = Initializer{}
)

// GenesisSections implements weave.SectionReader.
func (Initializer) GenesisSections() []string {
	return []string{optKey}
}

// FromGenesis will parse initial wallets from genesis and save them in the
// database. Wallets get sequential ids in the order they are listed.
func (Initializer) FromGenesis(opts weave.Options, kv weave.KVStore) error {
	var wallets []GenesisWallet
	if err := opts.ReadOptions(optKey, &wallets); err != nil {
		return errors.Wrap(errors.ErrInput, err.Error())
	}

	bucket := NewWalletBucket()
	for i, w := range wallets {
		id := bucket.NextID(kv)
		if _, err := Initialize(kv, id, w.Owners, w.RequiredConfirmations, w.Policy); err != nil {
			return errors.Wrapf(err, "cannot create #%d wallet", i)
		}
	}
	return nil
}
