package app

import (
	"encoding/hex"
	"encoding/json"
	"fmt"

	"github.com/iov-one/msigwallet/coin"
	"github.com/iov-one/msigwallet/crypto"
	"github.com/iov-one/msigwallet/errors"
	"github.com/iov-one/msigwallet/weave"
	"github.com/iov-one/msigwallet/x/cash"
	"github.com/iov-one/msigwallet/x/multisig"
)

// genesisSupply is the balance of the account created for dev mode.
const genesisSupply = 123456789

// GenInitOptions will produce some basic options for one rich account and
// a single owner wallet controlled by it, to use for dev mode.
//
// An optional hex address can be given as the first argument. Otherwise a
// key is generated and printed together with the options.
func GenInitOptions(args []string) (json.RawMessage, error) {
	var addr weave.Address
	if len(args) > 0 {
		bz, err := hex.DecodeString(args[0])
		if err != nil {
			return nil, errors.Wrap(errors.ErrInput, "address must be hex encoded")
		}
		addr = bz
		if err := addr.Validate(); err != nil {
			return nil, err
		}
	} else {
		a, keys, err := GenerateCoinKey()
		if err != nil {
			return nil, err
		}
		addr = a
		fmt.Println(keys)
	}

	opts := struct {
		Cash     []cash.GenesisAccount    `json:"cash"`
		Multisig []multisig.GenesisWallet `json:"multisig"`
	}{
		Cash: []cash.GenesisAccount{
			{Address: addr, Amount: coin.NewAmount(genesisSupply)},
		},
		Multisig: []multisig.GenesisWallet{
			{Owners: []weave.Address{addr}, RequiredConfirmations: 1},
		},
	}
	raw, err := json.MarshalIndent(opts, "", "  ")
	if err != nil {
		return nil, errors.Wrap(errors.ErrInput, err.Error())
	}
	return raw, nil
}

type output struct {
	Pubkey *crypto.PublicKey  `json:"pub_key"`
	Secret *crypto.PrivateKey `json:"secret"`
}

// GenerateCoinKey returns the address of a public key,
// along with a json representation of the keys.
// You can give coins to this address and
// import the keys in a client to use them
func GenerateCoinKey() (weave.Address, string, error) {
	privKey := crypto.GenPrivKeyEd25519()
	pubKey := privKey.PublicKey()
	addr := pubKey.Address()

	out := output{Pubkey: pubKey, Secret: privKey}
	keys, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return nil, "", errors.Wrap(errors.ErrInput, err.Error())
	}
	return addr, string(keys), nil
}
