package app

import (
	"github.com/iov-one/msigwallet/errors"
	"github.com/iov-one/msigwallet/weave"
)

// ChainInitializers lets you initialize many extensions with one function
func ChainInitializers(inits ...weave.Initializer) weave.Initializer {
	return chainInitializer{inits}
}

type chainInitializer struct {
	inits []weave.Initializer
}

// FromGenesis will pass opts to all Initializers in the list,
// aborting at the first error.
func (c chainInitializer) FromGenesis(opts weave.Options, kv weave.KVStore) error {
	for _, i := range c.inits {
		if err := i.FromGenesis(opts, kv); err != nil {
			return err
		}
	}
	return nil
}

// GenesisSections returns the sections read by all initializers, or nil if
// one of them does not tell.
func (c chainInitializer) GenesisSections() []string {
	var all []string
	for _, i := range c.inits {
		sr, ok := i.(weave.SectionReader)
		if !ok {
			return nil
		}
		all = append(all, sr.GenesisSections()...)
	}
	return all
}

//------- storing chainID ---------

// _wv: is a prefix for internal data
const chainIDKey = "_wv:chainID"

// loadChainID returns the chain id stored if any
func loadChainID(kv weave.ReadOnlyKVStore) string {
	return string(kv.Get([]byte(chainIDKey)))
}

// saveChainID stores a chain id in the kv store.
// Returns error if already set, or invalid name
func saveChainID(kv weave.KVStore, chainID string) error {
	if !weave.IsValidChainID(chainID) {
		return errors.Wrapf(errors.ErrInput, "chain id: %v", chainID)
	}
	k := []byte(chainIDKey)
	if kv.Has(k) {
		return errors.Wrap(errors.ErrUnauthorized, "can't modify chain id after genesis init")
	}
	kv.Set(k, []byte(chainID))
	return nil
}
