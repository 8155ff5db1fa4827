package server

import (
	"encoding/json"
	"io/ioutil"

	"github.com/iov-one/msigwallet/errors"
	"github.com/iov-one/msigwallet/store"
	"github.com/iov-one/msigwallet/weave"
)

// GenesisSummary describes a genesis file that passed validation.
type GenesisSummary struct {
	Path     string
	ChainID  string
	Sections []string
}

// ValidateGenesis loads the app_state of every given genesis file into a
// throw away store. The chain id must be valid. When ini is a
// weave.SectionReader, an app_state section that no extension reads is
// rejected.
func ValidateGenesis(ini weave.Initializer, genesisPaths []string) ([]GenesisSummary, error) {
	out := make([]GenesisSummary, 0, len(genesisPaths))
	for _, path := range genesisPaths {
		sum, err := validateGenesis(ini, path)
		if err != nil {
			return nil, errors.Wrap(err, path)
		}
		out = append(out, *sum)
	}
	return out, nil
}

func validateGenesis(ini weave.Initializer, genesisPath string) (*GenesisSummary, error) {
	b, err := ioutil.ReadFile(genesisPath)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrInput, "cannot read genesis file: %s", err)
	}

	var genesis struct {
		ChainID string        `json:"chain_id"`
		State   weave.Options `json:"app_state"`
	}
	if err := json.Unmarshal(b, &genesis); err != nil {
		return nil, errors.Wrapf(errors.ErrInput, "cannot JSON deserialize genesis: %s", err)
	}
	if !weave.IsValidChainID(genesis.ChainID) {
		return nil, errors.Wrapf(errors.ErrInput, "chain id %q", genesis.ChainID)
	}
	if sr, ok := ini.(weave.SectionReader); ok {
		if known := sr.GenesisSections(); known != nil {
			if err := checkSections(genesis.State, known); err != nil {
				return nil, err
			}
		}
	}

	if err := ini.FromGenesis(genesis.State, store.MemStore()); err != nil {
		return nil, errors.Wrap(err, "cannot initialize from genesis")
	}
	return &GenesisSummary{
		Path:     genesisPath,
		ChainID:  genesis.ChainID,
		Sections: genesis.State.Sections(),
	}, nil
}

func checkSections(state weave.Options, known []string) error {
	ok := make(map[string]bool, len(known))
	for _, k := range known {
		ok[k] = true
	}
	for _, s := range state.Sections() {
		if !ok[s] {
			return errors.Wrapf(errors.ErrInput, "unknown app_state section %q", s)
		}
	}
	return nil
}
