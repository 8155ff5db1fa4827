package server

import (
	"encoding/json"
	"io/ioutil"
	"os"
	"path/filepath"

	"github.com/iov-one/msigwallet/errors"
	"github.com/tendermint/tendermint/libs/log"
)

const appStateKey = "app_state"

// GenOptions can parse command-line and flag to
// generate default app_state for the genesis file.
// This is application-specific
type GenOptions func(args []string) (json.RawMessage, error)

// GenesisFile returns the location of the genesis file under home.
func GenesisFile(home string) string {
	return filepath.Join(home, "config", "genesis.json")
}

// InitCmd adds the application state to the genesis file created by
// `tendermint init` under the same home directory.
// An existing app_state is never overwritten.
func InitCmd(gen GenOptions, logger log.Logger, home string, args []string) error {
	genFile := GenesisFile(home)
	if _, err := os.Stat(genFile); err != nil {
		return errors.Wrapf(errors.ErrNotFound, "genesis file %s, run tendermint init first", genFile)
	}

	options, err := gen(args)
	if err != nil {
		return err
	}
	if err := addGenesisOptions(genFile, options); err != nil {
		return err
	}
	logger.Info("App state written", "path", genFile)
	return nil
}

// genesisDoc involves some tendermint-specific structures we don't
// want to parse, so we just grab it into a raw object format,
// so we can add one line.
type genesisDoc map[string]json.RawMessage

func addGenesisOptions(filename string, options json.RawMessage) error {
	bz, err := ioutil.ReadFile(filename)
	if err != nil {
		return errors.Wrap(errors.ErrInput, err.Error())
	}

	var doc genesisDoc
	if err := json.Unmarshal(bz, &doc); err != nil {
		return errors.Wrapf(errors.ErrInput, "cannot parse genesis: %s", err)
	}

	if state, ok := doc[appStateKey]; ok && !isEmptyState(state) {
		return errors.Wrap(errors.ErrDuplicate, "app_state already set")
	}
	doc[appStateKey] = options

	out, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return errors.Wrap(errors.ErrInput, err.Error())
	}
	return ioutil.WriteFile(filename, out, 0600)
}

// isEmptyState is true for the placeholders tendermint writes.
func isEmptyState(raw json.RawMessage) bool {
	switch string(raw) {
	case "", "null", "{}", `""`:
		return true
	}
	return false
}
