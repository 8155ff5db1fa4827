package main

import (
	"bytes"
	"io/ioutil"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/iov-one/msigwallet/errors"
	"github.com/iov-one/msigwallet/weave"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCommand(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestVersion(t *testing.T) {
	out, err := run(t, "version")
	require.NoError(t, err)
	assert.Equal(t, weave.Version(), strings.TrimSpace(out))
}

func TestLogLevel(t *testing.T) {
	_, err := run(t, "--log_level", "loud", "version")
	assert.True(t, errors.ErrInput.Is(err), "%+v", err)

	_, err = run(t, "--log_level", "debug", "version")
	assert.NoError(t, err)
}

func TestInitAndValidate(t *testing.T) {
	home, err := ioutil.TempDir("", "msigd")
	require.NoError(t, err)
	defer os.RemoveAll(home)

	// tendermint init did not run yet
	_, err = run(t, "--home", home, "init", "0102030405060708090021222324252627282930")
	assert.True(t, errors.ErrNotFound.Is(err), "%+v", err)

	require.NoError(t, os.Mkdir(filepath.Join(home, "config"), 0755))
	genesis := filepath.Join(home, "config", "genesis.json")
	require.NoError(t, ioutil.WriteFile(genesis, []byte(`{"chain_id": "test-chain"}`), 0600))

	out, err := run(t, "--home", home, "--log_level", "none", "init", "0102030405060708090021222324252627282930")
	require.NoError(t, err)
	assert.Empty(t, out)

	out, err = run(t, "--home", home, "validate")
	require.NoError(t, err)
	assert.Contains(t, out, "chain test-chain, sections [cash multisig]")
	assert.Contains(t, out, "genesis is valid")
}
