package app

import (
	"encoding/json"
	"fmt"

	"github.com/iov-one/msigwallet/errors"
	"github.com/iov-one/msigwallet/weave"
	abci "github.com/tendermint/tendermint/abci/types"
	"github.com/tendermint/tendermint/libs/log"
)

// StoreApp contains a data store and all info needed
// to perform queries and handshakes.
//
// It should be embedded in another struct for CheckTx,
// DeliverTx and initializing state from the genesis.
//
// Errors on ABCI steps that take no user input (InitChain, Commit) are
// handled as panics, there is no way to report them to tendermint.
type StoreApp struct {
	logger log.Logger

	// name is what is returned from abci.Info
	name string

	// Database state (committed, check, deliver....)
	store *CommitStore

	// Code to initialize from a genesis file
	initializer weave.Initializer

	// How to handle queries
	queryRouter weave.QueryRouter

	// chainID is loaded from db in initialization
	// saved once in parseAppState
	chainID string

	// baseContext contains context info that is valid for
	// lifetime of this app (eg. chainID)
	baseContext weave.Context

	// blockContext contains context info that is valid for the
	// current block (eg. height, header), reset on BeginBlock
	blockContext weave.Context
}

// NewStoreApp initializes this app into a ready state with some defaults
func NewStoreApp(name string, store weave.CommitKVStore, queryRouter weave.QueryRouter, baseContext weave.Context) (*StoreApp, error) {
	cs, err := NewCommitStore(store)
	if err != nil {
		return nil, err
	}
	s := &StoreApp{
		name:        name,
		store:       cs,
		queryRouter: queryRouter,
		baseContext: baseContext,
	}
	s = s.WithLogger(log.NewNopLogger())

	// load the chainID from the db
	s.chainID = loadChainID(s.DeliverStore())
	if s.chainID != "" {
		s.baseContext = weave.WithChainID(s.baseContext, s.chainID)
	}

	// get the most recent height
	info := s.store.CommitInfo()
	s.blockContext = weave.WithHeight(s.baseContext, info.Version)
	return s, nil
}

// GetChainID returns the current chainID
func (s *StoreApp) GetChainID() string {
	return s.chainID
}

// WithInit is used to set the init function we call
func (s *StoreApp) WithInit(init weave.Initializer) *StoreApp {
	s.initializer = init
	return s
}

// parseAppState is called from InitChain, the first time the chain
// starts, and not on restarts.
func (s *StoreApp) parseAppState(data []byte, chainID string, init weave.Initializer) error {
	if s.chainID != "" {
		return errors.Wrapf(errors.ErrState, "app state previously loaded for chain %s", s.chainID)
	}
	if len(data) == 0 {
		return errors.Wrap(errors.ErrEmpty, "app_state not set in genesis.json")
	}

	var appState weave.Options
	if err := json.Unmarshal(data, &appState); err != nil {
		return errors.Wrap(errors.ErrInput, err.Error())
	}
	if err := s.storeChainID(chainID); err != nil {
		return err
	}
	if init == nil {
		return nil
	}
	return init.FromGenesis(appState, s.DeliverStore())
}

// store chainID and update context
func (s *StoreApp) storeChainID(chainID string) error {
	if err := saveChainID(s.DeliverStore(), chainID); err != nil {
		return err
	}
	s.chainID = chainID
	s.baseContext = weave.WithChainID(s.baseContext, s.chainID)
	// CheckTx may arrive before the first BeginBlock
	s.blockContext = weave.WithChainID(s.blockContext, s.chainID)
	return nil
}

// WithLogger sets the logger on the StoreApp and returns it,
// to make it easy to chain in initialization
//
// also sets baseContext logger
func (s *StoreApp) WithLogger(logger log.Logger) *StoreApp {
	s.baseContext = weave.WithLogger(s.baseContext, logger)
	s.logger = logger
	return s
}

// Logger returns the application base logger
func (s *StoreApp) Logger() log.Logger {
	return s.logger
}

// BlockContext returns the block context for public use
func (s *StoreApp) BlockContext() weave.Context {
	return s.blockContext
}

// DeliverStore returns the current DeliverTx cache for methods
func (s *StoreApp) DeliverStore() weave.CacheableKVStore {
	return s.store.DeliverStore()
}

// CheckStore returns the current CheckTx cache for methods
func (s *StoreApp) CheckStore() weave.CacheableKVStore {
	return s.store.CheckStore()
}

//----------------------- ABCI ---------------------

// Info implements abci.Application. It returns the height and hash,
// as well as the abci name and version.
//
// The height is the block that holds the transactions, not the apphash itself.
func (s *StoreApp) Info(req abci.RequestInfo) abci.ResponseInfo {
	info := s.store.CommitInfo()
	s.logger.Info("Info synced",
		"height", info.Version,
		"hash", fmt.Sprintf("%X", info.Hash))

	return abci.ResponseInfo{
		Data:             s.name,
		LastBlockHeight:  info.Version,
		LastBlockAppHash: info.Hash,
	}
}

// SetOption - ABCI
func (s *StoreApp) SetOption(res abci.RequestSetOption) abci.ResponseSetOption {
	return abci.ResponseSetOption{Log: "Not Implemented"}
}

/*
Query gets data from the app store.
A query request has the following elements:
* Path - the type of query
* Data - what to query, interpreted based on Path

Path may be "/", "/<bucket>", or "/<bucket>/<index>"
It may be followed by "?prefix" to make a prefix query.

Key and Value in Results are always serialized ResultSet
objects, able to support 0 to N values. They must be the
same size. This makes things a little more difficult for
simple queries, but provides a consistent interface.
*/
func (s *StoreApp) Query(reqQuery abci.RequestQuery) abci.ResponseQuery {
	qh, mod, err := s.queryRouter.Route(reqQuery.Path)
	if err != nil {
		return queryError(err)
	}

	info := s.store.CommitInfo()
	models, err := qh.Query(s.store.Committed(), mod, reqQuery.Data)
	if err != nil {
		return queryError(err)
	}

	res := abci.ResponseQuery{Height: info.Version}
	if res.Key, err = ResultsFromKeys(models).Marshal(); err != nil {
		return queryError(err)
	}
	if res.Value, err = ResultsFromValues(models).Marshal(); err != nil {
		return queryError(err)
	}
	return res
}

func queryError(err error) abci.ResponseQuery {
	code, log := errors.ABCIInfo(err, false)
	return abci.ResponseQuery{
		Log:  log,
		Code: code,
	}
}

// Commit implements abci.Application
func (s *StoreApp) Commit() abci.ResponseCommit {
	commitID := s.store.Commit()
	s.logger.Debug("Commit synced",
		"height", commitID.Version,
		"hash", fmt.Sprintf("%X", commitID.Hash),
	)
	return abci.ResponseCommit{Data: commitID.Hash}
}

// InitChain implements ABCI
func (s *StoreApp) InitChain(req abci.RequestInitChain) abci.ResponseInitChain {
	if err := s.parseAppState(req.AppStateBytes, req.ChainId, s.initializer); err != nil {
		// Read comment on type header
		panic(err)
	}
	return abci.ResponseInitChain{}
}

// BeginBlock implements ABCI
// Sets up blockContext
func (s *StoreApp) BeginBlock(req abci.RequestBeginBlock) abci.ResponseBeginBlock {
	ctx := weave.WithHeader(s.baseContext, req.Header)
	ctx = weave.WithHeight(ctx, req.Header.GetHeight())
	ctx = weave.WithBlockTime(ctx, req.Header.GetTime())
	s.blockContext = ctx
	return abci.ResponseBeginBlock{}
}

// EndBlock - ABCI
func (s *StoreApp) EndBlock(_ abci.RequestEndBlock) abci.ResponseEndBlock {
	return abci.ResponseEndBlock{}
}
