/*
Package app links together all the various components
to construct the multisig wallet application.
*/
package app

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/iov-one/msigwallet/app"
	"github.com/iov-one/msigwallet/errors"
	"github.com/iov-one/msigwallet/orm"
	"github.com/iov-one/msigwallet/store/iavl"
	"github.com/iov-one/msigwallet/weave"
	"github.com/iov-one/msigwallet/x"
	"github.com/iov-one/msigwallet/x/cash"
	"github.com/iov-one/msigwallet/x/multisig"
	"github.com/iov-one/msigwallet/x/sigs"
	"github.com/iov-one/msigwallet/x/utils"
	"github.com/tendermint/tendermint/libs/log"
	dbm "github.com/tendermint/tendermint/libs/db"
)

// Name is reported by abci Info.
const Name = "msigd"

// Authenticator returns the typical authentication, public key signatures,
// extended with the wallet condition of an executing proposal.
func Authenticator() x.Authenticator {
	return x.ChainAuth(sigs.Authenticate{}, x.SubcallAuth{})
}

// Chain returns a chain of decorators, to handle authentication,
// logging, and recovery
func Chain() app.Decorators {
	return app.ChainDecorators(
		utils.NewLogging(),
		utils.NewRecovery(),
		utils.NewActionTagger(),
		// on CheckTx, bad tx don't affect state
		utils.NewSavepoint().OnCheck(),
		sigs.NewDecorator(),
		// on DeliverTx, bad tx will increment nonce
		// even if the message fails
		utils.NewSavepoint().OnDeliver(),
	)
}

// Router returns a router dispatching to cash and multisig handlers.
// Executed proposals dispatch their payload through the same router.
func Router(authFn x.Authenticator) *app.Router {
	r := app.NewRouter()
	bank := cash.NewController(cash.NewBucket())
	cash.RegisterRoutes(r, authFn, bank, multisig.NewDepositObserver(bank))
	multisig.RegisterRoutes(r, authFn, bank, multisig.NewRouterExecutor(bank, r))
	return r
}

// QueryRouter returns a default query router,
// allowing access to "/balances", "/auth", "/wallets", "/proposals",
// "/confirmations" and "/"
func QueryRouter() weave.QueryRouter {
	r := weave.NewQueryRouter()
	r.RegisterAll(
		cash.RegisterQuery,
		sigs.RegisterQuery,
		multisig.RegisterQuery,
		orm.RegisterQuery,
	)
	return r
}

// Stack wires up a standard router with a standard decorator
// chain. This can be passed into BaseApp.
func Stack() weave.Handler {
	authFn := Authenticator()
	return Chain().WithHandler(Router(authFn))
}

// Initializers returns the genesis loaders of every extension.
func Initializers() weave.Initializer {
	return app.ChainInitializers(
		cash.Initializer{},
		multisig.Initializer{},
	)
}

// Application constructs a basic ABCI application with
// the given arguments. If you are not sure what to use
// for the Handler, just use Stack().
func Application(name string, h weave.Handler, tx weave.TxDecoder,
	dbPath string, logger log.Logger, debug bool) (app.BaseApp, error) {

	kv, err := CommitKVStore(dbPath)
	if err != nil {
		return app.BaseApp{}, err
	}
	store, err := app.NewStoreApp(name, kv, QueryRouter(), context.Background())
	if err != nil {
		return app.BaseApp{}, err
	}
	store = store.WithInit(Initializers()).WithLogger(logger)
	return app.NewBaseApp(store, tx, h, debug), nil
}

// GenerateApp creates the application with the database kept under home.
// An empty home keeps the state in memory.
func GenerateApp(home string, logger log.Logger, debug bool) (app.BaseApp, error) {
	var dbPath string
	if home != "" {
		dbPath = filepath.Join(home, "msig.db")
	}
	return Application(Name, Stack(), TxDecoder, dbPath, logger, debug)
}

// CommitKVStore returns an initialized KVStore that persists
// the data to the named path.
func CommitKVStore(dbPath string) (weave.CommitKVStore, error) {
	// memory backed case, just for testing
	if dbPath == "" {
		return iavl.NewCommitStoreFromDB(dbm.NewMemDB()), nil
	}

	// Expand the path fully
	path, err := filepath.Abs(dbPath)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrInput, "invalid database name: %s", dbPath)
	}

	// Some external calls accidently add a ".db", which is now removed
	path = strings.TrimSuffix(path, filepath.Ext(path))

	// Split the database name into it's components (dir, name)
	dir := filepath.Dir(path)
	name := filepath.Base(path)
	return iavl.NewCommitStore(dir, name)
}
