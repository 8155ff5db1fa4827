package server

import (
	"github.com/iov-one/msigwallet/errors"
	"github.com/tendermint/tendermint/abci/server"
	abci "github.com/tendermint/tendermint/abci/types"
	cmn "github.com/tendermint/tendermint/libs/common"
	"github.com/tendermint/tendermint/libs/log"
)

// DefaultBind is the address the ABCI server listens on unless told
// otherwise.
const DefaultBind = "tcp://localhost:26658"

// AppGenerator lets us lazily initialize app, using home dir
// and logger potentially initialized with other flags
type AppGenerator func(home string, logger log.Logger, debug bool) (abci.Application, error)

// StartCmd initializes the application, and serves it over the abci
// socket protocol until the process receives a termination signal.
func StartCmd(gen AppGenerator, logger log.Logger, home, addr string, debug bool) error {
	svr, err := startServer(gen, logger, home, addr, debug)
	if err != nil {
		return err
	}
	cmn.TrapSignal(logger, func() {
		// Cleanup
		if err := svr.Stop(); err != nil {
			logger.Error("Cannot stop ABCI server", "err", err)
		}
	})
	// Wait forever
	select {}
}

func startServer(gen AppGenerator, logger log.Logger, home, addr string, debug bool) (cmn.Service, error) {
	// Generate the app in the proper dir
	app, err := gen(home, logger, debug)
	if err != nil {
		return nil, errors.Wrap(err, "cannot create application")
	}

	logger.Info("Starting ABCI app", "bind", addr)

	svr, err := server.NewServer(addr, "socket", app)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrInput, "cannot create listener: %s", err)
	}
	svr.SetLogger(logger.With("module", "abci-server"))
	if err := svr.Start(); err != nil {
		return nil, errors.Wrapf(errors.ErrState, "cannot start server: %s", err)
	}
	return svr, nil
}
