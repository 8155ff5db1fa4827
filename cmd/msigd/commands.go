package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/iov-one/msigwallet/cmd/msigd/app"
	"github.com/iov-one/msigwallet/commands/server"
	"github.com/iov-one/msigwallet/errors"
	"github.com/iov-one/msigwallet/weave"
	"github.com/spf13/cobra"
	abci "github.com/tendermint/tendermint/abci/types"
	"github.com/tendermint/tendermint/libs/log"
)

// rootOptions holds global flags for all commands.
type rootOptions struct {
	Home     string
	LogLevel string

	logger log.Logger
}

func newRootCommand(out io.Writer) *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:           "msigd",
		Short:         "Multisig wallet node",
		Long:          "ABCI application holding multisig wallets, their proposals and confirmations.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			logger, err := newLogger(out, opts.LogLevel)
			if err != nil {
				return err
			}
			opts.logger = logger
			return nil
		},
	}
	cmd.SetOut(out)

	defaultHome := filepath.Join(os.ExpandEnv("$HOME"), ".msigd")
	cmd.PersistentFlags().StringVar(&opts.Home, "home", defaultHome, "directory to store files under")
	cmd.PersistentFlags().StringVar(&opts.LogLevel, "log_level", "info", "log level (debug|info|error|none)")

	cmd.AddCommand(newStartCommand(opts))
	cmd.AddCommand(newInitCommand(opts))
	cmd.AddCommand(newValidateCommand(opts))
	cmd.AddCommand(newVersionCommand())
	return cmd
}

// newLogger writes tendermint formatted logs filtered by level.
func newLogger(out io.Writer, level string) (log.Logger, error) {
	allowed, err := log.AllowLevel(level)
	if err != nil {
		return nil, errors.Wrap(errors.ErrInput, err.Error())
	}
	logger := log.NewTMLogger(log.NewSyncWriter(out)).With("module", "msigd")
	return log.NewFilter(logger, allowed), nil
}

func newStartCommand(opts *rootOptions) *cobra.Command {
	var (
		bind  string
		debug bool
	)
	cmd := &cobra.Command{
		Use:   "start",
		Short: "Run the abci server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return server.StartCmd(generateApp, opts.logger, opts.Home, bind, debug)
		},
	}
	cmd.Flags().StringVar(&bind, "bind", server.DefaultBind, "address server listens on")
	cmd.Flags().BoolVar(&debug, "debug", false, "call stack returned on error")
	return cmd
}

func generateApp(home string, logger log.Logger, debug bool) (abci.Application, error) {
	return app.GenerateApp(home, logger, debug)
}

func newInitCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "init [owner address]",
		Short: "Initialize app state in the genesis file",
		Long: "Add a rich account and a single owner wallet to the genesis file " +
			"created by tendermint init. Without an address a key is generated and printed.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return server.InitCmd(app.GenInitOptions, opts.logger, opts.Home, args)
		},
	}
}

func newValidateCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "validate [genesis files]",
		Short: "Check that genesis files can be loaded",
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				args = []string{server.GenesisFile(opts.Home)}
			}
			sums, err := server.ValidateGenesis(app.Initializers(), args)
			if err != nil {
				return err
			}
			for _, s := range sums {
				fmt.Fprintf(cmd.OutOrStdout(), "%s: chain %s, sections [%s]\n", s.Path, s.ChainID, strings.Join(s.Sections, " "))
			}
			fmt.Fprintln(cmd.OutOrStdout(), "genesis is valid")
			return nil
		},
	}
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the app version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintln(cmd.OutOrStdout(), weave.Version())
			return nil
		},
	}
}
