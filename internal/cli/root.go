// Package cli implements the chaindb command-line client. Settings resolve
// from flags, then CHAINDB_* environment variables, then the YAML config
// file written by "chaindb login". Passwords are kept in the OS keyring.
package cli

import (
	"context"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/chaindb/chaindb_sdk_go/internal/logger"
	"github.com/chaindb/chaindb_sdk_go/pkg/chaindb"
)

// Version is set at build time.
var Version = "dev"

type app struct {
	v           *viper.Viper
	openKeyring keyringOpener
	options     []chaindb.Option
}

// Option customises the root command, mainly for tests.
type Option func(*app)

// WithKeyring replaces the OS keyring.
func WithKeyring(open keyringOpener) Option {
	return func(a *app) { a.openKeyring = open }
}

// WithConnectOptions appends options used for every connection.
func WithConnectOptions(opts ...chaindb.Option) Option {
	return func(a *app) { a.options = append(a.options, opts...) }
}

// NewRootCmd builds the command tree.
func NewRootCmd(opts ...Option) *cobra.Command {
	_, root := newRoot(opts...)
	return root
}

func newRoot(opts ...Option) (*app, *cobra.Command) {
	a := &app{
		v:           viper.New(),
		openKeyring: openSystemKeyring,
	}
	for _, opt := range opts {
		opt(a)
	}

	root := &cobra.Command{
		Use:           "chaindb",
		Short:         "Command-line client for ChainDB",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := a.loadConfig(); err != nil {
				return err
			}
			logger.ConfigureWith(a.v.GetString(keyLogLevel), logger.LogType(a.v.GetString(keyLogType)))
			return nil
		},
	}

	flags := root.PersistentFlags()
	flags.String(keyConfig, defaultConfigPath(), "config file")
	flags.String(keyServer, chaindb.DefaultServer, "ChainDB server address")
	flags.String(keyDatabase, "", "database name")
	flags.String(keyUser, "", "database user")
	flags.String(keyPassword, "", "database password (defaults to the keyring entry saved by login)")
	flags.String(keyScheme, chaindb.KeySchemeConcat.String(), "key derivation scheme (concat|framed)")
	flags.StringP(keyOutput, "o", outputTable, "output format (table|json)")
	flags.String(keyLogLevel, "warn", "log level")
	flags.String(keyLogType, string(logger.LogTypeDefault), "log format (default|json)")
	_ = a.v.BindPFlags(flags)

	a.v.SetEnvPrefix("CHAINDB")
	a.v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	a.v.AutomaticEnv()

	root.AddCommand(
		a.newLoginCmd(),
		a.newLogoutCmd(),
		a.newAccountCmd(),
		a.newTransferCmd(),
		a.newTableCmd(),
		newVersionCmd(),
	)
	return a, root
}

// Execute runs the CLI and exits non-zero on failure.
func Execute() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	root := NewRootCmd()
	root.SetContext(ctx)
	if err := root.Execute(); err != nil {
		pterm.Error.WithWriter(os.Stderr).Println(err)
		cancel()
		os.Exit(1)
	}
}

func success(w io.Writer, format string, args ...any) {
	pterm.Success.WithWriter(w).Printfln(format, args...)
}
