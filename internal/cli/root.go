package cli

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/rihla-app/localbase/internal/auth"
	"github.com/rihla-app/localbase/internal/backend"
	"github.com/rihla-app/localbase/internal/config"
	"github.com/rihla-app/localbase/internal/store"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose  bool
	Format   string // "json" | "text"
	Database string
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the localbase CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "localbase",
		Short: "Local data-backend emulator for the Rihla app",
		Long: `localbase is the offline substitute for Rihla's hosted data backend.

It stores collections of rows in a local SQLite file and exposes the same
behavioral surface the app expects: filtered queries with ordering and
foreign-key expansion, insert/upsert/update mutations, and a credential
based auth emulator with a persisted session.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !isValidFormat(opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}
			return nil
		},
	}

	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")
	cmd.PersistentFlags().StringVar(&opts.Database, "db", "", "path to SQLite database (defaults to RIHLA_STORE_PATH or localbase.db)")

	cmd.AddCommand(NewSeedCommand(opts))
	cmd.AddCommand(NewResetCommand(opts))
	cmd.AddCommand(NewQueryCommand(opts))
	cmd.AddCommand(NewInsertCommand(opts))
	cmd.AddCommand(NewCollectionsCommand(opts))
	cmd.AddCommand(NewSignupCommand(opts))
	cmd.AddCommand(NewSigninCommand(opts))
	cmd.AddCommand(NewSignoutCommand(opts))
	cmd.AddCommand(NewSessionCommand(opts))

	return cmd
}

// isValidFormat checks if the format is one of the allowed values.
func isValidFormat(format string) bool {
	for _, f := range ValidFormats {
		if f == format {
			return true
		}
	}
	return false
}

func (opts *RootOptions) formatter(cmd *cobra.Command) *OutputFormatter {
	return &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}
}

func (opts *RootOptions) logger(cmd *cobra.Command) *slog.Logger {
	if !opts.Verbose {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))
}

// openBackend decides the mode, opens the store, and builds the backend
// handle. Emulator commands are refused in remote mode: with real backend
// parameters configured the app talks to the hosted service and the local
// store must not shadow it.
func (opts *RootOptions) openBackend(cmd *cobra.Command) (*backend.Backend, func(), error) {
	cfg := config.Load()
	if cfg.Mode == config.ModeRemote {
		return nil, nil, NewExitError(ExitCommandError,
			fmt.Sprintf("remote backend configured (%s); emulator commands are disabled", cfg.BackendURL))
	}

	path := opts.Database
	if path == "" {
		path = cfg.StorePath
	}

	st, err := store.Open(path)
	if err != nil {
		return nil, nil, WrapExitError(ExitCommandError, "failed to open database", err)
	}
	cleanup := func() {
		if closeErr := st.Close(); closeErr != nil {
			fmt.Fprintf(os.Stderr, "error closing database: %v\n", closeErr)
		}
	}
	return backend.New(st, backend.WithLogger(opts.logger(cmd))), cleanup, nil
}

func (opts *RootOptions) openAuth(cmd *cobra.Command) (*auth.Service, func(), error) {
	b, cleanup, err := opts.openBackend(cmd)
	if err != nil {
		return nil, nil, err
	}
	return auth.New(b), cleanup, nil
}
