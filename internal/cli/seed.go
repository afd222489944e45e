package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rihla-app/localbase/internal/seed"
)

// NewSeedCommand creates the seed command.
func NewSeedCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "seed [seed-dir]",
		Short: "Reset the store and load demo data",
		Long: `Reset the store and repopulate it.

Without arguments the built-in demo baseline is loaded: drivers, a
passenger, trips, wallets, and the rest of the collections the app reads.
With a directory argument, CUE seed files from that directory are loaded
instead.

Example:
  localbase seed
  localbase seed ./custom-seed`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSeed(rootOpts, args, cmd)
		},
	}
	return cmd
}

func runSeed(opts *RootOptions, args []string, cmd *cobra.Command) error {
	out := opts.formatter(cmd)

	data := seed.Baseline()
	if len(args) == 1 {
		loaded, err := seed.LoadDir(args[0])
		if err != nil {
			out.Error("E_SEED", err.Error(), nil)
			return WrapExitError(ExitCommandError, "failed to load seed files", err)
		}
		data = loaded
	}

	b, cleanup, err := opts.openBackend(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	if err := seed.Apply(cmd.Context(), b, data); err != nil {
		out.Error("E_SEED", err.Error(), nil)
		return WrapExitError(ExitFailure, "failed to apply seed", err)
	}

	return out.Success(fmt.Sprintf("seeded %d collections (%d rows)",
		len(data.Collections), data.RowCount()))
}
