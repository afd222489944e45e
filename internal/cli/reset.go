package cli

import (
	"github.com/spf13/cobra"
)

// NewResetCommand creates the reset command.
func NewResetCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "reset",
		Short:         "Destructively clear every collection and the session",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReset(rootOpts, cmd)
		},
	}
	return cmd
}

func runReset(opts *RootOptions, cmd *cobra.Command) error {
	out := opts.formatter(cmd)

	b, cleanup, err := opts.openBackend(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	if err := b.Reset(cmd.Context()); err != nil {
		out.Error("E_RESET", err.Error(), nil)
		return WrapExitError(ExitFailure, "failed to reset store", err)
	}
	return out.Success("store reset")
}
