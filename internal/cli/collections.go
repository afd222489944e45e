package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewCollectionsCommand creates the collections command.
func NewCollectionsCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "collections",
		Short:         "List collection names present in the store",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCollections(rootOpts, cmd)
		},
	}
	return cmd
}

func runCollections(opts *RootOptions, cmd *cobra.Command) error {
	out := opts.formatter(cmd)

	b, cleanup, err := opts.openBackend(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	var names []string
	err = b.WithLock(func() error {
		var readErr error
		names, readErr = b.Store().Collections(cmd.Context())
		return readErr
	})
	if err != nil {
		out.Error("E_CLI", err.Error(), nil)
		return WrapExitError(ExitFailure, "failed to list collections", err)
	}

	if out.Format == "json" {
		return out.Success(names)
	}
	if len(names) == 0 {
		_, err := fmt.Fprintln(out.Writer, "no collections")
		return err
	}
	for _, name := range names {
		fmt.Fprintln(out.Writer, name)
	}
	return nil
}
