package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rihla-app/localbase/internal/row"
)

// InsertOptions holds flags for the insert command.
type InsertOptions struct {
	*RootOptions
	Upsert bool
}

// NewInsertCommand creates the insert command.
func NewInsertCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &InsertOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "insert <collection> <row-json>...",
		Short: "Insert or upsert JSON rows into a collection",
		Long: `Insert rows given as JSON objects. Rows without an "id" get a
generated surrogate id. With --upsert, rows whose id matches an existing
row are merged into it instead of appended.

Example:
  localbase insert trips '{"status":"requested","fare":21.5}'
  localbase insert --upsert wallets '{"id":"wallet-1","balance":150}'`,
		Args:          cobra.MinimumNArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInsert(opts, args[0], args[1:], cmd)
		},
	}

	cmd.Flags().BoolVar(&opts.Upsert, "upsert", false, "merge by id instead of appending")
	return cmd
}

func runInsert(opts *InsertOptions, collection string, payloads []string, cmd *cobra.Command) error {
	out := opts.formatter(cmd)

	rows := make([]row.Row, 0, len(payloads))
	for i, payload := range payloads {
		var r row.Row
		if err := json.Unmarshal([]byte(payload), &r); err != nil {
			parseErr := fmt.Errorf("row %d: %w", i+1, err)
			out.Error("E_CLI", parseErr.Error(), nil)
			return WrapExitError(ExitCommandError, "invalid row JSON", parseErr)
		}
		rows = append(rows, r)
	}

	b, cleanup, err := opts.openBackend(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	var written []row.Row
	if opts.Upsert {
		written, err = b.Upsert(cmd.Context(), collection, rows...)
	} else {
		written, err = b.Insert(cmd.Context(), collection, rows...)
	}
	if err != nil {
		out.Error(backendCode(err), err.Error(), nil)
		return WrapExitError(ExitFailure, "write failed", err)
	}

	return printRows(out, written)
}
