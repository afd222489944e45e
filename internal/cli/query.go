package cli

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rihla-app/localbase/internal/backend"
	"github.com/rihla-app/localbase/internal/query"
	"github.com/rihla-app/localbase/internal/row"
)

// QueryOptions holds flags for the query command.
type QueryOptions struct {
	*RootOptions
	Eq       []string
	Gte      []string
	Contains []string
	Order    string
	Desc     bool
	Limit    int
	Single   bool
	Expand   string
}

// NewQueryCommand creates the query command.
func NewQueryCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &QueryOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "query <collection>",
		Short: "Filter, order, and expand rows of a collection",
		Long: `Query a collection with predicate filters.

Filters combine conjunctively. Values are parsed as numbers, booleans,
null, or RFC 3339 timestamps when they look like one, and as strings
otherwise.

Example:
  localbase query trips --eq status=completed --gte fare=20 --order fare
  localbase query trips --eq id=trip-1 --single --expand driver:profiles:driver_id`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runQuery(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringArrayVar(&opts.Eq, "eq", nil, "equality filter, col=value (repeatable)")
	cmd.Flags().StringArrayVar(&opts.Gte, "gte", nil, "greater-or-equal filter, col=value (repeatable)")
	cmd.Flags().StringArrayVar(&opts.Contains, "contains", nil, "case-insensitive contains filter, col=pattern (repeatable)")
	cmd.Flags().StringVar(&opts.Order, "order", "", "column to order by")
	cmd.Flags().BoolVar(&opts.Desc, "desc", false, "order descending")
	cmd.Flags().IntVar(&opts.Limit, "limit", 0, "maximum number of rows")
	cmd.Flags().BoolVar(&opts.Single, "single", false, "expect exactly one row; fails with NOT_FOUND on zero matches")
	cmd.Flags().StringVar(&opts.Expand, "expand", "", "foreign-key expansion, field:collection:foreign_key")

	return cmd
}

func runQuery(opts *QueryOptions, collection string, cmd *cobra.Command) error {
	out := opts.formatter(cmd)

	b, cleanup, err := opts.openBackend(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	builder := b.From(collection)
	if err := applyFilters(builder, opts); err != nil {
		out.Error("E_CLI", err.Error(), nil)
		return WrapExitError(ExitCommandError, "invalid filter", err)
	}

	res, err := builder.Execute(cmd.Context())
	if err != nil {
		out.Error(backendCode(err), err.Error(), nil)
		return WrapExitError(ExitFailure, "query failed", err)
	}

	if opts.Single {
		return printRows(out, []row.Row{res.Row})
	}
	return printRows(out, res.Rows)
}

func applyFilters(builder *query.Builder, opts *QueryOptions) error {
	for _, raw := range opts.Eq {
		col, val, err := splitFilter(raw)
		if err != nil {
			return err
		}
		builder.Eq(col, parseLiteral(val))
	}
	for _, raw := range opts.Gte {
		col, val, err := splitFilter(raw)
		if err != nil {
			return err
		}
		builder.Gte(col, parseLiteral(val))
	}
	for _, raw := range opts.Contains {
		col, val, err := splitFilter(raw)
		if err != nil {
			return err
		}
		builder.Contains(col, val)
	}
	if opts.Order != "" {
		builder.OrderBy(opts.Order, !opts.Desc)
	}
	if opts.Limit > 0 {
		builder.Limit(opts.Limit)
	}
	if opts.Expand != "" {
		parts := strings.Split(opts.Expand, ":")
		if len(parts) != 3 {
			return fmt.Errorf("expand must be field:collection:foreign_key, got %q", opts.Expand)
		}
		builder.Expand(query.Expansion{
			Field:      parts[0],
			Collection: parts[1],
			ForeignKey: parts[2],
		})
	}
	if opts.Single {
		builder.Single()
	}
	return nil
}

func splitFilter(raw string) (string, string, error) {
	col, val, ok := strings.Cut(raw, "=")
	if !ok || col == "" {
		return "", "", fmt.Errorf("filter must be col=value, got %q", raw)
	}
	return col, val, nil
}

// parseLiteral interprets a flag value the way seed files would: numbers,
// booleans, null, and RFC 3339 timestamps get their typed representation,
// everything else stays a string.
func parseLiteral(s string) row.Value {
	switch s {
	case "null":
		return row.Null{}
	case "true":
		return row.Bool(true)
	case "false":
		return row.Bool(false)
	}
	if n, err := strconv.ParseFloat(s, 64); err == nil {
		return row.Number(n)
	}
	v, err := row.FromAny(s)
	if err != nil {
		return row.String(s)
	}
	return v
}

func printRows(out *OutputFormatter, rows []row.Row) error {
	if out.Format == "json" {
		return out.Success(rows)
	}
	if len(rows) == 0 {
		_, err := fmt.Fprintln(out.Writer, "no rows")
		return err
	}
	for _, r := range rows {
		data, err := json.Marshal(r)
		if err != nil {
			return err
		}
		if _, err := fmt.Fprintln(out.Writer, string(data)); err != nil {
			return err
		}
	}
	return nil
}

func backendCode(err error) string {
	if backend.IsNotFound(err) {
		return string(backend.CodeNotFound)
	}
	if backend.IsDuplicateUser(err) {
		return string(backend.CodeDuplicateUser)
	}
	if backend.IsInvalidCredentials(err) {
		return string(backend.CodeInvalidCredentials)
	}
	if backend.IsStorageFault(err) {
		return string(backend.CodeStorageFault)
	}
	return "E_CLI"
}
