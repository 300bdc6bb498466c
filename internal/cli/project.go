package cli

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/biyonik/fluentdb"
	"github.com/biyonik/fluentdb/projectdb"
)

// parseSets turns repeated column=value flags into Values. rate and burst are numeric;
// name and updatetime are owned by the store.
func parseSets(sets []string) (fluentdb.Values, error) {
	var values fluentdb.Values

	for _, s := range sets {
		col, raw, ok := strings.Cut(s, "=")
		if !ok {
			return values, fmt.Errorf("invalid --set %q, want column=value", s)
		}
		col = strings.TrimSpace(col)

		switch col {
		case projectdb.ColName, projectdb.ColUpdateTime:
			return values, fmt.Errorf("column %q is managed by projectdb", col)
		case projectdb.ColRate, projectdb.ColBurst:
			f, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
			if err != nil {
				return values, fmt.Errorf("column %q: %w", col, err)
			}
			values.Set(col, f)
		case projectdb.ColStatus:
			if !slices.Contains(projectdb.Statuses, raw) {
				return values, fmt.Errorf("unknown status %q (want one of %s)", raw, strings.Join(projectdb.Statuses, ", "))
			}
			values.Set(col, raw)
		case projectdb.ColGroup, projectdb.ColScript, projectdb.ColComments:
			values.Set(col, raw)
		default:
			return values, fmt.Errorf("unknown column %q", col)
		}
	}

	return values, nil
}

// parseSince accepts a unix timestamp in seconds, an RFC 3339 time or a duration back from now.
func parseSince(s string, now time.Time) (float64, error) {
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return projectdb.Timestamp(t), nil
	}
	if d, err := time.ParseDuration(s); err == nil {
		return projectdb.Timestamp(now.Add(-d)), nil
	}
	return 0, fmt.Errorf("invalid --since %q: want seconds, RFC 3339 or a duration", s)
}

func displayColumns(fields []string) []string {
	if len(fields) > 0 {
		return fields
	}
	return projectdb.Columns
}

// NewInitCommand creates the init command.
func NewInitCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Create the project table if it does not exist",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, closeDB, err := openStore(cmd)
			if err != nil {
				return err
			}
			defer closeDB()

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "table %s ready\n", configFrom(cmd.Context()).Table)
			return nil
		},
	}
}

// NewInsertCommand creates the insert command.
func NewInsertCommand() *cobra.Command {
	var sets []string

	cmd := &cobra.Command{
		Use:     "insert <name>",
		Short:   "Add a project",
		Example: `  projectdb insert crawler --set group=web --set status=TODO --set rate=1 --set burst=3`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			values, err := parseSets(sets)
			if err != nil {
				return err
			}

			store, closeDB, err := openStore(cmd)
			if err != nil {
				return err
			}
			defer closeDB()

			if _, err := store.Insert(cmd.Context(), args[0], values); err != nil {
				if fluentdb.IsConstraintViolation(err) {
					return fmt.Errorf("project %q already exists", args[0])
				}
				return err
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "inserted %s\n", args[0])
			return nil
		},
	}

	cmd.Flags().StringArrayVarP(&sets, "set", "s", nil, "column=value to write (repeatable)")
	return cmd
}

// NewUpdateCommand creates the update command.
func NewUpdateCommand() *cobra.Command {
	var sets []string

	cmd := &cobra.Command{
		Use:     "update <name>",
		Short:   "Change fields of a project and refresh its updatetime",
		Example: `  projectdb update crawler --set status=RUNNING`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			values, err := parseSets(sets)
			if err != nil {
				return err
			}

			store, closeDB, err := openStore(cmd)
			if err != nil {
				return err
			}
			defer closeDB()

			n, err := store.Update(cmd.Context(), args[0], values)
			if err != nil {
				return err
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "updated %d project(s)\n", n)
			return nil
		},
	}

	cmd.Flags().StringArrayVarP(&sets, "set", "s", nil, "column=value to write (repeatable)")
	return cmd
}

// NewGetCommand creates the get command.
func NewGetCommand() *cobra.Command {
	var fields []string

	cmd := &cobra.Command{
		Use:   "get <name>",
		Short: "Show one project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, closeDB, err := openStore(cmd)
			if err != nil {
				return err
			}
			defer closeDB()

			rec, err := store.Get(cmd.Context(), args[0], fields...)
			if err != nil {
				return err
			}
			if rec == nil {
				return fmt.Errorf("project %q not found", args[0])
			}

			cfg := configFrom(cmd.Context())
			return renderRecords(cmd.OutOrStdout(), cfg.Output, displayColumns(fields), []fluentdb.Record{rec})
		},
	}

	cmd.Flags().StringSliceVarP(&fields, "fields", "f", nil, "Columns to read (default: all)")
	return cmd
}

// NewListCommand creates the list command.
func NewListCommand() *cobra.Command {
	var fields []string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List every project",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, closeDB, err := openStore(cmd)
			if err != nil {
				return err
			}
			defer closeDB()

			var records []fluentdb.Record
			for rec, err := range store.GetAll(cmd.Context(), fields...) {
				if err != nil {
					return err
				}
				records = append(records, rec)
			}

			cfg := configFrom(cmd.Context())
			return renderRecords(cmd.OutOrStdout(), cfg.Output, displayColumns(fields), records)
		},
	}

	cmd.Flags().StringSliceVarP(&fields, "fields", "f", nil, "Columns to read (default: all)")
	return cmd
}

// NewChangedCommand creates the changed command.
func NewChangedCommand() *cobra.Command {
	var (
		since  string
		fields []string
	)

	cmd := &cobra.Command{
		Use:   "changed",
		Short: "List projects updated at or after a point in time",
		Example: `  projectdb changed --since 1700000000
  projectdb changed --since 2024-01-02T15:04:05Z
  projectdb changed --since 10m`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ts, err := parseSince(since, time.Now())
			if err != nil {
				return err
			}

			store, closeDB, err := openStore(cmd)
			if err != nil {
				return err
			}
			defer closeDB()

			var records []fluentdb.Record
			for rec, err := range store.CheckUpdate(cmd.Context(), ts, fields...) {
				if err != nil {
					return err
				}
				records = append(records, rec)
			}

			cfg := configFrom(cmd.Context())
			return renderRecords(cmd.OutOrStdout(), cfg.Output, displayColumns(fields), records)
		},
	}

	cmd.Flags().StringVar(&since, "since", "0", "Seconds since epoch, RFC 3339 time or duration ago")
	cmd.Flags().StringSliceVarP(&fields, "fields", "f", nil, "Columns to read (default: all)")
	return cmd
}

// NewDropCommand creates the drop command.
func NewDropCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "drop <name>",
		Short: "Delete a project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, closeDB, err := openStore(cmd)
			if err != nil {
				return err
			}
			defer closeDB()

			n, err := store.Drop(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "dropped %d project(s)\n", n)
			return nil
		},
	}
}
