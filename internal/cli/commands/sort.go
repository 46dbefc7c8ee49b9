package commands

import (
	"fmt"
	"slices"
	"strconv"

	"github.com/JonMunkholm/datatable/internal/core"
	"github.com/spf13/cobra"
)

// NewSortCommand creates the sort command.
func NewSortCommand() *cobra.Command {
	var desc bool

	cmd := &cobra.Command{
		Use:   "sort <column>",
		Short: "Sort the table by a column and print it",
		Long: `Sort the loaded table by a column, given as a name or a zero-based index.

Sorting is stable and numeric-aware: "Row 9" sorts before "Row 10".`,
		Example: `  tablectl sort name
  tablectl sort 2 --desc`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := ServiceFrom(cmd.Context())
			if err != nil {
				return err
			}

			column, err := resolveColumn(svc.Store().Columns(), args[0])
			if err != nil {
				return err
			}

			state, err := svc.SortBy(cmd.Context(), column)
			if err != nil {
				return err
			}
			// Sorting the same column again flips the direction
			if desc && state.Ascending {
				if _, err := svc.SortBy(cmd.Context(), column); err != nil {
					return err
				}
			}

			return core.RenderText(cmd.OutOrStdout(), svc.Snapshot())
		},
	}

	cmd.Flags().BoolVar(&desc, "desc", false, "sort descending")
	return cmd
}

// resolveColumn accepts a column name or a zero-based index.
func resolveColumn(columns []string, ref string) (int, error) {
	if idx := slices.Index(columns, ref); idx >= 0 {
		return idx, nil
	}
	if idx, err := strconv.Atoi(ref); err == nil {
		return idx, nil
	}
	return 0, fmt.Errorf("%w: %q", core.ErrColumnOutOfRange, ref)
}
