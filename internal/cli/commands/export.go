package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewExportCommand creates the export command.
func NewExportCommand() *cobra.Command {
	var outPath string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the table as separator-joined text",
		Long: `Load the data source and write the header line followed by one line per row.

Cells are trimmed and joined with the configured separator (EXPORT_SEPARATOR or
--separator). Cells containing the separator are not escaped.`,
		Example: `  # Export to stdout
  tablectl export --source output_data.json

  # Export to a file with a comma separator
  tablectl export --separator , --out table.csv`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, err := ServiceFrom(cmd.Context())
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			if outPath != "" {
				f, err := os.Create(outPath)
				if err != nil {
					return fmt.Errorf("create %s: %w", outPath, err)
				}
				defer f.Close()
				w = f
			}

			if err := svc.ExportCSV(cmd.Context(), w); err != nil {
				return err
			}
			if outPath != "" {
				fmt.Fprintf(cmd.ErrOrStderr(), "Exported %d rows to %s\n", svc.Store().Len(), outPath)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&outPath, "out", "", "write to this file instead of stdout")
	return cmd
}
