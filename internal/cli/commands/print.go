package commands

import (
	"github.com/JonMunkholm/datatable/internal/core"
	"github.com/spf13/cobra"
)

// NewPrintCommand creates the print command.
func NewPrintCommand() *cobra.Command {
	var asHTML bool

	cmd := &cobra.Command{
		Use:   "print",
		Short: "Render the table for reading or printing",
		Long: `Render the loaded table as a text table, or as the standalone HTML document
served at /print when --html is set.`,
		Example: `  tablectl print
  tablectl print --html > table.html`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, err := ServiceFrom(cmd.Context())
			if err != nil {
				return err
			}
			if asHTML {
				return svc.Print(cmd.Context(), cmd.OutOrStdout())
			}
			return core.RenderText(cmd.OutOrStdout(), svc.Snapshot())
		},
	}

	cmd.Flags().BoolVar(&asHTML, "html", false, "render the printable HTML document")
	return cmd
}
