// Package cli provides the tablectl command-line interface.
package cli

import (
	"fmt"
	"os"

	"github.com/JonMunkholm/datatable/internal/cli/commands"
	"github.com/JonMunkholm/datatable/internal/config"
	"github.com/JonMunkholm/datatable/internal/core"
	"github.com/JonMunkholm/datatable/internal/logging"
	"github.com/spf13/cobra"
)

// Version is set at build time.
var Version = "0.1.0"

// flagEnv maps persistent flags onto the environment variables they override.
var flagEnv = map[string]string{
	"source":    "DATA_SOURCE",
	"separator": "EXPORT_SEPARATOR",
	"locale":    "DATA_LOCALE",
	"log-level": "LOG_LEVEL",
}

// NewRootCmd creates and returns the root command.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "tablectl",
		Short: "Inspect and export the data table from the command line",
		Long: `tablectl loads the configured data source (DATA_SOURCE or --source) the same
way the server does at startup, then exports, prints or sorts it.`,
		Version: Version,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			// Skip loading for commands that do not touch the table
			switch cmd.Name() {
			case "help", "version", "completion", "__complete":
				return nil
			}

			cfg, err := config.LoadWith(flagOverlay(cmd))
			if err != nil {
				return err
			}
			logging.SetupWriter(cmd.ErrOrStderr(), cfg.Logging.Level, cfg.Logging.Format)

			svc := core.NewService(cfg)
			if err := svc.LoadFromSource(cmd.Context()); err != nil {
				return fmt.Errorf("load %s: %s", cfg.Data.Source, core.FormatUserError(err))
			}
			cmd.SetContext(commands.WithService(cmd.Context(), svc))
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().String("source", "", "JSON file path or http(s) URL (overrides DATA_SOURCE)")
	rootCmd.PersistentFlags().String("separator", "", "export cell separator (overrides EXPORT_SEPARATOR)")
	rootCmd.PersistentFlags().String("locale", "", "collation language tag (overrides DATA_LOCALE)")
	rootCmd.PersistentFlags().String("log-level", "warn", "log level: debug, info, warn, error")

	rootCmd.AddCommand(commands.NewVersionCommand(Version))
	rootCmd.AddCommand(commands.NewExportCommand())
	rootCmd.AddCommand(commands.NewPrintCommand())
	rootCmd.AddCommand(commands.NewSortCommand())

	return rootCmd
}

// flagOverlay returns a getenv that prefers explicitly set flags over the
// process environment. log-level applies its default too.
func flagOverlay(cmd *cobra.Command) func(string) string {
	overrides := make(map[string]string)
	flags := cmd.Root().PersistentFlags()
	for name, key := range flagEnv {
		f := flags.Lookup(name)
		if f == nil {
			continue
		}
		if f.Changed || (name == "log-level" && os.Getenv(key) == "") {
			overrides[key] = f.Value.String()
		}
	}

	return func(key string) string {
		if v, ok := overrides[key]; ok {
			return v
		}
		return os.Getenv(key)
	}
}

// Execute runs the root command.
func Execute() error {
	rootCmd := NewRootCmd()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return err
	}
	return nil
}
