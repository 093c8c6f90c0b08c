package cli

import (
	"fmt"
	"io"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"showgrounds/paddock/internal/app"
	"showgrounds/paddock/internal/config"
	"showgrounds/paddock/internal/logging"
)

// Opener builds the application for a command. Tests swap it for one backed
// by SQLite.
type Opener func() (*app.App, error)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Format string // "json" | "text"

	Open Opener
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for paddockctl.
func NewRootCommand() *cobra.Command {
	return newRootCommand(&RootOptions{Open: openFromEnv})
}

func newRootCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "paddockctl",
		Short: "Operate the paddock show sync",
		Long:  "Run the morning sync and class monitoring by hand, migrate the schema, and read the notification ledger.",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !isValidFormat(opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")

	cmd.AddCommand(NewMigrateCommand(opts))
	cmd.AddCommand(NewSyncCommand(opts))
	cmd.AddCommand(NewMonitorCommand(opts))
	cmd.AddCommand(NewNotificationsCommand(opts))
	cmd.AddCommand(NewStatusCommand(opts))

	return cmd
}

func openFromEnv() (*app.App, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, err
	}
	if err := logging.Init(cfg.AppEnv, cfg.LogLevel); err != nil {
		return nil, err
	}
	return app.Open(cfg, prometheus.NewRegistry())
}

func isValidFormat(format string) bool {
	for _, f := range ValidFormats {
		if f == format {
			return true
		}
	}
	return false
}

// printResult writes v as indented JSON, or hands it to text when the
// format is text.
func printResult(w io.Writer, format string, v interface{}, text func(io.Writer) error) error {
	if format == "json" || text == nil {
		return writeJSON(w, v)
	}
	return text(w)
}
