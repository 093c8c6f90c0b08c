package cli

import (
	"io"

	"github.com/spf13/cobra"
)

// NewMonitorCommand creates the monitor command.
func NewMonitorCommand(opts *RootOptions) *cobra.Command {
	var date string

	cmd := &cobra.Command{
		Use:   "monitor",
		Short: "Run one class monitoring cycle",
		Long: `Fetch live state for every unfinished class of the day, record the changes
in the notification ledger and print the alerts they produced.

Examples:
  paddockctl monitor
  paddockctl monitor --date 2026-02-19`,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := opts.Open()
			if err != nil {
				return err
			}
			defer a.Close()

			resp, err := a.Deps.Services.ClassMonitor.Run(cmd.Context(), a.Deps.Tenant, date)
			if err != nil {
				return err
			}
			return printResult(cmd.OutOrStdout(), opts.Format, resp, func(w io.Writer) error {
				return writeMonitorSummary(w, resp)
			})
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "monitoring date YYYY-MM-DD (default today UTC)")
	return cmd
}
