package cli

import (
	"io"

	"github.com/spf13/cobra"

	"showgrounds/paddock/internal/constants"
)

// NewSyncCommand creates the sync command.
func NewSyncCommand(opts *RootOptions) *cobra.Command {
	var date string

	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Run the morning sync once",
		Long: `Fetch the day's schedule, entries and entry details from the show data
provider and reconcile them into the database in one transaction.

Examples:
  paddockctl sync
  paddockctl sync --date 2026-02-19 --format json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := opts.Open()
			if err != nil {
				return err
			}
			defer a.Close()

			resp, err := a.Deps.Services.MorningSync.Run(cmd.Context(), a.Deps.Tenant, date, constants.TriggerManual)
			if err != nil {
				return err
			}
			return printResult(cmd.OutOrStdout(), opts.Format, resp, func(w io.Writer) error {
				return writeSyncSummary(w, resp)
			})
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "sync date YYYY-MM-DD (default today UTC)")
	return cmd
}
