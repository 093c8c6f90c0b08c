package cli

import (
	"io"

	"github.com/spf13/cobra"

	"showgrounds/paddock/internal/models/dtos/requests"
)

// NewNotificationsCommand creates the notifications command.
func NewNotificationsCommand(opts *RootOptions) *cobra.Command {
	var q requests.NotificationQuery

	cmd := &cobra.Command{
		Use:   "notifications",
		Short: "List recent notification ledger rows",
		Long: `List the farm's notification ledger newest first.

Examples:
  paddockctl notifications --limit 20
  paddockctl notifications --type RESULT --horse cassini
  paddockctl notifications --source horse_availability --date 2026-02-19`,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := opts.Open()
			if err != nil {
				return err
			}
			defer a.Close()

			resp, err := a.Deps.Services.Notifications.List(cmd.Context(), a.Deps.Tenant, q)
			if err != nil {
				return err
			}
			return printResult(cmd.OutOrStdout(), opts.Format, resp, func(w io.Writer) error {
				return writeNotifications(w, resp)
			})
		},
	}

	cmd.Flags().IntVar(&q.Limit, "limit", 50, "max rows (1-500)")
	cmd.Flags().IntVar(&q.Offset, "offset", 0, "rows to skip")
	cmd.Flags().StringVar(&q.Source, "source", "", "class_monitoring or horse_availability")
	cmd.Flags().StringVar(&q.Type, "type", "", "notification type, e.g. STATUS_CHANGE")
	cmd.Flags().StringVar(&q.Date, "date", "", "only rows created on YYYY-MM-DD (UTC)")
	cmd.Flags().StringVar(&q.HorseName, "horse", "", "horse name contains")
	cmd.Flags().StringVar(&q.ClassName, "class", "", "class name contains")
	return cmd
}
