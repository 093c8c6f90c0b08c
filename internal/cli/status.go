package cli

import (
	"io"

	"github.com/spf13/cobra"
)

// NewStatusCommand creates the status command.
func NewStatusCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the last recorded run of each flow",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := opts.Open()
			if err != nil {
				return err
			}
			defer a.Close()

			// a separate process cannot see the server's in-flight runs
			resp, err := a.Deps.Services.SyncStatus.Status(cmd.Context(), a.Deps.Tenant, nil)
			if err != nil {
				return err
			}
			return printResult(cmd.OutOrStdout(), opts.Format, resp, func(w io.Writer) error {
				return writeStatus(w, resp)
			})
		},
	}
}
