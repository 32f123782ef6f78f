package cli

import (
	"context"
	"fmt"
	"time"

	"smartdoc-admin/internal/api"

	"github.com/spf13/cobra"
)

func newPingCmd(app *App) *cobra.Command {
	var wait time.Duration

	cmd := &cobra.Command{
		Use:          "ping",
		Short:        "Wait for the backend to answer (exit 0 when it does)",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			c := app.client()

			var ok bool
			if wait > 0 {
				p := api.NewProber(c)
				p.Timeout = wait
				ok = p.Wait(cmd.Context())
			} else {
				// --wait 0: a single attempt instead of the retry window.
				ctx, cancel := context.WithTimeout(cmd.Context(), api.DefaultPingTimeout)
				ok = c.Health(ctx) == nil
				cancel()
			}
			if !ok {
				return writeErr(cmd, fmt.Errorf("backend not reachable: %s", c.BaseURL()))
			}
			return writeOut(cmd, app, map[string]any{
				"data": map[string]any{
					"reachable": true,
					"apiUrl":    c.BaseURL(),
				},
			})
		},
	}

	cmd.Flags().DurationVar(&wait, "wait", api.DefaultProbeTimeout, "How long to keep retrying before giving up (0 = single attempt)")

	return cmd
}
