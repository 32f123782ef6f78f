package cli

import (
	"smartdoc-admin/internal/stats"

	"github.com/spf13/cobra"
)

// topN matches the dashboard's leaderboards.
const topN = 5

type statsPayload struct {
	Overview     stats.Overview        `json:"overview"`
	Documents    stats.Histogram       `json:"documents_by_time"`
	Users        stats.Histogram       `json:"users_by_time"`
	TopUploaders []stats.UploaderCount `json:"top_uploaders"`
	TopSummaries []stats.SummaryStat   `json:"top_summaries"`
}

func newStatsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:          "stats",
		Short:        "Aggregate counters, time buckets and leaderboards",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			c := app.client()
			token, err := resolveToken(cmd.Context(), cmd, app, c)
			if err != nil {
				return writeErr(cmd, err)
			}

			docs, err := c.ListDocuments(cmd.Context(), token)
			if err != nil {
				return writeErr(cmd, err)
			}
			users, err := c.ListUsers(cmd.Context(), token)
			if err != nil {
				return writeErr(cmd, err)
			}

			payload := statsPayload{
				Overview:     stats.NewOverview(docs, users),
				Documents:    stats.BucketDocuments(docs),
				Users:        stats.BucketUsers(users),
				TopUploaders: stats.TopUploaders(docs, topN),
				TopSummaries: stats.TopSummaries(docs, topN),
			}
			return writeOut(cmd, app, map[string]any{
				"data": payload,
				"meta": map[string]any{
					"documents": len(docs),
					"users":     len(users),
				},
			})
		},
	}

	return cmd
}
