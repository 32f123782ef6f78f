package cli

import (
	"strconv"
	"strings"

	"smartdoc-admin/internal/browse"
	"smartdoc-admin/internal/model"

	"github.com/spf13/cobra"
)

func newDocumentsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "documents",
		Aliases: []string{"docs"},
		Short:   "Browse and delete uploaded documents",
	}

	cmd.AddCommand(newDocumentsListCmd(app))
	cmd.AddCommand(newDocumentsDeleteCmd(app))

	return cmd
}

func newDocumentsListCmd(app *App) *cobra.Command {
	var (
		search string
		user   string
		order  string
		page   int
		all    bool
	)

	cmd := &cobra.Command{
		Use:          "list",
		Short:        "List documents (filtered, sorted, paged)",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			ord, ok := browse.ParseOrder(order)
			if !ok {
				return writeErr(cmd, errBadOrder(order))
			}

			c := app.client()
			token, err := resolveToken(cmd.Context(), cmd, app, c)
			if err != nil {
				return writeErr(cmd, err)
			}

			docs, err := c.ListDocuments(cmd.Context(), token)
			if err != nil {
				return writeErr(cmd, err)
			}

			filtered := browse.FilterDocuments(docs, strings.TrimSpace(search), strings.TrimSpace(user))
			sorted := browse.SortDocuments(filtered, ord)

			view := sorted
			totalPages := 1
			if !all {
				totalPages = browse.TotalPages(len(sorted), browse.PageSize)
				if page < 1 || page > totalPages {
					page = 1
				}
				view, _ = browse.Paginate(sorted, page, browse.PageSize)
			} else {
				page = 1
			}

			return writeRows(cmd, app, documentTable(view), map[string]any{
				"data": view,
				"meta": map[string]any{
					"page":       page,
					"totalPages": totalPages,
					"total":      len(filtered),
				},
			})
		},
	}

	cmd.Flags().StringVar(&search, "search", "", "Keep documents whose filename contains this (case-insensitive)")
	cmd.Flags().StringVar(&user, "user", "", "Keep documents uploaded by this user id")
	cmd.Flags().StringVar(&order, "order", "desc", "Sort by upload time (asc|desc)")
	cmd.Flags().IntVar(&page, "page", 1, "1-based page of 8 rows")
	cmd.Flags().BoolVar(&all, "all", false, "Emit every matching row instead of one page")

	return cmd
}

func newDocumentsDeleteCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:          "delete <id>",
		Short:        "Delete one document by id",
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			id := strings.TrimSpace(args[0])
			if id == "" {
				return writeErr(cmd, errNotFound("document", args[0]))
			}

			c := app.client()
			token, err := resolveToken(cmd.Context(), cmd, app, c)
			if err != nil {
				return writeErr(cmd, err)
			}

			if err := c.DeleteDocument(cmd.Context(), token, model.ID(id)); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{
				"data": map[string]any{
					"id":      id,
					"deleted": true,
				},
			})
		},
	}

	return cmd
}

// documentTable renders documents as CSV rows. The summary body stays out;
// it can span pages and belongs to the detail view.
type documentTable []model.Document

func (documentTable) TableHeader() []string {
	return []string{"id", "filename", "file_type", "upload_time", "user_id", "vectorized", "summarized", "path"}
}

func (t documentTable) TableRows() [][]string {
	rows := make([][]string, 0, len(t))
	for _, d := range t {
		rows = append(rows, []string{
			string(d.ID),
			d.Filename,
			d.FileType,
			d.UploadTime,
			string(d.UserID),
			strconv.FormatBool(d.IsVectorized.Bool()),
			strconv.FormatBool(d.Summarized()),
			d.Path,
		})
	}
	return rows
}
