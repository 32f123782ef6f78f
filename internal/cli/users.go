package cli

import (
	"errors"
	"strconv"
	"strings"

	"smartdoc-admin/internal/browse"
	"smartdoc-admin/internal/model"

	"github.com/spf13/cobra"
)

func newUsersCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "users",
		Short: "Browse and delete registered users",
	}

	cmd.AddCommand(newUsersListCmd(app))
	cmd.AddCommand(newUsersDeleteCmd(app))

	return cmd
}

// userRow is the user shape views are allowed to see: the Gemini key is
// reduced to a set/unset bit and the value never leaves the model layer.
type userRow struct {
	ID           model.ID `json:"id"`
	Username     string   `json:"username"`
	Email        string   `json:"email"`
	IsAdmin      bool     `json:"is_admin"`
	IsActive     bool     `json:"is_active"`
	CreatedAt    string   `json:"created_at"`
	GeminiKeySet bool     `json:"gemini_key_set"`
}

func newUserRows(users []model.User) []userRow {
	rows := make([]userRow, 0, len(users))
	for _, u := range users {
		rows = append(rows, userRow{
			ID:           u.ID,
			Username:     u.Username,
			Email:        u.Email,
			IsAdmin:      u.IsAdmin.Bool(),
			IsActive:     u.IsActive.Bool(),
			CreatedAt:    u.CreatedAt,
			GeminiKeySet: u.GeminiKeySet(),
		})
	}
	return rows
}

func newUsersListCmd(app *App) *cobra.Command {
	var (
		order string
		page  int
		all   bool
	)

	cmd := &cobra.Command{
		Use:          "list",
		Short:        "List users (sorted by signup time, paged)",
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

			users, err := c.ListUsers(cmd.Context(), token)
			if err != nil {
				return writeErr(cmd, err)
			}

			sorted := browse.SortUsers(users, ord)

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

			rows := newUserRows(view)
			return writeRows(cmd, app, userTable(rows), map[string]any{
				"data": rows,
				"meta": map[string]any{
					"page":       page,
					"totalPages": totalPages,
					"total":      len(users),
				},
			})
		},
	}

	cmd.Flags().StringVar(&order, "order", "desc", "Sort by signup time (asc|desc)")
	cmd.Flags().IntVar(&page, "page", 1, "1-based page of 8 rows")
	cmd.Flags().BoolVar(&all, "all", false, "Emit every row instead of one page")

	return cmd
}

func newUsersDeleteCmd(app *App) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:          "delete <id>",
		Short:        "Delete one user and every file they uploaded",
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			id := strings.TrimSpace(args[0])
			if !yes {
				return writeErr(cmd, errors.New("deleting a user removes all their uploads; re-run with --yes to confirm"))
			}

			c := app.client()
			token, err := resolveToken(cmd.Context(), cmd, app, c)
			if err != nil {
				return writeErr(cmd, err)
			}

			// The backend happily deletes admins; the guard lives here, the
			// same one the interactive flow applies.
			users, err := c.ListUsers(cmd.Context(), token)
			if err != nil {
				return writeErr(cmd, err)
			}
			var target *model.User
			for i := range users {
				if string(users[i].ID) == id {
					target = &users[i]
					break
				}
			}
			if target == nil {
				return writeErr(cmd, errNotFound("user", id))
			}
			if target.IsAdmin.Bool() {
				return writeErr(cmd, errAdminProtected(target.Username, id))
			}

			if err := c.DeleteUser(cmd.Context(), token, model.ID(id)); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{
				"data": map[string]any{
					"id":       id,
					"username": target.Username,
					"deleted":  true,
				},
			})
		},
	}

	cmd.Flags().BoolVar(&yes, "yes", false, "Confirm the cascade delete")

	return cmd
}

type userTable []userRow

func (userTable) TableHeader() []string {
	return []string{"id", "username", "email", "is_admin", "is_active", "created_at", "gemini_key_set"}
}

func (t userTable) TableRows() [][]string {
	rows := make([][]string, 0, len(t))
	for _, u := range t {
		rows = append(rows, []string{
			string(u.ID),
			u.Username,
			u.Email,
			strconv.FormatBool(u.IsAdmin),
			strconv.FormatBool(u.IsActive),
			u.CreatedAt,
			strconv.FormatBool(u.GeminiKeySet),
		})
	}
	return rows
}
