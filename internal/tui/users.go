package tui

import (
	"fmt"
	"strings"
	"time"

	"smartdoc-admin/internal/browse"
	"smartdoc-admin/internal/model"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

func (m appModel) updateUsers(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// While a delete is armed only confirm and cancel act; everything else
	// is swallowed so the selection cannot drift under the warning.
	if m.confirm.AnyArmed() {
		switch msg.String() {
		case "y", "enter":
			return m.confirmUserDelete()
		case "n", "esc":
			m.confirm = browse.DeleteConfirm{}
			return m, nil
		}
		return m, nil
	}

	if mm, cmd, ok := m.handleBrowseKey(msg); ok {
		return mm, cmd
	}

	switch msg.String() {
	case "s":
		m.usersView = m.usersView.ToggleOrder()
		return m, nil
	case "left", "h":
		m.usersView = m.usersView.PrevPage()
		m.userIdx = 0
		return m, nil
	case "right", "l":
		_, total := m.usersPage()
		m.usersView = m.usersView.NextPage(total)
		m.userIdx = 0
		return m, nil
	case "up", "k":
		if m.userIdx > 0 {
			m.userIdx--
		}
		return m, nil
	case "down", "j":
		rows, _ := m.usersPage()
		if m.userIdx < len(rows)-1 {
			m.userIdx++
		}
		return m, nil
	case "d", "delete":
		return m.armUserDelete()
	}
	return m, nil
}

// armUserDelete starts the two-step delete. Admin rows never arm: the
// backend would oblige, so the guard lives on this side.
func (m appModel) armUserDelete() (tea.Model, tea.Cmd) {
	if m.deleting {
		return m, nil
	}
	rows, _ := m.usersPage()
	if len(rows) == 0 || m.userIdx >= len(rows) {
		return m, nil
	}
	u := rows[m.userIdx]
	if u.IsAdmin.Bool() {
		cmd := m.flashError("Admin accounts cannot be deleted.")
		return m, cmd
	}
	m.confirm = m.confirm.Arm(string(u.ID))
	return m, nil
}

func (m appModel) confirmUserDelete() (tea.Model, tea.Cmd) {
	rows, _ := m.usersPage()
	if len(rows) == 0 || m.userIdx >= len(rows) {
		m.confirm = browse.DeleteConfirm{}
		return m, nil
	}
	u := rows[m.userIdx]
	var ok bool
	m.confirm, ok = m.confirm.Confirm(string(u.ID))
	if !ok {
		// The rows shifted since arming, e.g. a refetch landed. Deleting
		// whatever sits under the cursor now would be wrong.
		m.confirm = browse.DeleteConfirm{}
		return m, nil
	}
	cmd := m.startUserDelete(u.ID, u.Username)
	return m, cmd
}

func (m appModel) usersPage() ([]model.User, int) {
	sorted := m.session.SortedUsers(m.usersView.Order)
	return browse.Paginate(sorted, m.usersView.Page, m.usersView.PageSize)
}

func (m *appModel) clampUserSelection() {
	rows, _ := m.usersPage()
	if m.userIdx > len(rows)-1 {
		m.userIdx = len(rows) - 1
	}
	if m.userIdx < 0 {
		m.userIdx = 0
	}
}

func (m appModel) viewUsers() string {
	now := time.Now()
	users, fresh := m.session.Users(now)
	rows, totalPages := browse.Paginate(m.session.SortedUsers(m.usersView.Order), m.usersView.Page, m.usersView.PageSize)
	page := m.usersView.Page
	if page < 1 || page > totalPages {
		page = 1
	}

	// The warning banner spans the full body width, above the panes.
	head := ""
	switch {
	case m.confirm.AnyArmed():
		name := m.confirm.ArmedID
		if u, ok := m.session.UserByID(model.ID(m.confirm.ArmedID)); ok {
			name = u.Username
		}
		head = styleWarnBanner().Render("WARNING: This will permanently delete all files uploaded by this user!") + "\n" +
			fmt.Sprintf("  Delete user %s? (y/n)\n\n", name)
	case m.deleting:
		head = styleMuted().Render("  deleting") + "\n\n"
	}

	w := m.bodyWidth()
	leftW := w * 2 / 3
	rightW := w - leftW - 3
	h := m.bodyHeight() - strings.Count(head, "\n")
	if h < 5 {
		h = 5
	}

	var left strings.Builder
	left.WriteString(m.usersTable(rows, leftW))
	left.WriteString("\n")
	left.WriteString(styleMuted().Render(fmt.Sprintf("Page %d/%d %s %d users", page, totalPages, glyphBullet(), len(users))))
	switch {
	case m.usersFetching:
		left.WriteString(styleMuted().Render("  refreshing"))
	case !fresh && len(users) > 0:
		left.WriteString(styleMuted().Render("  cache stale, press r"))
	}

	detail := styleMuted().Render("No user selected.")
	if len(rows) > 0 && m.userIdx < len(rows) {
		detail = userDetail(rows[m.userIdx], rightW)
	}

	rule := styleMuted().Render(glyphVRule())
	divider := strings.TrimRight(strings.Repeat(rule+"\n", h), "\n")
	return head + lipgloss.JoinHorizontal(
		lipgloss.Top,
		normalizePane(left.String(), leftW, h),
		" ", divider, " ",
		normalizePane(detail, rightW, h),
	)
}

func (m appModel) usersTable(rows []model.User, width int) string {
	const idW, nameW, createdW, flagW = 4, 14, 16, 6
	emailW := width - idW - nameW - createdW - 3*flagW - 14
	if emailW < 12 {
		emailW = 12
	}

	created := "CREATED " + glyphSortDesc()
	if m.usersView.Order == browse.OrderAsc {
		created = "CREATED " + glyphSortAsc()
	}

	var b strings.Builder
	b.WriteString(styleMuted().Render(fmt.Sprintf("  %s  %s  %s  %s  %s  %s  %s",
		padRight("ID", idW), padRight("USERNAME", nameW), padRight("EMAIL", emailW),
		padRight(created, createdW),
		padRight("ADMIN", flagW), padRight("ACTIVE", flagW), padRight("KEY", flagW))))
	b.WriteString("\n")

	if len(rows) == 0 {
		b.WriteString(styleMuted().Render("  No users.") + "\n")
		return b.String()
	}

	for i, u := range rows {
		line := fmt.Sprintf("%s  %s  %s  %s  %s  %s  %s",
			padRight(truncate(string(u.ID), idW), idW),
			padRight(truncate(u.Username, nameW), nameW),
			padRight(truncate(u.Email, emailW), emailW),
			padRight(truncate(displayTime(u.CreatedAt), createdW), createdW),
			padRight(flagGlyph(u.IsAdmin.Bool()), flagW),
			padRight(flagGlyph(u.IsActive.Bool()), flagW),
			padRight(flagGlyph(u.GeminiKeySet()), flagW))
		switch {
		case i == m.userIdx && m.confirm.Armed(string(u.ID)):
			b.WriteString(styleError().Render("> "+line) + "\n")
		case i == m.userIdx:
			b.WriteString(styleSelected().Render("> "+line) + "\n")
		default:
			b.WriteString("  " + line + "\n")
		}
	}
	return b.String()
}

// userDetail carries the fields that do not fit the table comfortably. The
// gemini key is shown only as set/unset; the value never renders anywhere.
func userDetail(u model.User, width int) string {
	var b strings.Builder
	b.WriteString(styleHeader().Render(truncate(u.Username, width)) + "\n\n")
	kv := func(k, v string) {
		if v == "" {
			return
		}
		b.WriteString(styleMuted().Render(padRight(k, 9)) + truncate(v, width-9) + "\n")
	}
	role := "user"
	if u.IsAdmin.Bool() {
		role = "admin"
	}
	kv("ID", string(u.ID))
	kv("Email", u.Email)
	kv("Role", role)
	kv("Created", displayTime(u.CreatedAt))
	kv("Active", yesNo(u.IsActive.Bool()))
	kv("Gemini", yesNo(u.GeminiKeySet()))
	return b.String()
}
