package tui

import (
	"fmt"
	"strings"
	"time"

	"smartdoc-admin/internal/browse"
	"smartdoc-admin/internal/model"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

func (m appModel) updateDocuments(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.searchFocus {
		return m.updateDocumentsSearch(msg)
	}
	if mm, cmd, ok := m.handleBrowseKey(msg); ok {
		return mm, cmd
	}

	switch msg.String() {
	case "/":
		m.searchFocus = true
		m.searchInput.SetValue(m.docsView.SearchInput())
		m.searchInput.CursorEnd()
		m.searchInput.Focus()
		return m, textinput.Blink
	case "s":
		m.docsView = m.docsView.ToggleOrder()
		return m, nil
	case "f":
		m.docsView = m.docsView.SetUserFilter(m.nextUploaderFilter())
		m.docIdx = 0
		return m, nil
	case "esc":
		// Clears all filters when any are set.
		if m.docsView.Search != "" || m.docsView.UserFilter != "" || m.docsView.HasPending {
			order := m.docsView.Order
			m.docsView = browse.NewViewState()
			m.docsView.Order = order
			m.searchInput.SetValue("")
			m.docIdx = 0
		}
		return m, nil
	case "left", "h":
		m.docsView = m.docsView.PrevPage()
		m.docIdx = 0
		return m, nil
	case "right", "l":
		_, total := m.documentsPage()
		m.docsView = m.docsView.NextPage(total)
		m.docIdx = 0
		return m, nil
	case "up", "k":
		if m.docIdx > 0 {
			m.docIdx--
		}
		return m, nil
	case "down", "j":
		rows, _ := m.documentsPage()
		if m.docIdx < len(rows)-1 {
			m.docIdx++
		}
		return m, nil
	case "d", "delete":
		return m.deleteSelectedDocument()
	}
	return m, nil
}

func (m appModel) updateDocumentsSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		m.searchFocus = false
		m.searchInput.Blur()
		m.docsView = m.docsView.CommitSearchNow()
		m.docIdx = 0
		return m, nil
	case "esc":
		m.searchFocus = false
		m.searchInput.Blur()
		m.docsView = m.docsView.CancelSearch()
		m.searchInput.SetValue(m.docsView.Search)
		return m, nil
	}

	var cmd tea.Cmd
	m.searchInput, cmd = m.searchInput.Update(msg)
	// Cursor movement inside the box is not typing; only a changed value
	// feeds the debounce.
	if m.searchInput.Value() != m.docsView.SearchInput() {
		m.docsView = m.docsView.TypeSearch(m.searchInput.Value(), time.Now())
		m.docIdx = 0
	}
	return m, cmd
}

// nextUploaderFilter cycles all -> first uploader -> ... -> last -> all.
func (m appModel) nextUploaderFilter() string {
	ids := m.session.UploaderIDs()
	if len(ids) == 0 {
		return ""
	}
	cur := m.docsView.UserFilter
	if cur == "" {
		return ids[0]
	}
	for i, id := range ids {
		if id == cur {
			if i+1 < len(ids) {
				return ids[i+1]
			}
			return ""
		}
	}
	return ""
}

// deleteSelectedDocument fires immediately: a document holds no account
// data, and the row disappearing is feedback enough.
func (m appModel) deleteSelectedDocument() (tea.Model, tea.Cmd) {
	if m.deleting {
		return m, nil
	}
	rows, _ := m.documentsPage()
	if len(rows) == 0 || m.docIdx >= len(rows) {
		return m, nil
	}
	cmd := m.startDocumentDelete(rows[m.docIdx].ID)
	return m, cmd
}

// documentsPage computes the rows visible on the current page. Every
// render pass recomputes through browse; nothing is cached here.
func (m appModel) documentsPage() ([]model.Document, int) {
	docs, _ := m.session.Documents(time.Now())
	filtered := browse.FilterDocuments(docs, m.docsView.Search, m.docsView.UserFilter)
	sorted := browse.SortDocuments(filtered, m.docsView.Order)
	return browse.Paginate(sorted, m.docsView.Page, m.docsView.PageSize)
}

func (m *appModel) clampDocSelection() {
	rows, _ := m.documentsPage()
	if m.docIdx > len(rows)-1 {
		m.docIdx = len(rows) - 1
	}
	if m.docIdx < 0 {
		m.docIdx = 0
	}
}

func (m appModel) viewDocuments() string {
	now := time.Now()
	docs, fresh := m.session.Documents(now)
	filtered := browse.FilterDocuments(docs, m.docsView.Search, m.docsView.UserFilter)
	sorted := browse.SortDocuments(filtered, m.docsView.Order)
	rows, totalPages := browse.Paginate(sorted, m.docsView.Page, m.docsView.PageSize)
	page := m.docsView.Page
	if page < 1 || page > totalPages {
		page = 1
	}

	w := m.bodyWidth()
	leftW := w * 3 / 5
	rightW := w - leftW - 3
	h := m.bodyHeight()

	var left strings.Builder
	left.WriteString(m.documentsFilterBar() + "\n\n")
	left.WriteString(m.documentsTable(rows, leftW))
	left.WriteString("\n")
	left.WriteString(styleMuted().Render(fmt.Sprintf("Page %d/%d %s %d shown %s %d total",
		page, totalPages, glyphBullet(), len(filtered), glyphBullet(), len(docs))))
	switch {
	case m.docsFetching:
		left.WriteString(styleMuted().Render("  refreshing"))
	case !fresh && len(docs) > 0:
		left.WriteString(styleMuted().Render("  cache stale, press r"))
	}

	detail := styleMuted().Render("No document selected.")
	if len(rows) > 0 && m.docIdx < len(rows) {
		detail = m.documentDetail(rows[m.docIdx], rightW)
	}

	rule := styleMuted().Render(glyphVRule())
	divider := strings.TrimRight(strings.Repeat(rule+"\n", h), "\n")
	return lipgloss.JoinHorizontal(
		lipgloss.Top,
		normalizePane(left.String(), leftW, h),
		" ", divider, " ",
		normalizePane(detail, rightW, h),
	)
}

func (m appModel) documentsFilterBar() string {
	var parts []string
	switch {
	case m.searchFocus:
		parts = append(parts, "Search: "+m.searchInput.View())
	case m.docsView.SearchInput() != "":
		parts = append(parts, "Search: "+m.docsView.SearchInput())
	default:
		parts = append(parts, styleMuted().Render("Search: / to type"))
	}
	if m.docsView.HasPending {
		parts = append(parts, styleMuted().Render("typing"))
	}
	if m.docsView.UserFilter != "" {
		parts = append(parts, "Uploader: "+m.docsView.UserFilter)
	} else {
		parts = append(parts, styleMuted().Render("Uploader: all"))
	}
	return strings.Join(parts, "   ")
}

func (m appModel) documentsTable(rows []model.Document, width int) string {
	const uploadedW, userW, flagW = 16, 6, 3
	nameW := width - uploadedW - userW - 2*flagW - 10
	if nameW < 12 {
		nameW = 12
	}

	uploaded := "UPLOADED " + glyphSortDesc()
	if m.docsView.Order == browse.OrderAsc {
		uploaded = "UPLOADED " + glyphSortAsc()
	}

	var b strings.Builder
	b.WriteString(styleMuted().Render(fmt.Sprintf("  %s  %s  %s  %s  %s",
		padRight("FILENAME", nameW), padRight(uploaded, uploadedW),
		padRight("USER", userW), padRight("VEC", flagW), padRight("SUM", flagW))))
	b.WriteString("\n")

	if len(rows) == 0 {
		b.WriteString(styleMuted().Render("  No documents match.") + "\n")
		return b.String()
	}

	for i, d := range rows {
		line := fmt.Sprintf("%s  %s  %s  %s  %s",
			padRight(truncate(d.Filename, nameW), nameW),
			padRight(truncate(displayTime(d.UploadTime), uploadedW), uploadedW),
			padRight(truncate(string(d.UserID), userW), userW),
			padRight(flagGlyph(d.IsVectorized.Bool()), flagW),
			padRight(flagGlyph(d.Summarized()), flagW))
		if i == m.docIdx {
			b.WriteString(styleSelected().Render("> "+line) + "\n")
		} else {
			b.WriteString("  " + line + "\n")
		}
	}
	return b.String()
}

func (m appModel) documentDetail(d model.Document, width int) string {
	var b strings.Builder
	b.WriteString(styleHeader().Render(truncate(d.Filename, width)) + "\n\n")
	kv := func(k, v string) {
		if v == "" {
			return
		}
		b.WriteString(styleMuted().Render(padRight(k, 10)) + truncate(v, width-10) + "\n")
	}
	kv("ID", string(d.ID))
	kv("Type", d.FileType)
	kv("Uploaded", displayTime(d.UploadTime))
	kv("Uploader", string(d.UserID))
	kv("Path", d.Path)
	kv("Vector", yesNo(d.IsVectorized.Bool()))

	ruleW := width
	if ruleW > 40 {
		ruleW = 40
	}
	b.WriteString("\n" + styleMuted().Render(strings.Repeat(glyphHRule(), ruleW)) + "\n")
	if d.Summarized() {
		b.WriteString(renderMarkdown(d.Summary, width))
	} else {
		b.WriteString(styleMuted().Render("No summary yet."))
	}
	return b.String()
}

// displayTime shortens a backend timestamp for table cells; strings that
// fit no known layout pass through untouched.
func displayTime(s string) string {
	if t, ok := model.ParseTimestamp(s); ok {
		return t.Format("2006-01-02 15:04")
	}
	return s
}

func flagGlyph(set bool) string {
	if set {
		return glyphCheck()
	}
	return "-"
}

func yesNo(v bool) string {
	if v {
		return "yes"
	}
	return "no"
}
