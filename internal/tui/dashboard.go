package tui

import (
	"fmt"
	"strings"
	"time"

	"smartdoc-admin/internal/stats"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// dashboardTopN matches the scriptable stats command's leaderboards.
const dashboardTopN = 5

func (m appModel) updateDashboard(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if mm, cmd, ok := m.handleBrowseKey(msg); ok {
		return mm, cmd
	}
	return m, nil
}

func (m appModel) viewDashboard() string {
	now := time.Now()
	docs, docsFresh := m.session.Documents(now)
	users, usersFresh := m.session.Users(now)

	var b strings.Builder
	b.WriteString(m.overviewBlock(stats.NewOverview(docs, users)))
	b.WriteString("\n")

	chartW := m.bodyWidth()/2 - 4
	uploads := histogramBlock("Uploads", stats.BucketDocuments(docs), chartW)
	signups := histogramBlock("Signups", stats.BucketUsers(users), chartW)
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top,
		normalizePane(uploads, chartW, paneLines(uploads, signups)),
		"    ",
		signups))
	b.WriteString("\n\n")

	boardW := m.bodyWidth()/2 - 4
	top := m.topUploadersBlock(stats.TopUploaders(docs, dashboardTopN), boardW)
	largest := topSummariesBlock(stats.TopSummaries(docs, dashboardTopN), boardW)
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top,
		normalizePane(top, boardW, paneLines(top, largest)),
		"    ",
		largest))

	if m.docsFetching || m.usersFetching {
		b.WriteString("\n" + styleMuted().Render("  refreshing"))
	} else if (!docsFresh && len(docs) > 0) || (!usersFresh && len(users) > 0) {
		b.WriteString("\n" + styleMuted().Render("  cache stale, press r"))
	}
	return b.String()
}

// paneLines is the height to normalize side-by-side panes to.
func paneLines(blocks ...string) int {
	max := 1
	for _, s := range blocks {
		if n := strings.Count(s, "\n") + 1; n > max {
			max = n
		}
	}
	return max
}

func (m appModel) overviewBlock(o stats.Overview) string {
	var b strings.Builder
	b.WriteString(styleAccent().Render("Overview") + "\n")
	fmt.Fprintf(&b, "  Documents  %-5d vectorized %d/%d %s summarized %d/%d\n",
		o.TotalDocuments, o.Vectorized, o.TotalDocuments, glyphBullet(), o.Summarized, o.TotalDocuments)
	fmt.Fprintf(&b, "  Users      %-5d active %d %s admins %d %s gemini keys %d\n",
		o.TotalUsers, o.ActiveUsers, glyphBullet(), o.Admins, glyphBullet(), o.GeminiKeys)
	return b.String()
}

// histogramBlock renders one time histogram as a horizontal bar chart,
// bars scaled against the busiest bucket.
func histogramBlock(title string, h stats.Histogram, width int) string {
	var b strings.Builder
	label := title + " by day"
	if h.Scale == stats.ScaleHourly {
		label = title + " on " + h.Day + " (hourly)"
	}
	b.WriteString(styleAccent().Render(label) + "\n")

	if len(h.Buckets) == 0 {
		b.WriteString(styleMuted().Render("  no data") + "\n")
	}

	maxCount := 0
	for _, bk := range h.Buckets {
		if bk.Count > maxCount {
			maxCount = bk.Count
		}
	}
	barW := width - 20
	if barW < 8 {
		barW = 8
	}
	if barW > 42 {
		barW = 42
	}
	for _, bk := range h.Buckets {
		n := 0
		if maxCount > 0 {
			n = bk.Count * barW / maxCount
		}
		if n < 1 {
			n = 1
		}
		fmt.Fprintf(&b, "  %s %s %d\n",
			padRight(truncate(bk.Label, 10), 10),
			styleBar().Render(strings.Repeat(glyphBar(), n)),
			bk.Count)
	}
	if h.Invalid > 0 {
		b.WriteString(styleMuted().Render(fmt.Sprintf("  %d unparsable timestamps excluded", h.Invalid)) + "\n")
	}
	return b.String()
}

func (m appModel) topUploadersBlock(top []stats.UploaderCount, width int) string {
	var b strings.Builder
	b.WriteString(styleAccent().Render("Top uploaders") + "\n")
	if len(top) == 0 {
		b.WriteString(styleMuted().Render("  no uploads") + "\n")
		return b.String()
	}
	for i, t := range top {
		name := "user " + string(t.UserID)
		if u, ok := m.session.UserByID(t.UserID); ok {
			name = u.Username
		}
		noun := "documents"
		if t.Count == 1 {
			noun = "document"
		}
		fmt.Fprintf(&b, "  %d. %s %d %s\n", i+1, padRight(truncate(name, width-20), width-20), t.Count, noun)
	}
	return b.String()
}

func topSummariesBlock(top []stats.SummaryStat, width int) string {
	var b strings.Builder
	b.WriteString(styleAccent().Render("Largest summaries") + "\n")
	if len(top) == 0 {
		b.WriteString(styleMuted().Render("  no summaries") + "\n")
		return b.String()
	}
	for i, t := range top {
		fmt.Fprintf(&b, "  %d. %s %d chars\n", i+1, padRight(truncate(t.Filename, width-16), width-16), t.Chars)
	}
	return b.String()
}
