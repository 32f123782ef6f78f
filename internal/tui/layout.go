package tui

import (
	"strings"

	xansi "github.com/charmbracelet/x/ansi"
)

// truncate cuts s to at most width columns (ANSI-aware), appending an
// ellipsis when something was dropped.
func truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	if xansi.StringWidth(s) <= width {
		return s
	}
	if width == 1 {
		return xansi.Cut(s, 0, 1)
	}
	return xansi.Cut(s, 0, width-1) + "…"
}

// padRight pads s with spaces to exactly width columns, truncating first if
// it is too wide.
func padRight(s string, width int) string {
	if width <= 0 {
		return ""
	}
	s = truncate(s, width)
	if w := xansi.StringWidth(s); w < width {
		return s + strings.Repeat(" ", width-w)
	}
	return s
}

// normalizePane forces s to exactly width columns and height lines
// (ANSI-aware). This keeps split-pane rendering stable under
// lipgloss.JoinHorizontal.
func normalizePane(s string, width, height int) string {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}

	lines := strings.Split(s, "\n")

	if height > 0 {
		if len(lines) > height {
			lines = lines[:height]
		}
		for len(lines) < height {
			lines = append(lines, "")
		}
	}

	for i := range lines {
		ln := lines[i]
		// Very long raw lines are almost certainly wider than the pane;
		// cut early so the width computations stay bounded.
		if width > 0 && len(ln) > 8192 {
			ln = truncate(ln, width)
		}
		lines[i] = padRight(ln, width)
	}

	return strings.Join(lines, "\n")
}
