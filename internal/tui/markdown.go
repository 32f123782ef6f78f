package tui

import (
	"os"
	"strconv"
	"strings"
	"sync"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
)

var (
	mdRendererMu sync.Mutex
	// Renderers are cached by style + wrap width. Creating one with
	// WithAutoStyle can trigger terminal queries that block on some
	// terminals, so a fixed style is chosen up front and reused.
	mdRenderers = map[string]*glamour.TermRenderer{}
)

// renderMarkdown renders a document summary for the detail pane. On any
// renderer failure the raw markdown comes back; a summary must never be
// lost to styling.
func renderMarkdown(md string, width int) string {
	md = strings.TrimSpace(md)
	if md == "" {
		return ""
	}
	if width < 10 {
		width = 10
	}

	style := markdownStyle()
	key := style + ":" + strconv.Itoa(width)

	mdRendererMu.Lock()
	r := mdRenderers[key]
	mdRendererMu.Unlock()

	if r == nil {
		rr, err := glamour.NewTermRenderer(
			glamour.WithStandardStyle(style),
			glamour.WithWordWrap(width),
		)
		if err != nil {
			return md
		}
		mdRendererMu.Lock()
		// Re-check in case a concurrent goroutine filled it.
		if existing := mdRenderers[key]; existing != nil {
			r = existing
		} else {
			mdRenderers[key] = rr
			r = rr
		}
		mdRendererMu.Unlock()
	}

	out, err := r.Render(md)
	if err != nil {
		return md
	}
	return strings.TrimRight(out, "\n")
}

// markdownStyle aligns glamour's palette with the TUI theme so summaries
// stay readable when the background detection and the forced theme
// disagree.
func markdownStyle() string {
	switch strings.ToLower(strings.TrimSpace(os.Getenv("SMARTDOC_ADMIN_TUI_THEME"))) {
	case "light":
		return "light"
	case "dark":
		return "dark"
	case "mono":
		return "notty"
	}
	// COLORFGBG heuristic: last segment is the background; 7..15 are the
	// light palette entries.
	if v := strings.TrimSpace(os.Getenv("COLORFGBG")); v != "" {
		parts := strings.Split(v, ";")
		if bg, err := strconv.Atoi(strings.TrimSpace(parts[len(parts)-1])); err == nil {
			if bg >= 7 {
				return "light"
			}
			return "dark"
		}
	}
	if lipgloss.HasDarkBackground() {
		return "dark"
	}
	return "light"
}
