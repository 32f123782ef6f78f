package tui

import (
	"os"
	"strconv"
	"strings"

	"smartdoc-admin/internal/store"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Theme/palette helpers.
//
// The TUI must remain readable on both light and dark terminal backgrounds,
// so colors are lipgloss.AdaptiveColor pairs and "faint" styling is applied
// only on dark backgrounds (faint text on light terminals often becomes
// illegible).

func ac(light, dark string) lipgloss.AdaptiveColor {
	return lipgloss.AdaptiveColor{Light: light, Dark: dark}
}

func faintIfDark(st lipgloss.Style) lipgloss.Style {
	if lipgloss.HasDarkBackground() {
		return st.Faint(true)
	}
	return st
}

var (
	colorMuted      lipgloss.TerminalColor = ac("240", "243")
	colorSurfaceFg  lipgloss.TerminalColor = ac("235", "252")
	colorAccent     lipgloss.TerminalColor = ac("27", "62") // blue
	colorAccentFg   lipgloss.TerminalColor = ac("255", "235")
	colorSelectedBg lipgloss.TerminalColor = ac("#e9e9e9", "#262626")
	colorSelectedFg lipgloss.TerminalColor = ac("235", "255")
	colorError      lipgloss.TerminalColor = ac("160", "196") // red
	colorSuccess    lipgloss.TerminalColor = ac("28", "40")   // green
	colorWarnBg     lipgloss.TerminalColor = ac("196", "160")
	colorWarnFg     lipgloss.TerminalColor = ac("255", "255")
	colorBar        lipgloss.TerminalColor = ac("33", "69") // chart fill
)

func styleMuted() lipgloss.Style {
	return faintIfDark(lipgloss.NewStyle().Foreground(colorMuted))
}

func styleError() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(colorError)
}

func styleAccent() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(colorAccent)
}

func styleSelected() lipgloss.Style {
	return lipgloss.NewStyle().Background(colorSelectedBg).Foreground(colorSelectedFg)
}

func styleHeader() lipgloss.Style {
	return lipgloss.NewStyle().Bold(true).Foreground(colorSurfaceFg)
}

func styleWarnBanner() lipgloss.Style {
	return lipgloss.NewStyle().Background(colorWarnBg).Foreground(colorWarnFg).Bold(true).Padding(0, 1)
}

func styleSuccess() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(colorSuccess)
}

func styleBar() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(colorBar)
}

// applyColorProfilePreference sets Lip Gloss's color profile for the
// interactive TUI.
//
// Note: termenv.EnvColorProfile respects CLICOLOR/CLICOLOR_FORCE, which is
// useful for non-interactive CLI output but can accidentally disable colors
// in a TUI. Here only NO_COLOR is honored; otherwise the terminal's
// capabilities decide.
func applyColorProfilePreference() {
	if strings.TrimSpace(os.Getenv("NO_COLOR")) != "" {
		lipgloss.SetColorProfile(termenv.Ascii)
		return
	}

	profile := termenv.ColorProfile()

	// If TERM/COLORTERM indicate stronger support than the detector
	// reports, trust the env. Color probing under-reports on some
	// terminals, which degrades the palette to gray.
	term := strings.ToLower(strings.TrimSpace(os.Getenv("TERM")))
	colorterm := strings.ToLower(strings.TrimSpace(os.Getenv("COLORTERM")))
	if strings.Contains(colorterm, "truecolor") || strings.Contains(colorterm, "24bit") {
		if profile != termenv.Ascii {
			profile = termenv.TrueColor
		}
	} else if strings.Contains(term, "256color") {
		if profile == termenv.Ascii || profile == termenv.ANSI {
			profile = termenv.ANSI256
		}
	}

	lipgloss.SetColorProfile(profile)
}

// applyThemePreference configures the palette and Lip Gloss's background
// detection. Some terminals don't reliably report their background, which
// makes AdaptiveColor pick the wrong variant.
//
// Priority:
// 1) SMARTDOC_ADMIN_TUI_THEME=light|dark|mono|auto
// 2) the persisted config (tui.theme)
// 3) COLORFGBG heuristic (format like "15;0" = fg;bg)
func applyThemePreference(cfg *store.GlobalConfig) {
	theme := strings.ToLower(strings.TrimSpace(os.Getenv("SMARTDOC_ADMIN_TUI_THEME")))
	if theme == "" && cfg != nil && cfg.TUI != nil {
		theme = strings.ToLower(strings.TrimSpace(cfg.TUI.Theme))
	}

	switch theme {
	case "light":
		lipgloss.SetHasDarkBackground(false)
		return
	case "dark":
		lipgloss.SetHasDarkBackground(true)
		return
	case "mono":
		lipgloss.SetColorProfile(termenv.Ascii)
		return
	case "", "auto", "default":
		// fall through to heuristics
	default:
		// Unknown value: ignore.
	}

	// COLORFGBG is often "fg;bg" (sometimes more segments); the last
	// segment is the background. Lighter backgrounds read as non-dark.
	if v := strings.TrimSpace(os.Getenv("COLORFGBG")); v != "" {
		parts := strings.Split(v, ";")
		bgStr := strings.TrimSpace(parts[len(parts)-1])
		if bg, err := strconv.Atoi(bgStr); err == nil {
			lipgloss.SetHasDarkBackground(bg < 7)
		}
	}
}
