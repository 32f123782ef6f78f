package tui

import (
	"testing"

	"smartdoc-admin/internal/store"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Theme application mutates Lip Gloss globals, so these tests run serially
// and restore the previous profile and background afterwards.

func saveRenderer(t *testing.T) {
	t.Helper()
	profile := lipgloss.ColorProfile()
	dark := lipgloss.HasDarkBackground()
	t.Cleanup(func() {
		lipgloss.SetColorProfile(profile)
		lipgloss.SetHasDarkBackground(dark)
	})
}

func TestThemeEnvBeatsConfig(t *testing.T) {
	saveRenderer(t)
	t.Setenv("SMARTDOC_ADMIN_TUI_THEME", "light")
	t.Setenv("COLORFGBG", "")

	applyThemePreference(&store.GlobalConfig{TUI: &store.TUIConfig{Theme: "dark"}})

	if lipgloss.HasDarkBackground() {
		t.Fatalf("expected env light theme to win over config")
	}
}

func TestThemeFromConfig(t *testing.T) {
	saveRenderer(t)
	t.Setenv("SMARTDOC_ADMIN_TUI_THEME", "")
	t.Setenv("COLORFGBG", "")

	applyThemePreference(&store.GlobalConfig{TUI: &store.TUIConfig{Theme: "dark"}})

	if !lipgloss.HasDarkBackground() {
		t.Fatalf("expected config dark theme applied")
	}
}

func TestThemeMonoDropsColor(t *testing.T) {
	saveRenderer(t)
	t.Setenv("SMARTDOC_ADMIN_TUI_THEME", "mono")

	applyThemePreference(nil)

	if lipgloss.ColorProfile() != termenv.Ascii {
		t.Fatalf("expected mono to force the ascii profile; got %v", lipgloss.ColorProfile())
	}
}

func TestThemeColorFGBGHeuristic(t *testing.T) {
	saveRenderer(t)
	t.Setenv("SMARTDOC_ADMIN_TUI_THEME", "")

	t.Setenv("COLORFGBG", "15;0")
	applyThemePreference(nil)
	if !lipgloss.HasDarkBackground() {
		t.Fatalf("expected bg 0 to read as dark")
	}

	t.Setenv("COLORFGBG", "0;15")
	applyThemePreference(nil)
	if lipgloss.HasDarkBackground() {
		t.Fatalf("expected bg 15 to read as light")
	}
}

func TestNoColorForcesAscii(t *testing.T) {
	saveRenderer(t)
	t.Setenv("NO_COLOR", "1")

	applyColorProfilePreference()

	if lipgloss.ColorProfile() != termenv.Ascii {
		t.Fatalf("expected NO_COLOR to drop to ascii; got %v", lipgloss.ColorProfile())
	}
}

func TestTermEnvUpgradesProfile(t *testing.T) {
	saveRenderer(t)
	t.Setenv("NO_COLOR", "")
	t.Setenv("COLORTERM", "")
	t.Setenv("TERM", "xterm-256color")

	// Detection reports ascii here (no tty under go test); the TERM hint
	// should lift it.
	applyColorProfilePreference()

	if lipgloss.ColorProfile() != termenv.ANSI256 {
		t.Fatalf("expected TERM=xterm-256color to upgrade the profile; got %v", lipgloss.ColorProfile())
	}
}
