package tui

import (
	"os"
	"strings"
	"sync"

	"smartdoc-admin/internal/store"
)

// Terminal apps can't change the user's font. What they can do is choose
// between Unicode and ASCII glyph sets for UI affordances (bullets, arrows,
// chart bars), which helps on terminals/fonts that render some glyphs badly.

type glyphSet int

const (
	glyphSetUnicode glyphSet = iota
	glyphSetASCII
)

var (
	glyphsMu      sync.RWMutex
	currentGlyphs = glyphSetUnicode
)

// applyGlyphPreference picks the glyph set: SMARTDOC_ADMIN_TUI_GLYPHS wins,
// then the persisted config, then Unicode.
func applyGlyphPreference(cfg *store.GlobalConfig) {
	v := strings.ToLower(strings.TrimSpace(os.Getenv("SMARTDOC_ADMIN_TUI_GLYPHS")))
	if v == "" && cfg != nil && cfg.TUI != nil {
		v = strings.ToLower(strings.TrimSpace(cfg.TUI.Glyphs))
	}
	switch v {
	case "", "unicode", "utf8":
		setGlyphs(glyphSetUnicode)
	case "ascii":
		setGlyphs(glyphSetASCII)
	default:
		// Unknown value: ignore.
	}
}

func setGlyphs(gs glyphSet) {
	glyphsMu.Lock()
	currentGlyphs = gs
	glyphsMu.Unlock()
}

func glyphs() glyphSet {
	glyphsMu.RLock()
	gs := currentGlyphs
	glyphsMu.RUnlock()
	return gs
}

func glyphBullet() string {
	if glyphs() == glyphSetASCII {
		return "*"
	}
	return "•"
}

func glyphArrow() string {
	if glyphs() == glyphSetASCII {
		return "->"
	}
	return "→"
}

func glyphHRule() string {
	if glyphs() == glyphSetASCII {
		return "-"
	}
	return "─"
}

func glyphVRule() string {
	if glyphs() == glyphSetASCII {
		return "|"
	}
	return "│"
}

func glyphBar() string {
	if glyphs() == glyphSetASCII {
		return "#"
	}
	return "█"
}

func glyphSortAsc() string {
	if glyphs() == glyphSetASCII {
		return "^"
	}
	return "↑"
}

func glyphSortDesc() string {
	if glyphs() == glyphSetASCII {
		return "v"
	}
	return "↓"
}

func glyphCheck() string {
	if glyphs() == glyphSetASCII {
		return "x"
	}
	return "✓"
}
