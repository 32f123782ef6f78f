// Package tui is the interactive admin console: a bubbletea program over
// the same api, session and browse layers the scriptable commands use.
package tui

import (
	"errors"
	"log/slog"

	"smartdoc-admin/internal/api"
	"smartdoc-admin/internal/session"
	"smartdoc-admin/internal/store"

	tea "github.com/charmbracelet/bubbletea"
)

// Options wires the console to the shared layers. Client is required; a
// nil Session or Log gets a working default so tests can pass a subset.
type Options struct {
	Client  *api.Client
	Session *session.Session
	Store   store.Store
	Config  *store.GlobalConfig
	Log     *slog.Logger
}

// Run starts the console and blocks until the user quits. The final browse
// position is persisted on the way out so the next run re-opens where this
// one left off.
func Run(opts Options) error {
	if opts.Client == nil {
		return errors.New("tui: nil api client")
	}

	applyColorProfilePreference()
	applyThemePreference(opts.Config)
	applyGlyphPreference(opts.Config)

	final, err := tea.NewProgram(newAppModel(opts), tea.WithAltScreen()).Run()
	if err != nil {
		return err
	}
	if fm, ok := final.(appModel); ok {
		fm.persistUIState()
	}
	return nil
}
