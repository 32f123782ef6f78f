package store

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
)

const uiStateFileName = "ui_state.json"

// UIState stores small, user-facing UI state for restoring the last screen on
// relaunch.
//
// It is intentionally "best effort": callers should tolerate missing/invalid
// data, and nothing here is required for correct operation.
type UIState struct {
	Version int `json:"version"`

	// View is one of: documents|users|dashboard
	View string `json:"view,omitempty"`

	DocPage  int `json:"docPage,omitempty"`
	UserPage int `json:"userPage,omitempty"`

	// Sort orders are "asc" or "desc".
	DocOrder  string `json:"docOrder,omitempty"`
	UserOrder string `json:"userOrder,omitempty"`

	Search     string `json:"search,omitempty"`
	UserFilter string `json:"userFilter,omitempty"`
}

func (s Store) uiStatePath() string {
	return filepath.Join(s.Dir, uiStateFileName)
}

func (s Store) LoadUIState() (*UIState, error) {
	if strings.TrimSpace(s.Dir) == "" {
		return &UIState{Version: 1}, nil
	}
	if err := s.Ensure(); err != nil {
		return nil, err
	}
	b, err := os.ReadFile(s.uiStatePath())
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &UIState{Version: 1}, nil
		}
		return nil, err
	}
	var st UIState
	if err := json.Unmarshal(b, &st); err != nil {
		// Best-effort; if corrupted, treat as missing.
		return &UIState{Version: 1}, nil
	}
	if st.Version == 0 {
		st.Version = 1
	}
	return &st, nil
}

func (s Store) SaveUIState(st *UIState) error {
	if st == nil {
		return nil
	}
	if strings.TrimSpace(s.Dir) == "" {
		return nil
	}
	if err := s.Ensure(); err != nil {
		return err
	}
	if st.Version == 0 {
		st.Version = 1
	}
	b, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return err
	}
	path := s.uiStatePath()
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, b, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}
