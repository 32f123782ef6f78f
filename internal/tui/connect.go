package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

func (m appModel) updateConnect(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "esc":
		return m, tea.Quit
	case "r":
		if m.probing {
			return m, nil
		}
		m.probeSeq++
		m.probing = true
		m.probeFail = false
		return m, tea.Batch(m.spin.Tick, probeCmd(m.client, m.probeSeq))
	}
	return m, nil
}

func (m appModel) viewConnect() string {
	var b strings.Builder
	b.WriteString("\n")
	switch {
	case m.probing:
		fmt.Fprintf(&b, "  %s Waiting for the backend at %s\n\n", m.spin.View(), m.client.BaseURL())
		b.WriteString(styleMuted().Render("  Free-tier hosts spin down when idle; a cold start can take up to a minute.") + "\n")
	case m.probeFail:
		b.WriteString(styleError().Render("  Could not connect to the API. Please ensure the backend is running.") + "\n\n")
		b.WriteString(styleMuted().Render("  Backend: "+m.client.BaseURL()) + "\n")
	default:
		b.WriteString(styleMuted().Render("  Backend: "+m.client.BaseURL()) + "\n")
	}
	return b.String()
}
