package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

func (m appModel) updateLogin(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.loggingIn {
		// The form is locked while the exchange runs. ctrl+c still quits;
		// it is handled before dispatch.
		return m, nil
	}

	switch msg.String() {
	case "tab", "shift+tab", "up", "down":
		return m.toggleLoginFocus()
	case "enter":
		if m.loginFocus == 0 {
			// Enter on the email field moves on to the password.
			m.loginFocus = 1
			m.passwordInput.Focus()
			m.emailInput.Blur()
			return m, textinput.Blink
		}
		return m.submitLogin()
	case "esc":
		// Back to the connect screen, e.g. when the wrong backend answered.
		mm, cmd := m.logout()
		return mm, cmd
	}

	var cmd tea.Cmd
	if m.loginFocus == 0 {
		m.emailInput, cmd = m.emailInput.Update(msg)
	} else {
		m.passwordInput, cmd = m.passwordInput.Update(msg)
	}
	return m, cmd
}

func (m appModel) toggleLoginFocus() (tea.Model, tea.Cmd) {
	m.loginFocus = 1 - m.loginFocus
	if m.loginFocus == 0 {
		m.emailInput.Focus()
		m.passwordInput.Blur()
	} else {
		m.passwordInput.Focus()
		m.emailInput.Blur()
	}
	return m, textinput.Blink
}

func (m appModel) submitLogin() (tea.Model, tea.Cmd) {
	email := strings.TrimSpace(m.emailInput.Value())
	password := m.passwordInput.Value()
	if email == "" || password == "" {
		m.loginErr = "Email and password are required."
		return m, nil
	}
	m.loginErr = ""
	cmd := m.startLogin(email, password)
	return m, cmd
}

func (m appModel) viewLogin() string {
	var b strings.Builder
	b.WriteString("\n  Sign in to the admin panel\n\n")
	b.WriteString("  Email     " + m.emailInput.View() + "\n")
	b.WriteString("  Password  " + m.passwordInput.View() + "\n\n")
	if m.loggingIn {
		b.WriteString(styleMuted().Render("  Signing in as "+strings.TrimSpace(m.emailInput.Value())+" ...") + "\n")
	}
	if m.loginErr != "" {
		b.WriteString(styleError().Render("  "+m.loginErr) + "\n")
	}
	return b.String()
}
