package tui

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"smartdoc-admin/internal/api"
	"smartdoc-admin/internal/browse"
	"smartdoc-admin/internal/session"
	"smartdoc-admin/internal/store"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type view int

const (
	viewConnect view = iota
	viewLogin
	viewDocuments
	viewUsers
	viewDashboard
)

func (v view) name() string {
	switch v {
	case viewDocuments:
		return "documents"
	case viewUsers:
		return "users"
	case viewDashboard:
		return "dashboard"
	}
	return ""
}

func viewFromName(s string) (view, bool) {
	switch strings.TrimSpace(strings.ToLower(s)) {
	case "documents":
		return viewDocuments, true
	case "users":
		return viewUsers, true
	case "dashboard":
		return viewDashboard, true
	}
	return viewDocuments, false
}

type appModel struct {
	client  *api.Client
	session *session.Session
	store   store.Store
	cfg     *store.GlobalConfig
	log     *slog.Logger

	width  int
	height int

	view view
	// landingView comes from the persisted UI state and is entered after
	// login instead of the documents default.
	landingView view

	// Connect screen.
	spin      spinner.Model
	probeSeq  int
	probing   bool
	probeFail bool

	// Login form.
	emailInput    textinput.Model
	passwordInput textinput.Model
	loginFocus    int // 0 = email, 1 = password
	loginSeq      int
	loggingIn     bool
	loginErr      string

	// Collection browsing. The ViewStates are the single source of truth
	// for filter/sort/page; rendering always goes back through browse.
	docsView    browse.ViewState
	usersView   browse.ViewState
	searchInput textinput.Model
	searchFocus bool
	docIdx      int // selected row within the current page
	userIdx     int
	confirm     browse.DeleteConfirm

	docsSeq       int
	usersSeq      int
	deleteSeq     int
	docsFetching  bool
	usersFetching bool
	deleting      bool

	// One-line transient feedback above the footer.
	status    string
	statusErr bool
	statusSeq int
}

func newAppModel(opts Options) appModel {
	m := appModel{
		client:      opts.Client,
		session:     opts.Session,
		store:       opts.Store,
		cfg:         opts.Config,
		log:         opts.Log,
		view:        viewConnect,
		landingView: viewDocuments,
		probing:     true, // Init fires the first probe
		docsView:    browse.NewViewState(),
		usersView:   browse.NewViewState(),
	}
	if m.log == nil {
		m.log = slog.New(slog.DiscardHandler)
	}
	if m.session == nil {
		m.session = session.New()
	}

	m.spin = spinner.New()
	m.spin.Spinner = spinner.Dot
	m.spin.Style = styleAccent()

	m.emailInput = textinput.New()
	m.emailInput.Placeholder = "admin@example.com"
	m.emailInput.CharLimit = 254
	m.emailInput.Width = 38
	m.emailInput.Focus()

	m.passwordInput = textinput.New()
	m.passwordInput.Placeholder = "password"
	m.passwordInput.EchoMode = textinput.EchoPassword
	m.passwordInput.EchoCharacter = '•'
	m.passwordInput.CharLimit = 254
	m.passwordInput.Width = 38

	m.searchInput = textinput.New()
	m.searchInput.Placeholder = "filename"
	m.searchInput.CharLimit = 120
	m.searchInput.Width = 28

	// Best-effort: restore the last browse position.
	if st, err := m.store.LoadUIState(); err == nil {
		m.applySavedUIState(st)
	}

	return m
}

func (m *appModel) applySavedUIState(st *store.UIState) {
	if st == nil {
		return
	}
	if v, ok := viewFromName(st.View); ok {
		m.landingView = v
	}
	if ord, ok := browse.ParseOrder(st.DocOrder); ok && st.DocOrder != "" {
		m.docsView.Order = ord
	}
	if ord, ok := browse.ParseOrder(st.UserOrder); ok && st.UserOrder != "" {
		m.usersView.Order = ord
	}
	if st.DocPage > 0 {
		m.docsView.Page = st.DocPage
	}
	if st.UserPage > 0 {
		m.usersView.Page = st.UserPage
	}
	m.docsView.Search = st.Search
	m.docsView.UserFilter = st.UserFilter
	m.searchInput.SetValue(st.Search)
}

func (m appModel) persistUIState() {
	_ = m.store.SaveUIState(&store.UIState{
		Version:    1,
		View:       m.currentBrowseView().name(),
		DocPage:    m.docsView.Page,
		UserPage:   m.usersView.Page,
		DocOrder:   string(m.docsView.Order),
		UserOrder:  string(m.usersView.Order),
		Search:     m.docsView.Search,
		UserFilter: m.docsView.UserFilter,
	})
}

// currentBrowseView is the view to restore on the next run: the active one
// when browsing, the saved landing view while still on connect/login.
func (m appModel) currentBrowseView() view {
	switch m.view {
	case viewDocuments, viewUsers, viewDashboard:
		return m.view
	}
	return m.landingView
}

func (m appModel) Init() tea.Cmd {
	return tea.Batch(m.spin.Tick, probeCmd(m.client, m.probeSeq))
}

func (m appModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	// The debounced search commits on any later pass once the quiet window
	// has passed; there is no timer.
	if m.view == viewDocuments {
		before := m.docsView.Search
		m.docsView = m.docsView.FlushSearch(time.Now())
		if m.docsView.Search != before {
			m.docIdx = 0
		}
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case spinner.TickMsg:
		if m.view == viewConnect {
			var cmd tea.Cmd
			m.spin, cmd = m.spin.Update(msg)
			return m, cmd
		}
		return m, nil

	case probeDoneMsg:
		return m.onProbeDone(msg)

	case loginDoneMsg:
		return m.onLoginDone(msg)

	case documentsMsg:
		return m.onDocuments(msg)

	case usersMsg:
		return m.onUsers(msg)

	case docDeletedMsg:
		return m.onDocDeleted(msg)

	case userDeletedMsg:
		return m.onUserDeleted(msg)

	case statusClearMsg:
		if msg.seq == m.statusSeq {
			m.status = ""
		}
		return m, nil

	case tea.KeyMsg:
		return m.onKey(msg)
	}

	return m, nil
}

func (m appModel) onKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// ctrl+c always quits, regardless of focus.
	if msg.Type == tea.KeyCtrlC {
		return m, tea.Quit
	}

	switch m.view {
	case viewConnect:
		return m.updateConnect(msg)
	case viewLogin:
		return m.updateLogin(msg)
	case viewDocuments:
		return m.updateDocuments(msg)
	case viewUsers:
		return m.updateUsers(msg)
	case viewDashboard:
		return m.updateDashboard(msg)
	}
	return m, nil
}

// handleBrowseKey covers the keys shared by the three browse views. The
// second result reports whether the key was consumed.
func (m appModel) handleBrowseKey(msg tea.KeyMsg) (tea.Model, tea.Cmd, bool) {
	switch msg.String() {
	case "q":
		return m, tea.Quit, true
	case "tab":
		mm, cmd := m.switchBrowseView(m.nextBrowseView(1))
		return mm, cmd, true
	case "shift+tab":
		mm, cmd := m.switchBrowseView(m.nextBrowseView(-1))
		return mm, cmd, true
	case "1":
		mm, cmd := m.switchBrowseView(viewDocuments)
		return mm, cmd, true
	case "2":
		mm, cmd := m.switchBrowseView(viewUsers)
		return mm, cmd, true
	case "3":
		mm, cmd := m.switchBrowseView(viewDashboard)
		return mm, cmd, true
	case "r":
		mm, cmd := m.refreshCollections(true)
		return mm, cmd, true
	case "ctrl+l":
		mm, cmd := m.logout()
		return mm, cmd, true
	}
	return m, nil, false
}

func (m appModel) nextBrowseView(dir int) view {
	order := []view{viewDocuments, viewUsers, viewDashboard}
	for i, v := range order {
		if v == m.view {
			return order[(i+dir+len(order))%len(order)]
		}
	}
	return viewDocuments
}

// switchBrowseView changes tabs and refetches whatever the target view
// needs if its cache has gone stale in the meantime.
func (m appModel) switchBrowseView(v view) (appModel, tea.Cmd) {
	if m.view == v {
		return m, nil
	}
	m.view = v
	m.searchFocus = false
	m.searchInput.Blur()
	m.confirm = browse.DeleteConfirm{}
	return m.refreshCollections(false)
}

// logout drops every session artifact and goes back to the connect screen,
// which re-probes the backend. In-flight fetch and delete results are
// invalidated by bumping their seqs.
func (m appModel) logout() (appModel, tea.Cmd) {
	m.persistUIState()
	m.session.Reset()
	m.docsSeq++
	m.usersSeq++
	m.deleteSeq++
	m.loginSeq++
	m.docsFetching = false
	m.usersFetching = false
	m.deleting = false
	m.loggingIn = false
	m.loginErr = ""
	m.status = ""
	m.passwordInput.SetValue("")
	m.emailInput.Focus()
	m.passwordInput.Blur()
	m.loginFocus = 0
	m.confirm = browse.DeleteConfirm{}
	m.searchFocus = false
	m.searchInput.Blur()

	m.view = viewConnect
	m.probeSeq++
	m.probing = true
	m.probeFail = false
	return m, tea.Batch(m.spin.Tick, probeCmd(m.client, m.probeSeq))
}

// handleAuthFailure reacts to a 401 from any authenticated call: the token
// is gone, so drop the session and land on the login form with an
// explanation. The backend clearly answered, so it stays marked reachable.
func (m appModel) handleAuthFailure() appModel {
	m.session.Reset()
	m.session.BackendReachable = true
	m.docsSeq++
	m.usersSeq++
	m.deleteSeq++
	m.docsFetching = false
	m.usersFetching = false
	m.deleting = false
	m.view = viewLogin
	m.loginErr = "Authentication failed. Please log in again."
	m.loggingIn = false
	m.status = ""
	m.passwordInput.SetValue("")
	m.emailInput.Focus()
	m.passwordInput.Blur()
	m.loginFocus = 0
	m.confirm = browse.DeleteConfirm{}
	m.searchFocus = false
	m.searchInput.Blur()
	return m
}

// flash shows a one-line status message until the clear tick fires.
func (m *appModel) flash(s string) tea.Cmd {
	m.status = s
	m.statusErr = false
	m.statusSeq++
	return statusClearCmd(m.statusSeq)
}

func (m *appModel) flashError(s string) tea.Cmd {
	cmd := m.flash(s)
	m.statusErr = true
	return cmd
}

func (m appModel) View() string {
	var body string
	switch m.view {
	case viewConnect:
		body = m.viewConnect()
	case viewLogin:
		body = m.viewLogin()
	case viewDocuments:
		body = m.viewDocuments()
	case viewUsers:
		body = m.viewUsers()
	case viewDashboard:
		body = m.viewDashboard()
	}

	sections := []string{m.header(), body}
	if m.status != "" {
		line := "  " + m.status
		if m.statusErr {
			sections = append(sections, styleError().Render(line))
		} else {
			sections = append(sections, styleSuccess().Render(line))
		}
	}
	sections = append(sections, m.footer())
	return strings.Join(sections, "\n")
}

func (m appModel) header() string {
	title := styleHeader().Render("SmartDoc Admin")
	if v := m.view; v == viewDocuments || v == viewUsers || v == viewDashboard {
		tabs := make([]string, 0, 3)
		for _, t := range []view{viewDocuments, viewUsers, viewDashboard} {
			label := t.name()
			if t == v {
				tabs = append(tabs, styleAccent().Bold(true).Render(label))
			} else {
				tabs = append(tabs, styleMuted().Render(label))
			}
		}
		return title + "  " + strings.Join(tabs, styleMuted().Render(" "+glyphBullet()+" "))
	}
	return title
}

func (m appModel) footer() string {
	help := m.footerHelp()

	right := m.client.BaseURL()
	if m.session.LoggedIn() {
		right += "  " + m.session.Username
		if hint := expiryHint(m.session.TokenExpiry(), time.Now()); hint != "" {
			right += "  " + hint
		}
	}

	left := styleMuted().Render(help)
	rt := styleMuted().Render(right)

	if m.width > 0 {
		gap := m.width - lipgloss.Width(left) - lipgloss.Width(rt)
		if gap > 1 {
			return left + strings.Repeat(" ", gap) + rt
		}
	}
	return left + "  " + rt
}

func (m appModel) footerHelp() string {
	switch m.view {
	case viewConnect:
		if m.probeFail {
			return "r: retry  q: quit"
		}
		return "q: quit"
	case viewLogin:
		return "tab: switch field  enter: sign in  ctrl+c: quit"
	case viewDocuments:
		if m.searchFocus {
			return "enter: apply  esc: cancel"
		}
		return "/: search  f: uploader  s: sort  h/l: page  d: delete  r: refresh  tab: next  q: quit"
	case viewUsers:
		if m.confirm.AnyArmed() {
			return "y: confirm delete  n/esc: cancel"
		}
		return "s: sort  h/l: page  d: delete  r: refresh  tab: next  q: quit"
	case viewDashboard:
		return "r: refresh  tab: next  q: quit"
	}
	return ""
}

// expiryHint words the session-expiry countdown for the footer. Opaque
// tokens have no known expiry and get no hint.
func expiryHint(expiry time.Time, now time.Time) string {
	if expiry.IsZero() {
		return ""
	}
	left := expiry.Sub(now)
	if left <= 0 {
		return "session expired"
	}
	if left < time.Minute {
		return "expires <1m"
	}
	if left < time.Hour {
		return fmt.Sprintf("expires in %dm", int(left.Minutes()))
	}
	return fmt.Sprintf("expires in %dh%02dm", int(left.Hours()), int(left.Minutes())%60)
}

// bodyHeight is the vertical room left for the active view's body.
func (m appModel) bodyHeight() int {
	h := m.height - 4 // header, footer, status, padding
	if h < 8 {
		h = 8
	}
	return h
}

func (m appModel) bodyWidth() int {
	w := m.width
	if w < 60 {
		w = 60
	}
	return w
}
