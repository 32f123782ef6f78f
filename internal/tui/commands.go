package tui

import (
	"context"
	"errors"
	"fmt"
	"time"

	"smartdoc-admin/internal/api"
	"smartdoc-admin/internal/browse"
	"smartdoc-admin/internal/model"
	"smartdoc-admin/internal/session"
	"smartdoc-admin/internal/store"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// Every async result carries the seq of the command that produced it.
// Update drops results whose seq is no longer current, so a stale fetch can
// never overwrite newer state.

type probeDoneMsg struct {
	seq int
	ok  bool
}

type loginDoneMsg struct {
	seq   int
	grant api.LoginResult
	err   error
	// notAdmin is set when the credentials were fine but the account lacks
	// the admin role.
	notAdmin bool
}

type documentsMsg struct {
	seq       int
	docs      []model.Document
	fetchedAt time.Time
	err       error
}

type usersMsg struct {
	seq       int
	users     []model.User
	fetchedAt time.Time
	err       error
}

type docDeletedMsg struct {
	seq int
	id  model.ID
	err error
}

type userDeletedMsg struct {
	seq      int
	id       model.ID
	username string
	err      error
}

type statusClearMsg struct{ seq int }

// statusHold is how long a flash line stays up.
const statusHold = 4 * time.Second

// probeCmd blocks inside the readiness window and reports whether the
// backend came up. Cold starts on free-tier hosting can take most of it.
func probeCmd(c *api.Client, seq int) tea.Cmd {
	return func() tea.Msg {
		return probeDoneMsg{seq: seq, ok: api.WaitForBackend(context.Background(), c)}
	}
}

// startLogin exchanges credentials for a token and then verifies the
// account holds the admin role before the session accepts it.
func (m *appModel) startLogin(email, password string) tea.Cmd {
	m.loginSeq++
	m.loggingIn = true
	seq := m.loginSeq
	c := m.client
	return func() tea.Msg {
		ctx := context.Background()
		grant, err := c.Login(ctx, email, password)
		if err != nil {
			return loginDoneMsg{seq: seq, err: err}
		}
		if err := c.CheckAdmin(ctx, grant.AccessToken); err != nil {
			var ae *api.Error
			notAdmin := errors.As(err, &ae) && ae.Kind == api.KindForbidden
			return loginDoneMsg{seq: seq, err: err, notAdmin: notAdmin}
		}
		return loginDoneMsg{seq: seq, grant: grant}
	}
}

// startDocumentsFetch lists documents and, on success, persists the
// snapshot before the result reaches Update. The write happens on the
// command goroutine so a slow disk never blocks rendering.
func (m *appModel) startDocumentsFetch() tea.Cmd {
	m.docsSeq++
	m.docsFetching = true
	seq := m.docsSeq
	c, st, log := m.client, m.store, m.log
	scope, token := m.scope(), m.session.AccessToken
	return func() tea.Msg {
		docs, err := c.ListDocuments(context.Background(), token)
		fetchedAt := time.Now()
		if err == nil {
			if serr := st.SaveSnapshot(context.Background(), scope, store.CollectionDocuments, docs, fetchedAt); serr != nil {
				log.Warn("snapshot save failed", "collection", store.CollectionDocuments, "err", serr)
			}
		}
		return documentsMsg{seq: seq, docs: docs, fetchedAt: fetchedAt, err: err}
	}
}

func (m *appModel) startUsersFetch() tea.Cmd {
	m.usersSeq++
	m.usersFetching = true
	seq := m.usersSeq
	c, st, log := m.client, m.store, m.log
	scope, token := m.scope(), m.session.AccessToken
	return func() tea.Msg {
		users, err := c.ListUsers(context.Background(), token)
		fetchedAt := time.Now()
		if err == nil {
			if serr := st.SaveSnapshot(context.Background(), scope, store.CollectionUsers, users, fetchedAt); serr != nil {
				log.Warn("snapshot save failed", "collection", store.CollectionUsers, "err", serr)
			}
		}
		return usersMsg{seq: seq, users: users, fetchedAt: fetchedAt, err: err}
	}
}

func (m *appModel) startDocumentDelete(id model.ID) tea.Cmd {
	m.deleteSeq++
	m.deleting = true
	seq := m.deleteSeq
	c, token := m.client, m.session.AccessToken
	return func() tea.Msg {
		err := c.DeleteDocument(context.Background(), token, id)
		return docDeletedMsg{seq: seq, id: id, err: err}
	}
}

func (m *appModel) startUserDelete(id model.ID, username string) tea.Cmd {
	m.deleteSeq++
	m.deleting = true
	seq := m.deleteSeq
	c, token := m.client, m.session.AccessToken
	return func() tea.Msg {
		err := c.DeleteUser(context.Background(), token, id)
		return userDeletedMsg{seq: seq, id: id, username: username, err: err}
	}
}

func statusClearCmd(seq int) tea.Cmd {
	return tea.Tick(statusHold, func(time.Time) tea.Msg {
		return statusClearMsg{seq: seq}
	})
}

// refreshCollections refetches whatever is stale; force refetches both.
// A fetch already in flight is never doubled up.
func (m appModel) refreshCollections(force bool) (appModel, tea.Cmd) {
	now := time.Now()
	var cmds []tea.Cmd
	if _, fresh := m.session.Documents(now); (force || !fresh) && !m.docsFetching {
		cmds = append(cmds, m.startDocumentsFetch())
	}
	if _, fresh := m.session.Users(now); (force || !fresh) && !m.usersFetching {
		cmds = append(cmds, m.startUsersFetch())
	}
	if len(cmds) == 0 {
		return m, nil
	}
	return m, tea.Batch(cmds...)
}

// scope namespaces persisted snapshots by backend and admin account.
func (m appModel) scope() string {
	return store.ScopeKey(m.client.BaseURL(), m.session.Username)
}

// restoreSnapshots seeds the session caches from the sqlite snapshots so
// the first render after login has data while any refetch runs. Snapshots
// older than the cache TTL stay on disk but are not applied.
func (m *appModel) restoreSnapshots() {
	ctx := context.Background()
	scope := m.scope()
	now := time.Now()

	docs, fetchedAt, ok, err := store.LoadSnapshot[model.Document](ctx, m.store, scope, store.CollectionDocuments)
	switch {
	case err != nil:
		m.log.Warn("snapshot load failed", "collection", store.CollectionDocuments, "err", err)
	case ok && now.Sub(fetchedAt) <= session.CacheTTL:
		m.session.SetDocuments(docs, fetchedAt)
	}

	users, fetchedAt, ok, err := store.LoadSnapshot[model.User](ctx, m.store, scope, store.CollectionUsers)
	switch {
	case err != nil:
		m.log.Warn("snapshot load failed", "collection", store.CollectionUsers, "err", err)
	case ok && now.Sub(fetchedAt) <= session.CacheTTL:
		m.session.SetUsers(users, fetchedAt)
	}
}

func (m appModel) onProbeDone(msg probeDoneMsg) (tea.Model, tea.Cmd) {
	if msg.seq != m.probeSeq {
		return m, nil
	}
	m.probing = false
	if !msg.ok {
		m.probeFail = true
		m.session.BackendReachable = false
		m.log.Warn("backend probe gave up", "api_url", m.client.BaseURL())
		return m, nil
	}
	m.session.BackendReachable = true
	m.probeFail = false
	m.view = viewLogin
	m.emailInput.Focus()
	return m, textinput.Blink
}

func (m appModel) onLoginDone(msg loginDoneMsg) (tea.Model, tea.Cmd) {
	if msg.seq != m.loginSeq {
		return m, nil
	}
	m.loggingIn = false
	if msg.err != nil {
		if msg.notAdmin {
			m.loginErr = "You are not authorized to access the admin panel."
		} else {
			m.loginErr = api.LoginMessage(msg.err)
		}
		m.passwordInput.SetValue("")
		m.log.Info("login rejected", "not_admin", msg.notAdmin)
		return m, nil
	}

	m.session.SetLogin(msg.grant.AccessToken, msg.grant.TokenType, msg.grant.UserID, msg.grant.Username)
	m.session.IsAdmin = true
	m.session.BackendReachable = true
	m.loginErr = ""
	m.passwordInput.SetValue("")
	m.view = m.landingView
	m.log.Info("admin logged in", "username", m.session.Username)

	m.restoreSnapshots()
	return m.refreshCollections(false)
}

func (m appModel) onDocuments(msg documentsMsg) (tea.Model, tea.Cmd) {
	if msg.seq != m.docsSeq {
		return m, nil
	}
	m.docsFetching = false
	if msg.err != nil {
		if api.IsAuth(msg.err) {
			return m.handleAuthFailure(), nil
		}
		m.log.Warn("documents fetch failed", "err", msg.err)
		cmd := m.flashError(fetchFailureLine(msg.err))
		return m, cmd
	}
	m.session.SetDocuments(msg.docs, msg.fetchedAt)
	filtered := browse.FilterDocuments(msg.docs, m.docsView.Search, m.docsView.UserFilter)
	m.docsView = m.docsView.ClampPage(len(filtered))
	m.clampDocSelection()
	return m, nil
}

func (m appModel) onUsers(msg usersMsg) (tea.Model, tea.Cmd) {
	if msg.seq != m.usersSeq {
		return m, nil
	}
	m.usersFetching = false
	if msg.err != nil {
		if api.IsAuth(msg.err) {
			return m.handleAuthFailure(), nil
		}
		m.log.Warn("users fetch failed", "err", msg.err)
		cmd := m.flashError(fetchFailureLine(msg.err))
		return m, cmd
	}
	m.session.SetUsers(msg.users, msg.fetchedAt)
	m.usersView = m.usersView.ClampPage(len(msg.users))
	m.clampUserSelection()
	return m, nil
}

func (m appModel) onDocDeleted(msg docDeletedMsg) (tea.Model, tea.Cmd) {
	if msg.seq != m.deleteSeq {
		return m, nil
	}
	m.deleting = false
	if msg.err != nil {
		if api.IsAuth(msg.err) {
			return m.handleAuthFailure(), nil
		}
		m.log.Warn("document delete failed", "id", msg.id, "err", msg.err)
		cmd := m.flashError("Delete failed: " + deleteFailureLine(msg.err))
		return m, cmd
	}

	m.session.InvalidateDocuments()
	if err := m.store.DeleteSnapshot(context.Background(), m.scope(), store.CollectionDocuments); err != nil {
		m.log.Warn("snapshot invalidate failed", "err", err)
	}
	m.log.Info("document deleted", "id", msg.id)
	flash := m.flash(fmt.Sprintf("Deleted document %s.", msg.id))
	refetch := m.startDocumentsFetch()
	return m, tea.Batch(refetch, flash)
}

func (m appModel) onUserDeleted(msg userDeletedMsg) (tea.Model, tea.Cmd) {
	if msg.seq != m.deleteSeq {
		return m, nil
	}
	m.deleting = false
	if msg.err != nil {
		if api.IsAuth(msg.err) {
			return m.handleAuthFailure(), nil
		}
		m.log.Warn("user delete failed", "id", msg.id, "err", msg.err)
		cmd := m.flashError("Delete failed: " + deleteFailureLine(msg.err))
		return m, cmd
	}

	// The server cascades the delete to the user's documents, so neither
	// cached collection can be trusted anymore.
	m.session.InvalidateAll()
	if err := m.store.ClearScope(context.Background(), m.scope()); err != nil {
		m.log.Warn("snapshot invalidate failed", "err", err)
	}
	m.log.Info("user deleted", "id", msg.id, "username", msg.username)
	flash := m.flash(fmt.Sprintf("Deleted user %s and all their documents.", msg.username))
	mm, refetch := m.refreshCollections(true)
	return mm, tea.Batch(refetch, flash)
}

// fetchFailureLine words a failed list call for the status line.
func fetchFailureLine(err error) string {
	if api.IsTransport(err) {
		return "Could not connect to the API. Please ensure the backend is running."
	}
	return "Refresh failed: " + err.Error()
}

func deleteFailureLine(err error) string {
	if api.IsTransport(err) {
		return "backend unreachable."
	}
	return err.Error()
}
