// Package session holds the authenticated state for one run of the
// console: token, identity, and the TTL'd collection caches every renderer
// reads through. It is constructed by the entry point and passed
// explicitly; there is no package-level instance.
package session

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	"smartdoc-admin/internal/browse"
	"smartdoc-admin/internal/model"
)

// CacheTTL is how long a fetched collection stays fresh.
const CacheTTL = 5 * time.Minute

type cache[T any] struct {
	records   []T
	fetchedAt time.Time
	valid     bool
}

func (c cache[T]) stale(now time.Time) bool {
	return !c.valid || now.Sub(c.fetchedAt) > CacheTTL
}

type Session struct {
	AccessToken      string
	TokenType        string
	IsAdmin          bool
	UserID           model.ID
	Username         string
	BackendReachable bool

	expiresAt time.Time // zero when the token is opaque

	docs  cache[model.Document]
	users cache[model.User]

	// Derived memos. Dropped whenever the collection feeding them changes.
	uploaderIDs      []string
	uploaderIDsValid bool
	sortedUsers      []model.User
	sortedUsersOrder browse.Order
	sortedUsersValid bool
}

func New() *Session { return &Session{} }

// SetLogin installs a token grant and introspects its expiry.
func (s *Session) SetLogin(token, tokenType string, userID model.ID, username string) {
	s.AccessToken = token
	s.TokenType = tokenType
	s.UserID = userID
	s.Username = username
	s.expiresAt = tokenExpiry(token)
}

func (s *Session) LoggedIn() bool { return s.AccessToken != "" }

// Reset restores the all-empty defaults: logout. BackendReachable drops
// too, so the next login attempt probes again.
func (s *Session) Reset() {
	*s = Session{}
}

// TokenExpiry is the decoded exp claim, zero for opaque tokens.
func (s *Session) TokenExpiry() time.Time { return s.expiresAt }

// TokenExpired reports whether a known expiry has passed. Opaque tokens
// never read as expired; the backend is the judge for those.
func (s *Session) TokenExpired(now time.Time) bool {
	return !s.expiresAt.IsZero() && now.After(s.expiresAt)
}

// Expired reports whether a raw token carries an exp claim that has
// already passed. Scriptable commands use it to refuse a doomed --token
// before spending a round trip; opaque tokens never read as expired.
func Expired(token string, now time.Time) bool {
	exp := tokenExpiry(token)
	return !exp.IsZero() && now.After(exp)
}

// tokenExpiry reads the exp claim without verifying the signature. The
// console only displays the hint and skips doomed calls; the backend still
// enforces validity. Tokens that are not JWTs stay opaque.
func tokenExpiry(token string) time.Time {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return time.Time{}
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}
	}
	return exp.Time
}

// Documents returns the cached collection and whether it is still fresh.
// Stale records still come back: a renderer may keep showing them while
// the refetch is in flight.
func (s *Session) Documents(now time.Time) ([]model.Document, bool) {
	return s.docs.records, !s.docs.stale(now)
}

func (s *Session) Users(now time.Time) ([]model.User, bool) {
	return s.users.records, !s.users.stale(now)
}

// SetDocuments replaces the cached collection. fetchedAt is explicit so a
// snapshot restored from disk keeps its original age.
func (s *Session) SetDocuments(docs []model.Document, fetchedAt time.Time) {
	s.docs = cache[model.Document]{records: docs, fetchedAt: fetchedAt, valid: true}
	s.uploaderIDs = nil
	s.uploaderIDsValid = false
}

func (s *Session) SetUsers(users []model.User, fetchedAt time.Time) {
	s.users = cache[model.User]{records: users, fetchedAt: fetchedAt, valid: true}
	s.sortedUsers = nil
	s.sortedUsersValid = false
}

// InvalidateDocuments drops the documents cache and the uploader memo:
// the follow-up to a document delete.
func (s *Session) InvalidateDocuments() {
	s.docs = cache[model.Document]{}
	s.uploaderIDs = nil
	s.uploaderIDsValid = false
}

// InvalidateUsers drops the users cache and the sorted-users memo.
func (s *Session) InvalidateUsers() {
	s.users = cache[model.User]{}
	s.sortedUsers = nil
	s.sortedUsersValid = false
}

// InvalidateAll drops both collections: a user delete cascades to that
// user's documents on the server, so neither cache can be trusted.
func (s *Session) InvalidateAll() {
	s.InvalidateDocuments()
	s.InvalidateUsers()
}

// UploaderIDs memoizes the distinct uploader ids over the cached
// documents. Feeds the user-filter choices.
func (s *Session) UploaderIDs() []string {
	if !s.uploaderIDsValid {
		s.uploaderIDs = browse.UniqueUploaderIDs(s.docs.records)
		s.uploaderIDsValid = true
	}
	return s.uploaderIDs
}

// SortedUsers memoizes browse.SortUsers keyed by order; flipping the order
// or replacing the collection recomputes.
func (s *Session) SortedUsers(order browse.Order) []model.User {
	if !s.sortedUsersValid || s.sortedUsersOrder != order {
		s.sortedUsers = browse.SortUsers(s.users.records, order)
		s.sortedUsersOrder = order
		s.sortedUsersValid = true
	}
	return s.sortedUsers
}

// UserByID looks a user up in the cached collection.
func (s *Session) UserByID(id model.ID) (model.User, bool) {
	for _, u := range s.users.records {
		if u.ID == id {
			return u, true
		}
	}
	return model.User{}, false
}
