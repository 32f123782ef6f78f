package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"smartdoc-admin/internal/model"
)

// DefaultBaseURL is where the backend listens when BACKEND_API_URL is unset.
const DefaultBaseURL = "http://localhost:8000"

const defaultTimeout = 30 * time.Second

// Client talks to the SmartDoc backend HTTP API. All calls return either
// the decoded result or an *Error (ErrNoToken for unauthenticated calls).
type Client struct {
	baseURL string
	httpc   *http.Client
	log     *slog.Logger
}

// New builds a client for the backend at baseURL. A nil logger disables
// request logging.
func New(baseURL string, log *slog.Logger) *Client {
	if strings.TrimSpace(baseURL) == "" {
		baseURL = DefaultBaseURL
	}
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpc:   &http.Client{Timeout: defaultTimeout},
		log:     log,
	}
}

func (c *Client) BaseURL() string { return c.baseURL }

// SetTimeout bounds each request. Zero restores the default.
func (c *Client) SetTimeout(d time.Duration) {
	if d <= 0 {
		d = defaultTimeout
	}
	c.httpc.Timeout = d
}

// LoginResult is the token grant from POST /auth/token.
type LoginResult struct {
	AccessToken string   `json:"access_token"`
	TokenType   string   `json:"token_type"`
	UserID      model.ID `json:"user_id"`
	Username    string   `json:"username"`
}

// Login exchanges credentials for a bearer token. The email is lowercased
// before it goes on the wire; the backend treats it as the username. A 401
// comes back with its Reason classified for display.
func (c *Client) Login(ctx context.Context, email, password string) (LoginResult, error) {
	form := url.Values{}
	form.Set("username", strings.ToLower(email))
	form.Set("password", password)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/auth/token", strings.NewReader(form.Encode()))
	if err != nil {
		return LoginResult{}, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	var out LoginResult
	if err := c.do(req, "login", "", &out); err != nil {
		var ae *Error
		if errors.As(err, &ae) && ae.Kind == KindAuth {
			ae.Reason = classifyLoginDetail(ae.Detail)
		}
		return LoginResult{}, err
	}
	return out, nil
}

// CheckAdmin verifies the token belongs to an administrator. The backend
// has no dedicated endpoint; listing users doubles as the check (200 admin,
// 403 not an admin, 401 token no longer valid).
func (c *Client) CheckAdmin(ctx context.Context, token string) error {
	return c.get(ctx, "verify admin access", token, "/admin/users", nil)
}

func (c *Client) ListDocuments(ctx context.Context, token string) ([]model.Document, error) {
	var docs []model.Document
	if err := c.get(ctx, "list documents", token, "/admin/documents", &docs); err != nil {
		return nil, err
	}
	return docs, nil
}

func (c *Client) ListUsers(ctx context.Context, token string) ([]model.User, error) {
	var users []model.User
	if err := c.get(ctx, "list users", token, "/admin/users", &users); err != nil {
		return nil, err
	}
	return users, nil
}

func (c *Client) DeleteDocument(ctx context.Context, token string, id model.ID) error {
	return c.del(ctx, "delete document", token, "/admin/documents/"+url.PathEscape(string(id)))
}

func (c *Client) DeleteUser(ctx context.Context, token string, id model.ID) error {
	return c.del(ctx, "delete user", token, "/admin/users/"+url.PathEscape(string(id)))
}

// Health pings the backend base URL. The readiness prober drives it.
func (c *Client) Health(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/", nil)
	if err != nil {
		return err
	}
	return c.do(req, "health", "", nil)
}

func (c *Client) get(ctx context.Context, op, token, path string, out any) error {
	if token == "" {
		return ErrNoToken
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return err
	}
	return c.do(req, op, token, out)
}

func (c *Client) del(ctx context.Context, op, token, path string) error {
	if token == "" {
		return ErrNoToken
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, c.baseURL+path, nil)
	if err != nil {
		return err
	}
	return c.do(req, op, token, nil)
}

func (c *Client) do(req *http.Request, op, token string, out any) error {
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	reqID := uuid.NewString()
	req.Header.Set("X-Request-ID", reqID)

	start := time.Now()
	resp, err := c.httpc.Do(req)
	if err != nil {
		c.log.Warn("backend unreachable",
			"op", op, "method", req.Method, "path", req.URL.Path, "request_id", reqID, "err", err)
		return &Error{Kind: KindTransport, Op: op, Err: err}
	}
	defer resp.Body.Close()

	body, readErr := io.ReadAll(resp.Body)
	c.log.Info("backend call",
		"op", op, "method", req.Method, "path", req.URL.Path,
		"status", resp.StatusCode, "request_id", reqID,
		"duration_ms", time.Since(start).Milliseconds())

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		if readErr != nil {
			return &Error{Kind: KindDecode, Op: op, Status: resp.StatusCode, Err: readErr}
		}
		if out == nil {
			return nil
		}
		if err := json.Unmarshal(body, out); err != nil {
			return &Error{Kind: KindDecode, Op: op, Status: resp.StatusCode, Err: err}
		}
		return nil
	case resp.StatusCode == http.StatusUnauthorized:
		return &Error{Kind: KindAuth, Op: op, Status: resp.StatusCode, Detail: decodeDetail(body)}
	case resp.StatusCode == http.StatusForbidden:
		return &Error{Kind: KindForbidden, Op: op, Status: resp.StatusCode, Detail: decodeDetail(body)}
	default:
		return &Error{Kind: KindRequest, Op: op, Status: resp.StatusCode, Detail: decodeDetail(body)}
	}
}

// decodeDetail pulls the backend's {"detail": "..."} envelope out of an
// error body. Anything else reads as empty; callers word their own
// unknown-error fallback.
func decodeDetail(body []byte) string {
	var env struct {
		Detail string `json:"detail"`
	}
	if err := json.Unmarshal(body, &env); err != nil {
		return ""
	}
	return env.Detail
}
