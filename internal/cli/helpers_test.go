package cli

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"smartdoc-admin/internal/model"
)

func runCLI(t *testing.T, args []string) (stdout []byte, stderr []byte, err error) {
	t.Helper()

	cmd := NewRootCmd()

	var outBuf bytes.Buffer
	var errBuf bytes.Buffer
	cmd.SetOut(&outBuf)
	cmd.SetErr(&errBuf)
	cmd.SetArgs(args)

	e := cmd.Execute()
	return outBuf.Bytes(), errBuf.Bytes(), e
}

// isolateEnv points the config dir at a throwaway directory, disables file
// logging and blanks the auth env knobs so ambient shell state cannot leak
// into a test. t.Setenv also forbids t.Parallel, which these tests need
// anyway because of the readPassword seam.
func isolateEnv(t *testing.T) {
	t.Helper()
	t.Setenv("SMARTDOC_ADMIN_CONFIG_DIR", t.TempDir())
	t.Setenv("SMARTDOC_ADMIN_LOG", "")
	t.Setenv("SMARTDOC_ADMIN_TOKEN", "")
	t.Setenv("SMARTDOC_ADMIN_EMAIL", "")
	t.Setenv("SMARTDOC_ADMIN_PASSWORD", "")
	t.Setenv("SMARTDOC_ADMIN_FORMAT", "")
	t.Setenv("BACKEND_API_URL", "")
}

const (
	testToken    = "test-token"
	testEmail    = "admin@example.com"
	testPassword = "pw"
)

// fakeBackend is a minimal stand-in for the SmartDoc API: token-gated admin
// routes, the form-encoded login endpoint and a 200 on the root path.
type fakeBackend struct {
	docs  []model.Document
	users []model.User

	mu      sync.Mutex
	deletes []string

	srv *httptest.Server
}

func newFakeBackend(t *testing.T) *fakeBackend {
	t.Helper()

	b := &fakeBackend{}

	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		w.WriteHeader(http.StatusOK)
	})
	mux.HandleFunc("/auth/token", func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "bad form", http.StatusBadRequest)
			return
		}
		if r.PostFormValue("username") != testEmail || r.PostFormValue("password") != testPassword {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"detail": "Incorrect email or password"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"access_token": testToken,
			"token_type":   "bearer",
			"user_id":      1,
			"username":     "admin",
		})
	})
	mux.HandleFunc("/admin/documents", func(w http.ResponseWriter, r *http.Request) {
		if !b.authorized(w, r) {
			return
		}
		writeJSON(w, http.StatusOK, b.docs)
	})
	mux.HandleFunc("/admin/documents/", func(w http.ResponseWriter, r *http.Request) {
		if !b.authorized(w, r) {
			return
		}
		if r.Method != http.MethodDelete {
			http.Error(w, "method", http.StatusMethodNotAllowed)
			return
		}
		b.record(r.URL.Path)
		writeJSON(w, http.StatusOK, map[string]string{"message": "deleted"})
	})
	mux.HandleFunc("/admin/users", func(w http.ResponseWriter, r *http.Request) {
		if !b.authorized(w, r) {
			return
		}
		writeJSON(w, http.StatusOK, b.users)
	})
	mux.HandleFunc("/admin/users/", func(w http.ResponseWriter, r *http.Request) {
		if !b.authorized(w, r) {
			return
		}
		if r.Method != http.MethodDelete {
			http.Error(w, "method", http.StatusMethodNotAllowed)
			return
		}
		b.record(r.URL.Path)
		writeJSON(w, http.StatusOK, map[string]string{"message": "deleted"})
	})

	b.srv = httptest.NewServer(mux)
	t.Cleanup(b.srv.Close)
	return b
}

func (b *fakeBackend) URL() string { return b.srv.URL }

func (b *fakeBackend) authorized(w http.ResponseWriter, r *http.Request) bool {
	if r.Header.Get("Authorization") != "Bearer "+testToken {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"detail": "Could not validate credentials"})
		return false
	}
	return true
}

func (b *fakeBackend) record(path string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.deletes = append(b.deletes, path)
}

func (b *fakeBackend) deleted() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]string(nil), b.deletes...)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// envelope decodes the {"data": ..., "meta": ...} JSON the list commands
// emit. Fails the test on malformed output.
func envelope(t *testing.T, out []byte) map[string]any {
	t.Helper()
	var env map[string]any
	if err := json.Unmarshal(out, &env); err != nil {
		t.Fatalf("unmarshal output: %v\nstdout:\n%s", err, string(out))
	}
	return env
}

func dataRows(t *testing.T, env map[string]any) []any {
	t.Helper()
	rows, ok := env["data"].([]any)
	if !ok {
		t.Fatalf("expected data array; got: %#v", env["data"])
	}
	return rows
}

func metaInt(t *testing.T, env map[string]any, key string) int {
	t.Helper()
	meta, ok := env["meta"].(map[string]any)
	if !ok {
		t.Fatalf("expected meta object; got: %#v", env["meta"])
	}
	f, ok := meta[key].(float64)
	if !ok {
		t.Fatalf("expected numeric meta %q; got: %#v", key, meta[key])
	}
	return int(f)
}

func rowField(t *testing.T, row any, key string) string {
	t.Helper()
	m, ok := row.(map[string]any)
	if !ok {
		t.Fatalf("expected row object; got: %#v", row)
	}
	s, ok := m[key].(string)
	if !ok {
		t.Fatalf("expected string field %q; got: %#v", key, m[key])
	}
	return s
}

func csvLines(out []byte) []string {
	return strings.Split(strings.TrimRight(string(out), "\n"), "\n")
}
