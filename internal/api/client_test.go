package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestLogin_SendsFormAndDecodesGrant(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/auth/token" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/x-www-form-urlencoded" {
			t.Errorf("content type = %q", ct)
		}
		if r.Header.Get("X-Request-ID") == "" {
			t.Errorf("missing X-Request-ID")
		}
		if err := r.ParseForm(); err != nil {
			t.Errorf("parse form: %v", err)
		}
		if got := r.PostForm.Get("username"); got != "admin@example.com" {
			t.Errorf("username = %q, want lowercased email", got)
		}
		if got := r.PostForm.Get("password"); got != "hunter2" {
			t.Errorf("password = %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"access_token":"tok123","token_type":"bearer","user_id":7,"username":"admin"}`))
	}))
	defer srv.Close()

	c := New(srv.URL, nil)
	got, err := c.Login(context.Background(), "Admin@Example.com", "hunter2")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if got.AccessToken != "tok123" || got.TokenType != "bearer" || got.UserID != "7" || got.Username != "admin" {
		t.Fatalf("unexpected grant: %+v", got)
	}
}

func TestLogin_Classifies401(t *testing.T) {
	t.Parallel()

	tests := []struct {
		detail  string
		reason  Reason
		message string
	}{
		{
			detail:  "Gemini API key is missing for this account",
			reason:  ReasonMissingGeminiKey,
			message: "Gemini API key is missing. Please update your profile with a valid key.",
		},
		{
			detail:  "Your Gemini API key is invalid.",
			reason:  ReasonInvalidGeminiKey,
			message: "Your Gemini API key is invalid. Please update your key or contact support.",
		},
		{
			detail:  "Incorrect email or password",
			reason:  ReasonBadCredentials,
			message: "Incorrect email or password.",
		},
		{
			detail:  "Account locked",
			reason:  ReasonOther,
			message: "Login failed: Account locked",
		},
	}

	for _, tt := range tests {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(map[string]string{"detail": tt.detail})
		}))

		c := New(srv.URL, nil)
		_, err := c.Login(context.Background(), "a@b.c", "pw")
		srv.Close()

		if !IsAuth(err) {
			t.Fatalf("detail %q: expected auth error; got %v", tt.detail, err)
		}
		var ae *Error
		if !errors.As(err, &ae) {
			t.Fatalf("detail %q: expected *Error; got %T", tt.detail, err)
		}
		if ae.Reason != tt.reason {
			t.Fatalf("detail %q: reason=%d, want %d", tt.detail, ae.Reason, tt.reason)
		}
		if got := LoginMessage(err); got != tt.message {
			t.Fatalf("detail %q: message %q, want %q", tt.detail, got, tt.message)
		}
	}
}

func TestLogin_TransportError(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // connection refused from here on

	c := New(srv.URL, nil)
	_, err := c.Login(context.Background(), "a@b.c", "pw")
	if !IsTransport(err) {
		t.Fatalf("expected transport error; got %v", err)
	}
	want := "Could not connect to the API. Please ensure the backend is running."
	if got := LoginMessage(err); got != want {
		t.Fatalf("message %q, want %q", got, want)
	}
}

func TestAuthenticatedCalls_RequireToken(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Errorf("no request should leave the process without a token: %s %s", r.Method, r.URL.Path)
	}))
	defer srv.Close()

	c := New(srv.URL, nil)
	ctx := context.Background()

	if _, err := c.ListDocuments(ctx, ""); !errors.Is(err, ErrNoToken) {
		t.Fatalf("ListDocuments: expected ErrNoToken; got %v", err)
	}
	if _, err := c.ListUsers(ctx, ""); !errors.Is(err, ErrNoToken) {
		t.Fatalf("ListUsers: expected ErrNoToken; got %v", err)
	}
	if err := c.CheckAdmin(ctx, ""); !errors.Is(err, ErrNoToken) {
		t.Fatalf("CheckAdmin: expected ErrNoToken; got %v", err)
	}
	if err := c.DeleteDocument(ctx, "", "1"); !errors.Is(err, ErrNoToken) {
		t.Fatalf("DeleteDocument: expected ErrNoToken; got %v", err)
	}
	if err := c.DeleteUser(ctx, "", "1"); !errors.Is(err, ErrNoToken) {
		t.Fatalf("DeleteUser: expected ErrNoToken; got %v", err)
	}
}

func TestListDocuments_DecodesMixedEncodings(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/admin/documents" {
			t.Errorf("path = %q", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer tok123" {
			t.Errorf("authorization = %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[
			{"id": 1, "filename": "a.pdf", "upload_time": "2024-05-01T09:00:00", "user_id": "3", "is_vectorized": 1},
			{"id": "2", "filename": "b.txt", "upload_time": "2024-05-02T10:00:00", "user_id": 4, "is_vectorized": false, "summary": "None"}
		]`))
	}))
	defer srv.Close()

	c := New(srv.URL, nil)
	docs, err := c.ListDocuments(context.Background(), "tok123")
	if err != nil {
		t.Fatalf("ListDocuments: %v", err)
	}
	if len(docs) != 2 {
		t.Fatalf("expected 2 documents; got %d", len(docs))
	}
	if docs[0].ID != "1" || docs[0].UserID != "3" || !docs[0].IsVectorized.Bool() {
		t.Fatalf("unexpected first document: %+v", docs[0])
	}
	if docs[1].ID != "2" || docs[1].UserID != "4" || docs[1].Summarized() {
		t.Fatalf("unexpected second document: %+v", docs[1])
	}
}

func TestCheckAdmin_MapsStatuses(t *testing.T) {
	t.Parallel()

	tests := []struct {
		status int
		detail string
		check  func(error) bool
	}{
		{http.StatusOK, "", func(err error) bool { return err == nil }},
		{http.StatusForbidden, "Admin privileges required", func(err error) bool {
			var ae *Error
			return errors.As(err, &ae) && ae.Kind == KindForbidden && ae.Detail == "Admin privileges required"
		}},
		{http.StatusUnauthorized, "Could not validate credentials", IsAuth},
	}

	for _, tt := range tests {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(tt.status)
			if tt.status == http.StatusOK {
				w.Write([]byte(`[]`))
				return
			}
			json.NewEncoder(w).Encode(map[string]string{"detail": tt.detail})
		}))

		err := New(srv.URL, nil).CheckAdmin(context.Background(), "tok")
		srv.Close()
		if !tt.check(err) {
			t.Fatalf("status %d: unexpected outcome %v", tt.status, err)
		}
	}
}

func TestDeleteDocument_HitsRouteAndCarriesDetail(t *testing.T) {
	t.Parallel()

	var gotMethod, gotPath string
	fail := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod, gotPath = r.Method, r.URL.Path
		w.Header().Set("Content-Type", "application/json")
		if fail {
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte(`{"detail":"database is locked"}`))
			return
		}
		w.Write([]byte(`{"message":"Document deleted"}`))
	}))
	defer srv.Close()

	c := New(srv.URL, nil)
	if err := c.DeleteDocument(context.Background(), "tok", "12"); err != nil {
		t.Fatalf("DeleteDocument: %v", err)
	}
	if gotMethod != http.MethodDelete || gotPath != "/admin/documents/12" {
		t.Fatalf("expected DELETE /admin/documents/12; got %s %s", gotMethod, gotPath)
	}

	fail = true
	err := c.DeleteDocument(context.Background(), "tok", "12")
	var ae *Error
	if !errors.As(err, &ae) || ae.Kind != KindRequest || ae.Detail != "database is locked" {
		t.Fatalf("expected request error with detail; got %v", err)
	}
}
