package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

func TestProberWait_SucceedsOnceBackendAnswers(t *testing.T) {
	t.Parallel()

	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if hits.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	p := &Prober{
		Client:   New(srv.URL, nil),
		Timeout:  2 * time.Second,
		Interval: 10 * time.Millisecond,
		PerPing:  200 * time.Millisecond,
	}
	if !p.Wait(context.Background()) {
		t.Fatalf("expected probe to succeed once the backend answered")
	}
	if got := hits.Load(); got < 3 {
		t.Fatalf("expected at least 3 attempts; got %d", got)
	}
}

func TestProberWait_GivesUpOnNeverReadyBackend(t *testing.T) {
	t.Parallel()

	// Connection refused on every attempt, like a backend that never wakes.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	p := &Prober{
		Client:   New(srv.URL, nil),
		Timeout:  250 * time.Millisecond,
		Interval: 40 * time.Millisecond,
		PerPing:  100 * time.Millisecond,
	}
	start := time.Now()
	if p.Wait(context.Background()) {
		t.Fatalf("expected probe to give up")
	}
	if elapsed := time.Since(start); elapsed < 200*time.Millisecond {
		t.Fatalf("probe gave up too early: %v", elapsed)
	}
}

func TestProberWait_SwallowsServerErrors(t *testing.T) {
	t.Parallel()

	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	p := &Prober{
		Client:   New(srv.URL, nil),
		Timeout:  200 * time.Millisecond,
		Interval: 30 * time.Millisecond,
		PerPing:  100 * time.Millisecond,
	}
	if p.Wait(context.Background()) {
		t.Fatalf("expected probe to report not ready")
	}
	if hits.Load() < 2 {
		t.Fatalf("expected repeated attempts; got %d", hits.Load())
	}
}

func TestProberWait_StopsOnCancel(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan bool, 1)
	p := &Prober{
		Client:   New(srv.URL, nil),
		Timeout:  10 * time.Second,
		Interval: 20 * time.Millisecond,
		PerPing:  100 * time.Millisecond,
	}
	go func() { done <- p.Wait(ctx) }()
	cancel()

	select {
	case ok := <-done:
		if ok {
			t.Fatalf("expected cancelled probe to report false")
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("probe did not stop after cancellation")
	}
}
