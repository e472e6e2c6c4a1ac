package server

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go.uber.org/goleak"

	"uniformdash/internal/api"
	"uniformdash/internal/config"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func newTestServer() *Server {
	cfg := config.DefaultConfig()
	return NewServer(cfg, api.NewHandler(api.Deps{}), nil)
}

func TestCORSPreflight(t *testing.T) {
	srv := newTestServer()

	req := httptest.NewRequest(http.MethodOptions, "/api/live/active-employees", nil)
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)

	if w.Code != http.StatusNoContent {
		t.Fatalf("preflight want=%d got=%d", http.StatusNoContent, w.Code)
	}
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Fatalf("allow origin want=* got=%q", got)
	}
	if got := w.Header().Get("Access-Control-Expose-Headers"); got != api.SessionHeader {
		t.Fatalf("expose headers want=%q got=%q", api.SessionHeader, got)
	}
}

func TestIndex(t *testing.T) {
	srv := newTestServer()

	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("index want 200 got %d", w.Code)
	}
}

func TestRun_StopsOnCancel(t *testing.T) {
	srv := newTestServer()
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- srv.Run(ctx, "127.0.0.1:0") }()
	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("run: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatalf("server did not stop")
	}
}
