package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/hylla/gengantt/internal/adapters/server/common"
	"github.com/hylla/gengantt/internal/adapters/storage/memory"
	"github.com/hylla/gengantt/internal/app"
)

func newDeps(t *testing.T) Dependencies {
	t.Helper()
	n := 0
	ids := func() string {
		n++
		return fmt.Sprintf("s%d", n)
	}
	clock := func() time.Time { return time.Date(2026, 2, 21, 12, 0, 0, 0, time.UTC) }
	svc := app.NewService(memory.New(), ids, clock, app.ServiceConfig{SeedSample: true})
	if _, err := svc.EnsureSampleTasks(context.Background()); err != nil {
		t.Fatalf("EnsureSampleTasks() error = %v", err)
	}
	return Dependencies{Tasks: common.NewAppServiceAdapter(svc, nil)}
}

func TestNewHandlerRoutes(t *testing.T) {
	handler, cfg, err := NewHandler(Config{}, newDeps(t))
	if err != nil {
		t.Fatalf("NewHandler() error = %v", err)
	}
	if cfg.HTTPBind != defaultBindAddress || cfg.APIEndpoint != "/api/v1" || cfg.MCPEndpoint != "/mcp" {
		t.Fatalf("unexpected normalized config %#v", cfg)
	}

	cases := []struct {
		target string
		status int
		body   string
	}{
		{"/healthz", http.StatusOK, `"service":"gengantt"`},
		{"/readyz", http.StatusOK, `{"status":"ready","categories":2,"assignees":2}`},
		{"/api/v1/tasks", http.StatusOK, `"title":"Project Setup"`},
		{"/api/v1/tasks/s2", http.StatusOK, `"title":"UI Design"`},
		{"/api/v1/filters", http.StatusOK, `"categories":["All","Design","Planning"]`},
		{"/api/v1/chart", http.StatusOK, `"today_x":175`},
		{"/api/v1/unknown", http.StatusNotFound, `"not_found"`},
	}
	for _, tc := range cases {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tc.target, nil))
		if rec.Code != tc.status {
			t.Fatalf("GET %s: status = %d, want %d", tc.target, rec.Code, tc.status)
		}
		if !strings.Contains(rec.Body.String(), tc.body) {
			t.Fatalf("GET %s: body %q missing %q", tc.target, rec.Body.String(), tc.body)
		}
	}
}

func TestNewHandlerMutationsThroughAPI(t *testing.T) {
	handler, _, err := NewHandler(Config{APIEndpoint: "api"}, newDeps(t))
	if err != nil {
		t.Fatalf("NewHandler() error = %v", err)
	}

	rec := httptest.NewRecorder()
	body := strings.NewReader(`{"title":"Launch","start_date":"2026-03-01","end_date":"2026-03-02","progress":0}`)
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/tasks", body))
	if rec.Code != http.StatusCreated {
		t.Fatalf("create status = %d, body %s", rec.Code, rec.Body.String())
	}

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/tasks/s3/toggle", nil))
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"progress":100`) {
		t.Fatalf("toggle status = %d, body %s", rec.Code, rec.Body.String())
	}

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/api/tasks/s3", nil))
	if rec.Code != http.StatusNoContent {
		t.Fatalf("delete status = %d", rec.Code)
	}
}

// unreadyTasks fails every filter-options lookup.
type unreadyTasks struct {
	common.TaskService
	err error
}

func (u unreadyTasks) FilterOptions(context.Context) (common.FilterOptions, error) {
	return common.FilterOptions{}, u.err
}

func TestReadyzReportsStoreFailure(t *testing.T) {
	handler, _, err := NewHandler(Config{}, Dependencies{Tasks: unreadyTasks{err: errors.New("database is locked")}})
	if err != nil {
		t.Fatalf("NewHandler() error = %v", err)
	}

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("readyz status = %d, want 503", rec.Code)
	}
	if body := rec.Body.String(); !strings.Contains(body, `"status":"unavailable"`) || !strings.Contains(body, "database is locked") {
		t.Fatalf("unexpected readyz body %q", body)
	}

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("healthz status = %d, want liveness independent of the store", rec.Code)
	}
}

func TestRunReportsBindFailure(t *testing.T) {
	deps := newDeps(t)
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	defer ln.Close()
	if err := Run(context.Background(), Config{HTTPBind: ln.Addr().String()}, deps); err == nil {
		t.Fatal("expected an error binding an address already in use")
	}
}

func TestNewHandlerRejectsBadConfig(t *testing.T) {
	if _, _, err := NewHandler(Config{}, Dependencies{}); err == nil {
		t.Fatal("expected error without task dependency")
	}
	if _, _, err := NewHandler(Config{APIEndpoint: "/x", MCPEndpoint: "x/"}, newDeps(t)); err == nil {
		t.Fatal("expected endpoint collision error")
	}
}

func TestNormalizeEndpoint(t *testing.T) {
	cases := map[string]string{
		"":          "/api/v1",
		"/":         "/api/v1",
		"v2":        "/v2",
		" /a/b/ ":   "/a/b",
		"//nested/": "/nested",
	}
	for in, want := range cases {
		if got := normalizeEndpoint(in, "/api/v1"); got != want {
			t.Fatalf("normalizeEndpoint(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestRunStopsOnCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := Run(ctx, Config{HTTPBind: "127.0.0.1:0"}, newDeps(t)); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
}
