// Package server mounts the gengantt REST API and MCP tools on one HTTP listener.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/hylla/gengantt/internal/adapters/server/common"
	"github.com/hylla/gengantt/internal/adapters/server/httpapi"
	"github.com/hylla/gengantt/internal/adapters/server/mcpapi"
)

const (
	defaultBindAddress  = "127.0.0.1:8080"
	defaultAPIEndpoint  = "/api/v1"
	defaultMCPEndpoint  = "/mcp"
	defaultReadyTimeout = 2 * time.Second
	shutdownGrace       = 5 * time.Second
)

// Config holds the listener address and mount points.
type Config struct {
	HTTPBind      string
	APIEndpoint   string
	MCPEndpoint   string
	ServerName    string
	ServerVersion string

	// ReadyTimeout bounds the task store check behind /readyz.
	ReadyTimeout time.Duration
}

// Logger receives listener lifecycle events. Optional.
type Logger interface {
	Info(msg string, keyvals ...any)
	Warn(msg string, keyvals ...any)
}

// Dependencies are the services the transports call into.
type Dependencies struct {
	Tasks  common.TaskService
	Logger Logger
}

// statusPayload is the body of /healthz and /readyz.
type statusPayload struct {
	Status     string `json:"status"`
	Service    string `json:"service,omitempty"`
	Version    string `json:"version,omitempty"`
	Categories int    `json:"categories,omitempty"`
	Assignees  int    `json:"assignees,omitempty"`
	Error      string `json:"error,omitempty"`
}

// NewHandler builds the root mux. The returned Config has defaults applied.
func NewHandler(cfg Config, deps Dependencies) (http.Handler, Config, error) {
	cfg, err := cfg.withDefaults()
	if err != nil {
		return nil, Config{}, err
	}
	if deps.Tasks == nil {
		return nil, Config{}, errors.New("tasks dependency is required")
	}

	tools, err := mcpapi.NewHandler(mcpapi.Config{
		ServerName:    cfg.ServerName,
		ServerVersion: cfg.ServerVersion,
		EndpointPath:  cfg.MCPEndpoint,
	}, deps.Tasks)
	if err != nil {
		return nil, Config{}, fmt.Errorf("configure mcp handler: %w", err)
	}
	api := http.StripPrefix(cfg.APIEndpoint, httpapi.NewHandler(deps.Tasks))

	mux := http.NewServeMux()
	mux.Handle("/healthz", healthHandler(cfg))
	mux.Handle("/readyz", readyHandler(deps.Tasks, cfg.ReadyTimeout))
	mux.Handle(cfg.MCPEndpoint, tools)
	mux.Handle(cfg.APIEndpoint, api)
	mux.Handle(cfg.APIEndpoint+"/", api)
	return mux, cfg, nil
}

// Run listens on cfg.HTTPBind and serves until ctx is canceled.
// A bind failure is returned before anything is served.
func Run(ctx context.Context, cfg Config, deps Dependencies) error {
	if ctx == nil {
		ctx = context.Background()
	}
	handler, cfg, err := NewHandler(cfg, deps)
	if err != nil {
		return fmt.Errorf("build server handler: %w", err)
	}

	ln, err := net.Listen("tcp", cfg.HTTPBind)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", cfg.HTTPBind, err)
	}
	srv := &http.Server{
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}
	logInfo(deps.Logger, "http server listening", "addr", ln.Addr().String(), "api", cfg.APIEndpoint, "mcp", cfg.MCPEndpoint)

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Serve(ln) }()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve http: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		if deps.Logger != nil {
			deps.Logger.Warn("http server shutdown incomplete", "err", err)
		}
		return fmt.Errorf("shutdown http server: %w", err)
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("serve http: %w", err)
	}
	logInfo(deps.Logger, "http server stopped")
	return nil
}

func (cfg Config) withDefaults() (Config, error) {
	cfg.HTTPBind = strings.TrimSpace(cfg.HTTPBind)
	if cfg.HTTPBind == "" {
		cfg.HTTPBind = defaultBindAddress
	}
	cfg.APIEndpoint = normalizeEndpoint(cfg.APIEndpoint, defaultAPIEndpoint)
	cfg.MCPEndpoint = normalizeEndpoint(cfg.MCPEndpoint, defaultMCPEndpoint)
	if cfg.APIEndpoint == cfg.MCPEndpoint {
		return Config{}, fmt.Errorf("api and mcp endpoints must differ, both are %q", cfg.APIEndpoint)
	}
	if name := strings.TrimSpace(cfg.ServerName); name != "" {
		cfg.ServerName = name
	} else {
		cfg.ServerName = "gengantt"
	}
	if v := strings.TrimSpace(cfg.ServerVersion); v != "" {
		cfg.ServerVersion = v
	} else {
		cfg.ServerVersion = "dev"
	}
	if cfg.ReadyTimeout <= 0 {
		cfg.ReadyTimeout = defaultReadyTimeout
	}
	return cfg, nil
}

// normalizeEndpoint returns path as "/a/b", or fallback when path is empty or "/".
func normalizeEndpoint(path, fallback string) string {
	trimmed := strings.Trim(strings.TrimSpace(path), "/")
	if trimmed == "" {
		return fallback
	}
	return "/" + trimmed
}

func healthHandler(cfg Config) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeStatus(w, http.StatusOK, statusPayload{
			Status:  "ok",
			Service: cfg.ServerName,
			Version: cfg.ServerVersion,
		})
	})
}

// readyHandler reports 503 until the task store answers a filter-options query.
func readyHandler(tasks common.TaskService, timeout time.Duration) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), timeout)
		defer cancel()
		opts, err := tasks.FilterOptions(ctx)
		if err != nil {
			writeStatus(w, http.StatusServiceUnavailable, statusPayload{Status: "unavailable", Error: err.Error()})
			return
		}
		// Both lists lead with "All".
		writeStatus(w, http.StatusOK, statusPayload{
			Status:     "ready",
			Categories: max(len(opts.Categories)-1, 0),
			Assignees:  max(len(opts.Assignees)-1, 0),
		})
	})
}

func writeStatus(w http.ResponseWriter, code int, body statusPayload) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(body)
}

func logInfo(l Logger, msg string, keyvals ...any) {
	if l != nil {
		l.Info(msg, keyvals...)
	}
}
