package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/teemow/spotauth/internal/spotify"
)

const (
	// DefaultReadHeaderTimeout is the read header timeout for the callback server.
	DefaultReadHeaderTimeout = 10 * time.Second

	// DefaultWriteTimeout is the write timeout for the callback server.
	DefaultWriteTimeout = 10 * time.Second

	// DefaultIdleTimeout is the idle timeout for the callback server.
	DefaultIdleTimeout = 60 * time.Second
)

// CallbackConfig holds configuration for the callback server.
type CallbackConfig struct {
	// RedirectURI is the registered OAuth redirect URI. The server binds to
	// its host:port and serves its path. Only http URIs on a local address
	// make sense here.
	RedirectURI string

	// ServeMetrics mounts the Prometheus /metrics handler next to the
	// callback path.
	ServeMetrics bool

	// Logger for structured logging (optional, uses slog.Default if nil).
	Logger *slog.Logger
}

// CallbackServer captures the authorization code delivered to the OAuth
// redirect URI. It delivers at most one code; later redirects get a 410.
type CallbackServer struct {
	httpServer *http.Server
	addr       string
	path       string
	logger     *slog.Logger
	codes      chan string
}

// NewCallbackServer creates a callback server for the given redirect URI.
func NewCallbackServer(config CallbackConfig) (*CallbackServer, error) {
	u, err := url.Parse(config.RedirectURI)
	if err != nil {
		return nil, fmt.Errorf("invalid redirect URI: %w", err)
	}
	if u.Scheme != "http" {
		return nil, fmt.Errorf("cannot listen on redirect URI %q: only http redirect URIs can be captured locally", config.RedirectURI)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("redirect URI %q has no host", config.RedirectURI)
	}

	path := u.Path
	if path == "" {
		path = "/"
	}

	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}

	s := &CallbackServer{
		addr:   u.Host,
		path:   path,
		logger: logger,
		codes:  make(chan string, 1),
	}

	mux := http.NewServeMux()
	mux.HandleFunc(path, s.handleCallback)
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	if config.ServeMetrics {
		mux.Handle("/metrics", promhttp.Handler())
	}

	s.httpServer = &http.Server{
		Addr:              s.addr,
		Handler:           mux,
		ReadHeaderTimeout: DefaultReadHeaderTimeout,
		WriteTimeout:      DefaultWriteTimeout,
		IdleTimeout:       DefaultIdleTimeout,
	}

	return s, nil
}

// Start starts the callback server in a blocking manner. Call this in a
// goroutine and use WaitForCode to receive the captured code.
func (s *CallbackServer) Start() error {
	s.logger.Info("waiting for authorization redirect", "addr", s.addr, "path", s.path)
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// WaitForCode blocks until the browser delivers an authorization code or the
// context is done.
func (s *CallbackServer) WaitForCode(ctx context.Context) (string, error) {
	select {
	case code := <-s.codes:
		return code, nil
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

// Shutdown gracefully shuts down the callback server.
func (s *CallbackServer) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// Addr returns the address the server binds to.
func (s *CallbackServer) Addr() string {
	return s.addr
}

func (s *CallbackServer) handleCallback(w http.ResponseWriter, r *http.Request) {
	// RequestURI keeps the raw query, so the same code extraction contract
	// applies whether the redirect is captured here or pasted manually.
	code, ok := spotify.CodeFromRedirect(r.RequestURI)
	if !ok {
		s.logger.Warn("redirect without authorization code", "uri", r.URL.Path)
		http.Error(w, "authorization code missing from redirect", http.StatusBadRequest)
		return
	}

	select {
	case s.codes <- code:
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("Authorization complete. You can close this window.\n"))
	default:
		http.Error(w, "authorization code already received", http.StatusGone)
	}
}
