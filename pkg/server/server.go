package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"golang.org/x/sync/errgroup"

	"github.com/goliatone/go-builderkit/internal/logging"
	"github.com/goliatone/go-builderkit/pkg/builders"
	"github.com/goliatone/go-builderkit/pkg/preview"
	"github.com/goliatone/go-builderkit/pkg/presets"
	"github.com/goliatone/go-builderkit/pkg/render"
	"github.com/goliatone/go-builderkit/pkg/shell"
	"github.com/goliatone/go-builderkit/pkg/themes"
)

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the server logger.
func WithLogger(logger *logging.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithPresets exposes a preset store to sessions.
func WithPresets(store *presets.Store) Option {
	return func(s *Server) {
		if store != nil {
			s.presets = store
		}
	}
}

// WithThemes exposes a theme catalog to sessions.
func WithThemes(catalog *themes.Catalog) Option {
	return func(s *Server) {
		if catalog != nil {
			s.themes = catalog
		}
	}
}

// WithSandbox sets the preview sandbox used for preview documents.
func WithSandbox(sandbox *preview.Sandbox) Option {
	return func(s *Server) {
		if sandbox != nil {
			s.sandbox = sandbox
		}
	}
}

// WithPresetWatch watches dir for preset changes while serving. Sessions
// created from a preset are re-applied when its file changes.
func WithPresetWatch(dir string, debounce time.Duration) Option {
	return func(s *Server) {
		s.watchDir = dir
		if debounce > 0 {
			s.debounce = debounce
		}
	}
}

// WithShutdownTimeout bounds graceful shutdown.
func WithShutdownTimeout(d time.Duration) Option {
	return func(s *Server) {
		if d > 0 {
			s.shutdownTimeout = d
		}
	}
}

type session struct {
	id          string
	shell       *shell.Shell
	hub         *hub
	preset      string
	unsubscribe func()
}

// Server hosts builder sessions.
type Server struct {
	catalog  *builders.Catalog
	registry *render.Registry
	presets  *presets.Store
	themes   *themes.Catalog
	sandbox  *preview.Sandbox
	logger   *logging.Logger
	upgrader websocket.Upgrader

	watchDir        string
	debounce        time.Duration
	shutdownTimeout time.Duration

	mu       sync.RWMutex
	sessions map[string]*session
}

// New builds a server over a kind catalog and a renderer registry holding
// one renderer per kind.
func New(catalog *builders.Catalog, registry *render.Registry, options ...Option) (*Server, error) {
	if catalog == nil {
		return nil, errors.New("server: catalog is required")
	}
	if registry == nil {
		return nil, errors.New("server: registry is required")
	}
	if missing := registry.Missing(catalog.Names()...); len(missing) > 0 {
		return nil, fmt.Errorf("server: no renderer for %v: %w", missing, render.ErrRendererNotFound)
	}
	s := &Server{
		catalog:         catalog,
		registry:        registry,
		presets:         presets.NewStore(),
		themes:          themes.Default(),
		sandbox:         preview.New(),
		logger:          logging.Nop(),
		upgrader:        newUpgrader(),
		debounce:        200 * time.Millisecond,
		shutdownTimeout: 5 * time.Second,
		sessions:        make(map[string]*session),
	}
	for _, opt := range options {
		if opt != nil {
			opt(s)
		}
	}
	return s, nil
}

// CreateSession starts a shell for kind, optionally seeded from a preset.
func (s *Server) CreateSession(kind, preset string) (string, error) {
	k, err := s.catalog.Lookup(kind)
	if err != nil {
		return "", err
	}
	renderer, err := s.registry.Get(kind)
	if err != nil {
		return "", err
	}

	id := uuid.NewString()
	h := newHub(s.logger.With("session", id))
	sh, err := shell.New(k, renderer,
		shell.WithSandbox(s.sandbox),
		shell.WithLogger(s.logger.With("session", id)),
		shell.WithNotifier(shell.NotifierFunc(func(n shell.Notice) {
			h.broadcast(noticeMessage(n))
		})),
	)
	if err != nil {
		return "", err
	}
	if preset != "" {
		p, err := s.presets.Lookup(kind, preset)
		if err != nil {
			return "", err
		}
		if err := sh.ApplyPreset(p); err != nil {
			return "", err
		}
	}

	sess := &session{id: id, shell: sh, hub: h, preset: preset}
	sess.unsubscribe = sh.Subscribe(func(snap shell.Snapshot) {
		h.broadcast(renderMessage(snap))
	})

	s.mu.Lock()
	s.sessions[id] = sess
	s.mu.Unlock()
	s.logger.With("session", id).With("kind", kind).Info("session created")
	return id, nil
}

// Shell returns the shell of a session.
func (s *Server) Shell(id string) (*shell.Shell, error) {
	sess, err := s.session(id)
	if err != nil {
		return nil, err
	}
	return sess.shell, nil
}

func (s *Server) session(id string) (*session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess, ok := s.sessions[id]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrSessionNotFound, id)
	}
	return sess, nil
}

// RemoveSession discards a session and disconnects its live clients.
func (s *Server) RemoveSession(id string) error {
	s.mu.Lock()
	sess, ok := s.sessions[id]
	delete(s.sessions, id)
	s.mu.Unlock()
	if !ok {
		return fmt.Errorf("%w: %q", ErrSessionNotFound, id)
	}
	sess.unsubscribe()
	sess.hub.close()
	return nil
}

// SessionIDs lists live sessions, sorted.
func (s *Server) SessionIDs() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := make([]string, 0, len(s.sessions))
	for id := range s.sessions {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Close removes every session.
func (s *Server) Close() {
	for _, id := range s.SessionIDs() {
		_ = s.RemoveSession(id)
	}
}

// Serve handles requests on ln until ctx is cancelled, then shuts down
// gracefully. The preset watcher, when configured, runs alongside.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s.logger.With("addr", ln.Addr().String()).Info("serving")
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server: serve: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
		defer cancel()
		s.Close()
		return srv.Shutdown(shutdownCtx)
	})
	if s.watchDir != "" {
		g.Go(func() error {
			return s.watchPresets(gctx, s.watchDir)
		})
	}
	return g.Wait()
}

// ListenAndServe listens on addr and calls Serve.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	var lc net.ListenConfig
	ln, err := lc.Listen(ctx, "tcp", addr)
	if err != nil {
		return fmt.Errorf("server: listen %s: %w", addr, err)
	}
	return s.Serve(ctx, ln)
}

func sameHost(origin, host string) bool {
	u, err := url.Parse(origin)
	if err != nil {
		return false
	}
	return u.Host == host
}
