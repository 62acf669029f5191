// Package httpapi serves the daemon's HTTP surface: the message endpoint,
// the navigation hook, page and event streams, the blocked page and
// metrics.
package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/xvierd/focusguard/internal/adapters/broadcast"
	"github.com/xvierd/focusguard/internal/adapters/pages"
	"github.com/xvierd/focusguard/internal/domain"
	"github.com/xvierd/focusguard/internal/logfields"
	"github.com/xvierd/focusguard/internal/ports"
)

const maxBodyBytes = 64 << 10

// Navigator decides on reported navigations.
type Navigator interface {
	OnNavigate(ctx context.Context, ev domain.NavigationEvent) (domain.Decision, error)
}

// PageLoader is told about pages that finished loading.
type PageLoader interface {
	OnPageLoaded(ctx context.Context, page domain.Page) domain.InjectOutcome
}

// Deps are the components behind the routes. Metrics may be nil.
type Deps struct {
	Messages  ports.MessageHandler
	Navigator Navigator
	Pages     *pages.Registry
	Loader    PageLoader
	Events    *broadcast.Hub
	Metrics   http.Handler
	Logger    *slog.Logger
}

// Server represents the daemon HTTP server.
type Server struct {
	Addr      string
	deps      Deps
	log       *slog.Logger
	router    *chi.Mux
	server    *http.Server
	heartbeat time.Duration
}

// NewServer creates a server listening on addr.
func NewServer(addr string, deps Deps) *Server {
	log := deps.Logger
	if log == nil {
		log = slog.Default()
	}
	s := &Server{
		Addr:      addr,
		deps:      deps,
		log:       log,
		router:    chi.NewRouter(),
		heartbeat: 30 * time.Second,
	}
	s.setupRoutes()

	// no write timeout: page and event streams stay open
	s.server = &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	return s
}

func (s *Server) setupRoutes() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.Recoverer)
	s.router.Use(s.logRequests)

	s.router.Get("/healthz", s.handleHealth)
	s.router.Post("/message", s.handleMessage)
	s.router.Post("/navigate", s.handleNavigate)

	s.router.Get("/pages/connect", s.handlePageConnect)
	s.router.Post("/pages/{id}/location", s.handlePageLocation)
	s.router.Get("/events", s.handleEvents)

	s.router.Get("/blocked", s.handleBlocked)
	if s.deps.Metrics != nil {
		s.router.Method(http.MethodGet, "/metrics", s.deps.Metrics)
	}
}

// Handler returns the routed handler, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully
// within shutdownTimeout.
func (s *Server) ListenAndServe(ctx context.Context, shutdownTimeout time.Duration) error {
	ln, err := net.Listen("tcp", s.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.Addr, err)
	}
	return s.Serve(ctx, ln, shutdownTimeout)
}

// Serve is ListenAndServe on an existing listener.
func (s *Server) Serve(ctx context.Context, ln net.Listener, shutdownTimeout time.Duration) error {
	s.server.BaseContext = func(net.Listener) context.Context { return ctx }
	s.log.Info("HTTP API listening", logfields.Addr(ln.Addr().String()))

	errCh := make(chan error, 1)
	go func() { errCh <- s.server.Serve(ln) }()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := s.server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down HTTP API: %w", err)
	}
	return nil
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		s.log.Debug("HTTP request",
			logfields.Method(r.Method),
			logfields.Path(r.URL.Path),
			slog.Duration("took", time.Since(start)),
			slog.String("request_id", middleware.GetReqID(r.Context())))
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}

func (s *Server) handleMessage(w http.ResponseWriter, r *http.Request) {
	var msg domain.Message
	if err := decodeBody(w, r, &msg); err != nil {
		writeJSON(w, http.StatusBadRequest, domain.Response{Success: false})
		return
	}
	writeJSON(w, http.StatusOK, s.deps.Messages.Handle(r.Context(), msg))
}

func (s *Server) handleNavigate(w http.ResponseWriter, r *http.Request) {
	var ev domain.NavigationEvent
	if err := decodeBody(w, r, &ev); err != nil {
		http.Error(w, "invalid navigation event", http.StatusBadRequest)
		return
	}
	decision, err := s.deps.Navigator.OnNavigate(r.Context(), ev)
	if err != nil {
		s.log.Warn("Navigation check failed", logfields.URL(ev.URL), logfields.Error(err))
		http.Error(w, "navigation check failed", http.StatusServiceUnavailable)
		return
	}
	writeJSON(w, http.StatusOK, decision)
}

type locationRequest struct {
	URL string `json:"url"`
}

// handlePageLocation records an in-page navigation and re-applies greyscale
// to the new document.
func (s *Server) handlePageLocation(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var req locationRequest
	if err := decodeBody(w, r, &req); err != nil {
		http.Error(w, "invalid location", http.StatusBadRequest)
		return
	}
	if err := s.deps.Pages.Navigate(id, req.URL); err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	page, ok := s.page(r.Context(), id)
	if ok && s.deps.Loader != nil {
		s.deps.Loader.OnPageLoaded(r.Context(), page)
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) page(ctx context.Context, id string) (domain.Page, bool) {
	list, _ := s.deps.Pages.Pages(ctx)
	for _, p := range list {
		if p.ID == id {
			return p, true
		}
	}
	return domain.Page{}, false
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	return dec.Decode(dst)
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}
