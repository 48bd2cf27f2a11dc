// Package spectate serves a read-only view of a running game over HTTP and
// websockets, plus optional flip and restart endpoints for headless games.
package spectate

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/lox/memory/internal/memory"
)

// Controller plays a game on behalf of HTTP clients.
type Controller interface {
	Flip(ctx context.Context, index int) (FlipResult, error)
	Restart(ctx context.Context) (string, error)
}

// Server bundles the router, the hub and the snapshot feed.
type Server struct {
	r          *chi.Mux
	hub        *Hub
	feed       *Feed
	controller Controller
	logger     *log.Logger
}

// Option configures a Server.
type Option func(*Server)

// WithController enables POST /flip/{index} and POST /restart.
func WithController(c Controller) Option {
	return func(s *Server) { s.controller = c }
}

// NewServer constructs a server that reads state from feed and streams it
// through hub.
func NewServer(hub *Hub, feed *Feed, logger *log.Logger, opts ...Option) *Server {
	s := &Server{
		r:      chi.NewRouter(),
		hub:    hub,
		feed:   feed,
		logger: logger,
	}
	for _, opt := range opts {
		opt(s)
	}

	s.r.Use(chimw.RequestID)
	s.r.Use(chimw.Recoverer)

	s.r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
	})
	s.r.Get("/state", s.handleState)
	s.r.Get("/ws", s.handleWS)

	if s.controller != nil {
		s.r.Post("/flip/{index}", s.handleFlip)
		s.r.Post("/restart", s.handleRestart)
	}

	s.r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "not_found")
	})

	return s
}

// Handler exposes the router, mostly for tests.
func (s *Server) Handler() http.Handler { return s.r }

// ListenAndServe serves on addr until ctx is done, then shuts down.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve serves on ln until ctx is done.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.r,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Serve(ln) }()
	s.logger.Info("Spectator feed listening", "addr", ln.Addr().String())

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	latest := s.feed.Latest()
	if latest == nil {
		writeError(w, http.StatusServiceUnavailable, "no_game")
		return
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(latest)
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	s.hub.serveWS(w, r, s.feed.Latest())
}

func (s *Server) handleFlip(w http.ResponseWriter, r *http.Request) {
	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_index")
		return
	}

	result, err := s.controller.Flip(r.Context(), index)
	if err != nil {
		status := flipStatus(err)
		if status == http.StatusInternalServerError {
			s.logger.Error("Flip failed", "index", index, "error", err)
		}
		writeError(w, status, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleRestart(w http.ResponseWriter, r *http.Request) {
	id, err := s.controller.Restart(r.Context())
	if err != nil {
		s.logger.Error("Restart failed", "error", err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"game_id": id})
}

func flipStatus(err error) int {
	switch {
	case errors.Is(err, memory.ErrUnknownCard):
		return http.StatusNotFound
	case errors.Is(err, memory.ErrCardRemoved),
		errors.Is(err, memory.ErrAlreadySelected),
		errors.Is(err, ErrGameOver):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
