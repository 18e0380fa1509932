// Package server provides the HTTP facade for the tool catalog: the same
// registry served over chi instead of stdio.
package server

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"dune-mcp/internal/dune"
	"dune-mcp/internal/tools"
)

// Config contains the HTTP facade's settings. An empty Token leaves the
// endpoints open.
type Config struct {
	Token string
}

// Server routes tool listing and invocation over HTTP.
type Server struct {
	cfg      Config
	router   *chi.Mux
	registry *tools.Registry
	log      *slog.Logger
}

// CallRequest is the body of POST /mcp/call.
type CallRequest struct {
	Name string          `json:"name"`
	Args tools.Arguments `json:"arguments"`
}

// New constructs a Server with middleware and routes configured.
func New(cfg Config, registry *tools.Registry, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{
		cfg:      cfg,
		router:   chi.NewRouter(),
		registry: registry,
		log:      logger,
	}
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(middleware.Logger)
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Timeout(120 * time.Second))

	s.router.Get("/health", s.handleHealth)

	s.router.Route("/mcp", func(r chi.Router) {
		r.Use(s.auth)
		r.Get("/tools", s.handleListTools)
		r.Post("/call", s.handleCall)
	})

	return s
}

// Router exposes the root HTTP handler for the server.
func (s *Server) Router() http.Handler { return s.router }

func (s *Server) auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.cfg.Token == "" {
			next.ServeHTTP(w, r)
			return
		}
		if r.Header.Get("Authorization") != "Bearer "+s.cfg.Token {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleListTools(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"tools": s.registry.Tools()})
}

func (s *Server) handleCall(w http.ResponseWriter, r *http.Request) {
	var req CallRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}

	out, err := s.registry.Dispatch(r.Context(), req.Name, req.Args)
	if err != nil {
		s.log.Debug("tool call failed", "tool", req.Name, "error", err)
		writeJSON(w, statusForError(err), map[string]string{"error": tools.ErrorMessage(err)})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"result": out})
}

// statusForError maps dispatch failures onto facade status codes: unknown
// tools and bad arguments are the caller's fault, everything upstream is a
// bad gateway.
func statusForError(err error) int {
	var unknown *tools.UnknownToolError
	if errors.As(err, &unknown) {
		return http.StatusNotFound
	}
	var de *dune.Error
	if errors.As(err, &de) && de.Kind == dune.KindValidation && de.StatusCode == 0 {
		return http.StatusBadRequest
	}
	return http.StatusBadGateway
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
