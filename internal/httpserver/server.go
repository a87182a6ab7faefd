// internal/httpserver/server.go
//
// HTTP server wiring for the Qwixx table service.
// Responsibilities:
//   - Router + middleware (JSON, CORS, timeouts, panic recovery, request IDs).
//   - Public endpoints: "/", "/health", "/stats", "/leaderboard".
//   - Table endpoints: mounted under /tables (see routes_tables.go).
//   - Error mapping from domain errors to status codes.
//
// Notes:
//   - CORS allows a single configured origin.
//   - Reads are open to anyone with the table id; writes need the table token.

package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"

	"github.com/jwmickey/qwixx/internal/config"
	"github.com/jwmickey/qwixx/internal/dice"
	"github.com/jwmickey/qwixx/internal/game"
	"github.com/jwmickey/qwixx/internal/store"
	"github.com/jwmickey/qwixx/internal/table"
	"github.com/jwmickey/qwixx/internal/turn"
)

// Reporter is implemented by stores that keep cross-table reports.
type Reporter interface {
	CountByStatus(ctx context.Context) (map[game.Status]int, error)
	Leaderboard(ctx context.Context, limit int) ([]store.Result, error)
}

// Server bundles the router, table manager, and configuration.
type Server struct {
	r      *chi.Mux
	tables *table.Manager
	stats  Reporter
	cfg    config.Config
}

// New constructs a Server, installs middleware, and registers routes.
// stats may be nil, in which case /stats and /leaderboard report 404.
func New(cfg config.Config, tables *table.Manager, stats Reporter) *Server {
	s := &Server{r: chi.NewRouter(), tables: tables, stats: stats, cfg: cfg}

	s.r.Use(chimw.RequestID)
	s.r.Use(chimw.RealIP)
	s.r.Use(chimw.Recoverer)
	s.r.Use(chimw.Timeout(10 * time.Second))
	s.r.Use(jsonContentType)
	s.r.Use(cors(cfg.ClientOrigin))

	s.r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"service":"qwixx","endpoints":["/health","/stats","/leaderboard","POST /tables","/tables/{id}/*"]}`))
	})
	s.r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"ok":true}`))
	})
	s.r.Get("/stats", s.handleStats)
	s.r.Get("/leaderboard", s.handleLeaderboard)

	s.mountTables()

	s.r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "not_found", "path": r.URL.Path})
	})
	return s
}

// Start begins serving HTTP on addr.
func (s *Server) Start(addr string) error { return http.ListenAndServe(addr, s.r) }

// Router exposes the internal router (useful for tests).
func (s *Server) Router() chi.Router { return s.r }

// ----------------------------- middleware ----------------------------------

// jsonContentType sets a default JSON Content-Type header on all responses.
func jsonContentType(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		next.ServeHTTP(w, r)
	})
}

// cors enables CORS for a single origin.
func cors(origin string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Vary", "Origin")
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Methods", "GET,POST,OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, "+passcodeHeader)
			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// ------------------------------- stats -------------------------------------

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	if s.stats == nil {
		writeErrorCode(w, http.StatusNotFound, "not_found", "stats need a database")
		return
	}
	counts, err := s.stats.CountByStatus(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"tables": counts})
}

func (s *Server) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	if s.stats == nil {
		writeErrorCode(w, http.StatusNotFound, "not_found", "leaderboard needs a database")
		return
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	rows, err := s.stats.Leaderboard(r.Context(), limit)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"results": rows})
}

// ------------------------------ responses ----------------------------------

type errorRes struct {
	Error    string   `json:"error"`
	Message  string   `json:"message,omitempty"`
	Messages []string `json:"messages,omitempty"`
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeErrorCode(w http.ResponseWriter, code int, kind, msg string) {
	writeJSON(w, code, errorRes{Error: kind, Message: msg})
}

// writeError maps domain errors onto HTTP responses.
func writeError(w http.ResponseWriter, err error) {
	var setup *table.SetupError
	var snap *game.InvalidSnapshotError
	switch {
	case errors.As(err, &setup):
		writeJSON(w, http.StatusBadRequest, errorRes{Error: "invalid_setup", Messages: setup.Messages})
	case errors.As(err, &snap):
		writeJSON(w, http.StatusBadRequest, errorRes{Error: "invalid_snapshot", Messages: snap.Messages})
	case errors.Is(err, table.ErrInvalidSnapshot):
		writeErrorCode(w, http.StatusBadRequest, "invalid_snapshot", err.Error())
	case errors.Is(err, dice.ErrInvalidValue):
		writeErrorCode(w, http.StatusBadRequest, "invalid", err.Error())
	case errors.Is(err, store.ErrNotFound):
		writeErrorCode(w, http.StatusNotFound, "not_found", "no such table")
	case errors.Is(err, table.ErrWrongPasscode):
		writeErrorCode(w, http.StatusUnauthorized, "wrong_passcode", err.Error())
	case isIllegal(err):
		writeErrorCode(w, http.StatusConflict, "illegal_action", err.Error())
	default:
		log.Error().Err(err).Msg("request failed")
		writeErrorCode(w, http.StatusInternalServerError, "internal", "internal error")
	}
}

var illegal = []error{
	table.ErrRejected,
	turn.ErrRejected,
	turn.ErrGameNotPlaying,
	turn.ErrWrongPhase,
	turn.ErrNotActivePlayer,
	turn.ErrActivePlayer,
	turn.ErrUnknownPlayer,
	turn.ErrAlreadyMarked,
	turn.ErrNotMarkable,
}

func isIllegal(err error) bool {
	for _, target := range illegal {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
