// internal/httpserver/routes_tables.go
//
// HTTP routes for Qwixx tables.
//   - POST /tables                  → create + start a game, returns the table token
//   - GET  /tables/{id}             → state and turn phase
//   - GET  /tables/{id}/legal       → markable numbers for ?player=ID
//   - GET  /tables/{id}/summary     → standings, winners, score breakdowns
//   - GET  /tables/{id}/snapshot    → raw snapshot JSON
//
// Token required:
//   - POST /tables/{id}/roll, /mark, /finish-white, /finish-turn, /next, /end
//   - POST /tables/{id}/setup (only after reset)
//
// Token and passcode required:
//   - POST /tables/{id}/undo, /reset, /load

package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/jwmickey/qwixx/internal/dice"
	"github.com/jwmickey/qwixx/internal/game"
	"github.com/jwmickey/qwixx/internal/sheet"
	"github.com/jwmickey/qwixx/internal/table"
	"github.com/jwmickey/qwixx/internal/turn"
)

const maxSnapshotBytes = 1 << 20

func (s *Server) mountTables() {
	s.r.Route("/tables", func(r chi.Router) {
		r.Post("/", s.handleCreate)
		r.Route("/{id}", func(r chi.Router) {
			r.Use(s.withTable)
			r.Get("/", s.handleView)
			r.Get("/legal", s.handleLegal)
			r.Get("/summary", s.handleSummary)
			r.Get("/snapshot", s.handleSnapshot)

			r.Group(func(r chi.Router) {
				r.Use(s.requireToken)
				r.Post("/roll", s.handleRoll)
				r.Post("/mark", s.handleMark)
				r.Post("/finish-white", s.simple((*table.Table).FinishWhiteDice))
				r.Post("/finish-turn", s.simple((*table.Table).FinishTurn))
				r.Post("/next", s.simple((*table.Table).NextPlayer))
				r.Post("/end", s.simple((*table.Table).End))
				r.Post("/setup", s.handleSetup)

				r.Group(func(r chi.Router) {
					r.Use(s.requirePasscode)
					r.Post("/undo", s.handleUndo)
					r.Post("/reset", s.simple((*table.Table).Reset))
					r.Post("/load", s.handleLoad)
				})
			})
		})
	})
}

// ------------------------------- create ------------------------------------

type createReq struct {
	Names    []string `json:"names"`
	Passcode string   `json:"passcode"`
}

type createRes struct {
	TableID   string     `json:"tableId"`
	Token     string     `json:"token"`
	ExpiresAt int64      `json:"expiresAt"`
	State     game.State `json:"state"`
}

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	var req createReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrorCode(w, http.StatusBadRequest, "bad_json", err.Error())
		return
	}
	t, err := s.tables.Create(r.Context(), req.Names, req.Passcode)
	if err != nil {
		writeError(w, err)
		return
	}
	tok, exp, err := s.signTableToken(t.ID())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, createRes{
		TableID:   t.ID(),
		Token:     tok,
		ExpiresAt: exp.Unix(),
		State:     t.Snapshot(),
	})
}

// -------------------------------- reads ------------------------------------

func (s *Server) handleView(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, tableFrom(r.Context()).View())
}

type legalRes struct {
	Phase   turn.Phase            `json:"phase"`
	Numbers map[sheet.Color][]int `json:"numbers"`
}

func (s *Server) handleLegal(w http.ResponseWriter, r *http.Request) {
	t := tableFrom(r.Context())
	player := r.URL.Query().Get("player")
	if player == "" {
		writeErrorCode(w, http.StatusBadRequest, "invalid", "player is required")
		return
	}
	writeJSON(w, http.StatusOK, legalRes{Phase: t.View().Phase, Numbers: t.Legal(player)})
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, tableFrom(r.Context()).Summary())
}

func (s *Server) handleSnapshot(w http.ResponseWriter, r *http.Request) {
	b, err := game.EncodeSnapshot(tableFrom(r.Context()).Snapshot())
	if err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(b)
}

// ------------------------------- writes ------------------------------------

// simple adapts a body-less table operation into a handler.
func (s *Server) simple(op func(*table.Table, context.Context) (table.View, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		v, err := op(tableFrom(r.Context()), r.Context())
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, v)
	}
}

type rollReq struct {
	Dice *dice.Values `json:"dice"`
}

// handleRoll rolls server-side, or records caller-supplied dice when the body
// carries them.
func (s *Server) handleRoll(w http.ResponseWriter, r *http.Request) {
	var req rollReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeErrorCode(w, http.StatusBadRequest, "bad_json", err.Error())
		return
	}
	t := tableFrom(r.Context())
	var (
		v   table.View
		err error
	)
	if req.Dice != nil {
		v, err = t.RollValues(r.Context(), *req.Dice)
	} else {
		v, err = t.Roll(r.Context())
	}
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, v)
}

type markReq struct {
	PlayerID string      `json:"playerId"`
	Color    sheet.Color `json:"color"`
	Number   int         `json:"number"`
}

func (s *Server) handleMark(w http.ResponseWriter, r *http.Request) {
	var req markReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrorCode(w, http.StatusBadRequest, "bad_json", err.Error())
		return
	}
	if !req.Color.Valid() {
		writeErrorCode(w, http.StatusBadRequest, "invalid", "unknown color")
		return
	}
	v, err := tableFrom(r.Context()).Mark(r.Context(), req.PlayerID, req.Color, req.Number)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, v)
}

type setupReq struct {
	Names []string `json:"names"`
}

func (s *Server) handleSetup(w http.ResponseWriter, r *http.Request) {
	var req setupReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrorCode(w, http.StatusBadRequest, "bad_json", err.Error())
		return
	}
	v, err := tableFrom(r.Context()).Setup(r.Context(), req.Names)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, v)
}

type undoReq struct {
	Count int `json:"count"`
}

func (s *Server) handleUndo(w http.ResponseWriter, r *http.Request) {
	req := undoReq{Count: 1}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeErrorCode(w, http.StatusBadRequest, "bad_json", err.Error())
		return
	}
	v, err := tableFrom(r.Context()).Undo(r.Context(), req.Count)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, v)
}

func (s *Server) handleLoad(w http.ResponseWriter, r *http.Request) {
	b, err := io.ReadAll(io.LimitReader(r.Body, maxSnapshotBytes))
	if err != nil {
		writeErrorCode(w, http.StatusBadRequest, "bad_json", err.Error())
		return
	}
	snap, err := game.DecodeSnapshot(b)
	if err != nil {
		var invalid *game.InvalidSnapshotError
		if errors.As(err, &invalid) {
			writeError(w, err)
			return
		}
		writeErrorCode(w, http.StatusBadRequest, "bad_json", err.Error())
		return
	}
	v, err := tableFrom(r.Context()).Load(r.Context(), snap)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, v)
}
