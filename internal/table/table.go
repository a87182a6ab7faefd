// internal/table/table.go
//
// Live game tables.
// A Table owns one game.State, the turn.Controller for the current turn, and a
// shared dice.Roller. Every call is serialized by the table mutex, applied
// through the controller or reducer, then persisted as a whole snapshot. If the
// save fails the table rolls back to its previous state.
//
// The Manager creates tables and lazily reloads them from the Store.

package table

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"

	"github.com/jwmickey/qwixx/internal/dice"
	"github.com/jwmickey/qwixx/internal/game"
	"github.com/jwmickey/qwixx/internal/sheet"
	"github.com/jwmickey/qwixx/internal/store"
	"github.com/jwmickey/qwixx/internal/turn"
)

var (
	// ErrWrongPasscode indicates a missing or incorrect table passcode.
	ErrWrongPasscode = errors.New("wrong passcode")
	// ErrInvalidSnapshot indicates a snapshot that cannot be loaded.
	ErrInvalidSnapshot = errors.New("invalid snapshot")
	// ErrRejected indicates the game state refused the action.
	ErrRejected = errors.New("action rejected")
)

// SetupError carries the validation messages for rejected player names.
type SetupError struct {
	Messages []string
}

func (e *SetupError) Error() string {
	return "invalid setup: " + strings.Join(e.Messages, "; ")
}

// Manager creates and caches tables.
type Manager struct {
	store  store.Store
	roller *dice.Roller

	mu   sync.Mutex
	live map[string]*Table
}

// NewManager wires a Manager to its store and dice roller.
func NewManager(st store.Store, roller *dice.Roller) *Manager {
	return &Manager{store: st, roller: roller, live: make(map[string]*Table)}
}

// Create validates names, starts a new game and persists it. A non-empty
// passcode guards undo, reset and load on the new table.
func (m *Manager) Create(ctx context.Context, names []string, passcode string) (*Table, error) {
	var hash string
	if passcode != "" {
		h, err := bcrypt.GenerateFromPassword([]byte(passcode), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("hash passcode: %w", err)
		}
		hash = string(h)
	}

	t := &Table{
		id:           uuid.NewString(),
		store:        m.store,
		roller:       m.roller,
		passcodeHash: hash,
		state:        game.Initial(),
	}
	t.ctrl = turn.New(t.state)
	if _, err := t.Setup(ctx, names); err != nil {
		return nil, err
	}

	m.mu.Lock()
	m.live[t.id] = t
	m.mu.Unlock()
	log.Info().Str("table", t.id).Int("players", len(names)).Msg("table created")
	return t, nil
}

// Get returns the live table for id, loading it from the store if needed.
func (m *Manager) Get(ctx context.Context, id string) (*Table, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if t, ok := m.live[id]; ok {
		return t, nil
	}
	rec, err := m.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	t := &Table{
		id:           rec.ID,
		store:        m.store,
		roller:       m.roller,
		passcodeHash: rec.PasscodeHash,
		state:        rec.State,
		ctrl:         turn.New(rec.State),
	}
	m.live[id] = t
	log.Debug().Str("table", id).Str("phase", string(t.ctrl.Phase())).Msg("table loaded")
	return t, nil
}

// Table is one game in progress.
type Table struct {
	id           string
	store        store.Store
	roller       *dice.Roller
	passcodeHash string

	mu    sync.Mutex
	state game.State
	ctrl  *turn.Controller
}

// View is a consistent read of a table.
type View struct {
	TableID        string      `json:"tableId"`
	State          game.State  `json:"state"`
	Phase          turn.Phase  `json:"phase"`
	ActivePlayerID string      `json:"activePlayerId"`
	Pending        []turn.Mark `json:"pending"`
}

// ID returns the table identifier.
func (t *Table) ID() string { return t.id }

// HasPasscode reports whether destructive actions need a passcode.
func (t *Table) HasPasscode() bool { return t.passcodeHash != "" }

// CheckPasscode verifies pass against the table's passcode, if any.
func (t *Table) CheckPasscode(pass string) error {
	if t.passcodeHash == "" {
		return nil
	}
	if bcrypt.CompareHashAndPassword([]byte(t.passcodeHash), []byte(pass)) != nil {
		return ErrWrongPasscode
	}
	return nil
}

// View returns the current state and turn phase.
func (t *Table) View() View {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.view()
}

func (t *Table) view() View {
	return View{
		TableID:        t.id,
		State:          t.state,
		Phase:          t.ctrl.Phase(),
		ActivePlayerID: t.ctrl.ActivePlayerID(),
		Pending:        t.ctrl.Pending(),
	}
}

// Snapshot returns the persisted form of the game.
func (t *Table) Snapshot() game.State {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state
}

// mutate runs fn against copies of the state and controller, persists the
// result, and commits it only if the save succeeds.
func (t *Table) mutate(ctx context.Context, op string, fn func(s game.State, c *turn.Controller) (game.State, *turn.Controller, error)) (View, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	next, ctrl, err := fn(t.state, t.ctrl.Clone())
	if err != nil {
		log.Info().Str("table", t.id).Str("op", op).Err(err).Msg("action refused")
		return t.view(), err
	}
	rec := store.Record{ID: t.id, State: next, PasscodeHash: t.passcodeHash}
	if err := t.store.Save(ctx, rec); err != nil {
		log.Error().Str("table", t.id).Str("op", op).Err(err).Msg("save failed")
		return t.view(), fmt.Errorf("save table: %w", err)
	}
	t.state, t.ctrl = next, ctrl
	ev := log.Debug().Str("table", t.id).Str("op", op).Str("phase", string(ctrl.Phase())).Str("status", string(next.GameStatus))
	ev.Msg("action applied")
	return t.view(), nil
}

// Setup initializes and starts a game for names with fresh player ids. The
// table must be in setup, either new or after Reset.
func (t *Table) Setup(ctx context.Context, names []string) (View, error) {
	if msgs := game.ValidateSetup(names); len(msgs) > 0 {
		return t.View(), &SetupError{Messages: msgs}
	}
	ids := make([]string, len(names))
	for i := range ids {
		ids[i] = uuid.NewString()
	}
	return t.mutate(ctx, "setup", func(s game.State, c *turn.Controller) (game.State, *turn.Controller, error) {
		if s.GameStatus != game.StatusSetup {
			return s, c, fmt.Errorf("setup while %s: %w", s.GameStatus, ErrRejected)
		}
		next, err := applyAll(s, game.InitializeGame(names, ids), game.StartGame())
		if err != nil {
			return s, nil, err
		}
		return next, turn.New(next), nil
	})
}

// Roll rolls the dice for the active player.
func (t *Table) Roll(ctx context.Context) (View, error) {
	return t.mutate(ctx, "roll", func(s game.State, c *turn.Controller) (game.State, *turn.Controller, error) {
		next, err := c.Roll(s, t.roller.RollAll())
		return next, c, err
	})
}

// RollValues records a roll supplied by the caller (physical dice).
func (t *Table) RollValues(ctx context.Context, v dice.Values) (View, error) {
	return t.mutate(ctx, "roll", func(s game.State, c *turn.Controller) (game.State, *turn.Controller, error) {
		if err := v.Validate(); err != nil {
			return s, c, err
		}
		next, err := c.Roll(s, v)
		return next, c, err
	})
}

// Mark marks (or toggles off) a number for a player.
func (t *Table) Mark(ctx context.Context, playerID string, color sheet.Color, number int) (View, error) {
	return t.mutate(ctx, "mark", func(s game.State, c *turn.Controller) (game.State, *turn.Controller, error) {
		next, err := c.Mark(s, playerID, color, number)
		return next, c, err
	})
}

// FinishWhiteDice moves from the white-dice phase to the colored-dice phase.
func (t *Table) FinishWhiteDice(ctx context.Context) (View, error) {
	return t.mutate(ctx, "finish-white", func(s game.State, c *turn.Controller) (game.State, *turn.Controller, error) {
		next, err := c.FinishWhiteDice(s)
		return next, c, err
	})
}

// FinishTurn ends the active player's options, applying a penalty if they marked nothing.
func (t *Table) FinishTurn(ctx context.Context) (View, error) {
	return t.mutate(ctx, "finish-turn", func(s game.State, c *turn.Controller) (game.State, *turn.Controller, error) {
		next, err := c.FinishTurn(s)
		return next, c, err
	})
}

// NextPlayer advances the turn; the game may end here.
func (t *Table) NextPlayer(ctx context.Context) (View, error) {
	return t.mutate(ctx, "next", func(s game.State, c *turn.Controller) (game.State, *turn.Controller, error) {
		next, err := c.NextPlayer(s)
		return next, c, err
	})
}

// End ends the game immediately.
func (t *Table) End(ctx context.Context) (View, error) {
	return t.mutate(ctx, "end", func(s game.State, c *turn.Controller) (game.State, *turn.Controller, error) {
		next, err := applyAll(s, game.EndGame())
		return next, c, err
	})
}

// Undo removes the last n actions by replaying history. The turn controller is
// rebuilt from the resulting state, including the marks made since the roll.
func (t *Table) Undo(ctx context.Context, n int) (View, error) {
	return t.mutate(ctx, "undo", func(s game.State, c *turn.Controller) (game.State, *turn.Controller, error) {
		if game.Undoable(s) == 0 || n <= 0 {
			return s, c, ErrRejected
		}
		next := game.Undo(s, n)
		return next, turn.New(next), nil
	})
}

// Reset clears the table back to an empty setup.
func (t *Table) Reset(ctx context.Context) (View, error) {
	return t.mutate(ctx, "reset", func(s game.State, _ *turn.Controller) (game.State, *turn.Controller, error) {
		next := game.Apply(s, game.ResetGame())
		return next, turn.New(next), nil
	})
}

// Load replaces the game with snapshot.
func (t *Table) Load(ctx context.Context, snapshot game.State) (View, error) {
	return t.mutate(ctx, "load", func(s game.State, c *turn.Controller) (game.State, *turn.Controller, error) {
		if msgs := game.ValidateState(snapshot); len(msgs) > 0 {
			return s, c, fmt.Errorf("%w: %s", ErrInvalidSnapshot, strings.Join(msgs, "; "))
		}
		next := game.Apply(s, game.LoadGame(snapshot))
		return next, turn.New(next), nil
	})
}

// Legal answers which numbers playerID may mark now.
func (t *Table) Legal(playerID string) map[sheet.Color][]int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.ctrl.Legal(t.state, playerID)
}

// Summary is the scoreboard view.
type Summary struct {
	Status     game.Status                `json:"status"`
	Standings  []sheet.Player             `json:"standings"`
	Winners    []sheet.Player             `json:"winners"`
	Breakdowns map[string]sheet.Breakdown `json:"breakdowns"`
}

// Summary ranks players and itemizes their scores. Winners is only filled once
// the game has ended.
func (t *Table) Summary() Summary {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := Summary{
		Status:     t.state.GameStatus,
		Standings:  game.Standings(t.state.Players),
		Winners:    []sheet.Player{},
		Breakdowns: make(map[string]sheet.Breakdown, len(t.state.Players)),
	}
	if t.state.GameStatus == game.StatusEnded {
		out.Winners = game.Winners(t.state.Players)
	}
	for _, p := range t.state.Players {
		out.Breakdowns[p.ID] = sheet.ScoreBreakdown(p)
	}
	return out
}

func applyAll(s game.State, actions ...game.Action) (game.State, error) {
	for _, a := range actions {
		if !game.Accepted(s, a) {
			return s, fmt.Errorf("%s: %w", a.Type, ErrRejected)
		}
		s = game.Apply(s, a)
	}
	return s, nil
}
