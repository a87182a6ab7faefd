// internal/turn/controller.go
//
// Turn phase controller.
// Responsibilities:
//   - Sequence a turn: rolling → white-dice → colored-dice → inactive-players.
//   - Decide who may mark what in each phase and dispatch the matching action.
//   - Track which marks the current phase made so they can be toggled off.
//   - Apply the automatic penalty when the active player marked nothing.
//
// The controller is transient session state. It is never part of the game
// snapshot and can be rebuilt from a game.State with New (see resume.go).

package turn

import (
	"errors"
	"fmt"
	"sort"

	"github.com/jwmickey/qwixx/internal/dice"
	"github.com/jwmickey/qwixx/internal/game"
	"github.com/jwmickey/qwixx/internal/sheet"
)

// Phase is a sub-phase of a turn.
type Phase string

const (
	PhaseRolling         Phase = "rolling"
	PhaseWhiteDice       Phase = "white-dice"
	PhaseColoredDice     Phase = "colored-dice"
	PhaseInactivePlayers Phase = "inactive-players"
)

var (
	// ErrGameNotPlaying indicates the game is in setup or has ended.
	ErrGameNotPlaying = errors.New("game is not in progress")
	// ErrWrongPhase indicates the action is not available in the current phase.
	ErrWrongPhase = errors.New("action not allowed in this phase")
	// ErrNotActivePlayer indicates only the active player may act now.
	ErrNotActivePlayer = errors.New("only the active player may do that")
	// ErrActivePlayer indicates the active player has no move in this phase.
	ErrActivePlayer = errors.New("the active player cannot mark in this phase")
	// ErrUnknownPlayer indicates the player id is not in the game.
	ErrUnknownPlayer = errors.New("unknown player")
	// ErrAlreadyMarked indicates the player used their mark for this phase.
	ErrAlreadyMarked = errors.New("player already marked this phase")
	// ErrNotMarkable indicates the number is not available to the player.
	ErrNotMarkable = errors.New("number cannot be marked")
	// ErrRejected indicates the game state refused the action.
	ErrRejected = errors.New("action rejected by game state")
)

// Mark identifies one cell on one player's sheet.
type Mark struct {
	PlayerID string      `json:"playerId"`
	Color    sheet.Color `json:"color"`
	Number   int         `json:"number"`
}

// Controller sequences the phases of the current turn.
// It is not safe for concurrent use; the owning session serializes calls.
type Controller struct {
	phase        Phase
	activeID     string
	lockedAtRoll map[sheet.Color]bool
	whiteMarks   map[string]Mark
	coloredMark  *Mark
	pending      map[Mark]bool
}

// New builds a controller for s. A game without dice starts the turn at
// rolling. A game whose dice are already rolled resumes the turn from the
// actions recorded since the roll.
func New(s game.State) *Controller {
	c := &Controller{}
	c.reset(s)
	if s.Dice != nil && s.GameStatus == game.StatusPlaying {
		c.resume(s)
	}
	return c
}

func (c *Controller) reset(s game.State) {
	c.phase = PhaseRolling
	c.activeID = ""
	if p, ok := s.CurrentPlayer(); ok {
		c.activeID = p.ID
	}
	c.lockedAtRoll = make(map[sheet.Color]bool, len(s.LockedRows))
	for _, col := range s.LockedRows {
		c.lockedAtRoll[col] = true
	}
	c.whiteMarks = map[string]Mark{}
	c.coloredMark = nil
	c.pending = map[Mark]bool{}
}

// Phase returns the current sub-phase.
func (c *Controller) Phase() Phase { return c.phase }

// ActivePlayerID returns the id of the player whose turn it is.
func (c *Controller) ActivePlayerID() string { return c.activeID }

// Pending returns the marks made in the current phase that can still be
// toggled off, ordered by player, color and number.
func (c *Controller) Pending() []Mark {
	out := make([]Mark, 0, len(c.pending))
	for m := range c.pending {
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.PlayerID != b.PlayerID {
			return a.PlayerID < b.PlayerID
		}
		if a.Color != b.Color {
			return a.Color < b.Color
		}
		return a.Number < b.Number
	})
	return out
}

// MarkedWhite reports whether playerID used the white sum this turn.
func (c *Controller) MarkedWhite(playerID string) bool {
	_, ok := c.whiteMarks[playerID]
	return ok
}

// MarkedColored reports whether the active player used a colored sum this turn.
func (c *Controller) MarkedColored() bool { return c.coloredMark != nil }

// Roll records v and opens the white-dice phase.
func (c *Controller) Roll(s game.State, v dice.Values) (game.State, error) {
	if s.GameStatus != game.StatusPlaying {
		return s, ErrGameNotPlaying
	}
	if c.phase != PhaseRolling {
		return s, fmt.Errorf("roll during %s: %w", c.phase, ErrWrongPhase)
	}
	next, err := dispatch(s, game.RollDice(v))
	if err != nil {
		return s, err
	}
	c.reset(next)
	c.phase = PhaseWhiteDice
	return next, nil
}

// Mark marks number on the color row of playerID, or unmarks it when the same
// cell was marked earlier in this phase.
func (c *Controller) Mark(s game.State, playerID string, color sheet.Color, number int) (game.State, error) {
	if s.GameStatus != game.StatusPlaying {
		return s, ErrGameNotPlaying
	}
	if _, ok := s.Player(playerID); !ok {
		return s, fmt.Errorf("%q: %w", playerID, ErrUnknownPlayer)
	}
	m := Mark{PlayerID: playerID, Color: color, Number: number}
	if c.pending[m] {
		return c.toggleOff(s, m)
	}

	switch c.phase {
	case PhaseWhiteDice:
		return c.markWhite(s, m)
	case PhaseInactivePlayers:
		if playerID == c.activeID {
			return s, ErrActivePlayer
		}
		return c.markWhite(s, m)
	case PhaseColoredDice:
		return c.markColored(s, m)
	}
	return s, fmt.Errorf("mark during %s: %w", c.phase, ErrWrongPhase)
}

func (c *Controller) markWhite(s game.State, m Mark) (game.State, error) {
	if c.MarkedWhite(m.PlayerID) {
		return s, ErrAlreadyMarked
	}
	if s.Dice == nil || m.Number != dice.WhiteSum(*s.Dice) {
		return s, fmt.Errorf("white sum for %s %d: %w", m.Color, m.Number, ErrNotMarkable)
	}
	action := game.MarkNumber(m.PlayerID, m.Color, m.Number)
	if c.lockedThisTurn(s, m.Color) {
		action = game.MarkNumberOnLockedRow(m.PlayerID, m.Color, m.Number)
	}
	next, err := dispatch(s, action)
	if err != nil {
		return s, fmt.Errorf("%s %d: %w", m.Color, m.Number, ErrNotMarkable)
	}
	c.whiteMarks[m.PlayerID] = m
	c.track(next, m)
	return next, nil
}

func (c *Controller) markColored(s game.State, m Mark) (game.State, error) {
	if m.PlayerID != c.activeID {
		return s, ErrNotActivePlayer
	}
	if c.coloredMark != nil {
		return s, ErrAlreadyMarked
	}
	if s.Dice == nil || !contains(dice.ColoredSums(*s.Dice, m.Color, s.LockedRows), m.Number) {
		return s, fmt.Errorf("colored sum for %s %d: %w", m.Color, m.Number, ErrNotMarkable)
	}
	next, err := dispatch(s, game.MarkNumber(m.PlayerID, m.Color, m.Number))
	if err != nil {
		return s, fmt.Errorf("%s %d: %w", m.Color, m.Number, ErrNotMarkable)
	}
	mm := m
	c.coloredMark = &mm
	c.track(next, m)
	return next, nil
}

// track makes m toggleable unless it locked the row; locks are final.
func (c *Controller) track(s game.State, m Mark) {
	p, _ := s.Player(m.PlayerID)
	if p.ScoreSheet.Row(m.Color).Locked {
		return
	}
	c.pending[m] = true
}

func (c *Controller) toggleOff(s game.State, m Mark) (game.State, error) {
	next, err := dispatch(s, game.UnmarkNumber(m.PlayerID, m.Color, m.Number))
	if err != nil {
		return s, err
	}
	delete(c.pending, m)
	if w, ok := c.whiteMarks[m.PlayerID]; ok && w == m {
		delete(c.whiteMarks, m.PlayerID)
	}
	if c.coloredMark != nil && *c.coloredMark == m {
		c.coloredMark = nil
	}
	return next, nil
}

// lockedThisTurn reports whether color was locked after this turn's roll.
// Such rows stay open for white-sum marks until the turn advances.
func (c *Controller) lockedThisTurn(s game.State, color sheet.Color) bool {
	return s.IsLocked(color) && !c.lockedAtRoll[color]
}

// FinishWhiteDice closes the white-dice phase and opens the colored-dice phase.
func (c *Controller) FinishWhiteDice(s game.State) (game.State, error) {
	if s.GameStatus != game.StatusPlaying {
		return s, ErrGameNotPlaying
	}
	if c.phase != PhaseWhiteDice {
		return s, fmt.Errorf("finish white dice during %s: %w", c.phase, ErrWrongPhase)
	}
	c.phase = PhaseColoredDice
	c.pending = map[Mark]bool{}
	return s, nil
}

// FinishTurn closes the colored-dice phase. The active player takes a penalty
// if they marked nothing this turn.
func (c *Controller) FinishTurn(s game.State) (game.State, error) {
	if s.GameStatus != game.StatusPlaying {
		return s, ErrGameNotPlaying
	}
	if c.phase != PhaseColoredDice {
		return s, fmt.Errorf("finish turn during %s: %w", c.phase, ErrWrongPhase)
	}
	next := s
	if !c.MarkedWhite(c.activeID) && c.coloredMark == nil {
		var err error
		if next, err = dispatch(s, game.AddPenalty(c.activeID)); err != nil {
			return s, err
		}
	}
	c.phase = PhaseInactivePlayers
	c.pending = map[Mark]bool{}
	return next, nil
}

// NextPlayer closes the turn and advances the game; the controller returns to rolling.
func (c *Controller) NextPlayer(s game.State) (game.State, error) {
	if s.GameStatus != game.StatusPlaying {
		return s, ErrGameNotPlaying
	}
	if c.phase != PhaseInactivePlayers {
		return s, fmt.Errorf("next player during %s: %w", c.phase, ErrWrongPhase)
	}
	next, err := dispatch(s, game.NextTurn())
	if err != nil {
		return s, err
	}
	c.reset(next)
	return next, nil
}

func dispatch(s game.State, a game.Action) (game.State, error) {
	if !game.Accepted(s, a) {
		return s, fmt.Errorf("%s: %w", a.Type, ErrRejected)
	}
	return game.Apply(s, a), nil
}

func contains(xs []int, x int) bool {
	for _, v := range xs {
		if v == x {
			return true
		}
	}
	return false
}

// Clone returns an independent copy of c.
func (c *Controller) Clone() *Controller {
	out := *c
	out.lockedAtRoll = make(map[sheet.Color]bool, len(c.lockedAtRoll))
	for k, v := range c.lockedAtRoll {
		out.lockedAtRoll[k] = v
	}
	out.whiteMarks = make(map[string]Mark, len(c.whiteMarks))
	for k, v := range c.whiteMarks {
		out.whiteMarks[k] = v
	}
	out.pending = make(map[Mark]bool, len(c.pending))
	for k, v := range c.pending {
		out.pending[k] = v
	}
	if c.coloredMark != nil {
		m := *c.coloredMark
		out.coloredMark = &m
	}
	return &out
}
