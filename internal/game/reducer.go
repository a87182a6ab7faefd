// internal/game/reducer.go
//
// The authoritative state transition function.
// Responsibilities:
//   - Validate each Action against the current State.
//   - Apply accepted actions to a copy of the State (players, dice, locks, status).
//   - Record accepted actions in History.
//   - Evaluate termination only when the turn advances.
//
// Rejected actions are no-ops: Apply returns its input unchanged and records
// nothing. Apply never panics on malformed input and performs no I/O.

package game

import (
	"fmt"
	"strings"

	"github.com/jwmickey/qwixx/internal/sheet"
)

// Initial returns a fresh game in setup with no players.
func Initial() State {
	return State{
		Players:    []sheet.Player{},
		LockedRows: []sheet.Color{},
		GameStatus: StatusSetup,
		History:    []Action{},
	}
}

// Apply returns the state that results from a on s.
func Apply(s State, a Action) State {
	next, ok := reduce(s, a)
	if !ok {
		return s
	}
	return next
}

// Accepted reports whether Apply would change s for a.
func Accepted(s State, a Action) bool {
	_, ok := reduce(s, a)
	return ok
}

func reduce(s State, a Action) (State, bool) {
	switch a.Type {
	case ActionInitializeGame:
		return initialize(s, a)
	case ActionStartGame:
		if s.GameStatus != StatusSetup || len(s.Players) < MinPlayers {
			return s, false
		}
		next := record(s, a)
		next.GameStatus = StatusPlaying
		return next, true
	case ActionRollDice:
		if s.GameStatus != StatusPlaying || s.Dice != nil || a.Dice == nil {
			return s, false
		}
		if err := a.Dice.Validate(); err != nil {
			return s, false
		}
		next := record(s, a)
		v := *a.Dice
		next.Dice = &v
		return next, true
	case ActionMarkNumber:
		return mark(s, a)
	case ActionUnmarkNumber:
		return unmark(s, a)
	case ActionLockRow:
		if s.GameStatus != StatusPlaying || !a.Color.Valid() || isLocked(s.LockedRows, a.Color) {
			return s, false
		}
		next := record(s, a)
		next.LockedRows = append(next.LockedRows, a.Color)
		return next, true
	case ActionAddPenalty:
		if s.GameStatus != StatusPlaying {
			return s, false
		}
		idx := playerIndex(s.Players, a.PlayerID)
		if idx == -1 {
			return s, false
		}
		next := record(s, a)
		p := next.Players[idx]
		p.Penalties = min(p.Penalties+1, sheet.MaxPenalties)
		next.Players[idx] = sheet.Recompute(p)
		return next, true
	case ActionEndGame:
		if s.GameStatus == StatusEnded {
			return s, false
		}
		next := record(s, a)
		next.GameStatus = StatusEnded
		return next, true
	case ActionNextTurn:
		if s.GameStatus != StatusPlaying || len(s.Players) == 0 {
			return s, false
		}
		next := record(s, a)
		if ShouldEnd(s) {
			next.GameStatus = StatusEnded
			return next, true
		}
		next.CurrentPlayerIndex = (s.CurrentPlayerIndex + 1) % len(s.Players)
		next.Dice = nil
		return next, true
	case ActionResetGame:
		next := Initial()
		next.History = []Action{copyAction(a)}
		return next, true
	case ActionLoadGame:
		if a.Snapshot == nil || len(ValidateState(*a.Snapshot)) > 0 {
			return s, false
		}
		return clone(*a.Snapshot, 0), true
	}
	return s, false
}

func initialize(s State, a Action) (State, bool) {
	if len(ValidateSetup(a.PlayerNames)) > 0 {
		return s, false
	}
	ids := playerIDs(a.PlayerNames, a.PlayerIDs)
	players := make([]sheet.Player, len(a.PlayerNames))
	for i, name := range a.PlayerNames {
		players[i] = sheet.NewPlayer(ids[i], strings.TrimSpace(name))
	}
	next := record(s, a)
	next.Players = players
	next.CurrentPlayerIndex = 0
	next.Dice = nil
	next.LockedRows = []sheet.Color{}
	next.GameStatus = StatusSetup
	return next, true
}

// playerIDs uses the supplied ids when they pair up with names and are unique,
// otherwise derives player-1..player-n.
func playerIDs(names, ids []string) []string {
	if len(ids) == len(names) {
		seen := make(map[string]bool, len(ids))
		ok := true
		for _, id := range ids {
			if strings.TrimSpace(id) == "" || seen[id] {
				ok = false
				break
			}
			seen[id] = true
		}
		if ok {
			return ids
		}
	}
	out := make([]string, len(names))
	for i := range names {
		out[i] = fmt.Sprintf("player-%d", i+1)
	}
	return out
}

func mark(s State, a Action) (State, bool) {
	if s.GameStatus != StatusPlaying || !a.Color.Valid() {
		return s, false
	}
	if isLocked(s.LockedRows, a.Color) && !a.AllowLockedRow {
		return s, false
	}
	idx := playerIndex(s.Players, a.PlayerID)
	if idx == -1 {
		return s, false
	}
	row := s.Players[idx].ScoreSheet.Row(a.Color)
	if !sheet.CanMark(row, a.Number) {
		return s, false
	}
	locks := sheet.CanLock(row, a.Number)

	next := record(s, a)
	row = sheet.Mark(row, a.Number)
	if locks {
		row.Locked = true
		if !isLocked(next.LockedRows, a.Color) {
			next.LockedRows = append(next.LockedRows, a.Color)
		}
	}
	p := next.Players[idx]
	p.ScoreSheet = p.ScoreSheet.WithRow(row)
	next.Players[idx] = sheet.Recompute(p)
	return next, true
}

// unmark refuses locked rows: a lock is permanent, so its marks are too.
func unmark(s State, a Action) (State, bool) {
	if s.GameStatus != StatusPlaying || !a.Color.Valid() {
		return s, false
	}
	idx := playerIndex(s.Players, a.PlayerID)
	if idx == -1 {
		return s, false
	}
	row := s.Players[idx].ScoreSheet.Row(a.Color)
	if row.Locked || !sheet.IsMarked(row, a.Number) {
		return s, false
	}
	next := record(s, a)
	p := next.Players[idx]
	p.ScoreSheet = p.ScoreSheet.WithRow(sheet.Unmark(row, a.Number))
	next.Players[idx] = sheet.Recompute(p)
	return next, true
}

// ShouldEnd reports whether a termination condition holds: enough locked rows
// or any player at the penalty cap.
func ShouldEnd(s State) bool {
	if len(s.LockedRows) >= LockedRowsToEnd {
		return true
	}
	for _, p := range s.Players {
		if p.Penalties >= sheet.MaxPenalties {
			return true
		}
	}
	return false
}

// CurrentPlayer returns the active player, if any.
func (s State) CurrentPlayer() (sheet.Player, bool) {
	if s.CurrentPlayerIndex < 0 || s.CurrentPlayerIndex >= len(s.Players) {
		return sheet.Player{}, false
	}
	return s.Players[s.CurrentPlayerIndex], true
}

// Player looks up a player by id.
func (s State) Player(id string) (sheet.Player, bool) {
	if idx := playerIndex(s.Players, id); idx >= 0 {
		return s.Players[idx], true
	}
	return sheet.Player{}, false
}

// IsLocked reports whether color is in LockedRows.
func (s State) IsLocked(color sheet.Color) bool {
	return isLocked(s.LockedRows, color)
}

func playerIndex(players []sheet.Player, id string) int {
	for i, p := range players {
		if p.ID == id {
			return i
		}
	}
	return -1
}

func isLocked(locked []sheet.Color, c sheet.Color) bool {
	for _, l := range locked {
		if l == c {
			return true
		}
	}
	return false
}

// record clones s and appends a to the clone's history.
func record(s State, a Action) State {
	next := clone(s, 1)
	next.History = append(next.History, copyAction(a))
	return next
}

// clone deep-copies s. extra reserves history capacity.
func clone(s State, extra int) State {
	out := s
	out.Players = append(make([]sheet.Player, 0, len(s.Players)), s.Players...)
	out.LockedRows = append(make([]sheet.Color, 0, len(s.LockedRows)+1), s.LockedRows...)
	out.History = make([]Action, 0, len(s.History)+extra)
	for _, a := range s.History {
		out.History = append(out.History, copyAction(a))
	}
	if s.Dice != nil {
		v := *s.Dice
		out.Dice = &v
	}
	return out
}

func copyAction(a Action) Action {
	if a.PlayerNames != nil {
		a.PlayerNames = append([]string(nil), a.PlayerNames...)
	}
	if a.PlayerIDs != nil {
		a.PlayerIDs = append([]string(nil), a.PlayerIDs...)
	}
	if a.Dice != nil {
		v := *a.Dice
		a.Dice = &v
	}
	a.Snapshot = nil
	return a
}
