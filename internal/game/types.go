// internal/game/types.go
//
// Core type definitions for the Qwixx game state machine.
// Defines:
//   - Status: setup → playing → ended.
//   - State: the single authoritative game value.
//   - ActionType / Action: the vocabulary accepted by Apply.

package game

import (
	"github.com/jwmickey/qwixx/internal/dice"
	"github.com/jwmickey/qwixx/internal/sheet"
)

// Status is the lifecycle stage of a game.
type Status string

const (
	StatusSetup   Status = "setup"
	StatusPlaying Status = "playing"
	StatusEnded   Status = "ended"
)

// Player count limits.
const (
	MinPlayers = 2
	MaxPlayers = 5
)

// LockedRowsToEnd is the number of locked rows that ends the game.
const LockedRowsToEnd = 2

// State is the complete game. Apply never mutates a State in place; it returns
// a new value sharing no mutable memory with its input.
type State struct {
	Players            []sheet.Player `json:"players"`
	CurrentPlayerIndex int            `json:"currentPlayerIndex"`
	Dice               *dice.Values   `json:"dice"`
	LockedRows         []sheet.Color  `json:"lockedRows"`
	GameStatus         Status         `json:"gameStatus"`
	History            []Action       `json:"history"`
}

// ActionType names an action.
type ActionType string

const (
	ActionInitializeGame ActionType = "INITIALIZE_GAME"
	ActionStartGame      ActionType = "START_GAME"
	ActionNextTurn       ActionType = "NEXT_TURN"
	ActionRollDice       ActionType = "ROLL_DICE"
	ActionMarkNumber     ActionType = "MARK_NUMBER"
	ActionUnmarkNumber   ActionType = "UNMARK_NUMBER"
	ActionLockRow        ActionType = "LOCK_ROW"
	ActionAddPenalty     ActionType = "ADD_PENALTY"
	ActionEndGame        ActionType = "END_GAME"
	ActionResetGame      ActionType = "RESET_GAME"
	ActionLoadGame       ActionType = "LOAD_GAME"
)

// Action is a single input to Apply. Only the fields relevant to Type are set.
type Action struct {
	Type           ActionType   `json:"type"`
	PlayerNames    []string     `json:"playerNames,omitempty"`
	PlayerIDs      []string     `json:"playerIds,omitempty"`
	Dice           *dice.Values `json:"dice,omitempty"`
	PlayerID       string       `json:"playerId,omitempty"`
	Color          sheet.Color  `json:"color,omitempty"`
	Number         int          `json:"number,omitempty"`
	AllowLockedRow bool         `json:"allowLockedRow,omitempty"`
	Snapshot       *State       `json:"snapshot,omitempty"`
}

// InitializeGame creates players from names. ids is optional; when it does
// not match names one-for-one, ids are derived as player-1..player-n.
func InitializeGame(names []string, ids []string) Action {
	return Action{Type: ActionInitializeGame, PlayerNames: names, PlayerIDs: ids}
}

// StartGame moves a set-up game to playing.
func StartGame() Action { return Action{Type: ActionStartGame} }

// NextTurn evaluates termination and advances to the next player.
func NextTurn() Action { return Action{Type: ActionNextTurn} }

// RollDice records a roll.
func RollDice(v dice.Values) Action { return Action{Type: ActionRollDice, Dice: &v} }

// MarkNumber marks number on the color row of playerID.
func MarkNumber(playerID string, color sheet.Color, number int) Action {
	return Action{Type: ActionMarkNumber, PlayerID: playerID, Color: color, Number: number}
}

// MarkNumberOnLockedRow is MarkNumber permitted on a row already in LockedRows.
func MarkNumberOnLockedRow(playerID string, color sheet.Color, number int) Action {
	a := MarkNumber(playerID, color, number)
	a.AllowLockedRow = true
	return a
}

// UnmarkNumber clears a mark.
func UnmarkNumber(playerID string, color sheet.Color, number int) Action {
	return Action{Type: ActionUnmarkNumber, PlayerID: playerID, Color: color, Number: number}
}

// LockRow adds color to the locked rows.
func LockRow(color sheet.Color) Action { return Action{Type: ActionLockRow, Color: color} }

// AddPenalty gives playerID one penalty.
func AddPenalty(playerID string) Action { return Action{Type: ActionAddPenalty, PlayerID: playerID} }

// EndGame ends the game immediately.
func EndGame() Action { return Action{Type: ActionEndGame} }

// ResetGame replaces everything with a fresh initial state.
func ResetGame() Action { return Action{Type: ActionResetGame} }

// LoadGame replaces everything with snapshot.
func LoadGame(snapshot State) Action { return Action{Type: ActionLoadGame, Snapshot: &snapshot} }
