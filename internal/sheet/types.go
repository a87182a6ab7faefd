// internal/sheet/types.go
//
// Core type definitions for a Qwixx score sheet.
// Defines:
//   - Color: the four row colors and their marking direction.
//   - MarkedNumber / ColorRow: one track of eleven numbers.
//   - ScoreSheet: the four rows owned by a single player.
//   - Player: a participant with sheet, penalties and cached total.

package sheet

// Color identifies one of the four rows (and the matching colored die).
type Color string

const (
	Red    Color = "red"
	Yellow Color = "yellow"
	Green  Color = "green"
	Blue   Color = "blue"
)

// Colors lists every row color in sheet order.
var Colors = [4]Color{Red, Yellow, Green, Blue}

// RowLength is the number of cells on every row (2 through 12).
const RowLength = 11

// MaxPenalties caps the penalty track; reaching it ends the game.
const MaxPenalties = 4

// PenaltyPoints is the score value of a single penalty.
const PenaltyPoints = -5

// MinMarksToLock is the number of marks a row needs before its last number may lock it.
const MinMarksToLock = 5

// Valid reports whether c is one of the four row colors.
func (c Color) Valid() bool {
	switch c {
	case Red, Yellow, Green, Blue:
		return true
	}
	return false
}

// Ascending reports whether the row runs 2..12 (red, yellow).
// Green and blue run 12..2.
func (c Color) Ascending() bool {
	return c == Red || c == Yellow
}

// MarkedNumber is a single cell on a row.
type MarkedNumber struct {
	Number int  `json:"number"`
	Marked bool `json:"marked"`
}

// ColorRow is a fixed-direction track of eleven cells.
// Numbers is an array so rows copy by value.
type ColorRow struct {
	Color   Color                   `json:"color"`
	Numbers [RowLength]MarkedNumber `json:"numbers"`
	Locked  bool                    `json:"locked"`
}

// ScoreSheet holds one row per color.
type ScoreSheet struct {
	Red    ColorRow `json:"red"`
	Yellow ColorRow `json:"yellow"`
	Green  ColorRow `json:"green"`
	Blue   ColorRow `json:"blue"`
}

// Player is a participant in a game.
type Player struct {
	ID         string     `json:"id"`
	Name       string     `json:"name"`
	ScoreSheet ScoreSheet `json:"scoreSheet"`
	Penalties  int        `json:"penalties"`
	TotalScore int        `json:"totalScore"`
}
