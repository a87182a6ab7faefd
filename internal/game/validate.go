// internal/game/validate.go
//
// Consistency checks.
//   - ValidateSetup: player names before InitializeGame.
//   - ValidateState: whole snapshots before LoadGame (players, sheets, locks,
//     status, current player).

package game

import (
	"fmt"
	"strings"

	"github.com/jwmickey/qwixx/internal/sheet"
)

// ValidateSetup checks player names before a game is initialized and returns
// one message per problem. An empty result means the names are acceptable.
func ValidateSetup(names []string) []string {
	var errs []string
	if len(names) < MinPlayers || len(names) > MaxPlayers {
		errs = append(errs, fmt.Sprintf("Game must have between %d and %d players", MinPlayers, MaxPlayers))
	}
	seen := make(map[string]bool, len(names))
	empty, dup := false, false
	for _, n := range names {
		key := strings.ToLower(strings.TrimSpace(n))
		if key == "" {
			empty = true
			continue
		}
		if seen[key] {
			dup = true
		}
		seen[key] = true
	}
	if empty {
		errs = append(errs, fmt.Sprintf("Please enter names for all %d players", len(names)))
	}
	if dup {
		errs = append(errs, "Player names must be unique")
	}
	return errs
}

// ValidateState checks a snapshot for internal consistency before it is loaded.
func ValidateState(s State) []string {
	var errs []string

	switch s.GameStatus {
	case StatusSetup, StatusPlaying, StatusEnded:
	default:
		errs = append(errs, fmt.Sprintf("Unknown game status %q", s.GameStatus))
	}
	if s.GameStatus != StatusSetup && len(s.Players) < MinPlayers {
		errs = append(errs, "Game must have at least 2 players")
	}
	if len(s.Players) > MaxPlayers {
		errs = append(errs, "Game cannot have more than 5 players")
	}
	if len(s.Players) > 0 && (s.CurrentPlayerIndex < 0 || s.CurrentPlayerIndex >= len(s.Players)) {
		errs = append(errs, "Current player index is out of bounds")
	}

	if len(s.LockedRows) > len(sheet.Colors) {
		errs = append(errs, "Cannot have more than 4 locked rows")
	}
	seenColor := map[sheet.Color]bool{}
	for _, c := range s.LockedRows {
		if !c.Valid() {
			errs = append(errs, fmt.Sprintf("Unknown locked row %q", c))
		} else if seenColor[c] {
			errs = append(errs, fmt.Sprintf("Row %s is locked more than once", c))
		}
		seenColor[c] = true
	}

	if s.Dice != nil {
		if err := s.Dice.Validate(); err != nil {
			errs = append(errs, "Dice values must be between 1 and 6")
		}
	}

	ids := map[string]bool{}
	names := map[string]bool{}
	for _, p := range s.Players {
		errs = append(errs, validatePlayer(p, seenColor)...)
		if p.ID == "" || ids[p.ID] {
			errs = append(errs, fmt.Sprintf("Player %s has a missing or duplicate id", p.Name))
		}
		ids[p.ID] = true
		key := strings.ToLower(strings.TrimSpace(p.Name))
		if key != "" && names[key] {
			errs = append(errs, "Player names must be unique")
		}
		names[key] = true
	}

	if s.GameStatus == StatusEnded && !ShouldEnd(s) && !endedByAction(s) {
		errs = append(errs, "Game is marked as ended but win condition is not met")
	}
	return errs
}

// endedByAction reports whether the game was ended explicitly by EndGame.
func endedByAction(s State) bool {
	for i := len(s.History) - 1; i >= 0; i-- {
		switch s.History[i].Type {
		case ActionEndGame:
			return true
		case ActionResetGame:
			return false
		}
	}
	return false
}

func validatePlayer(p sheet.Player, locked map[sheet.Color]bool) []string {
	var errs []string
	if strings.TrimSpace(p.Name) == "" {
		errs = append(errs, "All player names must be non-empty")
	}
	if p.Penalties < 0 || p.Penalties > sheet.MaxPenalties {
		errs = append(errs, fmt.Sprintf("Player %s has invalid penalty count", p.Name))
	}
	for _, c := range sheet.Colors {
		row := p.ScoreSheet.Row(c)
		want := sheet.NewRow(c)
		if row.Color != c {
			errs = append(errs, fmt.Sprintf("Player %s has a malformed %s row", p.Name, c))
			continue
		}
		for i := range row.Numbers {
			if row.Numbers[i].Number != want.Numbers[i].Number {
				errs = append(errs, fmt.Sprintf("Player %s has a malformed %s row", p.Name, c))
				break
			}
		}
		if row.Locked && !locked[c] {
			errs = append(errs, fmt.Sprintf("Player %s has %s locked but the row is not in locked rows", p.Name, c))
		}
	}
	if p.TotalScore != sheet.TotalScore(p) {
		errs = append(errs, fmt.Sprintf("Player %s total score does not match the sheet", p.Name))
	}
	return errs
}
