// internal/game/winner.go
//
// Winners and standings by total score.

package game

import (
	"sort"

	"github.com/jwmickey/qwixx/internal/sheet"
)

// Winners returns every player tied at the highest total score, in input order.
func Winners(players []sheet.Player) []sheet.Player {
	if len(players) == 0 {
		return []sheet.Player{}
	}
	best := players[0].TotalScore
	for _, p := range players[1:] {
		best = max(best, p.TotalScore)
	}
	out := []sheet.Player{}
	for _, p := range players {
		if p.TotalScore == best {
			out = append(out, p)
		}
	}
	return out
}

// Standings returns all players sorted by total score, highest first.
// Ties keep their input order.
func Standings(players []sheet.Player) []sheet.Player {
	out := append([]sheet.Player(nil), players...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].TotalScore > out[j].TotalScore })
	return out
}
