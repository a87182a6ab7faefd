// internal/turn/legal.go
//
// Markable numbers per player for the current phase.

package turn

import (
	"github.com/jwmickey/qwixx/internal/dice"
	"github.com/jwmickey/qwixx/internal/game"
	"github.com/jwmickey/qwixx/internal/sheet"
)

// Legal returns, per row color, the numbers playerID may mark right now.
// Colors with nothing markable are omitted. Cells that would be toggled off
// (marked earlier in this phase) are not included.
func (c *Controller) Legal(s game.State, playerID string) map[sheet.Color][]int {
	out := map[sheet.Color][]int{}
	p, ok := s.Player(playerID)
	if !ok || s.GameStatus != game.StatusPlaying || s.Dice == nil {
		return out
	}

	switch c.phase {
	case PhaseWhiteDice:
		c.legalWhite(s, p, out)
	case PhaseInactivePlayers:
		if playerID != c.activeID {
			c.legalWhite(s, p, out)
		}
	case PhaseColoredDice:
		if playerID != c.activeID || c.coloredMark != nil {
			return out
		}
		for _, col := range sheet.Colors {
			row := p.ScoreSheet.Row(col)
			for _, n := range dice.ColoredSums(*s.Dice, col, s.LockedRows) {
				if sheet.CanMark(row, n) {
					out[col] = append(out[col], n)
				}
			}
		}
	}
	return out
}

func (c *Controller) legalWhite(s game.State, p sheet.Player, out map[sheet.Color][]int) {
	if c.MarkedWhite(p.ID) {
		return
	}
	sum := dice.WhiteSum(*s.Dice)
	for _, col := range sheet.Colors {
		if s.IsLocked(col) && !c.lockedThisTurn(s, col) {
			continue
		}
		if sheet.CanMark(p.ScoreSheet.Row(col), sum) {
			out[col] = []int{sum}
		}
	}
}
