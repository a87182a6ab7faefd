// internal/turn/resume.go
//
// Rebuilding a rolled turn.
// After an undo or a reload the controller only has the game state. The actions
// recorded since the last roll are walked again to recover the turn's marks,
// its phase and the rows locked after the roll.
//
// Classification:
//   - A mark by another player is a white mark. If it follows the active
//     player's colored mark the turn had reached inactive-players.
//   - The active player's first mark is white when it matches the white sum
//     and the white phase has not been passed. Any other mark is colored.
//   - A penalty for the active player is only given by FinishTurn.
//
// A colored mark that happens to equal the white sum is read as white. The
// player then keeps at most one unused slot, never more than the turn allows.

package turn

import (
	"github.com/jwmickey/qwixx/internal/dice"
	"github.com/jwmickey/qwixx/internal/game"
)

var phaseOrder = map[Phase]int{
	PhaseRolling:         0,
	PhaseWhiteDice:       1,
	PhaseColoredDice:     2,
	PhaseInactivePlayers: 3,
}

func (c *Controller) resume(s game.State) {
	c.phase = PhaseWhiteDice
	roll := lastRoll(s.History)
	if roll < 0 {
		return
	}
	white := dice.WhiteSum(*s.Dice)

	for _, a := range s.History[roll+1:] {
		m := Mark{PlayerID: a.PlayerID, Color: a.Color, Number: a.Number}
		switch a.Type {
		case game.ActionMarkNumber:
			// Rows locked before the roll refuse marks, so any marked row
			// was still open at roll time.
			delete(c.lockedAtRoll, a.Color)
			c.replayMark(m, white)
		case game.ActionUnmarkNumber:
			delete(c.pending, m)
			if w, ok := c.whiteMarks[m.PlayerID]; ok && w == m {
				delete(c.whiteMarks, m.PlayerID)
			}
			if c.coloredMark != nil && *c.coloredMark == m {
				c.coloredMark = nil
			}
		case game.ActionLockRow:
			delete(c.lockedAtRoll, a.Color)
		case game.ActionAddPenalty:
			if a.PlayerID == c.activeID {
				c.advance(PhaseInactivePlayers)
			}
		}
	}

	for m := range c.pending {
		if p, ok := s.Player(m.PlayerID); !ok || p.ScoreSheet.Row(m.Color).Locked {
			delete(c.pending, m)
		}
	}
}

func (c *Controller) replayMark(m Mark, white int) {
	switch {
	case m.PlayerID != c.activeID:
		if c.phase == PhaseColoredDice && c.coloredMark != nil {
			c.advance(PhaseInactivePlayers)
		}
		c.whiteMarks[m.PlayerID] = m
	case c.phase == PhaseWhiteDice && m.Number == white && !c.MarkedWhite(m.PlayerID):
		c.whiteMarks[m.PlayerID] = m
	default:
		c.advance(PhaseColoredDice)
		mm := m
		c.coloredMark = &mm
	}
	c.pending[m] = true
}

// advance moves forward to p; earlier marks stop being toggleable.
func (c *Controller) advance(p Phase) {
	if phaseOrder[p] > phaseOrder[c.phase] {
		c.phase = p
		c.pending = map[Mark]bool{}
	}
}

// lastRoll returns the index of the last ROLL_DICE in history, or -1.
func lastRoll(history []game.Action) int {
	for i := len(history) - 1; i >= 0; i-- {
		if history[i].Type == game.ActionRollDice {
			return i
		}
	}
	return -1
}
