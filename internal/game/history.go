// internal/game/history.go
//
// Undo by replay. History holds every accepted action, so any earlier state is
// rebuilt by folding a prefix of it over Initial.

package game

// Replay folds actions over the initial state. Actions that were accepted when
// first applied are accepted again because Apply is deterministic and rolls
// carry their values.
func Replay(actions []Action) State {
	s := Initial()
	for _, a := range actions {
		s = Apply(s, a)
	}
	return s
}

// Undoable returns how many trailing history entries Undo may remove; undo
// never crosses the most recent ResetGame.
func Undoable(s State) int {
	for i := len(s.History) - 1; i >= 0; i-- {
		if s.History[i].Type == ActionResetGame {
			return len(s.History) - 1 - i
		}
	}
	return len(s.History)
}

// Undo rebuilds s without its last n actions. n is clamped to Undoable(s);
// n <= 0 returns s unchanged.
func Undo(s State, n int) State {
	if n <= 0 {
		return s
	}
	n = min(n, Undoable(s))
	if n == 0 {
		return s
	}
	return Replay(s.History[:len(s.History)-n])
}
