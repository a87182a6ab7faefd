package game

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jwmickey/qwixx/internal/dice"
	"github.com/jwmickey/qwixx/internal/sheet"
)

var sampleRoll = dice.Values{White1: 3, White2: 4, Red: 5, Yellow: 2, Green: 6, Blue: 1}

func apply(s State, actions ...Action) State {
	for _, a := range actions {
		s = Apply(s, a)
	}
	return s
}

func playing(t *testing.T, names ...string) State {
	t.Helper()
	s := apply(Initial(), InitializeGame(names, nil), StartGame())
	require.Equal(t, StatusPlaying, s.GameStatus)
	return s
}

func lockRow(s State, playerID string, color sheet.Color) State {
	row := sheet.NewRow(color)
	for i := 0; i < sheet.MinMarksToLock; i++ {
		s = Apply(s, MarkNumber(playerID, color, row.Numbers[i].Number))
	}
	return Apply(s, MarkNumber(playerID, color, sheet.LastNumber(row)))
}

func TestInitializeGame(t *testing.T) {
	s := Apply(Initial(), InitializeGame([]string{"  Alice ", "Bob"}, nil))
	require.Equal(t, StatusSetup, s.GameStatus)
	require.Len(t, s.Players, 2)
	require.Equal(t, "Alice", s.Players[0].Name)
	require.Equal(t, "player-1", s.Players[0].ID)
	require.Equal(t, "player-2", s.Players[1].ID)
	require.Equal(t, sheet.NewScoreSheet(), s.Players[0].ScoreSheet)
	require.Nil(t, s.Dice)
	require.Empty(t, s.LockedRows)
	require.Len(t, s.History, 1)
}

func TestInitializeGameUsesSuppliedIDs(t *testing.T) {
	s := Apply(Initial(), InitializeGame([]string{"Alice", "Bob"}, []string{"a", "b"}))
	require.Equal(t, "a", s.Players[0].ID)
	require.Equal(t, "b", s.Players[1].ID)

	s = Apply(Initial(), InitializeGame([]string{"Alice", "Bob"}, []string{"a", "a"}))
	require.Equal(t, "player-1", s.Players[0].ID)
}

func TestInitializeGameRejectsBadInput(t *testing.T) {
	tests := []struct {
		name  string
		names []string
	}{
		{"one player", []string{"Alice"}},
		{"six players", []string{"a", "b", "c", "d", "e", "f"}},
		{"blank name", []string{"Alice", "   "}},
		{"duplicate name", []string{"Alice", "Alice"}},
		{"duplicate ignoring case", []string{"alice", " ALICE"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start := Initial()
			got := Apply(start, InitializeGame(tt.names, nil))
			require.Equal(t, start, got)
			require.Empty(t, got.History)
		})
	}
}

func TestStartGame(t *testing.T) {
	require.Equal(t, Initial(), Apply(Initial(), StartGame()))

	s := playing(t, "Alice", "Bob")
	again := Apply(s, StartGame())
	require.Equal(t, s, again, "start is a no-op once playing")
}

func TestRollDice(t *testing.T) {
	setup := Apply(Initial(), InitializeGame([]string{"Alice", "Bob"}, nil))
	require.Nil(t, Apply(setup, RollDice(sampleRoll)).Dice, "not playing")

	s := playing(t, "Alice", "Bob")
	s = Apply(s, RollDice(sampleRoll))
	require.NotNil(t, s.Dice)
	require.Equal(t, sampleRoll, *s.Dice)

	again := Apply(s, RollDice(dice.Values{White1: 1, White2: 1, Red: 1, Yellow: 1, Green: 1, Blue: 1}))
	require.Equal(t, s, again, "cannot roll twice in a turn")

	fresh := playing(t, "Alice", "Bob")
	bad := Apply(fresh, RollDice(dice.Values{White1: 0, White2: 1, Red: 1, Yellow: 1, Green: 1, Blue: 7}))
	require.Equal(t, fresh, bad)
}

func TestMarkNumberScenario(t *testing.T) {
	s := playing(t, "Alice", "Bob")
	s = Apply(s, RollDice(sampleRoll))
	alice := s.Players[0].ID
	s = Apply(s, MarkNumber(alice, sheet.Red, 7))

	p, ok := s.Player(alice)
	require.True(t, ok)
	require.Equal(t, 1, p.TotalScore)
	require.True(t, sheet.IsMarked(p.ScoreSheet.Red, 7))
	require.Equal(t, ActionMarkNumber, s.History[len(s.History)-1].Type)
}

func TestMarkNumberRejections(t *testing.T) {
	s := playing(t, "Alice", "Bob")
	alice := s.Players[0].ID
	s = Apply(s, MarkNumber(alice, sheet.Red, 7))

	tests := []struct {
		name   string
		action Action
	}{
		{"out of order", MarkNumber(alice, sheet.Red, 6)},
		{"already marked", MarkNumber(alice, sheet.Red, 7)},
		{"unknown player", MarkNumber("nobody", sheet.Red, 9)},
		{"unknown color", MarkNumber(alice, "purple", 9)},
		{"not on row", MarkNumber(alice, sheet.Red, 13)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, s, Apply(s, tt.action))
		})
	}

	ended := Apply(s, EndGame())
	require.Equal(t, ended, Apply(ended, MarkNumber(alice, sheet.Red, 9)))
}

func TestMarkingLockingNumberLocksRow(t *testing.T) {
	s := playing(t, "Alice", "Bob")
	alice := s.Players[0].ID

	s = lockRow(s, alice, sheet.Red)
	p, _ := s.Player(alice)
	require.True(t, p.ScoreSheet.Red.Locked)
	require.Equal(t, []sheet.Color{sheet.Red}, s.LockedRows)
	require.Equal(t, StatusPlaying, s.GameStatus)
	require.Equal(t, 21, p.TotalScore)

	bob := s.Players[1].ID
	require.Equal(t, s, Apply(s, MarkNumber(bob, sheet.Red, 2)), "globally locked row")

	s = lockRow(s, alice, sheet.Green)
	require.Equal(t, []sheet.Color{sheet.Red, sheet.Green}, s.LockedRows)
	require.Equal(t, StatusPlaying, s.GameStatus, "termination waits for the turn to advance")

	s = Apply(s, NextTurn())
	require.Equal(t, StatusEnded, s.GameStatus)
}

func TestFourMarksDoNotLock(t *testing.T) {
	s := playing(t, "Alice", "Bob")
	alice := s.Players[0].ID
	for _, n := range []int{2, 3, 4, 5, 12} {
		s = Apply(s, MarkNumber(alice, sheet.Yellow, n))
	}
	p, _ := s.Player(alice)
	require.True(t, sheet.IsMarked(p.ScoreSheet.Yellow, 12))
	require.False(t, p.ScoreSheet.Yellow.Locked)
	require.Empty(t, s.LockedRows)
}

func TestMarkOnLockedRowWhenAllowed(t *testing.T) {
	s := playing(t, "Alice", "Bob")
	alice, bob := s.Players[0].ID, s.Players[1].ID

	for _, n := range []int{12, 11, 10, 9, 8} {
		s = Apply(s, MarkNumber(bob, sheet.Blue, n))
	}
	s = lockRow(s, alice, sheet.Blue)
	require.Equal(t, []sheet.Color{sheet.Blue}, s.LockedRows)

	s = Apply(s, MarkNumberOnLockedRow(bob, sheet.Blue, 2))
	p, _ := s.Player(bob)
	require.True(t, p.ScoreSheet.Blue.Locked)
	require.Equal(t, []sheet.Color{sheet.Blue}, s.LockedRows, "a color is locked at most once")
}

func TestUnmarkNumberRestoresScore(t *testing.T) {
	s := playing(t, "Alice", "Bob")
	alice := s.Players[0].ID
	s = Apply(s, MarkNumber(alice, sheet.Green, 10))
	before, _ := s.Player(alice)

	s = Apply(s, MarkNumber(alice, sheet.Green, 5))
	s = Apply(s, UnmarkNumber(alice, sheet.Green, 5))
	after, _ := s.Player(alice)
	require.Equal(t, before.TotalScore, after.TotalScore)
	require.False(t, sheet.IsMarked(after.ScoreSheet.Green, 5))

	require.Equal(t, s, Apply(s, UnmarkNumber(alice, sheet.Green, 4)), "not marked")
}

func TestUnmarkOnLockedRowIsRejected(t *testing.T) {
	s := playing(t, "Alice", "Bob")
	alice := s.Players[0].ID
	s = lockRow(s, alice, sheet.Red)
	require.Equal(t, s, Apply(s, UnmarkNumber(alice, sheet.Red, 12)))
}

func TestLockRow(t *testing.T) {
	s := playing(t, "Alice", "Bob")
	s = Apply(s, LockRow(sheet.Yellow))
	require.Equal(t, []sheet.Color{sheet.Yellow}, s.LockedRows)
	require.Equal(t, s, Apply(s, LockRow(sheet.Yellow)))
	require.Equal(t, s, Apply(s, LockRow("purple")))
}

func TestAddPenaltyScenario(t *testing.T) {
	s := playing(t, "Alice", "Bob")
	alice := s.Players[0].ID
	for i := 0; i < 4; i++ {
		s = Apply(s, AddPenalty(alice))
	}
	p, _ := s.Player(alice)
	require.Equal(t, 4, p.Penalties)
	require.Equal(t, -20, p.TotalScore)
	require.Equal(t, StatusPlaying, s.GameStatus)

	s = Apply(s, AddPenalty(alice))
	p, _ = s.Player(alice)
	require.Equal(t, 4, p.Penalties, "penalties are capped")

	require.Equal(t, s, Apply(s, AddPenalty("nobody")))

	s = Apply(s, NextTurn())
	require.Equal(t, StatusEnded, s.GameStatus)
}

func TestNextTurnAdvancesAndClearsDice(t *testing.T) {
	s := playing(t, "Alice", "Bob", "Cara")
	s = apply(s, RollDice(sampleRoll), NextTurn())
	require.Equal(t, 1, s.CurrentPlayerIndex)
	require.Nil(t, s.Dice)

	s = apply(s, NextTurn(), NextTurn())
	require.Equal(t, 0, s.CurrentPlayerIndex, "wraps around")

	setup := Apply(Initial(), InitializeGame([]string{"Alice", "Bob"}, nil))
	require.Equal(t, setup, Apply(setup, NextTurn()))
}

func TestShouldEnd(t *testing.T) {
	s := playing(t, "Alice", "Bob")
	require.False(t, ShouldEnd(s))

	s = Apply(s, LockRow(sheet.Red))
	require.False(t, ShouldEnd(s))

	s = Apply(s, LockRow(sheet.Blue))
	require.True(t, ShouldEnd(s))

	p := playing(t, "Alice", "Bob")
	for i := 0; i < 3; i++ {
		p = Apply(p, AddPenalty(p.Players[1].ID))
	}
	require.False(t, ShouldEnd(p))
	p = Apply(p, AddPenalty(p.Players[1].ID))
	require.True(t, ShouldEnd(p))
}

func TestEndGame(t *testing.T) {
	s := playing(t, "Alice", "Bob")
	s = Apply(s, EndGame())
	require.Equal(t, StatusEnded, s.GameStatus)
	require.Equal(t, s, Apply(s, EndGame()))
	require.Equal(t, s, Apply(s, NextTurn()))
}

func TestResetGame(t *testing.T) {
	s := playing(t, "Alice", "Bob")
	s = Apply(s, ResetGame())
	require.Empty(t, s.Players)
	require.Equal(t, StatusSetup, s.GameStatus)
	require.Equal(t, []Action{ResetGame()}, s.History)
}

func TestLoadGame(t *testing.T) {
	saved := playing(t, "Alice", "Bob")
	saved = Apply(saved, MarkNumber(saved.Players[0].ID, sheet.Red, 4))

	s := Apply(Initial(), LoadGame(saved))
	require.Equal(t, saved, s)

	broken := saved
	broken.CurrentPlayerIndex = 9
	require.Equal(t, Initial(), Apply(Initial(), LoadGame(broken)))
}

func TestApplyDoesNotAlias(t *testing.T) {
	s := playing(t, "Alice", "Bob")
	alice := s.Players[0].ID
	next := Apply(s, MarkNumber(alice, sheet.Red, 2))

	require.False(t, sheet.IsMarked(s.Players[0].ScoreSheet.Red, 2))
	require.True(t, sheet.IsMarked(next.Players[0].ScoreSheet.Red, 2))
	require.Len(t, s.History, 2)
	require.Len(t, next.History, 3)
}

func TestUnknownActionIsNoop(t *testing.T) {
	s := playing(t, "Alice", "Bob")
	require.Equal(t, s, Apply(s, Action{Type: "BOGUS"}))
}
