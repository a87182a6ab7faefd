package table

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jwmickey/qwixx/internal/dice"
	"github.com/jwmickey/qwixx/internal/game"
	"github.com/jwmickey/qwixx/internal/sheet"
	"github.com/jwmickey/qwixx/internal/store"
	"github.com/jwmickey/qwixx/internal/turn"
)

var roll = dice.Values{White1: 3, White2: 4, Red: 5, Yellow: 2, Green: 6, Blue: 1}

func newManager(st store.Store) *Manager {
	return NewManager(st, dice.NewSeededRoller(7))
}

func ids(v View) (string, string) {
	return v.State.Players[0].ID, v.State.Players[1].ID
}

func TestCreateStartsGame(t *testing.T) {
	m := newManager(store.NewMemoryStore())
	tb, err := m.Create(context.Background(), []string{"Alice", "Bob"}, "")
	require.NoError(t, err)

	v := tb.View()
	require.Equal(t, tb.ID(), v.TableID)
	require.Equal(t, game.StatusPlaying, v.State.GameStatus)
	require.Equal(t, turn.PhaseRolling, v.Phase)
	a, b := ids(v)
	require.NotEqual(t, a, b)
	require.Equal(t, a, v.ActivePlayerID)
	require.False(t, tb.HasPasscode())
}

func TestCreateRejectsBadNames(t *testing.T) {
	m := newManager(store.NewMemoryStore())
	_, err := m.Create(context.Background(), []string{"Alice", "alice"}, "")
	var se *SetupError
	require.ErrorAs(t, err, &se)
	require.Equal(t, []string{"Player names must be unique"}, se.Messages)
}

func TestPlayThroughTurn(t *testing.T) {
	ctx := context.Background()
	m := newManager(store.NewMemoryStore())
	tb, err := m.Create(ctx, []string{"Alice", "Bob"}, "")
	require.NoError(t, err)
	alice, bob := ids(tb.View())

	_, err = tb.RollValues(ctx, roll)
	require.NoError(t, err)
	v, err := tb.Mark(ctx, bob, sheet.Green, 7)
	require.NoError(t, err)
	require.Len(t, v.Pending, 1)

	_, err = tb.FinishWhiteDice(ctx)
	require.NoError(t, err)
	require.Equal(t, map[sheet.Color][]int{
		sheet.Red: {8, 9}, sheet.Yellow: {5, 6}, sheet.Green: {9, 10}, sheet.Blue: {4, 5},
	}, tb.Legal(alice))

	_, err = tb.Mark(ctx, alice, sheet.Red, 9)
	require.NoError(t, err)
	_, err = tb.FinishTurn(ctx)
	require.NoError(t, err)
	v, err = tb.NextPlayer(ctx)
	require.NoError(t, err)
	require.Equal(t, bob, v.ActivePlayerID)
	require.Equal(t, turn.PhaseRolling, v.Phase)
	require.Nil(t, v.State.Dice)

	v, err = tb.Roll(ctx)
	require.NoError(t, err)
	require.NotNil(t, v.State.Dice)
	require.NoError(t, v.State.Dice.Validate())
}

func TestRefusedActionLeavesTableUnchanged(t *testing.T) {
	ctx := context.Background()
	m := newManager(store.NewMemoryStore())
	tb, err := m.Create(ctx, []string{"Alice", "Bob"}, "")
	require.NoError(t, err)
	before := tb.Snapshot()

	_, err = tb.FinishTurn(ctx)
	require.ErrorIs(t, err, turn.ErrWrongPhase)
	_, err = tb.RollValues(ctx, dice.Values{White1: 7, White2: 1, Red: 1, Yellow: 1, Green: 1, Blue: 1})
	require.ErrorIs(t, err, dice.ErrInvalidValue)
	require.Len(t, tb.Snapshot().History, len(before.History))
}

func TestGetReloadsFromStore(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemoryStore()
	tb, err := newManager(st).Create(ctx, []string{"Alice", "Bob"}, "secret")
	require.NoError(t, err)
	_, err = tb.RollValues(ctx, roll)
	require.NoError(t, err)

	other := newManager(st)
	got, err := other.Get(ctx, tb.ID())
	require.NoError(t, err)
	require.Equal(t, turn.PhaseWhiteDice, got.View().Phase)
	require.Equal(t, roll, *got.View().State.Dice)
	require.True(t, got.HasPasscode())
	require.NoError(t, got.CheckPasscode("secret"))
	require.ErrorIs(t, got.CheckPasscode("nope"), ErrWrongPasscode)

	again, err := other.Get(ctx, tb.ID())
	require.NoError(t, err)
	require.Same(t, got, again)

	_, err = other.Get(ctx, "missing")
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestUndoRebuildsController(t *testing.T) {
	ctx := context.Background()
	tb, err := newManager(store.NewMemoryStore()).Create(ctx, []string{"Alice", "Bob"}, "")
	require.NoError(t, err)
	alice, _ := ids(tb.View())

	_, err = tb.RollValues(ctx, roll)
	require.NoError(t, err)
	_, err = tb.Mark(ctx, alice, sheet.Red, 7)
	require.NoError(t, err)

	v, err := tb.Undo(ctx, 2)
	require.NoError(t, err)
	require.Nil(t, v.State.Dice)
	require.Equal(t, turn.PhaseRolling, v.Phase)
	require.Equal(t, 0, sheet.MarkedCount(v.State.Players[0].ScoreSheet.Red))

	_, err = tb.Undo(ctx, 0)
	require.ErrorIs(t, err, ErrRejected)
}

func TestResetThenSetup(t *testing.T) {
	ctx := context.Background()
	tb, err := newManager(store.NewMemoryStore()).Create(ctx, []string{"Alice", "Bob"}, "")
	require.NoError(t, err)

	v, err := tb.Reset(ctx)
	require.NoError(t, err)
	require.Equal(t, game.StatusSetup, v.State.GameStatus)
	require.Empty(t, v.State.Players)

	_, err = tb.Undo(ctx, 1)
	require.ErrorIs(t, err, ErrRejected, "undo never crosses a reset")

	v, err = tb.Setup(ctx, []string{"Carol", "Dan", "Eve"})
	require.NoError(t, err)
	require.Len(t, v.State.Players, 3)
	require.Equal(t, game.StatusPlaying, v.State.GameStatus)
}

func TestLoadAndEnd(t *testing.T) {
	ctx := context.Background()
	tb, err := newManager(store.NewMemoryStore()).Create(ctx, []string{"Alice", "Bob"}, "")
	require.NoError(t, err)

	snap := game.Initial()
	snap = game.Apply(snap, game.InitializeGame([]string{"X", "Y"}, []string{"x", "y"}))
	snap = game.Apply(snap, game.StartGame())
	snap = game.Apply(snap, game.RollDice(roll))

	v, err := tb.Load(ctx, snap)
	require.NoError(t, err)
	require.Equal(t, "x", v.ActivePlayerID)
	require.Equal(t, turn.PhaseWhiteDice, v.Phase)

	bad := snap
	bad.CurrentPlayerIndex = 9
	_, err = tb.Load(ctx, bad)
	require.ErrorIs(t, err, ErrInvalidSnapshot)

	v, err = tb.End(ctx)
	require.NoError(t, err)
	require.Equal(t, game.StatusEnded, v.State.GameStatus)
	_, err = tb.End(ctx)
	require.ErrorIs(t, err, ErrRejected)
}

func TestSummary(t *testing.T) {
	ctx := context.Background()
	tb, err := newManager(store.NewMemoryStore()).Create(ctx, []string{"Alice", "Bob"}, "")
	require.NoError(t, err)
	alice, bob := ids(tb.View())

	_, err = tb.RollValues(ctx, roll)
	require.NoError(t, err)
	_, err = tb.Mark(ctx, bob, sheet.Red, 7)
	require.NoError(t, err)
	_, err = tb.FinishWhiteDice(ctx)
	require.NoError(t, err)
	_, err = tb.FinishTurn(ctx)
	require.NoError(t, err)

	s := tb.Summary()
	require.Equal(t, game.StatusPlaying, s.Status)
	require.Empty(t, s.Winners)
	require.Equal(t, bob, s.Standings[0].ID)
	require.Equal(t, sheet.PenaltyPoints, s.Breakdowns[alice].Penalties)
	require.Equal(t, 1, s.Breakdowns[bob].Total)

	_, err = tb.End(ctx)
	require.NoError(t, err)
	s = tb.Summary()
	require.Len(t, s.Winners, 1)
	require.Equal(t, bob, s.Winners[0].ID)
}

type failingStore struct {
	store.Store
	fail bool
}

var errDisk = errors.New("disk full")

func (f *failingStore) Save(ctx context.Context, r store.Record) error {
	if f.fail {
		return errDisk
	}
	return f.Store.Save(ctx, r)
}

func TestSaveFailureRollsBack(t *testing.T) {
	ctx := context.Background()
	st := &failingStore{Store: store.NewMemoryStore()}
	tb, err := newManager(st).Create(ctx, []string{"Alice", "Bob"}, "")
	require.NoError(t, err)

	st.fail = true
	v, err := tb.RollValues(ctx, roll)
	require.ErrorIs(t, err, errDisk)
	require.Nil(t, v.State.Dice)
	require.Equal(t, turn.PhaseRolling, tb.View().Phase)

	st.fail = false
	_, err = tb.RollValues(ctx, roll)
	require.NoError(t, err)
}

func TestUndoKeepsOtherMarksThisTurn(t *testing.T) {
	ctx := context.Background()
	tb, err := newManager(store.NewMemoryStore()).Create(ctx, []string{"Alice", "Bob"}, "")
	require.NoError(t, err)
	alice, bob := ids(tb.View())

	_, err = tb.RollValues(ctx, roll)
	require.NoError(t, err)
	_, err = tb.Mark(ctx, alice, sheet.Red, 7)
	require.NoError(t, err)
	_, err = tb.Mark(ctx, bob, sheet.Yellow, 7)
	require.NoError(t, err)

	v, err := tb.Undo(ctx, 1)
	require.NoError(t, err)
	require.Equal(t, turn.PhaseWhiteDice, v.Phase)
	require.Equal(t, []turn.Mark{{PlayerID: alice, Color: sheet.Red, Number: 7}}, v.Pending)

	_, err = tb.Mark(ctx, alice, sheet.Green, 7)
	require.ErrorIs(t, err, turn.ErrAlreadyMarked)
	_, err = tb.Mark(ctx, bob, sheet.Green, 7)
	require.NoError(t, err)
}

func TestUndoKeepsActivePlayerColoredMark(t *testing.T) {
	ctx := context.Background()
	tb, err := newManager(store.NewMemoryStore()).Create(ctx, []string{"Alice", "Bob"}, "")
	require.NoError(t, err)
	alice, bob := ids(tb.View())

	_, err = tb.RollValues(ctx, roll)
	require.NoError(t, err)
	_, err = tb.FinishWhiteDice(ctx)
	require.NoError(t, err)
	_, err = tb.Mark(ctx, alice, sheet.Red, 8)
	require.NoError(t, err)
	_, err = tb.FinishTurn(ctx)
	require.NoError(t, err)
	_, err = tb.Mark(ctx, bob, sheet.Yellow, 7)
	require.NoError(t, err)

	v, err := tb.Undo(ctx, 1)
	require.NoError(t, err)
	require.Equal(t, turn.PhaseColoredDice, v.Phase)
	_, err = tb.Mark(ctx, alice, sheet.Blue, 5)
	require.ErrorIs(t, err, turn.ErrAlreadyMarked)
	_, err = tb.Mark(ctx, alice, sheet.Green, 7)
	require.ErrorIs(t, err, turn.ErrAlreadyMarked)

	v, err = tb.FinishTurn(ctx)
	require.NoError(t, err)
	require.Zero(t, v.State.Players[0].Penalties)
	_, err = tb.Mark(ctx, alice, sheet.Green, 7)
	require.ErrorIs(t, err, turn.ErrActivePlayer)
}

func TestReloadMidTurnKeepsMarks(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemoryStore()
	tb, err := newManager(st).Create(ctx, []string{"Alice", "Bob"}, "")
	require.NoError(t, err)
	alice, bob := ids(tb.View())
	_, err = tb.RollValues(ctx, roll)
	require.NoError(t, err)
	_, err = tb.Mark(ctx, bob, sheet.Yellow, 7)
	require.NoError(t, err)

	got, err := newManager(st).Get(ctx, tb.ID())
	require.NoError(t, err)
	_, err = got.Mark(ctx, bob, sheet.Blue, 7)
	require.ErrorIs(t, err, turn.ErrAlreadyMarked)
	_, err = got.Mark(ctx, alice, sheet.Blue, 7)
	require.NoError(t, err)
}

func TestSetupOnlyFromSetupStatus(t *testing.T) {
	ctx := context.Background()
	tb, err := newManager(store.NewMemoryStore()).Create(ctx, []string{"Alice", "Bob"}, "")
	require.NoError(t, err)
	before := tb.Snapshot()

	_, err = tb.Setup(ctx, []string{"Mallory", "Eve"})
	require.ErrorIs(t, err, ErrRejected)
	require.Equal(t, before.Players, tb.Snapshot().Players)

	_, err = tb.End(ctx)
	require.NoError(t, err)
	_, err = tb.Setup(ctx, []string{"Mallory", "Eve"})
	require.ErrorIs(t, err, ErrRejected)
}
