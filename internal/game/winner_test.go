package game

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jwmickey/qwixx/internal/sheet"
)

func scored(id string, total int) sheet.Player {
	return sheet.Player{ID: id, Name: id, TotalScore: total}
}

func ids(players []sheet.Player) []string {
	out := make([]string, len(players))
	for i, p := range players {
		out[i] = p.ID
	}
	return out
}

func TestWinners(t *testing.T) {
	tests := []struct {
		name    string
		players []sheet.Player
		want    []string
	}{
		{"empty", nil, []string{}},
		{"single winner", []sheet.Player{scored("a", 10), scored("b", 30), scored("c", 20)}, []string{"b"}},
		{"tie keeps input order", []sheet.Player{scored("a", 30), scored("b", 5), scored("c", 30)}, []string{"a", "c"}},
		{"all negative", []sheet.Player{scored("a", -10), scored("b", -5)}, []string{"b"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, ids(Winners(tt.players)))
		})
	}
}

func TestStandings(t *testing.T) {
	in := []sheet.Player{scored("a", 10), scored("b", 30), scored("c", 10), scored("d", 40)}
	require.Equal(t, []string{"d", "b", "a", "c"}, ids(Standings(in)))
	require.Equal(t, "a", in[0].ID, "input is not reordered")
}
