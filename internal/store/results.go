// internal/store/results.go
//
// Final results for the leaderboard.
// Rows are written in the same transaction as the table snapshot and only
// exist while the game is ended; an undo past the end removes them.

package store

import (
	"context"
	"database/sql"

	"github.com/jwmickey/qwixx/internal/game"
)

// Result is one player's final score in a finished game.
type Result struct {
	TableID    string `json:"tableId"`
	PlayerID   string `json:"playerId"`
	Name       string `json:"name"`
	Score      int    `json:"score"`
	Penalties  int    `json:"penalties"`
	Winner     bool   `json:"winner"`
	FinishedAt string `json:"finishedAt"`
}

func saveResults(ctx context.Context, tx *sql.Tx, tableID string, s game.State, now string) error {
	if s.GameStatus != game.StatusEnded {
		_, err := tx.ExecContext(ctx, `DELETE FROM results WHERE table_id=?`, tableID)
		return err
	}

	winners := map[string]bool{}
	for _, p := range game.Winners(s.Players) {
		winners[p.ID] = true
	}
	for _, p := range s.Players {
		_, err := tx.ExecContext(ctx,
			`INSERT OR IGNORE INTO results(table_id, player_id, name, score, penalties, winner, finished_at)
             VALUES(?,?,?,?,?,?,?)`,
			tableID, p.ID, p.Name, p.TotalScore, p.Penalties, winners[p.ID], now,
		)
		if err != nil {
			return err
		}
	}
	return nil
}

// Leaderboard returns the best final scores across all finished games.
// Ties go to the earlier finish.
func (s *SQLite) Leaderboard(ctx context.Context, limit int) ([]Result, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT table_id, player_id, name, score, penalties, winner, finished_at
         FROM results
         ORDER BY score DESC, finished_at ASC
         LIMIT ?`, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Result{}
	for rows.Next() {
		var r Result
		if err := rows.Scan(&r.TableID, &r.PlayerID, &r.Name, &r.Score, &r.Penalties, &r.Winner, &r.FinishedAt); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
