// internal/sheet/sheet.go
//
// Score sheet rules.
// Responsibilities:
//   - Build rows in their fixed direction (red/yellow ascending, green/blue descending).
//   - Decide whether a number may be marked (left to right, skipped cells are lost).
//   - Decide whether a mark locks a row (last number, enough prior marks).
//   - Score rows (triangular numbers) and players (rows plus penalties).
//
// All functions take and return values; nothing here mutates shared state.

package sheet

// NewRow builds an unmarked, unlocked row for c.
func NewRow(c Color) ColorRow {
	row := ColorRow{Color: c}
	for i := 0; i < RowLength; i++ {
		n := 2 + i
		if !c.Ascending() {
			n = 12 - i
		}
		row.Numbers[i] = MarkedNumber{Number: n}
	}
	return row
}

// NewScoreSheet builds a fully populated sheet.
func NewScoreSheet() ScoreSheet {
	return ScoreSheet{
		Red:    NewRow(Red),
		Yellow: NewRow(Yellow),
		Green:  NewRow(Green),
		Blue:   NewRow(Blue),
	}
}

// NewPlayer builds a player with a fresh sheet and no penalties.
func NewPlayer(id, name string) Player {
	return Player{ID: id, Name: name, ScoreSheet: NewScoreSheet()}
}

// Row returns a copy of the row for c. Unknown colors yield a zero row.
func (s ScoreSheet) Row(c Color) ColorRow {
	switch c {
	case Red:
		return s.Red
	case Yellow:
		return s.Yellow
	case Green:
		return s.Green
	case Blue:
		return s.Blue
	}
	return ColorRow{}
}

// WithRow returns a copy of s with the row for row.Color replaced.
func (s ScoreSheet) WithRow(row ColorRow) ScoreSheet {
	switch row.Color {
	case Red:
		s.Red = row
	case Yellow:
		s.Yellow = row
	case Green:
		s.Green = row
	case Blue:
		s.Blue = row
	}
	return s
}

// IndexOf returns the position of number in row order, or -1.
func IndexOf(row ColorRow, number int) int {
	for i, n := range row.Numbers {
		if n.Number == number {
			return i
		}
	}
	return -1
}

// MarkedCount returns the number of marked cells.
func MarkedCount(row ColorRow) int {
	count := 0
	for _, n := range row.Numbers {
		if n.Marked {
			count++
		}
	}
	return count
}

// LastNumber returns the final number of the row in its direction (12 or 2).
func LastNumber(row ColorRow) int {
	return row.Numbers[RowLength-1].Number
}

// rightmostMarked returns the index of the rightmost marked cell, or -1.
func rightmostMarked(row ColorRow) int {
	for i := RowLength - 1; i >= 0; i-- {
		if row.Numbers[i].Marked {
			return i
		}
	}
	return -1
}

// CanMark reports whether number may be marked on row.
//
// Rules:
//   - Locked rows accept nothing.
//   - The number must be on the row and not yet marked.
//   - The number must sit strictly right of every existing mark.
func CanMark(row ColorRow, number int) bool {
	if row.Locked {
		return false
	}
	idx := IndexOf(row, number)
	if idx == -1 || row.Numbers[idx].Marked {
		return false
	}
	return idx > rightmostMarked(row)
}

// CanLock reports whether marking number closes the row: number must be the
// row's last number and the row must already carry MinMarksToLock marks.
func CanLock(row ColorRow, number int) bool {
	if row.Locked || row.Color == "" {
		return false
	}
	if number != LastNumber(row) {
		return false
	}
	return MarkedCount(row) >= MinMarksToLock
}

// Mark returns row with number marked. The caller checks CanMark first.
func Mark(row ColorRow, number int) ColorRow {
	if idx := IndexOf(row, number); idx >= 0 {
		row.Numbers[idx].Marked = true
	}
	return row
}

// Unmark returns row with number cleared.
func Unmark(row ColorRow, number int) ColorRow {
	if idx := IndexOf(row, number); idx >= 0 {
		row.Numbers[idx].Marked = false
	}
	return row
}

// IsMarked reports whether number is marked on row.
func IsMarked(row ColorRow, number int) bool {
	idx := IndexOf(row, number)
	return idx >= 0 && row.Numbers[idx].Marked
}

// RowScore is the triangular number of the marked count.
func RowScore(row ColorRow) int {
	n := MarkedCount(row)
	return n * (n + 1) / 2
}

// TotalScore sums the four rows and the penalty points.
func TotalScore(p Player) int {
	total := 0
	for _, c := range Colors {
		total += RowScore(p.ScoreSheet.Row(c))
	}
	return total + p.Penalties*PenaltyPoints
}

// Recompute returns p with TotalScore refreshed from scratch.
func Recompute(p Player) Player {
	p.TotalScore = TotalScore(p)
	return p
}

// Breakdown itemizes a player's score.
type Breakdown struct {
	Rows      map[Color]int `json:"rows"`
	Penalties int           `json:"penalties"`
	Total     int           `json:"total"`
}

// ScoreBreakdown returns per-row scores and penalty points for p.
func ScoreBreakdown(p Player) Breakdown {
	b := Breakdown{Rows: make(map[Color]int, len(Colors))}
	for _, c := range Colors {
		b.Rows[c] = RowScore(p.ScoreSheet.Row(c))
		b.Total += b.Rows[c]
	}
	b.Penalties = p.Penalties * PenaltyPoints
	b.Total += b.Penalties
	return b
}
