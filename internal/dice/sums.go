package dice

import (
	"sort"

	"github.com/jwmickey/qwixx/internal/sheet"
)

// Combination is a usable sum. Color is empty for the white sum, which may go
// on any row; otherwise the sum may only go on the row of that color.
type Combination struct {
	Color sheet.Color `json:"color,omitempty"`
	Sum   int         `json:"sum"`
}

// WhiteSum is the sum of the two white dice. Every player may use it.
func WhiteSum(v Values) int {
	return v.White1 + v.White2
}

func isLocked(c sheet.Color, locked []sheet.Color) bool {
	for _, l := range locked {
		if l == c {
			return true
		}
	}
	return false
}

// ColoredSums returns the sums the active player may place on row c: each white
// die plus the die of color c, ascending and de-duplicated. A locked color has
// been removed from play and yields nil.
func ColoredSums(v Values, c sheet.Color, locked []sheet.Color) []int {
	if !c.Valid() || isLocked(c, locked) {
		return nil
	}
	a := v.White1 + v.Colored(c)
	b := v.White2 + v.Colored(c)
	switch {
	case a == b:
		return []int{a}
	case a < b:
		return []int{a, b}
	default:
		return []int{b, a}
	}
}

// ActiveCombinations lists every combination open to the active player: the
// white sum first, then the colored sums per unlocked color in sheet order.
func ActiveCombinations(v Values, locked []sheet.Color) []Combination {
	out := []Combination{{Sum: WhiteSum(v)}}
	for _, c := range sheet.Colors {
		for _, s := range ColoredSums(v, c, locked) {
			out = append(out, Combination{Color: c, Sum: s})
		}
	}
	return out
}

// PossibleSums unions the white sum and every unlocked colored sum, ascending.
func PossibleSums(v Values, locked []sheet.Color) []int {
	seen := map[int]struct{}{}
	for _, c := range ActiveCombinations(v, locked) {
		seen[c.Sum] = struct{}{}
	}
	out := make([]int, 0, len(seen))
	for s := range seen {
		out = append(out, s)
	}
	sort.Ints(out)
	return out
}
