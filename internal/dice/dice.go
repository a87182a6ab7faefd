// Package dice rolls the six Qwixx dice and enumerates the sums each role may use.
//
// Rolling is the only non-deterministic step of a game. Callers roll through a
// Roller and hand the resulting Values to the game reducer, so replays reuse the
// captured values instead of rolling again.
package dice

import (
	crand "crypto/rand"
	"encoding/binary"
	"errors"
	"fmt"
	"math/rand"
	"sync"

	"github.com/jwmickey/qwixx/internal/sheet"
)

// Faces is the number of sides on every die.
const Faces = 6

// ErrInvalidValue indicates a die value outside 1..Faces.
var ErrInvalidValue = errors.New("dice values must be between 1 and 6")

// Values holds one roll of all six dice.
type Values struct {
	White1 int `json:"white1"`
	White2 int `json:"white2"`
	Red    int `json:"red"`
	Yellow int `json:"yellow"`
	Green  int `json:"green"`
	Blue   int `json:"blue"`
}

// Colored returns the value of the die matching c, or 0 for an unknown color.
func (v Values) Colored(c sheet.Color) int {
	switch c {
	case sheet.Red:
		return v.Red
	case sheet.Yellow:
		return v.Yellow
	case sheet.Green:
		return v.Green
	case sheet.Blue:
		return v.Blue
	}
	return 0
}

// Validate reports ErrInvalidValue if any die is out of range.
func (v Values) Validate() error {
	for _, d := range []int{v.White1, v.White2, v.Red, v.Yellow, v.Green, v.Blue} {
		if d < 1 || d > Faces {
			return fmt.Errorf("%w: got %d", ErrInvalidValue, d)
		}
	}
	return nil
}

// Source is the randomness provider for rolls.
type Source interface {
	// Intn returns a non-negative random int in [0, n).
	Intn(n int) int
}

// Roller produces independent uniform rolls. Safe for concurrent use.
type Roller struct {
	mu  sync.Mutex
	src Source
}

// NewRoller wraps src.
func NewRoller(src Source) *Roller {
	return &Roller{src: src}
}

// NewSeededRoller returns a Roller over math/rand seeded with seed.
// The same seed always yields the same sequence of rolls.
func NewSeededRoller(seed int64) *Roller {
	return NewRoller(rand.New(rand.NewSource(seed)))
}

// NewSeed generates a random seed using crypto/rand.
func NewSeed() (int64, error) {
	var b [8]byte
	if _, err := crand.Read(b[:]); err != nil {
		return 0, fmt.Errorf("read random seed: %w", err)
	}
	return int64(binary.LittleEndian.Uint64(b[:])), nil
}

// RollAll samples each of the six dice uniformly from 1..Faces.
func (r *Roller) RollAll() Values {
	r.mu.Lock()
	defer r.mu.Unlock()
	return Values{
		White1: r.die(),
		White2: r.die(),
		Red:    r.die(),
		Yellow: r.die(),
		Green:  r.die(),
		Blue:   r.die(),
	}
}

func (r *Roller) die() int { return r.src.Intn(Faces) + 1 }
