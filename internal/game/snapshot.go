// internal/game/snapshot.go
//
// Snapshot JSON encoding. Decoding normalizes missing collections and rejects
// snapshots that fail ValidateState.

package game

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/jwmickey/qwixx/internal/sheet"
)

// InvalidSnapshotError lists the consistency problems found in a decoded snapshot.
type InvalidSnapshotError struct {
	Messages []string
}

func (e *InvalidSnapshotError) Error() string {
	return "invalid snapshot: " + strings.Join(e.Messages, "; ")
}

// EncodeSnapshot serializes s as plain JSON.
func EncodeSnapshot(s State) ([]byte, error) {
	b, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("encode snapshot: %w", err)
	}
	return b, nil
}

// DecodeSnapshot parses and validates a snapshot produced by EncodeSnapshot.
func DecodeSnapshot(b []byte) (State, error) {
	var s State
	if err := json.Unmarshal(b, &s); err != nil {
		return State{}, fmt.Errorf("decode snapshot: %w", err)
	}
	normalize(&s)
	if msgs := ValidateState(s); len(msgs) > 0 {
		return State{}, &InvalidSnapshotError{Messages: msgs}
	}
	return s, nil
}

// normalize replaces absent collections with empty ones.
func normalize(s *State) {
	if s.Players == nil {
		s.Players = []sheet.Player{}
	}
	if s.LockedRows == nil {
		s.LockedRows = []sheet.Color{}
	}
	if s.History == nil {
		s.History = []Action{}
	}
}
