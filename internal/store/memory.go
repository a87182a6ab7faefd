// internal/store/memory.go
//
// Persistence for game tables.
// Defines the Store interface plus an in-memory implementation used in
// development, tests, or when durability is not required.
//
// Characteristics of the memory store:
//   - Records are keyed by table ID in a map.
//   - Concurrency-safe via RWMutex (concurrent reads allowed, writes exclusive).
//   - Records are copied on the way in and out, so callers never share state.
//   - State is lost when the process restarts.

package store

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/jwmickey/qwixx/internal/game"
)

// ErrNotFound is returned when a table ID has no record.
var ErrNotFound = errors.New("not found")

// Record is one persisted table: its game snapshot plus table metadata.
type Record struct {
	ID           string     // Table identifier.
	State        game.State // Full game snapshot including history.
	PasscodeHash string     // Optional bcrypt hash guarding destructive actions.
	UpdatedAt    time.Time  // Set by the store on Save.
}

// Store defines the persistence interface for tables.
// Each Save replaces the whole record atomically.
type Store interface {
	// Save persists or replaces a record.
	Save(ctx context.Context, r Record) error

	// Get retrieves a record by table ID.
	// Returns ErrNotFound if the table does not exist.
	Get(ctx context.Context, id string) (Record, error)
}

// memory is an in-memory map-based Store implementation.
type memory struct {
	mu      sync.RWMutex      // guards records map
	records map[string][]byte // keyed by Record.ID, snapshot JSON
	meta    map[string]Record // metadata without State
}

// NewMemoryStore constructs a new in-memory Store.
func NewMemoryStore() Store {
	return &memory{records: make(map[string][]byte), meta: make(map[string]Record)}
}

// Save encodes the snapshot and stores it with the record metadata.
func (m *memory) Save(ctx context.Context, r Record) error {
	b, err := game.EncodeSnapshot(r.State)
	if err != nil {
		return err
	}
	r.State = game.State{}
	r.UpdatedAt = time.Now().UTC()

	m.mu.Lock()
	defer m.mu.Unlock()
	m.records[r.ID] = b
	m.meta[r.ID] = r
	return nil
}

// Get decodes a fresh copy of the stored snapshot.
func (m *memory) Get(ctx context.Context, id string) (Record, error) {
	m.mu.RLock()
	b, ok := m.records[id]
	r := m.meta[id]
	m.mu.RUnlock()
	if !ok {
		return Record{}, ErrNotFound
	}
	s, err := game.DecodeSnapshot(b)
	if err != nil {
		return Record{}, err
	}
	r.State = s
	return r, nil
}
