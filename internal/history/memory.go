package history

import (
	"context"
	"fmt"
	"slices"
	"sync"
)

// DefaultMemoryCapacity bounds a MemoryStore created with no capacity.
const DefaultMemoryCapacity = 1000

// MemoryStore keeps the newest calculations in process memory, dropping the
// oldest once capacity is reached.
type MemoryStore struct {
	capacity int

	mu    sync.RWMutex
	calcs []Calculation // newest first
}

// NewMemoryStore returns an empty store holding at most capacity
// calculations; capacity <= 0 means DefaultMemoryCapacity.
func NewMemoryStore(capacity int) *MemoryStore {
	if capacity <= 0 {
		capacity = DefaultMemoryCapacity
	}
	return &MemoryStore{capacity: capacity}
}

func (m *MemoryStore) Save(ctx context.Context, calc Calculation) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if calc.ID == "" {
		return fmt.Errorf("calculation id is required")
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.calcs {
		if existing.ID == calc.ID {
			return fmt.Errorf("calculation %s already stored", calc.ID)
		}
	}
	m.calcs = slices.Insert(m.calcs, 0, calc)
	if len(m.calcs) > m.capacity {
		clear(m.calcs[m.capacity:])
		m.calcs = m.calcs[:m.capacity]
	}
	return nil
}

func (m *MemoryStore) Get(ctx context.Context, id string) (Calculation, error) {
	if err := ctx.Err(); err != nil {
		return Calculation{}, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, calc := range m.calcs {
		if calc.ID == id {
			return calc, nil
		}
	}
	return Calculation{}, ErrNotFound
}

func (m *MemoryStore) List(ctx context.Context, limit int) ([]Calculation, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = DefaultListLimit
	}

	m.mu.RLock()
	defer m.mu.RUnlock()
	n := min(limit, len(m.calcs))
	return slices.Clone(m.calcs[:n]), nil
}

func (m *MemoryStore) Close() error {
	return nil
}
