package store

import (
	"sync"

	"github.com/rojanmagar2001/streamcheck/internal/domain"
)

// Memory is the working set: entries keyed by exact URL, first one wins.
type Memory struct {
	mu sync.Mutex

	byURL map[string]struct{}
	order []domain.Entry
}

func NewMemory() *Memory {
	return &Memory{
		byURL: make(map[string]struct{}),
	}
}

func (m *Memory) Add(e domain.Entry) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.byURL[e.URL]; ok {
		return false
	}
	m.byURL[e.URL] = struct{}{}
	m.order = append(m.order, e)
	return true
}

func (m *Memory) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.order)
}

func (m *Memory) Entries() []domain.Entry {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]domain.Entry, len(m.order))
	copy(out, m.order)
	return out
}
