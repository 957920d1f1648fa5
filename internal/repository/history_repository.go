package repository

import (
	"context"
	"sync"

	"github.com/propdata-pk/propdata/internal/models"
)

// HistoryRepository records completed valuations.
type HistoryRepository interface {
	// Save appends a valuation to the history.
	Save(ctx context.Context, rec *models.ValuationRecord) error

	// Recent returns up to limit valuations, newest first.
	// Returns an empty slice if the history is empty (not an error).
	Recent(ctx context.Context, limit int) ([]models.ValuationRecord, error)

	// Ping reports whether the backing store is reachable.
	Ping(ctx context.Context) error

	// Name identifies the backend in logs and metrics.
	Name() string
}

// memoryHistory keeps the most recent valuations in a fixed-size ring.
type memoryHistory struct {
	mu    sync.Mutex
	buf   []models.ValuationRecord
	next  int
	count int
}

// NewMemoryHistory creates an in-process history that retains at most
// capacity entries, discarding the oldest first.
func NewMemoryHistory(capacity int) HistoryRepository {
	if capacity < 1 {
		capacity = 1
	}
	return &memoryHistory{buf: make([]models.ValuationRecord, capacity)}
}

func (m *memoryHistory) Save(_ context.Context, rec *models.ValuationRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.buf[m.next] = *rec
	m.next = (m.next + 1) % len(m.buf)
	if m.count < len(m.buf) {
		m.count++
	}
	return nil
}

func (m *memoryHistory) Recent(_ context.Context, limit int) ([]models.ValuationRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if limit > m.count {
		limit = m.count
	}
	if limit < 0 {
		limit = 0
	}

	out := make([]models.ValuationRecord, 0, limit)
	for i := 1; i <= limit; i++ {
		idx := (m.next - i + len(m.buf)) % len(m.buf)
		out = append(out, m.buf[idx])
	}
	return out, nil
}

func (m *memoryHistory) Ping(context.Context) error { return nil }

func (m *memoryHistory) Name() string { return "memory" }
