package ratelimit

import (
	"context"
	"sync"
	"time"
)

// MemoryLog is an in-process call log for single-process deployments.
type MemoryLog struct {
	mu    sync.Mutex
	times []time.Time
}

// NewMemoryLog returns an empty in-memory call log.
func NewMemoryLog() *MemoryLog {
	return &MemoryLog{}
}

// Record appends t to the log.
func (m *MemoryLog) Record(_ context.Context, t time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.times = append(m.times, t)
	return nil
}

// Recent returns timestamps at or after cutoff, oldest first, and drops
// everything older.
func (m *MemoryLog) Recent(_ context.Context, cutoff time.Time) ([]time.Time, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	keep := m.times[:0]
	for _, t := range m.times {
		if !t.Before(cutoff) {
			keep = append(keep, t)
		}
	}
	m.times = keep

	out := make([]time.Time, len(m.times))
	copy(out, m.times)
	return out, nil
}
