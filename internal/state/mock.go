// internal/state/mock.go
package state

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/GisaacPr/Metheus-Extension-sub001/internal/session"
)

// Mock is an in-memory test double for Manager.
type Mock struct {
	mu     sync.Mutex
	media  map[string]MediaState
	saves  int
	closed bool
}

// NewMock creates a new mock state manager for testing.
func NewMock() *Mock {
	return &Mock{media: make(map[string]MediaState)}
}

func (m *Mock) LoadSettings(mediaKey string) (session.Settings, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	st, ok := m.media[mediaKey]
	return st.Settings, ok, nil
}

func (m *Mock) SaveSettings(mediaKey string, s session.Settings) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.media[mediaKey] = MediaState{Key: mediaKey, Settings: s, UpdatedAt: time.Now()}
	m.saves++
}

func (m *Mock) History(_ context.Context, limit int) ([]MediaState, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]MediaState, 0, len(m.media))
	for _, st := range m.media {
		out = append(out, st)
	}
	slices.SortFunc(out, func(a, b MediaState) int { return b.UpdatedAt.Compare(a.UpdatedAt) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *Mock) Forget(mediaKey string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.media, mediaKey)
	return nil
}

func (m *Mock) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

// Test helpers

func (m *Mock) Saves() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.saves
}

func (m *Mock) IsClosed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closed
}

// Verify Mock implements Interface at compile time.
var _ Interface = (*Mock)(nil)
