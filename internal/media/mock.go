package media

import (
	"context"
	"sync"
	"time"
)

// Mock is a test double for Element.
type Mock struct {
	mu sync.Mutex

	paused    bool
	rate      float64
	position  time.Duration
	seekDelay time.Duration
	seekErr   error

	seekCalls []time.Duration
	rateCalls []float64
	playCalls int
	pauses    int
}

// NewMock creates a paused mock element at rate 1.
func NewMock() *Mock {
	return &Mock{paused: true, rate: 1}
}

// Seek waits for the configured delay, then records the new position.
func (m *Mock) Seek(ctx context.Context, position time.Duration) error {
	m.mu.Lock()
	m.seekCalls = append(m.seekCalls, position)
	delay, err := m.seekDelay, m.seekErr
	m.mu.Unlock()

	if delay > 0 {
		timer := time.NewTimer(delay)
		defer timer.Stop()
		select {
		case <-timer.C:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	if err != nil {
		return err
	}

	m.mu.Lock()
	m.position = position
	m.mu.Unlock()
	return nil
}

func (m *Mock) Play(context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.paused = false
	m.playCalls++
	return nil
}

func (m *Mock) Pause(context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.paused = true
	m.pauses++
	return nil
}

func (m *Mock) SetPlaybackRate(_ context.Context, rate float64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rate = rate
	m.rateCalls = append(m.rateCalls, rate)
	return nil
}

// Test helpers

func (m *Mock) SetSeekDelay(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seekDelay = d
}

func (m *Mock) SetSeekError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seekErr = err
}

func (m *Mock) SeekCalls() []time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]time.Duration(nil), m.seekCalls...)
}

func (m *Mock) RateCalls() []float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]float64(nil), m.rateCalls...)
}

func (m *Mock) Paused() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.paused
}

func (m *Mock) PauseCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.pauses
}

func (m *Mock) PlayCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.playCalls
}

func (m *Mock) Rate() float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.rate
}

func (m *Mock) Position() time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.position
}

// Verify Mock implements Element at compile time.
var _ Element = (*Mock)(nil)
