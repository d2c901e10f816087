package engine

import (
	"sync"
	"time"
)

// Clock provides wall time and frame pacing
type Clock interface {
	Now() time.Time
	Sleep(d time.Duration)
}

// SystemClock is the real monotonic clock
type SystemClock struct{}

// Now returns the current time with monotonic clock reading
func (SystemClock) Now() time.Time { return time.Now() }

// Sleep blocks for d
func (SystemClock) Sleep(d time.Duration) { time.Sleep(d) }

// MockClock provides a controllable time source for testing
// Sleep advances the mocked time instead of blocking
type MockClock struct {
	mu          sync.RWMutex
	currentTime time.Time
	slept       []time.Duration
}

// NewMockClock creates a new mock clock with the given start time
func NewMockClock(startTime time.Time) *MockClock {
	return &MockClock{currentTime: startTime}
}

// Now returns the current mocked time
func (m *MockClock) Now() time.Time {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.currentTime
}

// Advance advances the current time by the given duration
func (m *MockClock) Advance(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.currentTime = m.currentTime.Add(d)
}

// Sleep records d and advances the mocked time by it
func (m *MockClock) Sleep(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.slept = append(m.slept, d)
	m.currentTime = m.currentTime.Add(d)
}

// Slept returns every duration passed to Sleep, in order
func (m *MockClock) Slept() []time.Duration {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]time.Duration, len(m.slept))
	copy(out, m.slept)
	return out
}
