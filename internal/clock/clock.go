package clock

import (
	"sync"
	"time"
)

// Clock allows injecting time in domain/services.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

// NewSystem returns a clock backed by time.Now.
func NewSystem() Clock {
	return systemClock{}
}

func (systemClock) Now() time.Time {
	return time.Now().UTC()
}

type fixedClock struct {
	now time.Time
}

// NewFixed returns a clock that always returns the same instant (useful for tests).
func NewFixed(t time.Time) Clock {
	return fixedClock{now: t.UTC()}
}

func (f fixedClock) Now() time.Time {
	return f.now
}

type monotonicClock struct {
	base Clock
	mu   sync.Mutex
	last time.Time
}

// NewMonotonic wraps base so successive readings never go backwards, even if
// the wall clock is stepped. Scan timestamps come from this clock.
func NewMonotonic(base Clock) Clock {
	return &monotonicClock{base: base}
}

func (m *monotonicClock) Now() time.Time {
	now := m.base.Now()

	m.mu.Lock()
	defer m.mu.Unlock()
	if now.Before(m.last) {
		now = m.last
	}
	m.last = now
	return now
}

// Sequence returns a clock that yields the given instants in order and then
// keeps returning the last one. Useful for tests that record several scans.
func Sequence(times ...time.Time) Clock {
	return &sequenceClock{times: times}
}

type sequenceClock struct {
	mu    sync.Mutex
	times []time.Time
	next  int
}

func (s *sequenceClock) Now() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.times) == 0 {
		return time.Time{}
	}
	i := s.next
	if i >= len(s.times) {
		i = len(s.times) - 1
	} else {
		s.next++
	}
	return s.times[i].UTC()
}
