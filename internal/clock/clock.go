// Package clock drives the simulation: it supplies a monotonically increasing
// time in seconds and a per-tick delta.
package clock

import (
	"sync"
	"time"
)

// DefaultMaxDelta caps a single step so that a suspended process does not
// produce one huge jump on resume.
const DefaultMaxDelta = 0.1

// Clock drives the frame loop. Now reports time in seconds since the loop
// started; Tick advances it and returns the new time and the step length.
type Clock interface {
	Now() float64
	Tick() (now, dt float64)
}

// Loop is the real-time driver. Each Tick advances simulation time by the wall
// time elapsed since the previous tick, clamped to MaxDelta.
type Loop struct {
	MaxDelta float64

	mu     sync.Mutex
	source func() time.Time
	last   time.Time
	now    float64
}

// NewLoop creates a loop driver starting at simulation time zero.
func NewLoop(maxDelta float64) *Loop {
	if maxDelta <= 0 {
		maxDelta = DefaultMaxDelta
	}
	return &Loop{
		MaxDelta: maxDelta,
		source:   time.Now,
		last:     time.Now(),
	}
}

// Now returns the current simulation time.
func (l *Loop) Now() float64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.now
}

// Tick advances simulation time and returns the new time and the clamped delta.
func (l *Loop) Tick() (now, dt float64) {
	l.mu.Lock()
	defer l.mu.Unlock()

	current := l.source()
	dt = current.Sub(l.last).Seconds()
	l.last = current

	if dt < 0 {
		dt = 0
	}
	if dt > l.MaxDelta {
		dt = l.MaxDelta
	}
	l.now += dt
	return l.now, dt
}
