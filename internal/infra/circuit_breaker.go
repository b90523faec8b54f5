package infra

import (
	"errors"
	"sync"
	"time"
)

// CircuitBreaker protects the SMTP relay from hammering when it is down.
// Closed → failures accumulate → Open (calls rejected) → after cooldown one
// probe is allowed (HalfOpen) → success closes, failure reopens.
type CircuitBreaker struct {
	mu          sync.Mutex
	state       cbState
	failures    int
	maxFailures int
	cooldown    time.Duration
	openedAt    time.Time
}

type cbState int

const (
	cbClosed cbState = iota
	cbOpen
	cbHalfOpen
)

// ErrCircuitOpen is returned while the breaker is rejecting calls.
var ErrCircuitOpen = errors.New("circuit breaker open")

func NewCircuitBreaker(maxFailures int, cooldown time.Duration) *CircuitBreaker {
	return &CircuitBreaker{
		maxFailures: maxFailures,
		cooldown:    cooldown,
	}
}

// Execute runs fn under the breaker's state machine.
func (cb *CircuitBreaker) Execute(fn func() error) error {
	cb.mu.Lock()
	switch cb.state {
	case cbOpen:
		if time.Since(cb.openedAt) < cb.cooldown {
			cb.mu.Unlock()
			return ErrCircuitOpen
		}
		cb.state = cbHalfOpen
	case cbHalfOpen:
		// only one probe at a time
		cb.mu.Unlock()
		return ErrCircuitOpen
	}
	cb.mu.Unlock()

	err := fn()

	cb.mu.Lock()
	defer cb.mu.Unlock()
	if err != nil {
		cb.failures++
		if cb.state == cbHalfOpen || cb.failures >= cb.maxFailures {
			cb.state = cbOpen
			cb.openedAt = time.Now()
		}
		return err
	}
	cb.state = cbClosed
	cb.failures = 0
	return nil
}
