package resilience

import (
	"errors"
	"log/slog"
	"sync"
	"time"
)

var (
	ErrCircuitOpen     = errors.New("circuit breaker is open")
	ErrCircuitHalfOpen = errors.New("circuit breaker is half-open (trial call in flight)")
)

type State int

const (
	StateClosed State = iota
	StateOpen
	StateHalfOpen
)

func (s State) String() string {
	switch s {
	case StateClosed:
		return "closed"
	case StateOpen:
		return "open"
	case StateHalfOpen:
		return "half-open"
	}
	return "unknown"
}

// CircuitBreaker stops calling an upstream after threshold consecutive
// failures and lets a single trial call through once timeout has elapsed.
type CircuitBreaker struct {
	name          string
	mu            sync.Mutex
	state         State
	failureCount  int
	lastErrorTime time.Time
	threshold     int
	timeout       time.Duration
	now           func() time.Time
}

func NewCircuitBreaker(name string, threshold int, timeout time.Duration) *CircuitBreaker {
	return &CircuitBreaker{
		name:      name,
		state:     StateClosed,
		threshold: threshold,
		timeout:   timeout,
		now:       time.Now,
	}
}

func (cb *CircuitBreaker) State() State {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	return cb.state
}

// Verdict is how the breaker treats the result of one call.
type Verdict int

const (
	// Failure counts towards the threshold.
	Failure Verdict = iota
	// Success closes the breaker, e.g. a 4xx answer from a healthy upstream.
	Success
	// Ignore leaves the breaker untouched, e.g. the caller gave up.
	Ignore
)

// Execute runs action unless the breaker is open. classify decides what a
// non-nil error means; nil classify treats every error as a Failure.
func (cb *CircuitBreaker) Execute(action func() error, classify func(error) Verdict) error {
	cb.mu.Lock()

	switch cb.state {
	case StateOpen:
		if cb.now().Sub(cb.lastErrorTime) > cb.timeout {
			cb.state = StateHalfOpen
		} else {
			cb.mu.Unlock()
			return ErrCircuitOpen
		}
	case StateHalfOpen:
		cb.mu.Unlock()
		return ErrCircuitHalfOpen
	}

	cb.mu.Unlock()

	err := action()

	cb.mu.Lock()
	defer cb.mu.Unlock()

	verdict := Success
	if err != nil {
		verdict = Failure
		if classify != nil {
			verdict = classify(err)
		}
	}

	switch verdict {
	case Ignore:
		// An abandoned trial call proves nothing; the next call tries again.
		if cb.state == StateHalfOpen {
			cb.state = StateOpen
		}
	case Failure:
		cb.failureCount++
		cb.lastErrorTime = cb.now()

		if cb.failureCount >= cb.threshold || cb.state == StateHalfOpen {
			cb.state = StateOpen
			slog.Warn("Circuit Breaker OPENED", "upstream", cb.name, "failures", cb.failureCount)
		}
	default:
		if cb.state == StateHalfOpen {
			slog.Info("Circuit Breaker RECOVERED", "upstream", cb.name)
		}
		cb.failureCount = 0
		cb.state = StateClosed
	}

	return err
}
