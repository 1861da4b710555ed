package resilience

import (
	"errors"
	"sync"
	"time"
)

var ErrOpen = errors.New("circuit breaker is open")

type State string

const (
	StateClosed   State = "closed"
	StateOpen     State = "open"
	StateHalfOpen State = "half_open"
)

type BreakerConfig struct {
	Enabled          bool
	FailureThreshold int
	Cooldown         time.Duration
}

func DefaultBreakerConfig() BreakerConfig {
	return BreakerConfig{
		Enabled:          true,
		FailureThreshold: 5,
		Cooldown:         15 * time.Second,
	}
}

// Breaker trips after FailureThreshold consecutive failures. Once Cooldown
// has elapsed a single trial call is let through; its outcome closes or
// re-opens the circuit. A disabled Breaker runs every call.
type Breaker struct {
	mu        sync.Mutex
	enabled   bool
	threshold int
	cooldown  time.Duration

	failures  int
	openUntil time.Time
	trialing  bool
	now       func() time.Time
}

func NewBreaker(cfg BreakerConfig) *Breaker {
	defaults := DefaultBreakerConfig()
	if cfg.FailureThreshold < 1 {
		cfg.FailureThreshold = defaults.FailureThreshold
	}
	if cfg.Cooldown <= 0 {
		cfg.Cooldown = defaults.Cooldown
	}

	return &Breaker{
		enabled:   cfg.Enabled,
		threshold: cfg.FailureThreshold,
		cooldown:  cfg.Cooldown,
		now:       time.Now,
	}
}

// Do runs fn unless the circuit is open. isFailure decides which errors count
// against the circuit; a nil isFailure counts every non-nil error. A panic in
// fn counts as a failure and is re-raised.
func (b *Breaker) Do(fn func() error, isFailure func(error) bool) error {
	if !b.enabled {
		return fn()
	}
	trial, err := b.acquire()
	if err != nil {
		return err
	}

	failed := true
	defer func() { b.release(trial, failed) }()

	err = fn()
	failed = err != nil && (isFailure == nil || isFailure(err))

	return err
}

func (b *Breaker) State() State {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.stateLocked()
}

func (b *Breaker) stateLocked() State {
	switch {
	case b.trialing:
		return StateHalfOpen
	case b.openUntil.IsZero():
		return StateClosed
	case b.now().Before(b.openUntil):
		return StateOpen
	default:
		return StateHalfOpen
	}
}

// acquire admits a call and reports whether it is the half-open trial.
func (b *Breaker) acquire() (bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch b.stateLocked() {
	case StateOpen:
		return false, ErrOpen
	case StateHalfOpen:
		if b.trialing {
			return false, ErrOpen
		}
		b.trialing = true
		return true, nil
	}
	return false, nil
}

// release settles a call. While a trial is in flight only the trial decides
// the next state; stragglers admitted earlier are ignored.
func (b *Breaker) release(trial, failed bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if trial {
		b.trialing = false
	} else if b.trialing {
		return
	}

	if !failed {
		b.failures = 0
		b.openUntil = time.Time{}
		return
	}

	b.failures++
	if trial || b.failures >= b.threshold {
		b.openUntil = b.now().Add(b.cooldown)
	}
}
