package notify

import (
	"fmt"
	"sync"
	"time"

	"trade-journal/internal/errors"
)

// BreakerState is the position of a channel breaker.
type BreakerState string

const (
	BreakerClosed   BreakerState = "closed"
	BreakerOpen     BreakerState = "open"
	BreakerHalfOpen BreakerState = "half_open"
)

// Breaker defaults for remote channels.
const (
	DefaultFailureThreshold = 3
	DefaultCooldown         = 5 * time.Minute
)

// ErrChannelSuspended is returned while a breaker is open.
var ErrChannelSuspended = fmt.Errorf("%w: channel suspended after repeated failures", errors.ErrNotifyFailed)

// Breaker suspends a notification channel after consecutive failures.
// After the cooldown one trial send is let through; its outcome closes or
// re-opens the breaker.
type Breaker struct {
	threshold int
	cooldown  time.Duration
	now       func() time.Time

	mu       sync.Mutex
	state    BreakerState
	failures int
	openedAt time.Time
	rejected int64
}

// NewBreaker creates a closed breaker. Non-positive arguments use the defaults.
func NewBreaker(threshold int, cooldown time.Duration) *Breaker {
	if threshold <= 0 {
		threshold = DefaultFailureThreshold
	}
	if cooldown <= 0 {
		cooldown = DefaultCooldown
	}
	return &Breaker{
		threshold: threshold,
		cooldown:  cooldown,
		now:       time.Now,
		state:     BreakerClosed,
	}
}

// Do runs send unless the breaker is open.
func (b *Breaker) Do(send func() error) error {
	if err := b.allow(); err != nil {
		return err
	}
	err := send()
	b.record(err)
	return err
}

func (b *Breaker) allow() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch b.state {
	case BreakerOpen:
		if b.now().Sub(b.openedAt) < b.cooldown {
			b.rejected++
			return ErrChannelSuspended
		}
		b.state = BreakerHalfOpen
	case BreakerHalfOpen:
		// A trial is already in flight.
		b.rejected++
		return ErrChannelSuspended
	}
	return nil
}

func (b *Breaker) record(err error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if err == nil {
		b.state = BreakerClosed
		b.failures = 0
		return
	}

	b.failures++
	if b.state == BreakerHalfOpen || b.failures >= b.threshold {
		b.state = BreakerOpen
		b.openedAt = b.now()
		b.failures = 0
	}
}

// State returns the current state.
func (b *Breaker) State() BreakerState {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state
}

// Rejected returns how many sends were skipped while suspended.
func (b *Breaker) Rejected() int64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.rejected
}

// Reset closes the breaker.
func (b *Breaker) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.state = BreakerClosed
	b.failures = 0
}
