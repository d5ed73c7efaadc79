package translate

import (
	"sync/atomic"
	"time"
)

// Breaker disables a provider after repeated consecutive failures and
// re-enables it once a cooldown window has passed. State is shared across
// request handlers; updates use atomics only, so a stale read costs at most
// one extra failed probe.
type Breaker struct {
	threshold int64
	cooldown  time.Duration

	failures  atomic.Int64
	openUntil atomic.Int64 // unix nanos, 0 when closed

	now func() time.Time
}

func NewBreaker(threshold int, cooldown time.Duration) *Breaker {
	if threshold <= 0 {
		threshold = 3
	}
	if cooldown <= 0 {
		cooldown = 10 * time.Minute
	}
	return &Breaker{threshold: int64(threshold), cooldown: cooldown, now: time.Now}
}

// Allow reports whether the provider may be attempted.
func (b *Breaker) Allow() bool {
	until := b.openUntil.Load()
	if until == 0 {
		return true
	}
	if b.now().UnixNano() < until {
		return false
	}
	// Cooldown elapsed; close and allow a fresh probe.
	b.openUntil.CompareAndSwap(until, 0)
	b.failures.Store(0)
	return true
}

// Success resets the consecutive-failure count.
func (b *Breaker) Success() {
	b.failures.Store(0)
	b.openUntil.Store(0)
}

// Failure records one failed attempt, opening the breaker at the threshold.
// Reports whether this failure opened the breaker.
func (b *Breaker) Failure() bool {
	if b.failures.Add(1) >= b.threshold {
		b.openUntil.Store(b.now().Add(b.cooldown).UnixNano())
		return true
	}
	return false
}
