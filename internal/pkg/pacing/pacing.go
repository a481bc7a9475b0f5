// Package pacing provides the cooperative rate-limiting policy applied
// between external identity-provider calls and bulk-operation items.
package pacing

import (
	"context"
	"sync"
	"time"
)

// Pacer spaces out successive operations. Wait blocks until the next
// operation may start or the context is cancelled.
type Pacer interface {
	Wait(ctx context.Context) error
}

// FixedInterval paces operations at most once per interval. The first call
// does not block. Safe for concurrent use; one instance is shared by every
// run going through the same service.
type FixedInterval struct {
	interval time.Duration

	mu   sync.Mutex
	next time.Time
}

// NewFixedInterval creates a pacer with the given minimum gap between
// operations.
func NewFixedInterval(interval time.Duration) *FixedInterval {
	return &FixedInterval{interval: interval}
}

// Wait blocks until the interval since the previous call has elapsed.
// Concurrent callers each reserve their own slot under the lock and then
// sleep outside it, so cancellation of one waiter never delays the others.
func (p *FixedInterval) Wait(ctx context.Context) error {
	if p.interval <= 0 {
		return ctx.Err()
	}

	p.mu.Lock()
	now := time.Now()
	slot := now
	if p.next.After(now) {
		slot = p.next
	}
	p.next = slot.Add(p.interval)
	p.mu.Unlock()

	if wait := time.Until(slot); wait > 0 {
		timer := time.NewTimer(wait)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timer.C:
		}
	}
	return nil
}

// Nop is a pacer that never waits. Used in tests so batches run without
// wall-clock delays.
type Nop struct{}

// Wait returns immediately, honoring only context cancellation.
func (Nop) Wait(ctx context.Context) error { return ctx.Err() }
