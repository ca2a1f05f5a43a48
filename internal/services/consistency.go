package services

import (
	"context"
	"time"
)

// ConsistencyBarrier blocks between storing segments and searching for them,
// giving an eventually consistent store time to index the new records.
type ConsistencyBarrier interface {
	Wait(ctx context.Context, namespace string) error
}

// FixedDelayBarrier sleeps for Delay regardless of the store's state.
type FixedDelayBarrier struct {
	Delay time.Duration
}

func (b FixedDelayBarrier) Wait(ctx context.Context, _ string) error {
	if b.Delay <= 0 {
		return nil
	}
	timer := time.NewTimer(b.Delay)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// NoopBarrier returns immediately, for stores with read-after-write consistency.
type NoopBarrier struct{}

func (NoopBarrier) Wait(context.Context, string) error { return nil }
