package pacing

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFixedIntervalFirstCallDoesNotBlock(t *testing.T) {
	p := NewFixedInterval(time.Second)

	start := time.Now()
	err := p.Wait(context.Background())

	require.NoError(t, err)
	assert.Less(t, time.Since(start), 100*time.Millisecond)
}

func TestFixedIntervalSpacesCalls(t *testing.T) {
	p := NewFixedInterval(40 * time.Millisecond)
	require.NoError(t, p.Wait(context.Background()))

	start := time.Now()
	require.NoError(t, p.Wait(context.Background()))

	assert.GreaterOrEqual(t, time.Since(start), 30*time.Millisecond)
}

func TestFixedIntervalSpacesConcurrentCallers(t *testing.T) {
	p := NewFixedInterval(30 * time.Millisecond)

	// Four goroutines sharing one pacer, as concurrent bulk runs through the
	// same service do. Each must land in its own slot, so the whole group
	// takes at least three intervals.
	start := time.Now()
	var wg sync.WaitGroup
	errs := make(chan error, 4)
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs <- p.Wait(context.Background())
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		require.NoError(t, err)
	}
	assert.GreaterOrEqual(t, time.Since(start), 80*time.Millisecond)
}

func TestFixedIntervalHonorsCancellation(t *testing.T) {
	p := NewFixedInterval(10 * time.Second)
	require.NoError(t, p.Wait(context.Background()))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	err := p.Wait(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestFixedIntervalZeroIntervalNeverWaits(t *testing.T) {
	p := NewFixedInterval(0)

	for i := 0; i < 3; i++ {
		require.NoError(t, p.Wait(context.Background()))
	}
}

func TestNopWaitsOnlyForCancellation(t *testing.T) {
	require.NoError(t, Nop{}.Wait(context.Background()))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, Nop{}.Wait(ctx), context.Canceled)
}
