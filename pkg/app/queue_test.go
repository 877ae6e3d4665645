package app

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vango-dev/lumen/pkg/lumen"
)

func TestQueueRunsJobsInOrder(t *testing.T) {
	q := NewQueue()
	defer q.Close()

	release := make(chan struct{})
	started := make(chan struct{})
	var mu sync.Mutex
	var order []int

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		_ = q.Do(context.Background(), func(context.Context) error {
			close(started)
			<-release
			mu.Lock()
			order = append(order, 1)
			mu.Unlock()
			return nil
		})
	}()
	<-started

	second := make(chan error, 1)
	go func() {
		second <- q.Do(context.Background(), func(context.Context) error {
			mu.Lock()
			order = append(order, 2)
			mu.Unlock()
			return nil
		})
	}()

	select {
	case <-second:
		t.Fatal("second job finished while the first was still running")
	case <-time.After(20 * time.Millisecond):
	}

	close(release)
	require.NoError(t, <-second)
	wg.Wait()
	assert.Equal(t, []int{1, 2}, order)
}

func TestQueueSkipsCanceledJobs(t *testing.T) {
	q := NewQueue()
	defer q.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	ran := false
	err := q.Do(ctx, func(context.Context) error {
		ran = true
		return nil
	})
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, ran)
}

func TestQueueClosed(t *testing.T) {
	q := NewQueue()
	q.Close()
	q.Close()
	err := q.Do(context.Background(), func(context.Context) error { return nil })
	assert.ErrorIs(t, err, ErrQueueClosed)
}

func TestQueueReleasesTrackingOnClose(t *testing.T) {
	q := NewQueue()
	var during int
	require.NoError(t, q.Do(context.Background(), func(context.Context) error {
		c := lumen.NewCell(0)
		lumen.Batch(func() { c.Set(1) })
		during = lumen.TrackedGoroutines()
		return nil
	}))
	q.Close()

	assert.Less(t, lumen.TrackedGoroutines(), during)
}
