package poll

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPollerStopsWhenFuncReportsDone(t *testing.T) {
	p := New("test", 5*time.Millisecond, nil)
	var ticks int32

	err := p.Start(context.Background(), func(ctx context.Context) (bool, error) {
		return atomic.AddInt32(&ticks, 1) >= 3, nil
	})
	require.NoError(t, err)

	require.Eventually(t, func() bool { return !p.Running() }, time.Second, 5*time.Millisecond)
	assert.EqualValues(t, 3, atomic.LoadInt32(&ticks))
}

func TestPollerRejectsDoubleStart(t *testing.T) {
	p := New("test", 10*time.Millisecond, nil)
	defer p.Stop()

	require.NoError(t, p.Start(context.Background(), func(ctx context.Context) (bool, error) {
		return false, nil
	}))
	err := p.Start(context.Background(), func(ctx context.Context) (bool, error) {
		return true, nil
	})
	require.Error(t, err)
}

func TestPollerStopHaltsLoop(t *testing.T) {
	p := New("test", 5*time.Millisecond, nil)
	var ticks int32

	require.NoError(t, p.Start(context.Background(), func(ctx context.Context) (bool, error) {
		atomic.AddInt32(&ticks, 1)
		return false, nil
	}))

	require.Eventually(t, func() bool { return atomic.LoadInt32(&ticks) > 0 }, time.Second, time.Millisecond)
	p.Stop()
	assert.False(t, p.Running())

	observed := atomic.LoadInt32(&ticks)
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, observed, atomic.LoadInt32(&ticks))
}

func TestPollerStopWithoutStartIsNoop(t *testing.T) {
	p := New("test", time.Millisecond, nil)
	p.Stop()
	assert.False(t, p.Running())
}
