package batch

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ids(n int) []int64 {
	out := make([]int64, n)
	for i := range out {
		out[i] = int64(i + 1)
	}
	return out
}

func TestProcessor_Run(t *testing.T) {
	t.Run("all succeed", func(t *testing.T) {
		p, err := NewProcessor[int64](10)
		require.NoError(t, err)
		var calls atomic.Int32

		res, err := p.Run(context.Background(), ids(25), func(_ context.Context, _ int64) error {
			calls.Add(1)
			return nil
		})
		require.NoError(t, err)
		assert.Equal(t, int32(25), calls.Load())
		assert.Len(t, res.Succeeded, 25)
		assert.Empty(t, res.Failed)
		assert.NoError(t, res.Err())
		assert.Equal(t, 25, res.Total())
	})

	t.Run("failures are collected per item", func(t *testing.T) {
		p := NewProcessorWithDefaults[int64]().WithConcurrency(3)

		res, err := p.Run(context.Background(), ids(10), func(_ context.Context, id int64) error {
			if id%4 == 0 {
				return errors.New("not found")
			}
			return nil
		})
		require.NoError(t, err)
		assert.Len(t, res.Succeeded, 8)
		require.Len(t, res.Failed, 2)
		assert.ElementsMatch(t, []int64{4, 8}, []int64{res.Failed[0].Item, res.Failed[1].Item})
		require.Error(t, res.Err())
		assert.Contains(t, res.Err().Error(), "not found")
	})

	t.Run("cancelled context stops between batches", func(t *testing.T) {
		p, _ := NewProcessor[int64](5)
		p.WithConcurrency(1)
		ctx, cancel := context.WithCancel(context.Background())

		res, err := p.Run(ctx, ids(20), func(_ context.Context, id int64) error {
			if id == 5 {
				cancel()
			}
			return nil
		})
		require.ErrorIs(t, err, context.Canceled)
		assert.Less(t, res.Total(), 20)
	})

	t.Run("empty items", func(t *testing.T) {
		_, err := NewProcessorWithDefaults[int64]().Run(context.Background(), nil, func(context.Context, int64) error { return nil })
		assert.ErrorIs(t, err, ErrEmptyItems)
	})

	t.Run("nil operation", func(t *testing.T) {
		_, err := NewProcessorWithDefaults[int64]().Run(context.Background(), ids(1), nil)
		assert.ErrorIs(t, err, ErrNilOperation)
	})

	t.Run("invalid batch size", func(t *testing.T) {
		_, err := NewProcessor[int64](0)
		assert.ErrorIs(t, err, ErrInvalidBatchSize)
		_, err = NewProcessor[int64](MaxBatchSize + 1)
		assert.ErrorIs(t, err, ErrInvalidBatchSize)
	})
}

func TestProcessor_ProgressCallback(t *testing.T) {
	var mu sync.Mutex
	var snaps []ProgressSnapshot
	p, _ := NewProcessor[int64](4)
	p.WithConcurrency(2).WithProgressCallback(func(s ProgressSnapshot) {
		mu.Lock()
		defer mu.Unlock()
		snaps = append(snaps, s)
	})

	_, err := p.Run(context.Background(), ids(10), func(_ context.Context, id int64) error {
		if id == 7 {
			return errors.New("conflict")
		}
		return nil
	})
	require.NoError(t, err)

	require.Len(t, snaps, 10)
	last := snaps[len(snaps)-1]
	assert.Equal(t, 10, last.ProcessedItems)
	assert.Equal(t, 1, last.FailedItems)
	assert.InDelta(t, 100.0, last.PercentComplete, 0.001)
	assert.InDelta(t, 1.0, last.Ratio(), 0.001)
	assert.Equal(t, 3, last.TotalBatches)
	for i, s := range snaps {
		assert.Equal(t, i+1, s.ProcessedItems, "progress is monotonic")
	}
}

func TestProgress(t *testing.T) {
	p := NewProgress(100, 10, 10)

	assert.Zero(t, p.PercentComplete())
	assert.False(t, p.IsComplete())
	assert.Zero(t, p.EstimatedTimeRemaining())

	p.AddProcessed(10, false)
	p.FinishBatch()
	assert.InDelta(t, 10.0, p.PercentComplete(), 0.001)

	p.AddProcessed(90, true)
	assert.True(t, p.IsComplete())
	snap := p.Snapshot()
	assert.Equal(t, 90, snap.FailedItems)
	assert.Equal(t, 1, snap.ProcessedBatches)
}

func TestProcessor_CalculateBatches(t *testing.T) {
	p, _ := NewProcessor[int](10)
	batches := p.CalculateBatches(25)
	require.Len(t, batches, 3)
	assert.Equal(t, [2]int{0, 10}, batches[0])
	assert.Equal(t, [2]int{10, 20}, batches[1])
	assert.Equal(t, [2]int{20, 25}, batches[2])
	assert.Equal(t, 10, p.GetBatchSize())
}
