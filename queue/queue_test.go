package queue

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func count(t *testing.T, q Queue) (int, int) {
	p, r, err := q.Count(context.Background())
	require.NoError(t, err)
	return p, r
}

func TestQueueLifecycle(t *testing.T) {
	ctx := context.Background()
	q := New()

	task, tctx, err := q.Pull(ctx)
	require.NoError(t, err)
	assert.Nil(t, task)
	assert.Nil(t, tctx)

	require.NoError(t, q.Push(ctx, &Task{Path: "r0"}))
	require.NoError(t, q.Push(ctx, &Task{Path: "r1"}))
	p, r := count(t, q)
	assert.Equal(t, 2, p)
	assert.Equal(t, 0, r)

	task, tctx, err = q.Pull(ctx)
	require.NoError(t, err)
	require.NotNil(t, task)
	assert.Equal(t, "r0", task.ID())
	assert.NoError(t, tctx.Err())
	p, r = count(t, q)
	assert.Equal(t, 1, p)
	assert.Equal(t, 1, r)

	require.NoError(t, q.Drop(ctx, task.ID()))
	task, _, err = q.Pull(ctx)
	require.NoError(t, err)
	assert.Equal(t, "r0", task.ID(), "dropped tasks go back to the front")

	require.NoError(t, q.Complete(ctx, task.ID()))
	task, _, err = q.Pull(ctx)
	require.NoError(t, err)
	assert.Equal(t, "r1", task.ID())
	require.NoError(t, q.Complete(ctx, task.ID()))

	p, r = count(t, q)
	assert.Equal(t, 0, p+r)
	require.NoError(t, q.Drop(ctx, "unknown"))
}

func TestQueueStop(t *testing.T) {
	ctx := context.Background()
	q := New()
	require.NoError(t, q.Push(ctx, &Task{Path: "r"}))
	_, tctx, err := q.Pull(ctx)
	require.NoError(t, err)

	require.NoError(t, q.Stop(ctx))
	assert.Error(t, tctx.Err())
	assert.ErrorIs(t, q.Push(ctx, &Task{Path: "r0"}), ErrStopped)
}

func TestQueueCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	q := New()
	// the lock may still be acquired, so only check failures are cancellations
	if err := q.Push(ctx, &Task{Path: "r"}); err != nil {
		assert.ErrorIs(t, err, context.Canceled)
	}
}

func TestQueueConcurrentUse(t *testing.T) {
	ctx := context.Background()
	q := New()
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				assert.NoError(t, q.Push(ctx, &Task{Path: string(rune('a'+i)) + string(rune('a'+j%26)) + string(rune('a'+j/26))}))
			}
		}(i)
	}
	wg.Wait()
	p, _ := count(t, q)
	assert.Equal(t, 400, p)

	seen := make(map[string]bool)
	for {
		task, _, err := q.Pull(ctx)
		require.NoError(t, err)
		if task == nil {
			break
		}
		assert.False(t, seen[task.ID()])
		seen[task.ID()] = true
		require.NoError(t, q.Complete(ctx, task.ID()))
	}
	assert.Len(t, seen, 400)
}
