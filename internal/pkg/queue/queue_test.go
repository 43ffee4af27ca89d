package queue

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestRedis(t *testing.T) (*redis.Client, func()) {
	t.Helper()

	mr, err := miniredis.Run()
	require.NoError(t, err)

	client := redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})

	cleanup := func() {
		client.Close()
		mr.Close()
	}

	return client, cleanup
}

func TestQueue_PushPop(t *testing.T) {
	client, cleanup := setupTestRedis(t)
	defer cleanup()

	q := NewQueue(client, "test_settlement")
	ctx := context.Background()

	msg := &SettlementMessage{
		PredictionID: 42,
		Outcome:      "YES",
		RequestedBy:  7,
	}

	err := q.Push(ctx, msg)
	require.NoError(t, err)

	length, err := q.Length(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), length)

	got, err := q.Pop(ctx, time.Second)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, int64(42), got.PredictionID)
	assert.Equal(t, "YES", got.Outcome)
	assert.Equal(t, int64(7), got.RequestedBy)
}

func TestQueue_FIFOOrder(t *testing.T) {
	client, cleanup := setupTestRedis(t)
	defer cleanup()

	q := NewQueue(client, "test_settlement")
	ctx := context.Background()

	for i := int64(1); i <= 3; i++ {
		require.NoError(t, q.Push(ctx, &SettlementMessage{PredictionID: i, Outcome: "NO"}))
	}

	for i := int64(1); i <= 3; i++ {
		got, err := q.Pop(ctx, time.Second)
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, i, got.PredictionID)
	}
}

func TestQueue_PopEmpty(t *testing.T) {
	client, cleanup := setupTestRedis(t)
	defer cleanup()

	q := NewQueue(client, "test_settlement")

	// miniredis supports BRPOP; an empty queue should time out with no message
	got, err := q.Pop(context.Background(), time.Second)
	require.NoError(t, err)
	assert.Nil(t, got)
}
