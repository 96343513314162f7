package cache

import (
	"context"
	"encoding/json"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueueDefault(t *testing.T) {
	client := redis.NewClient(&redis.Options{Addr: "localhost:0"})
	defer client.Close()

	assert.Equal(t, DefaultQueueName, newRedisSink(client, "").Queue())
	assert.Equal(t, "mine", newRedisSink(client, "mine").Queue())
}

// TestRedisSinkPublish needs a live Redis; it is skipped when none answers.
func TestRedisSinkPublish(t *testing.T) {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		addr = "localhost:6379"
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	queue := "lastcard_test_" + uuid.NewString()
	sink, err := NewRedisSink(ctx, addr, 0, queue)
	if err != nil {
		t.Skipf("redis not available: %v", err)
	}
	defer sink.Close()
	defer sink.client.Del(context.Background(), queue)

	rec := GameActionRecord{
		GameID:        uuid.New(),
		ActionIndex:   3,
		ActorUserID:   uuid.New(),
		ActionType:    "card_played",
		ActionPayload: map[string]interface{}{"card": "red 7"},
		Timestamp:     time.Now().UnixMilli(),
	}
	require.NoError(t, sink.Publish(ctx, rec))

	raw, err := sink.client.LRange(ctx, queue, 0, -1).Result()
	require.NoError(t, err)
	require.Len(t, raw, 1)

	var got GameActionRecord
	require.NoError(t, json.Unmarshal([]byte(raw[0]), &got))
	assert.Equal(t, rec.GameID, got.GameID)
	assert.Equal(t, rec.ActionIndex, got.ActionIndex)
	assert.Equal(t, rec.ActionType, got.ActionType)
	assert.Equal(t, "red 7", got.ActionPayload["card"])
}

func TestNewRedisSinkUnreachable(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	_, err := NewRedisSink(ctx, "127.0.0.1:1", 0, "")
	assert.Error(t, err)
}
