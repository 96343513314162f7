// internal/cache/redis.go
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// DefaultQueueName is the Redis list game actions are pushed onto.
const DefaultQueueName = "lastcard_actions"

// GameActionRecord is one entry of a game's action log.
type GameActionRecord struct {
	GameID        uuid.UUID              `json:"game_id"`
	ActionIndex   int                    `json:"action_index"`
	ActorUserID   uuid.UUID              `json:"actor_user_id"`
	ActionType    string                 `json:"action_type"`
	ActionPayload map[string]interface{} `json:"action_payload"`
	Timestamp     int64                  `json:"timestamp"`
}

// RedisSink pushes action records onto a Redis list for an external consumer.
type RedisSink struct {
	client *redis.Client
	queue  string
}

// NewRedisSink connects to addr and verifies the connection with a PING.
func NewRedisSink(ctx context.Context, addr string, db int, queue string) (*RedisSink, error) {
	client := redis.NewClient(&redis.Options{
		Addr: addr,
		DB:   db,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to Redis at %s: %w", addr, err)
	}
	return newRedisSink(client, queue), nil
}

func newRedisSink(client *redis.Client, queue string) *RedisSink {
	if queue == "" {
		queue = DefaultQueueName
	}
	return &RedisSink{client: client, queue: queue}
}

// Publish serializes record to JSON and RPushes it onto the queue.
func (s *RedisSink) Publish(ctx context.Context, record GameActionRecord) error {
	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to marshal GameActionRecord: %w", err)
	}
	if err := s.client.RPush(ctx, s.queue, data).Err(); err != nil {
		return fmt.Errorf("failed to RPush to Redis list '%s': %w", s.queue, err)
	}
	return nil
}

// Queue returns the list name records are pushed to.
func (s *RedisSink) Queue() string {
	return s.queue
}

func (s *RedisSink) Close() error {
	return s.client.Close()
}
