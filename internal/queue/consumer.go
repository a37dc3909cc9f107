package queue

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// Consumer reads feed events from the Redis Stream via a consumer group.
type Consumer interface {
	// EnsureGroup creates the consumer group if it doesn't exist.
	EnsureGroup(ctx context.Context) error

	// Read blocks for up to `block` waiting for new messages for this consumer.
	Read(ctx context.Context, consumerName string, count int64, block time.Duration) ([]redis.XMessage, error)

	// ReadPending reads messages previously delivered to this consumer but
	// never acknowledged (crash recovery).
	ReadPending(ctx context.Context, consumerName string, count int64) ([]redis.XMessage, error)

	// Ack acknowledges a processed message.
	Ack(ctx context.Context, messageID string) error
}

// RedisConsumer implements Consumer using XREADGROUP.
type RedisConsumer struct {
	client *redis.Client
}

// NewConsumer creates a new stream consumer.
func NewConsumer(client *redis.Client) Consumer {
	return &RedisConsumer{client: client}
}

// EnsureGroup creates the consumer group, tolerating BUSYGROUP when it
// already exists.
func (c *RedisConsumer) EnsureGroup(ctx context.Context) error {
	err := c.client.XGroupCreateMkStream(ctx, FeedStream, FeedGroup, "0").Err()
	if err != nil && !strings.Contains(err.Error(), "BUSYGROUP") {
		return fmt.Errorf("create consumer group: %w", err)
	}
	return nil
}

// Read blocks for new messages using XREADGROUP with the ">" cursor.
func (c *RedisConsumer) Read(ctx context.Context, consumerName string, count int64, block time.Duration) ([]redis.XMessage, error) {
	streams, err := c.client.XReadGroup(ctx, &redis.XReadGroupArgs{
		Group:    FeedGroup,
		Consumer: consumerName,
		Streams:  []string{FeedStream, ">"},
		Count:    count,
		Block:    block,
	}).Result()

	if err == redis.Nil {
		return nil, nil // timeout, no messages
	}
	if err != nil {
		return nil, fmt.Errorf("read from stream: %w", err)
	}

	if len(streams) == 0 {
		return nil, nil
	}
	return streams[0].Messages, nil
}

// ReadPending reads this consumer's pending entries from the start of its PEL.
func (c *RedisConsumer) ReadPending(ctx context.Context, consumerName string, count int64) ([]redis.XMessage, error) {
	streams, err := c.client.XReadGroup(ctx, &redis.XReadGroupArgs{
		Group:    FeedGroup,
		Consumer: consumerName,
		Streams:  []string{FeedStream, "0"},
		Count:    count,
	}).Result()

	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read pending from stream: %w", err)
	}

	if len(streams) == 0 {
		return nil, nil
	}
	return streams[0].Messages, nil
}

// Ack acknowledges a message in the consumer group.
func (c *RedisConsumer) Ack(ctx context.Context, messageID string) error {
	if err := c.client.XAck(ctx, FeedStream, FeedGroup, messageID).Err(); err != nil {
		return fmt.Errorf("ack message: %w", err)
	}
	return nil
}
