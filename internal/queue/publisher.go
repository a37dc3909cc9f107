package queue

import (
	"context"
	"fmt"
	"log"

	"github.com/redis/go-redis/v9"
)

// Publisher publishes feed events to the Redis Stream.
type Publisher interface {
	Publish(ctx context.Context, event FeedEvent) error
}

// RedisPublisher implements Publisher using Redis Streams XADD.
type RedisPublisher struct {
	client *redis.Client
}

// NewPublisher creates a new stream publisher.
func NewPublisher(client *redis.Client) Publisher {
	return &RedisPublisher{client: client}
}

// Publish appends an event to the feed stream.
func (p *RedisPublisher) Publish(ctx context.Context, event FeedEvent) error {
	values, err := event.ToMap()
	if err != nil {
		return fmt.Errorf("serialize event: %w", err)
	}

	id, err := p.client.XAdd(ctx, &redis.XAddArgs{
		Stream: FeedStream,
		Values: values,
	}).Result()
	if err != nil {
		log.Printf("[Publisher] XADD FAILED: type=%s err=%v", event.Type, err)
		return fmt.Errorf("publish event: %w", err)
	}

	log.Printf("[Publisher] published: type=%s id=%s", event.Type, id)
	return nil
}
