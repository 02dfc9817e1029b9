package hub

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"buckeyeborrow/internal/models"

	"github.com/redis/go-redis/v9"
)

const (
	commentChannelPrefix = "request:"
	commentChannelSuffix = ":comments"
)

func commentChannel(requestID string) string {
	return commentChannelPrefix + requestID + commentChannelSuffix
}

// RedisCommentPublisher publishes stored comments to the redis channel of
// their request, from where every API instance's bridge picks them up.
type RedisCommentPublisher struct {
	rdb *redis.Client
}

// NewRedisCommentPublisher creates a new RedisCommentPublisher.
func NewRedisCommentPublisher(rdb *redis.Client) *RedisCommentPublisher {
	return &RedisCommentPublisher{rdb: rdb}
}

// PublishComment sends the comment view to the request's channel.
func (p *RedisCommentPublisher) PublishComment(ctx context.Context, requestID string, comment models.RequestCommentView) error {
	payload, err := json.Marshal(comment)
	if err != nil {
		return fmt.Errorf("failed to encode comment: %w", err)
	}
	if err := p.rdb.Publish(ctx, commentChannel(requestID), payload).Err(); err != nil {
		return fmt.Errorf("failed to publish comment: %w", err)
	}
	return nil
}

// RunRedisBridge forwards comment messages from redis to the hub until
// ctx is cancelled. Run it in its own goroutine next to Hub.Run.
func RunRedisBridge(ctx context.Context, rdb *redis.Client, h *Hub) error {
	pubsub := rdb.PSubscribe(ctx, commentChannelPrefix+"*"+commentChannelSuffix)
	defer pubsub.Close()

	for {
		select {
		case msg, ok := <-pubsub.Channel():
			if !ok {
				return nil
			}
			requestID := strings.TrimSuffix(strings.TrimPrefix(msg.Channel, commentChannelPrefix), commentChannelSuffix)
			h.Broadcast(requestID, []byte(msg.Payload))
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}
