package channel

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

const (
	userChannelPrefix = "notify:user:"
	presenceSetKey    = "notify:online"
)

// UserChannel returns the Redis channel name for a user's events. Transport
// layers subscribe to this channel to stream events to the client.
func UserChannel(userID string) string {
	return userChannelPrefix + userID
}

// RedisPublisher publishes events through Redis pub/sub. Presence is read
// from a Redis set maintained by the transport layer (members are added on
// connect and removed on disconnect), so Connected reflects whatever the
// transports report, not a guarantee.
type RedisPublisher struct {
	client *redis.Client
}

// NewRedisPublisher creates a Redis-backed publisher over an existing
// client. The client's lifecycle stays with the caller.
func NewRedisPublisher(client *redis.Client) *RedisPublisher {
	return &RedisPublisher{client: client}
}

func (p *RedisPublisher) Publish(ctx context.Context, userID, event string, payload any) error {
	body, err := json.Marshal(Event{Name: event, Payload: payload})
	if err != nil {
		return fmt.Errorf("failed to encode event %q: %w", event, err)
	}

	if err := p.client.Publish(ctx, UserChannel(userID), body).Err(); err != nil {
		return errors.Join(ErrPublishFailed, err)
	}
	return nil
}

func (p *RedisPublisher) Connected(ctx context.Context, userID string) (bool, error) {
	connected, err := p.client.SIsMember(ctx, presenceSetKey, userID).Result()
	if err != nil {
		return false, errors.Join(ErrPresenceQueryFailed, err)
	}
	return connected, nil
}

func (p *RedisPublisher) ConnectedUsers(ctx context.Context) ([]string, error) {
	users, err := p.client.SMembers(ctx, presenceSetKey).Result()
	if err != nil {
		return nil, errors.Join(ErrPresenceQueryFailed, err)
	}
	return users, nil
}

// Close is a no-op: the Redis client is owned by the caller.
func (p *RedisPublisher) Close() error {
	return nil
}
