package persistence

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/spec-kit/pawn-ledger/internal/domain"
)

// AlertOutbox is a Redis list used as a simple outbound message queue.
// Producers LPush JSON-encoded messages; the delivery worker BRPops them.
type AlertOutbox struct {
	client *redis.Client
	key    string
}

// NewAlertOutbox builds the queue on the given Redis client.
func NewAlertOutbox(r *Redis, key string) *AlertOutbox {
	var client *redis.Client
	if r != nil {
		client = r.Client
	}
	return &AlertOutbox{client: client, key: key}
}

// Enqueue pushes one message onto the queue.
func (q *AlertOutbox) Enqueue(ctx context.Context, message domain.AlertMessage) error {
	if q.client == nil {
		return errors.New("redis client not configured")
	}
	payload, err := json.Marshal(message)
	if err != nil {
		return err
	}
	return q.client.LPush(ctx, q.key, payload).Err()
}

// Dequeue blocks up to timeout waiting for the next message. A nil
// message with nil error means the wait timed out.
func (q *AlertOutbox) Dequeue(ctx context.Context, timeout time.Duration) (*domain.AlertMessage, error) {
	if q.client == nil {
		return nil, errors.New("redis client not configured")
	}
	values, err := q.client.BRPop(ctx, timeout, q.key).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, err
	}
	if len(values) < 2 {
		return nil, nil
	}

	var message domain.AlertMessage
	if err := json.Unmarshal([]byte(values[1]), &message); err != nil {
		return nil, err
	}
	return &message, nil
}
