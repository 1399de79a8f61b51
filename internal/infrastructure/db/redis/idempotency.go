package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/mmtopup/storefront/internal/core/ports"
)

const idempotencyTTL = 24 * time.Hour

// OrderIdempotency binds an Idempotency-Key header to the order it created.
// Key format: idem:order:<user_id>:<key>
type OrderIdempotency struct {
	client *redis.Client
	ttl    time.Duration
}

var _ ports.IdempotencyStore = (*OrderIdempotency)(nil)

// NewOrderIdempotency wraps client. Bindings expire after 24h.
func NewOrderIdempotency(client *redis.Client) *OrderIdempotency {
	return &OrderIdempotency{client: client, ttl: idempotencyTTL}
}

// Reserve binds key to orderID with SETNX. When the key is already bound it
// returns the existing order id and false.
func (o *OrderIdempotency) Reserve(ctx context.Context, userID int, key, orderID string) (string, bool, error) {
	k := o.key(userID, key)
	for i := 0; i < 2; i++ {
		ok, err := o.client.SetNX(ctx, k, orderID, o.ttl).Result()
		if err != nil {
			return "", false, fmt.Errorf("idempotency reserve: %w", err)
		}
		if ok {
			return orderID, true, nil
		}

		existing, err := o.client.Get(ctx, k).Result()
		if errors.Is(err, redis.Nil) {
			// expired between SETNX and GET
			continue
		}
		if err != nil {
			return "", false, fmt.Errorf("idempotency lookup: %w", err)
		}
		return existing, false, nil
	}
	return "", false, fmt.Errorf("idempotency reserve: key %q kept expiring", k)
}

// Release removes the binding so the key can be retried.
func (o *OrderIdempotency) Release(ctx context.Context, userID int, key string) error {
	if err := o.client.Del(ctx, o.key(userID, key)).Err(); err != nil {
		return fmt.Errorf("idempotency release: %w", err)
	}
	return nil
}

func (o *OrderIdempotency) key(userID int, key string) string {
	return fmt.Sprintf("idem:order:%d:%s", userID, key)
}
