package ports

import "context"

// IdempotencyStore remembers which order an Idempotency-Key produced.
type IdempotencyStore interface {
	// Reserve binds key to orderID unless it is already bound. It returns the
	// bound order id and whether this call made the binding.
	Reserve(ctx context.Context, userID int, key, orderID string) (string, bool, error)
	// Release drops a binding whose order was never created.
	Release(ctx context.Context, userID int, key string) error
}
