package shared

import (
	"context"
	"time"
)

// IdempotencyStore remembers which client request keys have been handled.
//
// A key moves through two states: reserved while the request is in flight,
// then completed with the identifier of the resource the request produced.
type IdempotencyStore interface {
	// Reserve claims the key. It returns false when the key is already reserved or completed.
	Reserve(ctx context.Context, key string, ttl time.Duration) (bool, error)
	// Lookup returns the stored result of a completed key. done is false while the key is
	// only reserved; found is false when the key is unknown or expired.
	Lookup(ctx context.Context, key string) (result string, done bool, found bool, err error)
	// Complete stores the result of the request under the key
	Complete(ctx context.Context, key, result string, ttl time.Duration) error
	// Release forgets the key so the request may be retried
	Release(ctx context.Context, key string) error
}
