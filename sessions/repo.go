package sessions

import (
	"context"
	"time"
)

// Store is a key/value backing store with per-key time-to-live.
type Store interface {
	// Get returns the stored mapping, or ErrSessionNotFound.
	Get(ctx context.Context, id string) ([]byte, error)

	// SetWithTTL writes the full mapping and resets its expiry.
	SetWithTTL(ctx context.Context, id string, data []byte, ttl time.Duration) error

	// Delete removes the entry. Deleting a missing entry is not an error.
	Delete(ctx context.Context, id string) error

	Close() error
}

// Pinger is implemented by stores that can report their reachability.
type Pinger interface {
	Ping(ctx context.Context) error
}
