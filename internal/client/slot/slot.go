// Package slot is the console's durable key/value persistence: the session
// token and the cached user profile survive restarts here.
//
// The SQLite implementation keeps one row per key. Multi-key writes and
// deletes run in a single transaction, so "token" and "currentUser" are
// always stored and cleared together.
package slot

import "context"

// Well-known keys.
const (
	KeyToken       = "token"
	KeyCurrentUser = "currentUser"
)

// Slot is a durable key/value store.
//
// Get returns (nil, nil) for an absent key.
type Slot interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	SetMany(ctx context.Context, values map[string][]byte) error
	Delete(ctx context.Context, keys ...string) error
	List(ctx context.Context) (map[string][]byte, error)
}
