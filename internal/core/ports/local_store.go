package ports

import "context"

// LocalStore is the client-side key/value persistence for serialized blobs.
// Get reports ok=false when the key is absent.
type LocalStore interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
	Remove(ctx context.Context, key string) error
}
