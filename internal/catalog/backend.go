package catalog

import "context"

// Backend persists opaque values under string keys. A single Put must be
// atomic: readers see either the old or the new value, never a mix.
type Backend interface {
	// Get returns the stored value, or found=false when the key is absent.
	Get(ctx context.Context, key string) (value []byte, found bool, err error)
	Put(ctx context.Context, key string, value []byte) error
	Close() error
}
