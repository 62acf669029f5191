// Package ports defines the interfaces between the focusguard core and its
// adapters.
package ports

import "context"

// KeyValueStore persists settings and statistics.
// This is a driven port (implemented by infrastructure).
type KeyValueStore interface {
	// Get decodes the value stored under key into dst.
	// Returns domain.ErrNotFound when the key was never written.
	Get(ctx context.Context, key string, dst any) error

	// Set stores value under key, replacing any previous value.
	Set(ctx context.Context, key string, value any) error

	// Close releases the underlying resources.
	Close() error
}

// ChangeWatcher is implemented by stores that can observe writes made by
// other processes.
// This is a driven port (implemented by infrastructure).
type ChangeWatcher interface {
	// Watch calls onChange for every observed write until ctx is cancelled.
	// key is empty when the backend cannot tell which key changed.
	Watch(ctx context.Context, onChange func(key string)) error
}
