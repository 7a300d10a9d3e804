// Package store defines the persistence capability for the notification
// service: a minimal key-value contract where the full notification sequence
// is read and written as one JSON document under a single logical key. There
// are no partial updates at this layer.
package store

import "context"

// KeyValue is the persisted key-value capability backing the notification
// store. Implementations must make Set durable before returning.
type KeyValue interface {
	// Get returns the value stored under key, or ErrNotFound.
	Get(ctx context.Context, key string) (string, error)
	// Set stores value under key, replacing any previous value.
	Set(ctx context.Context, key string, value string) error
}
