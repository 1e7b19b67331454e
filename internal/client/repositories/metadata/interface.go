// Package metadata is the console's durable string key/value storage.
// The session store keeps the bearer token and the operator profile here.
package metadata

import (
	"context"
)

type Repository interface {
	// Get returns the value stored under key; ok is false when the key is absent.
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	// SetMany writes all pairs atomically.
	SetMany(ctx context.Context, values map[string]string) error
	Delete(ctx context.Context, keys ...string) error
}
