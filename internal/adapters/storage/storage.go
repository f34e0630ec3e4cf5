// Package storage provides durable key-value persistence for state that
// must survive process restarts.
package storage

import (
	"context"
	"errors"
)

// Sentinel kinds for storage errors.
var (
	ErrNotFound = errors.New("key not found")
	ErrClosed   = errors.New("store closed")
)

// KV is the durable storage contract: async get/set/remove by string key.
type KV interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Close() error
}
