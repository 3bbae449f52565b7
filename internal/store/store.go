// Package store persists small key-value settings between sessions.
package store

import (
	"context"

	"github.com/go-faster/errors"
)

var (
	ErrNotFound = errors.New("key not found")
	ErrClosed   = errors.New("store is closed")
)

// Store is a string key-value store.
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Put(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
	Close() error
}
