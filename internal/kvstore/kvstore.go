// Package kvstore provides the key-value persistence layer used by the deck
// cache. Keys are opaque strings; values are serialized records.
package kvstore

import (
	"context"
)

// Store defines the key-value interface. Get returns (nil, nil) for a
// missing key.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	ListKeys(ctx context.Context, prefix string) ([]string, error)
	Close() error
}
