// Package cache stores encoded API responses with a TTL.
package cache

import (
	"context"
	"time"
)

// BytesCache stores raw bytes with TTL. A miss is (nil, false, nil).
type BytesCache interface {
	GetBytes(ctx context.Context, key string) ([]byte, bool, error)
	SetBytes(ctx context.Context, key string, value []byte, ttl time.Duration) error
}
