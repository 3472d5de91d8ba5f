package cache

import (
	"context"
	"io"
	"time"
)

// LayeredCache reads through a process-local L1 in front of a shared L2.
// Writes go to L2 first, then L1.
type LayeredCache struct {
	l1    *TTLCache
	l2    BytesCache
	l1TTL time.Duration
}

// NewLayeredCache fronts l2 with an in-memory layer whose entries live at
// most l1TTL.
func NewLayeredCache(l2 BytesCache, l1TTL time.Duration) *LayeredCache {
	return &LayeredCache{l1: NewTTLCache(), l2: l2, l1TTL: l1TTL}
}

func (lc *LayeredCache) GetBytes(ctx context.Context, key string) ([]byte, bool, error) {
	if b, ok, _ := lc.l1.GetBytes(ctx, key); ok {
		return b, true, nil
	}
	b, ok, err := lc.l2.GetBytes(ctx, key)
	if err != nil || !ok {
		return nil, false, err
	}
	_ = lc.l1.SetBytes(ctx, key, b, lc.l1TTL)
	return b, true, nil
}

func (lc *LayeredCache) SetBytes(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := lc.l2.SetBytes(ctx, key, value, ttl); err != nil {
		return err
	}
	l1TTL := lc.l1TTL
	if ttl > 0 && (l1TTL <= 0 || ttl < l1TTL) {
		l1TTL = ttl
	}
	return lc.l1.SetBytes(ctx, key, value, l1TTL)
}

// Ping reports L2 reachability when L2 supports it.
func (lc *LayeredCache) Ping(ctx context.Context) error {
	if p, ok := lc.l2.(interface{ Ping(context.Context) error }); ok {
		return p.Ping(ctx)
	}
	return nil
}

// Close closes L2 when it holds a connection.
func (lc *LayeredCache) Close() error {
	if c, ok := lc.l2.(io.Closer); ok {
		return c.Close()
	}
	return nil
}
