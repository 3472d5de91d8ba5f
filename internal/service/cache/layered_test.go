package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingCache struct{ err error }

func (f failingCache) GetBytes(context.Context, string) ([]byte, bool, error) {
	return nil, false, f.err
}
func (f failingCache) SetBytes(context.Context, string, []byte, time.Duration) error {
	return f.err
}

func TestLayeredCache_ReadThrough(t *testing.T) {
	ctx := context.Background()
	l2 := NewTTLCache()
	require.NoError(t, l2.SetBytes(ctx, "k", []byte("v"), time.Minute))

	lc := NewLayeredCache(l2, 5*time.Second)
	b, ok, err := lc.GetBytes(ctx, "k")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "v", string(b))
	assert.Equal(t, 1, lc.l1.Len())

	_, ok, err = lc.GetBytes(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestLayeredCache_WriteThrough(t *testing.T) {
	ctx := context.Background()
	l2 := NewTTLCache()
	lc := NewLayeredCache(l2, 5*time.Second)

	require.NoError(t, lc.SetBytes(ctx, "k", []byte("v"), time.Minute))
	_, ok, _ := l2.GetBytes(ctx, "k")
	assert.True(t, ok)
	_, ok, _ = lc.l1.GetBytes(ctx, "k")
	assert.True(t, ok)
}

func TestLayeredCache_L2Errors(t *testing.T) {
	ctx := context.Background()
	boom := errors.New("down")
	lc := NewLayeredCache(failingCache{err: boom}, time.Second)

	assert.ErrorIs(t, lc.SetBytes(ctx, "k", []byte("v"), time.Minute), boom)
	assert.Equal(t, 0, lc.l1.Len())

	_, _, err := lc.GetBytes(ctx, "k")
	assert.ErrorIs(t, err, boom)
	assert.NoError(t, lc.Ping(ctx))
	assert.NoError(t, lc.Close())
}
