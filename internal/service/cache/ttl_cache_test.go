package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTTLCache(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	c := NewTTLCache()
	c.now = func() time.Time { return now }

	_, ok, err := c.GetBytes(ctx, "k")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, c.SetBytes(ctx, "k", []byte("v"), time.Minute))
	require.NoError(t, c.SetBytes(ctx, "forever", []byte("f"), 0))
	b, ok, _ := c.GetBytes(ctx, "k")
	assert.True(t, ok)
	assert.Equal(t, "v", string(b))

	now = now.Add(2 * time.Minute)
	_, ok, _ = c.GetBytes(ctx, "k")
	assert.False(t, ok)
	assert.Equal(t, 1, c.Len())

	_, ok, _ = c.GetBytes(ctx, "forever")
	assert.True(t, ok)
}
