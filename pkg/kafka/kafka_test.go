package kafka

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBackoff_Bounds(t *testing.T) {
	min, max := 50*time.Millisecond, 400*time.Millisecond
	for attempt := 1; attempt <= 40; attempt++ {
		d := Backoff(min, max, attempt)
		assert.LessOrEqual(t, d, max)
		assert.Greater(t, d, time.Duration(0))
	}
}

func TestBackoff_Grows(t *testing.T) {
	// with jitter at most 50%, attempt 3 (200ms base) is never below 100ms
	assert.GreaterOrEqual(t, Backoff(50*time.Millisecond, time.Second, 3), 100*time.Millisecond)
}

func TestEncode(t *testing.T) {
	b, err := Encode([]byte("raw"))
	require.NoError(t, err)
	assert.Equal(t, "raw", string(b))

	b, err = Encode(map[string]any{"symbol": "AAPL"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"symbol":"AAPL"}`, string(b))

	_, err = Encode(func() {})
	assert.Error(t, err)
}

func TestNewProducer_RequiresBrokers(t *testing.T) {
	_, err := NewProducer()
	assert.ErrorIs(t, err, ErrNoBrokers)
}

func TestNewConsumer_RequiresBrokers(t *testing.T) {
	_, err := NewConsumer(nil)
	assert.ErrorIs(t, err, ErrNoBrokers)
}
