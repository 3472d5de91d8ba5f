package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoggerWritesStructuredFields(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter(&buf, zerolog.DebugLevel)

	l.Info("pipeline run",
		String("stage", "rank"),
		Int("articles", 3),
		Float64("score", 3.5),
		Strings("symbols", []string{"AAPL", "MSFT"}),
		Error(errors.New("boom")),
	)

	var got map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, "pipeline run", got["message"])
	assert.Equal(t, "info", got["level"])
	assert.Equal(t, "rank", got["stage"])
	assert.Equal(t, 3.0, got["articles"])
	assert.Equal(t, 3.5, got["score"])
	assert.Equal(t, "AAPL, MSFT", got["symbols"])
	assert.Equal(t, "boom", got["error"])
}

func TestLoggerLevelFilter(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter(&buf, zerolog.WarnLevel)
	l.Debug("hidden")
	l.Info("hidden")
	assert.Zero(t, buf.Len())
	l.Warn("shown")
	assert.Contains(t, buf.String(), "shown")
}

func TestWithCarriesFields(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter(&buf, zerolog.InfoLevel).With(String("run_id", "r1"))
	l.Info("done")
	assert.Contains(t, buf.String(), `"run_id":"r1"`)
}

func TestNewRejectsBadLevel(t *testing.T) {
	_, err := New(&Config{Level: "loud", Output: "stdout"})
	assert.Error(t, err)
}

func TestNopDiscards(t *testing.T) {
	assert.NotPanics(t, func() { Nop().Error("ignored", Error(errors.New("x"))) })
}

func TestDurationAndNilError(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter(&buf, zerolog.InfoLevel)
	l.Info("stage", Duration("elapsed", 1500*time.Millisecond), Error(nil))

	var got map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, 1500.0, got["elapsed"])
	assert.NotContains(t, got, "error")
}
