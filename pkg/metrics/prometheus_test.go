package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecorder(t *testing.T) {
	reg := prometheus.NewRegistry()
	r := New(reg)

	r.RecordDropped("prices", 3)
	r.RecordDropped("prices", 0)
	r.RecordAlerts(2)
	r.RecordError("link")
	r.RecordError("link")
	r.RecordStage("indicators", 0.01)

	assert.Equal(t, 3.0, testutil.ToFloat64(r.dropped.WithLabelValues("prices")))
	assert.Equal(t, 2.0, testutil.ToFloat64(r.alerts))
	assert.Equal(t, 2.0, testutil.ToFloat64(r.errorsTotal.WithLabelValues("link")))
	assert.Equal(t, 1, testutil.CollectAndCount(r.stageLatency))
}

func TestNew_SeparateRegistries(t *testing.T) {
	assert.NotPanics(t, func() {
		New(prometheus.NewRegistry())
		New(prometheus.NewRegistry())
	})
}
