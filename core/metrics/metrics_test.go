package metrics

import (
	"testing"
	"time"

	"datajoin/core/join"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecorder_ObserveJoin(t *testing.T) {
	reg := prometheus.NewRegistry()
	rec := New(WithRegistry(reg), WithNamespace("test"))

	rec.ObserveJoin("chart", StatusOK, join.Summary{Items: 5, Entered: 2, Updating: 3, Exiting: 1, Exited: 1, Dropped: 1}, 10*time.Millisecond)
	rec.ObserveJoin("chart", StatusOK, join.Summary{Items: 5, Updating: 5}, time.Millisecond)
	rec.ObserveJoin("chart", StatusDryRun, join.Summary{Entering: 4}, time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(rec.entered.WithLabelValues("chart")))
	assert.Equal(t, 8.0, testutil.ToFloat64(rec.updated.WithLabelValues("chart")))
	assert.Equal(t, 1.0, testutil.ToFloat64(rec.exited.WithLabelValues("chart")))
	assert.Equal(t, 1.0, testutil.ToFloat64(rec.dropped.WithLabelValues("chart")))
	assert.Equal(t, 2.0, testutil.ToFloat64(rec.joins.WithLabelValues("chart", StatusOK)))
	assert.Equal(t, 1.0, testutil.ToFloat64(rec.joins.WithLabelValues("chart", StatusDryRun)))

	count, err := testutil.GatherAndCount(reg, "test_join_duration_seconds")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestRecorder_Forget(t *testing.T) {
	reg := prometheus.NewRegistry()
	rec := New(WithRegistry(reg))

	rec.ObserveJoin("a", StatusOK, join.Summary{Entered: 1}, time.Millisecond)
	rec.ObserveJoin("b", StatusError, join.Summary{}, time.Millisecond)
	rec.Forget("a")

	count, err := testutil.GatherAndCount(reg, "datajoin_joins_total")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestRecorder_Nil(t *testing.T) {
	var rec *Recorder
	assert.NotPanics(t, func() {
		rec.ObserveJoin("chart", StatusOK, join.Summary{Entered: 1}, time.Second)
		rec.Forget("chart")
	})
}
