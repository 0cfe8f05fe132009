package metrics

import (
	"time"

	"datajoin/core/join"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Join statuses recorded on the joins_total counter.
const (
	StatusOK       = "ok"
	StatusDryRun   = "dry_run"
	StatusConflict = "conflict"
	StatusError    = "error"
)

type options struct {
	namespace string
	buckets   []float64
	registry  prometheus.Registerer
}

// Option configures a Recorder.
type Option func(*options)

// WithNamespace sets the metrics namespace.
func WithNamespace(namespace string) Option {
	return func(o *options) {
		o.namespace = namespace
	}
}

// WithBuckets sets the join duration histogram buckets.
func WithBuckets(buckets []float64) Option {
	return func(o *options) {
		o.buckets = buckets
	}
}

// WithRegistry sets the Prometheus registry.
func WithRegistry(registry prometheus.Registerer) Option {
	return func(o *options) {
		o.registry = registry
	}
}

// Recorder records join outcomes. A nil *Recorder discards everything.
type Recorder struct {
	entered  *prometheus.CounterVec
	updated  *prometheus.CounterVec
	exited   *prometheus.CounterVec
	dropped  *prometheus.CounterVec
	joins    *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// New registers the join metrics and returns a Recorder.
// Registering twice on the same registry panics.
func New(opts ...Option) *Recorder {
	o := options{
		namespace: "datajoin",
		buckets:   prometheus.DefBuckets,
		registry:  prometheus.DefaultRegisterer,
	}
	for _, opt := range opts {
		opt(&o)
	}

	factory := promauto.With(o.registry)
	items := func(name, help string) *prometheus.CounterVec {
		return factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: o.namespace,
			Name:      name,
			Help:      help,
		}, []string{"scene"})
	}

	return &Recorder{
		entered: items("items_entered_total", "Total number of items that created a node"),
		updated: items("items_updated_total", "Total number of items bound to an existing node"),
		exited:  items("items_exited_total", "Total number of nodes left without an item"),
		dropped: items("items_dropped_total", "Total number of items displaced by a duplicate key"),
		joins: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: o.namespace,
			Name:      "joins_total",
			Help:      "Total number of joins by outcome",
		}, []string{"scene", "status"}),
		duration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: o.namespace,
			Name:      "join_duration_seconds",
			Help:      "Join duration in seconds, persistence included",
			Buckets:   o.buckets,
		}, []string{"scene"}),
	}
}

// ObserveJoin records one join. Item counters only move for applied joins.
func (r *Recorder) ObserveJoin(scene, status string, s join.Summary, elapsed time.Duration) {
	if r == nil {
		return
	}
	r.joins.WithLabelValues(scene, status).Inc()
	r.duration.WithLabelValues(scene).Observe(elapsed.Seconds())
	if status != StatusOK {
		return
	}
	r.entered.WithLabelValues(scene).Add(float64(s.Entered))
	r.updated.WithLabelValues(scene).Add(float64(s.Updating))
	r.exited.WithLabelValues(scene).Add(float64(s.Exited))
	r.dropped.WithLabelValues(scene).Add(float64(s.Dropped))
}

// Forget removes every series labelled with scene.
func (r *Recorder) Forget(scene string) {
	if r == nil {
		return
	}
	labels := prometheus.Labels{"scene": scene}
	r.entered.DeletePartialMatch(labels)
	r.updated.DeletePartialMatch(labels)
	r.exited.DeletePartialMatch(labels)
	r.dropped.DeletePartialMatch(labels)
	r.joins.DeletePartialMatch(labels)
	r.duration.DeletePartialMatch(labels)
}
