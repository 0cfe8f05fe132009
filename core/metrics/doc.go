// Package metrics exposes Prometheus counters for scene joins.
//
// A Recorder counts entered, updated, exited and dropped items per scene,
// joins per outcome, and join duration. Metrics are registered through
// promauto on the configured registry:
//
//	reg := prometheus.NewRegistry()
//	rec := metrics.New(metrics.WithRegistry(reg))
//	rec.ObserveJoin("chart", metrics.StatusOK, result.Summary(), time.Since(start))
package metrics
