// Package prometheus provides Prometheus collectors for goCredStore metrics.
//
// [NewPrometheusExporter] accepts a [goCredStore.Engine] and exposes an [http.Handler]
// that renders all goCredStore counters and histograms in Prometheus text exposition
// format. Counter names are prefixed credstore_*_total; the single histogram is
// credstore_backend_latency_seconds.
//
// # What this package must NOT do
//
//   - Register metrics in a global Prometheus registry — callers mount the Handler.
//   - Mutate engine state.
package prometheus
