// Package metrics exposes Prometheus metrics for the plugin's gRPC calls.
//
// Metrics live on a private registry so several plugin instances can run in
// one process (as tests do) without colliding on the default registerer.
//
//   - form_plugin_calls_total: calls per method and status code
//   - form_plugin_call_duration_seconds: call latency per method
//   - form_plugin_mismatches_total: mismatches reported by CompareContents
//
// Status codes use the lowercase gRPC names (ok, aborted, invalid_argument).
//
//	reg := metrics.New()
//	reg.ObserveCall("CompareContents", codes.OK, 3*time.Millisecond)
//	http.Handle("/metrics", reg.Handler())
package metrics
