package metrics

import (
	"net/http"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"google.golang.org/grpc/codes"
)

// Metric names.
const (
	Namespace = "form_plugin"

	MetricCallsTotal   = "calls_total"
	MetricCallDuration = "call_duration_seconds"
	MetricMismatches   = "mismatches_total"
)

// Label names.
const (
	LabelMethod = "method"
	LabelCode   = "code"
)

// CallLatencyBuckets are tuned for in-process work that rarely exceeds a few
// milliseconds.
var CallLatencyBuckets = []float64{0.0001, 0.0005, 0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1, 0.5, 1}

// Registry holds the plugin metrics.
type Registry struct {
	reg *prometheus.Registry

	calls      *prometheus.CounterVec
	duration   *prometheus.HistogramVec
	mismatches prometheus.Counter
}

// New creates a Registry with the plugin metrics plus the Go runtime and
// process collectors.
func New() *Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	factory := promauto.With(reg)
	return &Registry{
		reg: reg,
		calls: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: Namespace,
				Name:      MetricCallsTotal,
				Help:      "Total number of plugin calls by method and status code.",
			},
			[]string{LabelMethod, LabelCode},
		),
		duration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: Namespace,
				Name:      MetricCallDuration,
				Help:      "Duration of plugin calls in seconds.",
				Buckets:   CallLatencyBuckets,
			},
			[]string{LabelMethod},
		),
		mismatches: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: Namespace,
				Name:      MetricMismatches,
				Help:      "Total number of mismatches reported by content comparison.",
			},
		),
	}
}

// ObserveCall records one finished call. A nil Registry ignores the call.
func (r *Registry) ObserveCall(method string, code codes.Code, elapsed time.Duration) {
	if r == nil {
		return
	}
	r.calls.WithLabelValues(method, CodeLabel(code)).Inc()
	r.duration.WithLabelValues(method).Observe(elapsed.Seconds())
}

// AddMismatches records n mismatches. A nil Registry ignores the call.
func (r *Registry) AddMismatches(n int) {
	if r == nil || n <= 0 {
		return
	}
	r.mismatches.Add(float64(n))
}

// Gatherer returns the underlying registry for scraping or tests.
func (r *Registry) Gatherer() prometheus.Gatherer {
	return r.reg
}

// Handler returns an HTTP handler serving the registry in the Prometheus
// exposition format.
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.reg, promhttp.HandlerOpts{Registry: r.reg})
}

// CodeLabel converts a gRPC code to its lowercase snake case name, for
// example codes.InvalidArgument becomes "invalid_argument".
func CodeLabel(code codes.Code) string {
	name := code.String()
	var sb strings.Builder
	for i, c := range name {
		if c >= 'A' && c <= 'Z' {
			if i > 0 {
				sb.WriteByte('_')
			}
			c += 'a' - 'A'
		}
		sb.WriteRune(c)
	}
	return sb.String()
}
