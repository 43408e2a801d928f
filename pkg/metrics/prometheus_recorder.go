package metrics

import (
	"strconv"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
)

// PrometheusRecorder implements Recorder using Prometheus metrics.
type PrometheusRecorder struct {
	registry       *prom.Registry
	operations     *prom.CounterVec
	duration       *prom.HistogramVec
	bytesWritten   prom.Counter
	renderFailures *prom.CounterVec
	dirsPruned     prom.Counter
}

// NewPrometheusRecorder constructs the metrics and registers them on reg.
// A nil reg gets a fresh registry.
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{
		registry: reg,
		operations: prom.NewCounterVec(prom.CounterOpts{
			Namespace: "staticgen",
			Name:      "operations_total",
			Help:      "Publish and delete operations by outcome",
		}, []string{"operation", "result"}),
		duration: prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: "staticgen",
			Name:      "operation_duration_seconds",
			Help:      "Duration of single-path publish and delete operations",
			Buckets:   prom.DefBuckets,
		}, []string{"operation"}),
		bytesWritten: prom.NewCounter(prom.CounterOpts{
			Namespace: "staticgen",
			Name:      "bytes_written_total",
			Help:      "Bytes of content published",
		}),
		renderFailures: prom.NewCounterVec(prom.CounterOpts{
			Namespace: "staticgen",
			Name:      "render_failures_total",
			Help:      "Content fetches rejected by status code",
		}, []string{"code"}),
		dirsPruned: prom.NewCounter(prom.CounterOpts{
			Namespace: "staticgen",
			Name:      "directories_pruned_total",
			Help:      "Empty directories removed after a delete",
		}),
	}
	reg.MustRegister(pr.operations, pr.duration, pr.bytesWritten, pr.renderFailures, pr.dirsPruned)
	return pr
}

// Registry returns the registry the metrics are registered on.
func (p *PrometheusRecorder) Registry() *prom.Registry {
	return p.registry
}

// WriteTextfile writes the current metrics in the text exposition format,
// suitable for the node-exporter textfile collector.
func (p *PrometheusRecorder) WriteTextfile(path string) error {
	return prom.WriteToTextfile(path, p.registry)
}

func (p *PrometheusRecorder) IncOperation(op Operation, result ResultLabel) {
	if p == nil || p.operations == nil {
		return
	}
	p.operations.WithLabelValues(string(op), string(result)).Inc()
}

func (p *PrometheusRecorder) ObserveOperationDuration(op Operation, d time.Duration) {
	if p == nil || p.duration == nil {
		return
	}
	p.duration.WithLabelValues(string(op)).Observe(d.Seconds())
}

func (p *PrometheusRecorder) AddBytesWritten(n int) {
	if p == nil || p.bytesWritten == nil {
		return
	}
	p.bytesWritten.Add(float64(n))
}

func (p *PrometheusRecorder) IncRenderFailure(statusCode int) {
	if p == nil || p.renderFailures == nil {
		return
	}
	p.renderFailures.WithLabelValues(strconv.Itoa(statusCode)).Inc()
}

func (p *PrometheusRecorder) IncDirectoryPruned() {
	if p == nil || p.dirsPruned == nil {
		return
	}
	p.dirsPruned.Inc()
}

var _ Recorder = (*PrometheusRecorder)(nil)
