// Package metrics counts failures by kind and transport with Prometheus.
package metrics

import (
	prom "github.com/prometheus/client_golang/prometheus"

	"github.com/next-trace/scg-failure/failure"
)

// Unclassified labels errors that carry no taxonomy kind.
const Unclassified = "unclassified"

// Transport label values used by the adapters.
const (
	TransportHTTP = "http"
	TransportNATS = "nats"
)

// Recorder implements failure counting. A nil *Recorder discards everything.
type Recorder struct {
	failures *prom.CounterVec
}

// NewRecorder constructs and registers the failure counter. If reg is nil a
// private registry is used, which keeps tests isolated.
func NewRecorder(reg prom.Registerer) (*Recorder, error) {
	if reg == nil {
		reg = prom.NewRegistry()
	}

	r := &Recorder{
		failures: prom.NewCounterVec(prom.CounterOpts{
			Namespace: "scg",
			Name:      "failures_total",
			Help:      "Failures reported to callers, by taxonomy kind and transport",
		}, []string{"kind", "transport"}),
	}

	if err := reg.Register(r.failures); err != nil {
		return nil, err
	}

	return r, nil
}

// Observe counts err under its kind. nil errors are ignored.
func (r *Recorder) Observe(transport string, err error) {
	if r == nil || err == nil {
		return
	}

	r.failures.WithLabelValues(Label(err), transport).Inc()
}

// Counter exposes the underlying vector for assertions and custom collection.
func (r *Recorder) Counter() *prom.CounterVec {
	if r == nil {
		return nil
	}

	return r.failures
}

// Label returns the metric label for err.
func Label(err error) string {
	if k, ok := failure.KindOf(err); ok {
		return k.String()
	}

	return Unclassified
}
