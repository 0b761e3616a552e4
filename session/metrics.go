// Copyright (c) 2024 Neomantra Corp

package session

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/quantfeed/lsg-go"
)

type metrics struct {
	bytesReceived      prometheus.Counter
	recordsDispatched  prometheus.Counter
	buffersResubmitted prometheus.Counter
	errorsReported      *prometheus.CounterVec
}

func newMetrics() *metrics {
	return &metrics{
		bytesReceived: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "lsg", Subsystem: "session", Name: "bytes_received_total",
			Help: "Bytes read off the transport by the receive loop.",
		}),
		recordsDispatched: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "lsg", Subsystem: "session", Name: "records_dispatched_total",
			Help: "Decoded records handed to the configured Handler.",
		}),
		buffersResubmitted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "lsg", Subsystem: "session", Name: "buffers_resubmitted_total",
			Help: "Receive buffers resubmitted for another read.",
		}),
		errorsReported: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "lsg", Subsystem: "session", Name: "errors_reported_total",
			Help: "Errors reported to the configured Handler, labeled by kind.",
		}, []string{"kind"}),
	}
}

func (m *metrics) Collectors() []prometheus.Collector {
	return []prometheus.Collector{m.bytesReceived, m.recordsDispatched, m.buffersResubmitted, m.errorsReported}
}

func (m *metrics) observeError(kind lsg.Kind) {
	if m == nil {
		return
	}
	m.errorsReported.WithLabelValues(kind.String()).Inc()
}

// Register returns the session's metric collectors for registration
// against reg.
func (s *Session) Register(reg prometheus.Registerer) error {
	for _, c := range s.metrics.Collectors() {
		if err := reg.Register(c); err != nil {
			return err
		}
	}
	return nil
}
