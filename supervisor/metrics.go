// Copyright (c) 2024 Neomantra Corp

package supervisor

import "github.com/prometheus/client_golang/prometheus"

// metrics holds the Prometheus collectors a Supervisor updates as it
// creates sessions and forwards their callbacks. Each Supervisor registers
// its own collector instances rather than using package-global metrics, so
// that more than one Supervisor can coexist in a process.
type metrics struct {
	sessionsCreated    prometheus.Counter
	sessionsSubscribed prometheus.Counter
	recordsDispatched  prometheus.Counter
	getErrors          prometheus.Counter
	fatalErrors        prometheus.Counter
}

func newMetrics() *metrics {
	return &metrics{
		sessionsCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "lsg", Subsystem: "supervisor", Name: "sessions_created_total",
			Help: "Sessions created by ConnectAndStart.",
		}),
		sessionsSubscribed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "lsg", Subsystem: "supervisor", Name: "sessions_subscribed_total",
			Help: "Sessions whose subscribe call returned successfully.",
		}),
		recordsDispatched: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "lsg", Subsystem: "supervisor", Name: "records_dispatched_total",
			Help: "Data records forwarded to the supervisor Handler across all sessions; gateway error and system messages are not counted.",
		}),
		getErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "lsg", Subsystem: "supervisor", Name: "get_errors_total",
			Help: "Worker Get loop exits caused by an error.",
		}),
		fatalErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "lsg", Subsystem: "supervisor", Name: "fatal_errors_total",
			Help: "Fatal session errors forwarded to the supervisor Handler.",
		}),
	}
}

// Collectors returns every metric so the caller can register them with a
// prometheus.Registerer.
func (m *metrics) Collectors() []prometheus.Collector {
	return []prometheus.Collector{
		m.sessionsCreated, m.sessionsSubscribed, m.recordsDispatched, m.getErrors, m.fatalErrors,
	}
}

// Register returns the Supervisor's metric collectors for registration
// against reg.
func (sv *Supervisor) Register(reg prometheus.Registerer) error {
	for _, c := range sv.metrics.Collectors() {
		if err := reg.Register(c); err != nil {
			return err
		}
	}
	return nil
}
