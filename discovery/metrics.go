// Copyright (c) 2024 Neomantra Corp

package discovery

import "github.com/prometheus/client_golang/prometheus"

type metrics struct {
	optionsDiscovered prometheus.Counter
	sdefsReceived     prometheus.Counter
	rootsDiscovered   prometheus.Gauge
}

func newMetrics() *metrics {
	return &metrics{
		optionsDiscovered: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "lsg", Subsystem: "discovery", Name: "options_discovered_total",
			Help: "Options attached to a root via a symbol-mapping message.",
		}),
		sdefsReceived: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "lsg", Subsystem: "discovery", Name: "security_definitions_received_total",
			Help: "Security definition messages added to the definition index.",
		}),
		rootsDiscovered: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "lsg", Subsystem: "discovery", Name: "roots_discovered",
			Help: "Distinct optionable roots currently in the roots table.",
		}),
	}
}

func (m *metrics) Collectors() []prometheus.Collector {
	return []prometheus.Collector{m.optionsDiscovered, m.sdefsReceived, m.rootsDiscovered}
}

// Register returns the Discovery's metric collectors for registration
// against reg.
func (d *Discovery) Register(reg prometheus.Registerer) error {
	for _, c := range d.metrics.Collectors() {
		if err := reg.Register(c); err != nil {
			return err
		}
	}
	return nil
}
