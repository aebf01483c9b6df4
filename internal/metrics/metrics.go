// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

// Package metrics exposes simulator activity as Prometheus metrics.
//
package metrics

import (
	"github.com/db47h/logicsim"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the simulator collectors.
//
type Metrics struct {
	evaluations *prometheus.CounterVec
	rounds      prometheus.Histogram
	unstable    prometheus.Gauge
	mutations   *prometheus.CounterVec
}

// New creates the collectors and registers them with reg. If reg is nil, the
// collectors are not registered.
//
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		evaluations: f.NewCounterVec(prometheus.CounterOpts{
			Name: "logicsim_evaluations_total",
			Help: "Total circuit evaluations by result",
		}, []string{"result"}),
		rounds: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "logicsim_stabilization_rounds",
			Help:    "Number of state changing rounds per evaluation",
			Buckets: prometheus.ExponentialBuckets(1, 2, 10),
		}),
		unstable: f.NewGauge(prometheus.GaugeOpts{
			Name: "logicsim_unstable",
			Help: "1 if the last evaluation did not reach a fixed point",
		}),
		mutations: f.NewCounterVec(prometheus.CounterOpts{
			Name: "logicsim_mutations_total",
			Help: "Total circuit mutations by operation and result",
		}, []string{"op", "result"}),
	}
}

// Probe returns a simulator probe feeding the evaluation metrics.
//
func (m *Metrics) Probe() logicsim.Probe {
	return func(r logicsim.Result, err error) {
		m.rounds.Observe(float64(r.Rounds))
		if err != nil {
			m.evaluations.WithLabelValues("unstable").Inc()
			m.unstable.Set(1)
			return
		}
		m.evaluations.WithLabelValues("stable").Inc()
		m.unstable.Set(0)
	}
}

// ObserveMutation counts a mutation. op is the operation name (add_element,
// connect, disconnect, toggle...).
//
func (m *Metrics) ObserveMutation(op string, err error) {
	res := "ok"
	if err != nil {
		res = "error"
	}
	m.mutations.WithLabelValues(op, res).Inc()
}
