package main

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

var (
	searchesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "ordergrid",
		Name:      "searches_total",
		Help:      "Total searches by the result kind",
	}, []string{"result"})

	searchDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "ordergrid",
		Name:      "search_duration_seconds",
		Help:      "Search and projection duration",
		Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
	})

	displayedRows = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "ordergrid",
		Name:      "displayed_rows",
		Help:      "Rows of the latest applied search",
	})

	notificationsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "ordergrid",
		Name:      "notifications_total",
		Help:      "Total notifications by type",
	}, []string{"type"})

	// Registry exposed on "/metrics"
	registry = prometheus.NewRegistry()
)

func init() {
	registry.MustRegister(
		searchesTotal,
		searchDuration,
		displayedRows,
		notificationsTotal,
		collectors.NewGoCollector(),
	)
}

/*
 * Account a finished search.
 * Result kind is "success", "stale" or an error kind
 */
func observeSearch(result string, seconds float64) {
	searchesTotal.WithLabelValues(result).Inc()
	searchDuration.Observe(seconds)
}
