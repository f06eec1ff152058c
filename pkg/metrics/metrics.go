// Package metrics holds the Prometheus instruments of the data-access layer.
//
// Everything registers on DefaultRegistry; the worker command serves it:
//
//	http.Handle("/metrics", metrics.Handler())
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "campodigital"

var (
	// TransactionsTotal counts unit-of-work attempts by outcome.
	TransactionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "db",
			Name:      "transactions_total",
			Help:      "Unit-of-work attempts by outcome.",
		},
		[]string{"outcome"}, // "committed" | "rolled_back" | "panic"
	)

	TransactionDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "db",
		Name:      "transaction_duration_seconds",
		Help:      "Duration of unit-of-work attempts in seconds.",
		Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5},
	})

	// TransactionRetries counts attempts repeated after a retryable failure.
	TransactionRetries = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "db",
		Name:      "transaction_retries_total",
		Help:      "Unit-of-work attempts retried after a transient failure.",
	})

	DBQueryDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "db",
			Name:      "query_duration_seconds",
			Help:      "Duration of database statements in seconds.",
			Buckets:   []float64{.0005, .001, .005, .01, .025, .05, .1, .5, 1},
		},
		[]string{"operation"}, // "create" | "query" | "update" | "delete" | "raw"
	)

	OrdersPlaced = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "orders",
		Name:      "placed_total",
		Help:      "Orders committed by the order workflow.",
	})

	OrderTransitions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "orders",
			Name:      "transitions_total",
			Help:      "Committed status changes.",
		},
		[]string{"machine", "to"}, // machine: "status" | "payment"
	)

	OutboxPublished = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "outbox",
			Name:      "events_total",
			Help:      "Outbox events handled by the relay, by result.",
		},
		[]string{"result"}, // "published" | "failed" | "skipped"
	)

	OutboxBatchDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "outbox",
		Name:      "batch_duration_seconds",
		Help:      "Duration of one relay batch in seconds.",
		Buckets:   prometheus.DefBuckets,
	})
)

var DefaultRegistry = prometheus.NewRegistry()

func init() {
	DefaultRegistry.MustRegister(collectors.NewGoCollector())
	DefaultRegistry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	DefaultRegistry.MustRegister(
		TransactionsTotal,
		TransactionDuration,
		TransactionRetries,
		DBQueryDuration,
		OrdersPlaced,
		OrderTransitions,
		OutboxPublished,
		OutboxBatchDuration,
	)
}

// Handler exposes DefaultRegistry in the Prometheus text and OpenMetrics formats.
func Handler() http.Handler {
	return promhttp.HandlerFor(DefaultRegistry, promhttp.HandlerOpts{
		EnableOpenMetrics: true,
	})
}

// ObserveTransaction records one unit-of-work attempt.
func ObserveTransaction(outcome string, start time.Time) {
	TransactionsTotal.WithLabelValues(outcome).Inc()
	TransactionDuration.Observe(time.Since(start).Seconds())
}

// ObserveDBQuery records a statement duration:
//
//	defer metrics.ObserveDBQuery("query", time.Now())
func ObserveDBQuery(operation string, start time.Time) {
	DBQueryDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
}

func RecordOutboxEvent(result string) {
	OutboxPublished.WithLabelValues(result).Inc()
}
