// Package metrics holds the Prometheus collectors shared by the HTTP façade,
// the aggregation service and the vault commands.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTPRequestsTotal counts façade requests by route, method and status code.
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tradingflow_http_requests_total",
			Help: "HTTP requests by route, method and status",
		},
		[]string{"route", "method", "status"},
	)

	// HTTPRequestDuration tracks façade request latency by route.
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "tradingflow_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0, 10.0},
		},
		[]string{"route"},
	)

	// MetadataLookups counts token metadata resolutions by outcome.
	MetadataLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tradingflow_metadata_lookups_total",
			Help: "Token metadata lookups by outcome",
		},
		[]string{"outcome"}, // found, absent, failed
	)

	// VaultTransactions counts vault entry point executions by function and stage reached.
	VaultTransactions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tradingflow_vault_transactions_total",
			Help: "Vault transactions by entry function, stage and outcome",
		},
		[]string{"function", "stage", "success"},
	)

	// ConfirmationLatency tracks time spent waiting for ledger confirmation.
	ConfirmationLatency = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "tradingflow_confirmation_latency_seconds",
			Help:    "Transaction confirmation latency in seconds",
			Buckets: []float64{0.5, 1.0, 2.5, 5.0, 10.0, 30.0, 60.0},
		},
	)
)

// Lookup outcomes.
const (
	LookupFound  = "found"
	LookupAbsent = "absent"
	LookupFailed = "failed"
)

// RecordHTTPRequest records one finished façade request.
func RecordHTTPRequest(route, method string, status int, duration time.Duration) {
	if route == "" {
		route = "unmatched"
	}
	HTTPRequestsTotal.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	HTTPRequestDuration.WithLabelValues(route).Observe(duration.Seconds())
}

// RecordLookup records a metadata lookup outcome.
func RecordLookup(outcome string) {
	MetadataLookups.WithLabelValues(outcome).Inc()
}

// RecordTransaction records the final stage of a vault transaction.
func RecordTransaction(function, stage string, success bool) {
	VaultTransactions.WithLabelValues(function, stage, strconv.FormatBool(success)).Inc()
}

// ObserveConfirmation records confirmation latency.
func ObserveConfirmation(duration time.Duration) {
	ConfirmationLatency.Observe(duration.Seconds())
}
