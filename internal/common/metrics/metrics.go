// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	SelectionTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "selection_transitions_total",
			Help: "Total number of selection controller transitions",
		},
		[]string{"outcome"},
	)

	SelectionAborted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "selection_transitions_aborted_total",
			Help: "Transitions aborted because the native selector was missing",
		},
		[]string{"attribute"},
	)

	NotifyRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "notify_requests_total",
			Help: "Notification request submissions by outcome",
		},
		[]string{"outcome"},
	)

	OperatorNotifications = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "operator_notifications_total",
			Help: "Best-effort operator notifications by provider and status",
		},
		[]string{"provider", "status"},
	)

	CatalogCacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "catalog_cache_hits_total",
			Help: "Catalog variation snapshot cache lookups",
		},
		[]string{"result"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "http_request_duration_seconds",
			Help: "Duration of HTTP request handling in seconds",
		},
		[]string{"route", "method", "status"},
	)
)
