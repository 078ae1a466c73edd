package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "waterguard_http_requests_total",
			Help: "Total number of HTTP requests by route and status",
		},
		[]string{"route", "status"},
	)

	HTTPDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "waterguard_http_request_duration_seconds",
			Help: "Duration of HTTP requests in seconds",
		},
		[]string{"route"},
	)

	ChatRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "waterguard_chat_requests_total",
			Help: "Chat questions by outcome (ok, invalid, model_error)",
		},
		[]string{"outcome"},
	)

	Emails = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "waterguard_emails_total",
			Help: "Transactional emails by kind and outcome",
		},
		[]string{"kind", "outcome"},
	)

	StoreRecoveries = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "waterguard_store_recoveries_total",
			Help: "Corrupt collection files moved aside",
		},
		[]string{"collection"},
	)
)

// Outcome maps an error to the "ok"/"error" label value.
func Outcome(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
