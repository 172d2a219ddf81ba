package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var RequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
	Name: "jrotc_http_request_duration_seconds",
	Help: "Duration of HTTP requests by route pattern",
}, []string{"method", "route"})

var ResponseCounter = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "jrotc_http_response_total",
	Help: "The total number of responses by status code",
}, []string{"status_code"})

var QueryDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
	Name: "jrotc_sql_query_duration_seconds",
	Help: "Duration of sql calls in seconds",
}, []string{"op"})

var SlowQueryCounter = promauto.NewCounter(prometheus.CounterOpts{
	Name: "jrotc_sql_slow_query_total",
	Help: "The total number of queries over the slow-query threshold",
})

var CadetsImported = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "jrotc_cadets_imported_total",
	Help: "Rows processed by cadet imports by outcome",
}, []string{"outcome"})

var ScoreSheetsSubmitted = promauto.NewCounter(prometheus.CounterOpts{
	Name: "jrotc_score_sheets_submitted_total",
	Help: "The total number of judge score sheets submitted",
})

var AuthEvents = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "jrotc_auth_events_total",
	Help: "Login attempts by result",
}, []string{"result"})

var EmailsSent = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "jrotc_emails_sent_total",
	Help: "Outgoing emails by kind and result",
}, []string{"kind", "result"})
