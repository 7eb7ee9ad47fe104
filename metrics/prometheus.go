package metrics

import "github.com/prometheus/client_golang/prometheus"

var HttpRequestsTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests received",
	},
	[]string{"endpoint", "status", "method"},
)

var HttpRequestDuration = prometheus.NewHistogramVec(
	prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "Duration of HTTP requests in seconds",
		Buckets: prometheus.DefBuckets,
	},
	[]string{"endpoint", "method"},
)

var HttpErrorsTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "http_errors_total",
		Help: "Total number of failed HTTP requests (4xx/5xx)",
	},
	[]string{"endpoint", "status", "method"},
)

var HttpRateLimitRejectionsTotal = prometheus.NewCounter(
	prometheus.CounterOpts{
		Name: "http_rate_limit_rejections_total",
		Help: "Total number of HTTP requests rejected due to rate limiting",
	},
)

var CallsAttemptedTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "calls_attempted_total",
		Help: "Total number of outbound calls attempted",
	},
	[]string{"status", "provider"},
)

var CallDialDuration = prometheus.NewHistogramVec(
	prometheus.HistogramOpts{
		Name:    "call_dial_duration_seconds",
		Help:    "Time taken to place calls via the telephony provider",
		Buckets: prometheus.DefBuckets,
	},
	[]string{"provider"},
)

var CommandsParsedTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "commands_parsed_total",
		Help: "Total number of natural-language commands parsed",
	},
	[]string{"action"},
)

var ExternalAPISuccessTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "external_api_success_total",
		Help: "Total number of successful external API calls",
	},
	[]string{"provider", "service"},
)

var ExternalAPIFailureTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "external_api_failure_total",
		Help: "Total number of failed external API calls",
	},
	[]string{"provider", "service"},
)

var ExternalAPIDuration = prometheus.NewHistogramVec(
	prometheus.HistogramOpts{
		Name:    "external_api_duration_seconds",
		Help:    "Duration of external API calls in seconds",
		Buckets: prometheus.DefBuckets,
	},
	[]string{"provider", "service"},
)

func InitAPIMetrics() {
	prometheus.MustRegister(HttpRequestsTotal)
	prometheus.MustRegister(HttpRequestDuration)
	prometheus.MustRegister(HttpErrorsTotal)
	prometheus.MustRegister(HttpRateLimitRejectionsTotal)
	prometheus.MustRegister(CallsAttemptedTotal)
	prometheus.MustRegister(CallDialDuration)
	prometheus.MustRegister(CommandsParsedTotal)
	prometheus.MustRegister(ExternalAPISuccessTotal)
	prometheus.MustRegister(ExternalAPIFailureTotal)
	prometheus.MustRegister(ExternalAPIDuration)
}
