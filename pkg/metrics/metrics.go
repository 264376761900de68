package metrics

import (
	"vegaaccounts/backend/pkg/config"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTPRequestCounter conta o total de requisições HTTP.
	HTTPRequestCounter *prometheus.CounterVec

	// HTTPRequestDuration observa a duração das requisições HTTP.
	HTTPRequestDuration *prometheus.HistogramVec

	// TokensIssuedCounter conta tokens emitidos (ou renovados) por finalidade.
	TokensIssuedCounter *prometheus.CounterVec

	// TokensConsumedCounter conta tokens consumidos com sucesso por finalidade.
	TokensConsumedCounter *prometheus.CounterVec

	// AppInfo expõe informações sobre a aplicação.
	AppInfo *prometheus.GaugeVec
)

func init() {
	HTTPRequestCounter = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vegaaccounts_http_requests_total",
			Help: "Total number of HTTP requests processed.",
		},
		[]string{"method", "path", "status_code"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "vegaaccounts_http_request_duration_seconds",
			Help:    "Histogram of HTTP request latencies.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	TokensIssuedCounter = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vegaaccounts_tokens_issued_total",
			Help: "Total number of activation/password-reset tokens issued or refreshed.",
		},
		[]string{"purpose"},
	)

	TokensConsumedCounter = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vegaaccounts_tokens_consumed_total",
			Help: "Total number of tokens consumed by a successful activation or password change.",
		},
		[]string{"purpose"},
	)

	AppInfo = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "vegaaccounts_app_info",
			Help: "Information about the Vega Accounts application.",
		},
		[]string{"version"},
	)
	AppInfo.With(prometheus.Labels{"version": config.Cfg.AppVersion}).Set(1)
}
