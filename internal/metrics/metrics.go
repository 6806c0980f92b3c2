// Package metrics holds the Prometheus collectors exported on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	VentasRegistradas = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "tpv",
		Name:      "ventas_registradas_total",
		Help:      "Sales settled successfully.",
	})

	VentasRechazadas = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "tpv",
		Name:      "ventas_rechazadas_total",
		Help:      "Settlement attempts rejected, by reason.",
	}, []string{"motivo"})

	ImporteVentas = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "tpv",
		Name:      "ventas_importe_total",
		Help:      "Sum of settled sale totals.",
	})

	ServiciosAbiertos = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "tpv",
		Name:      "servicios_abiertos_total",
		Help:      "Sessions opened.",
	})

	ServiciosCerradosForzados = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "tpv",
		Name:      "servicios_cerrados_forzados_total",
		Help:      "Sessions closed implicitly because another session was opened.",
	})

	JobsProcesados = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "tpv",
		Name:      "jobs_procesados_total",
		Help:      "Background jobs processed, by type and result.",
	}, []string{"tipo", "resultado"})

	HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "tpv",
		Name:      "http_requests_total",
		Help:      "HTTP requests by route, method and status.",
	}, []string{"ruta", "metodo", "status"})

	HTTPDuracion = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "tpv",
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latency.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"ruta", "metodo"})

	RateLimitRechazos = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "tpv",
		Name:      "rate_limit_rechazos_total",
		Help:      "Requests rejected with 429, by limiter.",
	}, []string{"limiter"})
)
