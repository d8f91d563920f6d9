// Package metrics contadores Prometheus del servicio.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/VishalKmk/Inventory-Management-App/internal/application/ports"
)

var _ ports.Metrics = (*Prometheus)(nil)

// Prometheus implementa ports.Metrics y expone además métricas HTTP.
type Prometheus struct {
	auditFailures *prometheus.CounterVec
	stockMoved    *prometheus.CounterVec
	requests      *prometheus.CounterVec
	latency       *prometheus.HistogramVec
}

// New registra los colectores en reg.
func New(reg prometheus.Registerer) *Prometheus {
	m := &Prometheus{
		auditFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "inventory_audit_failures_total",
			Help: "Entradas de auditoría que no se pudieron persistir.",
		}, []string{"operation"}),
		stockMoved: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "inventory_stock_units_total",
			Help: "Unidades movidas por operación de stock.",
		}, []string{"operation"}),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "inventory_http_requests_total",
			Help: "Peticiones HTTP por método, ruta y status.",
		}, []string{"method", "route", "status"}),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "inventory_http_request_duration_seconds",
			Help:    "Latencia de las peticiones HTTP.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}
	reg.MustRegister(m.auditFailures, m.stockMoved, m.requests, m.latency)
	return m
}

func (m *Prometheus) AuditFailed(operation string) {
	m.auditFailures.WithLabelValues(operation).Inc()
}

func (m *Prometheus) StockMoved(operation string, quantity int) {
	m.stockMoved.WithLabelValues(operation).Add(float64(quantity))
}

// ObserveRequest registra una petición HTTP. route es el patrón de la ruta, no la URL.
func (m *Prometheus) ObserveRequest(method, route string, status int, elapsed time.Duration) {
	m.requests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.latency.WithLabelValues(method, route).Observe(elapsed.Seconds())
}
