package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics набор Prometheus метрик сервиса
// Регистрируется в дефолтном registry, отдается через promhttp.Handler()
type Metrics struct {
	serviceName string

	// HTTP метрики
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	// Метрики БД
	DBQueryDuration *prometheus.HistogramVec
	DBQueryErrors   *prometheus.CounterVec

	// Метрики connection pool
	DBConnectionsOpen  *prometheus.GaugeVec
	DBConnectionsIdle  *prometheus.GaugeVec
	DBConnectionsInUse *prometheus.GaugeVec
}

// New создает и регистрирует метрики сервиса
func New(serviceName string) *Metrics {
	return &Metrics{
		serviceName: serviceName,

		HTTPRequestsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		}, []string{"service", "method", "path", "status"}),

		HTTPRequestDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"service", "method", "path"}),

		DBQueryDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "db_query_duration_seconds",
			Help:    "Database query duration in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		}, []string{"service", "operation"}),

		DBQueryErrors: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "db_query_errors_total",
			Help: "Total number of database query errors",
		}, []string{"service", "operation"}),

		DBConnectionsOpen: promauto.NewGaugeVec(prometheus.GaugeOpts{
			Name: "db_connections_open",
			Help: "Number of open database connections",
		}, []string{"service"}),

		DBConnectionsIdle: promauto.NewGaugeVec(prometheus.GaugeOpts{
			Name: "db_connections_idle",
			Help: "Number of idle database connections",
		}, []string{"service"}),

		DBConnectionsInUse: promauto.NewGaugeVec(prometheus.GaugeOpts{
			Name: "db_connections_in_use",
			Help: "Number of database connections in use",
		}, []string{"service"}),
	}
}

// ObserveHTTPRequest записывает метрики обработанного HTTP запроса
func (m *Metrics) ObserveHTTPRequest(method, path, status string, durationSeconds float64) {
	m.HTTPRequestsTotal.WithLabelValues(m.serviceName, method, path, status).Inc()
	m.HTTPRequestDuration.WithLabelValues(m.serviceName, method, path).Observe(durationSeconds)
}

// ObserveDBQuery записывает метрики выполненного SQL запроса
func (m *Metrics) ObserveDBQuery(operation string, durationSeconds float64, err error) {
	m.DBQueryDuration.WithLabelValues(m.serviceName, operation).Observe(durationSeconds)
	if err != nil {
		m.DBQueryErrors.WithLabelValues(m.serviceName, operation).Inc()
	}
}

// SetDBPoolStats обновляет gauge-метрики connection pool
func (m *Metrics) SetDBPoolStats(open, idle, inUse int) {
	m.DBConnectionsOpen.WithLabelValues(m.serviceName).Set(float64(open))
	m.DBConnectionsIdle.WithLabelValues(m.serviceName).Set(float64(idle))
	m.DBConnectionsInUse.WithLabelValues(m.serviceName).Set(float64(inUse))
}
