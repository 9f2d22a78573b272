package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics набор Prometheus метрик сервиса
type Metrics struct {
	HTTPRequestsTotal    *prometheus.CounterVec
	HTTPRequestDuration  *prometheus.HistogramVec
	HTTPRequestsInFlight *prometheus.GaugeVec

	DBQueryDuration *prometheus.HistogramVec
	DBQueryErrors   *prometheus.CounterVec
	DBConnections   *prometheus.GaugeVec

	SlotComputations    *prometheus.CounterVec
	SlotsGenerated      *prometheus.HistogramVec
	AppointmentsCreated *prometheus.CounterVec
	OutboxPublished     *prometheus.CounterVec
	RateLimitRejected   *prometheus.CounterVec
}

// New создаёт метрики и регистрирует их в глобальном реестре Prometheus
func New(serviceName string) *Metrics {
	return NewWithRegistry(prometheus.DefaultRegisterer, serviceName)
}

// NewWithRegistry создаёт метрики и регистрирует их в переданном реестре
func NewWithRegistry(reg prometheus.Registerer, serviceName string) *Metrics {
	constLabels := prometheus.Labels{"service": serviceName}

	m := &Metrics{
		HTTPRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "http_requests_total",
			Help:        "Total number of HTTP requests",
			ConstLabels: constLabels,
		}, []string{"method", "route", "status"}),
		HTTPRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "http_request_duration_seconds",
			Help:        "HTTP request latency",
			ConstLabels: constLabels,
			Buckets:     prometheus.DefBuckets,
		}, []string{"method", "route"}),
		HTTPRequestsInFlight: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name:        "http_requests_in_flight",
			Help:        "Number of HTTP requests being served",
			ConstLabels: constLabels,
		}, []string{"method"}),
		DBQueryDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "db_query_duration_seconds",
			Help:        "Database query latency",
			ConstLabels: constLabels,
			Buckets:     []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
		}, []string{"operation"}),
		DBQueryErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "db_query_errors_total",
			Help:        "Total number of failed database queries",
			ConstLabels: constLabels,
		}, []string{"operation"}),
		DBConnections: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name:        "db_connections",
			Help:        "Database connection pool state",
			ConstLabels: constLabels,
		}, []string{"state"}),
		SlotComputations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "slot_computations_total",
			Help:        "Available slot computations by outcome",
			ConstLabels: constLabels,
		}, []string{"outcome"}),
		SlotsGenerated: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "slots_generated",
			Help:        "Number of bookable slots returned per computation",
			ConstLabels: constLabels,
			Buckets:     []float64{0, 1, 2, 4, 8, 16, 32, 48},
		}, []string{"business"}),
		AppointmentsCreated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "appointments_created_total",
			Help:        "Appointments created",
			ConstLabels: constLabels,
		}, []string{"business"}),
		OutboxPublished: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "outbox_events_published_total",
			Help:        "Outbox events published to the broker",
			ConstLabels: constLabels,
		}, []string{"event_type"}),
		RateLimitRejected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "rate_limit_rejected_total",
			Help:        "Requests rejected by the rate limiter",
			ConstLabels: constLabels,
		}, []string{"backend"}),
	}

	reg.MustRegister(
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.HTTPRequestsInFlight,
		m.DBQueryDuration,
		m.DBQueryErrors,
		m.DBConnections,
		m.SlotComputations,
		m.SlotsGenerated,
		m.AppointmentsCreated,
		m.OutboxPublished,
		m.RateLimitRejected,
	)

	return m
}

// ObserveHTTPRequest фиксирует завершённый HTTP запрос
func (m *Metrics) ObserveHTTPRequest(method, route string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	m.HTTPRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

// ObserveDBQuery фиксирует выполненный запрос к БД
func (m *Metrics) ObserveDBQuery(operation string, duration time.Duration, err error) {
	if m == nil {
		return
	}
	m.DBQueryDuration.WithLabelValues(operation).Observe(duration.Seconds())
	if err != nil {
		m.DBQueryErrors.WithLabelValues(operation).Inc()
	}
}

// ObserveSlotComputation фиксирует результат расчёта слотов
func (m *Metrics) ObserveSlotComputation(businessID int64, outcome string, slots int) {
	if m == nil {
		return
	}
	m.SlotComputations.WithLabelValues(outcome).Inc()
	m.SlotsGenerated.WithLabelValues(strconv.FormatInt(businessID, 10)).Observe(float64(slots))
}

// IncAppointmentsCreated увеличивает счётчик созданных записей
func (m *Metrics) IncAppointmentsCreated(businessID int64) {
	if m == nil {
		return
	}
	m.AppointmentsCreated.WithLabelValues(strconv.FormatInt(businessID, 10)).Inc()
}

// IncOutboxPublished увеличивает счётчик опубликованных событий
func (m *Metrics) IncOutboxPublished(eventType string) {
	if m == nil {
		return
	}
	m.OutboxPublished.WithLabelValues(eventType).Inc()
}

// IncRateLimitRejected увеличивает счётчик отклонённых лимитером запросов
func (m *Metrics) IncRateLimitRejected(backend string) {
	if m == nil {
		return
	}
	m.RateLimitRejected.WithLabelValues(backend).Inc()
}
