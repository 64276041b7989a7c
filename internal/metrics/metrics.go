package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/hackgods/clinicops/internal/apperr"
)

// Metrics owns its registry so several instances can coexist in tests.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	registry *prometheus.Registry

	httpRequests     *prometheus.CounterVec
	httpDuration     *prometheus.HistogramVec
	bookings         *prometheus.CounterVec
	consultations    *prometheus.CounterVec
	bills            *prometheus.CounterVec
	stockDecrements  prometheus.Counter
	expiredMedicines prometheus.Counter
}

func New(service string) *Metrics {
	labels := prometheus.Labels{"service": service}
	reg := prometheus.NewRegistry()

	m := &Metrics{
		registry: reg,
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "http_requests_total",
			Help:        "Total number of HTTP requests",
			ConstLabels: labels,
		}, []string{"method", "route", "status_code"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "http_request_duration_seconds",
			Help:        "Duration of HTTP requests in seconds",
			Buckets:     prometheus.DefBuckets,
			ConstLabels: labels,
		}, []string{"method", "route"}),
		bookings: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "appointment_operations_total",
			Help:        "Appointment create/update/delete outcomes",
			ConstLabels: labels,
		}, []string{"operation", "outcome"}),
		consultations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "consultation_operations_total",
			Help:        "Consultation workflow outcomes",
			ConstLabels: labels,
		}, []string{"operation", "outcome"}),
		bills: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "bills_created_total",
			Help:        "Billing records created by kind",
			ConstLabels: labels,
		}, []string{"kind", "outcome"}),
		stockDecrements: prometheus.NewCounter(prometheus.CounterOpts{
			Name:        "medicine_units_dispensed_total",
			Help:        "Medicine units removed from stock by pharmacy bills",
			ConstLabels: labels,
		}),
		expiredMedicines: prometheus.NewCounter(prometheus.CounterOpts{
			Name:        "medicine_batches_expired_total",
			Help:        "Medicine batches deactivated by the expiry worker",
			ConstLabels: labels,
		}),
	}

	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.httpRequests,
		m.httpDuration,
		m.bookings,
		m.consultations,
		m.bills,
		m.stockDecrements,
		m.expiredMedicines,
	)

	return m
}

// OutcomeOf labels an operation result: "ok", or the error kind.
func OutcomeOf(err error) string {
	if err == nil {
		return "ok"
	}
	return apperr.KindOf(err).String()
}

func (m *Metrics) RecordHTTPRequest(method, route string, status int, d time.Duration) {
	if m == nil {
		return
	}
	m.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.httpDuration.WithLabelValues(method, route).Observe(d.Seconds())
}

func (m *Metrics) RecordBooking(operation string, outcome string) {
	if m == nil {
		return
	}
	m.bookings.WithLabelValues(operation, outcome).Inc()
}

func (m *Metrics) RecordConsultation(operation string, outcome string) {
	if m == nil {
		return
	}
	m.consultations.WithLabelValues(operation, outcome).Inc()
}

func (m *Metrics) RecordBill(kind string, outcome string) {
	if m == nil {
		return
	}
	m.bills.WithLabelValues(kind, outcome).Inc()
}

func (m *Metrics) RecordDispensed(units int) {
	if m == nil {
		return
	}
	m.stockDecrements.Add(float64(units))
}

func (m *Metrics) RecordExpired(batches int) {
	if m == nil {
		return
	}
	m.expiredMedicines.Add(float64(batches))
}

func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
