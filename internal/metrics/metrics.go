// Package metrics exposes the Prometheus sink consumed by the DNS pipeline
// and the control-plane API, and the HTTP handler that serves /metrics.
// The api_* and operation_* series support the control plane's metrics
// contract alongside the core DNS gauges and counters.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Sink is the metrics contract consumed by the DNS pipeline and the HTTP
// control plane. internal/store.MetricsSink is a structural subset of
// this interface.
type Sink interface {
	RecordAPIRequest(endpoint, method, status string, seconds float64)
	RecordAPIError(endpoint, errorType string)
	ObserveQuery(queryType, instance string, seconds float64)
	CountResponse(codeStr, instance string)
	IncrementNXDomain()
	IncrementServfail()
	IncrementPacketErrors()
	RecordOperationSuccess(operation string, seconds float64)
	RecordOperationFailure(operation, errorType string, seconds float64)
	SetActiveRecords(count int)
}

// Prometheus is the client_golang-backed Sink implementation. All metrics
// are registered against a private registry so repeated test construction
// never collides with the global default registry.
type Prometheus struct {
	registry *prometheus.Registry

	queriesTotal    *prometheus.CounterVec
	queryDuration   *prometheus.HistogramVec
	responsesTotal  *prometheus.CounterVec
	nxdomainTotal   prometheus.Counter
	servfailTotal   prometheus.Counter
	packetErrors    prometheus.Counter
	activeRecords   prometheus.Gauge
	apiRequests     *prometheus.HistogramVec
	apiErrors       *prometheus.CounterVec
	opSuccess       *prometheus.HistogramVec
	opFailure       *prometheus.CounterVec
}

// NewPrometheus builds and registers the full metric set.
func NewPrometheus() *Prometheus {
	reg := prometheus.NewRegistry()

	p := &Prometheus{
		registry: reg,
		queriesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "dns_queries_total",
			Help: "Total number of DNS queries by type",
		}, []string{"query_type", "instance"}),
		queryDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name: "dns_query_duration_seconds",
			Help: "DNS query processing duration in seconds",
		}, []string{"query_type", "instance"}),
		responsesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "dns_responses_total",
			Help: "Total number of DNS responses by response code",
		}, []string{"response_code", "instance"}),
		nxdomainTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "dns_nxdomain_total",
			Help: "Total number of NXDOMAIN responses",
		}),
		servfailTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "dns_servfail_total",
			Help: "Total number of SERVFAIL responses",
		}),
		packetErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "dns_packet_errors_total",
			Help: "Total number of DNS packet parsing errors",
		}),
		activeRecords: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "dns_active_records",
			Help: "Number of records currently held by the store",
		}),
		apiRequests: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name: "api_request_duration_seconds",
			Help: "Control-plane HTTP request duration in seconds",
		}, []string{"endpoint", "method", "status"}),
		apiErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "api_errors_total",
			Help: "Total number of control-plane error responses",
		}, []string{"endpoint", "error_type"}),
		opSuccess: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name: "store_operation_duration_seconds",
			Help: "Successful record-store operation duration in seconds",
		}, []string{"operation"}),
		opFailure: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "store_operation_failures_total",
			Help: "Total number of failed record-store operations",
		}, []string{"operation", "error_type"}),
	}

	reg.MustRegister(
		p.queriesTotal,
		p.queryDuration,
		p.responsesTotal,
		p.nxdomainTotal,
		p.servfailTotal,
		p.packetErrors,
		p.activeRecords,
		p.apiRequests,
		p.apiErrors,
		p.opSuccess,
		p.opFailure,
	)

	return p
}

// Handler returns the http.Handler that serves the Prometheus text
// exposition format for this Prometheus's registry.
func (p *Prometheus) Handler() http.Handler {
	return promhttp.HandlerFor(p.registry, promhttp.HandlerOpts{})
}

func (p *Prometheus) RecordAPIRequest(endpoint, method, status string, seconds float64) {
	p.apiRequests.WithLabelValues(endpoint, method, status).Observe(seconds)
}

func (p *Prometheus) RecordAPIError(endpoint, errorType string) {
	p.apiErrors.WithLabelValues(endpoint, errorType).Inc()
}

func (p *Prometheus) ObserveQuery(queryType, instance string, seconds float64) {
	p.queriesTotal.WithLabelValues(queryType, instance).Inc()
	p.queryDuration.WithLabelValues(queryType, instance).Observe(seconds)
}

func (p *Prometheus) CountResponse(codeStr, instance string) {
	p.responsesTotal.WithLabelValues(codeStr, instance).Inc()
}

func (p *Prometheus) IncrementNXDomain()     { p.nxdomainTotal.Inc() }
func (p *Prometheus) IncrementServfail()     { p.servfailTotal.Inc() }
func (p *Prometheus) IncrementPacketErrors() { p.packetErrors.Inc() }

func (p *Prometheus) RecordOperationSuccess(operation string, seconds float64) {
	p.opSuccess.WithLabelValues(operation).Observe(seconds)
}

func (p *Prometheus) RecordOperationFailure(operation, errorType string, seconds float64) {
	p.opFailure.WithLabelValues(operation, errorType).Inc()
}

func (p *Prometheus) SetActiveRecords(count int) {
	p.activeRecords.Set(float64(count))
}
