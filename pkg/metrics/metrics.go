// Package metrics provides Prometheus metrics for the ShootFlow assistant.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager owns every Prometheus metric the assistant exposes.
type Manager struct {
	namespace string
	registry  prometheus.Registerer

	// Assistant metrics
	questionsRouted      *prometheus.CounterVec
	classifierConfidence prometheus.Histogram
	fallbackAnswers      prometheus.Counter

	// Automation metrics
	automationRuns   *prometheus.CounterVec
	workflowDuration *prometheus.HistogramVec
	risksDetected    *prometheus.CounterVec

	// HTTP metrics
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// WebSocket metrics
	wsClients prometheus.Gauge
}

var globalManager *Manager //nolint:gochecknoglobals // singleton metrics manager

// Custom registry avoids the default Go runtime collectors.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals

func init() { //nolint:gochecknoinits // global metrics setup
	globalManager = NewManager(customRegistry)
}

// NewManager creates a manager registering everything on the given registry.
func NewManager(registry prometheus.Registerer) *Manager {
	m := &Manager{
		namespace: "shootflow",
		registry:  registry,
	}
	m.initializeMetrics()
	return m
}

func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)

	m.questionsRouted = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: "assistant",
			Name:      "questions_routed_total",
			Help:      "Questions routed to a skill, by resolved intent",
		},
		[]string{"intent"},
	)

	m.classifierConfidence = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: "assistant",
		Name:      "classifier_confidence",
		Help:      "Distribution of classifier confidence scores",
		Buckets:   []float64{0.1, 0.2, 0.3, 0.4, 0.5, 0.6, 0.7, 0.8, 0.9, 1.0},
	})

	m.fallbackAnswers = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: "assistant",
		Name:      "fallback_answers_total",
		Help:      "Questions that fell back to the general digest",
	})

	m.automationRuns = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: "automation",
			Name:      "runs_total",
			Help:      "Automation workflow runs by trigger and outcome",
		},
		[]string{"trigger", "status"},
	)

	m.workflowDuration = auto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: m.namespace,
			Subsystem: "automation",
			Name:      "workflow_duration_milliseconds",
			Help:      "Engine workflow duration in milliseconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"workflow"},
	)

	m.risksDetected = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: "automation",
			Name:      "risks_detected_total",
			Help:      "Risks surfaced by scans, by severity",
		},
		[]string{"severity"},
	)

	m.httpRequests = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "HTTP requests by endpoint, method and status code",
		},
		[]string{"endpoint", "method", "status_code"},
	)

	m.httpRequestDuration = auto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: m.namespace,
			Subsystem: "http",
			Name:      "request_duration_milliseconds",
			Help:      "HTTP request duration in milliseconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"endpoint", "method"},
	)

	m.wsClients = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: "ws",
		Name:      "clients",
		Help:      "Connected WebSocket clients",
	})
}

// GetRegistry exposes the gatherer behind the global manager, for promhttp.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}

// Global recording helpers.

// RecordQuestion records a routed question and its confidence.
func RecordQuestion(intent string, confidence float64, fallback bool) {
	globalManager.questionsRouted.WithLabelValues(intent).Inc()
	globalManager.classifierConfidence.Observe(confidence)
	if fallback {
		globalManager.fallbackAnswers.Inc()
	}
}

// RecordAutomationRun records one workflow result inside a trigger run.
func RecordAutomationRun(trigger, workflow string, success bool, duration time.Duration) {
	status := "success"
	if !success {
		status = "failure"
	}
	globalManager.automationRuns.WithLabelValues(trigger, status).Inc()
	globalManager.workflowDuration.WithLabelValues(workflow).
		Observe(float64(duration.Milliseconds()))
}

// RecordRisk records one detected risk.
func RecordRisk(severity string) {
	globalManager.risksDetected.WithLabelValues(severity).Inc()
}

// RecordHTTPRequest records a served request.
func RecordHTTPRequest(endpoint, method, statusCode string, duration time.Duration) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method).
		Observe(float64(duration.Milliseconds()))
}

// WSClientConnected bumps the connected-clients gauge.
func WSClientConnected() { globalManager.wsClients.Inc() }

// WSClientDisconnected drops the connected-clients gauge.
func WSClientDisconnected() { globalManager.wsClients.Dec() }
