package telemetry

import (
	"context"
	"log"
	"strconv"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const meterName = "github.com/WailSalutem-Health-Care/medgpt-portal"

// Metrics holds all custom metrics of the portal. A nil *Metrics records nothing.
type Metrics struct {
	// HTTP metrics
	HTTPRequestsTotal metric.Int64Counter
	HTTPDurationMs    metric.Float64Histogram

	// Backend API metrics
	BackendCallsTotal metric.Int64Counter
	BackendDurationMs metric.Float64Histogram

	// Portal metrics
	BookingsTotal      metric.Int64Counter
	ChatMessagesTotal  metric.Int64Counter
	StatusChangesTotal metric.Int64Counter
	SessionEventsTotal metric.Int64Counter
}

// InitMetrics registers the portal metrics on the global meter provider
func InitMetrics() (*Metrics, error) {
	return NewMetrics(otel.Meter(meterName))
}

// NewMetrics registers the portal metrics on meter
func NewMetrics(meter metric.Meter) (*Metrics, error) {
	m := &Metrics{}
	var err error

	if m.HTTPRequestsTotal, err = meter.Int64Counter(
		"http_server_requests_total",
		metric.WithDescription("Total number of HTTP requests"),
		metric.WithUnit("{request}"),
	); err != nil {
		return nil, err
	}
	if m.HTTPDurationMs, err = meter.Float64Histogram(
		"http_server_duration_milliseconds",
		metric.WithDescription("HTTP request duration in milliseconds"),
		metric.WithUnit("ms"),
	); err != nil {
		return nil, err
	}
	if m.BackendCallsTotal, err = meter.Int64Counter(
		"backend_api_calls_total",
		metric.WithDescription("Total number of calls to the MedGPT backend API"),
		metric.WithUnit("{call}"),
	); err != nil {
		return nil, err
	}
	if m.BackendDurationMs, err = meter.Float64Histogram(
		"backend_api_duration_milliseconds",
		metric.WithDescription("Backend API call duration in milliseconds"),
		metric.WithUnit("ms"),
	); err != nil {
		return nil, err
	}
	if m.BookingsTotal, err = meter.Int64Counter(
		"appointment_bookings_total",
		metric.WithDescription("Total number of booking submissions sent to the backend"),
		metric.WithUnit("{booking}"),
	); err != nil {
		return nil, err
	}
	if m.ChatMessagesTotal, err = meter.Int64Counter(
		"chat_messages_total",
		metric.WithDescription("Total number of chat messages sent to the assistant"),
		metric.WithUnit("{message}"),
	); err != nil {
		return nil, err
	}
	if m.StatusChangesTotal, err = meter.Int64Counter(
		"appointment_status_changes_total",
		metric.WithDescription("Total number of appointment status transitions"),
		metric.WithUnit("{change}"),
	); err != nil {
		return nil, err
	}
	if m.SessionEventsTotal, err = meter.Int64Counter(
		"doctor_session_events_total",
		metric.WithDescription("Total number of doctor logins and logouts"),
		metric.WithUnit("{event}"),
	); err != nil {
		return nil, err
	}

	log.Println("✓ Custom metrics initialized")
	return m, nil
}

// RecordHTTPRequest records an HTTP request metric
func (m *Metrics) RecordHTTPRequest(ctx context.Context, method, route string, statusCode int, durationMs float64) {
	if m == nil {
		return
	}
	attrs := metric.WithAttributes(
		attribute.String("http_method", method),
		attribute.String("http_route", route),
		attribute.Int("http_status_code", statusCode),
	)
	m.HTTPRequestsTotal.Add(ctx, 1, attrs)
	m.HTTPDurationMs.Record(ctx, durationMs, attrs)
}

// RecordBackendCall records one backend API round trip. Status 0 means the
// request never got an answer.
func (m *Metrics) RecordBackendCall(ctx context.Context, operation string, statusCode int, durationMs float64) {
	if m == nil {
		return
	}
	attrs := metric.WithAttributes(
		attribute.String("operation", operation),
		attribute.String("status_class", statusClass(statusCode)),
	)
	m.BackendCallsTotal.Add(ctx, 1, attrs)
	m.BackendDurationMs.Record(ctx, durationMs, attrs)
}

func (m *Metrics) RecordBooking(ctx context.Context, success bool) {
	if m == nil {
		return
	}
	m.BookingsTotal.Add(ctx, 1, metric.WithAttributes(attribute.Bool("success", success)))
}

func (m *Metrics) RecordChatMessage(ctx context.Context, success bool) {
	if m == nil {
		return
	}
	m.ChatMessagesTotal.Add(ctx, 1, metric.WithAttributes(attribute.Bool("success", success)))
}

func (m *Metrics) RecordStatusChange(ctx context.Context, status string, success bool) {
	if m == nil {
		return
	}
	m.StatusChangesTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("status", status),
		attribute.Bool("success", success),
	))
}

// RecordSessionEvent counts "login" and "logout"
func (m *Metrics) RecordSessionEvent(ctx context.Context, event string) {
	if m == nil {
		return
	}
	m.SessionEventsTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("event", event)))
}

func statusClass(code int) string {
	if code == 0 {
		return "transport_error"
	}
	return strconv.Itoa(code/100) + "xx"
}
