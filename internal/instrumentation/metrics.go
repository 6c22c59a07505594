package instrumentation

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const (
	attrMethod    = "method"
	attrPath      = "path"
	attrStatus    = "status"
	attrOperation = "operation"
	attrService   = "service"
	attrResult    = "result"
	attrTool      = "tool"
	attrCalendar  = "calendar"
	attrMatched   = "matched"
)

// Metrics records tilda's instruments. A nil *Metrics and the zero value
// are both no-op recorders.
type Metrics struct {
	httpRequestsTotal   metric.Int64Counter
	httpRequestDuration metric.Float64Histogram

	googleAPIOperationsTotal   metric.Int64Counter
	googleAPIOperationDuration metric.Float64Histogram

	toolInvocationsTotal metric.Int64Counter
	toolDuration         metric.Float64Histogram

	directoryLookupsTotal metric.Int64Counter
	titleScansTotal       metric.Int64Counter
	calendarsScanned      metric.Int64Histogram

	detailedLabels bool
}

var (
	latencyBuckets = []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0, 10.0, 30.0}
	httpBuckets    = []float64{0.001, 0.01, 0.1, 0.5, 1.0, 2.5, 5.0, 10.0}
	scanBuckets    = []float64{1, 2, 5, 10, 25, 50, 100}
)

// instruments collects the first creation error so NewMetrics can build
// every instrument without checking each one.
type instruments struct {
	meter metric.Meter
	err   error
}

func (in *instruments) counter(name, description, unit string) metric.Int64Counter {
	c, err := in.meter.Int64Counter(name, metric.WithDescription(description), metric.WithUnit(unit))
	if err != nil && in.err == nil {
		in.err = fmt.Errorf("failed to create %s counter: %w", name, err)
	}
	return c
}

func (in *instruments) seconds(name, description string, buckets []float64) metric.Float64Histogram {
	h, err := in.meter.Float64Histogram(name,
		metric.WithDescription(description),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(buckets...))
	if err != nil && in.err == nil {
		in.err = fmt.Errorf("failed to create %s histogram: %w", name, err)
	}
	return h
}

func (in *instruments) sizes(name, description, unit string, buckets []float64) metric.Int64Histogram {
	h, err := in.meter.Int64Histogram(name,
		metric.WithDescription(description),
		metric.WithUnit(unit),
		metric.WithExplicitBucketBoundaries(buckets...))
	if err != nil && in.err == nil {
		in.err = fmt.Errorf("failed to create %s histogram: %w", name, err)
	}
	return h
}

// NewMetrics registers every instrument on meter. detailedLabels adds
// calendar names to directory lookups.
func NewMetrics(meter metric.Meter, detailedLabels bool) (*Metrics, error) {
	in := &instruments{meter: meter}
	m := &Metrics{
		httpRequestsTotal:   in.counter("http_requests_total", "HTTP requests served by the streamable-http transport", "{request}"),
		httpRequestDuration: in.seconds("http_request_duration_seconds", "HTTP request latency", httpBuckets),

		googleAPIOperationsTotal:   in.counter("google_api_operations_total", "Google Calendar API calls", "{operation}"),
		googleAPIOperationDuration: in.seconds("google_api_operation_duration_seconds", "Google Calendar API call latency", latencyBuckets),

		toolInvocationsTotal: in.counter("mcp_tool_invocations_total", "MCP tool calls by outcome", "{invocation}"),
		toolDuration:         in.seconds("mcp_tool_duration_seconds", "MCP tool call latency", latencyBuckets),

		directoryLookupsTotal: in.counter("calendar_directory_lookups_total", "Calendar name resolutions by result (hit, miss, not_found)", "{lookup}"),
		titleScansTotal:       in.counter("calendar_title_scans_total", "Title-matched scans by operation and whether an event matched", "{scan}"),
		calendarsScanned:      in.sizes("calendar_title_scan_calendars", "Calendars visited per title-matched scan", "{calendar}", scanBuckets),

		detailedLabels: detailedLabels,
	}
	if in.err != nil {
		return nil, in.err
	}
	return m, nil
}

// RecordHTTPRequest records one request to the MCP HTTP endpoint.
func (m *Metrics) RecordHTTPRequest(ctx context.Context, method, path string, statusCode int, duration time.Duration) {
	if m == nil || m.httpRequestsTotal == nil || m.httpRequestDuration == nil {
		return
	}

	attrs := []attribute.KeyValue{
		attribute.String(attrMethod, method),
		attribute.String(attrPath, path),
		attribute.String(attrStatus, strconv.Itoa(statusCode)),
	}

	m.httpRequestsTotal.Add(ctx, 1, metric.WithAttributes(attrs...))
	m.httpRequestDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(attrs...))
}

// RecordGoogleAPIOperation records one adapter call. status is StatusSuccess
// or StatusError.
func (m *Metrics) RecordGoogleAPIOperation(ctx context.Context, service, operation, status string, duration time.Duration) {
	if m == nil || m.googleAPIOperationsTotal == nil || m.googleAPIOperationDuration == nil {
		return
	}

	attrs := []attribute.KeyValue{
		attribute.String(attrService, service),
		attribute.String(attrOperation, operation),
		attribute.String(attrStatus, status),
	}

	m.googleAPIOperationsTotal.Add(ctx, 1, metric.WithAttributes(attrs...))
	m.googleAPIOperationDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(attrs...))
}

// RecordToolInvocation records an MCP tool invocation with tool name, status, and duration.
// Status is an outcome label such as "success", "not_found" or "remote_failure".
func (m *Metrics) RecordToolInvocation(ctx context.Context, toolName, status string, duration time.Duration) {
	if m == nil || m.toolInvocationsTotal == nil || m.toolDuration == nil {
		return
	}

	attrs := []attribute.KeyValue{
		attribute.String(attrTool, toolName),
		attribute.String(attrStatus, status),
	}

	m.toolInvocationsTotal.Add(ctx, 1, metric.WithAttributes(attrs...))
	m.toolDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(attrs...))
}

// RecordDirectoryLookup records a calendar name resolution.
// Result should be one of: LookupHit, LookupMiss, LookupNotFound.
// The calendar name is only attached when detailed labels are enabled.
func (m *Metrics) RecordDirectoryLookup(ctx context.Context, result, calendar string) {
	if m == nil || m.directoryLookupsTotal == nil {
		return
	}

	attrs := []attribute.KeyValue{
		attribute.String(attrResult, result),
	}
	if m.detailedLabels && calendar != "" {
		attrs = append(attrs, attribute.String(attrCalendar, NormalizeCalendarLabel(calendar)))
	}

	m.directoryLookupsTotal.Add(ctx, 1, metric.WithAttributes(attrs...))
}

// RecordTitleScan records one delete/update discovery pass over the directory.
func (m *Metrics) RecordTitleScan(ctx context.Context, operation string, calendars int, matched bool) {
	if m == nil || m.titleScansTotal == nil || m.calendarsScanned == nil {
		return
	}

	attrs := []attribute.KeyValue{
		attribute.String(attrOperation, operation),
		attribute.Bool(attrMatched, matched),
	}

	m.titleScansTotal.Add(ctx, 1, metric.WithAttributes(attrs...))
	m.calendarsScanned.Record(ctx, int64(calendars), metric.WithAttributes(attribute.String(attrOperation, operation)))
}
