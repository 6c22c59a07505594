// Package instrumentation provides OpenTelemetry instrumentation for tilda.
//
// # Metrics
//
// Server/HTTP Metrics:
//   - http_requests_total: Counter of HTTP requests by method, path, and status
//   - http_request_duration_seconds: Histogram of HTTP request durations
//
// Google API Metrics:
//   - google_api_operations_total: Counter of Google Calendar API calls by operation and status
//   - google_api_operation_duration_seconds: Histogram of Google Calendar API call durations
//
// MCP Tool Metrics:
//   - mcp_tool_invocations_total: Counter of MCP tool invocations by tool name and outcome
//   - mcp_tool_duration_seconds: Histogram of MCP tool execution durations
//
// Calendar Metrics:
//   - calendar_directory_lookups_total: Calendar name resolutions by result
//   - calendar_title_scans_total: Delete/update title scans by operation and match
//   - calendar_title_scan_calendars: Calendars visited per title scan
//
// # Tracing
//
// Spans are created for MCP tool invocations (tool.<name>) and Google API
// calls (google.calendar.<operation>).
//
// Title scans run inside an agenda.<operation> span.
//
// # Configuration
//
// Config is filled from the telemetry and audit sections of tilda.yaml
// (or TILDA_TELEMETRY_* / TILDA_AUDIT_* variables). The OTLP exporters also
// honor the standard OTEL_EXPORTER_OTLP_* variables.
//
// # Example Usage
//
//	provider, err := instrumentation.NewProvider(ctx, instrumentation.DefaultConfig())
//	if err != nil {
//		return err
//	}
//	defer provider.Shutdown(ctx)
//
//	recorder := provider.Metrics()
//	recorder.RecordGoogleAPIOperation(ctx, instrumentation.ServiceCalendar, "list", "success", time.Since(start))
//	recorder.RecordToolInvocation(ctx, "list_calendars", "success", time.Since(start))
package instrumentation
