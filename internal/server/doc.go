// Package server provides the MCP server context and the HTTP plumbing
// around it for the tilda application.
//
// # Key Components
//
// ServerContext is the single long-lived handle shared by tool handlers: it
// carries the calendar operations, the metrics recorder, the audit logger
// and the read-only flag.
//
// HTTPServer serves the MCP streamable-HTTP transport on /mcp together with
// the health endpoints, recording request metrics for every call.
//
// HealthChecker implements /healthz, /readyz and /healthz/detailed.
//
// MetricsServer exposes Prometheus metrics on a dedicated port so that
// operational data stays off the MCP listener.
package server
