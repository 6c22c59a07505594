// Package common provides the shared glue between MCP tool definitions and
// the calendar commands: a handler that parses and runs a command with
// tracing, metrics and audit logging, and the JSON rendering of results.
package common
