// Package resources provides MCP resources, read-only data that MCP clients
// can fetch without calling a tool. The calendar directory is exposed as
// calendar://calendars.
package resources
