// Package calendar_tools exposes the calendar operations as MCP tools.
//
// Each tool is named after its operation and takes the operation's
// arguments as string parameters. Results are returned as JSON carrying the
// command, a status (success, not_found, malformed_input,
// calendar_unavailable, remote_failure), an optional message and the data.
package calendar_tools
