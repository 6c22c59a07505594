// Package cmd implements the command-line interface for tilda.
//
// This package provides the following commands:
//   - serve: Start the MCP server to provide calendar tools for AI assistants
//   - call: Run a single calendar operation and print the JSON result
//   - auth: Authorize access to Google Calendar and store the user token
//   - version: Display version information
//   - generate-docs: Generate markdown documentation for all MCP tools
//
// The serve command is the default command when no subcommand is specified.
package cmd
