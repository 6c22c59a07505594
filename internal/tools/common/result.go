package common

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/teemow/tilda/internal/command"
)

// ToolResult renders a command result as JSON text. Results that are not
// OK are flagged as tool errors so the agent can tell them apart.
func ToolResult(res command.Result) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(res, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to encode result: %v", err)), nil
	}
	if !res.OK() {
		return mcp.NewToolResultError(string(data)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}

func resultError(res command.Result) error {
	if res.Message == "" {
		return errors.New(string(res.Status))
	}
	return errors.New(res.Message)
}
