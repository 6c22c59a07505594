package resources

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/teemow/tilda/internal/server"
)

// CalendarsURI is the resource holding the calendar directory.
const CalendarsURI = "calendar://calendars"

// RegisterCalendarResources registers the calendar directory resource.
func RegisterCalendarResources(s *mcpserver.MCPServer, sc *server.ServerContext) error {
	if s == nil || sc == nil {
		return fmt.Errorf("mcp server and server context are required")
	}

	calendarsResource := mcp.NewResource(
		CalendarsURI,
		"Calendars",
		mcp.WithResourceDescription("The user's calendars with their ids, names and descriptions"),
		mcp.WithMIMEType("application/json"),
	)

	s.AddResource(calendarsResource, func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		return handleCalendars(ctx, request, sc)
	})

	return nil
}

// handleCalendars returns the calendar directory as JSON
func handleCalendars(ctx context.Context, request mcp.ReadResourceRequest, sc *server.ServerContext) ([]mcp.ResourceContents, error) {
	exec := sc.Executor()
	if exec == nil {
		return nil, fmt.Errorf("calendar service is not configured")
	}

	calendars, err := exec.ListCalendars(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list calendars: %w", err)
	}

	jsonData, err := json.MarshalIndent(map[string]any{
		"calendars": calendars,
		"count":     len(calendars),
	}, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal calendars: %w", err)
	}

	return []mcp.ResourceContents{
		&mcp.TextResourceContents{
			URI:      request.Params.URI,
			MIMEType: "application/json",
			Text:     string(jsonData),
		},
	}, nil
}
