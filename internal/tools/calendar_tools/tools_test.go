package calendar_tools

import (
	"context"
	"sort"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teemow/tilda/internal/agenda"
	"github.com/teemow/tilda/internal/command"
	"github.com/teemow/tilda/internal/server"
)

type stubExecutor struct {
	inserted agenda.InsertRequest
}

func (s *stubExecutor) CreateCalendar(_ context.Context, name, description string) (*agenda.CalendarRef, error) {
	return &agenda.CalendarRef{ID: "cal-1", Name: name, Description: description}, nil
}

func (s *stubExecutor) ListCalendars(context.Context) ([]agenda.CalendarRef, error) {
	return []agenda.CalendarRef{{ID: "c1", Name: "Work"}}, nil
}

func (s *stubExecutor) ListEventsOnDay(context.Context, string, string, string) ([]agenda.EventRecord, error) {
	return []agenda.EventRecord{}, nil
}

func (s *stubExecutor) InsertEvent(_ context.Context, req agenda.InsertRequest) (*agenda.EventRecord, error) {
	s.inserted = req
	return &agenda.EventRecord{ID: "evt-1", Title: req.Title}, nil
}

func (s *stubExecutor) DeleteEventByTitle(context.Context, string, string) (bool, error) {
	return true, nil
}

func (s *stubExecutor) UpdateEvent(context.Context, agenda.UpdateRequest) (bool, error) {
	return false, nil
}

func registered(t *testing.T, readOnly bool, exec command.Executor) *mcpserver.MCPServer {
	t.Helper()
	sc := server.NewServerContext(context.Background(), exec, server.WithReadOnly(readOnly))
	t.Cleanup(func() { _ = sc.Shutdown() })

	s := mcpserver.NewMCPServer("tilda", "test", mcpserver.WithToolCapabilities(true))
	require.NoError(t, RegisterCalendarTools(s, sc))
	return s
}

func toolNames(s *mcpserver.MCPServer) []string {
	names := make([]string, 0)
	for name := range s.ListTools() {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func lookup(s *mcpserver.MCPServer, name string) *mcpserver.ServerTool {
	return s.ListTools()[name]
}

func TestRegisterCalendarTools(t *testing.T) {
	s := registered(t, false, &stubExecutor{})

	assert.Equal(t, []string{
		"create_calendar",
		"delete_event_by_title",
		"insert_events",
		"list_calendars",
		"list_events_on_day",
		"update_event",
	}, toolNames(s))

	tool := lookup(s, "insert_events")
	require.NotNil(t, tool)
	assert.ElementsMatch(t, []string{"title", "start_time", "end_time"}, tool.Tool.InputSchema.Required)
	assert.Contains(t, tool.Tool.InputSchema.Properties, "calendar_name")
	assert.Contains(t, tool.Tool.InputSchema.Properties, "description")

	tool = lookup(s, "update_event")
	require.NotNil(t, tool)
	assert.Equal(t, []string{"original_title"}, tool.Tool.InputSchema.Required)

	// Events are filtered on start time, not on overlap.
	tool = lookup(s, "list_events_on_day")
	require.NotNil(t, tool)
	assert.Contains(t, tool.Tool.Description, "start on one day")
	assert.NotContains(t, tool.Tool.Description, "overlap")
}

func TestRegisterCalendarTools_ReadOnly(t *testing.T) {
	s := registered(t, true, &stubExecutor{})
	assert.Equal(t, []string{"list_calendars", "list_events_on_day"}, toolNames(s))
}

func TestRegisterCalendarTools_Nil(t *testing.T) {
	assert.Error(t, RegisterCalendarTools(nil, nil))
}

func TestToolArgumentsMatchParser(t *testing.T) {
	for _, def := range append(calendarListTools(), eventTools()...) {
		assert.Equal(t, string(def.name), def.tool.Name)
		for _, req := range def.tool.InputSchema.Required {
			assert.Contains(t, def.tool.InputSchema.Properties, req, def.name)
		}
	}
}

func TestInsertEventsHandler(t *testing.T) {
	exec := &stubExecutor{}
	s := registered(t, false, exec)

	tool := lookup(s, "insert_events")
	require.NotNil(t, tool)

	req := mcp.CallToolRequest{}
	req.Params.Name = "insert_events"
	req.Params.Arguments = map[string]any{
		"title":      "Standup",
		"start_time": "2024-01-10T09:00",
		"end_time":   "2024-01-10T09:15",
	}

	result, err := tool.Handler(context.Background(), req)
	require.NoError(t, err)
	assert.False(t, result.IsError)
	assert.Contains(t, result.Content[0].(mcp.TextContent).Text, `"status": "success"`)
	assert.Equal(t, agenda.InsertRequest{
		Title: "Standup",
		Start: "2024-01-10T09:00",
		End:   "2024-01-10T09:15",
	}, exec.inserted)
}

func TestUpdateEventHandler_NoMatch(t *testing.T) {
	s := registered(t, false, &stubExecutor{})

	req := mcp.CallToolRequest{}
	req.Params.Arguments = map[string]any{"original_title": "Lunch"}

	tool := lookup(s, "update_event")
	require.NotNil(t, tool)

	result, err := tool.Handler(context.Background(), req)
	require.NoError(t, err)
	assert.True(t, result.IsError)
	assert.Contains(t, result.Content[0].(mcp.TextContent).Text, `"status": "not_found"`)
}
