package calendar_tools

import (
	"github.com/mark3labs/mcp-go/mcp"

	"github.com/teemow/tilda/internal/command"
)

func calendarListTools() []toolDef {
	createCalendar := mcp.NewTool(string(command.NameCreateCalendar),
		mcp.WithDescription("Create a new calendar with the given name in the configured time zone. Returns the new calendar id."),
		mcp.WithString(command.ArgCalendarName,
			mcp.Required(),
			mcp.Description("Display name of the new calendar"),
		),
		mcp.WithString(command.ArgDescription,
			mcp.Description("Optional description of the calendar"),
		),
		mcp.WithDestructiveHintAnnotation(false),
	)

	listCalendars := mcp.NewTool(string(command.NameListCalendars),
		mcp.WithDescription("List the user's calendars by id, name and description"),
		mcp.WithReadOnlyHintAnnotation(true),
	)

	return []toolDef{
		{name: command.NameCreateCalendar, tool: createCalendar},
		{name: command.NameListCalendars, tool: listCalendars},
	}
}
