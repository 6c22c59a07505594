package calendar_tools

import (
	"github.com/mark3labs/mcp-go/mcp"

	"github.com/teemow/tilda/internal/command"
)

const dateFormats = "YYYY-MM-DD or MM-DD-YYYY"

func eventTools() []toolDef {
	listEventsOnDay := mcp.NewTool(string(command.NameListEventsOnDay),
		mcp.WithDescription("List the events of a calendar, looked up by name, that start on one day. "+
			"An unknown calendar yields an empty list."),
		mcp.WithString(command.ArgCalendarName,
			mcp.Required(),
			mcp.Description("Calendar name, matched case-insensitively"),
		),
		mcp.WithString(command.ArgDateStr,
			mcp.Required(),
			mcp.Description("Day to list ("+dateFormats+")"),
		),
		mcp.WithString(command.ArgTimezone,
			mcp.Description("IANA time zone the day is interpreted in (default: the configured time zone)"),
		),
		mcp.WithReadOnlyHintAnnotation(true),
	)

	insertEvents := mcp.NewTool(string(command.NameInsertEvents),
		mcp.WithDescription("Insert an event. When the calendar does not exist the default calendar is used, "+
			"and created if needed."),
		mcp.WithString(command.ArgCalendarName,
			mcp.Description("Target calendar name (default: the configured default calendar)"),
		),
		mcp.WithString(command.ArgTitle,
			mcp.Required(),
			mcp.Description("Event title"),
		),
		mcp.WithString(command.ArgStartTime,
			mcp.Required(),
			mcp.Description("Start as YYYY-MM-DDTHH:MM[:SS] in the configured time zone, or RFC3339"),
		),
		mcp.WithString(command.ArgEndTime,
			mcp.Required(),
			mcp.Description("End as YYYY-MM-DDTHH:MM[:SS] in the configured time zone, or RFC3339"),
		),
		mcp.WithString(command.ArgDescription,
			mcp.Description("Event description"),
		),
		mcp.WithDestructiveHintAnnotation(false),
	)

	deleteEventByTitle := mcp.NewTool(string(command.NameDeleteEventByTitle),
		mcp.WithDescription("Delete the first upcoming event with this exact title in every calendar"),
		mcp.WithString(command.ArgTitle,
			mcp.Required(),
			mcp.Description("Exact event title"),
		),
		mcp.WithString(command.ArgEventDate,
			mcp.Description("Only consider events from this day on ("+dateFormats+"); default: now"),
		),
		mcp.WithDestructiveHintAnnotation(true),
	)

	updateEvent := mcp.NewTool(string(command.NameUpdateEvent),
		mcp.WithDescription("Update the first upcoming event with this exact title in every calendar. "+
			"Only the given fields change."),
		mcp.WithString(command.ArgOriginalTitle,
			mcp.Required(),
			mcp.Description("Exact title of the event to update"),
		),
		mcp.WithString(command.ArgEventDate,
			mcp.Description("Only consider events from this day on ("+dateFormats+"); default: now"),
		),
		mcp.WithString(command.ArgNewTitle,
			mcp.Description("New title"),
		),
		mcp.WithString(command.ArgNewStart,
			mcp.Description("New start as YYYY-MM-DDTHH:MM[:SS] or RFC3339"),
		),
		mcp.WithString(command.ArgNewEnd,
			mcp.Description("New end as YYYY-MM-DDTHH:MM[:SS] or RFC3339"),
		),
		mcp.WithString(command.ArgNewDescription,
			mcp.Description("New description; an empty string clears it, omitting it keeps the current one"),
		),
		mcp.WithDestructiveHintAnnotation(true),
	)

	return []toolDef{
		{name: command.NameListEventsOnDay, tool: listEventsOnDay},
		{name: command.NameInsertEvents, tool: insertEvents},
		{name: command.NameDeleteEventByTitle, tool: deleteEventByTitle},
		{name: command.NameUpdateEvent, tool: updateEvent},
	}
}
