package agenda

import (
	"context"
	"time"

	"github.com/teemow/tilda/internal/calendar"
)

// Backend is the remote calendar service. *calendar.Client implements it.
type Backend interface {
	ListCalendars(ctx context.Context) ([]calendar.CalendarInfo, error)
	CreateCalendar(ctx context.Context, summary, description, timeZone string) (*calendar.CalendarInfo, error)
	ListEvents(ctx context.Context, calendarID string, q calendar.EventQuery) ([]calendar.EventSummary, error)
	CreateEvent(ctx context.Context, calendarID string, input calendar.EventInput) (*calendar.EventSummary, error)
	UpdateEvent(ctx context.Context, calendarID, eventID string, patch calendar.EventPatch) (*calendar.EventSummary, error)
	DeleteEvent(ctx context.Context, calendarID, eventID string) error
}

var _ Backend = (*calendar.Client)(nil)

// CalendarRef identifies a calendar. Names are not unique.
type CalendarRef struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// EventRecord is an event as returned to callers.
type EventRecord struct {
	ID           string    `json:"id"`
	CalendarID   string    `json:"calendar_id"`
	CalendarName string    `json:"calendar_name,omitempty"`
	Title        string    `json:"title"`
	Description  string    `json:"description,omitempty"`
	Start        time.Time `json:"start"`
	End          time.Time `json:"end"`
	TimeZone     string    `json:"time_zone,omitempty"`
	AllDay       bool      `json:"all_day,omitempty"`
}

// InsertRequest holds the arguments of insert_events.
// Start and End are date-time strings, see ParseEventTime.
type InsertRequest struct {
	Calendar    string
	Title       string
	Start       string
	End         string
	Description string
}

// UpdateRequest holds the arguments of update_event.
//
// Empty NewTitle, NewStart and NewEnd leave the stored value unchanged.
// A non-nil NewDescription always overwrites, an empty string clears it.
type UpdateRequest struct {
	OriginalTitle  string
	Date           string
	NewTitle       string
	NewStart       string
	NewEnd         string
	NewDescription *string
}

func toCalendarRef(info calendar.CalendarInfo) CalendarRef {
	return CalendarRef{
		ID:          info.ID,
		Name:        info.Summary,
		Description: info.Description,
	}
}

func toEventRecord(ev calendar.EventSummary, calendarName string) EventRecord {
	return EventRecord{
		ID:           ev.ID,
		CalendarID:   ev.CalendarID,
		CalendarName: calendarName,
		Title:        ev.Summary,
		Description:  ev.Description,
		Start:        ev.Start,
		End:          ev.End,
		TimeZone:     ev.TimeZone,
		AllDay:       ev.AllDay,
	}
}
