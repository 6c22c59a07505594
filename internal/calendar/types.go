package calendar

import (
	"time"

	calendar "google.golang.org/api/calendar/v3"
)

const dateLayout = "2006-01-02"

// CalendarInfo represents information about a calendar
type CalendarInfo struct {
	ID          string
	Summary     string
	Description string
	TimeZone    string
	Primary     bool
}

// EventInput represents the input for creating a calendar event
type EventInput struct {
	Summary     string
	Description string
	Start       time.Time
	End         time.Time
	// TimeZone is sent with both start and end. Empty means UTC.
	TimeZone string
}

// EventPatch overlays fields onto a stored event. Nil fields are left untouched.
type EventPatch struct {
	Summary     *string
	Description *string
	Start       *time.Time
	End         *time.Time
	TimeZone    string
}

// IsEmpty reports whether the patch changes nothing.
func (p EventPatch) IsEmpty() bool {
	return p.Summary == nil && p.Description == nil && p.Start == nil && p.End == nil
}

// EventQuery selects events from one calendar.
type EventQuery struct {
	TimeMin time.Time
	// TimeMax is an exclusive bound on event start; zero leaves it open.
	TimeMax time.Time
	// MaxResults caps the total number of events returned. Zero means all.
	MaxResults int64
	// Location is used for all-day dates and returned date-times.
	Location *time.Location
}

// EventSummary represents a simplified calendar event
type EventSummary struct {
	ID          string
	CalendarID  string
	Summary     string
	Description string
	Start       time.Time
	End         time.Time
	TimeZone    string
	AllDay      bool
	Status      string
}

// toEventSummary converts a Google Calendar event to an EventSummary
func toEventSummary(calendarID string, event *calendar.Event, loc *time.Location) EventSummary {
	if event == nil {
		return EventSummary{CalendarID: calendarID}
	}
	if loc == nil {
		loc = time.UTC
	}

	summary := EventSummary{
		ID:          event.Id,
		CalendarID:  calendarID,
		Summary:     event.Summary,
		Description: event.Description,
		Status:      event.Status,
	}

	if event.Start != nil {
		summary.Start, summary.AllDay = parseEventTime(event.Start, loc)
		summary.TimeZone = event.Start.TimeZone
	}
	if event.End != nil {
		summary.End, _ = parseEventTime(event.End, loc)
	}

	return summary
}

// parseEventTime returns the instant of an event boundary and whether it is
// an all-day date.
func parseEventTime(edt *calendar.EventDateTime, loc *time.Location) (time.Time, bool) {
	if edt.DateTime != "" {
		t, err := time.Parse(time.RFC3339, edt.DateTime)
		if err != nil {
			return time.Time{}, false
		}
		if edt.TimeZone != "" {
			if zone, err := time.LoadLocation(edt.TimeZone); err == nil {
				return t.In(zone), false
			}
		}
		return t.In(loc), false
	}
	if edt.Date != "" {
		t, err := time.ParseInLocation(dateLayout, edt.Date, loc)
		if err != nil {
			return time.Time{}, true
		}
		return t, true
	}
	return time.Time{}, false
}

func toEventDateTime(t time.Time, timeZone string) *calendar.EventDateTime {
	if timeZone == "" {
		timeZone = "UTC"
	}
	return &calendar.EventDateTime{
		DateTime: t.Format(time.RFC3339),
		TimeZone: timeZone,
	}
}

// toCalendarInfo converts a Google Calendar list entry to CalendarInfo
func toCalendarInfo(entry *calendar.CalendarListEntry) CalendarInfo {
	if entry == nil {
		return CalendarInfo{}
	}
	return CalendarInfo{
		ID:          entry.Id,
		Summary:     entry.Summary,
		Description: entry.Description,
		TimeZone:    entry.TimeZone,
		Primary:     entry.Primary,
	}
}
