// Package command represents each calendar operation as an explicit command
// with a typed payload. Parse maps an operation name and its raw arguments,
// as sent by an agent, to a command; Run executes it and classifies the result.
package command

import (
	"context"

	"github.com/teemow/tilda/internal/agenda"
)

// Name identifies an operation.
type Name string

// Operation names
const (
	NameCreateCalendar     Name = "create_calendar"
	NameListCalendars      Name = "list_calendars"
	NameListEventsOnDay    Name = "list_events_on_day"
	NameInsertEvents       Name = "insert_events"
	NameDeleteEventByTitle Name = "delete_event_by_title"
	NameUpdateEvent        Name = "update_event"
)

// Names returns every operation in a stable order.
func Names() []Name {
	return []Name{
		NameCreateCalendar,
		NameListCalendars,
		NameListEventsOnDay,
		NameInsertEvents,
		NameDeleteEventByTitle,
		NameUpdateEvent,
	}
}

// ReadOnly reports whether the operation leaves the remote calendar untouched.
func (n Name) ReadOnly() bool {
	return n == NameListCalendars || n == NameListEventsOnDay
}

// Executor runs the operations. *agenda.Service implements it.
type Executor interface {
	CreateCalendar(ctx context.Context, name, description string) (*agenda.CalendarRef, error)
	ListCalendars(ctx context.Context) ([]agenda.CalendarRef, error)
	ListEventsOnDay(ctx context.Context, calendarName, date, timezone string) ([]agenda.EventRecord, error)
	InsertEvent(ctx context.Context, req agenda.InsertRequest) (*agenda.EventRecord, error)
	DeleteEventByTitle(ctx context.Context, title, date string) (bool, error)
	UpdateEvent(ctx context.Context, req agenda.UpdateRequest) (bool, error)
}

var _ Executor = (*agenda.Service)(nil)

// Command is one operation with its arguments.
type Command interface {
	Name() Name
	Execute(ctx context.Context, exec Executor) (any, error)
}

// CreateCalendar creates a calendar.
type CreateCalendar struct {
	CalendarName string
	Description  string
}

func (CreateCalendar) Name() Name { return NameCreateCalendar }

func (c CreateCalendar) Execute(ctx context.Context, exec Executor) (any, error) {
	return exec.CreateCalendar(ctx, c.CalendarName, c.Description)
}

// ListCalendars lists the calendar directory.
type ListCalendars struct{}

func (ListCalendars) Name() Name { return NameListCalendars }

func (ListCalendars) Execute(ctx context.Context, exec Executor) (any, error) {
	return exec.ListCalendars(ctx)
}

// ListEventsOnDay lists the events of one calendar on one day.
type ListEventsOnDay struct {
	CalendarName string
	Date         string
	Timezone     string
}

func (ListEventsOnDay) Name() Name { return NameListEventsOnDay }

func (c ListEventsOnDay) Execute(ctx context.Context, exec Executor) (any, error) {
	return exec.ListEventsOnDay(ctx, c.CalendarName, c.Date, c.Timezone)
}

// InsertEvents inserts one event.
type InsertEvents struct {
	Request agenda.InsertRequest
}

func (InsertEvents) Name() Name { return NameInsertEvents }

func (c InsertEvents) Execute(ctx context.Context, exec Executor) (any, error) {
	return exec.InsertEvent(ctx, c.Request)
}

// MatchResult is returned by the title-matched mutations.
type MatchResult struct {
	Matched bool `json:"matched"`
}

// DeleteEventByTitle deletes the first matching event of every calendar.
type DeleteEventByTitle struct {
	Title     string
	EventDate string
}

func (DeleteEventByTitle) Name() Name { return NameDeleteEventByTitle }

func (c DeleteEventByTitle) Execute(ctx context.Context, exec Executor) (any, error) {
	matched, err := exec.DeleteEventByTitle(ctx, c.Title, c.EventDate)
	return MatchResult{Matched: matched}, err
}

// UpdateEvent merges new values into the first matching event of every calendar.
type UpdateEvent struct {
	Request agenda.UpdateRequest
}

func (UpdateEvent) Name() Name { return NameUpdateEvent }

func (c UpdateEvent) Execute(ctx context.Context, exec Executor) (any, error) {
	matched, err := exec.UpdateEvent(ctx, c.Request)
	return MatchResult{Matched: matched}, err
}

// Result is the classified outcome of running a command.
type Result struct {
	Command Name           `json:"command"`
	Status  agenda.Outcome `json:"status"`
	Message string         `json:"message,omitempty"`
	Data    any            `json:"data,omitempty"`
}

// OK reports whether the command did what was asked.
func (r Result) OK() bool {
	return r.Status == agenda.OutcomeSuccess
}

// Run executes cmd and classifies the outcome. A title scan that matched
// nothing is reported as not_found. Partial results are kept alongside a
// failure status.
func Run(ctx context.Context, cmd Command, exec Executor) Result {
	data, err := cmd.Execute(ctx, exec)

	res := Result{
		Command: cmd.Name(),
		Status:  agenda.Classify(err),
		Data:    data,
	}
	if err != nil {
		res.Message = err.Error()
		if m, ok := data.(MatchResult); !ok || !m.Matched {
			res.Data = nil
		}
		return res
	}

	if m, ok := data.(MatchResult); ok && !m.Matched {
		res.Status = agenda.OutcomeNotFound
		res.Message = "no matching event found"
	}
	return res
}

// Dispatch parses name and args and runs the resulting command. A parse
// failure is reported as a malformed_input result.
func Dispatch(ctx context.Context, name string, args map[string]any, exec Executor) Result {
	cmd, err := Parse(name, args)
	if err != nil {
		return Result{
			Command: Name(name),
			Status:  agenda.Classify(err),
			Message: err.Error(),
		}
	}
	return Run(ctx, cmd, exec)
}

func (n Name) String() string {
	return string(n)
}
