package command

import (
	"fmt"
	"strings"

	"github.com/teemow/tilda/internal/agenda"
)

// Parse errors wrap agenda.ErrMalformedInput so they classify as malformed input.
var (
	ErrUnknownCommand  = fmt.Errorf("%w: unknown command", agenda.ErrMalformedInput)
	ErrMissingArgument = fmt.Errorf("%w: missing required argument", agenda.ErrMalformedInput)
	ErrInvalidArgument = fmt.Errorf("%w: invalid argument", agenda.ErrMalformedInput)
)

// Argument names as sent by the agent.
const (
	ArgCalendarName   = "calendar_name"
	ArgDescription    = "description"
	ArgDateStr        = "date_str"
	ArgTimezone       = "timezone"
	ArgTitle          = "title"
	ArgStartTime      = "start_time"
	ArgEndTime        = "end_time"
	ArgEventDate      = "event_date"
	ArgOriginalTitle  = "original_title"
	ArgNewTitle       = "new_title"
	ArgNewStart       = "new_start"
	ArgNewEnd         = "new_end"
	ArgNewDescription = "new_description"
)

// Parse maps an operation name and its arguments to a Command.
// Unknown argument keys are ignored.
func Parse(name string, args map[string]any) (Command, error) {
	a := arguments(args)

	switch Name(strings.TrimSpace(name)) {
	case NameCreateCalendar:
		calendarName, err := a.required(ArgCalendarName)
		if err != nil {
			return nil, err
		}
		description, err := a.optional(ArgDescription)
		if err != nil {
			return nil, err
		}
		return CreateCalendar{CalendarName: calendarName, Description: description}, nil

	case NameListCalendars:
		return ListCalendars{}, nil

	case NameListEventsOnDay:
		calendarName, err := a.required(ArgCalendarName)
		if err != nil {
			return nil, err
		}
		date, err := a.required(ArgDateStr)
		if err != nil {
			return nil, err
		}
		timezone, err := a.optional(ArgTimezone)
		if err != nil {
			return nil, err
		}
		return ListEventsOnDay{CalendarName: calendarName, Date: date, Timezone: timezone}, nil

	case NameInsertEvents:
		var req agenda.InsertRequest
		var err error
		if req.Calendar, err = a.optional(ArgCalendarName); err != nil {
			return nil, err
		}
		if req.Title, err = a.required(ArgTitle); err != nil {
			return nil, err
		}
		if req.Start, err = a.required(ArgStartTime); err != nil {
			return nil, err
		}
		if req.End, err = a.required(ArgEndTime); err != nil {
			return nil, err
		}
		if req.Description, err = a.optional(ArgDescription); err != nil {
			return nil, err
		}
		return InsertEvents{Request: req}, nil

	case NameDeleteEventByTitle:
		title, err := a.required(ArgTitle)
		if err != nil {
			return nil, err
		}
		date, err := a.optional(ArgEventDate)
		if err != nil {
			return nil, err
		}
		return DeleteEventByTitle{Title: title, EventDate: date}, nil

	case NameUpdateEvent:
		var req agenda.UpdateRequest
		var err error
		if req.OriginalTitle, err = a.required(ArgOriginalTitle); err != nil {
			return nil, err
		}
		if req.Date, err = a.optional(ArgEventDate); err != nil {
			return nil, err
		}
		if req.NewTitle, err = a.optional(ArgNewTitle); err != nil {
			return nil, err
		}
		if req.NewStart, err = a.optional(ArgNewStart); err != nil {
			return nil, err
		}
		if req.NewEnd, err = a.optional(ArgNewEnd); err != nil {
			return nil, err
		}
		if req.NewDescription, err = a.present(ArgNewDescription); err != nil {
			return nil, err
		}
		return UpdateEvent{Request: req}, nil
	}

	return nil, fmt.Errorf("%w: %q", ErrUnknownCommand, name)
}

type arguments map[string]any

// optional returns the string value of key, or "" when absent or null.
func (a arguments) optional(key string) (string, error) {
	v, ok := a[key]
	if !ok || v == nil {
		return "", nil
	}
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("%w: %s must be a string, got %T", ErrInvalidArgument, key, v)
	}
	return s, nil
}

// required is optional with blank values rejected.
func (a arguments) required(key string) (string, error) {
	s, err := a.optional(key)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(s) == "" {
		return "", fmt.Errorf("%w: %s", ErrMissingArgument, key)
	}
	return s, nil
}

// present distinguishes an absent key from an empty string.
func (a arguments) present(key string) (*string, error) {
	v, ok := a[key]
	if !ok || v == nil {
		return nil, nil
	}
	s, err := a.optional(key)
	if err != nil {
		return nil, err
	}
	return &s, nil
}
