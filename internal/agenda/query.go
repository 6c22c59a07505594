package agenda

import (
	"context"
	"errors"
	"time"

	"github.com/teemow/tilda/internal/calendar"
	"github.com/teemow/tilda/internal/logging"
)

// ListEventsOnDay returns the events of calendarName that start on date in
// timezone (empty means the configured zone), ordered by start time.
//
// The date is validated before the calendar is resolved. An unknown calendar
// yields an empty result and no error.
func (s *Service) ListEventsOnDay(ctx context.Context, calendarName, date, timezone string) ([]EventRecord, error) {
	loc, err := LoadLocation(timezone, s.location)
	if err != nil {
		return nil, err
	}
	day, err := ParseDate(date, loc)
	if err != nil {
		return nil, err
	}
	window := DayWindow(day)

	ref, err := s.Resolve(ctx, calendarName)
	if errors.Is(err, ErrNotFound) {
		s.logger.Info("calendar not found, returning no events", logging.Calendar(calendarName))
		return []EventRecord{}, nil
	}
	if err != nil {
		return nil, err
	}

	events, err := s.backend.ListEvents(ctx, ref.ID, calendar.EventQuery{
		TimeMin: window.Start,
		// timeMax is exclusive, so pass the next local midnight.
		TimeMax:  window.End.Add(time.Nanosecond),
		Location: loc,
	})
	if err != nil {
		s.logger.Error("failed to list events", logging.Calendar(ref.Name), logging.Err(err))
		return nil, remoteError("list_events_on_day", err)
	}

	// The API also returns events that merely overlap the window.
	records := make([]EventRecord, 0, len(events))
	for _, ev := range events {
		if !window.Contains(ev.Start) {
			continue
		}
		records = append(records, toEventRecord(ev, ref.Name))
	}
	return records, nil
}
