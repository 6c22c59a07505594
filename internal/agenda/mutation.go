package agenda

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/teemow/tilda/internal/calendar"
	"github.com/teemow/tilda/internal/instrumentation"
	"github.com/teemow/tilda/internal/logging"
)

// InsertEvent creates an event. An empty calendar name selects the default
// calendar, which is created when it does not exist yet.
func (s *Service) InsertEvent(ctx context.Context, req InsertRequest) (*EventRecord, error) {
	if strings.TrimSpace(req.Title) == "" {
		return nil, fmt.Errorf("%w: title is required", ErrMalformedInput)
	}
	start, err := ParseEventTime(req.Start, s.location)
	if err != nil {
		return nil, err
	}
	end, err := ParseEventTime(req.End, s.location)
	if err != nil {
		return nil, err
	}
	if end.Before(start) {
		return nil, fmt.Errorf("%w: end %s is before start %s", ErrMalformedDate, req.End, req.Start)
	}

	ref, err := s.calendarForInsert(ctx, req.Calendar)
	if err != nil {
		return nil, err
	}

	created, err := s.backend.CreateEvent(ctx, ref.ID, calendar.EventInput{
		Summary:     req.Title,
		Description: req.Description,
		Start:       start,
		End:         end,
		TimeZone:    s.location.String(),
	})
	if err != nil {
		s.logger.Error("failed to insert event", logging.Calendar(ref.Name), logging.Event(req.Title), logging.Err(err))
		return nil, remoteError("insert_events", err)
	}

	s.logger.Info("event inserted", logging.Calendar(ref.Name), logging.Event(created.Summary))
	record := toEventRecord(*created, ref.Name)
	return &record, nil
}

// calendarForInsert resolves name, falling back to the default calendar and
// creating it if needed.
func (s *Service) calendarForInsert(ctx context.Context, name string) (*CalendarRef, error) {
	if strings.TrimSpace(name) == "" {
		name = s.defaultCalendar
	}

	ref, err := s.Resolve(ctx, name)
	if err == nil {
		return ref, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	if normalizeName(name) != normalizeName(s.defaultCalendar) {
		ref, err = s.Resolve(ctx, s.defaultCalendar)
		if err == nil {
			return ref, nil
		}
		if !errors.Is(err, ErrNotFound) {
			return nil, err
		}
	}

	ref, err = s.CreateCalendar(ctx, s.defaultCalendar, "Auto-created calendar: "+name)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCalendarUnavailable, err)
	}
	return ref, nil
}

// DeleteEventByTitle deletes, in every calendar, the first upcoming event
// whose title matches. Events are scanned from local midnight of date, or
// from now when date is empty. It reports whether anything was deleted.
//
// Failures in one calendar do not stop the scan; they are returned as a
// *RemoteServiceError together with the matched flag.
func (s *Service) DeleteEventByTitle(ctx context.Context, title, date string) (bool, error) {
	return s.scanByTitle(ctx, instrumentation.OperationDelete, "delete_event_by_title", title, date,
		func(ctx context.Context, ref CalendarRef, ev calendar.EventSummary) error {
			if err := s.backend.DeleteEvent(ctx, ref.ID, ev.ID); err != nil {
				return err
			}
			s.logger.Info("event deleted", logging.Calendar(ref.Name), logging.Event(ev.Summary))
			return nil
		})
}

// UpdateEvent overlays the provided fields onto the first matching event of
// every calendar, using the same discovery as DeleteEventByTitle.
func (s *Service) UpdateEvent(ctx context.Context, req UpdateRequest) (bool, error) {
	patch, err := s.buildPatch(req)
	if err != nil {
		return false, err
	}

	return s.scanByTitle(ctx, instrumentation.OperationUpdate, "update_event", req.OriginalTitle, req.Date,
		func(ctx context.Context, ref CalendarRef, ev calendar.EventSummary) error {
			if _, err := s.backend.UpdateEvent(ctx, ref.ID, ev.ID, patch); err != nil {
				return err
			}
			s.logger.Info("event updated", logging.Calendar(ref.Name), logging.Event(ev.Summary))
			return nil
		})
}

func (s *Service) buildPatch(req UpdateRequest) (calendar.EventPatch, error) {
	patch := calendar.EventPatch{TimeZone: s.location.String()}

	if title := strings.TrimSpace(req.NewTitle); title != "" {
		patch.Summary = &req.NewTitle
	}
	if req.NewDescription != nil {
		desc := *req.NewDescription
		patch.Description = &desc
	}
	if strings.TrimSpace(req.NewStart) != "" {
		start, err := ParseEventTime(req.NewStart, s.location)
		if err != nil {
			return patch, err
		}
		patch.Start = &start
	}
	if strings.TrimSpace(req.NewEnd) != "" {
		end, err := ParseEventTime(req.NewEnd, s.location)
		if err != nil {
			return patch, err
		}
		patch.End = &end
	}
	if patch.Start != nil && patch.End != nil && patch.End.Before(*patch.Start) {
		return patch, fmt.Errorf("%w: new end is before new start", ErrMalformedDate)
	}
	return patch, nil
}

type matchFunc func(ctx context.Context, ref CalendarRef, ev calendar.EventSummary) error

// scanByTitle applies fn to the first event matching title in each calendar.
func (s *Service) scanByTitle(ctx context.Context, metricOp, op, title, date string, fn matchFunc) (bool, error) {
	want := normalizeName(title)
	if want == "" {
		return false, fmt.Errorf("%w: title is required", ErrMalformedInput)
	}

	lower := s.now().In(s.location)
	if strings.TrimSpace(date) != "" {
		day, err := ParseDate(date, s.location)
		if err != nil {
			return false, err
		}
		lower = day
	}

	ctx, span := instrumentation.StartSpan(ctx, "agenda."+op,
		instrumentation.NewSpanAttributeBuilder().WithOperation(metricOp).Build()...)
	defer span.End()

	calendars, err := s.ListCalendars(ctx)
	if err != nil {
		instrumentation.SetSpanError(span, err)
		return false, err
	}

	var (
		matched bool
		scanned int
		errs    []error
	)
	for _, ref := range calendars {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}

		events, err := s.backend.ListEvents(ctx, ref.ID, calendar.EventQuery{
			TimeMin:    lower,
			MaxResults: s.scanLimit,
			Location:   s.location,
		})
		if err != nil {
			s.logger.Warn("skipping calendar", logging.Operation(op), logging.Calendar(ref.Name), logging.Err(err))
			errs = append(errs, fmt.Errorf("calendar %q: %w", ref.Name, err))
			continue
		}
		scanned++

		for _, ev := range events {
			if normalizeName(ev.Summary) != want {
				continue
			}
			err := fn(ctx, ref, ev)
			switch {
			case err == nil:
				matched = true
			case calendar.IsNotFound(err):
				// Removed between list and change: nothing left to match here.
				s.logger.Info("matched event no longer exists", logging.Operation(op), logging.Calendar(ref.Name), logging.Event(ev.Summary))
			default:
				s.logger.Warn("failed to apply change", logging.Operation(op), logging.Calendar(ref.Name), logging.Err(err))
				errs = append(errs, fmt.Errorf("calendar %q: %w", ref.Name, err))
			}
			// Only the first match per calendar is touched.
			break
		}
	}

	s.metrics.RecordTitleScan(ctx, metricOp, scanned, matched)
	outcome := OutcomeNotFound
	if matched {
		outcome = OutcomeSuccess
	}
	instrumentation.AddSpanEvent(span, "scan_complete",
		instrumentation.NewSpanAttributeBuilder().WithOutcome(string(outcome)).Build()...)

	if len(errs) > 0 {
		return matched, remoteError(op, errors.Join(errs...))
	}
	if !matched {
		s.logger.Info("no event matched", logging.Operation(op), logging.Event(title))
	}
	return matched, nil
}
