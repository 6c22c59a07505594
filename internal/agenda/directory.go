package agenda

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/teemow/tilda/internal/instrumentation"
	"github.com/teemow/tilda/internal/logging"
)

func normalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// ListCalendars returns every calendar in the directory, in service order.
func (s *Service) ListCalendars(ctx context.Context) ([]CalendarRef, error) {
	infos, err := s.backend.ListCalendars(ctx)
	if err != nil {
		s.logger.Error("failed to list calendars", logging.Err(err))
		return nil, remoteError("list_calendars", err)
	}

	refs := make([]CalendarRef, 0, len(infos))
	for _, info := range infos {
		refs = append(refs, toCalendarRef(info))
	}
	s.fillCache(refs)
	return refs, nil
}

// Resolve returns the first calendar whose trimmed, lower-cased name equals
// the trimmed, lower-cased query. It returns ErrNotFound when none does.
func (s *Service) Resolve(ctx context.Context, name string) (*CalendarRef, error) {
	key := normalizeName(name)

	if s.cache != nil {
		if ref, ok := s.cache.Get(key); ok {
			s.metrics.RecordDirectoryLookup(ctx, instrumentation.LookupHit, name)
			return &ref, nil
		}
	}

	refs, err := s.ListCalendars(ctx)
	if err != nil {
		return nil, err
	}

	for _, ref := range refs {
		if normalizeName(ref.Name) == key {
			s.metrics.RecordDirectoryLookup(ctx, instrumentation.LookupMiss, name)
			return &ref, nil
		}
	}

	s.metrics.RecordDirectoryLookup(ctx, instrumentation.LookupNotFound, name)
	return nil, fmt.Errorf("%w: %q", ErrNotFound, strings.TrimSpace(name))
}

// CreateCalendar creates a calendar in the configured zone and purges the directory cache.
func (s *Service) CreateCalendar(ctx context.Context, name, description string) (*CalendarRef, error) {
	if strings.TrimSpace(name) == "" {
		return nil, fmt.Errorf("%w: calendar name is required", ErrMalformedInput)
	}

	info, err := s.backend.CreateCalendar(ctx, name, description, s.location.String())
	if err != nil {
		s.logger.Error("failed to create calendar", logging.Calendar(name), logging.Err(err))
		return nil, remoteError("create_calendar", err)
	}
	if s.cache != nil {
		s.cache.Purge()
	}

	s.logger.Info("calendar created", logging.Calendar(info.Summary), slog.String("calendar_id", info.ID))
	ref := toCalendarRef(*info)
	return &ref, nil
}

// fillCache stores the first calendar seen for each name.
func (s *Service) fillCache(refs []CalendarRef) {
	if s.cache == nil {
		return
	}
	s.cache.Purge()
	for _, ref := range refs {
		key := normalizeName(ref.Name)
		if s.cache.Contains(key) {
			continue
		}
		s.cache.Add(key, ref)
	}
}
