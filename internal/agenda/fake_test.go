package agenda

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/teemow/tilda/internal/calendar"
)

// fakeBackend is an in-memory calendar service. ListEvents returns every
// event overlapping the query window, as the real API does.
type fakeBackend struct {
	mu        sync.Mutex
	calendars []calendar.CalendarInfo
	events    map[string][]calendar.EventSummary
	nextID    int

	listCalendarsCalls int
	lastQuery          calendar.EventQuery
	listErr            error
	createCalendarErr  error
	createEventErr     error
	listEventsErr      map[string]error
	deleteErr          map[string]error
}

func newFakeBackend(names ...string) *fakeBackend {
	f := &fakeBackend{
		events:        map[string][]calendar.EventSummary{},
		listEventsErr: map[string]error{},
		deleteErr:     map[string]error{},
	}
	for _, name := range names {
		f.addCalendar(name)
	}
	return f
}

func (f *fakeBackend) id(prefix string) string {
	f.nextID++
	return fmt.Sprintf("%s-%d", prefix, f.nextID)
}

func (f *fakeBackend) addCalendar(name string) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	id := f.id("cal")
	f.calendars = append(f.calendars, calendar.CalendarInfo{ID: id, Summary: name})
	return id
}

func (f *fakeBackend) addEvent(calendarID, title string, start, end time.Time) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	id := f.id("evt")
	f.events[calendarID] = append(f.events[calendarID], calendar.EventSummary{
		ID:         id,
		CalendarID: calendarID,
		Summary:    title,
		Start:      start,
		End:        end,
	})
	return id
}

func (f *fakeBackend) event(calendarID, eventID string) (calendar.EventSummary, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, ev := range f.events[calendarID] {
		if ev.ID == eventID {
			return ev, true
		}
	}
	return calendar.EventSummary{}, false
}

func (f *fakeBackend) count(calendarID string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.events[calendarID])
}

func (f *fakeBackend) ListCalendars(_ context.Context) ([]calendar.CalendarInfo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listCalendarsCalls++
	if f.listErr != nil {
		return nil, f.listErr
	}
	return append([]calendar.CalendarInfo(nil), f.calendars...), nil
}

func (f *fakeBackend) CreateCalendar(_ context.Context, summary, description, timeZone string) (*calendar.CalendarInfo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createCalendarErr != nil {
		return nil, f.createCalendarErr
	}
	info := calendar.CalendarInfo{ID: f.id("cal"), Summary: summary, Description: description, TimeZone: timeZone}
	f.calendars = append(f.calendars, info)
	return &info, nil
}

func (f *fakeBackend) ListEvents(_ context.Context, calendarID string, q calendar.EventQuery) ([]calendar.EventSummary, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastQuery = q
	if err := f.listEventsErr[calendarID]; err != nil {
		return nil, err
	}

	var out []calendar.EventSummary
	for _, ev := range f.events[calendarID] {
		if !q.TimeMin.IsZero() && !ev.End.After(q.TimeMin) {
			continue
		}
		if !q.TimeMax.IsZero() && !ev.Start.Before(q.TimeMax) {
			continue
		}
		out = append(out, ev)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Start.Before(out[j].Start) })
	if q.MaxResults > 0 && int64(len(out)) > q.MaxResults {
		out = out[:q.MaxResults]
	}
	return out, nil
}

func (f *fakeBackend) CreateEvent(_ context.Context, calendarID string, input calendar.EventInput) (*calendar.EventSummary, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createEventErr != nil {
		return nil, f.createEventErr
	}
	if !f.hasCalendar(calendarID) {
		return nil, errors.New("calendar does not exist")
	}
	ev := calendar.EventSummary{
		ID:          f.id("evt"),
		CalendarID:  calendarID,
		Summary:     input.Summary,
		Description: input.Description,
		Start:       input.Start,
		End:         input.End,
		TimeZone:    input.TimeZone,
	}
	f.events[calendarID] = append(f.events[calendarID], ev)
	return &ev, nil
}

func (f *fakeBackend) UpdateEvent(_ context.Context, calendarID, eventID string, patch calendar.EventPatch) (*calendar.EventSummary, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, ev := range f.events[calendarID] {
		if ev.ID != eventID {
			continue
		}
		if patch.Summary != nil {
			ev.Summary = *patch.Summary
		}
		if patch.Description != nil {
			ev.Description = *patch.Description
		}
		if patch.Start != nil {
			ev.Start = *patch.Start
		}
		if patch.End != nil {
			ev.End = *patch.End
		}
		f.events[calendarID][i] = ev
		return &ev, nil
	}
	return nil, errors.New("event not found")
}

func (f *fakeBackend) DeleteEvent(_ context.Context, calendarID, eventID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.deleteErr[calendarID]; err != nil {
		return err
	}
	events := f.events[calendarID]
	for i, ev := range events {
		if ev.ID == eventID {
			f.events[calendarID] = append(events[:i], events[i+1:]...)
			return nil
		}
	}
	return errors.New("event not found")
}

func (f *fakeBackend) hasCalendar(id string) bool {
	for _, c := range f.calendars {
		if c.ID == id {
			return true
		}
	}
	return false
}
