package agenda

import (
	"fmt"
	"strings"
	"time"
)

// DateLayouts are the accepted calendar date formats, tried in order.
var DateLayouts = []string{"2006-01-02", "01-02-2006"}

// eventTimeLayouts are tried after RFC 3339 and are read in the configured zone.
var eventTimeLayouts = []string{"2006-01-02T15:04:05", "2006-01-02T15:04"}

// DateWindow is the closed interval covering one calendar day in one zone.
type DateWindow struct {
	Start time.Time
	End   time.Time
}

// DayWindow returns [local midnight, next local midnight - 1ns] for the day of t.
func DayWindow(t time.Time) DateWindow {
	start := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	return DateWindow{
		Start: start,
		End:   start.AddDate(0, 0, 1).Add(-time.Nanosecond),
	}
}

// Contains reports whether t lies inside the window, bounds included.
func (w DateWindow) Contains(t time.Time) bool {
	return !t.Before(w.Start) && !t.After(w.End)
}

// ParseDate parses a calendar date and returns local midnight of that day in loc.
func ParseDate(s string, loc *time.Location) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range DateLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: %q is neither YYYY-MM-DD nor MM-DD-YYYY", ErrMalformedDate, s)
}

// ParseEventTime parses an event start or end. RFC 3339 values keep their
// offset; values without one are read in loc.
func ParseEventTime(s string, loc *time.Location) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.In(loc), nil
	}
	for _, layout := range eventTimeLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: unrecognized date-time %q", ErrMalformedDate, s)
}

// LoadLocation resolves an IANA zone name. An empty name yields fallback.
func LoadLocation(name string, fallback *time.Location) (*time.Location, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return fallback, nil
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("%w: unknown timezone %q", ErrMalformedDate, name)
	}
	return loc, nil
}
