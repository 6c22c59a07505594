package agenda

import (
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/teemow/tilda/internal/instrumentation"
	"github.com/teemow/tilda/internal/logging"
)

// Defaults
const (
	DefaultCalendarName = "Tilda"
	DefaultScanLimit    = 50
	DefaultTimezone     = "America/Los_Angeles"
)

// Options configures a Service. Zero values select the defaults.
type Options struct {
	// Location scopes day boundaries and the zone new events are written in.
	Location *time.Location
	// DefaultCalendar receives events inserted without a calendar name.
	DefaultCalendar string
	// ScanLimit caps events fetched per calendar during title scans.
	ScanLimit int64
	// CacheTTL enables the calendar directory cache when > 0.
	CacheTTL  time.Duration
	CacheSize int

	Logger  logging.Logger
	Metrics *instrumentation.Metrics
	// Now is used as the lower scan bound when no date is given.
	Now func() time.Time
}

// Service runs the calendar operations against a Backend.
// It is safe for concurrent use.
type Service struct {
	backend         Backend
	location        *time.Location
	defaultCalendar string
	scanLimit       int64
	cache           *expirable.LRU[string, CalendarRef]
	logger          logging.Logger
	metrics         *instrumentation.Metrics
	now             func() time.Time
}

// NewService creates a Service.
func NewService(backend Backend, opts Options) *Service {
	s := &Service{
		backend:         backend,
		location:        opts.Location,
		defaultCalendar: opts.DefaultCalendar,
		scanLimit:       opts.ScanLimit,
		logger:          opts.Logger,
		metrics:         opts.Metrics,
		now:             opts.Now,
	}

	if s.location == nil {
		loc, err := time.LoadLocation(DefaultTimezone)
		if err != nil {
			loc = time.UTC
		}
		s.location = loc
	}
	if s.defaultCalendar == "" {
		s.defaultCalendar = DefaultCalendarName
	}
	if s.scanLimit <= 0 {
		s.scanLimit = DefaultScanLimit
	}
	if s.logger == nil {
		s.logger = logging.DefaultLogger()
	}
	if s.now == nil {
		s.now = time.Now
	}
	if opts.CacheTTL > 0 {
		size := opts.CacheSize
		if size <= 0 {
			size = 128
		}
		s.cache = expirable.NewLRU[string, CalendarRef](size, nil, opts.CacheTTL)
	}

	return s
}

// Location returns the zone used for day boundaries and new events.
func (s *Service) Location() *time.Location {
	return s.location
}

// DefaultCalendar returns the name used when insert gets no calendar.
func (s *Service) DefaultCalendar() string {
	return s.defaultCalendar
}
