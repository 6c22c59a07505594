package calendar

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"go.opentelemetry.io/otel/trace"
	"golang.org/x/time/rate"
	calendar "google.golang.org/api/calendar/v3"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"

	"github.com/teemow/tilda/internal/google"
	"github.com/teemow/tilda/internal/instrumentation"
	"github.com/teemow/tilda/internal/logging"
)

// maxPageSize is the largest page the Calendar API serves for events.
const maxPageSize = 250

var errStopPaging = errors.New("stop paging")

// Client wraps the Google Calendar service
type Client struct {
	svc     *calendar.Service
	limiter *rate.Limiter
	metrics *instrumentation.Metrics
	logger  *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithRateLimit throttles outgoing API calls. A non-positive rps disables the limiter.
func WithRateLimit(rps float64, burst int) Option {
	return func(c *Client) {
		if rps <= 0 {
			c.limiter = nil
			return
		}
		c.limiter = rate.NewLimiter(rate.Limit(rps), burst)
	}
}

// WithMetrics records Google API metrics for every call.
func WithMetrics(m *instrumentation.Metrics) Option {
	return func(c *Client) {
		c.metrics = m
	}
}

// WithLogger sets the logger used for failed API calls.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

// NewClient creates a Calendar client authenticated with the configured credentials.
func NewClient(ctx context.Context, creds google.ClientOptions, opts ...Option) (*Client, error) {
	httpClient, err := google.NewHTTPClient(ctx, creds)
	if err != nil {
		return nil, err
	}
	return NewClientFromHTTP(ctx, httpClient, opts...)
}

// NewClientFromHTTP creates a Calendar client that sends requests through httpClient.
func NewClientFromHTTP(ctx context.Context, httpClient *http.Client, opts ...Option) (*Client, error) {
	svc, err := calendar.NewService(ctx, option.WithHTTPClient(httpClient))
	if err != nil {
		return nil, fmt.Errorf("failed to create Calendar service: %w", err)
	}

	c := &Client{
		svc:    svc,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// call runs fn inside a span, after the rate limiter admits it, and records its metrics.
func (c *Client) call(ctx context.Context, operation, calendarID string, fn func(ctx context.Context) error) error {
	attrs := instrumentation.NewSpanAttributeBuilder()
	if calendarID != "" {
		attrs = attrs.WithCalendar(calendarID)
	}
	ctx, span := instrumentation.StartGoogleAPISpan(ctx, instrumentation.ServiceCalendar, operation, attrs.Build()...)
	defer span.End()

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			instrumentation.SetSpanError(span, err)
			return fmt.Errorf("rate limiter: %w", err)
		}
	}

	start := time.Now()
	err := fn(ctx)
	duration := time.Since(start)

	status := instrumentation.StatusSuccess
	if err != nil {
		status = instrumentation.StatusError
		c.logFailure(ctx, span, operation, calendarID, err)
	} else {
		instrumentation.SetSpanSuccess(span)
	}
	c.metrics.RecordGoogleAPIOperation(ctx, instrumentation.ServiceCalendar, operation, status, duration)

	return err
}

func (c *Client) logFailure(ctx context.Context, span trace.Span, operation, calendarID string, err error) {
	instrumentation.SetSpanError(span, err)
	logging.WithOperation(c.logger, operation).WarnContext(ctx, "calendar api call failed",
		logging.Calendar(calendarID),
		slog.Int("status_code", StatusCode(err)),
		logging.Err(err))
}

// ListCalendars lists all calendars accessible to the user, following every page.
func (c *Client) ListCalendars(ctx context.Context) ([]CalendarInfo, error) {
	var calendars []CalendarInfo
	err := c.call(ctx, instrumentation.OperationList, "", func(ctx context.Context) error {
		calendars = calendars[:0]
		return c.svc.CalendarList.List().Pages(ctx, func(page *calendar.CalendarList) error {
			for _, entry := range page.Items {
				calendars = append(calendars, toCalendarInfo(entry))
			}
			return nil
		})
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list calendars: %w", err)
	}
	return calendars, nil
}

// CreateCalendar creates a secondary calendar.
func (c *Client) CreateCalendar(ctx context.Context, summary, description, timeZone string) (*CalendarInfo, error) {
	var created *calendar.Calendar
	err := c.call(ctx, instrumentation.OperationCreate, summary, func(ctx context.Context) error {
		var err error
		created, err = c.svc.Calendars.Insert(&calendar.Calendar{
			Summary:     summary,
			Description: description,
			TimeZone:    timeZone,
		}).Context(ctx).Do()
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create calendar: %w", err)
	}

	return &CalendarInfo{
		ID:          created.Id,
		Summary:     created.Summary,
		Description: created.Description,
		TimeZone:    created.TimeZone,
	}, nil
}

// ListEvents lists single events of a calendar ordered by start time.
func (c *Client) ListEvents(ctx context.Context, calendarID string, q EventQuery) ([]EventSummary, error) {
	loc := q.Location
	if loc == nil {
		loc = time.UTC
	}

	pageSize := int64(maxPageSize)
	if q.MaxResults > 0 && q.MaxResults < pageSize {
		pageSize = q.MaxResults
	}

	var events []EventSummary
	err := c.call(ctx, instrumentation.OperationList, calendarID, func(ctx context.Context) error {
		events = events[:0]
		call := c.svc.Events.List(calendarID).
			SingleEvents(true).
			OrderBy("startTime").
			MaxResults(pageSize).
			TimeZone(loc.String())
		if !q.TimeMin.IsZero() {
			call = call.TimeMin(q.TimeMin.Format(time.RFC3339Nano))
		}
		if !q.TimeMax.IsZero() {
			call = call.TimeMax(q.TimeMax.Format(time.RFC3339Nano))
		}

		err := call.Pages(ctx, func(page *calendar.Events) error {
			for _, item := range page.Items {
				events = append(events, toEventSummary(calendarID, item, loc))
				if q.MaxResults > 0 && int64(len(events)) >= q.MaxResults {
					return errStopPaging
				}
			}
			return nil
		})
		if errors.Is(err, errStopPaging) {
			return nil
		}
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}
	return events, nil
}

// CreateEvent creates a new calendar event
func (c *Client) CreateEvent(ctx context.Context, calendarID string, input EventInput) (*EventSummary, error) {
	event := &calendar.Event{
		Summary:     input.Summary,
		Description: input.Description,
		Start:       toEventDateTime(input.Start, input.TimeZone),
		End:         toEventDateTime(input.End, input.TimeZone),
	}

	var created *calendar.Event
	err := c.call(ctx, instrumentation.OperationCreate, calendarID, func(ctx context.Context) error {
		var err error
		created, err = c.svc.Events.Insert(calendarID, event).Context(ctx).Do()
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create event: %w", err)
	}

	summary := toEventSummary(calendarID, created, input.Start.Location())
	return &summary, nil
}

// getEvent fetches the stored event as the API returns it.
func (c *Client) getEvent(ctx context.Context, calendarID, eventID string) (*calendar.Event, error) {
	var event *calendar.Event
	err := c.call(ctx, instrumentation.OperationGet, calendarID, func(ctx context.Context) error {
		var err error
		event, err = c.svc.Events.Get(calendarID, eventID).Context(ctx).Do()
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get existing event: %w", err)
	}
	return event, nil
}

// UpdateEvent fetches the stored event, overlays the patch and submits a full update.
// An empty, non-nil Description clears the stored description.
func (c *Client) UpdateEvent(ctx context.Context, calendarID, eventID string, patch EventPatch) (*EventSummary, error) {
	existing, err := c.getEvent(ctx, calendarID, eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to update event: %w", err)
	}
	applyPatch(existing, patch)

	var updated *calendar.Event
	err = c.call(ctx, instrumentation.OperationUpdate, calendarID, func(ctx context.Context) error {
		var err error
		updated, err = c.svc.Events.Update(calendarID, eventID, existing).Context(ctx).Do()
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to update event: %w", err)
	}

	loc := time.UTC
	if patch.Start != nil {
		loc = patch.Start.Location()
	}
	summary := toEventSummary(calendarID, updated, loc)
	return &summary, nil
}

func applyPatch(existing *calendar.Event, patch EventPatch) {
	if patch.Summary != nil {
		existing.Summary = *patch.Summary
	}
	if patch.Description != nil {
		existing.Description = *patch.Description
		if existing.Description == "" {
			existing.ForceSendFields = append(existing.ForceSendFields, "Description")
		}
	}
	if patch.Start != nil {
		existing.Start = toEventDateTime(*patch.Start, patch.TimeZone)
	}
	if patch.End != nil {
		existing.End = toEventDateTime(*patch.End, patch.TimeZone)
	}
}

// DeleteEvent deletes a calendar event
func (c *Client) DeleteEvent(ctx context.Context, calendarID, eventID string) error {
	err := c.call(ctx, instrumentation.OperationDelete, calendarID, func(ctx context.Context) error {
		return c.svc.Events.Delete(calendarID, eventID).Context(ctx).Do()
	})
	if err != nil {
		return fmt.Errorf("failed to delete event: %w", err)
	}
	return nil
}

// StatusCode returns the HTTP status of a Google API error, or 0.
func StatusCode(err error) int {
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		return apiErr.Code
	}
	return 0
}

// IsNotFound reports whether err is a 404 or 410 from the Calendar API.
func IsNotFound(err error) bool {
	code := StatusCode(err)
	return code == http.StatusNotFound || code == http.StatusGone
}
