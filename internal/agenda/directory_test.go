package agenda

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolve(t *testing.T) {
	b := newFakeBackend("Work", "Family Events")
	workID := b.calendars[0].ID
	svc := newTestService(b)

	tests := []struct {
		query  string
		wantID string
	}{
		{"work", workID},
		{"Work", workID},
		{"  WORK  ", workID},
		{"family events", b.calendars[1].ID},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			ref, err := svc.Resolve(context.Background(), tt.query)
			require.NoError(t, err)
			assert.Equal(t, tt.wantID, ref.ID)
		})
	}

	for _, query := range []string{"Personal", "wor", "Family"} {
		t.Run("missing "+query, func(t *testing.T) {
			_, err := svc.Resolve(context.Background(), query)
			assert.ErrorIs(t, err, ErrNotFound)
			assert.Equal(t, OutcomeNotFound, Classify(err))
		})
	}
}

func TestResolve_FirstMatchWins(t *testing.T) {
	b := newFakeBackend("Work", "work ")
	svc := newTestService(b)

	ref, err := svc.Resolve(context.Background(), "WORK")
	require.NoError(t, err)
	assert.Equal(t, b.calendars[0].ID, ref.ID)
}

func TestResolve_RemoteFailure(t *testing.T) {
	b := newFakeBackend("Work")
	b.listErr = errors.New("503 backend error")
	svc := newTestService(b)

	_, err := svc.Resolve(context.Background(), "Work")
	require.Error(t, err)
	var rse *RemoteServiceError
	require.True(t, errors.As(err, &rse))
	assert.Equal(t, "list_calendars", rse.Op)
	assert.Equal(t, OutcomeRemoteFailure, Classify(err))
}

func TestListCalendars(t *testing.T) {
	b := newFakeBackend("Work", "Home")
	b.calendars[1].Description = "family stuff"
	svc := newTestService(b)

	refs, err := svc.ListCalendars(context.Background())
	require.NoError(t, err)
	require.Len(t, refs, 2)
	assert.Equal(t, CalendarRef{ID: b.calendars[0].ID, Name: "Work"}, refs[0])
	assert.Equal(t, "family stuff", refs[1].Description)
}

func TestCreateCalendar(t *testing.T) {
	b := newFakeBackend()
	svc := newTestService(b)

	ref, err := svc.CreateCalendar(context.Background(), "Gym", "Workouts")
	require.NoError(t, err)
	assert.Equal(t, "Gym", ref.Name)
	assert.Equal(t, "Workouts", ref.Description)
	assert.Equal(t, "America/Los_Angeles", b.calendars[0].TimeZone)

	_, err = svc.CreateCalendar(context.Background(), "   ", "")
	assert.Equal(t, OutcomeMalformedInput, Classify(err))

	b.createCalendarErr = errors.New("quota exceeded")
	_, err = svc.CreateCalendar(context.Background(), "Other", "")
	assert.Equal(t, OutcomeRemoteFailure, Classify(err))
}

func TestDirectoryCache(t *testing.T) {
	b := newFakeBackend("Work")
	svc := newTestService(b, func(o *Options) {
		o.CacheTTL = time.Minute
		o.CacheSize = 16
	})
	ctx := context.Background()

	_, err := svc.Resolve(ctx, "Work")
	require.NoError(t, err)
	_, err = svc.Resolve(ctx, "work")
	require.NoError(t, err)
	assert.Equal(t, 1, b.listCalendarsCalls, "second lookup should be served from the cache")

	// Negative results are never cached.
	_, err = svc.Resolve(ctx, "Gym")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = svc.Resolve(ctx, "Gym")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, 3, b.listCalendarsCalls)

	_, err = svc.CreateCalendar(ctx, "Gym", "")
	require.NoError(t, err)
	ref, err := svc.Resolve(ctx, "gym")
	require.NoError(t, err)
	assert.Equal(t, "Gym", ref.Name)
	assert.Equal(t, 4, b.listCalendarsCalls)
}

func TestDirectoryCache_Disabled(t *testing.T) {
	b := newFakeBackend("Work")
	svc := newTestService(b)

	for i := 0; i < 3; i++ {
		_, err := svc.Resolve(context.Background(), "Work")
		require.NoError(t, err)
	}
	assert.Equal(t, 3, b.listCalendarsCalls)
}
