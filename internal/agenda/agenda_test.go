package agenda

import (
	"time"

	"github.com/teemow/tilda/internal/logging"
)

var (
	la      = mustLoad("America/Los_Angeles")
	testNow = time.Date(2024, 1, 8, 12, 0, 0, 0, la)
)

func mustLoad(name string) *time.Location {
	loc, err := time.LoadLocation(name)
	if err != nil {
		panic(err)
	}
	return loc
}

func at(year int, month time.Month, day, hour, minute, sec int) time.Time {
	return time.Date(year, month, day, hour, minute, sec, 0, la)
}

func newTestService(b *fakeBackend, mutate ...func(*Options)) *Service {
	opts := Options{
		Location: la,
		Logger:   logging.Discard(),
		Now:      func() time.Time { return testNow },
	}
	for _, m := range mutate {
		m(&opts)
	}
	return NewService(b, opts)
}

func ptr[T any](v T) *T {
	return &v
}
