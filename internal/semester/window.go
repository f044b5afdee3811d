package semester

import (
	"fmt"
	"time"

	appErrors "github.com/larissaOjeda/thesis-canvas/pkg/errors"
)

// Season identifies one of the recognised academic semesters.
type Season string

const (
	SeasonSpring Season = "Spring"
	SeasonSummer Season = "Summer"
	SeasonWinter Season = "Winter"
)

// Seasons returns the closed enumeration of recognised semester tags.
func Seasons() []Season {
	return []Season{SeasonSpring, SeasonSummer, SeasonWinter}
}

// Window is the closed, timezone-aware (UTC) date interval of a semester.
// Both Start and End are inclusive.
type Window struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Canonical semester calendar. The upstream data pipeline used overlapping
// month ranges in different places; this service uses one exclusive,
// non-overlapping cut covering the full year:
//
//	Spring: Jan 1 - May 31
//	Summer: Jun 1 - Jul 31
//	Winter: Aug 1 - Dec 31
var seasonBounds = map[Season]struct {
	startMonth time.Month
	endMonth   time.Month
	endDay     int
}{
	SeasonSpring: {time.January, time.May, 31},
	SeasonSummer: {time.June, time.July, 31},
	SeasonWinter: {time.August, time.December, 31},
}

// Resolve maps a (year, season) selector to its semester window.
// Unknown season tags are a hard validation error, never a default.
func Resolve(year int, season Season) (Window, error) {
	bounds, ok := seasonBounds[season]
	if !ok {
		return Window{}, appErrors.Clone(appErrors.ErrInvalidSemester,
			fmt.Sprintf("invalid semester %q: choose one of Spring, Summer or Winter", season))
	}
	return Window{
		Start: time.Date(year, bounds.startMonth, 1, 0, 0, 0, 0, time.UTC),
		End:   time.Date(year, bounds.endMonth, bounds.endDay, 23, 59, 59, 0, time.UTC),
	}, nil
}

// ParseSeason normalises a raw semester tag into a Season.
func ParseSeason(raw string) (Season, error) {
	switch raw {
	case string(SeasonSpring):
		return SeasonSpring, nil
	case string(SeasonSummer):
		return SeasonSummer, nil
	case string(SeasonWinter):
		return SeasonWinter, nil
	}
	return "", appErrors.Clone(appErrors.ErrInvalidSemester,
		fmt.Sprintf("invalid semester %q: choose one of Spring, Summer or Winter", raw))
}

// Contains reports whether t falls inside the window, boundaries included.
func (w Window) Contains(t time.Time) bool {
	return !t.Before(w.Start) && !t.After(w.End)
}

// Months enumerates the calendar months covered by the window, each as a
// sub-window clamped to the month boundaries.
func (w Window) Months() []Window {
	var months []Window
	cursor := time.Date(w.Start.Year(), w.Start.Month(), 1, 0, 0, 0, 0, time.UTC)
	for !cursor.After(w.End) {
		next := cursor.AddDate(0, 1, 0)
		months = append(months, Window{
			Start: cursor,
			End:   next.Add(-time.Second),
		})
		cursor = next
	}
	return months
}
