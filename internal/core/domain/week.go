package domain

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrInvalidWeekKey = errors.New("week key out of supported range")
	ErrInvalidInstant = errors.New("invalid instant")
)

const (
	MinWeekNumber = 1
	MaxWeekNumber = 53

	rolloverHour   = 21
	rolloverMinute = 30

	fridayWindowEndHour   = 23
	fridayWindowEndMinute = 45
)

// WeekKey identifies a single reporting week. The same key is used to look up
// targets and to derive both the Friday and the Monday window, so Info and
// Plan aggregates for "week N of year Y" always agree on N and Y.
type WeekKey struct {
	Week int `json:"week_number"`
	Year int `json:"year"`
}

func (k WeekKey) String() string {
	return fmt.Sprintf("W%02d/%d", k.Week, k.Year)
}

// WindowSpec is the concrete datetime range used to filter activity records
// for one week and one activity kind. Start is always inclusive; End is
// inclusive only when EndInclusive is set.
type WindowSpec struct {
	Start        time.Time `json:"start"`
	End          time.Time `json:"end"`
	EndInclusive bool      `json:"end_inclusive"`
}

func (w WindowSpec) Contains(t time.Time) bool {
	if t.Before(w.Start) {
		return false
	}
	if t.Before(w.End) {
		return true
	}
	return w.EndInclusive && t.Equal(w.End)
}

// WeekResolver derives WeekKeys and activity windows from instants. Weeks
// roll over at Friday 21:30 in a single fixed offset; week 1 of a year starts
// at the first Friday of January, 21:30. All methods are pure and safe for
// concurrent use.
type WeekResolver struct {
	loc     *time.Location
	minYear int
	maxYear int
}

func NewWeekResolver(loc *time.Location, minYear, maxYear int) *WeekResolver {
	return &WeekResolver{
		loc:     loc,
		minYear: minYear,
		maxYear: maxYear,
	}
}

// DefaultWeekResolver uses IST (UTC+5:30) and supports years 2000-2100.
func DefaultWeekResolver() *WeekResolver {
	return NewWeekResolver(time.FixedZone("IST", 5*3600+1800), 2000, 2100)
}

func (r *WeekResolver) Location() *time.Location {
	return r.loc
}

// firstAnchor returns the Friday 21:30 instant that starts week 1 of year.
func (r *WeekResolver) firstAnchor(year int) time.Time {
	jan1 := time.Date(year, time.January, 1, 0, 0, 0, 0, r.loc)
	daysToFriday := (int(time.Friday) - int(jan1.Weekday()) + 7) % 7
	first := jan1.AddDate(0, 0, daysToFriday)
	return time.Date(first.Year(), first.Month(), first.Day(), rolloverHour, rolloverMinute, 0, 0, r.loc)
}

func (r *WeekResolver) validateKey(k WeekKey) error {
	if k.Week < MinWeekNumber || k.Week > MaxWeekNumber {
		return fmt.Errorf("%w: week %d not in %d..%d", ErrInvalidWeekKey, k.Week, MinWeekNumber, MaxWeekNumber)
	}
	if k.Year < r.minYear || k.Year > r.maxYear {
		return fmt.Errorf("%w: year %d not in %d..%d", ErrInvalidWeekKey, k.Year, r.minYear, r.maxYear)
	}
	return nil
}

// ResolveWeek assigns t to the week whose rollover interval
// [Friday 21:30, next Friday 21:30) contains it. Instants before a year's
// first anchor belong to the previous year; instants past the 52nd rollover
// stay in the old year as week 52 until the new year's first anchor.
func (r *WeekResolver) ResolveWeek(t time.Time) (WeekKey, error) {
	if t.IsZero() {
		return WeekKey{}, fmt.Errorf("%w: zero timestamp", ErrInvalidInstant)
	}

	local := t.In(r.loc)
	year := local.Year()
	if year < r.minYear || year > r.maxYear {
		return WeekKey{}, fmt.Errorf("%w: year %d not in %d..%d", ErrInvalidInstant, year, r.minYear, r.maxYear)
	}

	anchor := r.firstAnchor(year)
	if local.Before(anchor) {
		year--
		if year < r.minYear {
			return WeekKey{}, fmt.Errorf("%w: instant precedes week 1 of %d", ErrInvalidInstant, r.minYear)
		}
		anchor = r.firstAnchor(year)
	}

	week := int(local.Sub(anchor)/(7*24*time.Hour)) + 1
	if week > 52 {
		week = 52
	}

	return WeekKey{Week: week, Year: year}, nil
}

// AnchorFridayStart returns the exact Friday 21:30 instant beginning the
// given week. Both window functions derive from it; nothing else recomputes
// the anchor.
func (r *WeekResolver) AnchorFridayStart(k WeekKey) (time.Time, error) {
	if err := r.validateKey(k); err != nil {
		return time.Time{}, err
	}
	return r.firstAnchor(k.Year).AddDate(0, 0, 7*(k.Week-1)), nil
}

// FridayWindow is the range Info records of a week are summed over:
// [Friday 21:30, next Friday 23:45], end inclusive. The tail past 21:30
// deliberately overlaps the next rollover to accommodate late-evening entry.
func (r *WeekResolver) FridayWindow(k WeekKey) (WindowSpec, error) {
	anchor, err := r.AnchorFridayStart(k)
	if err != nil {
		return WindowSpec{}, err
	}

	endDay := anchor.AddDate(0, 0, 7)
	end := time.Date(endDay.Year(), endDay.Month(), endDay.Day(), fridayWindowEndHour, fridayWindowEndMinute, 0, 0, r.loc)

	return WindowSpec{Start: anchor, End: end, EndInclusive: true}, nil
}

// MondayWindow is the range Plan records of a week are summed over:
// [Monday 00:00, Sunday 23:59:59] of the calendar week containing the Friday
// anchor. It re-projects the Friday-anchored week number onto Monday/Sunday
// boundaries rather than counting Monday weeks independently, so one WeekKey
// addresses targets for both activity kinds.
func (r *WeekResolver) MondayWindow(k WeekKey) (WindowSpec, error) {
	anchor, err := r.AnchorFridayStart(k)
	if err != nil {
		return WindowSpec{}, err
	}

	// Friday follows Monday by 4 days within the same calendar week.
	monday := anchor.AddDate(0, 0, -4)
	start := time.Date(monday.Year(), monday.Month(), monday.Day(), 0, 0, 0, 0, r.loc)

	endDay := start.AddDate(0, 0, 6)
	end := time.Date(endDay.Year(), endDay.Month(), endDay.Day(), 23, 59, 59, 0, r.loc)

	return WindowSpec{Start: start, End: end, EndInclusive: true}, nil
}
