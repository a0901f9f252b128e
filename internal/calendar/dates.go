// Package calendar holds the date arithmetic and layout algorithms behind the
// month-grouped and linear year views. Every function here is pure: the
// result depends only on the arguments, including the caller's notion of
// "today".
package calendar

import (
	"fmt"
	"time"
)

const (
	// DaysPerWeek is the width of a month-view week.
	DaysPerWeek = 7

	dateKeyLayout = "2006-01-02"
)

var (
	monthNames   = [...]string{"Jan", "Feb", "Mar", "Apr", "May", "Jun", "Jul", "Aug", "Sep", "Oct", "Nov", "Dec"}
	weekDayNames = [...]string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"}
)

// DayOfWeekMonday maps Go's Sunday-first weekday to a Monday-first index
// (Monday = 0, Sunday = 6).
func DayOfWeekMonday(t time.Time) int {
	wd := int(t.Weekday())
	if wd == 0 {
		return 6
	}
	return wd - 1
}

// FormatDateKey renders the civil date of t in its own location as YYYY-MM-DD.
// The time is never converted to UTC first, so a late-evening local time keeps
// its local date.
func FormatDateKey(t time.Time) string {
	y, m, d := t.Date()
	return fmt.Sprintf("%04d-%02d-%02d", y, int(m), d)
}

// ParseDateKey parses YYYY-MM-DD as local midnight.
func ParseDateKey(key string) (time.Time, error) {
	t, err := time.ParseInLocation(dateKeyLayout, key, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("calendar: invalid date key %q: %w", key, err)
	}
	return t, nil
}

// AddDaysKey shifts a date key by n calendar days.
func AddDaysKey(key string, n int) (string, error) {
	t, err := ParseDateKey(key)
	if err != nil {
		return "", err
	}
	return FormatDateKey(addDays(t, n)), nil
}

// DaysBetween returns the number of calendar days from a to b. It works on
// civil dates, so a DST transition between the two never shortens a day.
func DaysBetween(a, b time.Time) int {
	return int((civilDay(b) - civilDay(a)) / 86400)
}

// DaysInMonth returns the length of month in year.
func DaysInMonth(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// MonthName returns the short English month name ("Jan".."Dec").
func MonthName(month time.Month) string {
	if month < time.January || month > time.December {
		return ""
	}
	return monthNames[month-1]
}

// WeekDayNames returns short day names starting from Monday.
func WeekDayNames() []string {
	out := make([]string, len(weekDayNames))
	copy(out, weekDayNames[:])
	return out
}

func addDays(t time.Time, n int) time.Time {
	return t.AddDate(0, 0, n)
}

func civilDay(t time.Time) int64 {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC).Unix()
}

func localDate(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.Local)
}
