package calendar

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMonthGridDaysCompleteness(t *testing.T) {
	today := localDate(2026, time.October, 14)
	for _, year := range []int{2024, 2025, 2026, 2027} {
		for m := time.January; m <= time.December; m++ {
			days := MonthGridDays(year, m, today)
			require.Zero(t, len(days)%7, "%d-%02d", year, m)

			seen := make(map[int]int)
			for _, d := range days {
				if d.IsCurrentMonth {
					assert.Equal(t, m, d.Month)
					seen[d.DayOfMonth]++
				} else {
					assert.NotEqual(t, m, d.Month)
				}
			}
			assert.Len(t, seen, DaysInMonth(year, m))
			for day, n := range seen {
				assert.Equal(t, 1, n, "%d-%02d-%02d", year, m, day)
			}
			assert.Equal(t, 0, DayOfWeekMonday(days[0].Date))
		}
	}
}

func TestMonthGridDaysPadding(t *testing.T) {
	today := localDate(2026, time.January, 1)

	// March 2026 starts on a Sunday: six leading days.
	march := MonthGridDays(2026, time.March, today)
	assert.Len(t, march, 42)
	assert.Equal(t, "2026-02-23", march[0].DateString)
	assert.Equal(t, "2026-03-01", march[6].DateString)
	assert.Equal(t, "2026-04-05", march[41].DateString)

	// June 2026 starts on a Monday: no leading padding.
	june := MonthGridDays(2026, time.June, today)
	assert.Equal(t, "2026-06-01", june[0].DateString)
	assert.True(t, june[0].IsCurrentMonth)
	assert.Len(t, june, 35)
}

func TestMonthGridToday(t *testing.T) {
	today := time.Date(2026, time.March, 10, 18, 30, 0, 0, time.Local)
	var flagged []string
	for _, d := range MonthGridDays(2026, time.March, today) {
		if d.IsToday {
			flagged = append(flagged, d.DateString)
		}
	}
	assert.Equal(t, []string{"2026-03-10"}, flagged)
}

func TestGroupIntoWeeks(t *testing.T) {
	days := MonthGridDays(2026, time.February, localDate(2026, time.January, 1))
	weeks := GroupIntoWeeks(days)
	require.Len(t, weeks, 5)
	for _, w := range weeks {
		assert.Len(t, w, 7)
	}

	short := GroupIntoWeeks(days[:10])
	require.Len(t, short, 2)
	assert.Len(t, short[1], 3)
}

func TestYearDays(t *testing.T) {
	days := YearDays(2024, localDate(2024, time.July, 4))
	require.Len(t, days, 366)
	assert.Equal(t, "2024-01-01", days[0].DateString)
	assert.Equal(t, "2024-12-31", days[365].DateString)

	var firsts, today int
	for _, d := range days {
		assert.True(t, d.IsCurrentMonth)
		if d.IsFirstOfMonth {
			firsts++
		}
		if d.IsToday {
			today++
			assert.Equal(t, "2024-07-04", d.DateString)
		}
	}
	assert.Equal(t, 12, firsts)
	assert.Equal(t, 1, today)

	assert.Len(t, YearDays(2026, time.Time{}), 365)
}
