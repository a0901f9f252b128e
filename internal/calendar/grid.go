package calendar

import (
	"time"

	"yearcal/internal/model"
)

// MonthGridDays returns the cells of a Monday-first month grid: trailing days
// of the previous month, every day of the month, and leading days of the next
// month. The length is always a multiple of 7.
func MonthGridDays(year int, month time.Month, today time.Time) []model.CalendarDay {
	todayKey := FormatDateKey(today)
	first := localDate(year, month, 1)
	lead := DayOfWeekMonday(first)
	count := DaysInMonth(year, month)

	days := make([]model.CalendarDay, 0, 42)

	for i := lead; i > 0; i-- {
		days = append(days, newDay(addDays(first, -i), false, todayKey))
	}
	for d := 1; d <= count; d++ {
		days = append(days, newDay(localDate(year, month, d), true, todayKey))
	}

	if rem := len(days) % DaysPerWeek; rem != 0 {
		next := localDate(year, month+1, 1)
		for i := 0; i < DaysPerWeek-rem; i++ {
			days = append(days, newDay(addDays(next, i), false, todayKey))
		}
	}

	return days
}

// GroupIntoWeeks chunks days into rows of 7. A short final chunk is kept as is.
func GroupIntoWeeks(days []model.CalendarDay) [][]model.CalendarDay {
	weeks := make([][]model.CalendarDay, 0, (len(days)+DaysPerWeek-1)/DaysPerWeek)
	for i := 0; i < len(days); i += DaysPerWeek {
		end := i + DaysPerWeek
		if end > len(days) {
			end = len(days)
		}
		weeks = append(weeks, days[i:end])
	}
	return weeks
}

// YearDays returns Jan 1 through Dec 31 of year. Every day counts as part of
// the "current month" since the linear view has no ghost days.
func YearDays(year int, today time.Time) []model.CalendarDay {
	todayKey := FormatDateKey(today)
	start := localDate(year, time.January, 1)
	end := localDate(year+1, time.January, 1)

	days := make([]model.CalendarDay, 0, 366)
	for d := start; d.Before(end); d = addDays(d, 1) {
		days = append(days, newDay(d, true, todayKey))
	}
	return days
}

func newDay(date time.Time, currentMonth bool, todayKey string) model.CalendarDay {
	key := FormatDateKey(date)
	return model.CalendarDay{
		Date:           date,
		DateString:     key,
		DayOfMonth:     date.Day(),
		Month:          date.Month(),
		IsCurrentMonth: currentMonth,
		IsToday:        key == todayKey,
		IsFirstOfMonth: date.Day() == 1,
	}
}
