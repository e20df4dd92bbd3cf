package utils

import (
	"time"

	"github.com/shopspring/decimal"
)

// DaysBetween counts whole days from start to end, both ends inclusive.
// Times of day are ignored.
func DaysBetween(start, end time.Time) int {
	s := truncateToDay(start)
	e := truncateToDay(end)
	return int(e.Sub(s).Hours()/24) + 1
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// MonthWindow returns the first and last day of (month, year).
func MonthWindow(month int, year int) (time.Time, time.Time) {
	first := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	last := first.AddDate(0, 1, -1)
	return first, last
}

// DaysInMonth returns the real calendar length of (month, year).
func DaysInMonth(month int, year int) int {
	first, last := MonthWindow(month, year)
	return DaysBetween(first, last)
}

// OverlapDays counts the inclusive days that [aStart, aEnd] and
// [bStart, bEnd] share, or 0 when they do not overlap.
func OverlapDays(aStart, aEnd, bStart, bEnd time.Time) int {
	start := aStart
	if bStart.After(start) {
		start = bStart
	}
	end := aEnd
	if bEnd.Before(end) {
		end = bEnd
	}
	if truncateToDay(end).Before(truncateToDay(start)) {
		return 0
	}
	return DaysBetween(start, end)
}

// ProratedMonthly scales a monthly base amount to activeDays out of the
// real calendar month length.
func ProratedMonthly(baseMonthly decimal.Decimal, activeDays int, month int, year int) decimal.Decimal {
	daysInMonth := DaysInMonth(month, year)
	if activeDays >= daysInMonth {
		return Round2(baseMonthly)
	}
	return baseMonthly.Mul(decimal.NewFromInt(int64(activeDays))).DivRound(decimal.NewFromInt(int64(daysInMonth)), 2)
}
