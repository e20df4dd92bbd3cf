package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestDaysBetweenInclusive(t *testing.T) {
	assert.Equal(t, 1, DaysBetween(day(2025, time.March, 10), day(2025, time.March, 10)))
	assert.Equal(t, 31, DaysBetween(day(2025, time.March, 1), day(2025, time.March, 31)))
	// Times of day do not change the count.
	assert.Equal(t, 2, DaysBetween(
		time.Date(2025, time.March, 10, 23, 59, 0, 0, time.UTC),
		time.Date(2025, time.March, 11, 0, 1, 0, 0, time.UTC)))
}

func TestDaysInMonth(t *testing.T) {
	assert.Equal(t, 28, DaysInMonth(2, 2025))
	assert.Equal(t, 29, DaysInMonth(2, 2024))
	assert.Equal(t, 30, DaysInMonth(4, 2025))
	assert.Equal(t, 31, DaysInMonth(12, 2025))
}

func TestOverlapDays(t *testing.T) {
	mStart, mEnd := MonthWindow(2, 2025)

	// Fully inside the month.
	assert.Equal(t, 28, OverlapDays(day(2025, time.January, 1), day(2025, time.December, 31), mStart, mEnd))
	// Starts mid-month.
	assert.Equal(t, 15, OverlapDays(day(2025, time.February, 14), day(2025, time.December, 31), mStart, mEnd))
	// Ends mid-month.
	assert.Equal(t, 10, OverlapDays(day(2024, time.June, 1), day(2025, time.February, 10), mStart, mEnd))
	// No overlap at all.
	assert.Equal(t, 0, OverlapDays(day(2025, time.March, 1), day(2025, time.March, 31), mStart, mEnd))
}

func TestProratedMonthly(t *testing.T) {
	// 15 of February's 28 days: 3000 * 15 / 28 = 1607.142..., rounds to .14.
	got := ProratedMonthly(dec("3000"), 15, 2, 2025)
	assert.True(t, got.Equal(dec("1607.14")), "got %s", got)

	// Full month bills the base as-is.
	got = ProratedMonthly(dec("3000"), 28, 2, 2025)
	assert.True(t, got.Equal(dec("3000.00")), "got %s", got)

	// More active days than the month has still caps at the base.
	got = ProratedMonthly(dec("3000"), 31, 2, 2025)
	assert.True(t, got.Equal(dec("3000.00")), "got %s", got)

	// Leap February has 29 days.
	got = ProratedMonthly(dec("2900"), 1, 2, 2024)
	assert.True(t, got.Equal(dec("100.00")), "got %s", got)
}
