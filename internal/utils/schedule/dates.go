// Package schedule holds the pure date arithmetic behind recurrence scheduling.
// Everything here is deterministic: the same inputs always produce the same dates,
// which keeps generation retries idempotent.
package schedule

import (
	"time"

	"github.com/finman-app/finman_backend/internal/core/domain"
)

// Day truncates t to a civil date at midnight UTC.
func Day(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// DateWithDayOrLast returns the date at year/month with the requested day, clamped
// to the month's last day when the month is shorter (e.g. day 31 in April -> Apr 30).
func DateWithDayOrLast(year int, month time.Month, day int) time.Time {
	last := lastDayOfMonth(year, month)
	if day > last {
		day = last
	}
	if day < 1 {
		day = 1
	}
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// NextMonthlyDate returns the dayOfMonth date in the calendar month following from,
// with end-of-month clamping.
func NextMonthlyDate(from time.Time, dayOfMonth int) time.Time {
	year, month := from.Year(), from.Month()
	if month == time.December {
		year, month = year+1, time.January
	} else {
		month++
	}
	return DateWithDayOrLast(year, month, dayOfMonth)
}

// AddMonthsClamped advances a date by n calendar months, keeping dayOfMonth where the
// target month allows it and clamping to the month end otherwise. Unlike
// time.AddDate, Jan 31 + 1 month yields Feb 28/29, never Mar 2/3.
func AddMonthsClamped(from time.Time, n int, dayOfMonth int) time.Time {
	months := int(from.Month()) - 1 + n
	year := from.Year() + months/12
	month := time.Month(months%12 + 1)
	return DateWithDayOrLast(year, month, dayOfMonth)
}

// FirstRunDate computes the initial NextRunDate for a recurrence created with the
// given start date. If dayOfMonth has already passed within the start month, the
// first run moves to the following month; it is never before startDate.
func FirstRunDate(startDate time.Time, dayOfMonth int) time.Time {
	start := Day(startDate)
	candidate := DateWithDayOrLast(start.Year(), start.Month(), dayOfMonth)
	if candidate.Before(start) {
		candidate = NextMonthlyDate(start, dayOfMonth)
	}
	return candidate
}

// IsDue reports whether the recurrence should run as of asOf: it must be active,
// asOf must have reached NextRunDate, and asOf must still fall inside the
// recurrence's [StartDate, EndDate] window. Start and end dates are civil dates,
// truncated at the service boundary.
func IsDue(r *domain.Recurrence, asOf time.Time) bool {
	if !r.Active {
		return false
	}
	day := Day(asOf)
	if day.Before(Day(r.NextRunDate)) {
		return false
	}
	return r.WithinDateRange(day)
}

// NextRunAfter advances the recurrence's schedule past from: the same dayOfMonth in
// the following calendar month, clamped to that month's length.
func NextRunAfter(r *domain.Recurrence, from time.Time) time.Time {
	return NextMonthlyDate(Day(from), r.DayOfMonth)
}

func lastDayOfMonth(year int, month time.Month) int {
	// Day 0 of the next month is the last day of this one.
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
