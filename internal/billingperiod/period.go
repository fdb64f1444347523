// Package billingperiod turns a calendar day into the billing period
// descriptor that drives tariff status classification and editing rules.
//
// The month being billed switches on the cutoff day: up to and including the
// 15th the previous month is still open for editing, afterwards the current
// month is. All arithmetic is at day granularity in the clock's fixed zone.
package billingperiod

import "time"

// CutoffDay splits each month into two editing regimes.
const CutoffDay = 15

// Descriptor describes the billing window derived from "today".
// It is computed fresh on every call and never persisted.
type Descriptor struct {
	Today        time.Time
	BeforeCutoff bool

	// ActiveStart/ActiveEnd bound the month currently being billed.
	ActiveStart time.Time
	ActiveEnd   time.Time

	// FutureStart is the first day of the month after the active month,
	// always exactly ActiveEnd plus one day.
	FutureStart time.Time

	// PreviousMonthEnd and TwoMonthsAgoEnd are the candidate boundaries for
	// retroactively closing a tariff that nothing ever closed.
	PreviousMonthEnd time.Time
	TwoMonthsAgoEnd  time.Time
}

// Compute derives the period descriptor for the given day.
func Compute(today time.Time) Descriptor {
	day := DayOf(today)
	before := day.Day() <= CutoffDay

	year, month := day.Year(), day.Month()

	var activeYear int
	var activeMonth time.Month
	var futureStart time.Time
	if before {
		activeYear, activeMonth = prevMonth(year, month)
		futureStart = firstOfMonth(year, month, day.Location())
	} else {
		activeYear, activeMonth = year, month
		ny, nm := nextMonth(year, month)
		futureStart = firstOfMonth(ny, nm, day.Location())
	}

	py, pm := prevMonth(year, month)
	ppy, ppm := prevMonth(py, pm)

	return Descriptor{
		Today:            day,
		BeforeCutoff:     before,
		ActiveStart:      firstOfMonth(activeYear, activeMonth, day.Location()),
		ActiveEnd:        lastOfMonth(activeYear, activeMonth, day.Location()),
		FutureStart:      futureStart,
		PreviousMonthEnd: lastOfMonth(py, pm, day.Location()),
		TwoMonthsAgoEnd:  lastOfMonth(ppy, ppm, day.Location()),
	}
}

// CloseBoundary returns the day at which an unclosed tariff is retroactively
// ended when a newer tariff takes over the active period.
func (d Descriptor) CloseBoundary() time.Time {
	if d.BeforeCutoff {
		return d.TwoMonthsAgoEnd
	}
	return d.PreviousMonthEnd
}

// DayOf truncates a timestamp to midnight of its own day and location.
func DayOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// SameDay reports whether two timestamps fall on the same calendar day.
func SameDay(a, b time.Time) bool {
	return DayOf(a).Equal(DayOf(b))
}

// UntilEndOfDay returns the duration from now until the next local midnight.
// Status cache entries expire then, because classification depends on "today".
func UntilEndOfDay(now time.Time) time.Duration {
	next := DayOf(now).AddDate(0, 0, 1)
	return next.Sub(now)
}

func firstOfMonth(year int, month time.Month, loc *time.Location) time.Time {
	return time.Date(year, month, 1, 0, 0, 0, 0, loc)
}

func lastOfMonth(year int, month time.Month, loc *time.Location) time.Time {
	// Day zero of the next month normalizes to the last day of this one.
	return time.Date(year, month+1, 0, 0, 0, 0, 0, loc)
}

func prevMonth(year int, month time.Month) (int, time.Month) {
	if month == time.January {
		return year - 1, time.December
	}
	return year, month - 1
}

func nextMonth(year int, month time.Month) (int, time.Month) {
	if month == time.December {
		return year + 1, time.January
	}
	return year, month + 1
}
