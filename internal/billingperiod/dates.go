package billingperiod

import "time"

// DateLayout is the wire format for billing dates.
const DateLayout = "2006-01-02"

// startDateHorizonMonths bounds how far ahead a tariff may be scheduled.
const startDateHorizonMonths = 12

// AllowedStartDates lists the first-of-month days a new tariff may start on.
// Before the cutoff the just-closed previous month is still allowed, which
// lets operators catch up pricing for the period being billed.
func AllowedStartDates(today time.Time) []time.Time {
	day := DayOf(today)
	year, month := day.Year(), day.Month()

	first := firstOfMonth(year, month, day.Location())
	if day.Day() <= CutoffDay {
		py, pm := prevMonth(year, month)
		first = firstOfMonth(py, pm, day.Location())
	}

	last := firstOfMonth(year, month, day.Location()).AddDate(0, startDateHorizonMonths, 0)

	var dates []time.Time
	for d := first; !d.After(last); d = d.AddDate(0, 1, 0) {
		dates = append(dates, d)
	}
	return dates
}

// ValidateStartDate reports whether d is the first calendar day of a month.
func ValidateStartDate(d time.Time) bool {
	return d.Day() == 1
}

// ValidateEndDate reports whether d is the last calendar day of a month.
func ValidateEndDate(d time.Time) bool {
	return DayOf(d).AddDate(0, 0, 1).Day() == 1
}

// DateExamples formats the nearest allowed start dates for user-facing
// validation messages.
func DateExamples(today time.Time) []string {
	allowed := AllowedStartDates(today)
	if len(allowed) > 3 {
		allowed = allowed[:3]
	}
	examples := make([]string, 0, len(allowed))
	for _, d := range allowed {
		examples = append(examples, d.Format(DateLayout))
	}
	return examples
}
