package billingperiod

import (
	"testing"
	"time"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestComputeBeforeCutoff(t *testing.T) {
	p := Compute(date(2025, time.March, 10))

	if !p.BeforeCutoff {
		t.Fatal("expected before-cutoff regime on the 10th")
	}
	if !p.ActiveStart.Equal(date(2025, time.February, 1)) {
		t.Fatalf("active start = %v, want 2025-02-01", p.ActiveStart)
	}
	if !p.ActiveEnd.Equal(date(2025, time.February, 28)) {
		t.Fatalf("active end = %v, want 2025-02-28", p.ActiveEnd)
	}
	if !p.FutureStart.Equal(date(2025, time.March, 1)) {
		t.Fatalf("future start = %v, want 2025-03-01", p.FutureStart)
	}
	if !p.CloseBoundary().Equal(date(2025, time.January, 31)) {
		t.Fatalf("close boundary = %v, want 2025-01-31", p.CloseBoundary())
	}
}

func TestComputeAfterCutoff(t *testing.T) {
	p := Compute(date(2025, time.March, 20))

	if p.BeforeCutoff {
		t.Fatal("expected after-cutoff regime on the 20th")
	}
	if !p.ActiveStart.Equal(date(2025, time.March, 1)) {
		t.Fatalf("active start = %v, want 2025-03-01", p.ActiveStart)
	}
	if !p.ActiveEnd.Equal(date(2025, time.March, 31)) {
		t.Fatalf("active end = %v, want 2025-03-31", p.ActiveEnd)
	}
	if !p.FutureStart.Equal(date(2025, time.April, 1)) {
		t.Fatalf("future start = %v, want 2025-04-01", p.FutureStart)
	}
	if !p.CloseBoundary().Equal(date(2025, time.February, 28)) {
		t.Fatalf("close boundary = %v, want 2025-02-28", p.CloseBoundary())
	}
}

func TestComputeCutoffDayCountsAsBefore(t *testing.T) {
	p := Compute(date(2025, time.March, 15))
	if !p.BeforeCutoff {
		t.Fatal("the 15th itself still belongs to the before-cutoff regime")
	}

	next := Compute(date(2025, time.March, 16))
	if next.BeforeCutoff {
		t.Fatal("the 16th must switch to the after-cutoff regime")
	}
}

func TestComputeJanuaryRollsIntoPreviousYear(t *testing.T) {
	p := Compute(date(2025, time.January, 10))

	if !p.ActiveStart.Equal(date(2024, time.December, 1)) {
		t.Fatalf("active start = %v, want 2024-12-01", p.ActiveStart)
	}
	if !p.ActiveEnd.Equal(date(2024, time.December, 31)) {
		t.Fatalf("active end = %v, want 2024-12-31", p.ActiveEnd)
	}
	if !p.CloseBoundary().Equal(date(2024, time.November, 30)) {
		t.Fatalf("close boundary = %v, want 2024-11-30", p.CloseBoundary())
	}
}

func TestComputeDecemberRollsIntoNextYear(t *testing.T) {
	p := Compute(date(2025, time.December, 20))

	if !p.FutureStart.Equal(date(2026, time.January, 1)) {
		t.Fatalf("future start = %v, want 2026-01-01", p.FutureStart)
	}
}

func TestComputeLeapFebruary(t *testing.T) {
	p := Compute(date(2024, time.March, 10))

	if !p.ActiveEnd.Equal(date(2024, time.February, 29)) {
		t.Fatalf("active end = %v, want leap day 2024-02-29", p.ActiveEnd)
	}
}

func TestComputeIgnoresTimeOfDay(t *testing.T) {
	late := time.Date(2025, time.March, 10, 23, 59, 59, 0, time.UTC)
	p := Compute(late)

	if !p.Today.Equal(date(2025, time.March, 10)) {
		t.Fatalf("today = %v, want midnight truncation", p.Today)
	}
}

func TestAllowedStartDatesBeforeCutoff(t *testing.T) {
	dates := AllowedStartDates(date(2025, time.March, 10))

	if len(dates) != 14 {
		t.Fatalf("got %d allowed dates, want 14", len(dates))
	}
	if !dates[0].Equal(date(2025, time.February, 1)) {
		t.Fatalf("first allowed = %v, want previous month 2025-02-01", dates[0])
	}
	if !dates[len(dates)-1].Equal(date(2026, time.March, 1)) {
		t.Fatalf("last allowed = %v, want 2026-03-01", dates[len(dates)-1])
	}
}

func TestAllowedStartDatesAfterCutoff(t *testing.T) {
	dates := AllowedStartDates(date(2025, time.March, 20))

	if len(dates) != 13 {
		t.Fatalf("got %d allowed dates, want 13", len(dates))
	}
	if !dates[0].Equal(date(2025, time.March, 1)) {
		t.Fatalf("first allowed = %v, want current month 2025-03-01", dates[0])
	}
	for _, d := range dates {
		if d.Day() != 1 {
			t.Fatalf("allowed date %v is not a first of month", d)
		}
	}
}

func TestValidateStartDate(t *testing.T) {
	if !ValidateStartDate(date(2025, time.June, 1)) {
		t.Fatal("first of month must validate")
	}
	if ValidateStartDate(date(2025, time.June, 2)) {
		t.Fatal("mid-month day must not validate")
	}
}

func TestValidateEndDate(t *testing.T) {
	cases := []struct {
		d  time.Time
		ok bool
	}{
		{date(2025, time.June, 30), true},
		{date(2025, time.February, 28), true},
		{date(2024, time.February, 29), true},
		{date(2024, time.February, 28), false},
		{date(2025, time.June, 1), false},
	}
	for _, c := range cases {
		if got := ValidateEndDate(c.d); got != c.ok {
			t.Fatalf("ValidateEndDate(%v) = %t, want %t", c.d, got, c.ok)
		}
	}
}

func TestUntilEndOfDay(t *testing.T) {
	now := time.Date(2025, time.March, 10, 22, 0, 0, 0, time.UTC)
	if got := UntilEndOfDay(now); got != 2*time.Hour {
		t.Fatalf("got %v, want 2h", got)
	}
}

func TestDateExamples(t *testing.T) {
	examples := DateExamples(date(2025, time.March, 20))
	want := []string{"2025-03-01", "2025-04-01", "2025-05-01"}
	if len(examples) != len(want) {
		t.Fatalf("got %d examples, want %d", len(examples), len(want))
	}
	for i := range want {
		if examples[i] != want[i] {
			t.Fatalf("example[%d] = %s, want %s", i, examples[i], want[i])
		}
	}
}
