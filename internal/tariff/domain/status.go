package domain

import (
	"time"

	"github.com/upravdom/upravdom/internal/billingperiod"
)

// Status classifies a tariff relative to the current billing period.
// It is always derived, never stored.
type Status string

const (
	StatusCurrent Status = "current"
	StatusFuture  Status = "future"
	StatusExpired Status = "expired"
	StatusNone    Status = "none"
)

// StatusInfo is the classifier output: the status plus whether the operator
// may edit the tariff's rate, unit or end date.
type StatusInfo struct {
	Status  Status `json:"status"`
	CanEdit bool   `json:"can_edit"`
}

// Classify computes the status of a tariff against a period descriptor.
// Pure function of its inputs.
//
// The boundary comparisons are deliberately asymmetric between the current
// and future branches (>= for a set current end date, > for a set future end
// date). Consumers depend on these exact comparisons; do not "fix" them.
func Classify(t Tariff, p billingperiod.Descriptor) (StatusInfo, error) {
	if t.StartDate.IsZero() {
		return StatusInfo{}, ErrMissingStartDate
	}

	start := dayKey(t.StartDate)
	activeStart := dayKey(p.ActiveStart)
	activeEnd := dayKey(p.ActiveEnd)
	futureStart := dayKey(p.FutureStart)

	var end int
	if !t.Open() {
		end = dayKey(*t.EndDate)
	}

	switch {
	case start <= activeStart && (t.Open() || end >= activeEnd):
		return StatusInfo{Status: StatusCurrent, CanEdit: start == activeStart}, nil
	case start >= futureStart && (t.Open() || end > activeEnd):
		return StatusInfo{Status: StatusFuture, CanEdit: true}, nil
	case !t.Open() && end < activeStart:
		return StatusInfo{Status: StatusExpired, CanEdit: false}, nil
	default:
		return StatusInfo{Status: StatusNone, CanEdit: false}, nil
	}
}

// dayKey collapses a timestamp to a comparable calendar day, ignoring the
// location it was loaded in.
func dayKey(t time.Time) int {
	return t.Year()*10000 + int(t.Month())*100 + t.Day()
}
