// Package cycle resolves the user's accounting cycle: the concrete
// [start, end] date interval that contains a reference date under the
// configured cycle policy. Resolution is a pure function of the policy
// and the reference date; cycles are derived fresh on every call and
// never persisted.
package cycle

import (
	"time"

	"fintrack/internal/models"

	apperrors "fintrack/internal/errors"
)

// Cycle is one accounting period. Start is at 00:00:00.000 and End at
// 23:59:59.999 of the last included day, in the reference date's location.
type Cycle struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Key returns the stable identifier for this cycle, used to key budgets.
func (c Cycle) Key() string {
	return c.Start.Format("2006-01-02")
}

// Contains reports whether t falls within the cycle, boundaries included.
func (c Cycle) Contains(t time.Time) bool {
	return !t.Before(c.Start) && !t.After(c.End)
}

// Resolve computes the cycle containing ref under the given settings.
//
// Weekly cycles start on the most recent date at or before ref whose
// weekday equals StartDay and span exactly seven days. Monthly cycles are
// delimited by per-month anchors: day StartDay for the fixed start type,
// or the first/last occurrence of weekday StartDay for the weekday-relative
// types. A reference date equal to the anchor belongs to the cycle starting
// at that anchor.
//
// StartDay validity (1-28 for fixed monthly, 0-6 for the weekday modes) is
// the caller's contract; the settings service rejects invalid combinations
// before they are ever persisted. The only failure detected here is a
// monthly frequency without a start type.
func Resolve(ref time.Time, settings models.CycleSettings) (Cycle, error) {
	today := startOfDay(ref)

	if settings.Frequency == models.CycleFrequencyWeekly {
		diff := int(today.Weekday()) - settings.StartDay
		if diff < 0 {
			diff += 7
		}
		start := today.AddDate(0, 0, -diff)
		return Cycle{Start: start, End: endOfDay(start.AddDate(0, 0, 6))}, nil
	}

	if settings.MonthlyStartType == "" {
		return Cycle{}, apperrors.ErrInvalidCyclePolicy
	}

	anchor := monthlyAnchor(today.Year(), today.Month(), settings, today.Location())

	if !today.Before(anchor) {
		next := time.Date(today.Year(), today.Month()+1, 1, 0, 0, 0, 0, today.Location())
		nextAnchor := monthlyAnchor(next.Year(), next.Month(), settings, today.Location())
		return Cycle{Start: anchor, End: nextAnchor.Add(-time.Millisecond)}, nil
	}

	prev := time.Date(today.Year(), today.Month()-1, 1, 0, 0, 0, 0, today.Location())
	prevAnchor := monthlyAnchor(prev.Year(), prev.Month(), settings, today.Location())
	return Cycle{Start: prevAnchor, End: anchor.Add(-time.Millisecond)}, nil
}

// monthlyAnchor returns the cycle anchor for the given month at midnight.
func monthlyAnchor(year int, month time.Month, settings models.CycleSettings, loc *time.Location) time.Time {
	switch settings.MonthlyStartType {
	case models.MonthlyStartFirstWeekday:
		first := time.Date(year, month, 1, 0, 0, 0, 0, loc)
		offset := settings.StartDay - int(first.Weekday())
		if offset < 0 {
			offset += 7
		}
		return first.AddDate(0, 0, offset)

	case models.MonthlyStartLastWeekday:
		last := time.Date(year, month+1, 0, 0, 0, 0, 0, loc)
		diff := int(last.Weekday()) - settings.StartDay
		if diff < 0 {
			diff += 7
		}
		return last.AddDate(0, 0, -diff)

	default: // fixed day-of-month
		return time.Date(year, month, settings.StartDay, 0, 0, 0, 0, loc)
	}
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func endOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, 999000000, t.Location())
}
