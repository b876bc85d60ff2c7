package event

import (
	"time"

	"github.com/pkg/errors"
)

// ErrTooManyOccurrences rejects rules whose expansion exceeds the configured cap.
var ErrTooManyOccurrences = errors.New("la ricorrenza genera troppe occorrenze")

// Occurrence is one (start, end) pair of an expanded recurring event.
type Occurrence struct {
	Start time.Time
	End   time.Time
}

// ExpandRecurrence produces the ordered occurrence sequence of a recurring
// event: the given start/end first, then both advanced per the rule while the
// advancing start stays on or before `until` (inclusive). A zero `until`
// defaults to the start date, yielding exactly one occurrence.
//
// max bounds the sequence length (<=0 means unbounded); rules expanding past
// it are rejected outright rather than truncated.
func ExpandRecurrence(start, end time.Time, rule RecurrenceRule, until time.Time, max int) ([]Occurrence, error) {
	if until.IsZero() {
		until = start
	}

	occurrences := []Occurrence{{Start: start, End: end}}
	s, e := advance(start, rule), advance(end, rule)
	for !s.After(until) {
		if max > 0 && len(occurrences) >= max {
			return nil, ErrTooManyOccurrences
		}
		occurrences = append(occurrences, Occurrence{Start: s, End: e})
		s, e = advance(s, rule), advance(e, rule)
	}
	return occurrences, nil
}

// advance steps a date by one recurrence period: 1 day for daily rules,
// 7×interval days for weekly, interval months for monthly.
func advance(t time.Time, rule RecurrenceRule) time.Time {
	switch rule.Frequency {
	case FreqWeekly:
		return t.AddDate(0, 0, 7*rule.Interval)
	case FreqMonthly:
		return t.AddDate(0, rule.Interval, 0)
	default: // daily
		return t.AddDate(0, 0, 1)
	}
}
