package schedule

import (
	"fmt"
	"time"
)

// Generate expands a rule into the expected occurrence instants for one
// calendar date. The result is empty when the rule is inactive, the date
// falls outside the rule's bounds, or the weekday is not selected.
// Timestamps are built in the target date's location with no time-zone
// conversion; one timestamp is produced per configured time, in stored
// order, with no deduplication of coinciding times.
func Generate(rule Rule, targetDate time.Time) ([]time.Time, error) {
	if !rule.IsActive {
		return nil, nil
	}

	day := truncateToDay(targetDate)

	if rule.StartDate != nil && day.Before(truncateToDay(*rule.StartDate)) {
		return nil, nil
	}
	if rule.EndDate != nil && day.After(truncateToDay(*rule.EndDate)) {
		return nil, nil
	}

	if len(rule.DaysOfWeek) > 0 {
		weekday := int(day.Weekday())
		if !containsInt(rule.DaysOfWeek, weekday) {
			return nil, nil
		}
	}

	out := make([]time.Time, 0, len(rule.Times))
	for _, clock := range rule.Times {
		hour, minute, err := parseClock(clock)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedRule, err)
		}
		out = append(out, time.Date(day.Year(), day.Month(), day.Day(), hour, minute, 0, 0, day.Location()))
	}

	return out, nil
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func containsInt(list []int, v int) bool {
	for _, x := range list {
		if x == v {
			return true
		}
	}
	return false
}
