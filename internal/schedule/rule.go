package schedule

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Schedule types for a recurrence rule.
const (
	TypeDaily  = "daily"
	TypeWeekly = "weekly"
	TypeCustom = "custom"
)

var (
	// ErrInvalidRule is returned when a rule fails validation at create/edit time.
	ErrInvalidRule = errors.New("invalid schedule rule")

	// ErrMalformedRule is returned when a previously stored rule cannot be
	// parsed. Reconciliation skips the rule instead of failing the whole day.
	ErrMalformedRule = errors.New("malformed stored rule")
)

// Rule is one validated recurrence definition for a tracked item:
// which times of day an event is expected, on which weekdays, and
// within which date range.
type Rule struct {
	ID           uuid.UUID
	ScheduleType string     // daily, weekly or custom
	Times        []string   // "HH:MM" clock times, stored order preserved
	DaysOfWeek   []int      // 0=Sunday..6=Saturday; empty means every day
	StartDate    *time.Time // inclusive, nil = unbounded
	EndDate      *time.Time // inclusive, nil = unbounded
	IsActive     bool
}

// Validate checks the rule's shape. It returns an error wrapping
// ErrInvalidRule describing the first problem found.
func (r Rule) Validate() error {
	switch r.ScheduleType {
	case TypeDaily, TypeWeekly, TypeCustom:
	default:
		return fmt.Errorf("%w: unknown schedule type %q", ErrInvalidRule, r.ScheduleType)
	}

	if len(r.Times) == 0 {
		return fmt.Errorf("%w: times must not be empty", ErrInvalidRule)
	}
	for _, t := range r.Times {
		if _, _, err := parseClock(t); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidRule, err)
		}
	}

	if r.ScheduleType == TypeWeekly || r.ScheduleType == TypeCustom {
		if len(r.DaysOfWeek) == 0 {
			return fmt.Errorf("%w: %s schedules require days_of_week", ErrInvalidRule, r.ScheduleType)
		}
	}
	for _, d := range r.DaysOfWeek {
		if d < 0 || d > 6 {
			return fmt.Errorf("%w: day_of_week %d out of range 0-6", ErrInvalidRule, d)
		}
	}

	if r.StartDate != nil && r.EndDate != nil && r.EndDate.Before(*r.StartDate) {
		return fmt.Errorf("%w: end_date precedes start_date", ErrInvalidRule)
	}

	return nil
}

// StoredRule is a rule as it comes out of the database: times and weekdays
// still serialized as JSON array text. Parse is the single place stored
// encodings are decoded, so handlers and the reconciler never re-parse raw
// text themselves.
type StoredRule struct {
	ID           uuid.UUID
	ScheduleType string
	TimesJSON    string
	DaysJSON     string // empty string means every day
	StartDate    *time.Time
	EndDate      *time.Time
	IsActive     bool
}

// Parse decodes the stored encodings and validates the result. Any failure
// is reported as ErrMalformedRule: the stored row is corrupt and the caller
// should skip it rather than abort.
func (s StoredRule) Parse() (Rule, error) {
	times, err := ParseTimes(s.TimesJSON)
	if err != nil {
		return Rule{}, err
	}

	var days []int
	if s.DaysJSON != "" {
		days, err = ParseDays(s.DaysJSON)
		if err != nil {
			return Rule{}, err
		}
	}

	rule := Rule{
		ID:           s.ID,
		ScheduleType: s.ScheduleType,
		Times:        times,
		DaysOfWeek:   days,
		StartDate:    s.StartDate,
		EndDate:      s.EndDate,
		IsActive:     s.IsActive,
	}

	if err := rule.Validate(); err != nil {
		return Rule{}, fmt.Errorf("%w: %v", ErrMalformedRule, err)
	}

	return rule, nil
}

// ParseTimes decodes a stored JSON array of "HH:MM" strings, preserving order.
func ParseTimes(raw string) ([]string, error) {
	var times []string
	if err := json.Unmarshal([]byte(raw), &times); err != nil {
		return nil, fmt.Errorf("%w: times: %v", ErrMalformedRule, err)
	}
	return times, nil
}

// EncodeTimes serializes times back to the stored JSON encoding.
// ParseTimes(EncodeTimes(x)) round-trips the exact sequence.
func EncodeTimes(times []string) (string, error) {
	b, err := json.Marshal(times)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// ParseDays decodes a stored JSON array of weekday indices.
func ParseDays(raw string) ([]int, error) {
	var days []int
	if err := json.Unmarshal([]byte(raw), &days); err != nil {
		return nil, fmt.Errorf("%w: days_of_week: %v", ErrMalformedRule, err)
	}
	return days, nil
}

// EncodeDays serializes weekday indices back to the stored JSON encoding.
func EncodeDays(days []int) (string, error) {
	b, err := json.Marshal(days)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// parseClock parses a strict 24-hour "HH:MM" string.
func parseClock(s string) (hour, minute int, err error) {
	if len(s) != 5 || s[2] != ':' {
		return 0, 0, fmt.Errorf("clock time %q is not HH:MM", s)
	}
	for _, i := range []int{0, 1, 3, 4} {
		if s[i] < '0' || s[i] > '9' {
			return 0, 0, fmt.Errorf("clock time %q is not HH:MM", s)
		}
	}
	hour = int(s[0]-'0')*10 + int(s[1]-'0')
	minute = int(s[3]-'0')*10 + int(s[4]-'0')
	if hour > 23 {
		return 0, 0, fmt.Errorf("clock time %q: hour out of range", s)
	}
	if minute > 59 {
		return 0, 0, fmt.Errorf("clock time %q: minute out of range", s)
	}
	return hour, minute, nil
}
