package schedule

import (
	"errors"
	"testing"
	"time"
)

func datePtr(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.Local)
	return &t
}

func TestRuleValidate(t *testing.T) {
	t.Parallel()

	valid := Rule{
		ScheduleType: TypeDaily,
		Times:        []string{"08:00", "20:00"},
		IsActive:     true,
	}
	if err := valid.Validate(); err != nil {
		t.Fatalf("expected valid rule, got %v", err)
	}

	cases := []struct {
		name string
		rule Rule
	}{
		{"empty times", Rule{ScheduleType: TypeDaily, Times: nil}},
		{"bad clock format", Rule{ScheduleType: TypeDaily, Times: []string{"8:00"}}},
		{"hour out of range", Rule{ScheduleType: TypeDaily, Times: []string{"24:00"}}},
		{"minute out of range", Rule{ScheduleType: TypeDaily, Times: []string{"08:60"}}},
		{"non-numeric clock", Rule{ScheduleType: TypeDaily, Times: []string{"ab:cd"}}},
		{"weekly without days", Rule{ScheduleType: TypeWeekly, Times: []string{"08:00"}}},
		{"custom without days", Rule{ScheduleType: TypeCustom, Times: []string{"08:00"}}},
		{"day out of range", Rule{ScheduleType: TypeWeekly, Times: []string{"08:00"}, DaysOfWeek: []int{7}}},
		{"unknown type", Rule{ScheduleType: "hourly", Times: []string{"08:00"}}},
		{
			"end before start",
			Rule{
				ScheduleType: TypeDaily,
				Times:        []string{"08:00"},
				StartDate:    datePtr(2024, time.June, 10),
				EndDate:      datePtr(2024, time.June, 1),
			},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.rule.Validate()
			if err == nil {
				t.Fatal("expected validation error, got nil")
			}
			if !errors.Is(err, ErrInvalidRule) {
				t.Errorf("expected ErrInvalidRule, got %v", err)
			}
		})
	}
}

func TestTimesRoundTrip(t *testing.T) {
	t.Parallel()

	raw := `["08:00","20:00"]`
	times, err := ParseTimes(raw)
	if err != nil {
		t.Fatalf("failed to parse times: %v", err)
	}
	if len(times) != 2 || times[0] != "08:00" || times[1] != "20:00" {
		t.Fatalf("unexpected parsed times: %v", times)
	}

	encoded, err := EncodeTimes(times)
	if err != nil {
		t.Fatalf("failed to encode times: %v", err)
	}
	if encoded != raw {
		t.Errorf("round trip changed encoding: want %s, got %s", raw, encoded)
	}
}

func TestDaysRoundTrip(t *testing.T) {
	t.Parallel()

	raw := `[1,3,5]`
	days, err := ParseDays(raw)
	if err != nil {
		t.Fatalf("failed to parse days: %v", err)
	}

	encoded, err := EncodeDays(days)
	if err != nil {
		t.Fatalf("failed to encode days: %v", err)
	}
	if encoded != raw {
		t.Errorf("round trip changed encoding: want %s, got %s", raw, encoded)
	}
}

func TestStoredRuleParse(t *testing.T) {
	t.Parallel()

	t.Run("valid stored rule", func(t *testing.T) {
		stored := StoredRule{
			ScheduleType: TypeWeekly,
			TimesJSON:    `["08:00","20:00"]`,
			DaysJSON:     `[1,3,5]`,
			IsActive:     true,
		}
		rule, err := stored.Parse()
		if err != nil {
			t.Fatalf("expected parse to succeed, got %v", err)
		}
		if len(rule.Times) != 2 || len(rule.DaysOfWeek) != 3 {
			t.Errorf("unexpected rule contents: %+v", rule)
		}
	})

	t.Run("empty days means every day", func(t *testing.T) {
		stored := StoredRule{
			ScheduleType: TypeDaily,
			TimesJSON:    `["07:30"]`,
			IsActive:     true,
		}
		rule, err := stored.Parse()
		if err != nil {
			t.Fatalf("expected parse to succeed, got %v", err)
		}
		if len(rule.DaysOfWeek) != 0 {
			t.Errorf("expected no weekday restriction, got %v", rule.DaysOfWeek)
		}
	})

	t.Run("corrupt times JSON", func(t *testing.T) {
		stored := StoredRule{
			ScheduleType: TypeDaily,
			TimesJSON:    `not json at all`,
			IsActive:     true,
		}
		_, err := stored.Parse()
		if !errors.Is(err, ErrMalformedRule) {
			t.Fatalf("expected ErrMalformedRule, got %v", err)
		}
	})

	t.Run("stored rule failing validation", func(t *testing.T) {
		stored := StoredRule{
			ScheduleType: TypeWeekly,
			TimesJSON:    `["08:00"]`,
			// weekly without weekdays is corrupt once stored
			IsActive: true,
		}
		_, err := stored.Parse()
		if !errors.Is(err, ErrMalformedRule) {
			t.Fatalf("expected ErrMalformedRule, got %v", err)
		}
	})
}
