package schedule

import (
	"errors"
	"testing"
	"time"
)

func TestGenerate(t *testing.T) {
	t.Parallel()

	// 2024-06-05 is a Wednesday.
	wednesday := time.Date(2024, time.June, 5, 0, 0, 0, 0, time.Local)
	tuesday := time.Date(2024, time.June, 4, 0, 0, 0, 0, time.Local)

	t.Run("daily rule produces one occurrence per time in order", func(t *testing.T) {
		rule := Rule{
			ScheduleType: TypeDaily,
			Times:        []string{"20:00", "08:00", "12:30"},
			IsActive:     true,
		}

		got, err := Generate(rule, wednesday)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(got) != 3 {
			t.Fatalf("expected 3 occurrences, got %d", len(got))
		}

		// Stored order, not chronological order.
		wantHours := []int{20, 8, 12}
		for i, ts := range got {
			if ts.Hour() != wantHours[i] {
				t.Errorf("occurrence %d: want hour %d, got %d", i, wantHours[i], ts.Hour())
			}
			if ts.Year() != 2024 || ts.Month() != time.June || ts.Day() != 5 {
				t.Errorf("occurrence %d landed on wrong date: %v", i, ts)
			}
			if ts.Second() != 0 || ts.Nanosecond() != 0 {
				t.Errorf("occurrence %d should be on the minute: %v", i, ts)
			}
		}
	})

	t.Run("weekly rule gates on weekday", func(t *testing.T) {
		rule := Rule{
			ScheduleType: TypeWeekly,
			Times:        []string{"08:00"},
			DaysOfWeek:   []int{1, 3, 5}, // Mon, Wed, Fri
			IsActive:     true,
		}

		got, err := Generate(rule, tuesday)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(got) != 0 {
			t.Errorf("expected no occurrences on Tuesday, got %d", len(got))
		}

		got, err = Generate(rule, wednesday)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(got) != 1 {
			t.Errorf("expected 1 occurrence on Wednesday, got %d", len(got))
		}
	})

	t.Run("date bounds are inclusive", func(t *testing.T) {
		rule := Rule{
			ScheduleType: TypeCustom,
			Times:        []string{"08:00"},
			DaysOfWeek:   []int{0, 1, 2, 3, 4, 5, 6},
			StartDate:    datePtr(2024, time.June, 1),
			EndDate:      datePtr(2024, time.June, 10),
			IsActive:     true,
		}

		cases := []struct {
			date time.Time
			want int
		}{
			{time.Date(2024, time.May, 31, 0, 0, 0, 0, time.Local), 0},
			{time.Date(2024, time.June, 1, 0, 0, 0, 0, time.Local), 1},
			{time.Date(2024, time.June, 5, 0, 0, 0, 0, time.Local), 1},
			{time.Date(2024, time.June, 10, 0, 0, 0, 0, time.Local), 1},
			{time.Date(2024, time.June, 11, 0, 0, 0, 0, time.Local), 0},
		}
		for _, tc := range cases {
			got, err := Generate(rule, tc.date)
			if err != nil {
				t.Fatalf("%s: expected no error, got %v", tc.date.Format("2006-01-02"), err)
			}
			if len(got) != tc.want {
				t.Errorf("%s: want %d occurrences, got %d", tc.date.Format("2006-01-02"), tc.want, len(got))
			}
		}
	})

	t.Run("inactive rule generates nothing", func(t *testing.T) {
		rule := Rule{
			ScheduleType: TypeDaily,
			Times:        []string{"08:00"},
			IsActive:     false,
		}
		got, err := Generate(rule, wednesday)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(got) != 0 {
			t.Errorf("expected no occurrences for inactive rule, got %d", len(got))
		}
	})

	t.Run("coinciding times are not deduplicated", func(t *testing.T) {
		rule := Rule{
			ScheduleType: TypeDaily,
			Times:        []string{"08:00", "08:00"},
			IsActive:     true,
		}
		got, err := Generate(rule, wednesday)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(got) != 2 {
			t.Errorf("expected duplicate times preserved, got %d occurrences", len(got))
		}
	})

	t.Run("unparseable clock surfaces as malformed rule", func(t *testing.T) {
		rule := Rule{
			ScheduleType: TypeDaily,
			Times:        []string{"nope"},
			IsActive:     true,
		}
		_, err := Generate(rule, wednesday)
		if !errors.Is(err, ErrMalformedRule) {
			t.Fatalf("expected ErrMalformedRule, got %v", err)
		}
	})
}
