package schedule

import (
	"context"
	"reflect"
	"testing"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type fakeItemSource struct {
	items []Item
	err   error
}

func (f *fakeItemSource) ListActiveItems(ctx context.Context, petID uuid.UUID) ([]Item, error) {
	return f.items, f.err
}

type fakeLogSource struct {
	logs []LogEntry
	err  error
}

func (f *fakeLogSource) ListLogsForDay(ctx context.Context, itemIDs []uuid.UUID, dayStart, dayEnd time.Time) ([]LogEntry, error) {
	return f.logs, f.err
}

func TestReconcilerDaySchedule(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	petID := uuid.New()
	day := time.Date(2024, time.June, 5, 0, 0, 0, 0, time.Local)
	at := func(hour, min int) time.Time {
		return time.Date(2024, time.June, 5, hour, min, 0, 0, time.Local)
	}

	t.Run("end to end day view", func(t *testing.T) {
		medID := uuid.New()
		items := &fakeItemSource{items: []Item{{
			ID:   medID,
			Name: "Amoxicillin",
			Kind: "medication",
			Rules: []StoredRule{{
				ID:           uuid.New(),
				ScheduleType: TypeDaily,
				TimesJSON:    `["08:00","20:00"]`,
				IsActive:     true,
			}},
		}}}

		actual := at(8, 2)
		logs := &fakeLogSource{logs: []LogEntry{{
			ID:            uuid.New(),
			ItemID:        medID,
			ScheduledTime: at(8, 0),
			ActualTime:    &actual,
			Status:        StatusGiven,
			CreatedAt:     at(8, 2),
		}}}

		rec := NewReconciler(items, logs, zap.NewNop())
		got, err := rec.DaySchedule(ctx, petID, day)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(got) != 2 {
			t.Fatalf("expected 2 occurrences, got %d", len(got))
		}

		if got[0].Status != StatusGiven {
			t.Errorf("08:00 dose: expected given, got %s", got[0].Status)
		}
		if got[0].ActualTime == nil || !got[0].ActualTime.Equal(actual) {
			t.Errorf("08:00 dose: expected actual time 08:02, got %v", got[0].ActualTime)
		}
		if got[1].Status != StatusPending {
			t.Errorf("20:00 dose: expected pending, got %s", got[1].Status)
		}
		if !got[0].ScheduledTime.Equal(at(8, 0)) || !got[1].ScheduledTime.Equal(at(20, 0)) {
			t.Errorf("unexpected scheduled times: %v, %v", got[0].ScheduledTime, got[1].ScheduledTime)
		}
	})

	t.Run("malformed rule is isolated", func(t *testing.T) {
		healthyID := uuid.New()
		items := &fakeItemSource{items: []Item{
			{
				ID:   uuid.New(),
				Name: "Corrupt Med",
				Kind: "medication",
				Rules: []StoredRule{{
					ID:           uuid.New(),
					ScheduleType: TypeDaily,
					TimesJSON:    `{{{`,
					IsActive:     true,
				}},
			},
			{
				ID:   healthyID,
				Name: "Healthy Med",
				Kind: "medication",
				Rules: []StoredRule{{
					ID:           uuid.New(),
					ScheduleType: TypeDaily,
					TimesJSON:    `["09:00"]`,
					IsActive:     true,
				}},
			},
		}}

		rec := NewReconciler(items, &fakeLogSource{}, zap.NewNop())
		got, err := rec.DaySchedule(ctx, petID, day)
		if err != nil {
			t.Fatalf("one corrupt rule must not fail the day view: %v", err)
		}
		if len(got) != 1 {
			t.Fatalf("expected only the healthy item's occurrence, got %d", len(got))
		}
		if got[0].ItemID != healthyID {
			t.Errorf("expected occurrence from healthy item, got %s", got[0].ItemName)
		}
	})

	t.Run("sorted by time then item name", func(t *testing.T) {
		items := &fakeItemSource{items: []Item{
			{
				ID:   uuid.New(),
				Name: "Zyrtec",
				Kind: "medication",
				Rules: []StoredRule{{
					ID:           uuid.New(),
					ScheduleType: TypeDaily,
					TimesJSON:    `["08:00"]`,
					IsActive:     true,
				}},
			},
			{
				ID:   uuid.New(),
				Name: "Apoquel",
				Kind: "medication",
				Rules: []StoredRule{{
					ID:           uuid.New(),
					ScheduleType: TypeDaily,
					TimesJSON:    `["08:00","07:00"]`,
					IsActive:     true,
				}},
			},
		}}

		rec := NewReconciler(items, &fakeLogSource{}, zap.NewNop())
		got, err := rec.DaySchedule(ctx, petID, day)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(got) != 3 {
			t.Fatalf("expected 3 occurrences, got %d", len(got))
		}
		if got[0].ItemName != "Apoquel" || got[0].ScheduledTime.Hour() != 7 {
			t.Errorf("expected Apoquel 07:00 first, got %s %v", got[0].ItemName, got[0].ScheduledTime)
		}
		if got[1].ItemName != "Apoquel" || got[2].ItemName != "Zyrtec" {
			t.Errorf("expected 08:00 tie broken by item name, got %s then %s", got[1].ItemName, got[2].ItemName)
		}
	})

	t.Run("reconciliation is idempotent", func(t *testing.T) {
		medID := uuid.New()
		items := &fakeItemSource{items: []Item{{
			ID:   medID,
			Name: "Amoxicillin",
			Kind: "medication",
			Rules: []StoredRule{{
				ID:           uuid.New(),
				ScheduleType: TypeWeekly,
				TimesJSON:    `["08:00","20:00"]`,
				DaysJSON:     `[3]`,
				IsActive:     true,
			}},
		}}}
		logs := &fakeLogSource{logs: []LogEntry{{
			ID:            uuid.New(),
			ItemID:        medID,
			ScheduledTime: at(20, 0),
			Status:        StatusSkipped,
			CreatedAt:     at(20, 1),
		}}}

		rec := NewReconciler(items, logs, zap.NewNop())
		first, err := rec.DaySchedule(ctx, petID, day)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		second, err := rec.DaySchedule(ctx, petID, day)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if !reflect.DeepEqual(first, second) {
			t.Errorf("two reads with no writes diverged:\nfirst:  %+v\nsecond: %+v", first, second)
		}
	})

	t.Run("no items yields empty schedule", func(t *testing.T) {
		rec := NewReconciler(&fakeItemSource{}, &fakeLogSource{}, zap.NewNop())
		got, err := rec.DaySchedule(ctx, petID, day)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(got) != 0 {
			t.Errorf("expected empty schedule, got %d occurrences", len(got))
		}
	})
}
