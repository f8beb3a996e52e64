package reminder

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/kjanat/petmed-tracker-sub000/internal/schedule"
)

type fakePetLister struct {
	ids []uuid.UUID
}

func (f *fakePetLister) ListIDs(ctx context.Context) ([]uuid.UUID, error) {
	return f.ids, nil
}

type fakeItemSource struct {
	items []schedule.Item
}

func (f *fakeItemSource) ListActiveItems(ctx context.Context, petID uuid.UUID) ([]schedule.Item, error) {
	return f.items, nil
}

type fakeLogSource struct{}

func (f *fakeLogSource) ListLogsForDay(ctx context.Context, itemIDs []uuid.UUID, dayStart, dayEnd time.Time) ([]schedule.LogEntry, error) {
	return nil, nil
}

type captureNotifier struct {
	calls []schedule.Occurrence
}

func (c *captureNotifier) Notify(ctx context.Context, petID uuid.UUID, occ schedule.Occurrence) {
	c.calls = append(c.calls, occ)
}

func newTestScanner(t *testing.T, times []string, notifier Notifier) *Scanner {
	t.Helper()
	petID := uuid.New()
	timesJSON, err := schedule.EncodeTimes(times)
	if err != nil {
		t.Fatalf("encode times: %v", err)
	}
	items := &fakeItemSource{items: []schedule.Item{{
		ID:   uuid.New(),
		Name: "Apoquel",
		Kind: "medication",
		Rules: []schedule.StoredRule{{
			ID:           uuid.New(),
			ScheduleType: schedule.TypeDaily,
			TimesJSON:    timesJSON,
			IsActive:     true,
		}},
	}}}
	rec := schedule.NewReconciler(items, &fakeLogSource{}, zap.NewNop())
	return NewScanner(&fakePetLister{ids: []uuid.UUID{petID}}, rec, notifier, 15*time.Minute, zap.NewNop())
}

func TestScanNotifiesWithinLookahead(t *testing.T) {
	notifier := &captureNotifier{}
	s := newTestScanner(t, []string{"08:00", "09:00", "20:00"}, notifier)

	now := time.Date(2024, 6, 5, 8, 50, 0, 0, time.UTC)
	s.scanAt(context.Background(), now)

	if len(notifier.calls) != 1 {
		t.Fatalf("expected 1 reminder, got %d", len(notifier.calls))
	}
	want := time.Date(2024, 6, 5, 9, 0, 0, 0, time.UTC)
	if !notifier.calls[0].ScheduledTime.Equal(want) {
		t.Errorf("reminded for %v, want %v", notifier.calls[0].ScheduledTime, want)
	}
}

func TestScanDoesNotRepeatReminders(t *testing.T) {
	notifier := &captureNotifier{}
	s := newTestScanner(t, []string{"09:00"}, notifier)

	now := time.Date(2024, 6, 5, 8, 50, 0, 0, time.UTC)
	s.scanAt(context.Background(), now)
	s.scanAt(context.Background(), now.Add(time.Minute))

	if len(notifier.calls) != 1 {
		t.Fatalf("expected 1 reminder across two scans, got %d", len(notifier.calls))
	}
}

func TestScanSkipsPastOccurrences(t *testing.T) {
	notifier := &captureNotifier{}
	s := newTestScanner(t, []string{"08:00"}, notifier)

	now := time.Date(2024, 6, 5, 8, 30, 0, 0, time.UTC)
	s.scanAt(context.Background(), now)

	if len(notifier.calls) != 0 {
		t.Fatalf("expected no reminders for past occurrence, got %d", len(notifier.calls))
	}
}
