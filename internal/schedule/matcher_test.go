package schedule

import (
	"testing"
	"time"

	"github.com/google/uuid"
)

func occurrenceAt(itemID uuid.UUID, ts time.Time) Occurrence {
	return Occurrence{
		ItemID:        itemID,
		ItemName:      "Test Med",
		ItemKind:      "medication",
		ScheduledTime: ts,
		Status:        StatusPending,
	}
}

func TestMatch(t *testing.T) {
	t.Parallel()

	itemID := uuid.New()
	day := time.Date(2024, time.June, 5, 0, 0, 0, 0, time.Local)
	at := func(hour, min, sec int) time.Time {
		return time.Date(2024, time.June, 5, hour, min, sec, 0, time.Local)
	}

	t.Run("log within tolerance matches", func(t *testing.T) {
		occ := occurrenceAt(itemID, at(8, 0, 0))
		actual := at(8, 2, 0)
		logID := uuid.New()
		logs := []LogEntry{{
			ID:            logID,
			ItemID:        itemID,
			ScheduledTime: at(8, 0, 59), // 59s away
			ActualTime:    &actual,
			Status:        StatusGiven,
			CreatedAt:     day,
		}}

		got := Match([]Occurrence{occ}, logs)
		if len(got) != 1 {
			t.Fatalf("expected 1 occurrence, got %d", len(got))
		}
		if got[0].Status != StatusGiven {
			t.Errorf("expected status given, got %s", got[0].Status)
		}
		if got[0].LogID == nil || *got[0].LogID != logID {
			t.Errorf("expected matched log id %s, got %v", logID, got[0].LogID)
		}
		if got[0].ActualTime == nil || !got[0].ActualTime.Equal(actual) {
			t.Errorf("expected actual time attached, got %v", got[0].ActualTime)
		}
	})

	t.Run("log outside tolerance stays pending", func(t *testing.T) {
		occ := occurrenceAt(itemID, at(8, 0, 0))
		logs := []LogEntry{{
			ID:            uuid.New(),
			ItemID:        itemID,
			ScheduledTime: at(8, 1, 1), // 61s away
			Status:        StatusGiven,
			CreatedAt:     day,
		}}

		got := Match([]Occurrence{occ}, logs)
		if got[0].Status != StatusPending {
			t.Errorf("expected pending, got %s", got[0].Status)
		}
		if got[0].LogID != nil {
			t.Errorf("expected no matched log, got %v", got[0].LogID)
		}
	})

	t.Run("nearest occurrence wins, log used at most once", func(t *testing.T) {
		occs := []Occurrence{
			occurrenceAt(itemID, at(8, 0, 0)),
			occurrenceAt(itemID, at(8, 1, 0)),
		}
		logs := []LogEntry{{
			ID:            uuid.New(),
			ItemID:        itemID,
			ScheduledTime: at(8, 0, 40), // 40s from 08:00, 20s from 08:01
			Status:        StatusGiven,
			CreatedAt:     day,
		}}

		got := Match(occs, logs)
		if len(got) != 2 {
			t.Fatalf("expected 2 occurrences, got %d", len(got))
		}
		// Output is in ascending scheduled-time order.
		if got[0].Status != StatusGiven {
			t.Errorf("expected 08:00 matched (processed first, log within tolerance), got %s", got[0].Status)
		}
		if got[1].Status != StatusPending {
			t.Errorf("expected 08:01 left pending once log was consumed, got %s", got[1].Status)
		}
	})

	t.Run("smallest distance preferred among candidates", func(t *testing.T) {
		occ := occurrenceAt(itemID, at(8, 0, 0))
		nearID := uuid.New()
		logs := []LogEntry{
			{ID: uuid.New(), ItemID: itemID, ScheduledTime: at(8, 0, 50), Status: StatusSkipped, CreatedAt: day},
			{ID: nearID, ItemID: itemID, ScheduledTime: at(8, 0, 10), Status: StatusGiven, CreatedAt: day.Add(time.Hour)},
		}

		got := Match([]Occurrence{occ}, logs)
		if got[0].LogID == nil || *got[0].LogID != nearID {
			t.Errorf("expected nearest log %s to win, got %v", nearID, got[0].LogID)
		}
	})

	t.Run("equal distance ties broken by earliest created_at", func(t *testing.T) {
		occ := occurrenceAt(itemID, at(8, 0, 0))
		earlyID := uuid.New()
		logs := []LogEntry{
			{ID: uuid.New(), ItemID: itemID, ScheduledTime: at(8, 0, 30), Status: StatusMissed, CreatedAt: day.Add(2 * time.Hour)},
			{ID: earlyID, ItemID: itemID, ScheduledTime: at(7, 59, 30), Status: StatusGiven, CreatedAt: day.Add(time.Hour)},
		}

		got := Match([]Occurrence{occ}, logs)
		if got[0].LogID == nil || *got[0].LogID != earlyID {
			t.Errorf("expected earliest-created log %s to win the tie, got %v", earlyID, got[0].LogID)
		}
	})

	t.Run("no logs leaves everything pending", func(t *testing.T) {
		occs := []Occurrence{
			occurrenceAt(itemID, at(8, 0, 0)),
			occurrenceAt(itemID, at(20, 0, 0)),
		}
		got := Match(occs, nil)
		for i, o := range got {
			if o.Status != StatusPending {
				t.Errorf("occurrence %d: expected pending, got %s", i, o.Status)
			}
		}
	})

	t.Run("input slice is not mutated", func(t *testing.T) {
		occs := []Occurrence{occurrenceAt(itemID, at(8, 0, 0))}
		logs := []LogEntry{{
			ID:            uuid.New(),
			ItemID:        itemID,
			ScheduledTime: at(8, 0, 0),
			Status:        StatusGiven,
			CreatedAt:     day,
		}}
		_ = Match(occs, logs)
		if occs[0].Status != StatusPending {
			t.Errorf("input occurrence mutated: %s", occs[0].Status)
		}
	})
}

func TestOccurrenceOverdue(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, time.June, 5, 12, 0, 0, 0, time.Local)
	pendingPast := Occurrence{Status: StatusPending, ScheduledTime: now.Add(-time.Hour)}
	pendingFuture := Occurrence{Status: StatusPending, ScheduledTime: now.Add(time.Hour)}
	givenPast := Occurrence{Status: StatusGiven, ScheduledTime: now.Add(-time.Hour)}

	if !pendingPast.Overdue(now) {
		t.Error("pending occurrence in the past should be overdue")
	}
	if pendingFuture.Overdue(now) {
		t.Error("pending occurrence in the future should not be overdue")
	}
	if givenPast.Overdue(now) {
		t.Error("resolved occurrence should never be overdue")
	}
}
