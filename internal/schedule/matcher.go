package schedule

import (
	"sort"
	"time"

	"github.com/google/uuid"
)

// Occurrence statuses. Pending is never persisted: it is the computed
// absence-of-log state, refreshed on every read.
const (
	StatusPending = "pending"
	StatusGiven   = "given"
	StatusFed     = "fed"
	StatusMissed  = "missed"
	StatusSkipped = "skipped"
)

// MatchTolerance is the maximum distance between an occurrence's scheduled
// time and a log's scheduled time for the two to be paired.
const MatchTolerance = 60 * time.Second

// Occurrence is one derived expected event for a specific date, annotated
// with the outcome recorded for it (if any). Occurrences are never stored.
type Occurrence struct {
	ItemID        uuid.UUID  `json:"item_id"`
	ItemName      string     `json:"item_name"`
	ItemKind      string     `json:"item_kind"` // medication or food
	ScheduleID    uuid.UUID  `json:"schedule_id"`
	ScheduledTime time.Time  `json:"scheduled_time"`
	Status        string     `json:"status"`
	LogID         *uuid.UUID `json:"log_id,omitempty"`
	ActualTime    *time.Time `json:"actual_time,omitempty"`
	ActorID       *uuid.UUID `json:"actor_id,omitempty"`
	Notes         *string    `json:"notes,omitempty"`
}

// Overdue reports whether the occurrence is still pending after its
// scheduled time. The caller supplies now; the engine never reads the clock.
func (o Occurrence) Overdue(now time.Time) bool {
	return o.Status == StatusPending && o.ScheduledTime.Before(now)
}

// LogEntry is the matcher's view of one persisted, immutable log row.
type LogEntry struct {
	ID            uuid.UUID
	ItemID        uuid.UUID
	ScheduledTime time.Time
	ActualTime    *time.Time
	Status        string // given, fed, missed or skipped
	ActorID       *uuid.UUID
	Notes         *string
	CreatedAt     time.Time
}

// Match pairs occurrences with log entries for the same item and day.
// Occurrences are processed in ascending scheduled-time order; each takes
// the unmatched log with the smallest scheduled-time distance within
// MatchTolerance, ties broken by earliest CreatedAt. A log pairs with at
// most one occurrence and vice versa. Unmatched occurrences stay pending.
//
// This is a greedy nearest-match, not an optimal assignment. With the
// expected one-log-per-occurrence data it is exact; extra logs for the same
// slot simply remain unmatched.
func Match(occurrences []Occurrence, logs []LogEntry) []Occurrence {
	out := make([]Occurrence, len(occurrences))
	copy(out, occurrences)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].ScheduledTime.Before(out[j].ScheduledTime)
	})

	used := make([]bool, len(logs))
	for i := range out {
		best := -1
		var bestDiff time.Duration
		for j := range logs {
			if used[j] {
				continue
			}
			diff := absDuration(logs[j].ScheduledTime.Sub(out[i].ScheduledTime))
			if diff > MatchTolerance {
				continue
			}
			if best == -1 || diff < bestDiff ||
				(diff == bestDiff && logs[j].CreatedAt.Before(logs[best].CreatedAt)) {
				best = j
				bestDiff = diff
			}
		}
		if best == -1 {
			out[i].Status = StatusPending
			continue
		}

		used[best] = true
		entry := logs[best]
		logID := entry.ID
		out[i].Status = entry.Status
		out[i].LogID = &logID
		out[i].ActualTime = entry.ActualTime
		out[i].ActorID = entry.ActorID
		out[i].Notes = entry.Notes
	}

	return out
}

func absDuration(d time.Duration) time.Duration {
	if d < 0 {
		return -d
	}
	return d
}
