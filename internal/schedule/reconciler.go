package schedule

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Item is one tracked item (a medication or a food schedule) with its
// stored recurrence rules, as loaded from persistence.
type Item struct {
	ID    uuid.UUID
	Name  string
	Kind  string // medication or food
	Rules []StoredRule
}

// ItemSource provides the active tracked items for a pet.
type ItemSource interface {
	ListActiveItems(ctx context.Context, petID uuid.UUID) ([]Item, error)
}

// LogSource provides the log entries for a set of items within a day.
type LogSource interface {
	ListLogsForDay(ctx context.Context, itemIDs []uuid.UUID, dayStart, dayEnd time.Time) ([]LogEntry, error)
}

// Reconciler merges generated occurrences with logged events into a day's
// status-annotated schedule. It is the only entry point the read paths use;
// it holds no state between calls, so every read re-derives status from the
// latest logs.
type Reconciler struct {
	items ItemSource
	logs  LogSource
	log   *zap.Logger
}

func NewReconciler(items ItemSource, logs LogSource, logger *zap.Logger) *Reconciler {
	return &Reconciler{items: items, logs: logs, log: logger}
}

// DaySchedule returns every expected occurrence for the pet on the given
// date, across all active items and rules, each annotated with its resolved
// status. Results are sorted by scheduled time, ties broken by item name.
//
// A stored rule that cannot be parsed is skipped with a warning; one corrupt
// rule never blocks the rest of the pet's day.
func (r *Reconciler) DaySchedule(ctx context.Context, petID uuid.UUID, date time.Time) ([]Occurrence, error) {
	items, err := r.items.ListActiveItems(ctx, petID)
	if err != nil {
		return nil, fmt.Errorf("list active items: %w", err)
	}
	if len(items) == 0 {
		return []Occurrence{}, nil
	}

	itemIDs := make([]uuid.UUID, 0, len(items))
	for _, item := range items {
		itemIDs = append(itemIDs, item.ID)
	}

	dayStart := truncateToDay(date)
	dayEnd := dayStart.AddDate(0, 0, 1)

	logs, err := r.logs.ListLogsForDay(ctx, itemIDs, dayStart, dayEnd)
	if err != nil {
		return nil, fmt.Errorf("list logs for day: %w", err)
	}

	logsByItem := make(map[uuid.UUID][]LogEntry, len(items))
	for _, entry := range logs {
		logsByItem[entry.ItemID] = append(logsByItem[entry.ItemID], entry)
	}

	all := []Occurrence{}
	for _, item := range items {
		var pending []Occurrence
		for _, stored := range item.Rules {
			rule, err := stored.Parse()
			if err != nil {
				r.warnRule(item, stored.ID, err)
				continue
			}
			times, err := Generate(rule, date)
			if err != nil {
				r.warnRule(item, stored.ID, err)
				continue
			}
			for _, ts := range times {
				pending = append(pending, Occurrence{
					ItemID:        item.ID,
					ItemName:      item.Name,
					ItemKind:      item.Kind,
					ScheduleID:    rule.ID,
					ScheduledTime: ts,
					Status:        StatusPending,
				})
			}
		}
		// Matching is scoped to one item: a log never pairs with another
		// item's occurrence.
		all = append(all, Match(pending, logsByItem[item.ID])...)
	}

	sort.SliceStable(all, func(i, j int) bool {
		if !all[i].ScheduledTime.Equal(all[j].ScheduledTime) {
			return all[i].ScheduledTime.Before(all[j].ScheduledTime)
		}
		return all[i].ItemName < all[j].ItemName
	})

	return all, nil
}

func (r *Reconciler) warnRule(item Item, ruleID uuid.UUID, err error) {
	if r.log == nil {
		return
	}
	r.log.Warn("skipping unusable schedule rule",
		zap.String("item_id", item.ID.String()),
		zap.String("item_name", item.Name),
		zap.String("rule_id", ruleID.String()),
		zap.Error(err),
	)
}
