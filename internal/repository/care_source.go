package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/kjanat/petmed-tracker-sub000/internal/schedule"
)

// CareSource feeds the schedule reconciler: it loads a pet's active tracked
// items (medications with their rules, food schedules) and their logs for a
// day. It implements schedule.ItemSource and schedule.LogSource.
type CareSource struct {
	db *pgxpool.Pool
}

func NewCareSource(db *pgxpool.Pool) *CareSource {
	return &CareSource{db: db}
}

// ListActiveItems returns the pet's active medications and food schedules,
// each with its stored (still-encoded) recurrence rules
func (s *CareSource) ListActiveItems(ctx context.Context, petID uuid.UUID) ([]schedule.Item, error) {
	items := []schedule.Item{}

	// Medications carry their rules in a separate schedules table.
	medQuery := `
		SELECT m.id, m.name,
		       s.id, s.schedule_type, s.times, COALESCE(s.days_of_week, ''),
		       s.start_date, s.end_date, s.is_active
		FROM medications m
		JOIN medication_schedules s ON s.medication_id = m.id
		WHERE m.pet_id = $1 AND m.is_active = true AND s.is_active = true
		ORDER BY m.name ASC, s.created_at ASC
	`
	rows, err := s.db.Query(ctx, medQuery, petID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	byID := map[uuid.UUID]int{}
	for rows.Next() {
		var medID uuid.UUID
		var medName string
		var rule schedule.StoredRule

		err := rows.Scan(
			&medID, &medName,
			&rule.ID, &rule.ScheduleType, &rule.TimesJSON, &rule.DaysJSON,
			&rule.StartDate, &rule.EndDate, &rule.IsActive,
		)
		if err != nil {
			return nil, err
		}

		idx, ok := byID[medID]
		if !ok {
			items = append(items, schedule.Item{ID: medID, Name: medName, Kind: "medication"})
			idx = len(items) - 1
			byID[medID] = idx
		}
		items[idx].Rules = append(items[idx].Rules, rule)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	// Food schedules carry their rule inline on the row.
	foodQuery := `
		SELECT id, food_type, schedule_type, times, COALESCE(days_of_week, ''),
		       start_date, end_date, is_active
		FROM food_schedules
		WHERE pet_id = $1 AND is_active = true
		ORDER BY food_type ASC
	`
	foodRows, err := s.db.Query(ctx, foodQuery, petID)
	if err != nil {
		return nil, err
	}
	defer foodRows.Close()

	for foodRows.Next() {
		var foodID uuid.UUID
		var foodType string
		var rule schedule.StoredRule

		err := foodRows.Scan(
			&foodID, &foodType,
			&rule.ScheduleType, &rule.TimesJSON, &rule.DaysJSON,
			&rule.StartDate, &rule.EndDate, &rule.IsActive,
		)
		if err != nil {
			return nil, err
		}

		rule.ID = foodID
		items = append(items, schedule.Item{
			ID:    foodID,
			Name:  foodType,
			Kind:  "food",
			Rules: []schedule.StoredRule{rule},
		})
	}
	if err := foodRows.Err(); err != nil {
		return nil, err
	}

	return items, nil
}

// ListLogsForDay returns the medication and food logs for the given items
// whose scheduled time falls within [dayStart, dayEnd)
func (s *CareSource) ListLogsForDay(ctx context.Context, itemIDs []uuid.UUID, dayStart, dayEnd time.Time) ([]schedule.LogEntry, error) {
	if len(itemIDs) == 0 {
		return []schedule.LogEntry{}, nil
	}

	entries := []schedule.LogEntry{}

	medQuery := `
		SELECT id, medication_id, scheduled_time, actual_time, status, user_id, notes, created_at
		FROM medication_logs
		WHERE medication_id = ANY($1) AND scheduled_time >= $2 AND scheduled_time < $3
		ORDER BY created_at ASC
	`
	rows, err := s.db.Query(ctx, medQuery, itemIDs, dayStart, dayEnd)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	medEntries, err := scanLogEntries(rows)
	if err != nil {
		return nil, err
	}
	entries = append(entries, medEntries...)

	foodQuery := `
		SELECT id, food_schedule_id, scheduled_time, actual_time, status, user_id, notes, created_at
		FROM food_logs
		WHERE food_schedule_id = ANY($1) AND scheduled_time >= $2 AND scheduled_time < $3
		ORDER BY created_at ASC
	`
	foodRows, err := s.db.Query(ctx, foodQuery, itemIDs, dayStart, dayEnd)
	if err != nil {
		return nil, err
	}
	defer foodRows.Close()

	foodEntries, err := scanLogEntries(foodRows)
	if err != nil {
		return nil, err
	}
	entries = append(entries, foodEntries...)

	return entries, nil
}
