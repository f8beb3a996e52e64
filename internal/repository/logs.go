package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/kjanat/petmed-tracker-sub000/internal/schedule"
)

// LogRepository is the append-only store for medication and food logs.
// Logs are immutable once written: there is no update or delete path,
// corrections are recorded as additional notes on new entries.
type LogRepository struct {
	db *pgxpool.Pool
}

func NewLogRepository(db *pgxpool.Pool) *LogRepository {
	return &LogRepository{db: db}
}

// AppendMedicationLog inserts one medication log row and returns it with
// its assigned ID and created_at
func (r *LogRepository) AppendMedicationLog(ctx context.Context, entry schedule.LogEntry) (schedule.LogEntry, error) {
	return r.append(ctx, "medication_logs", "medication_id", entry)
}

// AppendFoodLog inserts one feeding log row
func (r *LogRepository) AppendFoodLog(ctx context.Context, entry schedule.LogEntry) (schedule.LogEntry, error) {
	return r.append(ctx, "food_logs", "food_schedule_id", entry)
}

func (r *LogRepository) append(ctx context.Context, table, itemColumn string, entry schedule.LogEntry) (schedule.LogEntry, error) {
	if entry.ID == uuid.Nil {
		entry.ID = uuid.New()
	}

	query := `
		INSERT INTO ` + table + ` (id, ` + itemColumn + `, scheduled_time, actual_time, status, user_id, notes, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW())
		RETURNING created_at
	`
	err := r.db.QueryRow(ctx, query,
		entry.ID, entry.ItemID, entry.ScheduledTime, entry.ActualTime,
		entry.Status, entry.ActorID, entry.Notes,
	).Scan(&entry.CreatedAt)
	if err != nil {
		return schedule.LogEntry{}, err
	}

	return entry, nil
}

// ListMedicationHistory returns a medication's logs within [start, end),
// newest first. History is served verbatim from storage: past days are
// never re-reconciled.
func (r *LogRepository) ListMedicationHistory(ctx context.Context, medicationID uuid.UUID, start, end time.Time) ([]schedule.LogEntry, error) {
	query := `
		SELECT id, medication_id, scheduled_time, actual_time, status, user_id, notes, created_at
		FROM medication_logs
		WHERE medication_id = $1 AND scheduled_time >= $2 AND scheduled_time < $3
		ORDER BY scheduled_time DESC, created_at DESC
	`

	rows, err := r.db.Query(ctx, query, medicationID, start, end)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanLogEntries(rows)
}

// ListFoodHistory returns a food schedule's logs within [start, end)
func (r *LogRepository) ListFoodHistory(ctx context.Context, foodID uuid.UUID, start, end time.Time) ([]schedule.LogEntry, error) {
	query := `
		SELECT id, food_schedule_id, scheduled_time, actual_time, status, user_id, notes, created_at
		FROM food_logs
		WHERE food_schedule_id = $1 AND scheduled_time >= $2 AND scheduled_time < $3
		ORDER BY scheduled_time DESC, created_at DESC
	`

	rows, err := r.db.Query(ctx, query, foodID, start, end)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanLogEntries(rows)
}

func scanLogEntries(rows pgx.Rows) ([]schedule.LogEntry, error) {
	entries := []schedule.LogEntry{}
	for rows.Next() {
		var entry schedule.LogEntry
		err := rows.Scan(
			&entry.ID, &entry.ItemID, &entry.ScheduledTime, &entry.ActualTime,
			&entry.Status, &entry.ActorID, &entry.Notes, &entry.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}
