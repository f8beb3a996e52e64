package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/kjanat/petmed-tracker-sub000/internal/models"
	"github.com/kjanat/petmed-tracker-sub000/internal/schedule"
)

var (
	ErrMedicationNotFound = errors.New("medication not found")
	ErrScheduleNotFound   = errors.New("schedule not found")
)

type MedicationRepository struct {
	db *pgxpool.Pool
}

func NewMedicationRepository(db *pgxpool.Pool) *MedicationRepository {
	return &MedicationRepository{db: db}
}

// GetByID retrieves a medication by its ID
func (r *MedicationRepository) GetByID(ctx context.Context, medicationID uuid.UUID) (*models.Medication, error) {
	query := `
		SELECT id, pet_id, name, dosage, unit, instructions, is_active, created_at
		FROM medications
		WHERE id = $1
	`

	var med models.Medication
	err := r.db.QueryRow(ctx, query, medicationID).Scan(
		&med.ID,
		&med.PetID,
		&med.Name,
		&med.Dosage,
		&med.Unit,
		&med.Instructions,
		&med.IsActive,
		&med.CreatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrMedicationNotFound
		}
		return nil, err
	}

	return &med, nil
}

// ListForPet returns the pet's active medications
func (r *MedicationRepository) ListForPet(ctx context.Context, petID uuid.UUID) ([]models.Medication, error) {
	query := `
		SELECT id, pet_id, name, dosage, unit, instructions, is_active, created_at
		FROM medications
		WHERE pet_id = $1 AND is_active = true
		ORDER BY name ASC
	`

	rows, err := r.db.Query(ctx, query, petID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	meds := []models.Medication{}
	for rows.Next() {
		var med models.Medication
		err := rows.Scan(
			&med.ID, &med.PetID, &med.Name, &med.Dosage,
			&med.Unit, &med.Instructions, &med.IsActive, &med.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		meds = append(meds, med)
	}

	return meds, rows.Err()
}

// Create inserts a new medication
func (r *MedicationRepository) Create(ctx context.Context, med *models.Medication) error {
	if med.ID == uuid.Nil {
		med.ID = uuid.New()
	}

	query := `
		INSERT INTO medications (id, pet_id, name, dosage, unit, instructions, is_active, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, true, NOW())
		RETURNING is_active, created_at
	`
	return r.db.QueryRow(ctx, query,
		med.ID, med.PetID, med.Name, med.Dosage, med.Unit, med.Instructions,
	).Scan(&med.IsActive, &med.CreatedAt)
}

// AddSchedule persists a validated recurrence rule for a medication.
// Times and weekdays are stored in their JSON array encoding.
func (r *MedicationRepository) AddSchedule(ctx context.Context, medicationID uuid.UUID, rule schedule.Rule) (uuid.UUID, error) {
	timesJSON, err := schedule.EncodeTimes(rule.Times)
	if err != nil {
		return uuid.Nil, err
	}

	var daysJSON *string
	if len(rule.DaysOfWeek) > 0 {
		encoded, err := schedule.EncodeDays(rule.DaysOfWeek)
		if err != nil {
			return uuid.Nil, err
		}
		daysJSON = &encoded
	}

	scheduleID := uuid.New()
	query := `
		INSERT INTO medication_schedules (
			id, medication_id, schedule_type, times, days_of_week,
			start_date, end_date, is_active, created_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, true, NOW())
	`
	_, err = r.db.Exec(ctx, query,
		scheduleID, medicationID, rule.ScheduleType, timesJSON, daysJSON,
		rule.StartDate, rule.EndDate,
	)
	if err != nil {
		return uuid.Nil, err
	}

	return scheduleID, nil
}

// ListSchedules returns the stored rules for a medication, active or not
func (r *MedicationRepository) ListSchedules(ctx context.Context, medicationID uuid.UUID) ([]schedule.StoredRule, error) {
	query := `
		SELECT id, schedule_type, times, COALESCE(days_of_week, ''), start_date, end_date, is_active
		FROM medication_schedules
		WHERE medication_id = $1
		ORDER BY created_at ASC
	`

	rows, err := r.db.Query(ctx, query, medicationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	rules := []schedule.StoredRule{}
	for rows.Next() {
		var rule schedule.StoredRule
		err := rows.Scan(
			&rule.ID, &rule.ScheduleType, &rule.TimesJSON, &rule.DaysJSON,
			&rule.StartDate, &rule.EndDate, &rule.IsActive,
		)
		if err != nil {
			return nil, err
		}
		rules = append(rules, rule)
	}

	return rules, rows.Err()
}

// GetSchedule returns one stored rule and the pet that owns it,
// for access checks on schedule mutation endpoints
func (r *MedicationRepository) GetSchedule(ctx context.Context, scheduleID uuid.UUID) (schedule.StoredRule, uuid.UUID, error) {
	query := `
		SELECT s.id, s.schedule_type, s.times, COALESCE(s.days_of_week, ''),
		       s.start_date, s.end_date, s.is_active, m.pet_id
		FROM medication_schedules s
		JOIN medications m ON s.medication_id = m.id
		WHERE s.id = $1
	`

	var rule schedule.StoredRule
	var petID uuid.UUID
	err := r.db.QueryRow(ctx, query, scheduleID).Scan(
		&rule.ID, &rule.ScheduleType, &rule.TimesJSON, &rule.DaysJSON,
		&rule.StartDate, &rule.EndDate, &rule.IsActive, &petID,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return schedule.StoredRule{}, uuid.Nil, ErrScheduleNotFound
		}
		return schedule.StoredRule{}, uuid.Nil, err
	}

	return rule, petID, nil
}

// UpdateSchedule rewrites a rule's times, weekdays and bounds
func (r *MedicationRepository) UpdateSchedule(ctx context.Context, scheduleID uuid.UUID, rule schedule.Rule) error {
	timesJSON, err := schedule.EncodeTimes(rule.Times)
	if err != nil {
		return err
	}

	var daysJSON *string
	if len(rule.DaysOfWeek) > 0 {
		encoded, err := schedule.EncodeDays(rule.DaysOfWeek)
		if err != nil {
			return err
		}
		daysJSON = &encoded
	}

	query := `
		UPDATE medication_schedules
		SET times = $1, days_of_week = $2, start_date = $3, end_date = $4, is_active = $5
		WHERE id = $6
	`
	result, err := r.db.Exec(ctx, query,
		timesJSON, daysJSON, rule.StartDate, rule.EndDate, rule.IsActive, scheduleID,
	)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return ErrScheduleNotFound
	}

	return nil
}

// DeactivateSchedule soft-deletes a rule. Rules are never hard-deleted so
// existing log history keeps its context.
func (r *MedicationRepository) DeactivateSchedule(ctx context.Context, scheduleID uuid.UUID) error {
	result, err := r.db.Exec(ctx,
		`UPDATE medication_schedules SET is_active = false WHERE id = $1`,
		scheduleID,
	)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return ErrScheduleNotFound
	}
	return nil
}

// ScheduleToResponse converts a stored rule to its API view
func ScheduleToResponse(stored schedule.StoredRule) (models.ScheduleResponse, error) {
	rule, err := stored.Parse()
	if err != nil {
		return models.ScheduleResponse{}, err
	}

	resp := models.ScheduleResponse{
		ID:           rule.ID,
		ScheduleType: rule.ScheduleType,
		Times:        rule.Times,
		DaysOfWeek:   rule.DaysOfWeek,
		IsActive:     rule.IsActive,
	}
	if rule.StartDate != nil {
		str := rule.StartDate.Format("2006-01-02")
		resp.StartDate = &str
	}
	if rule.EndDate != nil {
		str := rule.EndDate.Format("2006-01-02")
		resp.EndDate = &str
	}
	return resp, nil
}
