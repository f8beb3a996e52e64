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

var ErrFoodScheduleNotFound = errors.New("food schedule not found")

type FoodRepository struct {
	db *pgxpool.Pool
}

func NewFoodRepository(db *pgxpool.Pool) *FoodRepository {
	return &FoodRepository{db: db}
}

// GetByID retrieves a food schedule by its ID
func (r *FoodRepository) GetByID(ctx context.Context, foodID uuid.UUID) (*models.FoodSchedule, error) {
	query := `
		SELECT id, pet_id, food_type, amount, schedule_type, times,
		       COALESCE(days_of_week, ''), start_date, end_date, is_active, created_at
		FROM food_schedules
		WHERE id = $1
	`

	food, err := r.scanFood(r.db.QueryRow(ctx, query, foodID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrFoodScheduleNotFound
		}
		return nil, err
	}
	return food, nil
}

// ListForPet returns the pet's active food schedules
func (r *FoodRepository) ListForPet(ctx context.Context, petID uuid.UUID) ([]models.FoodSchedule, error) {
	query := `
		SELECT id, pet_id, food_type, amount, schedule_type, times,
		       COALESCE(days_of_week, ''), start_date, end_date, is_active, created_at
		FROM food_schedules
		WHERE pet_id = $1 AND is_active = true
		ORDER BY food_type ASC
	`

	rows, err := r.db.Query(ctx, query, petID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	feeds := []models.FoodSchedule{}
	for rows.Next() {
		food, err := r.scanFood(rows)
		if err != nil {
			return nil, err
		}
		feeds = append(feeds, *food)
	}

	return feeds, rows.Err()
}

// Create inserts a new food schedule with its recurrence rule inline
func (r *FoodRepository) Create(ctx context.Context, food *models.FoodSchedule) error {
	if food.ID == uuid.Nil {
		food.ID = uuid.New()
	}

	timesJSON, err := schedule.EncodeTimes(food.Times)
	if err != nil {
		return err
	}

	var daysJSON *string
	if len(food.DaysOfWeek) > 0 {
		encoded, err := schedule.EncodeDays(food.DaysOfWeek)
		if err != nil {
			return err
		}
		daysJSON = &encoded
	}

	query := `
		INSERT INTO food_schedules (
			id, pet_id, food_type, amount, schedule_type, times, days_of_week,
			start_date, end_date, is_active, created_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, true, NOW())
		RETURNING is_active, created_at
	`
	return r.db.QueryRow(ctx, query,
		food.ID, food.PetID, food.FoodType, food.Amount, food.ScheduleType,
		timesJSON, daysJSON, food.StartDate, food.EndDate,
	).Scan(&food.IsActive, &food.CreatedAt)
}

// Deactivate soft-deletes a food schedule
func (r *FoodRepository) Deactivate(ctx context.Context, foodID uuid.UUID) error {
	result, err := r.db.Exec(ctx,
		`UPDATE food_schedules SET is_active = false WHERE id = $1`,
		foodID,
	)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return ErrFoodScheduleNotFound
	}
	return nil
}

func (r *FoodRepository) scanFood(row pgx.Row) (*models.FoodSchedule, error) {
	var food models.FoodSchedule
	var timesJSON, daysJSON string

	err := row.Scan(
		&food.ID, &food.PetID, &food.FoodType, &food.Amount, &food.ScheduleType,
		&timesJSON, &daysJSON, &food.StartDate, &food.EndDate,
		&food.IsActive, &food.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	if food.Times, err = schedule.ParseTimes(timesJSON); err != nil {
		return nil, err
	}
	if daysJSON != "" {
		if food.DaysOfWeek, err = schedule.ParseDays(daysJSON); err != nil {
			return nil, err
		}
	}

	return &food, nil
}
