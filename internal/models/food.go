package models

import (
	"time"

	"github.com/google/uuid"
)

// FoodSchedule is a tracked feeding plan for a pet. Unlike medications,
// a feeding carries its recurrence rule directly on the row.
type FoodSchedule struct {
	ID           uuid.UUID  `json:"id" db:"id"`
	PetID        uuid.UUID  `json:"pet_id" db:"pet_id"`
	FoodType     string     `json:"food_type" db:"food_type"`
	Amount       *string    `json:"amount,omitempty" db:"amount"`
	ScheduleType string     `json:"schedule_type" db:"schedule_type"`
	Times        []string   `json:"times"`
	DaysOfWeek   []int      `json:"days_of_week,omitempty"`
	StartDate    *time.Time `json:"start_date,omitempty" db:"start_date"`
	EndDate      *time.Time `json:"end_date,omitempty" db:"end_date"`
	IsActive     bool       `json:"is_active" db:"is_active"`
	CreatedAt    time.Time  `json:"created_at" db:"created_at"`
}

// FoodCreateRequest is the request body for POST /api/pets/:petId/food
type FoodCreateRequest struct {
	FoodType string                `json:"food_type" binding:"required"`
	Amount   *string               `json:"amount,omitempty"`
	Schedule ScheduleCreateRequest `json:"schedule" binding:"required"`
}
