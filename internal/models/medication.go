package models

import (
	"time"

	"github.com/google/uuid"
)

// Medication is a tracked medication belonging to a pet
type Medication struct {
	ID           uuid.UUID `json:"id" db:"id"`
	PetID        uuid.UUID `json:"pet_id" db:"pet_id"`
	Name         string    `json:"name" db:"name"`
	Dosage       *string   `json:"dosage,omitempty" db:"dosage"`
	Unit         *string   `json:"unit,omitempty" db:"unit"`
	Instructions *string   `json:"instructions,omitempty" db:"instructions"`
	IsActive     bool      `json:"is_active" db:"is_active"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}

// ScheduleResponse is the API view of one recurrence rule, with the stored
// JSON arrays already decoded
type ScheduleResponse struct {
	ID           uuid.UUID `json:"id"`
	ScheduleType string    `json:"schedule_type"`
	Times        []string  `json:"times"`
	DaysOfWeek   []int     `json:"days_of_week,omitempty"`
	StartDate    *string   `json:"start_date,omitempty"` // YYYY-MM-DD
	EndDate      *string   `json:"end_date,omitempty"`
	IsActive     bool      `json:"is_active"`
}

// MedicationCreateRequest is the request body for POST /api/pets/:petId/medications
type MedicationCreateRequest struct {
	Name         string                 `json:"name" binding:"required"`
	Dosage       *string                `json:"dosage,omitempty"`
	Unit         *string                `json:"unit,omitempty"`
	Instructions *string                `json:"instructions,omitempty"`
	Schedule     *ScheduleCreateRequest `json:"schedule,omitempty"` // optional initial schedule
}

// ScheduleCreateRequest is the request body for POST /api/medications/:id/schedules
type ScheduleCreateRequest struct {
	ScheduleType string   `json:"schedule_type" binding:"required,oneof=daily weekly custom"`
	Times        []string `json:"times" binding:"required"`
	DaysOfWeek   []int    `json:"days_of_week,omitempty"`
	StartDate    *string  `json:"start_date,omitempty"` // YYYY-MM-DD
	EndDate      *string  `json:"end_date,omitempty"`
}

// ScheduleUpdateRequest is the request body for PATCH /api/schedules/:id
type ScheduleUpdateRequest struct {
	Times      []string `json:"times,omitempty"`
	DaysOfWeek []int    `json:"days_of_week,omitempty"`
	StartDate  *string  `json:"start_date,omitempty"`
	EndDate    *string  `json:"end_date,omitempty"`
	IsActive   *bool    `json:"is_active,omitempty"`
}

// MedicationDetailResponse includes the medication and its schedules
type MedicationDetailResponse struct {
	Medication Medication         `json:"medication"`
	Schedules  []ScheduleResponse `json:"schedules"`
}
