package models

import (
	"time"

	"github.com/google/uuid"
)

// Pet is an animal whose care is tracked
type Pet struct {
	ID        uuid.UUID  `json:"id" db:"id"`
	Name      string     `json:"name" db:"name"`
	Species   string     `json:"species" db:"species"`
	Breed     *string    `json:"breed,omitempty" db:"breed"`
	BirthDate *time.Time `json:"birth_date,omitempty" db:"birth_date"`
	WeightKg  *float64   `json:"weight_kg,omitempty" db:"weight_kg"`
	QRToken   string     `json:"qr_token" db:"qr_token"`
	CreatedAt time.Time  `json:"created_at" db:"created_at"`
}

// PetCreateRequest is the request body for POST /api/pets
type PetCreateRequest struct {
	Name      string   `json:"name" binding:"required"`
	Species   string   `json:"species" binding:"required"`
	Breed     *string  `json:"breed,omitempty"`
	BirthDate *string  `json:"birth_date,omitempty"` // YYYY-MM-DD
	WeightKg  *float64 `json:"weight_kg,omitempty"`
}

// PetListResponse is a simplified pet view for list endpoints
type PetListResponse struct {
	ID      uuid.UUID `json:"id"`
	Name    string    `json:"name"`
	Species string    `json:"species"`
	Role    string    `json:"role"` // caller's caregiver role for this pet
}

// Caregiver roles
const (
	RoleOwner     = "owner"
	RoleCaregiver = "caregiver"
)
