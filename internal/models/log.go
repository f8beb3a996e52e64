package models

import (
	"github.com/google/uuid"
)

// LogCreateRequest is the request body for POST /api/medications/:id/logs
// and POST /api/food/:id/logs. Logs record an outcome, never a pending state.
type LogCreateRequest struct {
	ScheduledTime string  `json:"scheduled_time" binding:"required"` // RFC3339
	ActualTime    *string `json:"actual_time,omitempty"`             // RFC3339, defaults to now
	Status        string  `json:"status" binding:"required,oneof=given fed missed skipped"`
	Notes         *string `json:"notes,omitempty"`
}

// LogResponse is the API view of one immutable log entry
type LogResponse struct {
	ID            uuid.UUID  `json:"id"`
	ItemID        uuid.UUID  `json:"item_id"`
	ScheduledTime string     `json:"scheduled_time"`
	ActualTime    *string    `json:"actual_time,omitempty"`
	Status        string     `json:"status"`
	UserID        *uuid.UUID `json:"user_id,omitempty"` // nil for anonymous QR logging
	Notes         *string    `json:"notes,omitempty"`
	CreatedAt     string     `json:"created_at"`
}
