package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/kjanat/petmed-tracker-sub000/internal/schedule"
)

// DayScheduleEntry is one status-annotated occurrence in a day view
type DayScheduleEntry struct {
	ItemID        uuid.UUID  `json:"item_id"`
	ItemName      string     `json:"item_name"`
	ItemKind      string     `json:"item_kind"`
	ScheduleID    uuid.UUID  `json:"schedule_id"`
	ScheduledTime string     `json:"scheduled_time"` // RFC3339
	Status        string     `json:"status"`
	Overdue       bool       `json:"overdue"`
	LogID         *uuid.UUID `json:"log_id,omitempty"`
	ActualTime    *string    `json:"actual_time,omitempty"`
	ActorID       *uuid.UUID `json:"actor_id,omitempty"`
	Notes         *string    `json:"notes,omitempty"`
}

// DayScheduleResponse is the API response for day-view queries
type DayScheduleResponse struct {
	PetID   uuid.UUID          `json:"pet_id"`
	PetName string             `json:"pet_name"`
	Date    string             `json:"date"` // YYYY-MM-DD
	Entries []DayScheduleEntry `json:"entries"`
	Count   int                `json:"count"`
}

// NewDayScheduleEntry converts an engine occurrence into its API view,
// resolving overdue against the supplied now.
func NewDayScheduleEntry(occ schedule.Occurrence, now time.Time) DayScheduleEntry {
	entry := DayScheduleEntry{
		ItemID:        occ.ItemID,
		ItemName:      occ.ItemName,
		ItemKind:      occ.ItemKind,
		ScheduleID:    occ.ScheduleID,
		ScheduledTime: occ.ScheduledTime.Format(time.RFC3339),
		Status:        occ.Status,
		Overdue:       occ.Overdue(now),
		LogID:         occ.LogID,
		ActorID:       occ.ActorID,
		Notes:         occ.Notes,
	}
	if occ.ActualTime != nil {
		str := occ.ActualTime.Format(time.RFC3339)
		entry.ActualTime = &str
	}
	return entry
}
