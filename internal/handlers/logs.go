package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/kjanat/petmed-tracker-sub000/internal/middleware"
	"github.com/kjanat/petmed-tracker-sub000/internal/models"
	"github.com/kjanat/petmed-tracker-sub000/internal/repository"
	"github.com/kjanat/petmed-tracker-sub000/internal/schedule"
)

// authUserIDPtr returns the authenticated user ID as a pointer, nil when
// the request is unauthenticated (anonymous QR logging)
func authUserIDPtr(c *gin.Context) (*uuid.UUID, bool) {
	id, exists := middleware.GetAuthUserID(c)
	if !exists {
		return nil, false
	}
	return &id, true
}

// logEntryFromRequest builds a log entry from an API request. A log is only
// ever created to record an outcome, so status is never pending here.
func logEntryFromRequest(req models.LogCreateRequest, itemID uuid.UUID, actorID *uuid.UUID, now time.Time) (schedule.LogEntry, error) {
	scheduledTime, err := time.Parse(time.RFC3339, req.ScheduledTime)
	if err != nil {
		return schedule.LogEntry{}, errors.New("invalid scheduled_time format, use RFC3339")
	}

	entry := schedule.LogEntry{
		ItemID:        itemID,
		ScheduledTime: scheduledTime,
		Status:        req.Status,
		ActorID:       actorID,
		Notes:         req.Notes,
	}

	if req.ActualTime != nil && *req.ActualTime != "" {
		actual, err := time.Parse(time.RFC3339, *req.ActualTime)
		if err != nil {
			return schedule.LogEntry{}, errors.New("invalid actual_time format, use RFC3339")
		}
		entry.ActualTime = &actual
	} else if req.Status == schedule.StatusGiven || req.Status == schedule.StatusFed {
		// A dose given without an explicit time was given just now.
		entry.ActualTime = &now
	}

	return entry, nil
}

func toLogResponse(entry schedule.LogEntry) models.LogResponse {
	resp := models.LogResponse{
		ID:            entry.ID,
		ItemID:        entry.ItemID,
		ScheduledTime: entry.ScheduledTime.Format(time.RFC3339),
		Status:        entry.Status,
		UserID:        entry.ActorID,
		Notes:         entry.Notes,
		CreatedAt:     entry.CreatedAt.Format(time.RFC3339),
	}
	if entry.ActualTime != nil {
		str := entry.ActualTime.Format(time.RFC3339)
		resp.ActualTime = &str
	}
	return resp
}

// CreateMedicationLog records the outcome of one expected dose
func CreateMedicationLog(logs *repository.LogRepository, meds *repository.MedicationRepository, pets *repository.PetRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		med, ok := requireMedicationAccess(c, meds, pets)
		if !ok {
			return
		}

		var req models.LogCreateRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
			return
		}
		if req.Status == schedule.StatusFed {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Status 'fed' is for food logs; use 'given'"})
			return
		}

		userID, _ := authUserIDPtr(c)

		entry, err := logEntryFromRequest(req, med.ID, userID, time.Now())
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		saved, err := logs.AppendMedicationLog(c.Request.Context(), entry)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create log", "details": err.Error()})
			return
		}

		c.JSON(http.StatusCreated, toLogResponse(saved))
	}
}

// ListMedicationLogs returns a medication's log history within a date range
func ListMedicationLogs(logs *repository.LogRepository, meds *repository.MedicationRepository, pets *repository.PetRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		med, ok := requireMedicationAccess(c, meds, pets)
		if !ok {
			return
		}

		start, end, ok := parseHistoryRange(c)
		if !ok {
			return
		}

		entries, err := logs.ListMedicationHistory(c.Request.Context(), med.ID, start, end)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to query logs"})
			return
		}

		responses := make([]models.LogResponse, 0, len(entries))
		for _, entry := range entries {
			responses = append(responses, toLogResponse(entry))
		}

		c.JSON(http.StatusOK, gin.H{
			"medication_id": med.ID,
			"logs":          responses,
			"count":         len(responses),
		})
	}
}

// CreateFoodLog records the outcome of one expected feeding
func CreateFoodLog(logs *repository.LogRepository, food *repository.FoodRepository, pets *repository.PetRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		foodID, err := uuid.Parse(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid food schedule ID format"})
			return
		}

		entry, err := food.GetByID(c.Request.Context(), foodID)
		if err != nil {
			if errors.Is(err, repository.ErrFoodScheduleNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "Food schedule not found"})
			} else {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to query food schedule"})
			}
			return
		}

		if !checkPetAccess(c, pets, entry.PetID) {
			return
		}

		var req models.LogCreateRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
			return
		}
		if req.Status == schedule.StatusGiven {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Status 'given' is for medication logs; use 'fed'"})
			return
		}

		userID, _ := authUserIDPtr(c)

		logEntry, err := logEntryFromRequest(req, foodID, userID, time.Now())
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		saved, err := logs.AppendFoodLog(c.Request.Context(), logEntry)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create log", "details": err.Error()})
			return
		}

		c.JSON(http.StatusCreated, toLogResponse(saved))
	}
}

// ListFoodLogs returns a food schedule's log history within a date range
func ListFoodLogs(logs *repository.LogRepository, food *repository.FoodRepository, pets *repository.PetRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		foodID, err := uuid.Parse(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid food schedule ID format"})
			return
		}

		entry, err := food.GetByID(c.Request.Context(), foodID)
		if err != nil {
			if errors.Is(err, repository.ErrFoodScheduleNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "Food schedule not found"})
			} else {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to query food schedule"})
			}
			return
		}

		if !checkPetAccess(c, pets, entry.PetID) {
			return
		}

		start, end, ok := parseHistoryRange(c)
		if !ok {
			return
		}

		entries, err := logs.ListFoodHistory(c.Request.Context(), foodID, start, end)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to query logs"})
			return
		}

		responses := make([]models.LogResponse, 0, len(entries))
		for _, logEntry := range entries {
			responses = append(responses, toLogResponse(logEntry))
		}

		c.JSON(http.StatusOK, gin.H{
			"food_schedule_id": foodID,
			"logs":             responses,
			"count":            len(responses),
		})
	}
}

// parseHistoryRange reads start/end query params, defaulting to the last
// 30 days. The range is [start, end).
func parseHistoryRange(c *gin.Context) (time.Time, time.Time, bool) {
	now := time.Now()
	start := now.AddDate(0, 0, -30)
	end := now.AddDate(0, 0, 1)

	if param := c.Query("start"); param != "" {
		parsed, err := time.Parse("2006-01-02", param)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid start format. Use YYYY-MM-DD"})
			return time.Time{}, time.Time{}, false
		}
		start = parsed
	}
	if param := c.Query("end"); param != "" {
		parsed, err := time.Parse("2006-01-02", param)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid end format. Use YYYY-MM-DD"})
			return time.Time{}, time.Time{}, false
		}
		// End date is inclusive in the API
		end = parsed.AddDate(0, 0, 1)
	}

	return start, end, true
}
