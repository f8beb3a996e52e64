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

// ruleFromRequest builds and validates a recurrence rule from an API request
func ruleFromRequest(req models.ScheduleCreateRequest) (schedule.Rule, error) {
	rule := schedule.Rule{
		ScheduleType: req.ScheduleType,
		Times:        req.Times,
		DaysOfWeek:   req.DaysOfWeek,
		IsActive:     true,
	}

	if req.StartDate != nil && *req.StartDate != "" {
		parsed, err := time.Parse("2006-01-02", *req.StartDate)
		if err != nil {
			return schedule.Rule{}, errors.New("invalid start_date format, use YYYY-MM-DD")
		}
		rule.StartDate = &parsed
	}
	if req.EndDate != nil && *req.EndDate != "" {
		parsed, err := time.Parse("2006-01-02", *req.EndDate)
		if err != nil {
			return schedule.Rule{}, errors.New("invalid end_date format, use YYYY-MM-DD")
		}
		rule.EndDate = &parsed
	}

	if err := rule.Validate(); err != nil {
		return schedule.Rule{}, err
	}
	return rule, nil
}

// requireMedicationAccess loads a medication by the :id param and verifies
// the caller is a caregiver of its pet. Writes the error response itself.
func requireMedicationAccess(c *gin.Context, meds *repository.MedicationRepository, pets *repository.PetRepository) (*models.Medication, bool) {
	medID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid medication ID format"})
		return nil, false
	}

	med, err := meds.GetByID(c.Request.Context(), medID)
	if err != nil {
		if errors.Is(err, repository.ErrMedicationNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Medication not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to query medication"})
		}
		return nil, false
	}

	userID, exists := middleware.GetAuthUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return nil, false
	}

	if _, err := pets.CaregiverRole(c.Request.Context(), med.PetID, userID); err != nil {
		if errors.Is(err, middleware.ErrNotCaregiver) {
			c.JSON(http.StatusForbidden, gin.H{"error": "You do not have access to this pet"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check pet access"})
		}
		return nil, false
	}

	return med, true
}

// ListMedications returns the pet's active medications with their schedules
func ListMedications(meds *repository.MedicationRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		pet, ok := middleware.GetPet(c)
		if !ok {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Pet context not found"})
			return
		}

		list, err := meds.ListForPet(c.Request.Context(), pet.ID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to query medications"})
			return
		}

		details := []models.MedicationDetailResponse{}
		for _, med := range list {
			stored, err := meds.ListSchedules(c.Request.Context(), med.ID)
			if err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to query schedules"})
				return
			}

			schedules := []models.ScheduleResponse{}
			for _, rule := range stored {
				resp, err := repository.ScheduleToResponse(rule)
				if err != nil {
					// Corrupt stored rule: omit it from the listing rather
					// than failing the whole response.
					continue
				}
				schedules = append(schedules, resp)
			}

			details = append(details, models.MedicationDetailResponse{
				Medication: med,
				Schedules:  schedules,
			})
		}

		c.JSON(http.StatusOK, gin.H{
			"pet_id":      pet.ID,
			"medications": details,
			"count":       len(details),
		})
	}
}

// CreateMedication creates a medication, optionally with an initial schedule
func CreateMedication(meds *repository.MedicationRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		pet, ok := middleware.GetPet(c)
		if !ok {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Pet context not found"})
			return
		}

		var req models.MedicationCreateRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
			return
		}

		// Validate the schedule before touching the database
		var rule schedule.Rule
		if req.Schedule != nil {
			var err error
			rule, err = ruleFromRequest(*req.Schedule)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
		}

		med := models.Medication{
			PetID:        pet.ID,
			Name:         req.Name,
			Dosage:       req.Dosage,
			Unit:         req.Unit,
			Instructions: req.Instructions,
		}
		if err := meds.Create(c.Request.Context(), &med); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create medication", "details": err.Error()})
			return
		}

		var scheduleID *uuid.UUID
		if req.Schedule != nil {
			id, err := meds.AddSchedule(c.Request.Context(), med.ID, rule)
			if err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create schedule", "details": err.Error()})
				return
			}
			scheduleID = &id
		}

		c.JSON(http.StatusCreated, gin.H{
			"medication":  med,
			"schedule_id": scheduleID,
		})
	}
}

// GetMedication returns one medication with its schedules
func GetMedication(meds *repository.MedicationRepository, pets *repository.PetRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		med, ok := requireMedicationAccess(c, meds, pets)
		if !ok {
			return
		}

		stored, err := meds.ListSchedules(c.Request.Context(), med.ID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to query schedules"})
			return
		}

		schedules := []models.ScheduleResponse{}
		for _, rule := range stored {
			resp, err := repository.ScheduleToResponse(rule)
			if err != nil {
				continue
			}
			schedules = append(schedules, resp)
		}

		c.JSON(http.StatusOK, models.MedicationDetailResponse{
			Medication: *med,
			Schedules:  schedules,
		})
	}
}

// CreateSchedule adds a recurrence rule to a medication
func CreateSchedule(meds *repository.MedicationRepository, pets *repository.PetRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		med, ok := requireMedicationAccess(c, meds, pets)
		if !ok {
			return
		}

		var req models.ScheduleCreateRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
			return
		}

		rule, err := ruleFromRequest(req)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		scheduleID, err := meds.AddSchedule(c.Request.Context(), med.ID, rule)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create schedule", "details": err.Error()})
			return
		}

		c.JSON(http.StatusCreated, gin.H{
			"id":            scheduleID,
			"medication_id": med.ID,
		})
	}
}

// UpdateSchedule edits a rule's times, weekdays or date bounds
func UpdateSchedule(meds *repository.MedicationRepository, pets *repository.PetRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		scheduleID, err := uuid.Parse(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid schedule ID format"})
			return
		}

		stored, petID, err := meds.GetSchedule(c.Request.Context(), scheduleID)
		if err != nil {
			if errors.Is(err, repository.ErrScheduleNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "Schedule not found"})
			} else {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to query schedule"})
			}
			return
		}

		if !checkPetAccess(c, pets, petID) {
			return
		}

		rule, err := stored.Parse()
		if err != nil {
			// The stored rule is corrupt; an edit must supply a full
			// replacement before it can be saved again.
			rule = schedule.Rule{ID: stored.ID, ScheduleType: stored.ScheduleType, IsActive: stored.IsActive}
		}

		var req models.ScheduleUpdateRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
			return
		}

		if req.Times != nil {
			rule.Times = req.Times
		}
		if req.DaysOfWeek != nil {
			rule.DaysOfWeek = req.DaysOfWeek
		}
		if req.StartDate != nil {
			parsed, err := time.Parse("2006-01-02", *req.StartDate)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid start_date format. Use YYYY-MM-DD"})
				return
			}
			rule.StartDate = &parsed
		}
		if req.EndDate != nil {
			parsed, err := time.Parse("2006-01-02", *req.EndDate)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid end_date format. Use YYYY-MM-DD"})
				return
			}
			rule.EndDate = &parsed
		}
		if req.IsActive != nil {
			rule.IsActive = *req.IsActive
		}

		if err := rule.Validate(); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		if err := meds.UpdateSchedule(c.Request.Context(), scheduleID, rule); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update schedule", "details": err.Error()})
			return
		}

		c.JSON(http.StatusOK, gin.H{"id": scheduleID, "message": "Schedule updated"})
	}
}

// DeleteSchedule soft-deletes a rule by flipping is_active
func DeleteSchedule(meds *repository.MedicationRepository, pets *repository.PetRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		scheduleID, err := uuid.Parse(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid schedule ID format"})
			return
		}

		_, petID, err := meds.GetSchedule(c.Request.Context(), scheduleID)
		if err != nil {
			if errors.Is(err, repository.ErrScheduleNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "Schedule not found"})
			} else {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to query schedule"})
			}
			return
		}

		if !checkPetAccess(c, pets, petID) {
			return
		}

		if err := meds.DeactivateSchedule(c.Request.Context(), scheduleID); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to deactivate schedule"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"id": scheduleID, "message": "Schedule deactivated"})
	}
}

// checkPetAccess verifies the caller is a caregiver of the pet,
// writing the error response on failure
func checkPetAccess(c *gin.Context, pets *repository.PetRepository, petID uuid.UUID) bool {
	userID, exists := middleware.GetAuthUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return false
	}

	if _, err := pets.CaregiverRole(c.Request.Context(), petID, userID); err != nil {
		if errors.Is(err, middleware.ErrNotCaregiver) {
			c.JSON(http.StatusForbidden, gin.H{"error": "You do not have access to this pet"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check pet access"})
		}
		return false
	}

	return true
}
