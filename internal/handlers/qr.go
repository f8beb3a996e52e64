package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/kjanat/petmed-tracker-sub000/internal/models"
	"github.com/kjanat/petmed-tracker-sub000/internal/repository"
	"github.com/kjanat/petmed-tracker-sub000/internal/schedule"
)

// QRDaySchedule is the emergency view: anyone holding the pet's QR token
// (a tag on the collar) can see today's schedule without an account, so a
// sitter or vet knows what has and hasn't been given
func QRDaySchedule(pets *repository.PetRepository, rec *schedule.Reconciler) gin.HandlerFunc {
	return func(c *gin.Context) {
		pet, err := pets.GetByQRToken(c.Request.Context(), c.Param("token"))
		if err != nil {
			if errors.Is(err, repository.ErrPetNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "Unknown QR token"})
			} else {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to look up pet"})
			}
			return
		}

		// The emergency view always shows today.
		now := time.Now()

		occurrences, err := rec.DaySchedule(c.Request.Context(), pet.ID, now)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to build day schedule"})
			return
		}

		entries := make([]models.DayScheduleEntry, 0, len(occurrences))
		for _, occ := range occurrences {
			entries = append(entries, models.NewDayScheduleEntry(occ, now))
		}

		c.JSON(http.StatusOK, models.DayScheduleResponse{
			PetID:   pet.ID,
			PetName: pet.Name,
			Date:    now.Format("2006-01-02"),
			Entries: entries,
			Count:   len(entries),
		})
	}
}

// QRCreateMedicationLog lets an anonymous QR holder record a dose outcome.
// The log's actor is left empty; the entry is otherwise identical to an
// authenticated one.
func QRCreateMedicationLog(pets *repository.PetRepository, meds *repository.MedicationRepository, logs *repository.LogRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		pet, err := pets.GetByQRToken(c.Request.Context(), c.Param("token"))
		if err != nil {
			if errors.Is(err, repository.ErrPetNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "Unknown QR token"})
			} else {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to look up pet"})
			}
			return
		}

		var req struct {
			MedicationID string `json:"medication_id" binding:"required"`
			models.LogCreateRequest
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
			return
		}

		med, ok := lookupMedicationForPet(c, meds, req.MedicationID, pet)
		if !ok {
			return
		}

		entry, err := logEntryFromRequest(req.LogCreateRequest, med.ID, nil, time.Now())
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

// lookupMedicationForPet resolves a medication ID and verifies it belongs
// to the QR token's pet, so a token for one pet can never log against another
func lookupMedicationForPet(c *gin.Context, meds *repository.MedicationRepository, rawID string, pet *models.Pet) (*models.Medication, bool) {
	medID, err := uuid.Parse(rawID)
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

	if med.PetID != pet.ID {
		c.JSON(http.StatusForbidden, gin.H{"error": "Medication does not belong to this pet"})
		return nil, false
	}

	return med, true
}
