package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/kjanat/petmed-tracker-sub000/internal/middleware"
	"github.com/kjanat/petmed-tracker-sub000/internal/models"
	"github.com/kjanat/petmed-tracker-sub000/internal/schedule"
)

// GetDaySchedule returns the pet's merged, status-annotated schedule for one
// day: every expected dose and feeding across all active items, reconciled
// against the day's logs
func GetDaySchedule(rec *schedule.Reconciler) gin.HandlerFunc {
	return func(c *gin.Context) {
		pet, ok := middleware.GetPet(c)
		if !ok {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Pet context not found"})
			return
		}

		// If no date provided, use today
		now := time.Now()
		dateParam := c.Query("date")
		date := now
		if dateParam != "" {
			parsed, err := time.Parse("2006-01-02", dateParam)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid date format. Use YYYY-MM-DD"})
				return
			}
			date = parsed
		}

		occurrences, err := rec.DaySchedule(c.Request.Context(), pet.ID, date)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to build day schedule", "details": err.Error()})
			return
		}

		entries := make([]models.DayScheduleEntry, 0, len(occurrences))
		for _, occ := range occurrences {
			entries = append(entries, models.NewDayScheduleEntry(occ, now))
		}

		c.JSON(http.StatusOK, models.DayScheduleResponse{
			PetID:   pet.ID,
			PetName: pet.Name,
			Date:    date.Format("2006-01-02"),
			Entries: entries,
			Count:   len(entries),
		})
	}
}
