package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/kjanat/petmed-tracker-sub000/internal/middleware"
	"github.com/kjanat/petmed-tracker-sub000/internal/models"
	"github.com/kjanat/petmed-tracker-sub000/internal/repository"
)

// ListFood returns the pet's active food schedules
func ListFood(food *repository.FoodRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		pet, ok := middleware.GetPet(c)
		if !ok {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Pet context not found"})
			return
		}

		list, err := food.ListForPet(c.Request.Context(), pet.ID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to query food schedules"})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"pet_id": pet.ID,
			"food":   list,
			"count":  len(list),
		})
	}
}

// CreateFood creates a feeding plan with its recurrence rule
func CreateFood(food *repository.FoodRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		pet, ok := middleware.GetPet(c)
		if !ok {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Pet context not found"})
			return
		}

		var req models.FoodCreateRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
			return
		}

		rule, err := ruleFromRequest(req.Schedule)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		entry := models.FoodSchedule{
			PetID:        pet.ID,
			FoodType:     req.FoodType,
			Amount:       req.Amount,
			ScheduleType: rule.ScheduleType,
			Times:        rule.Times,
			DaysOfWeek:   rule.DaysOfWeek,
			StartDate:    rule.StartDate,
			EndDate:      rule.EndDate,
		}
		if err := food.Create(c.Request.Context(), &entry); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create food schedule", "details": err.Error()})
			return
		}

		c.JSON(http.StatusCreated, entry)
	}
}

// DeleteFood soft-deletes a feeding plan
func DeleteFood(food *repository.FoodRepository, pets *repository.PetRepository) gin.HandlerFunc {
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

		if err := food.Deactivate(c.Request.Context(), foodID); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to deactivate food schedule"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"id": foodID, "message": "Food schedule deactivated"})
	}
}
