package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/kjanat/petmed-tracker-sub000/internal/middleware"
	"github.com/kjanat/petmed-tracker-sub000/internal/models"
	"github.com/kjanat/petmed-tracker-sub000/internal/repository"
)

// ListPets returns all pets the authenticated user cares for
func ListPets(pets *repository.PetRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, exists := middleware.GetAuthUserID(c)
		if !exists {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
			return
		}

		list, err := pets.ListForUser(c.Request.Context(), userID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to query pets"})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"pets":  list,
			"count": len(list),
		})
	}
}

// CreatePet creates a new pet owned by the authenticated user
func CreatePet(pets *repository.PetRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, exists := middleware.GetAuthUserID(c)
		if !exists {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
			return
		}

		var req models.PetCreateRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
			return
		}

		pet := models.Pet{
			Name:     req.Name,
			Species:  req.Species,
			Breed:    req.Breed,
			WeightKg: req.WeightKg,
		}

		if req.BirthDate != nil && *req.BirthDate != "" {
			parsed, err := time.Parse("2006-01-02", *req.BirthDate)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid birth_date format. Use YYYY-MM-DD"})
				return
			}
			pet.BirthDate = &parsed
		}

		if err := pets.Create(c.Request.Context(), &pet, userID); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create pet", "details": err.Error()})
			return
		}

		c.JSON(http.StatusCreated, pet)
	}
}

// AddCaregiver shares a pet with another user. Only the owner can share.
func AddCaregiver(pets *repository.PetRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		pet, ok := middleware.GetPet(c)
		if !ok {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Pet context not found"})
			return
		}

		role, _ := middleware.GetPetRole(c)
		if role != models.RoleOwner {
			c.JSON(http.StatusForbidden, gin.H{"error": "Only the owner can add caregivers"})
			return
		}

		var req struct {
			UserID uuid.UUID `json:"user_id" binding:"required"`
			Role   string    `json:"role" binding:"omitempty,oneof=owner caregiver"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
			return
		}
		if req.Role == "" {
			req.Role = models.RoleCaregiver
		}

		if err := pets.AddCaregiver(c.Request.Context(), pet.ID, req.UserID, req.Role); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to add caregiver", "details": err.Error()})
			return
		}

		c.JSON(http.StatusCreated, gin.H{
			"pet_id":  pet.ID,
			"user_id": req.UserID,
			"role":    req.Role,
		})
	}
}

// GetPet returns the pet loaded by the access middleware
func GetPet() gin.HandlerFunc {
	return func(c *gin.Context) {
		pet, ok := middleware.GetPet(c)
		if !ok {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Pet context not found"})
			return
		}

		role, _ := middleware.GetPetRole(c)

		c.JSON(http.StatusOK, gin.H{
			"pet":  pet,
			"role": role,
		})
	}
}
