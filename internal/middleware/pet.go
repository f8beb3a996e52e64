package middleware

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/kjanat/petmed-tracker-sub000/internal/models"
)

type contextKey string

const (
	PetContextKey contextKey = "pet"
	PetRoleKey    contextKey = "pet_role"
)

// ErrNotCaregiver is returned by PetAccessChecker implementations when the
// user has no caregiver relationship with the pet.
var ErrNotCaregiver = errors.New("user is not a caregiver for this pet")

// PetAccessChecker resolves a pet and the caller's caregiver role for it
type PetAccessChecker interface {
	GetByID(ctx context.Context, petID uuid.UUID) (*models.Pet, error)
	CaregiverRole(ctx context.Context, petID, userID uuid.UUID) (string, error)
}

// PetAccess loads the pet from the :petId route param and verifies the
// authenticated user is one of its caregivers. No occurrence or log data is
// ever touched for a caller that fails this check.
func PetAccess(pets PetAccessChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		petID, err := uuid.Parse(c.Param("petId"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid pet ID format"})
			c.Abort()
			return
		}

		userID, exists := GetAuthUserID(c)
		if !exists {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
			c.Abort()
			return
		}

		role, err := pets.CaregiverRole(c.Request.Context(), petID, userID)
		if err != nil {
			if errors.Is(err, ErrNotCaregiver) {
				c.JSON(http.StatusForbidden, gin.H{"error": "You do not have access to this pet"})
			} else {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check pet access"})
			}
			c.Abort()
			return
		}

		pet, err := pets.GetByID(c.Request.Context(), petID)
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Pet not found"})
			c.Abort()
			return
		}

		// Store pet info in context
		c.Set(string(PetContextKey), pet)
		c.Set(string(PetRoleKey), role)

		c.Next()
	}
}

// GetPet retrieves the pet loaded by PetAccess from context
func GetPet(c *gin.Context) (*models.Pet, bool) {
	val, exists := c.Get(string(PetContextKey))
	if !exists {
		return nil, false
	}
	pet, ok := val.(*models.Pet)
	return pet, ok
}

// GetPetRole retrieves the caller's caregiver role from context
func GetPetRole(c *gin.Context) (string, bool) {
	val, exists := c.Get(string(PetRoleKey))
	if !exists {
		return "", false
	}
	role, ok := val.(string)
	return role, ok
}
