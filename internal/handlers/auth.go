package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/crypto/bcrypt"

	"github.com/kjanat/petmed-tracker-sub000/internal/auth"
	"github.com/kjanat/petmed-tracker-sub000/internal/middleware"
	"github.com/kjanat/petmed-tracker-sub000/internal/models"
)

type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type LoginResponse struct {
	Token    string    `json:"token"`
	UserID   uuid.UUID `json:"user_id"`
	Username string    `json:"username"`
}

// Register creates a new caregiver account
func Register(db *pgxpool.Pool, jwtService *auth.JWTService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.RegisterRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
			return
		}

		username := strings.ToLower(strings.TrimSpace(req.Username))
		email := strings.ToLower(strings.TrimSpace(req.Email))

		displayName := req.DisplayName
		if displayName == "" {
			displayName = req.Username
		}

		// Check for an existing account
		var exists bool
		err := db.QueryRow(c.Request.Context(),
			`SELECT EXISTS(SELECT 1 FROM users WHERE LOWER(username) = $1 OR LOWER(email) = $2)`,
			username, email,
		).Scan(&exists)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check existing users"})
			return
		}
		if exists {
			c.JSON(http.StatusConflict, gin.H{"error": "Username or email already in use"})
			return
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to hash password"})
			return
		}

		userID := uuid.New()
		var createdAt time.Time
		err = db.QueryRow(c.Request.Context(), `
			INSERT INTO users (id, email, username, password_hash, display_name, created_at)
			VALUES ($1, $2, $3, $4, $5, NOW())
			RETURNING created_at
		`, userID, email, username, string(hash), displayName).Scan(&createdAt)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create user", "details": err.Error()})
			return
		}

		token, err := jwtService.GenerateToken(userID, username)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
			return
		}

		c.JSON(http.StatusCreated, gin.H{
			"token": token,
			"user": models.UserResponse{
				ID:          userID,
				Email:       email,
				Username:    username,
				DisplayName: displayName,
				CreatedAt:   createdAt.Format(time.RFC3339),
			},
		})
	}
}

// Login authenticates a user and returns a JWT token
func Login(db *pgxpool.Pool, jwtService *auth.JWTService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req LoginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
			return
		}

		// Normalize username to lowercase
		username := strings.ToLower(strings.TrimSpace(req.Username))

		query := `
			SELECT id, username, password_hash
			FROM users
			WHERE LOWER(username) = $1
		`

		var userID uuid.UUID
		var dbUsername string
		var passwordHash *string

		err := db.QueryRow(c.Request.Context(), query, username).Scan(
			&userID, &dbUsername, &passwordHash,
		)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid username or password"})
			return
		}

		if passwordHash == nil || *passwordHash == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Password authentication not configured for this user"})
			return
		}

		// Verify password
		err = bcrypt.CompareHashAndPassword([]byte(*passwordHash), []byte(req.Password))
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid username or password"})
			return
		}

		token, err := jwtService.GenerateToken(userID, dbUsername)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
			return
		}

		c.JSON(http.StatusOK, LoginResponse{
			Token:    token,
			UserID:   userID,
			Username: dbUsername,
		})
	}
}

// Me returns the authenticated user's profile
func Me(db *pgxpool.Pool) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, exists := middleware.GetAuthUserID(c)
		if !exists {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
			return
		}

		query := `
			SELECT id, email, username, display_name, created_at
			FROM users
			WHERE id = $1
		`

		var user models.User
		err := db.QueryRow(c.Request.Context(), query, userID).Scan(
			&user.ID, &user.Email, &user.Username, &user.DisplayName, &user.CreatedAt,
		)
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}

		c.JSON(http.StatusOK, models.UserResponse{
			ID:          user.ID,
			Email:       user.Email,
			Username:    user.Username,
			DisplayName: user.DisplayName,
			CreatedAt:   user.CreatedAt.Format(time.RFC3339),
		})
	}
}
