package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/kjanat/petmed-tracker-sub000/internal/middleware"
	"github.com/kjanat/petmed-tracker-sub000/internal/models"
)

var ErrPetNotFound = errors.New("pet not found")

type PetRepository struct {
	db *pgxpool.Pool
}

func NewPetRepository(db *pgxpool.Pool) *PetRepository {
	return &PetRepository{db: db}
}

// GetByID retrieves a pet by its ID
func (r *PetRepository) GetByID(ctx context.Context, petID uuid.UUID) (*models.Pet, error) {
	query := `
		SELECT id, name, species, breed, birth_date, weight_kg, qr_token, created_at
		FROM pets
		WHERE id = $1
	`

	var pet models.Pet
	err := r.db.QueryRow(ctx, query, petID).Scan(
		&pet.ID,
		&pet.Name,
		&pet.Species,
		&pet.Breed,
		&pet.BirthDate,
		&pet.WeightKg,
		&pet.QRToken,
		&pet.CreatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrPetNotFound
		}
		return nil, err
	}

	return &pet, nil
}

// GetByQRToken retrieves a pet by its emergency QR token
func (r *PetRepository) GetByQRToken(ctx context.Context, token string) (*models.Pet, error) {
	query := `
		SELECT id, name, species, breed, birth_date, weight_kg, qr_token, created_at
		FROM pets
		WHERE qr_token = $1
	`

	var pet models.Pet
	err := r.db.QueryRow(ctx, query, token).Scan(
		&pet.ID,
		&pet.Name,
		&pet.Species,
		&pet.Breed,
		&pet.BirthDate,
		&pet.WeightKg,
		&pet.QRToken,
		&pet.CreatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrPetNotFound
		}
		return nil, err
	}

	return &pet, nil
}

// ListForUser returns all pets the user is a caregiver for
func (r *PetRepository) ListForUser(ctx context.Context, userID uuid.UUID) ([]models.PetListResponse, error) {
	query := `
		SELECT p.id, p.name, p.species, pc.role
		FROM pets p
		JOIN pet_caregivers pc ON pc.pet_id = p.id
		WHERE pc.user_id = $1
		ORDER BY p.name ASC
	`

	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	pets := []models.PetListResponse{}
	for rows.Next() {
		var pet models.PetListResponse
		if err := rows.Scan(&pet.ID, &pet.Name, &pet.Species, &pet.Role); err != nil {
			return nil, err
		}
		pets = append(pets, pet)
	}

	return pets, rows.Err()
}

// ListIDs returns the IDs of every pet. Used by the reminder scanner.
func (r *PetRepository) ListIDs(ctx context.Context) ([]uuid.UUID, error) {
	rows, err := r.db.Query(ctx, `SELECT id FROM pets ORDER BY created_at`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}

	return ids, rows.Err()
}

// Create inserts a new pet and registers the creating user as its owner
func (r *PetRepository) Create(ctx context.Context, pet *models.Pet, ownerID uuid.UUID) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if pet.ID == uuid.Nil {
		pet.ID = uuid.New()
	}
	if pet.QRToken == "" {
		pet.QRToken = uuid.NewString()
	}

	query := `
		INSERT INTO pets (id, name, species, breed, birth_date, weight_kg, qr_token, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW())
		RETURNING created_at
	`
	err = tx.QueryRow(ctx, query,
		pet.ID, pet.Name, pet.Species, pet.Breed, pet.BirthDate, pet.WeightKg, pet.QRToken,
	).Scan(&pet.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert pet: %w", err)
	}

	_, err = tx.Exec(ctx,
		`INSERT INTO pet_caregivers (pet_id, user_id, role) VALUES ($1, $2, $3)`,
		pet.ID, ownerID, models.RoleOwner,
	)
	if err != nil {
		return fmt.Errorf("failed to register owner: %w", err)
	}

	return tx.Commit(ctx)
}

// CaregiverRole returns the user's role for the pet, or
// middleware.ErrNotCaregiver when no relationship exists
func (r *PetRepository) CaregiverRole(ctx context.Context, petID, userID uuid.UUID) (string, error) {
	var role string
	err := r.db.QueryRow(ctx,
		`SELECT role FROM pet_caregivers WHERE pet_id = $1 AND user_id = $2`,
		petID, userID,
	).Scan(&role)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", middleware.ErrNotCaregiver
		}
		return "", err
	}

	return role, nil
}

// AddCaregiver grants a user access to a pet
func (r *PetRepository) AddCaregiver(ctx context.Context, petID, userID uuid.UUID, role string) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO pet_caregivers (pet_id, user_id, role) VALUES ($1, $2, $3)
		 ON CONFLICT (pet_id, user_id) DO UPDATE SET role = $3`,
		petID, userID, role,
	)
	return err
}
