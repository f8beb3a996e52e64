package auth

import (
	"testing"

	"github.com/google/uuid"
)

func TestJWTRoundTrip(t *testing.T) {
	service := NewJWTService("test-secret", "petmed-test")
	userID := uuid.New()

	token, err := service.GenerateToken(userID, "alex")
	if err != nil {
		t.Fatalf("failed to generate token: %v", err)
	}

	claims, err := service.ValidateToken(token)
	if err != nil {
		t.Fatalf("failed to validate token: %v", err)
	}
	if claims.UserID != userID {
		t.Errorf("expected user id %s, got %s", userID, claims.UserID)
	}
	if claims.Username != "alex" {
		t.Errorf("expected username alex, got %s", claims.Username)
	}
}

func TestValidateTokenRejectsWrongSecret(t *testing.T) {
	service := NewJWTService("secret-a", "petmed-test")
	other := NewJWTService("secret-b", "petmed-test")

	token, err := service.GenerateToken(uuid.New(), "alex")
	if err != nil {
		t.Fatalf("failed to generate token: %v", err)
	}

	if _, err := other.ValidateToken(token); err == nil {
		t.Fatal("expected validation to fail with the wrong secret")
	}
}

func TestValidateTokenRejectsGarbage(t *testing.T) {
	service := NewJWTService("test-secret", "petmed-test")
	if _, err := service.ValidateToken("not.a.token"); err == nil {
		t.Fatal("expected validation to fail for garbage input")
	}
}
