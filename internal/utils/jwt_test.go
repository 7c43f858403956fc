package utils

import (
	"testing"

	"github.com/google/uuid"
)

func TestGenerateAndValidateToken(t *testing.T) {
	secret := "test-secret"
	userID := uuid.New()

	token, err := GenerateToken(userID, "user@example.com", "customer", "Test User", secret)
	if err != nil {
		t.Fatalf("GenerateToken failed: %v", err)
	}

	claims, err := ValidateToken(token, secret)
	if err != nil {
		t.Fatalf("ValidateToken failed: %v", err)
	}
	if claims.UserID != userID {
		t.Errorf("expected user id %s, got %s", userID, claims.UserID)
	}
	if claims.Email != "user@example.com" || claims.Role != "customer" || claims.Name != "Test User" {
		t.Errorf("claims mismatch: %+v", claims)
	}
}

func TestValidateTokenWrongSecret(t *testing.T) {
	token, err := GenerateToken(uuid.New(), "user@example.com", "customer", "Test", "right-secret")
	if err != nil {
		t.Fatalf("GenerateToken failed: %v", err)
	}
	if _, err := ValidateToken(token, "wrong-secret"); err == nil {
		t.Error("a token signed with another secret must not validate")
	}
}

func TestValidateTokenGarbage(t *testing.T) {
	if _, err := ValidateToken("not.a.token", "secret"); err == nil {
		t.Error("garbage input must not validate")
	}
}

func TestGenerateRandomString(t *testing.T) {
	a, err := GenerateRandomString(8)
	if err != nil {
		t.Fatalf("GenerateRandomString failed: %v", err)
	}
	if len(a) != 16 {
		t.Errorf("expected 16 hex characters for 8 bytes, got %d", len(a))
	}
	b, _ := GenerateRandomString(8)
	if a == b {
		t.Error("two draws should not collide")
	}
}
