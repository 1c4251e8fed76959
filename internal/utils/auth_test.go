package utils

import (
	"testing"
	"time"

	"github.com/xelth-com/storesync/internal/config"
	"github.com/xelth-com/storesync/internal/models"
)

func TestPasswordHashing(t *testing.T) {
	password := "secret123"

	// Test Hashing
	hash, err := HashPassword(password)
	if err != nil {
		t.Fatalf("Failed to hash password: %v", err)
	}
	if hash == password {
		t.Error("Hash should not match plaintext password")
	}
	if !IsPasswordHash(hash) {
		t.Errorf("bcrypt output should be recognized as a hash: %s", hash)
	}

	// Test Comparison (Success)
	if !CheckPasswordHash(password, hash) {
		t.Error("Password should match hash")
	}

	// Test Comparison (Failure)
	if CheckPasswordHash("wrongpassword", hash) {
		t.Error("Wrong password should not match hash")
	}
}

func TestIsPasswordHash(t *testing.T) {
	cases := map[string]bool{
		"$2b$10$abcdefghijklmnopqrstuv":         true,
		"pbkdf2_sha256$600000$salt$digest":      true,
		"argon2$argon2id$v=19$m=102400,t=2,p=8": true,
		"ChangeMe123!":                          false,
		"":                                      false,
		"2b$10$missingdollar":                   false,
	}
	for input, want := range cases {
		if got := IsPasswordHash(input); got != want {
			t.Errorf("IsPasswordHash(%q) = %v, want %v", input, got, want)
		}
	}
}

func TestJWT(t *testing.T) {
	// Setup Mock Config
	cfg := &config.Config{
		JWTSecret:      "test-secret-key-12345",
		AccessTokenTTL: time.Hour,
	}

	store := "store-1"
	user := &models.User{
		ID:      "uuid-1234",
		Email:   "test@example.com",
		Role:    "staff",
		StoreID: &store,
	}

	// Test Generation
	accessToken, refreshToken, err := GenerateTokens(user, cfg)
	if err != nil {
		t.Fatalf("Failed to generate tokens: %v", err)
	}
	if accessToken == "" || refreshToken == "" {
		t.Error("Tokens should not be empty")
	}

	// Test Validation (Success)
	claims, err := ValidateToken(accessToken, cfg.JWTSecret)
	if err != nil {
		t.Fatalf("Failed to validate token: %v", err)
	}

	if claims["id"] != user.ID {
		t.Errorf("Expected user ID %s, got %v", user.ID, claims["id"])
	}
	if claims["store_id"] != store {
		t.Errorf("Expected store %s, got %v", store, claims["store_id"])
	}
	if claims["admin"] != false {
		t.Errorf("Expected non-admin claim, got %v", claims["admin"])
	}

	// Test Validation (Failure - Wrong Key)
	_, err = ValidateToken(accessToken, "wrong-key")
	if err == nil {
		t.Error("Validation should fail with wrong key")
	}
}
