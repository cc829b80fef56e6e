package jwt

import (
	"testing"
	"time"
)

const testSecret = "test-secret"

func TestGenerateAndValidateToken(t *testing.T) {
	token, err := GenerateToken("user-123", AccessToken, testSecret, time.Hour)
	if err != nil {
		t.Fatalf("GenerateToken failed: %v", err)
	}

	claims, err := ValidateToken(token, testSecret)
	if err != nil {
		t.Fatalf("ValidateToken failed: %v", err)
	}
	if claims.UserID != "user-123" {
		t.Errorf("UserID = %s, want user-123", claims.UserID)
	}
	if claims.TokenType != AccessToken {
		t.Errorf("TokenType = %s, want access", claims.TokenType)
	}
}

func TestValidateTokenWrongSecret(t *testing.T) {
	token, err := GenerateToken("user-123", AccessToken, testSecret, time.Hour)
	if err != nil {
		t.Fatalf("GenerateToken failed: %v", err)
	}

	if _, err := ValidateToken(token, "other-secret"); err == nil {
		t.Error("Expected error for wrong secret")
	}
}

func TestValidateExpiredToken(t *testing.T) {
	token, err := GenerateToken("user-123", AccessToken, testSecret, -time.Minute)
	if err != nil {
		t.Fatalf("GenerateToken failed: %v", err)
	}

	if _, err := ValidateToken(token, testSecret); err == nil {
		t.Error("Expected error for expired token")
	}
}

func TestIsTokenValid(t *testing.T) {
	access, _ := GenerateToken("user-123", AccessToken, testSecret, time.Hour)
	refresh, _ := GenerateToken("user-123", RefreshToken, testSecret, time.Hour)

	tests := []struct {
		name     string
		token    string
		expected TokenType
		want     bool
	}{
		{"access token as access", access, AccessToken, true},
		{"refresh token as refresh", refresh, RefreshToken, true},
		{"access token as refresh", access, RefreshToken, false},
		{"refresh token as access", refresh, AccessToken, false},
		{"garbage token", "not-a-token", AccessToken, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsTokenValid(tt.token, testSecret, tt.expected); got != tt.want {
				t.Errorf("IsTokenValid = %v, want %v", got, tt.want)
			}
		})
	}
}
