package services

import (
	"testing"
	"time"

	"github.com/beatclash/backend/internal/models"
	"github.com/beatclash/backend/pkg/crypto"
	"github.com/redis/go-redis/v9"
)

// newTestRedis returns a client pointing at a closed port. The auth service
// degrades gracefully when Redis is unreachable, which is exactly what these
// tests exercise.
func newTestRedis() *redis.Client {
	return redis.NewClient(&redis.Options{Addr: "127.0.0.1:1"})
}

func TestRegister(t *testing.T) {
	db := newTestDB(t)
	svc := NewAuthService(db, newTestRedis(), newTestConfig())

	user, err := svc.Register("fresh", "fresh@example.com", "Str0ng!Pass", "Fresh", "Face")
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if user.Role != models.RoleListener {
		t.Errorf("Role = %s, want listener", user.Role)
	}
	if user.Password == "Str0ng!Pass" {
		t.Error("Password stored in plaintext")
	}
	if !crypto.CheckPassword("Str0ng!Pass", user.Password) {
		t.Error("Stored hash does not match password")
	}

	if _, err := svc.Register("fresh", "other@example.com", "Str0ng!Pass", "", ""); err == nil {
		t.Error("Expected error for duplicate username")
	}
	if _, err := svc.Register("other", "fresh@example.com", "Str0ng!Pass", "", ""); err == nil {
		t.Error("Expected error for duplicate email")
	}
}

func TestLoginAndRefresh(t *testing.T) {
	db := newTestDB(t)
	svc := NewAuthService(db, newTestRedis(), newTestConfig())

	if _, err := svc.Register("singer", "singer@example.com", "Str0ng!Pass", "", ""); err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	accessToken, refreshToken, user, err := svc.Login("singer", "Str0ng!Pass")
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	if accessToken == "" || refreshToken == "" {
		t.Fatal("Expected non-empty token pair")
	}
	if user.Username != "singer" {
		t.Errorf("Username = %s, want singer", user.Username)
	}

	// Login by email works too
	if _, _, _, err := svc.Login("singer@example.com", "Str0ng!Pass"); err != nil {
		t.Errorf("Login by email failed: %v", err)
	}

	claims, err := svc.ValidateAccessToken(accessToken)
	if err != nil {
		t.Fatalf("ValidateAccessToken failed: %v", err)
	}
	if claims.UserID != user.ID.String() {
		t.Errorf("Claims user ID = %s, want %s", claims.UserID, user.ID)
	}

	// Refresh tokens are not valid as access tokens
	if _, err := svc.ValidateAccessToken(refreshToken); err == nil {
		t.Error("Refresh token accepted as access token")
	}

	newAccess, err := svc.RefreshToken(refreshToken)
	if err != nil {
		t.Fatalf("RefreshToken failed: %v", err)
	}
	if _, err := svc.ValidateAccessToken(newAccess); err != nil {
		t.Errorf("Refreshed access token invalid: %v", err)
	}

	// Access tokens cannot be used to refresh
	if _, err := svc.RefreshToken(accessToken); err == nil {
		t.Error("Access token accepted as refresh token")
	}
}

func TestLoginBadCredentials(t *testing.T) {
	db := newTestDB(t)
	svc := NewAuthService(db, newTestRedis(), newTestConfig())

	if _, err := svc.Register("locked", "locked@example.com", "Str0ng!Pass", "", ""); err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	if _, _, _, err := svc.Login("locked", "wrong-password"); err == nil {
		t.Error("Expected error for wrong password")
	}
	if _, _, _, err := svc.Login("nobody", "Str0ng!Pass"); err == nil {
		t.Error("Expected error for unknown user")
	}

	db.Model(&models.User{}).Where("username = ?", "locked").Update("is_active", false)
	if _, _, _, err := svc.Login("locked", "Str0ng!Pass"); err == nil {
		t.Error("Expected error for deactivated account")
	}
}

func TestLogoutRevokesRefreshTokens(t *testing.T) {
	db := newTestDB(t)
	svc := NewAuthService(db, newTestRedis(), newTestConfig())

	if _, err := svc.Register("leaver", "leaver@example.com", "Str0ng!Pass", "", ""); err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	_, refreshToken, user, err := svc.Login("leaver", "Str0ng!Pass")
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}

	if err := svc.Logout(user.ID, ""); err != nil {
		t.Fatalf("Logout failed: %v", err)
	}

	if _, err := svc.RefreshToken(refreshToken); err == nil {
		t.Error("Refresh token still valid after logout")
	}
}

func TestCleanupExpiredTokens(t *testing.T) {
	db := newTestDB(t)
	svc := NewAuthService(db, newTestRedis(), newTestConfig())

	if _, err := svc.Register("sleeper", "sleeper@example.com", "Str0ng!Pass", "", ""); err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if _, _, _, err := svc.Login("sleeper", "Str0ng!Pass"); err != nil {
		t.Fatalf("Login failed: %v", err)
	}

	db.Model(&models.RefreshToken{}).Where("expires_at > ?", time.Time{}).Update("expires_at", time.Now().Add(-24*time.Hour))

	deleted, err := svc.CleanupExpiredTokens()
	if err != nil {
		t.Fatalf("CleanupExpiredTokens failed: %v", err)
	}
	if deleted != 1 {
		t.Errorf("Deleted = %d, want 1", deleted)
	}
}
