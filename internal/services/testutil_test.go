package services

import (
	"testing"
	"time"

	"github.com/beatclash/backend/internal/config"
	"github.com/beatclash/backend/internal/models"
	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB opens an in-memory sqlite database with the same error
// translation the production postgres connection uses. A single open
// connection keeps every goroutine on the same in-memory instance.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("Failed to get database instance: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := models.Migrate(db); err != nil {
		t.Fatalf("Failed to run migrations: %v", err)
	}

	return db
}

func newTestConfig() *config.Config {
	cfg := config.New()
	cfg.BcryptCost = 4
	return cfg
}

func createTestUser(t *testing.T, db *gorm.DB, username, role string) *models.User {
	t.Helper()

	user := &models.User{
		Username: username,
		Email:    username + "@example.com",
		Password: "hashed",
		Role:     role,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("Failed to create test user %s: %v", username, err)
	}
	return user
}

func createTestGenre(t *testing.T, db *gorm.DB, name string, maxTrialSlots int) *models.Genre {
	t.Helper()

	genre := &models.Genre{
		Name:          name,
		Slug:          slug.Make(name),
		MaxTrialSlots: maxTrialSlots,
	}
	if err := db.Create(genre).Error; err != nil {
		t.Fatalf("Failed to create test genre %s: %v", name, err)
	}
	return genre
}

func createTestBattle(t *testing.T, db *gorm.DB, genreID, creatorID uuid.UUID, status string) *models.Battle {
	t.Helper()

	battle := &models.Battle{
		Title:       "Test Battle",
		Slug:        "test-battle-" + uuid.NewString()[:8],
		GenreID:     genreID,
		CreatedByID: creatorID,
		Status:      status,
		EndsAt:      time.Now().Add(24 * time.Hour),
	}
	if err := db.Create(battle).Error; err != nil {
		t.Fatalf("Failed to create test battle: %v", err)
	}
	return battle
}

func createTestTrack(t *testing.T, db *gorm.DB, artistID, battleID uuid.UUID, title string) *models.Track {
	t.Helper()

	track := &models.Track{
		Title:    title,
		ArtistID: artistID,
		BattleID: battleID,
		AudioURL: "https://cdn.example.com/" + slug.Make(title) + ".mp3",
	}
	if err := db.Create(track).Error; err != nil {
		t.Fatalf("Failed to create test track %s: %v", title, err)
	}
	return track
}
