package services

import (
	"errors"
	"fmt"
	"testing"

	"github.com/beatclash/backend/internal/models"
)

func TestCreateGenre(t *testing.T) {
	db := newTestDB(t)
	svc := NewGenreService(db)

	genre, err := svc.CreateGenre("Hip Hop", 50)
	if err != nil {
		t.Fatalf("CreateGenre failed: %v", err)
	}
	if genre.Slug != "hip-hop" {
		t.Errorf("Slug = %s, want hip-hop", genre.Slug)
	}
	if genre.MaxTrialSlots != 50 {
		t.Errorf("MaxTrialSlots = %d, want 50", genre.MaxTrialSlots)
	}

	if _, err := svc.CreateGenre("Hip Hop", 50); err == nil {
		t.Error("Expected error creating duplicate genre")
	}
}

func TestCreateGenreRosterCap(t *testing.T) {
	db := newTestDB(t)
	svc := NewGenreService(db)

	for i := 0; i < maxGenres; i++ {
		if _, err := svc.CreateGenre(fmt.Sprintf("Genre %d", i), 10); err != nil {
			t.Fatalf("CreateGenre %d failed: %v", i, err)
		}
	}

	_, err := svc.CreateGenre("One Too Many", 10)
	if !errors.Is(err, ErrGenreLimit) {
		t.Errorf("Over-cap error = %v, want ErrGenreLimit", err)
	}

	var count int64
	db.Model(&models.Genre{}).Count(&count)
	if count != maxGenres {
		t.Errorf("Genre count = %d, want %d", count, maxGenres)
	}
}

func TestAvailableTrialSlots(t *testing.T) {
	db := newTestDB(t)
	svc := NewGenreService(db)

	genre := createTestGenre(t, db, "Techno", 10)

	available, err := svc.AvailableTrialSlots(genre.ID)
	if err != nil {
		t.Fatalf("AvailableTrialSlots failed: %v", err)
	}
	if available != 10 {
		t.Errorf("Available = %d, want 10", available)
	}

	db.Model(&models.Genre{}).Where("id = ?", genre.ID).Update("filled_trial_slots", 7)

	available, err = svc.AvailableTrialSlots(genre.ID)
	if err != nil {
		t.Fatalf("AvailableTrialSlots failed: %v", err)
	}
	if available != 3 {
		t.Errorf("Available = %d, want 3", available)
	}
}

func TestGetGenresOrdered(t *testing.T) {
	db := newTestDB(t)
	svc := NewGenreService(db)

	createTestGenre(t, db, "Techno", 10)
	createTestGenre(t, db, "Ambient", 10)
	createTestGenre(t, db, "House", 10)

	genres, err := svc.GetGenres()
	if err != nil {
		t.Fatalf("GetGenres failed: %v", err)
	}
	if len(genres) != 3 {
		t.Fatalf("Genre count = %d, want 3", len(genres))
	}

	wantOrder := []string{"Ambient", "House", "Techno"}
	for i, want := range wantOrder {
		if genres[i].Name != want {
			t.Errorf("genres[%d] = %s, want %s", i, genres[i].Name, want)
		}
	}
}
