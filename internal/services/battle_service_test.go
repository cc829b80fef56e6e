package services

import (
	"testing"
	"time"

	"github.com/beatclash/backend/internal/models"
)

func TestCreateBattle(t *testing.T) {
	db := newTestDB(t)
	svc := NewBattleService(db)

	creator := createTestUser(t, db, "creator", models.RoleParticipant)
	genre := createTestGenre(t, db, "Hip Hop", 100)

	tests := []struct {
		name       string
		startsAt   *time.Time
		endsAt     time.Time
		prizePool  float64
		wantStatus string
		wantErr    bool
	}{
		{
			name:       "immediate battle is active",
			endsAt:     time.Now().Add(48 * time.Hour),
			prizePool:  100,
			wantStatus: models.BattleActive,
		},
		{
			name:       "future start is pending",
			startsAt:   timePtr(time.Now().Add(24 * time.Hour)),
			endsAt:     time.Now().Add(72 * time.Hour),
			wantStatus: models.BattlePending,
		},
		{
			name:    "end time in the past",
			endsAt:  time.Now().Add(-time.Hour),
			wantErr: true,
		},
		{
			name:      "negative prize pool",
			endsAt:    time.Now().Add(48 * time.Hour),
			prizePool: -5,
			wantErr:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			battle, err := svc.CreateBattle(creator.ID, genre.ID, "Friday Clash", "", tt.startsAt, tt.endsAt, tt.prizePool)
			if tt.wantErr {
				if err == nil {
					t.Error("Expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("CreateBattle failed: %v", err)
			}
			if battle.Status != tt.wantStatus {
				t.Errorf("Status = %s, want %s", battle.Status, tt.wantStatus)
			}
			if battle.Slug == "" {
				t.Error("Expected non-empty slug")
			}
		})
	}
}

func TestCreateBattleUnknownGenre(t *testing.T) {
	db := newTestDB(t)
	svc := NewBattleService(db)

	creator := createTestUser(t, db, "creator", models.RoleParticipant)

	_, err := svc.CreateBattle(creator.ID, creator.ID, "Nowhere Battle", "", nil, time.Now().Add(time.Hour), 0)
	if err == nil {
		t.Error("Expected error for unknown genre")
	}
}

func TestGetBattlesFiltering(t *testing.T) {
	db := newTestDB(t)
	svc := NewBattleService(db)

	creator := createTestUser(t, db, "creator", models.RoleParticipant)
	hiphop := createTestGenre(t, db, "Hip Hop", 100)
	techno := createTestGenre(t, db, "Techno", 100)

	createTestBattle(t, db, hiphop.ID, creator.ID, models.BattleActive)
	createTestBattle(t, db, hiphop.ID, creator.ID, models.BattleEnded)
	createTestBattle(t, db, techno.ID, creator.ID, models.BattleActive)

	all, err := svc.GetBattles(nil, "")
	if err != nil {
		t.Fatalf("GetBattles failed: %v", err)
	}
	if len(all) != 3 {
		t.Errorf("All battles = %d, want 3", len(all))
	}

	hiphopOnly, err := svc.GetBattles(&hiphop.ID, "")
	if err != nil {
		t.Fatalf("GetBattles by genre failed: %v", err)
	}
	if len(hiphopOnly) != 2 {
		t.Errorf("Hip hop battles = %d, want 2", len(hiphopOnly))
	}

	activeHiphop, err := svc.GetBattles(&hiphop.ID, models.BattleActive)
	if err != nil {
		t.Fatalf("GetBattles by genre and status failed: %v", err)
	}
	if len(activeHiphop) != 1 {
		t.Errorf("Active hip hop battles = %d, want 1", len(activeHiphop))
	}

	if _, err := svc.GetBattles(nil, "bogus"); err == nil {
		t.Error("Expected error for invalid status filter")
	}
}

func TestBattleLifecycleSweeps(t *testing.T) {
	db := newTestDB(t)
	svc := NewBattleService(db)

	creator := createTestUser(t, db, "creator", models.RoleParticipant)
	genre := createTestGenre(t, db, "House", 100)

	now := time.Now()

	due := createTestBattle(t, db, genre.ID, creator.ID, models.BattlePending)
	db.Model(due).Updates(map[string]interface{}{
		"starts_at": now.Add(-time.Minute),
		"ends_at":   now.Add(time.Hour),
	})

	notYet := createTestBattle(t, db, genre.ID, creator.ID, models.BattlePending)
	db.Model(notYet).Updates(map[string]interface{}{
		"starts_at": now.Add(time.Hour),
		"ends_at":   now.Add(2 * time.Hour),
	})

	over := createTestBattle(t, db, genre.ID, creator.ID, models.BattleActive)
	db.Model(over).Update("ends_at", now.Add(-time.Minute))

	activated, err := svc.ActivateDueBattles(now)
	if err != nil {
		t.Fatalf("ActivateDueBattles failed: %v", err)
	}
	if activated != 1 {
		t.Errorf("Activated = %d, want 1", activated)
	}

	ended, err := svc.EndDueBattles(now)
	if err != nil {
		t.Fatalf("EndDueBattles failed: %v", err)
	}
	if ended != 1 {
		t.Errorf("Ended = %d, want 1", ended)
	}

	var check models.Battle
	db.First(&check, "id = ?", due.ID)
	if check.Status != models.BattleActive {
		t.Errorf("Due battle status = %s, want active", check.Status)
	}

	check = models.Battle{}
	db.First(&check, "id = ?", notYet.ID)
	if check.Status != models.BattlePending {
		t.Errorf("Future battle status = %s, want pending", check.Status)
	}

	check = models.Battle{}
	db.First(&check, "id = ?", over.ID)
	if check.Status != models.BattleEnded {
		t.Errorf("Over battle status = %s, want ended", check.Status)
	}
}

func TestUpdateBattleStatus(t *testing.T) {
	db := newTestDB(t)
	svc := NewBattleService(db)

	creator := createTestUser(t, db, "creator", models.RoleParticipant)
	genre := createTestGenre(t, db, "Trap", 100)
	battle := createTestBattle(t, db, genre.ID, creator.ID, models.BattleActive)

	if err := svc.UpdateBattleStatus(battle.ID, models.BattleEnded); err != nil {
		t.Fatalf("UpdateBattleStatus failed: %v", err)
	}

	var check models.Battle
	db.First(&check, "id = ?", battle.ID)
	if check.Status != models.BattleEnded {
		t.Errorf("Status = %s, want ended", check.Status)
	}

	if err := svc.UpdateBattleStatus(battle.ID, "bogus"); err == nil {
		t.Error("Expected error for invalid status")
	}
}

func timePtr(t time.Time) *time.Time {
	return &t
}
