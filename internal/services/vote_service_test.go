package services

import (
	"errors"
	"sync"
	"testing"

	"github.com/beatclash/backend/internal/models"
	"github.com/google/uuid"
)

func TestCastVote(t *testing.T) {
	db := newTestDB(t)
	svc := NewVoteService(db)

	voter := createTestUser(t, db, "voter", models.RoleListener)
	artist := createTestUser(t, db, "artist", models.RoleParticipant)
	genre := createTestGenre(t, db, "Hip Hop", 100)
	battle := createTestBattle(t, db, genre.ID, artist.ID, models.BattleActive)
	track := createTestTrack(t, db, artist.ID, battle.ID, "First Track")

	vote, err := svc.CastVote(voter.ID, track.ID)
	if err != nil {
		t.Fatalf("CastVote failed: %v", err)
	}
	if vote.BattleID != battle.ID {
		t.Errorf("Vote battle ID = %s, want %s", vote.BattleID, battle.ID)
	}

	count, err := svc.GetVoteCount(track.ID)
	if err != nil {
		t.Fatalf("GetVoteCount failed: %v", err)
	}
	if count != 1 {
		t.Errorf("Vote count = %d, want 1", count)
	}
}

func TestCastVoteUnknownTrack(t *testing.T) {
	db := newTestDB(t)
	svc := NewVoteService(db)

	voter := createTestUser(t, db, "voter", models.RoleListener)

	if _, err := svc.CastVote(voter.ID, uuid.New()); err == nil {
		t.Error("Expected error voting for unknown track")
	}
}

func TestCastVoteTwiceSameBattle(t *testing.T) {
	db := newTestDB(t)
	svc := NewVoteService(db)

	voter := createTestUser(t, db, "voter", models.RoleListener)
	artist := createTestUser(t, db, "artist", models.RoleParticipant)
	genre := createTestGenre(t, db, "House", 100)
	battle := createTestBattle(t, db, genre.ID, artist.ID, models.BattleActive)
	trackA := createTestTrack(t, db, artist.ID, battle.ID, "Track A")
	trackB := createTestTrack(t, db, artist.ID, battle.ID, "Track B")

	if _, err := svc.CastVote(voter.ID, trackA.ID); err != nil {
		t.Fatalf("First vote failed: %v", err)
	}

	// A second vote in the same battle must fail even for a different track
	_, err := svc.CastVote(voter.ID, trackB.ID)
	if !errors.Is(err, ErrAlreadyVoted) {
		t.Errorf("Second vote error = %v, want ErrAlreadyVoted", err)
	}

	var total int64
	db.Model(&models.Vote{}).Where("user_id = ?", voter.ID).Count(&total)
	if total != 1 {
		t.Errorf("Stored votes = %d, want 1", total)
	}
}

func TestCastVoteConcurrentDuplicates(t *testing.T) {
	db := newTestDB(t)
	svc := NewVoteService(db)

	voter := createTestUser(t, db, "voter", models.RoleListener)
	artist := createTestUser(t, db, "artist", models.RoleParticipant)
	genre := createTestGenre(t, db, "Techno", 100)
	battle := createTestBattle(t, db, genre.ID, artist.ID, models.BattleActive)
	track := createTestTrack(t, db, artist.ID, battle.ID, "Contested Track")

	const attempts = 10
	var wg sync.WaitGroup
	results := make(chan error, attempts)

	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.CastVote(voter.ID, track.ID)
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	var succeeded, rejected int
	for err := range results {
		switch {
		case err == nil:
			succeeded++
		case errors.Is(err, ErrAlreadyVoted):
			rejected++
		default:
			t.Errorf("Unexpected error from concurrent vote: %v", err)
		}
	}

	if succeeded != 1 {
		t.Errorf("Succeeded votes = %d, want exactly 1", succeeded)
	}
	if rejected != attempts-1 {
		t.Errorf("Rejected votes = %d, want %d", rejected, attempts-1)
	}

	var total int64
	db.Model(&models.Vote{}).Where("battle_id = ?", battle.ID).Count(&total)
	if total != 1 {
		t.Errorf("Stored votes = %d, want 1", total)
	}
}

func TestGetUserVote(t *testing.T) {
	db := newTestDB(t)
	svc := NewVoteService(db)

	voter := createTestUser(t, db, "voter", models.RoleListener)
	artist := createTestUser(t, db, "artist", models.RoleParticipant)
	genre := createTestGenre(t, db, "Drum and Bass", 100)
	battle := createTestBattle(t, db, genre.ID, artist.ID, models.BattleActive)
	track := createTestTrack(t, db, artist.ID, battle.ID, "Only Track")

	vote, err := svc.GetUserVote(voter.ID, battle.ID)
	if err != nil {
		t.Fatalf("GetUserVote failed: %v", err)
	}
	if vote != nil {
		t.Error("Expected nil vote before voting")
	}

	if _, err := svc.CastVote(voter.ID, track.ID); err != nil {
		t.Fatalf("CastVote failed: %v", err)
	}

	vote, err = svc.GetUserVote(voter.ID, battle.ID)
	if err != nil {
		t.Fatalf("GetUserVote failed: %v", err)
	}
	if vote == nil || vote.TrackID != track.ID {
		t.Error("Expected stored vote for the track")
	}
}
