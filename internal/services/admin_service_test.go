package services

import (
	"bytes"
	"testing"

	"github.com/beatclash/backend/internal/models"
)

func TestGetDashboardStatsRevenueFromLedger(t *testing.T) {
	db := newTestDB(t)
	svc := NewAdminService(db, newTestConfig(), NewLeaderboardService(db))

	payer := createTestUser(t, db, "payer", models.RoleParticipant)
	db.Model(payer).Update("subscription_status", models.SubscriptionActive)
	createTestUser(t, db, "listener", models.RoleListener)

	genre := createTestGenre(t, db, "Hip Hop", 100)
	createTestBattle(t, db, genre.ID, payer.ID, models.BattleActive)
	createTestBattle(t, db, genre.ID, payer.ID, models.BattleEnded)

	// Revenue must come from recorded payments only
	db.Create(&models.SubscriptionPayment{UserID: payer.ID, StripePaymentIntentID: "pi_1", AmountCents: 499, Status: "succeeded"})
	db.Create(&models.SubscriptionPayment{UserID: payer.ID, StripePaymentIntentID: "pi_2", AmountCents: 499, Status: "succeeded"})
	db.Create(&models.SubscriptionPayment{UserID: payer.ID, StripePaymentIntentID: "pi_3", AmountCents: 499, Status: "failed"})

	stats, err := svc.GetDashboardStats()
	if err != nil {
		t.Fatalf("GetDashboardStats failed: %v", err)
	}

	if stats.TotalUsers != 2 {
		t.Errorf("TotalUsers = %d, want 2", stats.TotalUsers)
	}
	if stats.TotalParticipants != 1 {
		t.Errorf("TotalParticipants = %d, want 1", stats.TotalParticipants)
	}
	if stats.ActiveBattles != 1 {
		t.Errorf("ActiveBattles = %d, want 1", stats.ActiveBattles)
	}
	if stats.TotalRevenueCents != 998 {
		t.Errorf("TotalRevenueCents = %d, want 998 from succeeded payments", stats.TotalRevenueCents)
	}
	if stats.ActiveSubscribers != 1 {
		t.Errorf("ActiveSubscribers = %d, want 1", stats.ActiveSubscribers)
	}
}

func TestUpsertSettings(t *testing.T) {
	db := newTestDB(t)
	svc := NewAdminService(db, newTestConfig(), NewLeaderboardService(db))

	admin := createTestUser(t, db, "admin", models.RoleAdmin)

	setting, err := svc.UpsertSettings(admin.ID, "acct_1", models.PayoutWeekly)
	if err != nil {
		t.Fatalf("UpsertSettings failed: %v", err)
	}
	if setting.PayoutSchedule != models.PayoutWeekly {
		t.Errorf("PayoutSchedule = %s, want weekly", setting.PayoutSchedule)
	}

	// A second save for the same admin must update, not duplicate
	setting, err = svc.UpsertSettings(admin.ID, "acct_2", models.PayoutDaily)
	if err != nil {
		t.Fatalf("Second UpsertSettings failed: %v", err)
	}
	if setting.StripeAccountID != "acct_2" || setting.PayoutSchedule != models.PayoutDaily {
		t.Errorf("Updated setting = %s/%s, want acct_2/daily", setting.StripeAccountID, setting.PayoutSchedule)
	}

	var count int64
	db.Model(&models.AdminSetting{}).Where("admin_id = ?", admin.ID).Count(&count)
	if count != 1 {
		t.Errorf("Setting rows = %d, want 1", count)
	}

	if _, err := svc.UpsertSettings(admin.ID, "", "yearly"); err == nil {
		t.Error("Expected error for invalid payout schedule")
	}
}

func TestGetSettingsUnset(t *testing.T) {
	db := newTestDB(t)
	svc := NewAdminService(db, newTestConfig(), NewLeaderboardService(db))

	admin := createTestUser(t, db, "admin", models.RoleAdmin)

	setting, err := svc.GetSettings(admin.ID)
	if err != nil {
		t.Fatalf("GetSettings failed: %v", err)
	}
	if setting != nil {
		t.Error("Expected nil settings before first save")
	}
}

func TestSetTrackRating(t *testing.T) {
	db := newTestDB(t)
	svc := NewAdminService(db, newTestConfig(), NewLeaderboardService(db))

	artist := createTestUser(t, db, "artist", models.RoleParticipant)
	genre := createTestGenre(t, db, "Hip Hop", 100)
	battle := createTestBattle(t, db, genre.ID, artist.ID, models.BattleActive)
	track := createTestTrack(t, db, artist.ID, battle.ID, "Edgy Track")

	rating, err := svc.SetTrackRating(track.ID, models.RatingTeen)
	if err != nil {
		t.Fatalf("SetTrackRating failed: %v", err)
	}
	if rating.Rating != models.RatingTeen || !rating.ConfirmedByAdmin {
		t.Errorf("Rating = %s confirmed=%v, want 13+ confirmed", rating.Rating, rating.ConfirmedByAdmin)
	}

	// Re-rating the same track must update the existing row
	rating, err = svc.SetTrackRating(track.ID, models.RatingExplicit)
	if err != nil {
		t.Fatalf("Second SetTrackRating failed: %v", err)
	}
	if rating.Rating != models.RatingExplicit {
		t.Errorf("Rating = %s, want 18+", rating.Rating)
	}

	var count int64
	db.Model(&models.ContentRating{}).Where("track_id = ?", track.ID).Count(&count)
	if count != 1 {
		t.Errorf("Rating rows = %d, want 1", count)
	}

	if _, err := svc.SetTrackRating(track.ID, "PG-13"); err == nil {
		t.Error("Expected error for unknown rating")
	}
}

func TestRenderLeaderboardPDF(t *testing.T) {
	db := newTestDB(t)
	svc := NewAdminService(db, newTestConfig(), NewLeaderboardService(db))

	artist := createTestUser(t, db, "artist", models.RoleParticipant)
	genre := createTestGenre(t, db, "House", 100)
	battle := createTestBattle(t, db, genre.ID, artist.ID, models.BattleActive)
	createTestTrack(t, db, artist.ID, battle.ID, "Some Track")

	pdf, err := svc.RenderLeaderboardPDF(10)
	if err != nil {
		t.Fatalf("RenderLeaderboardPDF failed: %v", err)
	}
	if !bytes.HasPrefix(pdf, []byte("%PDF")) {
		t.Error("Expected PDF magic bytes in output")
	}
}

func TestCreateDefaultAdmin(t *testing.T) {
	db := newTestDB(t)
	svc := NewAdminService(db, newTestConfig(), NewLeaderboardService(db))

	if err := svc.CreateDefaultAdmin(); err != nil {
		t.Fatalf("CreateDefaultAdmin failed: %v", err)
	}

	var count int64
	db.Model(&models.User{}).Where("role = ?", models.RoleAdmin).Count(&count)
	if count != 1 {
		t.Fatalf("Admin count = %d, want 1", count)
	}

	// A second boot must not create another admin
	if err := svc.CreateDefaultAdmin(); err != nil {
		t.Fatalf("Second CreateDefaultAdmin failed: %v", err)
	}
	db.Model(&models.User{}).Where("role = ?", models.RoleAdmin).Count(&count)
	if count != 1 {
		t.Errorf("Admin count = %d after second boot, want 1", count)
	}
}
