package services

import (
	"bytes"
	"errors"
	"fmt"
	"log"

	"github.com/beatclash/backend/internal/config"
	"github.com/beatclash/backend/internal/models"
	"github.com/beatclash/backend/pkg/crypto"
	"github.com/google/uuid"
	"github.com/jung-kurt/gofpdf"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type AdminService struct {
	db          *gorm.DB
	cfg         *config.Config
	leaderboard *LeaderboardService
}

func NewAdminService(db *gorm.DB, cfg *config.Config, leaderboard *LeaderboardService) *AdminService {
	return &AdminService{db: db, cfg: cfg, leaderboard: leaderboard}
}

type DashboardStats struct {
	TotalUsers        int64 `json:"total_users"`
	TotalParticipants int64 `json:"total_participants"`
	ActiveBattles     int64 `json:"active_battles"`
	TotalTracks       int64 `json:"total_tracks"`
	TotalVotes        int64 `json:"total_votes"`
	PendingReferrals  int64 `json:"pending_referrals"`
	TotalRevenueCents int64 `json:"total_revenue_cents"`
	ActiveSubscribers int64 `json:"active_subscribers"`
	TrialParticipants int64 `json:"trial_participants"`
}

// GetDashboardStats aggregates platform counters. Revenue comes from the
// payment ledger, not from subscriber counts.
func (s *AdminService) GetDashboardStats() (*DashboardStats, error) {
	stats := &DashboardStats{}

	if err := s.db.Model(&models.User{}).Count(&stats.TotalUsers).Error; err != nil {
		return nil, err
	}
	if err := s.db.Model(&models.User{}).Where("role = ?", models.RoleParticipant).Count(&stats.TotalParticipants).Error; err != nil {
		return nil, err
	}
	if err := s.db.Model(&models.Battle{}).Where("status = ?", models.BattleActive).Count(&stats.ActiveBattles).Error; err != nil {
		return nil, err
	}
	if err := s.db.Model(&models.Track{}).Count(&stats.TotalTracks).Error; err != nil {
		return nil, err
	}
	if err := s.db.Model(&models.Vote{}).Count(&stats.TotalVotes).Error; err != nil {
		return nil, err
	}
	if err := s.db.Model(&models.Referral{}).Where("status = ?", models.ReferralPending).Count(&stats.PendingReferrals).Error; err != nil {
		return nil, err
	}
	if err := s.db.Model(&models.SubscriptionPayment{}).
		Where("status = ?", "succeeded").
		Select("COALESCE(SUM(amount_cents), 0)").
		Scan(&stats.TotalRevenueCents).Error; err != nil {
		return nil, err
	}
	if err := s.db.Model(&models.User{}).Where("subscription_status = ?", models.SubscriptionActive).Count(&stats.ActiveSubscribers).Error; err != nil {
		return nil, err
	}
	if err := s.db.Model(&models.User{}).Where("subscription_status = ?", models.SubscriptionTrial).Count(&stats.TrialParticipants).Error; err != nil {
		return nil, err
	}

	return stats, nil
}

// UpsertSettings creates or updates an admin's payout settings in one write
func (s *AdminService) UpsertSettings(adminID uuid.UUID, stripeAccountID, payoutSchedule string) (*models.AdminSetting, error) {
	if !models.ValidPayoutSchedule(payoutSchedule) {
		return nil, errors.New("invalid payout schedule")
	}

	setting := &models.AdminSetting{
		AdminID:         adminID,
		StripeAccountID: stripeAccountID,
		PayoutSchedule:  payoutSchedule,
	}

	err := s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "admin_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"stripe_account_id", "payout_schedule", "updated_at"}),
	}).Create(setting).Error
	if err != nil {
		return nil, err
	}

	var saved models.AdminSetting
	if err := s.db.First(&saved, "admin_id = ?", adminID).Error; err != nil {
		return nil, err
	}
	return &saved, nil
}

// GetSettings returns an admin's payout settings, or nil when unset
func (s *AdminService) GetSettings(adminID uuid.UUID) (*models.AdminSetting, error) {
	var setting models.AdminSetting
	err := s.db.First(&setting, "admin_id = ?", adminID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &setting, nil
}

// SetTrackRating creates or updates the confirmed content rating for a track
func (s *AdminService) SetTrackRating(trackID uuid.UUID, rating string) (*models.ContentRating, error) {
	if !models.ValidRating(rating) {
		return nil, errors.New("invalid content rating")
	}

	var track models.Track
	if err := s.db.First(&track, "id = ?", trackID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("track not found")
		}
		return nil, err
	}

	record := &models.ContentRating{
		TrackID:          &trackID,
		Rating:           rating,
		ConfirmedByAdmin: true,
	}

	err := s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "track_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"rating", "confirmed_by_admin"}),
	}).Create(record).Error
	if err != nil {
		return nil, err
	}

	var saved models.ContentRating
	if err := s.db.First(&saved, "track_id = ?", trackID).Error; err != nil {
		return nil, err
	}
	return &saved, nil
}

// RenderLeaderboardPDF produces a printable top-artists report
func (s *AdminService) RenderLeaderboardPDF(limit int) ([]byte, error) {
	artists, err := s.leaderboard.GetTopArtists(limit)
	if err != nil {
		return nil, err
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.Cell(0, 12, "BeatClash Artist Leaderboard")
	pdf.Ln(16)

	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(20, 8, "Rank", "1", 0, "C", false, 0, "")
	pdf.CellFormat(110, 8, "Artist", "1", 0, "L", false, 0, "")
	pdf.CellFormat(40, 8, "Votes", "1", 1, "R", false, 0, "")

	pdf.SetFont("Helvetica", "", 11)
	for i, artist := range artists {
		pdf.CellFormat(20, 8, fmt.Sprintf("%d", i+1), "1", 0, "C", false, 0, "")
		pdf.CellFormat(110, 8, artist.Username, "1", 0, "L", false, 0, "")
		pdf.CellFormat(40, 8, fmt.Sprintf("%d", artist.TotalVotes), "1", 1, "R", false, 0, "")
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// CreateDefaultAdmin seeds the bootstrap admin account on first start
func (s *AdminService) CreateDefaultAdmin() error {
	var count int64
	if err := s.db.Model(&models.User{}).Where("role = ?", models.RoleAdmin).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	hashed, err := crypto.HashPassword(s.cfg.AdminPassword, s.cfg.BcryptCost)
	if err != nil {
		return err
	}

	admin := &models.User{
		Username:           s.cfg.AdminUsername,
		Email:              s.cfg.AdminEmail,
		Password:           hashed,
		Role:               models.RoleAdmin,
		SubscriptionStatus: models.SubscriptionActive,
	}

	if err := s.db.Create(admin).Error; err != nil {
		return err
	}

	log.Printf("INFO: Created default admin user %s", admin.Username)
	return nil
}
