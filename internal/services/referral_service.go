package services

import (
	"errors"
	"fmt"

	"github.com/beatclash/backend/internal/config"
	"github.com/beatclash/backend/internal/models"
	"github.com/google/uuid"
	qrcode "github.com/skip2/go-qrcode"
	"gorm.io/gorm"
)

type ReferralService struct {
	db  *gorm.DB
	cfg *config.Config
}

func NewReferralService(db *gorm.DB, cfg *config.Config) *ReferralService {
	return &ReferralService{db: db, cfg: cfg}
}

// CreateReferral records a referral claim with an optional social post link
func (s *ReferralService) CreateReferral(referrerID uuid.UUID, socialPostURL string) (*models.Referral, error) {
	referral := &models.Referral{
		ReferrerID:    referrerID,
		SocialPostURL: socialPostURL,
		Status:        models.ReferralPending,
	}

	if err := s.db.Create(referral).Error; err != nil {
		return nil, err
	}

	return referral, nil
}

// GetUserReferrals returns a user's referrals, newest first
func (s *ReferralService) GetUserReferrals(referrerID uuid.UUID) ([]*models.Referral, error) {
	var referrals []*models.Referral
	err := s.db.Preload("Referred").Where("referrer_id = ?", referrerID).Order("created_at DESC").Find(&referrals).Error
	return referrals, err
}

// UpdateReferralStatus transitions a referral and links the referred user
// once they sign up
func (s *ReferralService) UpdateReferralStatus(referralID uuid.UUID, status string, referredUserID *uuid.UUID) error {
	if !models.ValidReferralStatus(status) {
		return errors.New("invalid referral status")
	}

	updates := map[string]interface{}{"status": status}
	if referredUserID != nil {
		updates["referred_user_id"] = *referredUserID
	}

	result := s.db.Model(&models.Referral{}).Where("id = ?", referralID).Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errors.New("referral not found")
	}
	return nil
}

// ReferralLink builds the shareable signup link for a user
func (s *ReferralService) ReferralLink(userID uuid.UUID) string {
	return fmt.Sprintf("%s/signup?ref=%s", s.cfg.FrontendURL, userID)
}

// GenerateReferralQR renders the user's referral link as a PNG QR code
func (s *ReferralService) GenerateReferralQR(userID uuid.UUID) ([]byte, error) {
	png, err := qrcode.Encode(s.ReferralLink(userID), qrcode.Medium, 512)
	if err != nil {
		return nil, fmt.Errorf("failed to generate QR code: %w", err)
	}
	return png, nil
}
