package services

import (
	"errors"
	"log"
	"time"

	"github.com/beatclash/backend/internal/models"
	"github.com/go-co-op/gocron/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var ErrNoTrialSlots = errors.New("no trial slots available for this genre")

type TrialService struct {
	db *gorm.DB
}

func NewTrialService(db *gorm.DB) *TrialService {
	return &TrialService{db: db}
}

// GrantTrialSlot grants a one-month trial in a genre. The slot counter,
// the slot row and the user's subscription state move in one transaction;
// the guarded increment makes concurrent grants of the last slot resolve
// to exactly one winner.
func (s *TrialService) GrantTrialSlot(userID, genreID uuid.UUID) (*models.TrialSlot, error) {
	now := time.Now()
	expiresAt := now.AddDate(0, 1, 0)

	slot := &models.TrialSlot{
		GenreID:   genreID,
		UserID:    userID,
		GrantedAt: now,
		ExpiresAt: expiresAt,
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&models.Genre{}).
			Where("id = ? AND filled_trial_slots < max_trial_slots", genreID).
			UpdateColumn("filled_trial_slots", gorm.Expr("filled_trial_slots + 1"))
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			var count int64
			if err := tx.Model(&models.Genre{}).Where("id = ?", genreID).Count(&count).Error; err != nil {
				return err
			}
			if count == 0 {
				return errors.New("genre not found")
			}
			return ErrNoTrialSlots
		}

		if err := tx.Create(slot).Error; err != nil {
			return err
		}

		result = tx.Model(&models.User{}).Where("id = ?", userID).Updates(map[string]interface{}{
			"subscription_status": models.SubscriptionTrial,
			"trial_expires_at":    expiresAt,
			"role":                models.RoleParticipant,
		})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return errors.New("user not found")
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return slot, nil
}

// ReleaseExpiredTrials frees genre slots held by expired trials and moves
// still-trialing users back to listener/inactive
func (s *TrialService) ReleaseExpiredTrials(now time.Time) (int64, error) {
	var expired []*models.TrialSlot
	if err := s.db.Where("released = ? AND expires_at <= ?", false, now).Find(&expired).Error; err != nil {
		return 0, err
	}

	var released int64
	for _, slot := range expired {
		err := s.db.Transaction(func(tx *gorm.DB) error {
			result := tx.Model(&models.TrialSlot{}).
				Where("id = ? AND released = ?", slot.ID, false).
				Update("released", true)
			if result.Error != nil {
				return result.Error
			}
			if result.RowsAffected == 0 {
				return nil // already released by a concurrent sweep
			}

			if err := tx.Model(&models.Genre{}).
				Where("id = ? AND filled_trial_slots > 0", slot.GenreID).
				UpdateColumn("filled_trial_slots", gorm.Expr("filled_trial_slots - 1")).Error; err != nil {
				return err
			}

			// Only downgrade users who never converted to a paid plan
			return tx.Model(&models.User{}).
				Where("id = ? AND subscription_status = ? AND trial_expires_at <= ?", slot.UserID, models.SubscriptionTrial, now).
				Updates(map[string]interface{}{
					"subscription_status": models.SubscriptionInactive,
					"role":                models.RoleListener,
				}).Error
		})
		if err != nil {
			return released, err
		}
		released++
	}

	return released, nil
}

// GetUserTrialSlots returns the trial slots granted to a user
func (s *TrialService) GetUserTrialSlots(userID uuid.UUID) ([]*models.TrialSlot, error) {
	var slots []*models.TrialSlot
	err := s.db.Preload("Genre").Where("user_id = ?", userID).Order("granted_at DESC").Find(&slots).Error
	return slots, err
}

// StartExpiryScheduler periodically releases expired trial slots
func (s *TrialService) StartExpiryScheduler() {
	sched, err := gocron.NewScheduler()
	if err != nil {
		log.Printf("ERROR: Failed to create trial expiry scheduler: %v", err)
		return
	}

	_, err = sched.NewJob(
		gocron.DurationJob(5*time.Minute),
		gocron.NewTask(func() {
			released, err := s.ReleaseExpiredTrials(time.Now())
			if err != nil {
				log.Printf("ERROR: Trial expiry sweep failed: %v", err)
			} else if released > 0 {
				log.Printf("INFO: Released %d expired trial slots", released)
			}
		}),
	)
	if err != nil {
		log.Printf("ERROR: Failed to schedule trial expiry sweep: %v", err)
		return
	}

	sched.Start()
}
