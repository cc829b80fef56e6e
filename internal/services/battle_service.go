package services

import (
	"errors"
	"log"
	"time"

	"github.com/beatclash/backend/internal/models"
	"github.com/go-co-op/gocron/v2"
	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"gorm.io/gorm"
)

type BattleService struct {
	db *gorm.DB
}

func NewBattleService(db *gorm.DB) *BattleService {
	return &BattleService{db: db}
}

// CreateBattle creates a battle for a genre. Battles with a future start
// time begin pending; everything else is immediately active.
func (s *BattleService) CreateBattle(creatorID, genreID uuid.UUID, title, description string, startsAt *time.Time, endsAt time.Time, prizePool float64) (*models.Battle, error) {
	if endsAt.Before(time.Now()) {
		return nil, errors.New("battle end time must be in the future")
	}
	if prizePool < 0 {
		return nil, errors.New("prize pool cannot be negative")
	}

	var genre models.Genre
	if err := s.db.First(&genre, "id = ?", genreID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("genre not found")
		}
		return nil, err
	}

	status := models.BattleActive
	if startsAt != nil && startsAt.After(time.Now()) {
		status = models.BattlePending
	}

	battle := &models.Battle{
		Title:       title,
		Slug:        slug.Make(title),
		Description: description,
		GenreID:     genreID,
		CreatedByID: creatorID,
		Status:      status,
		StartsAt:    startsAt,
		EndsAt:      endsAt,
		PrizePool:   prizePool,
	}

	if err := s.db.Create(battle).Error; err != nil {
		return nil, err
	}

	return battle, nil
}

// GetBattles retrieves battles filtered by optional genre and status,
// newest first
func (s *BattleService) GetBattles(genreID *uuid.UUID, status string) ([]*models.Battle, error) {
	query := s.db.Preload("Genre")

	if genreID != nil {
		query = query.Where("genre_id = ?", *genreID)
	}
	if status != "" {
		if !models.ValidBattleStatus(status) {
			return nil, errors.New("invalid battle status")
		}
		query = query.Where("status = ?", status)
	}

	var battles []*models.Battle
	err := query.Order("created_at DESC").Find(&battles).Error
	return battles, err
}

// GetBattle retrieves a battle with its genre and tracks
func (s *BattleService) GetBattle(battleID uuid.UUID) (*models.Battle, error) {
	var battle models.Battle
	err := s.db.Preload("Genre").Preload("Tracks").First(&battle, "id = ?", battleID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("battle not found")
		}
		return nil, err
	}
	return &battle, nil
}

// UpdateBattleStatus manually transitions a battle's status
func (s *BattleService) UpdateBattleStatus(battleID uuid.UUID, status string) error {
	if !models.ValidBattleStatus(status) {
		return errors.New("invalid battle status")
	}

	result := s.db.Model(&models.Battle{}).Where("id = ?", battleID).Update("status", status)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errors.New("battle not found")
	}
	return nil
}

// ActivateDueBattles flips pending battles whose start time has passed
func (s *BattleService) ActivateDueBattles(now time.Time) (int64, error) {
	result := s.db.Model(&models.Battle{}).
		Where("status = ? AND starts_at IS NOT NULL AND starts_at <= ?", models.BattlePending, now).
		Update("status", models.BattleActive)
	return result.RowsAffected, result.Error
}

// EndDueBattles flips active battles whose end time has passed
func (s *BattleService) EndDueBattles(now time.Time) (int64, error) {
	result := s.db.Model(&models.Battle{}).
		Where("status = ? AND ends_at <= ?", models.BattleActive, now).
		Update("status", models.BattleEnded)
	return result.RowsAffected, result.Error
}

// StartLifecycleScheduler drives the pending→active→ended transitions
func (s *BattleService) StartLifecycleScheduler() {
	sched, err := gocron.NewScheduler()
	if err != nil {
		log.Printf("ERROR: Failed to create battle lifecycle scheduler: %v", err)
		return
	}

	_, err = sched.NewJob(
		gocron.DurationJob(1*time.Minute),
		gocron.NewTask(func() {
			now := time.Now()

			activated, err := s.ActivateDueBattles(now)
			if err != nil {
				log.Printf("ERROR: Battle activation sweep failed: %v", err)
			} else if activated > 0 {
				log.Printf("INFO: Activated %d scheduled battles", activated)
			}

			ended, err := s.EndDueBattles(now)
			if err != nil {
				log.Printf("ERROR: Battle end sweep failed: %v", err)
			} else if ended > 0 {
				log.Printf("INFO: Ended %d expired battles", ended)
			}
		}),
	)
	if err != nil {
		log.Printf("ERROR: Failed to schedule battle lifecycle sweep: %v", err)
		return
	}

	sched.Start()
}
