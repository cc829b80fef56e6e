package services

import (
	"errors"

	"github.com/beatclash/backend/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var ErrAlreadyVoted = errors.New("already voted in this battle")

type VoteService struct {
	db *gorm.DB
}

func NewVoteService(db *gorm.DB) *VoteService {
	return &VoteService{db: db}
}

// CastVote records a vote for a track. The unique (user_id, battle_id)
// index rejects a second vote in the same battle, including concurrent
// duplicates.
func (s *VoteService) CastVote(userID, trackID uuid.UUID) (*models.Vote, error) {
	var track models.Track
	if err := s.db.First(&track, "id = ?", trackID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("track not found")
		}
		return nil, err
	}

	vote := &models.Vote{
		UserID:   userID,
		TrackID:  trackID,
		BattleID: track.BattleID,
	}

	if err := s.db.Create(vote).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrAlreadyVoted
		}
		return nil, err
	}

	return vote, nil
}

// GetUserVote returns the user's vote in a battle, or nil when absent
func (s *VoteService) GetUserVote(userID, battleID uuid.UUID) (*models.Vote, error) {
	var vote models.Vote
	err := s.db.Where("user_id = ? AND battle_id = ?", userID, battleID).First(&vote).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &vote, nil
}

// GetVoteCount returns the number of votes for a track
func (s *VoteService) GetVoteCount(trackID uuid.UUID) (int64, error) {
	var count int64
	err := s.db.Model(&models.Vote{}).Where("track_id = ?", trackID).Count(&count).Error
	return count, err
}

// GetVotes returns all votes in a battle
func (s *VoteService) GetVotes(battleID uuid.UUID) ([]*models.Vote, error) {
	var votes []*models.Vote
	err := s.db.Where("battle_id = ?", battleID).Order("created_at ASC").Find(&votes).Error
	return votes, err
}
