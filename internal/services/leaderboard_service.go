package services

import (
	"github.com/beatclash/backend/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type LeaderboardService struct {
	db *gorm.DB
}

func NewLeaderboardService(db *gorm.DB) *LeaderboardService {
	return &LeaderboardService{db: db}
}

type TopArtist struct {
	UserID     uuid.UUID `json:"user_id"`
	Username   string    `json:"username"`
	TotalVotes int64     `json:"total_votes"`
}

type TopReferrer struct {
	UserID         uuid.UUID `json:"user_id"`
	Username       string    `json:"username"`
	TotalReferrals int64     `json:"total_referrals"`
}

// GetTopArtists ranks current participants by votes received across all their
// tracks. Only the participant role competes, so artists downgraded to
// listener drop off even when their old tracks still hold votes. Ties break
// on user ID so the ordering is stable between requests.
func (s *LeaderboardService) GetTopArtists(limit int) ([]*TopArtist, error) {
	if limit <= 0 {
		limit = 10
	}

	var artists []*TopArtist
	err := s.db.Model(&models.User{}).
		Select("users.id AS user_id, users.username, COUNT(votes.id) AS total_votes").
		Joins("LEFT JOIN tracks ON tracks.artist_id = users.id").
		Joins("LEFT JOIN votes ON votes.track_id = tracks.id").
		Where("users.role = ?", models.RoleParticipant).
		Group("users.id, users.username").
		Order("total_votes DESC, users.id ASC").
		Limit(limit).
		Scan(&artists).Error
	return artists, err
}

// GetTopReferrers ranks users by completed referrals, same tie-break rule
func (s *LeaderboardService) GetTopReferrers(limit int) ([]*TopReferrer, error) {
	if limit <= 0 {
		limit = 10
	}

	var referrers []*TopReferrer
	err := s.db.Model(&models.User{}).
		Select("users.id AS user_id, users.username, COUNT(referrals.id) AS total_referrals").
		Joins("JOIN referrals ON referrals.referrer_id = users.id AND referrals.status = ?", models.ReferralCompleted).
		Group("users.id, users.username").
		Order("total_referrals DESC, users.id ASC").
		Limit(limit).
		Scan(&referrers).Error
	return referrers, err
}

// GetBattleResults returns per-track vote totals for a battle, winner first
func (s *LeaderboardService) GetBattleResults(battleID uuid.UUID) ([]*TrackResult, error) {
	var results []*TrackResult
	err := s.db.Model(&models.Track{}).
		Select("tracks.id AS track_id, tracks.title, tracks.artist_id, COUNT(votes.id) AS total_votes").
		Joins("LEFT JOIN votes ON votes.track_id = tracks.id").
		Where("tracks.battle_id = ?", battleID).
		Group("tracks.id, tracks.title, tracks.artist_id").
		Order("total_votes DESC, tracks.id ASC").
		Scan(&results).Error
	return results, err
}

type TrackResult struct {
	TrackID    uuid.UUID `json:"track_id"`
	Title      string    `json:"title"`
	ArtistID   uuid.UUID `json:"artist_id"`
	TotalVotes int64     `json:"total_votes"`
}
