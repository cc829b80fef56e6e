package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"time"

	"github.com/beatclash/backend/internal/config"
	"github.com/beatclash/backend/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type TrackService struct {
	db  *gorm.DB
	cfg *config.Config
	s3  *S3Service
}

func NewTrackService(db *gorm.DB, cfg *config.Config, s3 *S3Service) *TrackService {
	return &TrackService{db: db, cfg: cfg, s3: s3}
}

// CreateTrack submits a track into a battle
func (s *TrackService) CreateTrack(artistID, battleID uuid.UUID, title, audioURL, bandlabURL string, duration int) (*models.Track, error) {
	var battle models.Battle
	if err := s.db.First(&battle, "id = ?", battleID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("battle not found")
		}
		return nil, err
	}

	if battle.Status == models.BattleEnded {
		return nil, errors.New("battle has already ended")
	}

	track := &models.Track{
		Title:      title,
		ArtistID:   artistID,
		BattleID:   battleID,
		AudioURL:   audioURL,
		BandlabURL: bandlabURL,
		Duration:   duration,
	}

	if err := s.db.Create(track).Error; err != nil {
		return nil, err
	}

	return track, nil
}

// GetTracks retrieves all tracks in a battle
func (s *TrackService) GetTracks(battleID uuid.UUID) ([]*models.Track, error) {
	var tracks []*models.Track
	err := s.db.Preload("Artist").Where("battle_id = ?", battleID).Order("created_at ASC").Find(&tracks).Error
	return tracks, err
}

// GetTrack retrieves a track by ID
func (s *TrackService) GetTrack(trackID uuid.UUID) (*models.Track, error) {
	var track models.Track
	if err := s.db.First(&track, "id = ?", trackID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("track not found")
		}
		return nil, err
	}
	return &track, nil
}

// AttachAudio uploads a track's audio file to object storage and records
// the storage key. Only the submitting artist may replace the audio.
func (s *TrackService) AttachAudio(ctx context.Context, trackID, artistID uuid.UUID, filename, contentType string, r io.Reader) (*models.Track, error) {
	track, err := s.GetTrack(trackID)
	if err != nil {
		return nil, err
	}

	if track.ArtistID != artistID {
		return nil, errors.New("track belongs to another artist")
	}

	key := fmt.Sprintf("tracks/%s/%s", track.ID, path.Base(filename))
	if err := s.s3.UploadAudio(ctx, key, r, contentType); err != nil {
		return nil, fmt.Errorf("failed to upload audio: %w", err)
	}

	updates := map[string]interface{}{
		"storage_key": key,
		"audio_url":   fmt.Sprintf("%s/api/v1/tracks/%s/stream", s.cfg.APIUrl, track.ID),
	}
	if err := s.db.Model(track).Updates(updates).Error; err != nil {
		return nil, err
	}

	return track, nil
}

// StreamURL returns a short-lived presigned URL for a track's audio.
// Tracks hosted externally resolve to their stored audio URL.
func (s *TrackService) StreamURL(ctx context.Context, trackID uuid.UUID) (string, error) {
	track, err := s.GetTrack(trackID)
	if err != nil {
		return "", err
	}

	if track.StorageKey == "" {
		if track.AudioURL == "" {
			return "", errors.New("track has no audio")
		}
		return track.AudioURL, nil
	}

	return s.s3.PresignAudioGet(ctx, track.StorageKey, 15*time.Minute)
}
