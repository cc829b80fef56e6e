package services

import (
	"errors"

	"github.com/beatclash/backend/internal/models"
	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"gorm.io/gorm"
)

// The platform runs a fixed roster of at most eight genres
const maxGenres = 8

var ErrGenreLimit = errors.New("maximum number of genres reached")

type GenreService struct {
	db *gorm.DB
}

func NewGenreService(db *gorm.DB) *GenreService {
	return &GenreService{db: db}
}

// CreateGenre creates a genre, enforcing the roster cap inside a transaction
func (s *GenreService) CreateGenre(name string, maxTrialSlots int) (*models.Genre, error) {
	genre := &models.Genre{
		Name:          name,
		Slug:          slug.Make(name),
		MaxTrialSlots: maxTrialSlots,
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.Genre{}).Count(&count).Error; err != nil {
			return err
		}
		if count >= maxGenres {
			return ErrGenreLimit
		}
		return tx.Create(genre).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, errors.New("genre already exists")
		}
		return nil, err
	}

	return genre, nil
}

// GetGenres retrieves all genres ordered by name
func (s *GenreService) GetGenres() ([]*models.Genre, error) {
	var genres []*models.Genre
	err := s.db.Order("name ASC").Find(&genres).Error
	return genres, err
}

// GetGenre retrieves a genre by ID
func (s *GenreService) GetGenre(genreID uuid.UUID) (*models.Genre, error) {
	var genre models.Genre
	if err := s.db.First(&genre, "id = ?", genreID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("genre not found")
		}
		return nil, err
	}
	return &genre, nil
}

// AvailableTrialSlots returns the number of open trial slots for a genre
func (s *GenreService) AvailableTrialSlots(genreID uuid.UUID) (int, error) {
	genre, err := s.GetGenre(genreID)
	if err != nil {
		return 0, err
	}
	return genre.AvailableTrialSlots(), nil
}
