package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Content ratings
const (
	RatingAllAges  = "All Ages"
	RatingTeen     = "13+"
	RatingExplicit = "18+"
)

type ContentRating struct {
	ID               uuid.UUID  `gorm:"type:uuid;primary_key" json:"id"`
	BattleID         *uuid.UUID `gorm:"type:uuid;index" json:"battle_id,omitempty"`
	TrackID          *uuid.UUID `gorm:"type:uuid;uniqueIndex" json:"track_id,omitempty"`
	Rating           string     `gorm:"not null;default:'All Ages'" json:"rating"`
	FlaggedBy        []string   `gorm:"serializer:json" json:"flagged_by,omitempty"`
	ConfirmedByAdmin bool       `gorm:"default:false" json:"confirmed_by_admin"`
	CreatedAt        time.Time  `json:"created_at"`

	// Relations
	Battle *Battle `gorm:"foreignKey:BattleID" json:"battle,omitempty"`
	Track  *Track  `gorm:"foreignKey:TrackID" json:"track,omitempty"`
}

func (c *ContentRating) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

// ValidRating reports whether s is a known content rating
func ValidRating(s string) bool {
	return s == RatingAllAges || s == RatingTeen || s == RatingExplicit
}
