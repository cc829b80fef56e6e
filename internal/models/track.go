package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Track struct {
	ID         uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	Title      string    `gorm:"not null" json:"title"`
	ArtistID   uuid.UUID `gorm:"type:uuid;not null;index" json:"artist_id"`
	BattleID   uuid.UUID `gorm:"type:uuid;not null;index" json:"battle_id"`
	AudioURL   string    `json:"audio_url,omitempty"`
	BandlabURL string    `json:"bandlab_url,omitempty"`
	StorageKey string    `json:"-"`
	Duration   int       `json:"duration"` // seconds
	CreatedAt  time.Time `json:"created_at"`

	// Relations
	Artist User   `gorm:"foreignKey:ArtistID" json:"artist,omitempty"`
	Battle Battle `gorm:"foreignKey:BattleID" json:"battle,omitempty"`
	Votes  []Vote `gorm:"foreignKey:TrackID" json:"votes,omitempty"`
}

func (t *Track) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}
