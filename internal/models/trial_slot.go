package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type TrialSlot struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	GenreID   uuid.UUID `gorm:"type:uuid;not null;index" json:"genre_id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	GrantedAt time.Time `gorm:"not null" json:"granted_at"`
	ExpiresAt time.Time `gorm:"not null;index" json:"expires_at"`
	Released  bool      `gorm:"default:false" json:"-"`

	// Relations
	Genre Genre `gorm:"foreignKey:GenreID" json:"genre,omitempty"`
	User  User  `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

func (t *TrialSlot) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}
