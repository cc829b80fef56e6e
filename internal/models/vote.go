package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Vote is one user's single vote in a battle. The composite unique index is
// the authority on "one vote per user per battle" — concurrent duplicate
// submissions fail at the database, not in application checks.
type Vote struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_votes_user_battle" json:"user_id"`
	TrackID   uuid.UUID `gorm:"type:uuid;not null;index" json:"track_id"`
	BattleID  uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_votes_user_battle" json:"battle_id"`
	CreatedAt time.Time `json:"created_at"`

	// Relations
	User   User   `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Track  Track  `gorm:"foreignKey:TrackID" json:"track,omitempty"`
	Battle Battle `gorm:"foreignKey:BattleID" json:"battle,omitempty"`
}

func (v *Vote) BeforeCreate(tx *gorm.DB) error {
	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}
	return nil
}
