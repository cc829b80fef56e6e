package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Battle statuses
const (
	BattlePending = "pending"
	BattleActive  = "active"
	BattleEnded   = "ended"
)

type Battle struct {
	ID          uuid.UUID  `gorm:"type:uuid;primary_key" json:"id"`
	Title       string     `gorm:"not null" json:"title"`
	Slug        string     `gorm:"index;not null" json:"slug"`
	Description string     `gorm:"type:text" json:"description"`
	GenreID     uuid.UUID  `gorm:"type:uuid;not null;index" json:"genre_id"`
	CreatedByID uuid.UUID  `gorm:"type:uuid;not null" json:"created_by_id"`
	Status      string     `gorm:"not null;default:'pending';index" json:"status"`
	StartsAt    *time.Time `json:"starts_at,omitempty"`
	EndsAt      time.Time  `gorm:"not null" json:"ends_at"`
	PrizePool   float64    `gorm:"type:decimal(10,2);default:0" json:"prize_pool"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`

	// Relations
	Genre   Genre   `gorm:"foreignKey:GenreID" json:"genre,omitempty"`
	Creator User    `gorm:"foreignKey:CreatedByID" json:"creator,omitempty"`
	Tracks  []Track `gorm:"foreignKey:BattleID" json:"tracks,omitempty"`
	Votes   []Vote  `gorm:"foreignKey:BattleID" json:"votes,omitempty"`
}

func (b *Battle) BeforeCreate(tx *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}

// ValidBattleStatus reports whether s is a known battle status
func ValidBattleStatus(s string) bool {
	return s == BattlePending || s == BattleActive || s == BattleEnded
}
