package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Genre struct {
	ID               uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	Name             string    `gorm:"uniqueIndex;not null" json:"name"`
	Slug             string    `gorm:"uniqueIndex;not null" json:"slug"`
	MaxTrialSlots    int       `gorm:"not null;default:100" json:"max_trial_slots"`
	FilledTrialSlots int       `gorm:"not null;default:0" json:"filled_trial_slots"`
	CreatedAt        time.Time `json:"created_at"`

	// Relations
	Battles    []Battle    `gorm:"foreignKey:GenreID" json:"battles,omitempty"`
	TrialSlots []TrialSlot `gorm:"foreignKey:GenreID" json:"trial_slots,omitempty"`
}

func (g *Genre) BeforeCreate(tx *gorm.DB) error {
	if g.ID == uuid.Nil {
		g.ID = uuid.New()
	}
	return nil
}

// AvailableTrialSlots returns the number of trial slots still open
func (g *Genre) AvailableTrialSlots() int {
	available := g.MaxTrialSlots - g.FilledTrialSlots
	if available < 0 {
		return 0
	}
	return available
}
