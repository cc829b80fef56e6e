package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Referral statuses
const (
	ReferralPending   = "pending"
	ReferralVerified  = "verified"
	ReferralCompleted = "completed"
)

type Referral struct {
	ID             uuid.UUID  `gorm:"type:uuid;primary_key" json:"id"`
	ReferrerID     uuid.UUID  `gorm:"type:uuid;not null;index" json:"referrer_id"`
	ReferredUserID *uuid.UUID `gorm:"type:uuid;index" json:"referred_user_id,omitempty"`
	SocialPostURL  string     `json:"social_post_url,omitempty"`
	Status         string     `gorm:"not null;default:'pending'" json:"status"`
	CreatedAt      time.Time  `json:"created_at"`

	// Relations
	Referrer User  `gorm:"foreignKey:ReferrerID" json:"referrer,omitempty"`
	Referred *User `gorm:"foreignKey:ReferredUserID" json:"referred,omitempty"`
}

func (r *Referral) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

// ValidReferralStatus reports whether s is a known referral status
func ValidReferralStatus(s string) bool {
	return s == ReferralPending || s == ReferralVerified || s == ReferralCompleted
}
