package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User roles
const (
	RoleListener    = "listener"
	RoleParticipant = "participant"
	RoleAdmin       = "admin"
)

// Subscription statuses
const (
	SubscriptionActive   = "active"
	SubscriptionInactive = "inactive"
	SubscriptionTrial    = "trial"
	SubscriptionCanceled = "canceled"
)

type User struct {
	ID              uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	Username        string    `gorm:"uniqueIndex;not null" json:"username"`
	Email           string    `gorm:"uniqueIndex;not null" json:"email"`
	Password        string    `gorm:"not null" json:"-"`
	FirstName       string    `json:"first_name"`
	LastName        string    `json:"last_name"`
	ProfileImageURL string    `json:"profile_image_url,omitempty"`
	GoogleID        string    `gorm:"index" json:"-"`
	Role            string    `gorm:"not null;default:'listener'" json:"role"`
	IsActive        bool      `gorm:"default:true" json:"is_active"`

	StripeCustomerID     string     `gorm:"index" json:"-"`
	StripeSubscriptionID string     `json:"-"`
	SubscriptionStatus   string     `gorm:"not null;default:'inactive'" json:"subscription_status"`
	TrialExpiresAt       *time.Time `json:"trial_expires_at,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relations
	Battles   []Battle   `gorm:"foreignKey:CreatedByID" json:"battles,omitempty"`
	Tracks    []Track    `gorm:"foreignKey:ArtistID" json:"tracks,omitempty"`
	Votes     []Vote     `gorm:"foreignKey:UserID" json:"votes,omitempty"`
	Referrals []Referral `gorm:"foreignKey:ReferrerID" json:"referrals,omitempty"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

// IsParticipant reports whether the user may submit tracks and create battles
func (u *User) IsParticipant() bool {
	return u.Role == RoleParticipant || u.Role == RoleAdmin
}

type RefreshToken struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;index"`
	Token     string    `gorm:"uniqueIndex;not null"`
	ExpiresAt time.Time `gorm:"not null"`
	CreatedAt time.Time

	// Relations
	User User `gorm:"foreignKey:UserID"`
}

func (r *RefreshToken) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}
