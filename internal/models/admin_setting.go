package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Payout schedules
const (
	PayoutDaily   = "daily"
	PayoutWeekly  = "weekly"
	PayoutMonthly = "monthly"
)

// AdminSetting holds per-admin payout configuration, one row per admin
type AdminSetting struct {
	ID              uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	AdminID         uuid.UUID `gorm:"type:uuid;uniqueIndex;not null" json:"admin_id"`
	StripeAccountID string    `json:"stripe_account_id,omitempty"`
	PayoutSchedule  string    `gorm:"not null;default:'monthly'" json:"payout_schedule"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`

	// Relations
	Admin User `gorm:"foreignKey:AdminID" json:"admin,omitempty"`
}

func (a *AdminSetting) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}

// ValidPayoutSchedule reports whether s is a known payout schedule
func ValidPayoutSchedule(s string) bool {
	return s == PayoutDaily || s == PayoutWeekly || s == PayoutMonthly
}
