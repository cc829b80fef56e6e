package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// SubscriptionPayment is the ledger of provider-confirmed payments. Admin
// revenue is the sum over succeeded rows, never a count-times-price estimate.
// The unique payment intent ID keeps webhook retries idempotent.
type SubscriptionPayment struct {
	ID                    uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	UserID                uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	StripeCustomerID      string    `gorm:"index" json:"-"`
	StripePaymentIntentID string    `gorm:"uniqueIndex;not null" json:"-"`
	AmountCents           int64     `gorm:"not null" json:"amount_cents"`
	Currency              string    `gorm:"not null;default:'usd'" json:"currency"`
	Status                string    `gorm:"not null;default:'succeeded'" json:"status"`
	CreatedAt             time.Time `json:"created_at"`

	// Relations
	User User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

func (p *SubscriptionPayment) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}
