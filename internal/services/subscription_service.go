package services

import (
	"errors"
	"fmt"

	"github.com/beatclash/backend/internal/config"
	"github.com/beatclash/backend/internal/models"
	"github.com/google/uuid"
	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/customer"
	"github.com/stripe/stripe-go/v82/paymentintent"
	"gorm.io/gorm"
)

type SubscriptionService struct {
	db  *gorm.DB
	cfg *config.Config
}

func NewSubscriptionService(db *gorm.DB, cfg *config.Config) *SubscriptionService {
	stripe.Key = cfg.StripeSecretKey
	return &SubscriptionService{db: db, cfg: cfg}
}

type PaymentIntentResult struct {
	ClientSecret    string `json:"client_secret"`
	PaymentIntentID string `json:"payment_intent_id"`
	AmountCents     int64  `json:"amount_cents"`
}

// CreateSubscriptionIntent sets up a Stripe customer for the user if needed
// and opens a payment intent for the participant plan. The user stays on
// their current status until the webhook confirms the payment.
func (s *SubscriptionService) CreateSubscriptionIntent(userID uuid.UUID) (*PaymentIntentResult, error) {
	var user models.User
	if err := s.db.First(&user, "id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("user not found")
		}
		return nil, err
	}

	if user.SubscriptionStatus == models.SubscriptionActive {
		return nil, errors.New("subscription is already active")
	}

	customerID := user.StripeCustomerID
	if customerID == "" {
		cust, err := customer.New(&stripe.CustomerParams{
			Email: stripe.String(user.Email),
			Name:  stripe.String(user.Username),
			Metadata: map[string]string{
				"user_id": user.ID.String(),
			},
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create stripe customer: %w", err)
		}
		customerID = cust.ID

		if err := s.db.Model(&user).Update("stripe_customer_id", customerID).Error; err != nil {
			return nil, err
		}
	}

	intent, err := paymentintent.New(&stripe.PaymentIntentParams{
		Amount:   stripe.Int64(s.cfg.ParticipantPriceCents),
		Currency: stripe.String(string(stripe.CurrencyUSD)),
		Customer: stripe.String(customerID),
		AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled: stripe.Bool(true),
		},
		Metadata: map[string]string{
			"user_id":           user.ID.String(),
			"subscription_type": "participant",
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create payment intent: %w", err)
	}

	return &PaymentIntentResult{
		ClientSecret:    intent.ClientSecret,
		PaymentIntentID: intent.ID,
		AmountCents:     intent.Amount,
	}, nil
}

// RecordPayment writes a confirmed payment to the ledger and activates the
// user's subscription. Webhook retries carrying the same payment intent are
// dropped by the unique index.
func (s *SubscriptionService) RecordPayment(customerID, paymentIntentID string, amountCents int64, currency string) error {
	var user models.User
	if err := s.db.First(&user, "stripe_customer_id = ?", customerID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("no user for stripe customer %s", customerID)
		}
		return err
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		payment := &models.SubscriptionPayment{
			UserID:                user.ID,
			StripeCustomerID:      customerID,
			StripePaymentIntentID: paymentIntentID,
			AmountCents:           amountCents,
			Currency:              currency,
			Status:                "succeeded",
		}
		if err := tx.Create(payment).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return nil // retry of an already-recorded event
			}
			return err
		}

		return tx.Model(&models.User{}).Where("id = ?", user.ID).Updates(map[string]interface{}{
			"subscription_status": models.SubscriptionActive,
			"role":                models.RoleParticipant,
			"trial_expires_at":    nil,
		}).Error
	})
}

// CancelByCustomer marks the subscription canceled when Stripe reports the
// subscription deleted
func (s *SubscriptionService) CancelByCustomer(customerID string) error {
	result := s.db.Model(&models.User{}).
		Where("stripe_customer_id = ?", customerID).
		Updates(map[string]interface{}{
			"subscription_status":    models.SubscriptionCanceled,
			"stripe_subscription_id": "",
			"role":                   models.RoleListener,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("no user for stripe customer %s", customerID)
	}
	return nil
}

// AttachSubscription stores the Stripe subscription ID reported by the
// first invoice webhook
func (s *SubscriptionService) AttachSubscription(customerID, subscriptionID string) error {
	return s.db.Model(&models.User{}).
		Where("stripe_customer_id = ?", customerID).
		Update("stripe_subscription_id", subscriptionID).Error
}

// GetUserPayments returns a user's payment history, newest first
func (s *SubscriptionService) GetUserPayments(userID uuid.UUID) ([]*models.SubscriptionPayment, error) {
	var payments []*models.SubscriptionPayment
	err := s.db.Where("user_id = ?", userID).Order("created_at DESC").Find(&payments).Error
	return payments, err
}
