package handlers

import (
	"encoding/json"
	"io"
	"log"
	"net/http"

	"github.com/beatclash/backend/internal/config"
	"github.com/beatclash/backend/internal/services"
	"github.com/gin-gonic/gin"
	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/webhook"
)

type StripeHandler struct {
	subscriptionService *services.SubscriptionService
	cfg                 *config.Config
}

func NewStripeHandler(subscriptionService *services.SubscriptionService, cfg *config.Config) *StripeHandler {
	return &StripeHandler{
		subscriptionService: subscriptionService,
		cfg:                 cfg,
	}
}

// HandleWebhook handles Stripe webhook events
func (h *StripeHandler) HandleWebhook(c *gin.Context) {
	const MaxBodyBytes = int64(65536)
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, MaxBodyBytes)

	payload, err := io.ReadAll(c.Request.Body)
	if err != nil {
		log.Printf("ERROR: Failed to read Stripe webhook request body: %v", err)
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Error reading request body"})
		return
	}

	signatureHeader := c.GetHeader("Stripe-Signature")

	event, err := webhook.ConstructEvent(payload, signatureHeader, h.cfg.StripeWebhookSecret)
	if err != nil {
		log.Printf("ERROR: Webhook signature verification failed: %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid signature"})
		return
	}

	log.Printf("INFO: Received Stripe event type: %s, ID: %s", event.Type, event.ID)

	switch event.Type {
	case "payment_intent.succeeded":
		var paymentIntent stripe.PaymentIntent
		if err := json.Unmarshal(event.Data.Raw, &paymentIntent); err != nil {
			log.Printf("ERROR: Failed to parse webhook JSON for payment_intent.succeeded: %v", err)
			c.JSON(http.StatusBadRequest, gin.H{"error": "Error parsing webhook JSON"})
			return
		}

		if paymentIntent.Customer == nil {
			log.Printf("WARN: payment_intent.succeeded %s has no customer, skipping", paymentIntent.ID)
			c.JSON(http.StatusOK, gin.H{"status": "success", "message": "No customer on payment intent"})
			return
		}

		if err := h.subscriptionService.RecordPayment(paymentIntent.Customer.ID, paymentIntent.ID, paymentIntent.Amount, string(paymentIntent.Currency)); err != nil {
			log.Printf("ERROR: Failed to record payment for intent %s: %v", paymentIntent.ID, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to record payment"})
			return
		}

		log.Printf("SUCCESS: Recorded payment for PaymentIntent %s", paymentIntent.ID)
		c.JSON(http.StatusOK, gin.H{"status": "success", "message": "Payment recorded"})
		return

	case "invoice.payment_succeeded":
		var invoice stripe.Invoice
		if err := json.Unmarshal(event.Data.Raw, &invoice); err != nil {
			log.Printf("ERROR: Failed to parse webhook JSON for invoice.payment_succeeded: %v", err)
			c.JSON(http.StatusBadRequest, gin.H{"error": "Error parsing webhook JSON"})
			return
		}

		if invoice.Customer == nil {
			log.Printf("WARN: invoice.payment_succeeded %s has no customer, skipping", invoice.ID)
			c.JSON(http.StatusOK, gin.H{"status": "success", "message": "No customer on invoice"})
			return
		}

		// Renewal invoices reference the invoice ID, not a payment intent we
		// created ourselves
		if err := h.subscriptionService.RecordPayment(invoice.Customer.ID, invoice.ID, invoice.AmountPaid, string(invoice.Currency)); err != nil {
			log.Printf("ERROR: Failed to record invoice payment %s: %v", invoice.ID, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to record payment"})
			return
		}

		log.Printf("SUCCESS: Recorded renewal payment for invoice %s", invoice.ID)
		c.JSON(http.StatusOK, gin.H{"status": "success", "message": "Payment recorded"})
		return

	case "payment_intent.payment_failed":
		var paymentIntent stripe.PaymentIntent
		if err := json.Unmarshal(event.Data.Raw, &paymentIntent); err != nil {
			log.Printf("ERROR: Failed to parse webhook JSON for payment_intent.payment_failed: %v", err)
			c.JSON(http.StatusBadRequest, gin.H{"error": "Error parsing webhook JSON"})
			return
		}
		var reason string
		if paymentIntent.LastPaymentError != nil {
			reason = paymentIntent.LastPaymentError.Msg
		}
		log.Printf("WARN: Payment failed for PaymentIntent %s. Reason: %s", paymentIntent.ID, reason)
		c.JSON(http.StatusOK, gin.H{"status": "success", "message": "Payment failure noted"})

	case "customer.subscription.deleted":
		var subscription stripe.Subscription
		if err := json.Unmarshal(event.Data.Raw, &subscription); err != nil {
			log.Printf("ERROR: Failed to parse webhook JSON for customer.subscription.deleted: %v", err)
			c.JSON(http.StatusBadRequest, gin.H{"error": "Error parsing webhook JSON"})
			return
		}

		if subscription.Customer == nil {
			log.Printf("WARN: customer.subscription.deleted %s has no customer, skipping", subscription.ID)
			c.JSON(http.StatusOK, gin.H{"status": "success", "message": "No customer on subscription"})
			return
		}

		if err := h.subscriptionService.CancelByCustomer(subscription.Customer.ID); err != nil {
			log.Printf("ERROR: Failed to cancel subscription for customer %s: %v", subscription.Customer.ID, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to cancel subscription"})
			return
		}

		log.Printf("SUCCESS: Canceled subscription for customer %s", subscription.Customer.ID)
		c.JSON(http.StatusOK, gin.H{"status": "success", "message": "Subscription canceled"})
		return

	default:
		log.Printf("INFO: Unhandled Stripe event type: %s", event.Type)
		c.JSON(http.StatusOK, gin.H{"status": "success", "message": "Unhandled event type"})
	}
}
