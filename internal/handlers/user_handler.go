package handlers

import (
	"errors"
	"net/http"

	"github.com/beatclash/backend/internal/middleware"
	"github.com/beatclash/backend/internal/services"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type UserHandler struct {
	userService         *services.UserService
	voteService         *services.VoteService
	trialService        *services.TrialService
	referralService     *services.ReferralService
	subscriptionService *services.SubscriptionService
}

func NewUserHandler(userService *services.UserService, voteService *services.VoteService, trialService *services.TrialService, referralService *services.ReferralService, subscriptionService *services.SubscriptionService) *UserHandler {
	return &UserHandler{
		userService:         userService,
		voteService:         voteService,
		trialService:        trialService,
		referralService:     referralService,
		subscriptionService: subscriptionService,
	}
}

// UpdateProfile updates the caller's profile fields
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	userID, _ := middleware.UserID(c)

	var req struct {
		FirstName       *string `json:"first_name"`
		LastName        *string `json:"last_name"`
		ProfileImageURL *string `json:"profile_image_url"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	updates := map[string]interface{}{}
	if req.FirstName != nil {
		updates["first_name"] = *req.FirstName
	}
	if req.LastName != nil {
		updates["last_name"] = *req.LastName
	}
	if req.ProfileImageURL != nil {
		updates["profile_image_url"] = *req.ProfileImageURL
	}

	if err := h.userService.UpdateUserProfile(userID, updates); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.userService.GetUserByID(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch user"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": user})
}

// CastVote records the caller's vote for a track
func (h *UserHandler) CastVote(c *gin.Context) {
	userID, _ := middleware.UserID(c)

	var req struct {
		TrackID string `json:"track_id" binding:"required"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	trackID, err := uuid.Parse(req.TrackID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid track ID"})
		return
	}

	vote, err := h.voteService.CastVote(userID, trackID)
	if err != nil {
		if errors.Is(err, services.ErrAlreadyVoted) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Already voted in this battle"})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"vote": vote})
}

// GetMyVote returns the caller's vote in a battle, if any
func (h *UserHandler) GetMyVote(c *gin.Context) {
	userID, _ := middleware.UserID(c)

	battleID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid battle ID"})
		return
	}

	vote, err := h.voteService.GetUserVote(userID, battleID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch vote"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"vote": vote})
}

// ClaimTrialSlot grants the caller a one-month trial in a genre
func (h *UserHandler) ClaimTrialSlot(c *gin.Context) {
	userID, _ := middleware.UserID(c)

	var req struct {
		GenreID string `json:"genre_id" binding:"required"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	genreID, err := uuid.Parse(req.GenreID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid genre ID"})
		return
	}

	slot, err := h.trialService.GrantTrialSlot(userID, genreID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"trial_slot": slot,
		"message":    "Trial started, expires " + slot.ExpiresAt.Format("2006-01-02"),
	})
}

// GetMyTrialSlots lists the caller's trial slots
func (h *UserHandler) GetMyTrialSlots(c *gin.Context) {
	userID, _ := middleware.UserID(c)

	slots, err := h.trialService.GetUserTrialSlots(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch trial slots"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"trial_slots": slots})
}

// CreateReferral records a referral claim for the caller
func (h *UserHandler) CreateReferral(c *gin.Context) {
	userID, _ := middleware.UserID(c)

	var req struct {
		SocialPostURL string `json:"social_post_url"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	referral, err := h.referralService.CreateReferral(userID, req.SocialPostURL)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create referral"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"referral":      referral,
		"referral_link": h.referralService.ReferralLink(userID),
	})
}

// GetMyReferrals lists the caller's referrals
func (h *UserHandler) GetMyReferrals(c *gin.Context) {
	userID, _ := middleware.UserID(c)

	referrals, err := h.referralService.GetUserReferrals(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch referrals"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"referrals":     referrals,
		"referral_link": h.referralService.ReferralLink(userID),
	})
}

// GetReferralQR renders the caller's referral link as a PNG QR code
func (h *UserHandler) GetReferralQR(c *gin.Context) {
	userID, _ := middleware.UserID(c)

	png, err := h.referralService.GenerateReferralQR(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate QR code"})
		return
	}

	c.Data(http.StatusOK, "image/png", png)
}

// CreateSubscription opens a payment intent for the participant plan
func (h *UserHandler) CreateSubscription(c *gin.Context) {
	userID, _ := middleware.UserID(c)

	result, err := h.subscriptionService.CreateSubscriptionIntent(userID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"payment_intent": result})
}

// GetMyPayments lists the caller's confirmed payments
func (h *UserHandler) GetMyPayments(c *gin.Context) {
	userID, _ := middleware.UserID(c)

	payments, err := h.subscriptionService.GetUserPayments(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch payments"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"payments": payments})
}
