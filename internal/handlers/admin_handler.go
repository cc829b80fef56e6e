package handlers

import (
	"net/http"
	"strconv"

	"github.com/beatclash/backend/internal/middleware"
	"github.com/beatclash/backend/internal/services"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type AdminHandler struct {
	adminService    *services.AdminService
	userService     *services.UserService
	genreService    *services.GenreService
	battleService   *services.BattleService
	referralService *services.ReferralService
}

func NewAdminHandler(adminService *services.AdminService, userService *services.UserService, genreService *services.GenreService, battleService *services.BattleService, referralService *services.ReferralService) *AdminHandler {
	return &AdminHandler{
		adminService:    adminService,
		userService:     userService,
		genreService:    genreService,
		battleService:   battleService,
		referralService: referralService,
	}
}

// GetDashboardStats returns platform-wide counters and revenue
func (h *AdminHandler) GetDashboardStats(c *gin.Context) {
	stats, err := h.adminService.GetDashboardStats()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch dashboard stats"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"stats": stats})
}

// GetUsers lists all users with pagination
func (h *AdminHandler) GetUsers(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	users, total, err := h.userService.GetAllUsers((page-1)*limit, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch users"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"users": users,
		"total": total,
		"page":  page,
		"limit": limit,
	})
}

// UpdateUserRole changes a user's role
func (h *AdminHandler) UpdateUserRole(c *gin.Context) {
	userID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID"})
		return
	}

	var req struct {
		Role string `json:"role" binding:"required"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.userService.UpdateUserRole(userID, req.Role); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Role updated"})
}

// CreateGenre adds a genre to the roster
func (h *AdminHandler) CreateGenre(c *gin.Context) {
	var req struct {
		Name          string `json:"name" binding:"required,min=2,max=60"`
		MaxTrialSlots int    `json:"max_trial_slots"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if req.MaxTrialSlots <= 0 {
		req.MaxTrialSlots = 100
	}

	genre, err := h.genreService.CreateGenre(req.Name, req.MaxTrialSlots)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"genre": genre})
}

// UpdateBattleStatus manually transitions a battle
func (h *AdminHandler) UpdateBattleStatus(c *gin.Context) {
	battleID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid battle ID"})
		return
	}

	var req struct {
		Status string `json:"status" binding:"required"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.battleService.UpdateBattleStatus(battleID, req.Status); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Battle status updated"})
}

// SetTrackRating confirms a content rating for a track
func (h *AdminHandler) SetTrackRating(c *gin.Context) {
	trackID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid track ID"})
		return
	}

	var req struct {
		Rating string `json:"rating" binding:"required"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	rating, err := h.adminService.SetTrackRating(trackID, req.Rating)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"content_rating": rating})
}

// UpdateReferralStatus transitions a referral claim
func (h *AdminHandler) UpdateReferralStatus(c *gin.Context) {
	referralID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid referral ID"})
		return
	}

	var req struct {
		Status         string `json:"status" binding:"required"`
		ReferredUserID string `json:"referred_user_id"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var referredUserID *uuid.UUID
	if req.ReferredUserID != "" {
		id, err := uuid.Parse(req.ReferredUserID)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid referred user ID"})
			return
		}
		referredUserID = &id
	}

	if err := h.referralService.UpdateReferralStatus(referralID, req.Status, referredUserID); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Referral updated"})
}

// UpsertSettings saves the caller's payout settings
func (h *AdminHandler) UpsertSettings(c *gin.Context) {
	adminID, _ := middleware.UserID(c)

	var req struct {
		StripeAccountID string `json:"stripe_account_id"`
		PayoutSchedule  string `json:"payout_schedule" binding:"required"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	setting, err := h.adminService.UpsertSettings(adminID, req.StripeAccountID, req.PayoutSchedule)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"settings": setting})
}

// GetSettings returns the caller's payout settings
func (h *AdminHandler) GetSettings(c *gin.Context) {
	adminID, _ := middleware.UserID(c)

	setting, err := h.adminService.GetSettings(adminID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch settings"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"settings": setting})
}

// DownloadLeaderboardPDF renders the top-artists report as a PDF
func (h *AdminHandler) DownloadLeaderboardPDF(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "25"))

	pdf, err := h.adminService.RenderLeaderboardPDF(limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to render leaderboard PDF"})
		return
	}

	c.Header("Content-Disposition", `attachment; filename="leaderboard.pdf"`)
	c.Data(http.StatusOK, "application/pdf", pdf)
}
