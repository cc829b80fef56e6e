package handlers

import (
	"net/http"
	"time"

	"github.com/beatclash/backend/internal/middleware"
	"github.com/beatclash/backend/internal/services"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Audio uploads are capped at 50 MB
const maxAudioUploadBytes = 50 << 20

type BattleHandler struct {
	battleService *services.BattleService
	trackService  *services.TrackService
}

func NewBattleHandler(battleService *services.BattleService, trackService *services.TrackService) *BattleHandler {
	return &BattleHandler{
		battleService: battleService,
		trackService:  trackService,
	}
}

// CreateBattle opens a new battle in a genre
func (h *BattleHandler) CreateBattle(c *gin.Context) {
	userID, _ := middleware.UserID(c)

	var req struct {
		Title       string     `json:"title" binding:"required,min=3,max=120"`
		Description string     `json:"description"`
		GenreID     string     `json:"genre_id" binding:"required"`
		StartsAt    *time.Time `json:"starts_at"`
		EndsAt      time.Time  `json:"ends_at" binding:"required"`
		PrizePool   float64    `json:"prize_pool"`
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

	battle, err := h.battleService.CreateBattle(userID, genreID, req.Title, req.Description, req.StartsAt, req.EndsAt, req.PrizePool)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"battle": battle})
}

// CreateTrack submits a track into a battle
func (h *BattleHandler) CreateTrack(c *gin.Context) {
	userID, _ := middleware.UserID(c)

	battleID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid battle ID"})
		return
	}

	var req struct {
		Title      string `json:"title" binding:"required,min=1,max=200"`
		AudioURL   string `json:"audio_url"`
		BandlabURL string `json:"bandlab_url"`
		Duration   int    `json:"duration"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	track, err := h.trackService.CreateTrack(userID, battleID, req.Title, req.AudioURL, req.BandlabURL, req.Duration)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"track": track})
}

// UploadTrackAudio attaches an audio file to the caller's track
func (h *BattleHandler) UploadTrackAudio(c *gin.Context) {
	userID, _ := middleware.UserID(c)

	trackID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid track ID"})
		return
	}

	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxAudioUploadBytes)

	file, header, err := c.Request.FormFile("audio")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Audio file required"})
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "audio/mpeg"
	}

	track, err := h.trackService.AttachAudio(c.Request.Context(), trackID, userID, header.Filename, contentType, file)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"track": track})
}
