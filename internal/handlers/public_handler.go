package handlers

import (
	"net/http"
	"strconv"

	"github.com/beatclash/backend/internal/services"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type PublicHandler struct {
	genreService       *services.GenreService
	battleService      *services.BattleService
	trackService       *services.TrackService
	voteService        *services.VoteService
	leaderboardService *services.LeaderboardService
}

func NewPublicHandler(genreService *services.GenreService, battleService *services.BattleService, trackService *services.TrackService, voteService *services.VoteService, leaderboardService *services.LeaderboardService) *PublicHandler {
	return &PublicHandler{
		genreService:       genreService,
		battleService:      battleService,
		trackService:       trackService,
		voteService:        voteService,
		leaderboardService: leaderboardService,
	}
}

// GetGenres lists all genres
func (h *PublicHandler) GetGenres(c *gin.Context) {
	genres, err := h.genreService.GetGenres()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch genres"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"genres": genres})
}

// GetGenreTrialAvailability reports open trial slots for a genre
func (h *PublicHandler) GetGenreTrialAvailability(c *gin.Context) {
	genreID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid genre ID"})
		return
	}

	available, err := h.genreService.AvailableTrialSlots(genreID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"genre_id":        genreID,
		"available_slots": available,
	})
}

// GetBattles lists battles, optionally filtered by genre and status
func (h *PublicHandler) GetBattles(c *gin.Context) {
	var genreID *uuid.UUID
	if raw := c.Query("genre_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid genre ID"})
			return
		}
		genreID = &id
	}

	battles, err := h.battleService.GetBattles(genreID, c.Query("status"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"battles": battles})
}

// GetBattle returns a battle with its tracks
func (h *PublicHandler) GetBattle(c *gin.Context) {
	battleID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid battle ID"})
		return
	}

	battle, err := h.battleService.GetBattle(battleID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"battle": battle})
}

// GetBattleTracks lists the tracks submitted to a battle
func (h *PublicHandler) GetBattleTracks(c *gin.Context) {
	battleID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid battle ID"})
		return
	}

	tracks, err := h.trackService.GetTracks(battleID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch tracks"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"tracks": tracks})
}

// GetBattleResults returns per-track vote totals, winner first
func (h *PublicHandler) GetBattleResults(c *gin.Context) {
	battleID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid battle ID"})
		return
	}

	results, err := h.leaderboardService.GetBattleResults(battleID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch results"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"results": results})
}

// GetTrackVotes returns the vote count for a track
func (h *PublicHandler) GetTrackVotes(c *gin.Context) {
	trackID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid track ID"})
		return
	}

	count, err := h.voteService.GetVoteCount(trackID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch vote count"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"track_id":   trackID,
		"vote_count": count,
	})
}

// StreamTrack redirects to a short-lived URL for the track's audio
func (h *PublicHandler) StreamTrack(c *gin.Context) {
	trackID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid track ID"})
		return
	}

	url, err := h.trackService.StreamURL(c.Request.Context(), trackID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}

	c.Redirect(http.StatusTemporaryRedirect, url)
}

// GetTopArtists returns the artist leaderboard
func (h *PublicHandler) GetTopArtists(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))

	artists, err := h.leaderboardService.GetTopArtists(limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch leaderboard"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"artists": artists})
}

// GetTopReferrers returns the referral leaderboard
func (h *PublicHandler) GetTopReferrers(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))

	referrers, err := h.leaderboardService.GetTopReferrers(limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch leaderboard"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"referrers": referrers})
}
