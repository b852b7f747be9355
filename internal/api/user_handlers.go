package api

import (
	"net/http"
	"strings"

	"github.com/FelipePatitucci/cursor-quiz/internal/constants"
	"github.com/gin-gonic/gin"
)

// GetProfile returns the caller's stored profile and aggregate stats.
func (h *QuizHandler) GetProfile(c *gin.Context) {
	p, err := h.repo.GetProfileByEmail(currentUserEmail(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{constants.JSONKeyError: constants.ErrFailedFetchProfile})
		return
	}
	if p == nil {
		c.JSON(http.StatusNotFound, gin.H{constants.JSONKeyError: constants.ErrFailedFetchProfile})
		return
	}
	c.JSON(http.StatusOK, p)
}

type updateAniListRequest struct {
	AniListUsername string `json:"anilist_username"`
}

// UpdateAniListUsername stores the caller's AniList username, used to
// fetch their anime list.
func (h *QuizHandler) UpdateAniListUsername(c *gin.Context) {
	var req updateAniListRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.AniListUsername) == "" {
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrAniListUsernameReq})
		return
	}
	if err := h.repo.UpdateAniListUsername(currentUserEmail(c), strings.TrimSpace(req.AniListUsername)); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{constants.JSONKeyError: constants.ErrFailedUpdateProfile})
		return
	}
	c.JSON(http.StatusOK, gin.H{constants.JSONKeyMessage: "AniList username updated successfully"})
}

// ListAnimes returns the caller's AniList anime list flattened across
// status buckets, for picking a quiz subject.
func (h *QuizHandler) ListAnimes(c *gin.Context) {
	p, err := h.repo.GetProfileByEmail(currentUserEmail(c))
	if err != nil || p == nil || p.AniListUsername == "" {
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrAniListUsernameUnset})
		return
	}

	list, err := h.catalog.FetchUserAnimeList(c.Request.Context(), p.AniListUsername)
	if err != nil {
		respondError(c, err)
		return
	}

	animes := make([]gin.H, 0)
	for _, status := range list.Statuses {
		for _, a := range list.Entries[status] {
			animes = append(animes, gin.H{
				"id":       a.ID,
				"title":    a.Title,
				"status":   status,
				"episodes": a.Episodes,
				"score":    a.Score,
			})
		}
	}
	c.JSON(http.StatusOK, gin.H{"animes": animes})
}
