package api

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/FelipePatitucci/cursor-quiz/internal/constants"
	"github.com/FelipePatitucci/cursor-quiz/internal/quiz"
	"github.com/FelipePatitucci/cursor-quiz/internal/service"
	"github.com/gin-gonic/gin"
)

type startGameRequest struct {
	AnimeID      int    `json:"anime_id"`
	AnimeTitle   string `json:"anime_title"`
	FavouriteCut *int   `json:"favourite_cut"`
}

// StartGame builds the character index for the requested anime and opens
// a fresh session, discarding any in-progress one.
func (h *QuizHandler) StartGame(c *gin.Context) {
	var req startGameRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.AnimeID == 0 || req.AnimeTitle == "" {
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrAnimeIDTitleRequired})
		return
	}
	cut := h.favouriteCut
	if req.FavouriteCut != nil && *req.FavouriteCut >= 0 {
		cut = *req.FavouriteCut
	}

	owner := currentUserEmail(c)
	hd, err := service.StartGame(c.Request.Context(), h.catalog, h.sessions, owner, req.AnimeID, req.AnimeTitle, cut)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		constants.JSONKeyMessage: "Game started successfully",
		"session_id":             hd.Token,
		"anime_title":            hd.Session.AnimeTitle,
		"total_characters":       hd.Session.TotalCharacters,
	})
}

type guessRequest struct {
	SessionID string `json:"session_id"`
	Guess     string `json:"guess"`
}

// SubmitGuess evaluates one guess for the caller's session.
func (h *QuizHandler) SubmitGuess(c *gin.Context) {
	var req guessRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Guess == "" {
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrGuessRequired})
		return
	}
	owner := currentUserEmail(c)
	token := req.SessionID
	if token == "" {
		// Fall back to the caller's single active session.
		if hd, ok := h.sessions.FindByOwner(owner); ok {
			token = hd.Token
		}
	}

	res, err := service.SubmitGuess(h.repo, h.sessions, owner, token, req.Guess)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

type endGameRequest struct {
	SessionID string `json:"session_id"`
}

// EndGame terminates the caller's session early and returns the final summary.
func (h *QuizHandler) EndGame(c *gin.Context) {
	var req endGameRequest
	_ = c.ShouldBindJSON(&req)
	owner := currentUserEmail(c)
	token := req.SessionID
	if token == "" {
		if hd, ok := h.sessions.FindByOwner(owner); ok {
			token = hd.Token
		}
	}

	sum, err := service.EndGame(h.repo, h.sessions, owner, token)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{constants.JSONKeyMessage: "Game ended successfully", "game": sum})
}

// GameState reports whether the caller has an active game and its counters.
func (h *QuizHandler) GameState(c *gin.Context) {
	owner := currentUserEmail(c)
	hd, ok := h.sessions.FindByOwner(owner)
	if !ok {
		c.JSON(http.StatusOK, gin.H{"active": false, constants.JSONKeyMessage: constants.ErrNoActiveGame})
		return
	}
	sum := hd.Session.Summary()
	c.JSON(http.StatusOK, gin.H{
		"active":           true,
		"session_id":       hd.Token,
		"anime_title":      sum.AnimeTitle,
		"total_characters": sum.TotalCharacters,
		"correct_guesses":  sum.CorrectGuesses,
		"total_guesses":    sum.TotalGuesses,
		"completed":        sum.Completed,
		"score":            sum.Score,
	})
}

// ListGames returns the caller's finished games, most recent first.
func (h *QuizHandler) ListGames(c *gin.Context) {
	games, err := h.repo.GetGamesByOwner(currentUserEmail(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{constants.JSONKeyError: constants.ErrFailedFetchGames})
		return
	}
	c.JSON(http.StatusOK, gin.H{"games": games})
}

// GetGame returns one finished game with its ordered guess log.
func (h *QuizHandler) GetGame(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("gameID"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrInvalidRequest})
		return
	}
	rec, err := h.repo.GetGameByID(uint(id), currentUserEmail(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{constants.JSONKeyError: constants.ErrFailedFetchGames})
		return
	}
	if rec == nil {
		c.JSON(http.StatusNotFound, gin.H{constants.JSONKeyError: constants.ErrGameNotFound})
		return
	}
	c.JSON(http.StatusOK, gin.H{"game": rec})
}

// ExportGame returns a finished game as a downloadable JSON document.
func (h *QuizHandler) ExportGame(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("gameID"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrInvalidRequest})
		return
	}
	rec, err := h.repo.GetGameByID(uint(id), currentUserEmail(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{constants.JSONKeyError: constants.ErrFailedFetchGames})
		return
	}
	if rec == nil {
		c.JSON(http.StatusNotFound, gin.H{constants.JSONKeyError: constants.ErrGameNotFound})
		return
	}
	filename := fmt.Sprintf("game_%d_%d.json", rec.ID, time.Now().Unix())
	c.Header("Content-Disposition", "attachment; filename="+filename)
	c.JSON(http.StatusOK, rec)
}

// GameCharacters returns every character of a finished game's anime,
// marking which ones were guessed correctly. Character data comes from
// the catalog client (cache-first), not from the persisted record.
func (h *QuizHandler) GameCharacters(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("gameID"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrInvalidRequest})
		return
	}
	rec, err := h.repo.GetGameByID(uint(id), currentUserEmail(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{constants.JSONKeyError: constants.ErrFailedFetchGames})
		return
	}
	if rec == nil {
		c.JSON(http.StatusNotFound, gin.H{constants.JSONKeyError: constants.ErrGameNotFound})
		return
	}

	records, err := h.catalog.FetchCharacters(c.Request.Context(), rec.AnimeID)
	if err != nil {
		respondError(c, err)
		return
	}

	guessedNames := make(map[string]struct{})
	for _, g := range rec.Guesses {
		if g.IsCorrect {
			guessedNames[g.CharacterName] = struct{}{}
		}
	}

	characters := make([]gin.H, 0, len(records))
	for _, char := range records {
		// Cased "Last First" for display; the guess log stores the
		// normalized form, so compare case-insensitively.
		display := strings.TrimSpace(char.Name.Last + " " + char.Name.First)
		_, wasGuessed := guessedNames[quiz.Normalize(display)]
		characters = append(characters, gin.H{
			"id":          char.ID,
			"name":        display,
			"native_name": char.Name.Native,
			"image":       char.Image,
			"role":        char.Role,
			"favourites":  char.Favourites,
			"was_guessed": wasGuessed,
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"game_id":          rec.ID,
		"anime_title":      rec.AnimeTitle,
		"total_characters": rec.TotalCharacters,
		"characters":       characters,
		"correct_guesses":  rec.CorrectGuesses,
		"total_guesses":    rec.TotalGuesses,
		"score":            rec.Score,
		"completed":        rec.Completed,
	})
}

// ListLeaderboard returns the top completed games by score.
func (h *QuizHandler) ListLeaderboard(c *gin.Context) {
	games, err := h.repo.GetTopGames(10)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{constants.JSONKeyError: constants.ErrFailedFetchBoard})
		return
	}

	board := make([]gin.H, 0, len(games))
	for _, g := range games {
		name := g.OwnerEmail
		if p, err := h.repo.GetProfileByEmail(g.OwnerEmail); err == nil && p != nil && p.DisplayName != "" {
			name = p.DisplayName
		}
		board = append(board, gin.H{
			"username":         name,
			"anime_title":      g.AnimeTitle,
			"score":            g.Score,
			"correct_guesses":  g.CorrectGuesses,
			"total_characters": g.TotalCharacters,
			"date":             g.EndTime.Format("2006-01-02"),
		})
	}
	c.JSON(http.StatusOK, gin.H{"leaderboard": board})
}
