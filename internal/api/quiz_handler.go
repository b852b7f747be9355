package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/FelipePatitucci/cursor-quiz/internal/anilist"
	"github.com/FelipePatitucci/cursor-quiz/internal/constants"
	"github.com/FelipePatitucci/cursor-quiz/internal/quiz"
	"github.com/FelipePatitucci/cursor-quiz/internal/service"
	"github.com/FelipePatitucci/cursor-quiz/internal/session"
	"github.com/FelipePatitucci/cursor-quiz/internal/storage"
	"github.com/gin-gonic/gin"
)

// CatalogClient is the slice of the AniList client the handlers need.
type CatalogClient interface {
	FetchCharacters(ctx context.Context, animeID int) ([]quiz.CharacterRecord, error)
	FetchUserAnimeList(ctx context.Context, username string) (*anilist.AnimeList, error)
}

// QuizHandler groups all quiz-related HTTP handlers.
type QuizHandler struct {
	repo         storage.Repository
	sessions     *session.Store
	catalog      CatalogClient
	favouriteCut int
}

// NewQuizHandler creates a QuizHandler with the given collaborators and
// the configured default favourites cut.
func NewQuizHandler(repo storage.Repository, sessions *session.Store, catalog CatalogClient, favouriteCut int) *QuizHandler {
	return &QuizHandler{repo: repo, sessions: sessions, catalog: catalog, favouriteCut: favouriteCut}
}

// respondError translates core errors into HTTP responses. Retryable vs
// terminal upstream failures are distinguished by type, not by string.
func respondError(c *gin.Context, err error) {
	var ce *anilist.ClientError
	switch {
	case errors.Is(err, quiz.ErrNoCharacterData):
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrNoCharacterData})
	case errors.Is(err, quiz.ErrGameCompleted):
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrGameAlreadyCompleted})
	case errors.Is(err, service.ErrNoActiveGame):
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrNoActiveGame})
	case errors.Is(err, service.ErrEmptyGuess):
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrGuessRequired})
	case errors.Is(err, anilist.ErrUpstreamUnavailable):
		c.JSON(http.StatusServiceUnavailable, gin.H{constants.JSONKeyError: constants.ErrAniListUnavailable})
	case errors.As(err, &ce):
		c.JSON(http.StatusBadGateway, gin.H{constants.JSONKeyError: ce.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{constants.JSONKeyError: err.Error()})
	}
}
