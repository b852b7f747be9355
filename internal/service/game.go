package service

import (
	"context"
	"errors"
	"strings"

	"github.com/FelipePatitucci/cursor-quiz/internal/constants"
	"github.com/FelipePatitucci/cursor-quiz/internal/logging"
	"github.com/FelipePatitucci/cursor-quiz/internal/quiz"
	"github.com/FelipePatitucci/cursor-quiz/internal/session"
	"github.com/FelipePatitucci/cursor-quiz/internal/storage"
)

var (
	ErrNoActiveGame = errors.New("no active game")
	ErrEmptyGuess   = errors.New("guess must not be empty")
)

// Catalog is the slice of the AniList client the game flow needs.
type Catalog interface {
	FetchCharacters(ctx context.Context, animeID int) ([]quiz.CharacterRecord, error)
}

// GameRepo is the slice of the repository the game flow needs.
type GameRepo interface {
	SaveGame(rec *storage.GameRecord) error
	UpdateStatsOnGameEnd(rec *storage.GameRecord) error
}

// StartGame fetches the anime's characters, builds the per-game name
// index and registers a fresh session for owner, discarding any previous
// in-progress game. Fails with quiz.ErrNoCharacterData when the built
// index is empty.
func StartGame(ctx context.Context, catalog Catalog, sessions *session.Store, owner string, animeID int, animeTitle string, favouriteCut int) (*session.Handle, error) {
	records, err := catalog.FetchCharacters(ctx, animeID)
	if err != nil {
		return nil, err
	}
	index := quiz.BuildNameIndex(records, favouriteCut)
	s, err := quiz.NewSession(animeID, animeTitle, index)
	if err != nil {
		return nil, err
	}
	h := sessions.Start(owner, s)
	logging.Info("game started", logging.Fields{
		constants.LogFieldOwner:   owner,
		constants.LogFieldAnimeID: animeID,
		"total_characters":        s.TotalCharacters,
	})
	return h, nil
}

// SubmitGuess evaluates one guess against the owner's session. When the
// guess completes the game, the summary is persisted and the live
// session dropped from the store.
func SubmitGuess(repo GameRepo, sessions *session.Store, owner, token, rawGuess string) (quiz.GuessResult, error) {
	h, ok := sessions.Find(token)
	if !ok || h.Owner != owner {
		return quiz.GuessResult{}, ErrNoActiveGame
	}
	if strings.TrimSpace(rawGuess) == "" {
		return quiz.GuessResult{}, ErrEmptyGuess
	}

	res, err := h.Session.Evaluate(rawGuess)
	if err != nil {
		return quiz.GuessResult{}, err
	}

	if res.Completed {
		persistFinishedGame(repo, sessions, h)
	}
	return res, nil
}

// EndGame forces completion of the owner's session and persists its
// summary. Fails with quiz.ErrGameCompleted when the session is already
// terminal.
func EndGame(repo GameRepo, sessions *session.Store, owner, token string) (quiz.Summary, error) {
	h, ok := sessions.Find(token)
	if !ok || h.Owner != owner {
		return quiz.Summary{}, ErrNoActiveGame
	}
	if err := h.Session.Terminate(); err != nil {
		return quiz.Summary{}, err
	}
	sum := persistFinishedGame(repo, sessions, h)
	return sum, nil
}

func persistFinishedGame(repo GameRepo, sessions *session.Store, h *session.Handle) quiz.Summary {
	sum := h.Session.Summary()
	rec := storage.RecordFromSummary(h.Owner, sum)
	if err := repo.SaveGame(rec); err != nil {
		logging.Error("failed to persist finished game", err, logging.Fields{
			constants.LogFieldOwner:   h.Owner,
			constants.LogFieldAnimeID: sum.AnimeID,
		})
	} else if err := repo.UpdateStatsOnGameEnd(rec); err != nil {
		logging.Error("failed to update player stats", err, logging.Fields{constants.LogFieldOwner: h.Owner})
	}
	sessions.End(h.Token)
	logging.Info("game finished", logging.Fields{
		constants.LogFieldOwner:   h.Owner,
		constants.LogFieldAnimeID: sum.AnimeID,
		constants.LogFieldGameID:  rec.ID,
		"score":                   sum.Score,
		"correct_guesses":         sum.CorrectGuesses,
	})
	return sum
}
