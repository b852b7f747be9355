package service

import (
	"context"
	"errors"
	"testing"

	"github.com/FelipePatitucci/cursor-quiz/internal/quiz"
	"github.com/FelipePatitucci/cursor-quiz/internal/session"
	"github.com/FelipePatitucci/cursor-quiz/internal/storage"
)

type mockCatalog struct {
	records []quiz.CharacterRecord
	err     error
}

func (m *mockCatalog) FetchCharacters(ctx context.Context, animeID int) ([]quiz.CharacterRecord, error) {
	return m.records, m.err
}

type mockRepo struct {
	saved       []*storage.GameRecord
	statsCalled int
}

func (m *mockRepo) SaveGame(rec *storage.GameRecord) error {
	m.saved = append(m.saved, rec)
	return nil
}

func (m *mockRepo) UpdateStatsOnGameEnd(rec *storage.GameRecord) error {
	m.statsCalled++
	return nil
}

func oregairuCatalog() *mockCatalog {
	return &mockCatalog{records: []quiz.CharacterRecord{
		{Name: quiz.CharacterName{First: "Hachiman", Last: "Hikigaya"}, Favourites: 100, Role: quiz.RoleMain},
		{Name: quiz.CharacterName{First: "Yukino", Last: "Yukinoshita"}, Favourites: 90, Role: quiz.RoleSupporting},
	}}
}

func TestStartGame(t *testing.T) {
	sessions := session.NewStore()
	h, err := StartGame(context.Background(), oregairuCatalog(), sessions, "a@x.com", 12189, "Oregairu", 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if h.Session.TotalCharacters != 2 {
		t.Fatalf("expected 2 characters, got %d", h.Session.TotalCharacters)
	}
	if _, ok := sessions.Find(h.Token); !ok {
		t.Fatalf("session should be registered in the store")
	}
}

func TestStartGame_NoCharacters(t *testing.T) {
	// All characters below the cut and none MAIN: index comes out empty.
	catalog := &mockCatalog{records: []quiz.CharacterRecord{
		{Name: quiz.CharacterName{First: "Extra"}, Favourites: 1, Role: quiz.RoleSupporting},
	}}
	_, err := StartGame(context.Background(), catalog, session.NewStore(), "a@x.com", 1, "t", 5)
	if !errors.Is(err, quiz.ErrNoCharacterData) {
		t.Fatalf("expected ErrNoCharacterData, got %v", err)
	}
}

func TestStartGame_ReplacesActiveSession(t *testing.T) {
	sessions := session.NewStore()
	first, err := StartGame(context.Background(), oregairuCatalog(), sessions, "a@x.com", 1, "t", 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := StartGame(context.Background(), oregairuCatalog(), sessions, "a@x.com", 2, "t2", 5); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := sessions.Find(first.Token); ok {
		t.Fatalf("starting a new game must discard the prior session")
	}
}

func TestSubmitGuess_UnknownSession(t *testing.T) {
	repo := &mockRepo{}
	_, err := SubmitGuess(repo, session.NewStore(), "a@x.com", "nope", "hachiman")
	if !errors.Is(err, ErrNoActiveGame) {
		t.Fatalf("expected ErrNoActiveGame, got %v", err)
	}
}

func TestSubmitGuess_WrongOwner(t *testing.T) {
	sessions := session.NewStore()
	h, err := StartGame(context.Background(), oregairuCatalog(), sessions, "a@x.com", 1, "t", 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := SubmitGuess(&mockRepo{}, sessions, "b@x.com", h.Token, "hachiman"); !errors.Is(err, ErrNoActiveGame) {
		t.Fatalf("another player's token must not resolve, got %v", err)
	}
}

func TestSubmitGuess_EmptyGuess(t *testing.T) {
	sessions := session.NewStore()
	h, err := StartGame(context.Background(), oregairuCatalog(), sessions, "a@x.com", 1, "t", 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := SubmitGuess(&mockRepo{}, sessions, "a@x.com", h.Token, "   "); !errors.Is(err, ErrEmptyGuess) {
		t.Fatalf("expected ErrEmptyGuess, got %v", err)
	}
}

func TestSubmitGuess_CompletionPersistsAndDropsSession(t *testing.T) {
	sessions := session.NewStore()
	repo := &mockRepo{}
	h, err := StartGame(context.Background(), oregairuCatalog(), sessions, "a@x.com", 12189, "Oregairu", 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := SubmitGuess(repo, sessions, "a@x.com", h.Token, "hachiman"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	res, err := SubmitGuess(repo, sessions, "a@x.com", h.Token, "yukino")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !res.Completed {
		t.Fatalf("expected completion")
	}
	if res.Score != 4 {
		t.Fatalf("expected MAIN+SUPPORTING = 4, got %d", res.Score)
	}

	if len(repo.saved) != 1 {
		t.Fatalf("expected one persisted summary, got %d", len(repo.saved))
	}
	rec := repo.saved[0]
	if rec.AnimeID != 12189 || !rec.Completed || rec.Score != 4 || len(rec.Guesses) != 2 {
		t.Fatalf("unexpected record: %+v", rec)
	}
	if repo.statsCalled != 1 {
		t.Fatalf("stats should be updated once")
	}
	if _, ok := sessions.Find(h.Token); ok {
		t.Fatalf("completed session should be dropped from the store")
	}
}

func TestEndGame(t *testing.T) {
	sessions := session.NewStore()
	repo := &mockRepo{}
	h, err := StartGame(context.Background(), oregairuCatalog(), sessions, "a@x.com", 1, "t", 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := SubmitGuess(repo, sessions, "a@x.com", h.Token, "hachiman"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	sum, err := EndGame(repo, sessions, "a@x.com", h.Token)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !sum.Completed || sum.CorrectGuesses != 1 {
		t.Fatalf("unexpected summary: %+v", sum)
	}
	if len(repo.saved) != 1 {
		t.Fatalf("early end must persist the summary")
	}
	// The session is gone, so a second end reports no active game.
	if _, err := EndGame(repo, sessions, "a@x.com", h.Token); !errors.Is(err, ErrNoActiveGame) {
		t.Fatalf("expected ErrNoActiveGame after session dropped, got %v", err)
	}
}
