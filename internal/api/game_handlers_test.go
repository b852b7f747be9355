package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"gorm.io/gorm"

	"github.com/FelipePatitucci/cursor-quiz/internal/anilist"
	"github.com/FelipePatitucci/cursor-quiz/internal/quiz"
	"github.com/FelipePatitucci/cursor-quiz/internal/session"
	"github.com/FelipePatitucci/cursor-quiz/internal/storage"
	"github.com/gin-gonic/gin"
)

type stubRepo struct {
	game *storage.GameRecord
}

func (r *stubRepo) SaveGame(rec *storage.GameRecord) error { return nil }
func (r *stubRepo) GetGamesByOwner(email string) ([]storage.GameRecord, error) {
	return nil, nil
}
func (r *stubRepo) GetGameByID(id uint, email string) (*storage.GameRecord, error) {
	return r.game, nil
}
func (r *stubRepo) GetTopGames(limit int) ([]storage.GameRecord, error) { return nil, nil }
func (r *stubRepo) UpsertProfile(email, displayName string) error       { return nil }
func (r *stubRepo) GetProfileByEmail(email string) (*storage.PlayerProfile, error) {
	return nil, nil
}
func (r *stubRepo) UpdateAniListUsername(email, username string) error { return nil }
func (r *stubRepo) UpdateStatsOnGameEnd(rec *storage.GameRecord) error { return nil }

type stubCatalog struct {
	records []quiz.CharacterRecord
}

func (s *stubCatalog) FetchCharacters(ctx context.Context, animeID int) ([]quiz.CharacterRecord, error) {
	return s.records, nil
}

func (s *stubCatalog) FetchUserAnimeList(ctx context.Context, username string) (*anilist.AnimeList, error) {
	return nil, nil
}

func TestGameCharacters_KeepsCasedNames(t *testing.T) {
	gin.SetMode(gin.TestMode)

	repo := &stubRepo{game: &storage.GameRecord{
		Model:           gorm.Model{ID: 1},
		AnimeID:         12189,
		AnimeTitle:      "Oregairu",
		TotalCharacters: 2,
		Guesses: []storage.GuessRecord{
			{GuessText: "hachiman", IsCorrect: true, CharacterName: "hikigaya hachiman"},
		},
	}}
	catalog := &stubCatalog{records: []quiz.CharacterRecord{
		{ID: 1, Name: quiz.CharacterName{First: "Hachiman", Last: "Hikigaya"}, Favourites: 100, Role: quiz.RoleMain},
		{ID: 2, Name: quiz.CharacterName{First: "Yukino", Last: "Yukinoshita"}, Favourites: 90, Role: quiz.RoleMain},
	}}
	h := NewQuizHandler(repo, session.NewStore(), catalog, 5)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/game/characters/1", nil)
	c.Params = gin.Params{{Key: "gameID", Value: "1"}}
	c.Set("userEmail", "player@example.com")

	h.GameCharacters(c)
	if w.Code != http.StatusOK {
		t.Fatalf("unexpected status %d: %s", w.Code, w.Body.String())
	}

	var body struct {
		Characters []struct {
			Name       string `json:"name"`
			WasGuessed bool   `json:"was_guessed"`
		} `json:"characters"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(body.Characters) != 2 {
		t.Fatalf("expected 2 characters, got %d", len(body.Characters))
	}
	if body.Characters[0].Name != "Hikigaya Hachiman" {
		t.Fatalf("display name must keep its casing, got %q", body.Characters[0].Name)
	}
	if !body.Characters[0].WasGuessed {
		t.Fatalf("guessed character must be marked, body: %s", w.Body.String())
	}
	if body.Characters[1].WasGuessed {
		t.Fatalf("unguessed character must not be marked")
	}
}
