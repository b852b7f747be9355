package storage

import (
	"time"

	"gorm.io/gorm"

	"github.com/FelipePatitucci/cursor-quiz/internal/quiz"
)

// GameRecord is the immutable summary of a finished game. Records are
// written once when a session completes (or is ended early) and never
// mutated afterwards.
type GameRecord struct {
	gorm.Model
	OwnerEmail      string        `json:"-" gorm:"index"`
	AnimeID         int           `json:"anime_id"`
	AnimeTitle      string        `json:"anime_title" gorm:"size:200"`
	StartTime       time.Time     `json:"start_time"`
	EndTime         time.Time     `json:"end_time"`
	TotalGuesses    int           `json:"total_guesses"`
	CorrectGuesses  int           `json:"correct_guesses"`
	TotalCharacters int           `json:"total_characters"`
	Score           int           `json:"score"`
	Completed       bool          `json:"completed"`
	Guesses         []GuessRecord `json:"guesses"`
}

func (GameRecord) TableName() string { return "game_records" }

// GuessRecord is one line of a game's ordered guess log.
type GuessRecord struct {
	gorm.Model
	GameRecordID  uint      `json:"-" gorm:"index"`
	GuessText     string    `json:"guess_text" gorm:"size:100"`
	Timestamp     time.Time `json:"timestamp"`
	IsCorrect     bool      `json:"is_correct"`
	CharacterName string    `json:"character_name" gorm:"size:100"`
}

func (GuessRecord) TableName() string { return "guess_records" }

// PlayerProfile stores player identity and aggregate stats.
type PlayerProfile struct {
	gorm.Model
	Email           string `json:"email" gorm:"uniqueIndex"`
	DisplayName     string `json:"display_name" gorm:"size:80"`
	AniListUsername string `json:"anilist_username" gorm:"size:80"`
	GamesPlayed     int    `json:"games_played"`
	TotalScore      int    `json:"total_score"`
	BestScore       int    `json:"best_score"`
}

func (PlayerProfile) TableName() string { return "player_profiles" }

// RecordFromSummary converts a session summary into its persistent form.
func RecordFromSummary(ownerEmail string, sum quiz.Summary) *GameRecord {
	guesses := make([]GuessRecord, 0, len(sum.Guesses))
	for _, g := range sum.Guesses {
		guesses = append(guesses, GuessRecord{
			GuessText:     g.Text,
			Timestamp:     g.Timestamp,
			IsCorrect:     g.Correct,
			CharacterName: g.CharacterName,
		})
	}
	return &GameRecord{
		OwnerEmail:      ownerEmail,
		AnimeID:         sum.AnimeID,
		AnimeTitle:      sum.AnimeTitle,
		StartTime:       sum.StartTime,
		EndTime:         sum.EndTime,
		TotalGuesses:    sum.TotalGuesses,
		CorrectGuesses:  sum.CorrectGuesses,
		TotalCharacters: sum.TotalCharacters,
		Score:           sum.Score,
		Completed:       sum.Completed,
		Guesses:         guesses,
	}
}
