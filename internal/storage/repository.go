package storage

type Repository interface {
	// SaveGame persists a finished game summary with its guess log.
	SaveGame(rec *GameRecord) error
	// GetGamesByOwner returns the player's finished games, most recent first.
	GetGamesByOwner(email string) ([]GameRecord, error)
	// GetGameByID returns one game with its guess log preloaded, scoped to
	// the owning player.
	GetGameByID(id uint, email string) (*GameRecord, error)
	// GetTopGames returns the highest-scoring completed games.
	GetTopGames(limit int) ([]GameRecord, error)

	UpsertProfile(email, displayName string) error
	GetProfileByEmail(email string) (*PlayerProfile, error)
	UpdateAniListUsername(email, username string) error
	// UpdateStatsOnGameEnd folds a finished game into the owner's
	// aggregate stats.
	UpdateStatsOnGameEnd(rec *GameRecord) error
}
