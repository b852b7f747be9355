package main

import (
	"os"
	"path/filepath"

	"github.com/FelipePatitucci/cursor-quiz/internal/anilist"
	"github.com/FelipePatitucci/cursor-quiz/internal/api"
	"github.com/FelipePatitucci/cursor-quiz/internal/cache"
	"github.com/FelipePatitucci/cursor-quiz/internal/config"
	"github.com/FelipePatitucci/cursor-quiz/internal/constants"
	"github.com/FelipePatitucci/cursor-quiz/internal/logging"
	"github.com/FelipePatitucci/cursor-quiz/internal/session"
	"github.com/FelipePatitucci/cursor-quiz/internal/storage"

	"github.com/gin-gonic/gin"
)

func main() {
	checkEnvVars([]string{constants.EnvSessionSecret, constants.EnvGoogleClientID, constants.EnvGoogleClientSecret})

	cfg := loadConfig()

	// Allow the DB path to be configured via QUIZ_DB. Default to a
	// `data/` directory inside the module for local development.
	dbPath := os.Getenv(constants.EnvDBPath)
	if dbPath == "" {
		dbPath = "./data/cursor_quiz.db"
	}
	db, err := storage.OpenAndMigrate(dbPath)
	if err != nil {
		logging.Fatal("Failed to initialize database", err, nil)
	}
	repo := storage.NewSQLiteRepository(db)

	users := cache.NewStore(filepath.Join(cfg.DataDir, "users"), cfg.CacheTTLDays)
	characters := cache.NewStore(filepath.Join(cfg.DataDir, "characters"), cfg.CacheTTLDays)
	catalog := anilist.NewClient(cfg.AniList, users, characters)

	sessions := session.NewStore()
	handler := api.NewQuizHandler(repo, sessions, catalog, cfg.FavouriteCut)
	authHandler := api.NewAuthHandler(repo, cfg.SessionTTL)

	router := gin.Default()

	apiRoutes := router.Group(constants.RouteAPIPrefix)
	{
		// Public endpoints
		apiRoutes.GET(constants.RouteLeaderboard, handler.ListLeaderboard)
		apiRoutes.GET(constants.RouteVersion, api.Version)

		// Authenticated endpoints
		protected := apiRoutes.Group("")
		protected.Use(api.AuthRequired())

		protected.POST(constants.RouteGameStart, handler.StartGame)
		protected.POST(constants.RouteGameGuess, handler.SubmitGuess)
		protected.POST(constants.RouteGameEnd, handler.EndGame)
		protected.GET(constants.RouteGameState, handler.GameState)
		protected.GET(constants.RouteGames, handler.ListGames)
		protected.GET(constants.RouteGameByID, handler.GetGame)
		protected.GET(constants.RouteGameExport, handler.ExportGame)
		protected.GET(constants.RouteGameCharacters, handler.GameCharacters)
		protected.GET(constants.RouteAnimes, handler.ListAnimes)
		protected.GET(constants.RouteUserProfile, handler.GetProfile)
		protected.POST(constants.RouteUserUpdateAniList, handler.UpdateAniListUsername)
	}

	router.POST(constants.RouteAuthGoogleCallBack, authHandler.GoogleOAuthCallback)
	router.POST(constants.RouteAuthLogout, authHandler.Logout)

	addr := cfg.ServerAddress
	logging.Info("Server started", logging.Fields{constants.LogFieldAddr: addr})
	if err := router.Run(addr); err != nil {
		logging.Fatal("Failed to start server", err, nil)
	}
}

// loadConfig reads the config file when present (path via QUIZ_CONFIG,
// default ./cursor_quiz.json) and falls back to defaults otherwise.
func loadConfig() *config.LoadedConfig {
	configPath := os.Getenv(constants.EnvConfigPath)
	if configPath == "" {
		configPath = "./cursor_quiz.json"
	}
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		logging.Info("No config file found, using defaults", logging.Fields{"config_path": configPath})
		return config.Default()
	}
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		logging.Fatal("Invalid configuration", err, logging.Fields{"config_path": configPath})
	}
	return cfg
}

func checkEnvVars(vars []string) {
	for _, v := range vars {
		if os.Getenv(v) == "" {
			logging.Fatal("Required environment variable not set", nil, logging.Fields{"var": v})
		}
	}
}
