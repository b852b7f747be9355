package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/FelipePatitucci/cursor-quiz/internal/constants"
)

type rawConfig struct {
	Server *struct {
		Address string `json:"address"`
	} `json:"server"`
	// DataDir is the root directory for the on-disk AniList caches
	// (users and characters live in their own subdirectories).
	DataDir      string `json:"data_dir"`
	CacheTTLDays int    `json:"cache_ttl_days"`
	FavouriteCut int    `json:"favourite_cut"`
	AniList      *struct {
		URL             string `json:"url"`
		MaxRetries      int    `json:"max_retries"`
		TimeoutSeconds  int    `json:"timeout_seconds"`
		BaseWaitSeconds int    `json:"base_wait_seconds"`
		ChunkSize       int    `json:"chunk_size"`
	} `json:"anilist"`
	SessionTTLHours int `json:"session_ttl_hours"`
}

// AniListConfig holds the outbound request policy for the catalog client.
type AniListConfig struct {
	URL        string
	MaxRetries int
	Timeout    time.Duration
	BaseWait   time.Duration
	ChunkSize  int
}

// LoadedConfig is the validated runtime configuration.
type LoadedConfig struct {
	ServerAddress string
	DataDir       string
	CacheTTLDays  int
	FavouriteCut  int
	AniList       AniListConfig
	SessionTTL    time.Duration
}

// Default returns the configuration used when no config file is present.
// The knobs mirror the upstream request policy: 3 attempts, 15s per
// attempt, 5s linear backoff base, 200-entry list chunks.
func Default() *LoadedConfig {
	return &LoadedConfig{
		ServerAddress: ":8080",
		DataDir:       "./data",
		CacheTTLDays:  7,
		FavouriteCut:  5,
		AniList: AniListConfig{
			URL:        constants.AniListURL,
			MaxRetries: 3,
			Timeout:    15 * time.Second,
			BaseWait:   5 * time.Second,
			ChunkSize:  200,
		},
		SessionTTL: 24 * time.Hour,
	}
}

// LoadConfig reads the configuration file at path, applies defaults for
// any omitted key and validates the rest.
func LoadConfig(path string) (*LoadedConfig, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	var rc rawConfig
	if err := json.Unmarshal(b, &rc); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	cfg := Default()
	if rc.Server != nil && rc.Server.Address != "" {
		cfg.ServerAddress = rc.Server.Address
	}
	if d := strings.TrimSpace(rc.DataDir); d != "" {
		cfg.DataDir = d
	}
	if rc.CacheTTLDays != 0 {
		if rc.CacheTTLDays < 0 {
			return nil, fmt.Errorf("config file %s: cache_ttl_days must be positive", path)
		}
		cfg.CacheTTLDays = rc.CacheTTLDays
	}
	if rc.FavouriteCut != 0 {
		if rc.FavouriteCut < 0 {
			return nil, fmt.Errorf("config file %s: favourite_cut must be positive", path)
		}
		cfg.FavouriteCut = rc.FavouriteCut
	}
	if rc.AniList != nil {
		if rc.AniList.URL != "" {
			cfg.AniList.URL = rc.AniList.URL
		}
		if rc.AniList.MaxRetries != 0 {
			if rc.AniList.MaxRetries < 1 {
				return nil, fmt.Errorf("config file %s: anilist.max_retries must be at least 1", path)
			}
			cfg.AniList.MaxRetries = rc.AniList.MaxRetries
		}
		if rc.AniList.TimeoutSeconds != 0 {
			cfg.AniList.Timeout = time.Duration(rc.AniList.TimeoutSeconds) * time.Second
		}
		if rc.AniList.BaseWaitSeconds != 0 {
			cfg.AniList.BaseWait = time.Duration(rc.AniList.BaseWaitSeconds) * time.Second
		}
		if rc.AniList.ChunkSize != 0 {
			if rc.AniList.ChunkSize < 1 {
				return nil, fmt.Errorf("config file %s: anilist.chunk_size must be at least 1", path)
			}
			cfg.AniList.ChunkSize = rc.AniList.ChunkSize
		}
	}
	if rc.SessionTTLHours != 0 {
		cfg.SessionTTL = time.Duration(rc.SessionTTLHours) * time.Hour
	}
	return cfg, nil
}
