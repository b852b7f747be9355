package constants

// Centralized constants for headers, env keys and the AniList integration.
const (
	// Environment variable keys
	EnvSessionSecret       = "SESSION_SECRET"
	EnvGoogleClientID      = "GOOGLE_CLIENT_ID"
	EnvGoogleClientSecret  = "GOOGLE_CLIENT_SECRET"
	EnvSessionSecureCookie = "SESSION_SECURE_COOKIE"
	EnvConfigPath          = "QUIZ_CONFIG"
	EnvDBPath              = "QUIZ_DB"

	// HTTP headers and content types
	HeaderContentType = "Content-Type"

	ContentTypeJSON = "application/json"

	// AniList GraphQL endpoint
	AniListURL = "https://graphql.anilist.co"

	// Session / Cookie names
	CookieSessionName = "cq_session"

	// Google OAuth constants
	GoogleOAuthRedirect = "postmessage"
	GoogleUserInfoURL   = "https://www.googleapis.com/oauth2/v2/userinfo"
)

var (
	// Scopes for Google userinfo
	GoogleUserInfoScopes = []string{"https://www.googleapis.com/auth/userinfo.email", "https://www.googleapis.com/auth/userinfo.profile"}
)

// Routes used by the backend router
const (
	RouteAPIPrefix          = "/api"
	RouteGameStart          = "/game/start"
	RouteGameGuess          = "/game/guess"
	RouteGameEnd            = "/game/end"
	RouteGameState          = "/game/state"
	RouteGames              = "/games"
	RouteGameByID           = "/game/:gameID"
	RouteGameExport         = "/game/export/:gameID"
	RouteGameCharacters     = "/game/characters/:gameID"
	RouteLeaderboard        = "/leaderboard"
	RouteAnimes             = "/animes"
	RouteUserProfile        = "/user/profile"
	RouteUserUpdateAniList  = "/user/update_anilist"
	RouteVersion            = "/version"
	RouteAuthGoogleCallBack = "/auth/google/oauth2callback"
	RouteAuthLogout         = "/auth/logout"
)

// Common JSON response keys
const (
	JSONKeyError   = "error"
	JSONKeyMessage = "message"
	JSONKeyDetails = "details"
)

// Common error messages used across API handlers
const (
	ErrInvalidRequest       = "Invalid request"
	ErrMissingGoogleEnv     = "Missing GOOGLE_CLIENT_ID/GOOGLE_CLIENT_SECRET in environment"
	ErrAnimeIDTitleRequired = "Anime ID and title are required"
	ErrGuessRequired        = "Guess is required"
	ErrNoActiveGame         = "No active game"
	ErrGameNotFound         = "Game not found"
	ErrGameAlreadyCompleted = "Game already completed"
	ErrNoCharacterData      = "No character data found for this anime"
	ErrAniListUnavailable   = "AniList is unavailable, try again later"
	ErrAniListUsernameReq   = "AniList username is required"
	ErrAniListUsernameUnset = "AniList username not set"
	ErrFailedFetchGames     = "Failed to fetch games"
	ErrFailedFetchProfile   = "Failed to fetch profile"
	ErrFailedUpdateProfile  = "Failed to update profile"
	ErrFailedFetchBoard     = "Failed to fetch leaderboard"

	ErrFailedExchangeToken    = "Failed to exchange token"
	ErrFailedGetUserInfo      = "Failed to get user info"
	ErrFailedReadUserData     = "Failed to read user data: %s"
	ErrNoEmailInGoogleProfile = "No email in Google profile"
	ErrFailedCreateSession    = "Failed to create session"

	ErrAuthRequired   = "Authentication required"
	ErrInvalidSession = "Invalid session"
)

// Logging field names
const (
	LogFieldAnimeID  = "anime_id"
	LogFieldUserName = "username"
	LogFieldGameID   = "game_id"
	LogFieldOwner    = "owner"
	LogFieldKey      = "key"
	LogFieldAddr     = "addr"
	LogFieldAttempt  = "attempt"
)
