package api

import (
	"crypto/hmac"
	crand "crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"os"
	"strings"
	"time"

	"github.com/FelipePatitucci/cursor-quiz/internal/constants"
)

// sessionClaims is the signed payload of the player's session cookie. It
// carries the identity every quiz handler keys on: games, profiles and
// live sessions are all scoped by Email.
type sessionClaims struct {
	Email       string `json:"email"`
	DisplayName string `json:"display_name"`
	IssuedAt    int64  `json:"issued_at"`
	ExpiresAt   int64  `json:"expires_at"`
}

var devSecret []byte

func sessionSecret() ([]byte, error) {
	if s := os.Getenv(constants.EnvSessionSecret); s != "" {
		return []byte(s), nil
	}
	// Per-process secret so local development works without
	// configuration; cookies do not survive a restart.
	if len(devSecret) == 0 {
		devSecret = make([]byte, 32)
		if _, err := crand.Read(devSecret); err != nil {
			return nil, errors.New("failed to generate dev session secret")
		}
	}
	return devSecret, nil
}

func signPayload(payload string, secret []byte) string {
	mac := hmac.New(sha256.New, secret)
	mac.Write([]byte(payload))
	return base64.RawURLEncoding.EncodeToString(mac.Sum(nil))
}

// createSessionToken issues an HMAC-SHA256 signed token of the form
// base64url(claims).signature.
func createSessionToken(email, displayName string, ttl time.Duration) (string, error) {
	secret, err := sessionSecret()
	if err != nil {
		return "", err
	}
	now := time.Now()
	claims := sessionClaims{
		Email:       email,
		DisplayName: displayName,
		IssuedAt:    now.Unix(),
		ExpiresAt:   now.Add(ttl).Unix(),
	}
	b, err := json.Marshal(claims)
	if err != nil {
		return "", err
	}
	payload := base64.RawURLEncoding.EncodeToString(b)
	return payload + "." + signPayload(payload, secret), nil
}

// parseAndValidateSession verifies the signature and expiry of a session
// token and returns its claims.
func parseAndValidateSession(token string) (*sessionClaims, error) {
	payload, sig, ok := strings.Cut(token, ".")
	if !ok {
		return nil, errors.New("invalid token format")
	}
	secret, err := sessionSecret()
	if err != nil {
		return nil, err
	}
	if !hmac.Equal([]byte(signPayload(payload, secret)), []byte(sig)) {
		return nil, errors.New("invalid signature")
	}
	b, err := base64.RawURLEncoding.DecodeString(payload)
	if err != nil {
		return nil, err
	}
	var claims sessionClaims
	if err := json.Unmarshal(b, &claims); err != nil {
		return nil, err
	}
	if time.Now().Unix() > claims.ExpiresAt {
		return nil, errors.New("session expired")
	}
	return &claims, nil
}
