package quiz

import (
	"errors"
	"fmt"
)

var (
	// ErrNoCharacterData is returned when a game would start with an
	// empty character index.
	ErrNoCharacterData = errors.New("no character data found for this anime")
	// ErrGameCompleted rejects any mutation of a finished session.
	ErrGameCompleted = errors.New("game already completed")
)

// Role is the character's billing in the show as reported by AniList.
type Role string

const (
	RoleMain       Role = "MAIN"
	RoleSupporting Role = "SUPPORTING"
	RoleBackground Role = "BACKGROUND"
)

// Weight returns the score awarded for guessing a character of this role.
// Roles other than MAIN/SUPPORTING should have been filtered out by the
// favourites cut; hitting one is a configuration problem, not a default.
func (r Role) Weight() (int, error) {
	switch r {
	case RoleMain:
		return 3, nil
	case RoleSupporting:
		return 1, nil
	default:
		return 0, fmt.Errorf("unexpected character role %q", string(r))
	}
}

func errInfoMissing(idx int) error {
	return fmt.Errorf("no character info stored for index %d", idx)
}

// CharacterName groups the name forms AniList reports for one character.
type CharacterName struct {
	First       string   `json:"first"`
	Last        string   `json:"last"`
	Native      string   `json:"native"`
	Alternative []string `json:"alternative"`
}

// CharacterRecord is one character as fetched from the catalog, immutable
// after the fetch. Records arrive sorted by descending favourites; the
// position in that list becomes the character's index for one game.
type CharacterRecord struct {
	ID         int           `json:"id"`
	Name       CharacterName `json:"name"`
	Image      string        `json:"image"`
	Gender     string        `json:"gender"`
	Favourites int           `json:"favourites"`
	Role       Role          `json:"role"`
}

// CharacterInfo is the per-index display data kept for one game. Names is
// the deduplicated variant list: the first entry is the canonical display
// name and the last entry is the native-name form.
type CharacterInfo struct {
	Names      []string `json:"names"`
	Gender     string   `json:"gender"`
	Favourites int      `json:"favourites"`
	Role       Role     `json:"role"`
	Image      string   `json:"image"`
}

// DisplayName is the canonical form shown to the player.
func (ci CharacterInfo) DisplayName() string {
	if len(ci.Names) == 0 {
		return ""
	}
	return ci.Names[0]
}

// NativeName is the native-script form kept as the last variant.
func (ci CharacterInfo) NativeName() string {
	if len(ci.Names) == 0 {
		return ""
	}
	return ci.Names[len(ci.Names)-1]
}
