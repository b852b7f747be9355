package quiz

import "strings"

// NameIndex is the per-game bidirectional lookup built from the fetched
// character list: every normalized string a player might type maps to the
// character's build index, and each index maps to its display info.
//
// The variant map is live state: all variants of a character are removed
// after it is guessed so repeats degrade to misses. Because of that the
// index is rebuilt for every game rather than cached.
type NameIndex struct {
	variants map[string]int
	infos    map[int]CharacterInfo
}

// Normalize is the single normalization applied to both stored variants
// and incoming guesses.
func Normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// BuildNameIndex constructs the index from records in their fetch order.
// Characters below favouriteCut are excluded unless their role is MAIN.
//
// Candidate variants per character, in priority order: "last first",
// "first last", "first", every alternative spelling verbatim, and the
// native name with internal spaces stripped. Candidates are normalized,
// empties dropped and duplicates removed preserving order.
//
// When two characters share a variant the later character wins the
// mapping. This is a known ambiguity of approximate matching and is
// intentionally not corrected.
func BuildNameIndex(records []CharacterRecord, favouriteCut int) *NameIndex {
	idx := &NameIndex{
		variants: make(map[string]int),
		infos:    make(map[int]CharacterInfo),
	}

	for i, char := range records {
		if char.Favourites < favouriteCut && char.Role != RoleMain {
			continue
		}

		fn := char.Name.First
		ln := char.Name.Last
		native := strings.ReplaceAll(char.Name.Native, " ", "")

		candidates := []string{ln + " " + fn, fn + " " + ln, fn}
		candidates = append(candidates, char.Name.Alternative...)
		candidates = append(candidates, native)

		seen := make(map[string]struct{}, len(candidates))
		names := make([]string, 0, len(candidates))
		for _, c := range candidates {
			n := Normalize(c)
			if n == "" {
				continue
			}
			if _, dup := seen[n]; dup {
				continue
			}
			seen[n] = struct{}{}
			names = append(names, n)
		}
		if len(names) == 0 {
			continue
		}

		idx.infos[i] = CharacterInfo{
			Names:      names,
			Gender:     char.Gender,
			Favourites: char.Favourites,
			Role:       char.Role,
			Image:      char.Image,
		}
		for _, n := range names {
			idx.variants[n] = i
		}
	}
	return idx
}

// Size reports how many characters entered the game.
func (ni *NameIndex) Size() int { return len(ni.infos) }

// Lookup resolves a normalized guess to a character index.
func (ni *NameIndex) Lookup(variant string) (int, bool) {
	i, ok := ni.variants[variant]
	return i, ok
}

// Info returns the display data for a character index.
func (ni *NameIndex) Info(idx int) (CharacterInfo, bool) {
	ci, ok := ni.infos[idx]
	return ci, ok
}

// Remove deletes every variant belonging to idx from the live map so the
// character can never be matched again. The info map keeps its entry for
// display purposes.
func (ni *NameIndex) Remove(idx int) {
	ci, ok := ni.infos[idx]
	if !ok {
		return
	}
	for _, n := range ci.Names {
		// Only drop mappings still owned by idx; a later character may
		// have overwritten a shared variant.
		if owner, present := ni.variants[n]; present && owner == idx {
			delete(ni.variants, n)
		}
	}
}

// Remaining lists the infos of characters not yet guessed, keyed by index.
func (ni *NameIndex) Remaining(guessed map[int]struct{}) map[int]CharacterInfo {
	out := make(map[int]CharacterInfo)
	for i, ci := range ni.infos {
		if _, done := guessed[i]; done {
			continue
		}
		out[i] = ci
	}
	return out
}
