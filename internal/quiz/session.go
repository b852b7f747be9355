package quiz

import (
	"sync"
	"time"
)

// GuessResult is the full observable outcome of one Evaluate call. The
// name fields are pointers so a miss serializes them as null rather than
// an empty string.
type GuessResult struct {
	Correct         bool    `json:"is_correct"`
	CharacterName   *string `json:"character_name"`
	NativeName      *string `json:"native_name"`
	TotalGuesses    int    `json:"total_guesses"`
	CorrectGuesses  int    `json:"correct_guesses"`
	TotalCharacters int    `json:"total_characters"`
	Score           int    `json:"score"`
	Completed       bool   `json:"completed"`
}

// GuessEntry is one line of the ordered guess log.
type GuessEntry struct {
	Text          string    `json:"guess_text"`
	Timestamp     time.Time `json:"timestamp"`
	Correct       bool      `json:"is_correct"`
	CharacterName string    `json:"character_name"`
}

// Summary is the immutable record a finished session emits for durable
// storage. The session itself holds no durable state.
type Summary struct {
	AnimeID         int          `json:"anime_id"`
	AnimeTitle      string       `json:"anime_title"`
	StartTime       time.Time    `json:"start_time"`
	EndTime         time.Time    `json:"end_time"`
	TotalGuesses    int          `json:"total_guesses"`
	CorrectGuesses  int          `json:"correct_guesses"`
	TotalCharacters int          `json:"total_characters"`
	Score           int          `json:"score"`
	Completed       bool         `json:"completed"`
	Guesses         []GuessEntry `json:"guesses"`
}

// Session holds the mutable state of one play-through. It moves from
// Active to Completed and never back; once completed every further
// mutation is rejected with ErrGameCompleted.
//
// Evaluate and Terminate are guarded by a mutex so a caller always
// observes a fully applied mutation, but callers are still expected to
// serialize guesses for one game.
type Session struct {
	mu sync.Mutex

	AnimeID    int
	AnimeTitle string
	StartTime  time.Time
	EndTime    time.Time

	TotalCharacters int
	TotalGuesses    int
	CorrectGuesses  int
	Score           int
	Completed       bool

	index    *NameIndex
	guessed  map[int]struct{}
	guessLog []GuessEntry
}

// NewSession starts an Active session over the given index. An empty
// index is a creation-time failure, not a runtime one.
func NewSession(animeID int, animeTitle string, index *NameIndex) (*Session, error) {
	if index == nil || index.Size() == 0 {
		return nil, ErrNoCharacterData
	}
	return &Session{
		AnimeID:         animeID,
		AnimeTitle:      animeTitle,
		StartTime:       time.Now().UTC(),
		TotalCharacters: index.Size(),
		index:           index,
		guessed:         make(map[int]struct{}),
	}, nil
}

// Evaluate consumes one raw guess. Every submitted guess counts toward
// TotalGuesses, correct or not, including repeats of an already guessed
// character (their variants are gone, so they simply miss).
func (s *Session) Evaluate(rawGuess string) (GuessResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.Completed {
		return GuessResult{}, ErrGameCompleted
	}

	guess := Normalize(rawGuess)
	s.TotalGuesses++

	res := GuessResult{}
	entry := GuessEntry{Text: guess, Timestamp: time.Now().UTC()}

	if idx, ok := s.index.Lookup(guess); ok {
		// A hit on an already guessed index should be unreachable since
		// variants are removed on first success; the check guards against
		// any index/variant desync and treats it as a plain miss.
		if _, already := s.guessed[idx]; !already {
			info, found := s.index.Info(idx)
			if !found {
				return GuessResult{}, errInfoMissing(idx)
			}
			weight, err := info.Role.Weight()
			if err != nil {
				return GuessResult{}, err
			}
			s.guessed[idx] = struct{}{}
			s.CorrectGuesses++
			s.Score += weight
			s.index.Remove(idx)

			name := info.DisplayName()
			native := info.NativeName()
			res.Correct = true
			res.CharacterName = &name
			res.NativeName = &native
			entry.Correct = true
			entry.CharacterName = name
		}
	}

	s.guessLog = append(s.guessLog, entry)

	if s.CorrectGuesses == s.TotalCharacters {
		s.Completed = true
		s.EndTime = time.Now().UTC()
	}

	res.TotalGuesses = s.TotalGuesses
	res.CorrectGuesses = s.CorrectGuesses
	res.TotalCharacters = s.TotalCharacters
	res.Score = s.Score
	res.Completed = s.Completed
	return res, nil
}

// Terminate forces the transition to Completed without requiring all
// characters to be guessed.
func (s *Session) Terminate() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Completed {
		return ErrGameCompleted
	}
	s.Completed = true
	s.EndTime = time.Now().UTC()
	return nil
}

// Remaining lists the not-yet-guessed characters, keyed by index.
func (s *Session) Remaining() map[int]CharacterInfo {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.index.Remaining(s.guessed)
}

// Summary snapshots the session for persistence. The guess log is copied
// so the summary stays immutable.
func (s *Session) Summary() Summary {
	s.mu.Lock()
	defer s.mu.Unlock()
	log := make([]GuessEntry, len(s.guessLog))
	copy(log, s.guessLog)
	return Summary{
		AnimeID:         s.AnimeID,
		AnimeTitle:      s.AnimeTitle,
		StartTime:       s.StartTime,
		EndTime:         s.EndTime,
		TotalGuesses:    s.TotalGuesses,
		CorrectGuesses:  s.CorrectGuesses,
		TotalCharacters: s.TotalCharacters,
		Score:           s.Score,
		Completed:       s.Completed,
		Guesses:         log,
	}
}
