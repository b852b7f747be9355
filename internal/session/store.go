package session

import (
	crand "crypto/rand"
	"encoding/base64"
	"sync"

	"github.com/FelipePatitucci/cursor-quiz/internal/quiz"
)

// Handle ties a live quiz session to its owner and opaque token.
type Handle struct {
	Token   string
	Owner   string
	Session *quiz.Session
}

// Store keeps the in-progress sessions, keyed by an opaque token. A
// player owns at most one active session: starting a new game discards
// any prior in-progress one. Sessions are process-local and derived;
// durable state lives in the repository once a game finishes.
type Store struct {
	mu      sync.Mutex
	byToken map[string]*Handle
	byOwner map[string]string
}

func NewStore() *Store {
	return &Store{
		byToken: make(map[string]*Handle),
		byOwner: make(map[string]string),
	}
}

// Start registers a new session for owner, replacing any previous one,
// and returns its handle.
func (st *Store) Start(owner string, s *quiz.Session) *Handle {
	st.mu.Lock()
	defer st.mu.Unlock()
	if old, ok := st.byOwner[owner]; ok {
		delete(st.byToken, old)
	}
	h := &Handle{Token: newToken(), Owner: owner, Session: s}
	st.byToken[h.Token] = h
	st.byOwner[owner] = h.Token
	return h
}

// Find resolves a token to its handle.
func (st *Store) Find(token string) (*Handle, bool) {
	st.mu.Lock()
	defer st.mu.Unlock()
	h, ok := st.byToken[token]
	return h, ok
}

// FindByOwner returns the owner's active session, if any.
func (st *Store) FindByOwner(owner string) (*Handle, bool) {
	st.mu.Lock()
	defer st.mu.Unlock()
	token, ok := st.byOwner[owner]
	if !ok {
		return nil, false
	}
	h, ok := st.byToken[token]
	return h, ok
}

// End drops the session for token. Dropping an unknown token is a no-op.
func (st *Store) End(token string) {
	st.mu.Lock()
	defer st.mu.Unlock()
	h, ok := st.byToken[token]
	if !ok {
		return
	}
	delete(st.byToken, token)
	if st.byOwner[h.Owner] == token {
		delete(st.byOwner, h.Owner)
	}
}

func newToken() string {
	b := make([]byte, 24)
	if _, err := crand.Read(b); err != nil {
		panic("session: failed to read random bytes: " + err.Error())
	}
	return base64.RawURLEncoding.EncodeToString(b)
}
