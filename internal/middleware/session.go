// Package middleware provides cookie-session handling. Each browser session
// carries the logged-in user and the in-flight study cycle: the selection
// cascade, its session-only flip overrides, and the running review.
package middleware

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"net/http"
	"sync"
	"time"

	"github.com/Flashcards-Program/Flashcards/internal/deck"
	"github.com/Flashcards-Program/Flashcards/internal/selection"
)

type contextKey string

const userIDKey contextKey = "userID"

// CookieName is the session cookie.
const CookieName = "session"

const sessionTTL = 7 * 24 * time.Hour

// StudyState is one setup→review cycle. It is created when the user enters
// the setup screen and discarded wholesale on abort or completion.
//
// The store's own lock only guards the token map; handlers hold the
// embedded mutex across every read or mutation of a cycle, so two requests
// on the same session (a double-clicked button, a second tab) cannot judge
// the same card twice or finish one review twice.
type StudyState struct {
	sync.Mutex

	Cascade   *selection.Cascade
	Overrides deck.Overrides
	Review    *deck.Session
	Result    *deck.Score
}

type Session struct {
	UserID    int64
	ExpiresAt time.Time
	Study     *StudyState
}

type SessionStore struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

func NewSessionStore() *SessionStore {
	return &SessionStore{
		sessions: make(map[string]*Session),
	}
}

func (s *SessionStore) Create(userID int64) (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	token := hex.EncodeToString(b)

	s.mu.Lock()
	s.sessions[token] = &Session{
		UserID:    userID,
		ExpiresAt: time.Now().Add(sessionTTL),
	}
	s.mu.Unlock()

	return token, nil
}

func (s *SessionStore) Get(token string) *Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess, ok := s.sessions[token]
	if !ok || time.Now().After(sess.ExpiresAt) {
		return nil
	}
	return sess
}

func (s *SessionStore) Delete(token string) {
	s.mu.Lock()
	delete(s.sessions, token)
	s.mu.Unlock()
}

// SetStudy replaces the session's study cycle. Passing nil discards it.
func (s *SessionStore) SetStudy(token string, study *StudyState) {
	s.mu.Lock()
	if sess, ok := s.sessions[token]; ok {
		sess.Study = study
	}
	s.mu.Unlock()
}

// Study returns the session's current study cycle, or nil.
func (s *SessionStore) Study(token string) *StudyState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess, ok := s.sessions[token]
	if !ok || time.Now().After(sess.ExpiresAt) {
		return nil
	}
	return sess.Study
}

// AuthMiddleware resolves the session cookie to a user ID on the request
// context. Requests without a valid session pass through anonymously.
func (s *SessionStore) AuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(CookieName)
		if err != nil {
			next.ServeHTTP(w, r)
			return
		}
		sess := s.Get(cookie.Value)
		if sess == nil {
			next.ServeHTTP(w, r)
			return
		}
		ctx := context.WithValue(r.Context(), userIDKey, sess.UserID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireAuth redirects anonymous requests to the login page.
func RequireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if GetUserID(r.Context()) == 0 {
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}
		next(w, r)
	}
}

func GetUserID(ctx context.Context) int64 {
	id, _ := ctx.Value(userIDKey).(int64)
	return id
}

// Token returns the request's session token, or "".
func Token(r *http.Request) string {
	cookie, err := r.Cookie(CookieName)
	if err != nil {
		return ""
	}
	return cookie.Value
}
