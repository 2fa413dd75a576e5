package httpapi

import (
	"crypto/subtle"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// SessionStore implements the admin gate: a single shared password is
// exchanged for a bearer token held in memory until its TTL expires.
type SessionStore struct {
	mu            sync.Mutex
	adminPassword string
	ttl           time.Duration
	sessions      map[string]time.Time // token -> expiry
}

func NewSessionStore(adminPassword string, ttl time.Duration) *SessionStore {
	return &SessionStore{
		adminPassword: adminPassword,
		ttl:           ttl,
		sessions:      make(map[string]time.Time),
	}
}

// Login validates the password and mints a session token.
func (s *SessionStore) Login(password string) (string, bool) {
	if s.adminPassword == "" {
		return "", false
	}
	if subtle.ConstantTimeCompare([]byte(password), []byte(s.adminPassword)) != 1 {
		return "", false
	}
	token := uuid.NewString()
	now := time.Now()
	s.mu.Lock()
	// Drop sessions that expired without ever being presented again, so
	// abandoned logins do not grow the map for the process lifetime.
	for stale, expiry := range s.sessions {
		if now.After(expiry) {
			delete(s.sessions, stale)
		}
	}
	s.sessions[token] = now.Add(s.ttl)
	s.mu.Unlock()
	return token, true
}

func (s *SessionStore) valid(token string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	expiry, ok := s.sessions[token]
	if !ok {
		return false
	}
	if time.Now().After(expiry) {
		delete(s.sessions, token)
		return false
	}
	return true
}

// Middleware rejects requests without a valid bearer session token.
func (s *SessionStore) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		token := strings.TrimPrefix(header, "Bearer ")
		if header == "" || token == header || !s.valid(token) {
			respondError(w, http.StatusUnauthorized, "authentication required")
			return
		}
		next.ServeHTTP(w, r)
	})
}
