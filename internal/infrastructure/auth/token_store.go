package auth

import (
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
)

// TokenStore holds the bearer token for the current operator session and
// fans out logout events. A 401 from any request and a locally detected
// expiry both end the session the same way.
type TokenStore struct {
	mu      sync.RWMutex
	token   string
	hooks   []func()
	logger  *zap.Logger
	expired bool
}

// NewTokenStore creates an empty token store
func NewTokenStore(logger *zap.Logger) *TokenStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TokenStore{logger: logger}
}

// SetToken stores a fresh bearer token and re-arms the session
func (s *TokenStore) SetToken(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
	s.expired = false
}

// Token returns the current bearer token, empty when logged out
func (s *TokenStore) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// OnLogout registers a hook invoked when the session ends
func (s *TokenStore) OnLogout(hook func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.hooks = append(s.hooks, hook)
}

// Logout clears the token and runs the registered hooks. Repeated calls
// after the session already ended are no-ops.
func (s *TokenStore) Logout() {
	s.mu.Lock()
	if s.token == "" && s.expired {
		s.mu.Unlock()
		return
	}
	s.token = ""
	s.expired = true
	hooks := make([]func(), len(s.hooks))
	copy(hooks, s.hooks)
	s.mu.Unlock()

	s.logger.Info("session ended, running logout hooks", zap.Int("hooks", len(hooks)))
	for _, hook := range hooks {
		hook()
	}
}

// ExpiresAt returns the token's expiry claim. The token is decoded without
// signature verification: the client never holds the signing secret, it only
// needs the claim to know when to stop trusting the session.
func (s *TokenStore) ExpiresAt() (time.Time, bool) {
	s.mu.RLock()
	token := s.token
	s.mu.RUnlock()

	if token == "" {
		return time.Time{}, false
	}

	claims := jwt.MapClaims{}
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(token, claims); err != nil {
		s.logger.Debug("token is not a parseable JWT", zap.Error(err))
		return time.Time{}, false
	}

	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, false
	}
	return exp.Time, true
}

// Valid reports whether a token is present and, when it carries an expiry
// claim, not yet expired.
func (s *TokenStore) Valid(now time.Time) bool {
	if s.Token() == "" {
		return false
	}
	if exp, ok := s.ExpiresAt(); ok && now.After(exp) {
		return false
	}
	return true
}
