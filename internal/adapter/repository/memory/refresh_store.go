package memory

import (
	"crypto/rand"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/iho/authgate/internal/domain"
)

type refreshRecord struct {
	userID    string
	expiresAt time.Time
}

// RefreshTokenStore issues opaque single-use refresh tokens. Redeeming a
// token removes it, so a replayed token is rejected even inside its TTL.
type RefreshTokenStore struct {
	mu     sync.Mutex
	ttl    time.Duration
	tokens map[string]refreshRecord
	now    func() time.Time
}

func NewRefreshTokenStore(ttl time.Duration) *RefreshTokenStore {
	return &RefreshTokenStore{
		ttl:    ttl,
		tokens: make(map[string]refreshRecord),
		now:    time.Now,
	}
}

// Issue creates a fresh refresh token bound to userID.
func (s *RefreshTokenStore) Issue(userID string) (string, error) {
	token, err := ulid.New(ulid.Timestamp(s.now()), rand.Reader)
	if err != nil {
		return "", err
	}

	s.mu.Lock()
	s.tokens[token.String()] = refreshRecord{
		userID:    userID,
		expiresAt: s.now().Add(s.ttl),
	}
	s.mu.Unlock()

	return token.String(), nil
}

// Redeem consumes a refresh token and returns the user it was issued to.
// The token is deleted whether or not it is still valid; rotation means a
// token is good for exactly one redemption.
func (s *RefreshTokenStore) Redeem(token string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.tokens[token]
	if !ok {
		return "", domain.ErrInvalidToken
	}
	delete(s.tokens, token)

	if s.now().After(rec.expiresAt) {
		return "", domain.ErrExpiredToken
	}
	return rec.userID, nil
}

// Revoke removes a token without redeeming it. Unknown tokens are a no-op.
func (s *RefreshTokenStore) Revoke(token string) {
	s.mu.Lock()
	delete(s.tokens, token)
	s.mu.Unlock()
}

// RevokeAll removes every token issued to userID.
func (s *RefreshTokenStore) RevokeAll(userID string) {
	s.mu.Lock()
	for t, rec := range s.tokens {
		if rec.userID == userID {
			delete(s.tokens, t)
		}
	}
	s.mu.Unlock()
}
