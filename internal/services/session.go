package services

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	// SessionDuration is 7 days
	SessionDuration = 7 * 24 * time.Hour
	// SessionKeyPrefix is the Redis key prefix for sessions
	SessionKeyPrefix = "session:"
)

// SessionService maps opaque bearer tokens to anonymous user identifiers.
// Redis-backed in normal deployments; in-memory in demo mode.
type SessionService interface {
	// Create issues a new token for uid, valid for SessionDuration.
	Create(ctx context.Context, uid string) (string, error)

	// Validate resolves a token to its uid. ok is false for unknown or
	// expired tokens.
	Validate(ctx context.Context, token string) (uid string, ok bool, err error)
}

func newSessionToken() (string, error) {
	tokenBytes := make([]byte, 32)
	if _, err := rand.Read(tokenBytes); err != nil {
		return "", err
	}
	return base64.URLEncoding.EncodeToString(tokenBytes), nil
}

// RedisSessions stores sessions in Redis with a TTL.
type RedisSessions struct {
	client *redis.Client
}

func NewRedisSessions(client *redis.Client) *RedisSessions {
	return &RedisSessions{client: client}
}

func (s *RedisSessions) Create(ctx context.Context, uid string) (string, error) {
	token, err := newSessionToken()
	if err != nil {
		return "", err
	}
	if err := s.client.Set(ctx, SessionKeyPrefix+token, uid, SessionDuration).Err(); err != nil {
		return "", err
	}
	return token, nil
}

func (s *RedisSessions) Validate(ctx context.Context, token string) (string, bool, error) {
	if token == "" {
		return "", false, nil
	}
	uid, err := s.client.Get(ctx, SessionKeyPrefix+token).Result()
	if err != nil {
		// Missing key and transport errors both read as "not signed in";
		// the client re-bootstraps its identity.
		return "", false, nil
	}
	return uid, true, nil
}

// MemorySessions is the demo-mode session store (no Redis configured).
type MemorySessions struct {
	mu       sync.RWMutex
	sessions map[string]memorySession
	now      func() time.Time
}

type memorySession struct {
	uid       string
	expiresAt time.Time
}

func NewMemorySessions() *MemorySessions {
	return &MemorySessions{
		sessions: make(map[string]memorySession),
		now:      time.Now,
	}
}

func (s *MemorySessions) Create(_ context.Context, uid string) (string, error) {
	token, err := newSessionToken()
	if err != nil {
		return "", err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[token] = memorySession{uid: uid, expiresAt: s.now().Add(SessionDuration)}
	return token, nil
}

func (s *MemorySessions) Validate(_ context.Context, token string) (string, bool, error) {
	if token == "" {
		return "", false, nil
	}

	s.mu.RLock()
	sess, ok := s.sessions[token]
	s.mu.RUnlock()

	if !ok {
		return "", false, nil
	}
	if s.now().After(sess.expiresAt) {
		s.mu.Lock()
		delete(s.sessions, token)
		s.mu.Unlock()
		return "", false, nil
	}
	return sess.uid, true, nil
}
