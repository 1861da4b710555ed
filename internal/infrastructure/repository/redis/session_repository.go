package redis

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/go-redis/redis/v8"
	"github.com/riskibarqy/fantasy-matchup/internal/domain/session"
)

const sessionKeyPrefix = "fantasy-matchup:session:"

type sessionRecord struct {
	ID           string    `json:"id"`
	Token        string    `json:"token"`
	RefreshToken string    `json:"refresh_token,omitempty"`
	TokenExp     int64     `json:"token_exp"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
	ExpiresAt    time.Time `json:"expires_at"`
}

// SessionRepository keeps sessions as JSON strings whose key TTL follows the
// session expiry, so expired entries disappear without a sweep.
type SessionRepository struct {
	client     redis.UniversalClient
	defaultTTL time.Duration
	now        func() time.Time
}

func NewSessionRepository(client redis.UniversalClient, defaultTTL time.Duration) *SessionRepository {
	return &SessionRepository{
		client:     client,
		defaultTTL: defaultTTL,
		now:        time.Now,
	}
}

func (r *SessionRepository) GetByID(ctx context.Context, id string) (session.Session, bool, error) {
	data, err := r.client.Get(ctx, sessionKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return session.Session{}, false, nil
		}
		return session.Session{}, false, fmt.Errorf("get session: %w", err)
	}

	var record sessionRecord
	if err := sonic.Unmarshal(data, &record); err != nil {
		return session.Session{}, false, crerr.Wrapf(err, "decode session %s", id)
	}

	return session.Session{
		ID:           record.ID,
		Token:        record.Token,
		RefreshToken: record.RefreshToken,
		TokenExp:     record.TokenExp,
		CreatedAt:    record.CreatedAt,
		UpdatedAt:    record.UpdatedAt,
		ExpiresAt:    record.ExpiresAt,
	}, true, nil
}

func (r *SessionRepository) Save(ctx context.Context, s session.Session) error {
	data, err := sonic.Marshal(sessionRecord{
		ID:           s.ID,
		Token:        s.Token,
		RefreshToken: s.RefreshToken,
		TokenExp:     s.TokenExp,
		CreatedAt:    s.CreatedAt,
		UpdatedAt:    s.UpdatedAt,
		ExpiresAt:    s.ExpiresAt,
	})
	if err != nil {
		return crerr.Wrapf(err, "encode session %s", s.ID)
	}

	ttl, live := r.ttlFor(s)
	if !live {
		return nil
	}
	if err := r.client.Set(ctx, sessionKey(s.ID), data, ttl).Err(); err != nil {
		return fmt.Errorf("set session: %w", err)
	}
	return nil
}

// DeleteExpired is a no-op: key TTLs already evict expired sessions.
func (r *SessionRepository) DeleteExpired(context.Context, time.Time) (int64, error) {
	return 0, nil
}

// ttlFor reports live=false for a session that has already expired. A zero
// TTL stores the key without expiry.
func (r *SessionRepository) ttlFor(s session.Session) (time.Duration, bool) {
	if s.ExpiresAt.IsZero() {
		if r.defaultTTL < 0 {
			return 0, true
		}
		return r.defaultTTL, true
	}
	ttl := s.ExpiresAt.Sub(r.now())
	return ttl, ttl > 0
}

func sessionKey(id string) string {
	return sessionKeyPrefix + strings.TrimSpace(id)
}
