package memory

import (
	"context"
	"sync"
	"time"

	"github.com/riskibarqy/fantasy-matchup/internal/domain/session"
)

type SessionRepository struct {
	mu    sync.RWMutex
	items map[string]session.Session
}

func NewSessionRepository() *SessionRepository {
	return &SessionRepository{
		items: make(map[string]session.Session),
	}
}

func (r *SessionRepository) GetByID(_ context.Context, id string) (session.Session, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.items[id]
	if !ok {
		return session.Session{}, false, nil
	}

	return s, true, nil
}

func (r *SessionRepository) Save(_ context.Context, s session.Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if existing, ok := r.items[s.ID]; ok && !existing.CreatedAt.IsZero() {
		s.CreatedAt = existing.CreatedAt
	}
	r.items[s.ID] = s

	return nil
}

func (r *SessionRepository) DeleteExpired(_ context.Context, now time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var removed int64
	for id, s := range r.items {
		if s.Expired(now) {
			delete(r.items, id)
			removed++
		}
	}

	return removed, nil
}
