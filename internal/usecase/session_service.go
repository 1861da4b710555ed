package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/riskibarqy/fantasy-matchup/internal/domain/session"
	"github.com/riskibarqy/fantasy-matchup/internal/platform/logging"
)

type SessionService struct {
	repo   session.Repository
	logger *logging.Logger
	now    func() time.Time
}

func NewSessionService(repo session.Repository, logger *logging.Logger) *SessionService {
	if logger == nil {
		logger = logging.Default()
	}

	return &SessionService{
		repo:   repo,
		logger: logger,
		now:    time.Now,
	}
}

// Resolve loads the session behind id. Unknown and expired sessions resolve
// to the zero Session so callers treat them as unauthenticated.
func (s *SessionService) Resolve(ctx context.Context, id string) (session.Session, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return session.Session{}, nil
	}

	item, ok, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return session.Session{}, fmt.Errorf("get session: %w", err)
	}
	if !ok || item.Expired(s.now()) {
		return session.Session{}, nil
	}
	return item, nil
}

func (s *SessionService) PurgeExpired(ctx context.Context) (int64, error) {
	removed, err := s.repo.DeleteExpired(ctx, s.now().UTC())
	if err != nil {
		return 0, fmt.Errorf("delete expired sessions: %w", err)
	}
	return removed, nil
}

// RunSweeper purges expired sessions every interval until ctx is done.
func (s *SessionService) RunSweeper(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			removed, err := s.PurgeExpired(ctx)
			if err != nil {
				s.logger.WarnContext(ctx, "session sweep failed", "error", err)
				continue
			}
			if removed > 0 {
				s.logger.InfoContext(ctx, "expired sessions purged", "count", removed)
			}
		}
	}
}
