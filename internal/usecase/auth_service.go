package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/riskibarqy/fantasy-matchup/internal/domain/session"
	"github.com/riskibarqy/fantasy-matchup/internal/platform/id"
	"github.com/riskibarqy/fantasy-matchup/internal/platform/logging"
)

type AuthService struct {
	provider   AuthorizationProvider
	sessions   session.Repository
	ids        id.Generator
	recorder   ResultRecorder
	logger     *logging.Logger
	sessionTTL time.Duration
	now        func() time.Time
}

type AuthServiceConfig struct {
	Provider   AuthorizationProvider
	Sessions   session.Repository
	IDs        id.Generator
	Recorder   ResultRecorder
	Logger     *logging.Logger
	SessionTTL time.Duration
}

func NewAuthService(cfg AuthServiceConfig) *AuthService {
	if cfg.Logger == nil {
		cfg.Logger = logging.Default()
	}
	if cfg.Recorder == nil {
		cfg.Recorder = noopRecorder{}
	}
	if cfg.IDs == nil {
		cfg.IDs = id.NewUUIDGenerator()
	}
	if cfg.SessionTTL <= 0 {
		cfg.SessionTTL = 30 * 24 * time.Hour
	}

	return &AuthService{
		provider:   cfg.Provider,
		sessions:   cfg.Sessions,
		ids:        cfg.IDs,
		recorder:   cfg.Recorder,
		logger:     cfg.Logger,
		sessionTTL: cfg.SessionTTL,
		now:        time.Now,
	}
}

// LoginURL returns the provider authorize URL the browser is sent to.
func (s *AuthService) LoginURL(ctx context.Context) (string, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.AuthService.LoginURL")
	defer span.End()

	target, err := s.provider.AuthCodeURL(ctx)
	if err != nil {
		return "", fmt.Errorf("build authorize url: %w", err)
	}
	return target, nil
}

// CompleteLogin exchanges the authorization code and stores the tokens under
// a freshly issued session id. The session is written exactly once, and only
// after a successful exchange.
func (s *AuthService) CompleteLogin(ctx context.Context, code string) (session.Session, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.AuthService.CompleteLogin")
	defer span.End()

	code = strings.TrimSpace(code)
	if code == "" {
		return session.Session{}, fmt.Errorf("%w: missing code", ErrInvalidInput)
	}

	token, err := s.provider.Exchange(ctx, code)
	if err != nil {
		s.recorder.ObserveTokenExchange(exchangeOutcome(err))
		return session.Session{}, fmt.Errorf("exchange authorization code: %w", err)
	}
	s.recorder.ObserveTokenExchange("success")

	sid, err := s.ids.NewID()
	if err != nil {
		return session.Session{}, fmt.Errorf("issue session id: %w", err)
	}

	now := s.now().UTC()
	expiry := token.Expiry
	if expiry.IsZero() {
		expiry = now.Add(session.DefaultTokenTTL)
	}

	item := session.Session{
		ID:           sid,
		Token:        token.AccessToken,
		RefreshToken: token.RefreshToken,
		TokenExp:     expiry.Unix(),
		CreatedAt:    now,
		UpdatedAt:    now,
		ExpiresAt:    now.Add(s.sessionTTL),
	}
	if err := s.sessions.Save(ctx, item); err != nil {
		return session.Session{}, fmt.Errorf("save session: %w", err)
	}

	s.logger.InfoContext(ctx, "oauth login completed",
		"session_id", sid,
		"token_exp", item.TokenExp,
	)
	return item, nil
}

func exchangeOutcome(err error) string {
	if errors.Is(err, ErrNoAccessToken) {
		return "no_access_token"
	}
	if _, ok := UpstreamStatus(err); ok {
		return "rejected"
	}
	return "failed"
}
