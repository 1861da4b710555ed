package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/fantasy-matchup/internal/domain/session"
)

const (
	selectSessionByIDQuery = `SELECT id, session_id, access_token, refresh_token, token_exp, created_at, updated_at, expires_at
FROM oauth_sessions
WHERE session_id = $1
LIMIT 1`

	upsertSessionQuery = `INSERT INTO oauth_sessions (session_id, access_token, refresh_token, token_exp, created_at, updated_at, expires_at)
VALUES (:session_id, :access_token, :refresh_token, :token_exp, :created_at, :updated_at, :expires_at)
ON CONFLICT (session_id)
DO UPDATE SET
    access_token = EXCLUDED.access_token,
    refresh_token = EXCLUDED.refresh_token,
    token_exp = EXCLUDED.token_exp,
    updated_at = EXCLUDED.updated_at,
    expires_at = EXCLUDED.expires_at`

	deleteExpiredSessionsQuery = `DELETE FROM oauth_sessions
WHERE expires_at IS NOT NULL AND expires_at <= $1`
)

type SessionRepository struct {
	db *sqlx.DB
}

func NewSessionRepository(db *sqlx.DB) *SessionRepository {
	return &SessionRepository{db: db}
}

func (r *SessionRepository) GetByID(ctx context.Context, id string) (session.Session, bool, error) {
	var row sessionTableModel
	if err := r.db.GetContext(ctx, &row, selectSessionByIDQuery, strings.TrimSpace(id)); err != nil {
		if isNotFound(err) {
			return session.Session{}, false, nil
		}
		return session.Session{}, false, fmt.Errorf("get session by id: %w", err)
	}

	return sessionFromRow(row), true, nil
}

func (r *SessionRepository) Save(ctx context.Context, s session.Session) error {
	if _, err := r.db.NamedExecContext(ctx, upsertSessionQuery, sessionToUpsertModel(s)); err != nil {
		return fmt.Errorf("upsert session: %w", err)
	}
	return nil
}

func (r *SessionRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx, deleteExpiredSessionsQuery, now.UTC())
	if err != nil {
		return 0, fmt.Errorf("delete expired sessions: %w", err)
	}

	removed, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("count deleted sessions: %w", err)
	}
	return removed, nil
}

func sessionFromRow(row sessionTableModel) session.Session {
	out := session.Session{
		ID:           row.SessionID,
		Token:        row.AccessToken,
		RefreshToken: strings.TrimSpace(row.RefreshToken.String),
		TokenExp:     row.TokenExp,
		CreatedAt:    row.CreatedAt.UTC(),
		UpdatedAt:    row.UpdatedAt.UTC(),
	}
	if row.ExpiresAt.Valid {
		out.ExpiresAt = row.ExpiresAt.Time.UTC()
	}
	return out
}

func sessionToUpsertModel(s session.Session) sessionUpsertModel {
	model := sessionUpsertModel{
		SessionID:    strings.TrimSpace(s.ID),
		AccessToken:  s.Token,
		RefreshToken: optionalString(s.RefreshToken),
		TokenExp:     s.TokenExp,
		CreatedAt:    s.CreatedAt.UTC(),
		UpdatedAt:    s.UpdatedAt.UTC(),
	}
	if !s.ExpiresAt.IsZero() {
		expiresAt := s.ExpiresAt.UTC()
		model.ExpiresAt = &expiresAt
	}
	return model
}

func optionalString(value string) *string {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

func isNotFound(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}
