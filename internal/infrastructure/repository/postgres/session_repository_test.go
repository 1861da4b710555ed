package postgres

import (
	"database/sql"
	"fmt"
	"testing"
	"time"

	"github.com/riskibarqy/fantasy-matchup/internal/domain/session"
)

func TestSessionRowMapping(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 9, 7, 12, 0, 0, 0, time.UTC)
	in := session.Session{
		ID:           " sid-1 ",
		Token:        "T",
		RefreshToken: "R",
		TokenExp:     now.Add(time.Hour).Unix(),
		CreatedAt:    now,
		UpdatedAt:    now,
		ExpiresAt:    now.Add(24 * time.Hour),
	}

	model := sessionToUpsertModel(in)
	if model.SessionID != "sid-1" {
		t.Fatalf("session id must be trimmed: %q", model.SessionID)
	}
	if model.RefreshToken == nil || *model.RefreshToken != "R" {
		t.Fatalf("unexpected refresh token: %v", model.RefreshToken)
	}
	if model.ExpiresAt == nil || !model.ExpiresAt.Equal(in.ExpiresAt) {
		t.Fatalf("unexpected expires_at: %v", model.ExpiresAt)
	}

	out := sessionFromRow(sessionTableModel{
		SessionID:    model.SessionID,
		AccessToken:  model.AccessToken,
		RefreshToken: sql.NullString{String: *model.RefreshToken, Valid: true},
		TokenExp:     model.TokenExp,
		CreatedAt:    model.CreatedAt,
		UpdatedAt:    model.UpdatedAt,
		ExpiresAt:    sql.NullTime{Time: *model.ExpiresAt, Valid: true},
	})
	in.ID = "sid-1"
	if out != in {
		t.Fatalf("unexpected session: got=%+v want=%+v", out, in)
	}
}

func TestSessionRowMapping_OptionalColumns(t *testing.T) {
	t.Parallel()

	model := sessionToUpsertModel(session.Session{ID: "sid", Token: "T"})
	if model.RefreshToken != nil {
		t.Fatalf("empty refresh token must map to NULL")
	}
	if model.ExpiresAt != nil {
		t.Fatalf("zero expiry must map to NULL")
	}

	out := sessionFromRow(sessionTableModel{SessionID: "sid", AccessToken: "T"})
	if !out.ExpiresAt.IsZero() || out.RefreshToken != "" {
		t.Fatalf("unexpected optional values: %+v", out)
	}
}

func TestIsNotFound(t *testing.T) {
	t.Parallel()

	if !isNotFound(fmt.Errorf("wrapped: %w", sql.ErrNoRows)) {
		t.Fatalf("expected wrapped sql.ErrNoRows to be not found")
	}
	if isNotFound(fmt.Errorf("pq: relation oauth_sessions does not exist")) {
		t.Fatalf("unrelated error must not be not found")
	}
}
