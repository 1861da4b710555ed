package memory

import (
	"context"
	"testing"
	"time"

	"github.com/riskibarqy/fantasy-matchup/internal/domain/session"
)

func TestSessionRepository_SaveAndGet(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := NewSessionRepository()
	created := time.Date(2025, 9, 7, 12, 0, 0, 0, time.UTC)

	if _, ok, err := repo.GetByID(ctx, "sid"); err != nil || ok {
		t.Fatalf("expected missing session, ok=%v err=%v", ok, err)
	}

	if err := repo.Save(ctx, session.Session{ID: "sid", Token: "T1", CreatedAt: created}); err != nil {
		t.Fatalf("save session: %v", err)
	}
	if err := repo.Save(ctx, session.Session{ID: "sid", Token: "T2", CreatedAt: created.Add(time.Hour)}); err != nil {
		t.Fatalf("overwrite session: %v", err)
	}

	got, ok, err := repo.GetByID(ctx, "sid")
	if err != nil || !ok {
		t.Fatalf("get session: ok=%v err=%v", ok, err)
	}
	if got.Token != "T2" {
		t.Fatalf("unexpected token: %s", got.Token)
	}
	if !got.CreatedAt.Equal(created) {
		t.Fatalf("created_at must be preserved on overwrite: %s", got.CreatedAt)
	}
}

func TestSessionRepository_DeleteExpired(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := NewSessionRepository()
	now := time.Date(2025, 9, 7, 12, 0, 0, 0, time.UTC)

	for _, s := range []session.Session{
		{ID: "old", Token: "T", ExpiresAt: now.Add(-time.Minute)},
		{ID: "edge", Token: "T", ExpiresAt: now},
		{ID: "live", Token: "T", ExpiresAt: now.Add(time.Minute)},
		{ID: "forever", Token: "T"},
	} {
		if err := repo.Save(ctx, s); err != nil {
			t.Fatalf("save %s: %v", s.ID, err)
		}
	}

	removed, err := repo.DeleteExpired(ctx, now)
	if err != nil {
		t.Fatalf("delete expired: %v", err)
	}
	if removed != 2 {
		t.Fatalf("unexpected removed count: %d", removed)
	}
	for _, id := range []string{"live", "forever"} {
		if _, ok, _ := repo.GetByID(ctx, id); !ok {
			t.Fatalf("session %s must survive", id)
		}
	}
}
