package session

import (
	"context"
	"time"
)

type Repository interface {
	GetByID(ctx context.Context, id string) (Session, bool, error)
	Save(ctx context.Context, s Session) error
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}
