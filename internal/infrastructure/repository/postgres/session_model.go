package postgres

import (
	"database/sql"
	"time"
)

type sessionTableModel struct {
	ID           int64          `db:"id"`
	SessionID    string         `db:"session_id"`
	AccessToken  string         `db:"access_token"`
	RefreshToken sql.NullString `db:"refresh_token"`
	TokenExp     int64          `db:"token_exp"`
	CreatedAt    time.Time      `db:"created_at"`
	UpdatedAt    time.Time      `db:"updated_at"`
	ExpiresAt    sql.NullTime   `db:"expires_at"`
}

type sessionUpsertModel struct {
	SessionID    string     `db:"session_id"`
	AccessToken  string     `db:"access_token"`
	RefreshToken *string    `db:"refresh_token"`
	TokenExp     int64      `db:"token_exp"`
	CreatedAt    time.Time  `db:"created_at"`
	UpdatedAt    time.Time  `db:"updated_at"`
	ExpiresAt    *time.Time `db:"expires_at"`
}
