package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// SessionData is the blob kept in the sessions table for a cookie.
type SessionData struct {
	Token  string `json:"token"`
	UserID string `json:"userId"`
}

// CreateSession stores (or replaces) the session keyed by sid.
func (s *Store) CreateSession(ctx context.Context, sid string, data SessionData, expire time.Time) error {
	blob, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	if _, err := s.db.ExecContext(ctx, `
		INSERT INTO sessions (sid, sess, expire)
		VALUES ($1, $2, $3)
		ON CONFLICT (sid) DO UPDATE SET sess = EXCLUDED.sess, expire = EXCLUDED.expire`,
		sid, blob, expire.UTC()); err != nil {
		return fmt.Errorf("store session: %w", err)
	}
	return nil
}

// Session returns the live session for sid. Expired rows are treated as absent.
func (s *Store) Session(ctx context.Context, sid string) (*SessionData, error) {
	var blob []byte
	err := s.db.QueryRowContext(ctx, `
		SELECT sess
		FROM sessions
		WHERE sid = $1 AND expire > NOW()`, sid).Scan(&blob)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("lookup session: %w", err)
	}
	var data SessionData
	if err := json.Unmarshal(blob, &data); err != nil {
		return nil, fmt.Errorf("decode session: %w", err)
	}
	return &data, nil
}

// DeleteSession removes the session. Missing sessions are not an error.
func (s *Store) DeleteSession(ctx context.Context, sid string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM sessions WHERE sid = $1`, sid); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

// PruneSessions drops expired sessions and reports how many were removed.
func (s *Store) PruneSessions(ctx context.Context) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM sessions WHERE expire <= NOW()`)
	if err != nil {
		return 0, fmt.Errorf("prune sessions: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("prune sessions rows affected: %w", err)
	}
	return n, nil
}
