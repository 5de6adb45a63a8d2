package storage

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"pagebuilder/internal/domain"
	"pagebuilder/internal/secret"
)

const sessionCookiesKey = "session-cookies"

// SessionStore implements domain.SessionStore. Session metadata lives in
// the sessions table; cookies go to the secret store.
type SessionStore struct {
	db      *DB
	secrets secret.SecretStore
}

func NewSessionStore(db *DB, secrets secret.SecretStore) *SessionStore {
	return &SessionStore{db: db, secrets: secrets}
}

func (s *SessionStore) SaveSession(sess *domain.Session) error {
	if sess == nil {
		return s.ClearSession()
	}
	cookies, err := json.Marshal(sess.Cookies)
	if err != nil {
		return fmt.Errorf("encode cookies: %w", err)
	}
	if err := s.secrets.Set(sessionCookiesKey, cookies); err != nil {
		return fmt.Errorf("store cookies: %w", err)
	}

	created := sess.CreatedAt
	if created.IsZero() {
		created = time.Now()
	}
	_, err = s.db.Conn().Exec(
		`INSERT INTO sessions (id, user_id, email, tenant, created_at, updated_at) VALUES (1, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET user_id = excluded.user_id, email = excluded.email,
		 tenant = excluded.tenant, created_at = excluded.created_at, updated_at = excluded.updated_at`,
		sess.UserID, sess.Email, sess.Tenant, created.UTC(), time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

// LoadSession returns the stored session, or nil if nobody is logged in.
func (s *SessionStore) LoadSession() (*domain.Session, error) {
	sess := &domain.Session{}
	err := s.db.Conn().QueryRow(
		`SELECT user_id, email, tenant, created_at FROM sessions WHERE id = 1`,
	).Scan(&sess.UserID, &sess.Email, &sess.Tenant, &sess.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}

	raw, err := s.secrets.Get(sessionCookiesKey)
	if err != nil {
		return nil, fmt.Errorf("load cookies: %w", err)
	}
	sess.Cookies = map[string]string{}
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &sess.Cookies); err != nil {
			return nil, fmt.Errorf("decode cookies: %w", err)
		}
	}
	return sess, nil
}

func (s *SessionStore) ClearSession() error {
	if err := s.secrets.Delete(sessionCookiesKey); err != nil {
		return fmt.Errorf("clear cookies: %w", err)
	}
	if _, err := s.db.Conn().Exec(`DELETE FROM sessions`); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}
