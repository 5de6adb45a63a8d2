package secret

import (
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// DBStore keeps secrets in the workspace database's secrets table. The
// database file is created with the user's umask, so this backend is only
// as private as the data directory.
type DBStore struct {
	conn *sql.DB
}

func NewDBStore(conn *sql.DB) *DBStore {
	return &DBStore{conn: conn}
}

func (s *DBStore) Set(key string, value []byte) error {
	_, err := s.conn.Exec(
		`INSERT INTO secrets (key, value, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, value, time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("secret set: %w", err)
	}
	return nil
}

func (s *DBStore) Get(key string) ([]byte, error) {
	var value []byte
	err := s.conn.QueryRow(`SELECT value FROM secrets WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("secret get: %w", err)
	}
	return value, nil
}

func (s *DBStore) Delete(key string) error {
	if _, err := s.conn.Exec(`DELETE FROM secrets WHERE key = ?`, key); err != nil {
		return fmt.Errorf("secret delete: %w", err)
	}
	return nil
}
