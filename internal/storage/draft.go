package storage

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"pagebuilder/internal/domain"
)

// DraftStore implements domain.DraftStore using SQLite.
type DraftStore struct {
	db *DB
}

func NewDraftStore(db *DB) *DraftStore {
	return &DraftStore{db: db}
}

// ReplaceDraft atomically replaces the draft for (tenant, page).
func (s *DraftStore) ReplaceDraft(d *domain.Draft) error {
	comp := d.Components
	if comp == nil {
		comp = domain.Composition{}
	}
	data, err := json.Marshal(comp)
	if err != nil {
		return fmt.Errorf("encode draft: %w", err)
	}
	if d.UpdatedAt.IsZero() {
		d.UpdatedAt = time.Now()
	}

	tx, err := s.db.Conn().Begin()
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM drafts WHERE tenant = ? AND page_id = ?`, d.Tenant, d.PageID); err != nil {
		return fmt.Errorf("delete draft: %w", err)
	}
	if _, err := tx.Exec(
		`INSERT INTO drafts (tenant, page_id, components_json, updated_at) VALUES (?, ?, ?, ?)`,
		d.Tenant, d.PageID, string(data), d.UpdatedAt.UTC(),
	); err != nil {
		return fmt.Errorf("insert draft %s: %w", d.PageID, err)
	}

	return tx.Commit()
}

// GetDraft returns the draft for (tenant, page), or nil if there is none.
func (s *DraftStore) GetDraft(tenant, pageID string) (*domain.Draft, error) {
	var raw string
	d := &domain.Draft{Tenant: tenant, PageID: pageID}
	err := s.db.Conn().QueryRow(
		`SELECT components_json, updated_at FROM drafts WHERE tenant = ? AND page_id = ?`, tenant, pageID,
	).Scan(&raw, &d.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get draft: %w", err)
	}
	if d.Components, err = domain.DecodeComposition([]byte(raw)); err != nil {
		return nil, fmt.Errorf("decode draft %s: %w", pageID, err)
	}
	return d, nil
}

// ListDrafts returns every draft, most recently updated first.
func (s *DraftStore) ListDrafts() ([]domain.Draft, error) {
	rows, err := s.db.Conn().Query(
		`SELECT tenant, page_id, components_json, updated_at FROM drafts ORDER BY updated_at DESC`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var drafts []domain.Draft
	for rows.Next() {
		var d domain.Draft
		var raw string
		if err := rows.Scan(&d.Tenant, &d.PageID, &raw, &d.UpdatedAt); err != nil {
			return nil, err
		}
		if d.Components, err = domain.DecodeComposition([]byte(raw)); err != nil {
			return nil, fmt.Errorf("decode draft %s: %w", d.PageID, err)
		}
		drafts = append(drafts, d)
	}
	return drafts, rows.Err()
}

func (s *DraftStore) DeleteDraft(tenant, pageID string) error {
	_, err := s.db.Conn().Exec(`DELETE FROM drafts WHERE tenant = ? AND page_id = ?`, tenant, pageID)
	return err
}

// PruneDrafts deletes drafts last updated before olderThan and reports how
// many were removed.
func (s *DraftStore) PruneDrafts(olderThan time.Time) (int64, error) {
	res, err := s.db.Conn().Exec(`DELETE FROM drafts WHERE updated_at < ?`, olderThan.UTC())
	if err != nil {
		return 0, fmt.Errorf("prune drafts: %w", err)
	}
	return res.RowsAffected()
}
