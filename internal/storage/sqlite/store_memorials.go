package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/camposanto/camposanto/internal/storage"
)

// CreateMemorial inserts one memorial page bound to a deceased record. Each
// record holds at most one memorial.
func (s *Store) CreateMemorial(ctx context.Context, memorial storage.Memorial) (storage.Memorial, error) {
	if err := ctx.Err(); err != nil {
		return storage.Memorial{}, err
	}
	if err := s.ready(); err != nil {
		return storage.Memorial{}, err
	}
	slug := strings.TrimSpace(memorial.Slug)
	if slug == "" {
		return storage.Memorial{}, fmt.Errorf("memorial slug is required")
	}
	if memorial.DeceasedRecordID <= 0 {
		return storage.Memorial{}, fmt.Errorf("deceased record id is required")
	}

	var checkID int64
	row := s.sqlDB.QueryRowContext(
		ctx,
		`SELECT id FROM deceased_records WHERE id = ?`,
		memorial.DeceasedRecordID,
	)
	if err := row.Scan(&checkID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return storage.Memorial{}, storage.ErrNotFound
		}
		return storage.Memorial{}, fmt.Errorf("create memorial: %w", err)
	}

	now := toMillis(time.Now())
	result, err := s.sqlDB.ExecContext(
		ctx,
		`INSERT INTO memorials (
		   deceased_record_id, slug, headline, biography, is_published, created_at, updated_at
		 ) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		memorial.DeceasedRecordID,
		slug,
		memorial.Headline,
		memorial.Biography,
		boolToInt(memorial.IsPublished),
		now,
		now,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return storage.Memorial{}, storage.ErrAlreadyExists
		}
		return storage.Memorial{}, fmt.Errorf("create memorial: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return storage.Memorial{}, fmt.Errorf("create memorial: %w", err)
	}

	return s.getMemorial(ctx, `id = ?`, id)
}

// GetMemorialForRecord returns the memorial bound to one deceased record.
func (s *Store) GetMemorialForRecord(ctx context.Context, recordID int64) (storage.Memorial, error) {
	if err := ctx.Err(); err != nil {
		return storage.Memorial{}, err
	}
	if err := s.ready(); err != nil {
		return storage.Memorial{}, err
	}
	return s.getMemorial(ctx, `deceased_record_id = ?`, recordID)
}

// GetPublishedMemorialBySlug returns one published memorial for the public
// site. Unpublished memorials read as missing.
func (s *Store) GetPublishedMemorialBySlug(ctx context.Context, slug string) (storage.Memorial, error) {
	if err := ctx.Err(); err != nil {
		return storage.Memorial{}, err
	}
	if err := s.ready(); err != nil {
		return storage.Memorial{}, err
	}
	slug = strings.TrimSpace(slug)
	if slug == "" {
		return storage.Memorial{}, fmt.Errorf("memorial slug is required")
	}
	return s.getMemorial(ctx, `slug = ? AND is_published = 1`, slug)
}

// UpdateMemorial rewrites the memorial's editable fields.
func (s *Store) UpdateMemorial(ctx context.Context, memorial storage.Memorial) (storage.Memorial, error) {
	if err := ctx.Err(); err != nil {
		return storage.Memorial{}, err
	}
	if err := s.ready(); err != nil {
		return storage.Memorial{}, err
	}
	slug := strings.TrimSpace(memorial.Slug)
	if slug == "" {
		return storage.Memorial{}, fmt.Errorf("memorial slug is required")
	}

	result, err := s.sqlDB.ExecContext(
		ctx,
		`UPDATE memorials
		    SET slug = ?, headline = ?, biography = ?, is_published = ?, updated_at = ?
		  WHERE id = ?`,
		slug,
		memorial.Headline,
		memorial.Biography,
		boolToInt(memorial.IsPublished),
		toMillis(time.Now()),
		memorial.ID,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return storage.Memorial{}, storage.ErrAlreadyExists
		}
		return storage.Memorial{}, fmt.Errorf("update memorial: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return storage.Memorial{}, fmt.Errorf("update memorial: %w", err)
	}
	if affected == 0 {
		return storage.Memorial{}, storage.ErrNotFound
	}
	return s.getMemorial(ctx, `id = ?`, memorial.ID)
}

func (s *Store) getMemorial(ctx context.Context, where string, param any) (storage.Memorial, error) {
	row := s.sqlDB.QueryRowContext(
		ctx,
		`SELECT id, deceased_record_id, slug, headline, biography, is_published, created_at, updated_at
		   FROM memorials
		  WHERE `+where,
		param,
	)
	var memorial storage.Memorial
	var headline, biography sql.NullString
	var isPublished int
	var createdAt, updatedAt int64
	err := row.Scan(
		&memorial.ID,
		&memorial.DeceasedRecordID,
		&memorial.Slug,
		&headline,
		&biography,
		&isPublished,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return storage.Memorial{}, storage.ErrNotFound
		}
		return storage.Memorial{}, fmt.Errorf("get memorial: %w", err)
	}
	memorial.Headline = headline.String
	memorial.Biography = biography.String
	memorial.IsPublished = isPublished != 0
	memorial.CreatedAt = fromMillis(createdAt)
	memorial.UpdatedAt = fromMillis(updatedAt)
	return memorial, nil
}
