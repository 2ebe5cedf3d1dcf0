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

// CreateOrganization inserts one tenant record.
func (s *Store) CreateOrganization(ctx context.Context, org storage.Organization) (storage.Organization, error) {
	if err := ctx.Err(); err != nil {
		return storage.Organization{}, err
	}
	if err := s.ready(); err != nil {
		return storage.Organization{}, err
	}
	name := strings.TrimSpace(org.Name)
	slug := strings.TrimSpace(org.Slug)
	if name == "" {
		return storage.Organization{}, fmt.Errorf("organization name is required")
	}
	if slug == "" {
		return storage.Organization{}, fmt.Errorf("organization slug is required")
	}
	if !org.Kind.Valid() {
		return storage.Organization{}, fmt.Errorf("organization kind %q is not valid", org.Kind)
	}
	status := strings.TrimSpace(org.Status)
	if status == "" {
		status = "ACTIVE"
	}
	createdAt := org.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	result, err := s.sqlDB.ExecContext(
		ctx,
		`INSERT INTO organizations (kind, name, slug, status, created_at)
		 VALUES (?, ?, ?, ?, ?)`,
		string(org.Kind),
		name,
		slug,
		status,
		toMillis(createdAt),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return storage.Organization{}, storage.ErrAlreadyExists
		}
		return storage.Organization{}, fmt.Errorf("create organization: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return storage.Organization{}, fmt.Errorf("create organization: %w", err)
	}

	org.ID = id
	org.Name = name
	org.Slug = slug
	org.Status = status
	org.CreatedAt = createdAt.UTC()
	return org, nil
}

// GetOrganization returns one tenant by ID.
func (s *Store) GetOrganization(ctx context.Context, id int64) (storage.Organization, error) {
	if err := ctx.Err(); err != nil {
		return storage.Organization{}, err
	}
	if err := s.ready(); err != nil {
		return storage.Organization{}, err
	}

	row := s.sqlDB.QueryRowContext(
		ctx,
		`SELECT id, kind, name, slug, status, created_at
		   FROM organizations
		  WHERE id = ?`,
		id,
	)
	return scanOrganization(row)
}

// ListOrganizationsByKind returns all tenants of one kind, newest first.
func (s *Store) ListOrganizationsByKind(ctx context.Context, kind storage.OrgKind) ([]storage.Organization, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := s.ready(); err != nil {
		return nil, err
	}
	if !kind.Valid() {
		return nil, fmt.Errorf("organization kind %q is not valid", kind)
	}

	rows, err := s.sqlDB.QueryContext(
		ctx,
		`SELECT id, kind, name, slug, status, created_at
		   FROM organizations
		  WHERE kind = ?
		  ORDER BY created_at DESC, id DESC`,
		string(kind),
	)
	if err != nil {
		return nil, fmt.Errorf("list organizations: %w", err)
	}
	defer rows.Close()

	var orgs []storage.Organization
	for rows.Next() {
		org, err := scanOrganization(rows)
		if err != nil {
			return nil, fmt.Errorf("list organizations: %w", err)
		}
		orgs = append(orgs, org)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list organizations: %w", err)
	}
	return orgs, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanOrganization(row rowScanner) (storage.Organization, error) {
	var org storage.Organization
	var kind string
	var createdAt int64
	err := row.Scan(&org.ID, &kind, &org.Name, &org.Slug, &org.Status, &createdAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return storage.Organization{}, storage.ErrNotFound
		}
		return storage.Organization{}, err
	}
	org.Kind = storage.OrgKind(kind)
	org.CreatedAt = fromMillis(createdAt)
	return org, nil
}
