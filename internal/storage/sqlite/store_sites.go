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

const siteColumns = `id, organization_id, code, name, description, region, comuna,
	address, latitude, longitude, status, created_at`

// CreateSite inserts one cemetery site for the owning organization.
func (s *Store) CreateSite(ctx context.Context, site storage.Site) (storage.Site, error) {
	if err := ctx.Err(); err != nil {
		return storage.Site{}, err
	}
	if err := s.ready(); err != nil {
		return storage.Site{}, err
	}
	name := strings.TrimSpace(site.Name)
	if name == "" {
		return storage.Site{}, fmt.Errorf("site name is required")
	}
	if site.OrganizationID <= 0 {
		return storage.Site{}, fmt.Errorf("organization id is required")
	}
	status := strings.TrimSpace(site.Status)
	if status == "" {
		status = "ACTIVE"
	}
	createdAt := site.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	result, err := s.sqlDB.ExecContext(
		ctx,
		`INSERT INTO cemetery_sites (
		   organization_id, code, name, description, region, comuna,
		   address, latitude, longitude, status, created_at
		 ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		site.OrganizationID,
		strings.TrimSpace(site.Code),
		name,
		site.Description,
		site.Region,
		site.Comuna,
		site.Address,
		toNullFloat(site.Latitude),
		toNullFloat(site.Longitude),
		status,
		toMillis(createdAt),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return storage.Site{}, storage.ErrAlreadyExists
		}
		return storage.Site{}, fmt.Errorf("create site: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return storage.Site{}, fmt.Errorf("create site: %w", err)
	}

	site.ID = id
	site.Name = name
	site.Code = strings.TrimSpace(site.Code)
	site.Status = status
	site.CreatedAt = createdAt.UTC()
	return site, nil
}

// GetSiteForOrganization returns one site owned by the organization. A site
// owned by another organization reads as missing.
func (s *Store) GetSiteForOrganization(ctx context.Context, orgID, siteID int64) (storage.Site, error) {
	if err := ctx.Err(); err != nil {
		return storage.Site{}, err
	}
	if err := s.ready(); err != nil {
		return storage.Site{}, err
	}

	row := s.sqlDB.QueryRowContext(
		ctx,
		`SELECT `+siteColumns+`
		   FROM cemetery_sites
		  WHERE id = ? AND organization_id = ?`,
		siteID,
		orgID,
	)
	return scanSite(row)
}

// ListSitesByOrganization returns the organization's sites, oldest first.
func (s *Store) ListSitesByOrganization(ctx context.Context, orgID int64) ([]storage.Site, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := s.ready(); err != nil {
		return nil, err
	}

	rows, err := s.sqlDB.QueryContext(
		ctx,
		`SELECT `+siteColumns+`
		   FROM cemetery_sites
		  WHERE organization_id = ?
		  ORDER BY id ASC`,
		orgID,
	)
	if err != nil {
		return nil, fmt.Errorf("list sites: %w", err)
	}
	defer rows.Close()

	var sites []storage.Site
	for rows.Next() {
		site, err := scanSite(rows)
		if err != nil {
			return nil, fmt.Errorf("list sites: %w", err)
		}
		sites = append(sites, site)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list sites: %w", err)
	}
	return sites, nil
}

// UpdateSite applies the non-nil patch fields to one owned site and returns
// the updated row.
func (s *Store) UpdateSite(ctx context.Context, orgID, siteID int64, patch storage.SitePatch) (storage.Site, error) {
	if err := ctx.Err(); err != nil {
		return storage.Site{}, err
	}
	if err := s.ready(); err != nil {
		return storage.Site{}, err
	}

	var assignments []string
	var params []any
	appendSet := func(column string, value any) {
		assignments = append(assignments, column+" = ?")
		params = append(params, value)
	}
	if patch.Code != nil {
		appendSet("code", strings.TrimSpace(*patch.Code))
	}
	if patch.Name != nil {
		name := strings.TrimSpace(*patch.Name)
		if name == "" {
			return storage.Site{}, fmt.Errorf("site name is required")
		}
		appendSet("name", name)
	}
	if patch.Description != nil {
		appendSet("description", *patch.Description)
	}
	if patch.Region != nil {
		appendSet("region", *patch.Region)
	}
	if patch.Comuna != nil {
		appendSet("comuna", *patch.Comuna)
	}
	if patch.Address != nil {
		appendSet("address", *patch.Address)
	}
	if patch.Latitude != nil {
		appendSet("latitude", *patch.Latitude)
	}
	if patch.Longitude != nil {
		appendSet("longitude", *patch.Longitude)
	}
	if patch.Status != nil {
		appendSet("status", strings.TrimSpace(*patch.Status))
	}
	if len(assignments) == 0 {
		return s.GetSiteForOrganization(ctx, orgID, siteID)
	}

	params = append(params, siteID, orgID)
	result, err := s.sqlDB.ExecContext(
		ctx,
		`UPDATE cemetery_sites SET `+strings.Join(assignments, ", ")+`
		  WHERE id = ? AND organization_id = ?`,
		params...,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return storage.Site{}, storage.ErrAlreadyExists
		}
		return storage.Site{}, fmt.Errorf("update site: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return storage.Site{}, fmt.Errorf("update site: %w", err)
	}
	if affected == 0 {
		return storage.Site{}, storage.ErrNotFound
	}
	return s.GetSiteForOrganization(ctx, orgID, siteID)
}

func scanSite(row rowScanner) (storage.Site, error) {
	var site storage.Site
	var description, region, comuna, address, code sql.NullString
	var latitude, longitude sql.NullFloat64
	var createdAt int64
	err := row.Scan(
		&site.ID,
		&site.OrganizationID,
		&code,
		&site.Name,
		&description,
		&region,
		&comuna,
		&address,
		&latitude,
		&longitude,
		&site.Status,
		&createdAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return storage.Site{}, storage.ErrNotFound
		}
		return storage.Site{}, err
	}
	site.Code = code.String
	site.Description = description.String
	site.Region = region.String
	site.Comuna = comuna.String
	site.Address = address.String
	if latitude.Valid {
		site.Latitude = &latitude.Float64
	}
	if longitude.Valid {
		site.Longitude = &longitude.Float64
	}
	site.CreatedAt = fromMillis(createdAt)
	return site, nil
}

func toNullFloat(value *float64) sql.NullFloat64 {
	if value == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *value, Valid: true}
}
