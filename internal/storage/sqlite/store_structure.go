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

// Hierarchy queries always scope by the caller's site. A sector or subsector
// reached through a different site's containment chain reads as missing.

// ListAreas returns the site's areas, oldest first.
func (s *Store) ListAreas(ctx context.Context, siteID int64) ([]storage.Area, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := s.ready(); err != nil {
		return nil, err
	}

	rows, err := s.sqlDB.QueryContext(
		ctx,
		`SELECT id, site_id, code, name, description, is_active, created_at
		   FROM cemetery_areas
		  WHERE site_id = ?
		  ORDER BY id ASC`,
		siteID,
	)
	if err != nil {
		return nil, fmt.Errorf("list areas: %w", err)
	}
	defer rows.Close()

	var areas []storage.Area
	for rows.Next() {
		area, err := scanArea(rows)
		if err != nil {
			return nil, fmt.Errorf("list areas: %w", err)
		}
		areas = append(areas, area)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list areas: %w", err)
	}
	return areas, nil
}

// CreateArea inserts one area under the site.
func (s *Store) CreateArea(ctx context.Context, siteID int64, area storage.Area) (storage.Area, error) {
	if err := ctx.Err(); err != nil {
		return storage.Area{}, err
	}
	if err := s.ready(); err != nil {
		return storage.Area{}, err
	}
	name := strings.TrimSpace(area.Name)
	if name == "" {
		return storage.Area{}, fmt.Errorf("area name is required")
	}

	result, err := s.sqlDB.ExecContext(
		ctx,
		`INSERT INTO cemetery_areas (site_id, code, name, description, is_active, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		siteID,
		nullIfEmpty(area.Code),
		name,
		area.Description,
		boolToInt(area.IsActive),
		toMillis(time.Now()),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return storage.Area{}, storage.ErrAlreadyExists
		}
		return storage.Area{}, fmt.Errorf("create area: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return storage.Area{}, fmt.Errorf("create area: %w", err)
	}

	return s.getArea(ctx, siteID, id)
}

// UpdateArea applies the non-nil patch fields to one area in the site.
func (s *Store) UpdateArea(ctx context.Context, siteID, areaID int64, patch storage.NodePatch) (storage.Area, error) {
	if err := ctx.Err(); err != nil {
		return storage.Area{}, err
	}
	if err := s.ready(); err != nil {
		return storage.Area{}, err
	}
	if patch.Empty() {
		return s.getArea(ctx, siteID, areaID)
	}
	assignments, params, err := nodePatchAssignments(patch)
	if err != nil {
		return storage.Area{}, err
	}

	params = append(params, areaID, siteID)
	result, err := s.sqlDB.ExecContext(
		ctx,
		`UPDATE cemetery_areas SET `+assignments+`
		  WHERE id = ? AND site_id = ?`,
		params...,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return storage.Area{}, storage.ErrAlreadyExists
		}
		return storage.Area{}, fmt.Errorf("update area: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return storage.Area{}, fmt.Errorf("update area: %w", err)
	}
	if affected == 0 {
		return storage.Area{}, storage.ErrNotFound
	}
	return s.getArea(ctx, siteID, areaID)
}

// DeleteArea removes one area in the site along with its contained rows.
func (s *Store) DeleteArea(ctx context.Context, siteID, areaID int64) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := s.ready(); err != nil {
		return err
	}

	result, err := s.sqlDB.ExecContext(
		ctx,
		`DELETE FROM cemetery_areas WHERE id = ? AND site_id = ?`,
		areaID,
		siteID,
	)
	if err != nil {
		return fmt.Errorf("delete area: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete area: %w", err)
	}
	if affected == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// ListSectors returns the area's sectors after verifying the area belongs to
// the site.
func (s *Store) ListSectors(ctx context.Context, siteID, areaID int64) ([]storage.Sector, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := s.ready(); err != nil {
		return nil, err
	}
	if _, err := s.getArea(ctx, siteID, areaID); err != nil {
		return nil, err
	}

	rows, err := s.sqlDB.QueryContext(
		ctx,
		`SELECT id, area_id, code, name, description, is_active, created_at
		   FROM cemetery_sectors
		  WHERE area_id = ?
		  ORDER BY id ASC`,
		areaID,
	)
	if err != nil {
		return nil, fmt.Errorf("list sectors: %w", err)
	}
	defer rows.Close()

	var sectors []storage.Sector
	for rows.Next() {
		sector, err := scanSector(rows)
		if err != nil {
			return nil, fmt.Errorf("list sectors: %w", err)
		}
		sectors = append(sectors, sector)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list sectors: %w", err)
	}
	return sectors, nil
}

// CreateSector inserts one sector under an area of the site.
func (s *Store) CreateSector(ctx context.Context, siteID, areaID int64, sector storage.Sector) (storage.Sector, error) {
	if err := ctx.Err(); err != nil {
		return storage.Sector{}, err
	}
	if err := s.ready(); err != nil {
		return storage.Sector{}, err
	}
	name := strings.TrimSpace(sector.Name)
	if name == "" {
		return storage.Sector{}, fmt.Errorf("sector name is required")
	}
	if _, err := s.getArea(ctx, siteID, areaID); err != nil {
		return storage.Sector{}, err
	}

	result, err := s.sqlDB.ExecContext(
		ctx,
		`INSERT INTO cemetery_sectors (area_id, code, name, description, is_active, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		areaID,
		nullIfEmpty(sector.Code),
		name,
		sector.Description,
		boolToInt(sector.IsActive),
		toMillis(time.Now()),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return storage.Sector{}, storage.ErrAlreadyExists
		}
		return storage.Sector{}, fmt.Errorf("create sector: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return storage.Sector{}, fmt.Errorf("create sector: %w", err)
	}

	return s.getSector(ctx, siteID, id)
}

// UpdateSector applies the non-nil patch fields to one sector in the site.
func (s *Store) UpdateSector(ctx context.Context, siteID, sectorID int64, patch storage.NodePatch) (storage.Sector, error) {
	if err := ctx.Err(); err != nil {
		return storage.Sector{}, err
	}
	if err := s.ready(); err != nil {
		return storage.Sector{}, err
	}
	if patch.Empty() {
		return s.getSector(ctx, siteID, sectorID)
	}
	assignments, params, err := nodePatchAssignments(patch)
	if err != nil {
		return storage.Sector{}, err
	}

	params = append(params, sectorID, siteID)
	result, err := s.sqlDB.ExecContext(
		ctx,
		`UPDATE cemetery_sectors SET `+assignments+`
		  WHERE id = ?
		    AND area_id IN (SELECT id FROM cemetery_areas WHERE site_id = ?)`,
		params...,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return storage.Sector{}, storage.ErrAlreadyExists
		}
		return storage.Sector{}, fmt.Errorf("update sector: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return storage.Sector{}, fmt.Errorf("update sector: %w", err)
	}
	if affected == 0 {
		return storage.Sector{}, storage.ErrNotFound
	}
	return s.getSector(ctx, siteID, sectorID)
}

// DeleteSector removes one sector in the site along with its contained rows.
func (s *Store) DeleteSector(ctx context.Context, siteID, sectorID int64) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := s.ready(); err != nil {
		return err
	}

	result, err := s.sqlDB.ExecContext(
		ctx,
		`DELETE FROM cemetery_sectors
		  WHERE id = ?
		    AND area_id IN (SELECT id FROM cemetery_areas WHERE site_id = ?)`,
		sectorID,
		siteID,
	)
	if err != nil {
		return fmt.Errorf("delete sector: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete sector: %w", err)
	}
	if affected == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// ListSubsectors returns the sector's subsectors after verifying the sector
// belongs to the site.
func (s *Store) ListSubsectors(ctx context.Context, siteID, sectorID int64) ([]storage.Subsector, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := s.ready(); err != nil {
		return nil, err
	}
	if _, err := s.getSector(ctx, siteID, sectorID); err != nil {
		return nil, err
	}

	rows, err := s.sqlDB.QueryContext(
		ctx,
		`SELECT id, sector_id, code, name, description, is_active, created_at
		   FROM cemetery_subsectors
		  WHERE sector_id = ?
		  ORDER BY id ASC`,
		sectorID,
	)
	if err != nil {
		return nil, fmt.Errorf("list subsectors: %w", err)
	}
	defer rows.Close()

	var subsectors []storage.Subsector
	for rows.Next() {
		subsector, err := scanSubsector(rows)
		if err != nil {
			return nil, fmt.Errorf("list subsectors: %w", err)
		}
		subsectors = append(subsectors, subsector)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list subsectors: %w", err)
	}
	return subsectors, nil
}

// CreateSubsector inserts one subsector under a sector of the site.
func (s *Store) CreateSubsector(ctx context.Context, siteID, sectorID int64, subsector storage.Subsector) (storage.Subsector, error) {
	if err := ctx.Err(); err != nil {
		return storage.Subsector{}, err
	}
	if err := s.ready(); err != nil {
		return storage.Subsector{}, err
	}
	name := strings.TrimSpace(subsector.Name)
	if name == "" {
		return storage.Subsector{}, fmt.Errorf("subsector name is required")
	}
	if _, err := s.getSector(ctx, siteID, sectorID); err != nil {
		return storage.Subsector{}, err
	}

	result, err := s.sqlDB.ExecContext(
		ctx,
		`INSERT INTO cemetery_subsectors (sector_id, code, name, description, is_active, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		sectorID,
		nullIfEmpty(subsector.Code),
		name,
		subsector.Description,
		boolToInt(subsector.IsActive),
		toMillis(time.Now()),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return storage.Subsector{}, storage.ErrAlreadyExists
		}
		return storage.Subsector{}, fmt.Errorf("create subsector: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return storage.Subsector{}, fmt.Errorf("create subsector: %w", err)
	}

	return s.getSubsector(ctx, siteID, id)
}

// UpdateSubsector applies the non-nil patch fields to one subsector in the
// site.
func (s *Store) UpdateSubsector(ctx context.Context, siteID, subsectorID int64, patch storage.NodePatch) (storage.Subsector, error) {
	if err := ctx.Err(); err != nil {
		return storage.Subsector{}, err
	}
	if err := s.ready(); err != nil {
		return storage.Subsector{}, err
	}
	if patch.Empty() {
		return s.getSubsector(ctx, siteID, subsectorID)
	}
	assignments, params, err := nodePatchAssignments(patch)
	if err != nil {
		return storage.Subsector{}, err
	}

	params = append(params, subsectorID, siteID)
	result, err := s.sqlDB.ExecContext(
		ctx,
		`UPDATE cemetery_subsectors SET `+assignments+`
		  WHERE id = ?
		    AND sector_id IN (
		      SELECT sec.id FROM cemetery_sectors sec
		      JOIN cemetery_areas a ON a.id = sec.area_id
		      WHERE a.site_id = ?
		    )`,
		params...,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return storage.Subsector{}, storage.ErrAlreadyExists
		}
		return storage.Subsector{}, fmt.Errorf("update subsector: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return storage.Subsector{}, fmt.Errorf("update subsector: %w", err)
	}
	if affected == 0 {
		return storage.Subsector{}, storage.ErrNotFound
	}
	return s.getSubsector(ctx, siteID, subsectorID)
}

// DeleteSubsector removes one subsector in the site along with its contained
// rows.
func (s *Store) DeleteSubsector(ctx context.Context, siteID, subsectorID int64) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := s.ready(); err != nil {
		return err
	}

	result, err := s.sqlDB.ExecContext(
		ctx,
		`DELETE FROM cemetery_subsectors
		  WHERE id = ?
		    AND sector_id IN (
		      SELECT sec.id FROM cemetery_sectors sec
		      JOIN cemetery_areas a ON a.id = sec.area_id
		      WHERE a.site_id = ?
		    )`,
		subsectorID,
		siteID,
	)
	if err != nil {
		return fmt.Errorf("delete subsector: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete subsector: %w", err)
	}
	if affected == 0 {
		return storage.ErrNotFound
	}
	return nil
}

func (s *Store) getArea(ctx context.Context, siteID, areaID int64) (storage.Area, error) {
	row := s.sqlDB.QueryRowContext(
		ctx,
		`SELECT id, site_id, code, name, description, is_active, created_at
		   FROM cemetery_areas
		  WHERE id = ? AND site_id = ?`,
		areaID,
		siteID,
	)
	area, err := scanArea(row)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return storage.Area{}, storage.ErrNotFound
		}
		return storage.Area{}, fmt.Errorf("get area: %w", err)
	}
	return area, nil
}

func (s *Store) getSector(ctx context.Context, siteID, sectorID int64) (storage.Sector, error) {
	row := s.sqlDB.QueryRowContext(
		ctx,
		`SELECT sec.id, sec.area_id, sec.code, sec.name, sec.description, sec.is_active, sec.created_at
		   FROM cemetery_sectors sec
		   JOIN cemetery_areas a ON a.id = sec.area_id
		  WHERE sec.id = ? AND a.site_id = ?`,
		sectorID,
		siteID,
	)
	sector, err := scanSector(row)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return storage.Sector{}, storage.ErrNotFound
		}
		return storage.Sector{}, fmt.Errorf("get sector: %w", err)
	}
	return sector, nil
}

func (s *Store) getSubsector(ctx context.Context, siteID, subsectorID int64) (storage.Subsector, error) {
	row := s.sqlDB.QueryRowContext(
		ctx,
		`SELECT sub.id, sub.sector_id, sub.code, sub.name, sub.description, sub.is_active, sub.created_at
		   FROM cemetery_subsectors sub
		   JOIN cemetery_sectors sec ON sec.id = sub.sector_id
		   JOIN cemetery_areas a ON a.id = sec.area_id
		  WHERE sub.id = ? AND a.site_id = ?`,
		subsectorID,
		siteID,
	)
	subsector, err := scanSubsector(row)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return storage.Subsector{}, storage.ErrNotFound
		}
		return storage.Subsector{}, fmt.Errorf("get subsector: %w", err)
	}
	return subsector, nil
}

func scanArea(row rowScanner) (storage.Area, error) {
	var area storage.Area
	var code, description sql.NullString
	var isActive int
	var createdAt int64
	err := row.Scan(&area.ID, &area.SiteID, &code, &area.Name, &description, &isActive, &createdAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return storage.Area{}, storage.ErrNotFound
		}
		return storage.Area{}, err
	}
	area.Code = code.String
	area.Description = description.String
	area.IsActive = isActive != 0
	area.CreatedAt = fromMillis(createdAt)
	return area, nil
}

func scanSector(row rowScanner) (storage.Sector, error) {
	var sector storage.Sector
	var code, description sql.NullString
	var isActive int
	var createdAt int64
	err := row.Scan(&sector.ID, &sector.AreaID, &code, &sector.Name, &description, &isActive, &createdAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return storage.Sector{}, storage.ErrNotFound
		}
		return storage.Sector{}, err
	}
	sector.Code = code.String
	sector.Description = description.String
	sector.IsActive = isActive != 0
	sector.CreatedAt = fromMillis(createdAt)
	return sector, nil
}

func scanSubsector(row rowScanner) (storage.Subsector, error) {
	var subsector storage.Subsector
	var code, description sql.NullString
	var isActive int
	var createdAt int64
	err := row.Scan(&subsector.ID, &subsector.SectorID, &code, &subsector.Name, &description, &isActive, &createdAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return storage.Subsector{}, storage.ErrNotFound
		}
		return storage.Subsector{}, err
	}
	subsector.Code = code.String
	subsector.Description = description.String
	subsector.IsActive = isActive != 0
	subsector.CreatedAt = fromMillis(createdAt)
	return subsector, nil
}

// nodePatchAssignments translates a NodePatch into a SET clause and params.
func nodePatchAssignments(patch storage.NodePatch) (string, []any, error) {
	var assignments []string
	var params []any
	if patch.Code != nil {
		assignments = append(assignments, "code = ?")
		params = append(params, nullIfEmpty(*patch.Code))
	}
	if patch.Name != nil {
		name := strings.TrimSpace(*patch.Name)
		if name == "" {
			return "", nil, fmt.Errorf("name is required")
		}
		assignments = append(assignments, "name = ?")
		params = append(params, name)
	}
	if patch.Description != nil {
		assignments = append(assignments, "description = ?")
		params = append(params, *patch.Description)
	}
	if patch.IsActive != nil {
		assignments = append(assignments, "is_active = ?")
		params = append(params, boolToInt(*patch.IsActive))
	}
	return strings.Join(assignments, ", "), params, nil
}

func nullIfEmpty(value string) any {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil
	}
	return value
}
