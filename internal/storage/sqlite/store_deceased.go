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

const deceasedColumns = `d.id, d.full_name, d.rut, d.date_of_birth, d.date_of_death,
	d.notes, d.plot_id, d.space_id, cs.organization_id, d.cemetery_site_id, d.created_at,
	p.code, sp.status, sp.position, a.name, sec.name, sub.name`

const deceasedJoins = `FROM deceased_records d
	JOIN cemetery_sites cs ON cs.id = d.cemetery_site_id
	JOIN cemetery_plots p ON p.id = d.plot_id
	JOIN cemetery_subsectors sub ON sub.id = p.subsector_id
	JOIN cemetery_sectors sec ON sec.id = sub.sector_id
	JOIN cemetery_areas a ON a.id = sec.area_id
	LEFT JOIN cemetery_spaces sp ON sp.id = d.space_id`

// CreateDeceasedRecord inserts the record and, when it references a space,
// claims that space in the same transaction.
func (s *Store) CreateDeceasedRecord(ctx context.Context, orgID, siteID int64, record storage.NewDeceasedRecord) (storage.DeceasedRecord, error) {
	fullName := strings.TrimSpace(record.FullName)
	if fullName == "" {
		return storage.DeceasedRecord{}, fmt.Errorf("full name is required")
	}

	tx, err := s.beginTx(ctx)
	if err != nil {
		return storage.DeceasedRecord{}, err
	}
	defer tx.Rollback()

	if err := siteOwnedBy(ctx, tx, orgID, siteID); err != nil {
		return storage.DeceasedRecord{}, err
	}

	var checkID int64
	row := tx.QueryRowContext(
		ctx,
		`SELECT p.id
		   FROM cemetery_plots p
		   JOIN cemetery_subsectors sub ON sub.id = p.subsector_id
		   JOIN cemetery_sectors sec ON sec.id = sub.sector_id
		   JOIN cemetery_areas a ON a.id = sec.area_id
		  WHERE p.id = ? AND a.site_id = ?`,
		record.PlotID,
		siteID,
	)
	if err := row.Scan(&checkID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return storage.DeceasedRecord{}, storage.ErrPlotNotFound
		}
		return storage.DeceasedRecord{}, fmt.Errorf("create deceased record: %w", err)
	}

	if record.SpaceID != nil {
		if err := claimSpace(ctx, tx, siteID, *record.SpaceID, &record.PlotID); err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				return storage.DeceasedRecord{}, storage.ErrSpaceNotFound
			}
			return storage.DeceasedRecord{}, err
		}
	}

	result, err := tx.ExecContext(
		ctx,
		`INSERT INTO deceased_records (
		   cemetery_site_id, plot_id, space_id, full_name, rut,
		   date_of_birth, date_of_death, notes, created_at
		 ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		siteID,
		record.PlotID,
		toNullInt(record.SpaceID),
		fullName,
		record.RUT,
		record.DateOfBirth,
		record.DateOfDeath,
		record.Notes,
		toMillis(time.Now()),
	)
	if err != nil {
		return storage.DeceasedRecord{}, fmt.Errorf("create deceased record: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return storage.DeceasedRecord{}, fmt.Errorf("create deceased record: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return storage.DeceasedRecord{}, fmt.Errorf("create deceased record: %w", err)
	}
	return s.GetDeceasedRecord(ctx, orgID, siteID, id)
}

// ListDeceasedRecords returns the site's records, newest first, optionally
// narrowed by a pre-translated filter condition.
func (s *Store) ListDeceasedRecords(ctx context.Context, orgID, siteID int64, cond storage.DeceasedCondition) ([]storage.DeceasedRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := s.ready(); err != nil {
		return nil, err
	}
	if err := siteOwnedBy(ctx, s.sqlDB, orgID, siteID); err != nil {
		return nil, err
	}

	query := `SELECT ` + deceasedColumns + ` ` + deceasedJoins + `
	  WHERE d.cemetery_site_id = ?`
	params := []any{siteID}
	if strings.TrimSpace(cond.Clause) != "" {
		query += ` AND (` + cond.Clause + `)`
		params = append(params, cond.Params...)
	}
	query += ` ORDER BY d.date_of_death DESC, d.id DESC`

	rows, err := s.sqlDB.QueryContext(ctx, query, params...)
	if err != nil {
		return nil, fmt.Errorf("list deceased records: %w", err)
	}
	defer rows.Close()

	var records []storage.DeceasedRecord
	for rows.Next() {
		record, err := scanDeceasedRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("list deceased records: %w", err)
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list deceased records: %w", err)
	}
	return records, nil
}

// GetDeceasedRecord returns one record scoped to the owning organization and
// site.
func (s *Store) GetDeceasedRecord(ctx context.Context, orgID, siteID, recordID int64) (storage.DeceasedRecord, error) {
	if err := ctx.Err(); err != nil {
		return storage.DeceasedRecord{}, err
	}
	if err := s.ready(); err != nil {
		return storage.DeceasedRecord{}, err
	}

	row := s.sqlDB.QueryRowContext(
		ctx,
		`SELECT `+deceasedColumns+` `+deceasedJoins+`
		  WHERE d.id = ? AND d.cemetery_site_id = ? AND cs.organization_id = ?`,
		recordID,
		siteID,
		orgID,
	)
	record, err := scanDeceasedRecord(row)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return storage.DeceasedRecord{}, storage.ErrNotFound
		}
		return storage.DeceasedRecord{}, fmt.Errorf("get deceased record: %w", err)
	}
	return record, nil
}

// DeleteDeceasedRecord removes the record and releases its claimed space back
// to AVAILABLE in the same transaction.
func (s *Store) DeleteDeceasedRecord(ctx context.Context, orgID, siteID, recordID int64) error {
	tx, err := s.beginTx(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var spaceID sql.NullInt64
	row := tx.QueryRowContext(
		ctx,
		`SELECT d.space_id
		   FROM deceased_records d
		   JOIN cemetery_sites cs ON cs.id = d.cemetery_site_id
		  WHERE d.id = ? AND d.cemetery_site_id = ? AND cs.organization_id = ?`,
		recordID,
		siteID,
		orgID,
	)
	if err := row.Scan(&spaceID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return storage.ErrNotFound
		}
		return fmt.Errorf("delete deceased record: %w", err)
	}

	if _, err := tx.ExecContext(
		ctx,
		`DELETE FROM deceased_records WHERE id = ?`,
		recordID,
	); err != nil {
		return fmt.Errorf("delete deceased record: %w", err)
	}
	if spaceID.Valid {
		if err := releaseSpace(ctx, tx, spaceID.Int64); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("delete deceased record: %w", err)
	}
	return nil
}

// SearchDeceasedPublic matches records by name or RUT across all sites. Terms
// shorter than two characters return no matches.
func (s *Store) SearchDeceasedPublic(ctx context.Context, term string, limit int) ([]storage.DeceasedMatch, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := s.ready(); err != nil {
		return nil, err
	}
	term = strings.TrimSpace(term)
	if len(term) < 2 {
		return []storage.DeceasedMatch{}, nil
	}
	if limit <= 0 {
		limit = 50
	}

	pattern := "%" + term + "%"
	rows, err := s.sqlDB.QueryContext(
		ctx,
		`SELECT d.id, d.full_name, d.date_of_death,
		        o.name, cs.name, a.name, sec.name, sub.name, p.code
		   FROM deceased_records d
		   JOIN cemetery_sites cs ON cs.id = d.cemetery_site_id
		   JOIN organizations o ON o.id = cs.organization_id
		   JOIN cemetery_plots p ON p.id = d.plot_id
		   JOIN cemetery_subsectors sub ON sub.id = p.subsector_id
		   JOIN cemetery_sectors sec ON sec.id = sub.sector_id
		   JOIN cemetery_areas a ON a.id = sec.area_id
		  WHERE d.full_name LIKE ? OR d.rut LIKE ?
		  ORDER BY d.date_of_death DESC, d.full_name ASC
		  LIMIT ?`,
		pattern,
		pattern,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("search deceased: %w", err)
	}
	defer rows.Close()

	matches := make([]storage.DeceasedMatch, 0, limit)
	for rows.Next() {
		var match storage.DeceasedMatch
		var dateOfDeath sql.NullString
		if err := rows.Scan(
			&match.ID,
			&match.FullName,
			&dateOfDeath,
			&match.CemeteryName,
			&match.SiteName,
			&match.AreaName,
			&match.SectorName,
			&match.SubsectorName,
			&match.PlotCode,
		); err != nil {
			return nil, fmt.Errorf("search deceased: %w", err)
		}
		match.DateOfDeath = dateOfDeath.String
		matches = append(matches, match)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("search deceased: %w", err)
	}
	return matches, nil
}

// siteOwnedBy verifies the site belongs to the organization.
func siteOwnedBy(ctx context.Context, q querier, orgID, siteID int64) error {
	var checkID int64
	row := q.QueryRowContext(
		ctx,
		`SELECT id FROM cemetery_sites WHERE id = ? AND organization_id = ?`,
		siteID,
		orgID,
	)
	if err := row.Scan(&checkID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return storage.ErrNotFound
		}
		return fmt.Errorf("check site ownership: %w", err)
	}
	return nil
}

func scanDeceasedRecord(row rowScanner) (storage.DeceasedRecord, error) {
	var record storage.DeceasedRecord
	var rut, dateOfBirth, dateOfDeath, notes sql.NullString
	var spaceID sql.NullInt64
	var spaceStatus sql.NullString
	var spacePosition sql.NullInt64
	var createdAt int64
	err := row.Scan(
		&record.ID,
		&record.FullName,
		&rut,
		&dateOfBirth,
		&dateOfDeath,
		&notes,
		&record.PlotID,
		&spaceID,
		&record.OrganizationID,
		&record.SiteID,
		&createdAt,
		&record.PlotCode,
		&spaceStatus,
		&spacePosition,
		&record.AreaName,
		&record.SectorName,
		&record.SubsectorName,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return storage.DeceasedRecord{}, storage.ErrNotFound
		}
		return storage.DeceasedRecord{}, err
	}
	record.RUT = rut.String
	record.DateOfBirth = dateOfBirth.String
	record.DateOfDeath = dateOfDeath.String
	record.Notes = notes.String
	record.SpaceID = fromNullInt(spaceID)
	record.SpaceStatus = storage.SpaceStatus(spaceStatus.String)
	record.SpacePosition = int(spacePosition.Int64)
	record.CreatedAt = fromMillis(createdAt)
	return record, nil
}
