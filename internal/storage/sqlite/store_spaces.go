package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/camposanto/camposanto/internal/storage"
)

// querier abstracts *sql.DB and *sql.Tx so ancestry helpers run both inside
// and outside transactions.
type querier interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// ListSpaces returns the plot's spaces ordered by position after verifying
// the plot belongs to the site.
func (s *Store) ListSpaces(ctx context.Context, siteID, plotID int64) ([]storage.Space, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := s.ready(); err != nil {
		return nil, err
	}
	if _, err := s.getPlot(ctx, siteID, plotID); err != nil {
		return nil, err
	}

	rows, err := s.sqlDB.QueryContext(
		ctx,
		`SELECT id, plot_id, position, status, notes, created_at
		   FROM cemetery_spaces
		  WHERE plot_id = ?
		  ORDER BY position ASC`,
		plotID,
	)
	if err != nil {
		return nil, fmt.Errorf("list spaces: %w", err)
	}
	defer rows.Close()

	var spaces []storage.Space
	for rows.Next() {
		space, err := scanSpace(rows)
		if err != nil {
			return nil, fmt.Errorf("list spaces: %w", err)
		}
		spaces = append(spaces, space)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list spaces: %w", err)
	}
	return spaces, nil
}

// GetSpaceInSite resolves a space under the site's containment tree,
// optionally constrained to one plot.
func (s *Store) GetSpaceInSite(ctx context.Context, siteID, spaceID int64, plotID *int64) (storage.Space, error) {
	if err := ctx.Err(); err != nil {
		return storage.Space{}, err
	}
	if err := s.ready(); err != nil {
		return storage.Space{}, err
	}
	return getSpaceInSite(ctx, s.sqlDB, siteID, spaceID, plotID)
}

// UpdateSpaceStatus applies a status (and, when non-nil, notes) to a space
// after the ancestry check. Transition rules live in the higher-level flows;
// this is the administrative override path.
func (s *Store) UpdateSpaceStatus(ctx context.Context, siteID, spaceID int64, status storage.SpaceStatus, notes *string) (storage.Space, error) {
	if err := ctx.Err(); err != nil {
		return storage.Space{}, err
	}
	if err := s.ready(); err != nil {
		return storage.Space{}, err
	}
	if !status.Valid() {
		return storage.Space{}, fmt.Errorf("space status %q is not valid", status)
	}
	if _, err := getSpaceInSite(ctx, s.sqlDB, siteID, spaceID, nil); err != nil {
		return storage.Space{}, err
	}

	if err := setSpaceStatus(ctx, s.sqlDB, spaceID, status, notes); err != nil {
		return storage.Space{}, err
	}
	return getSpaceInSite(ctx, s.sqlDB, siteID, spaceID, nil)
}

// getSpaceInSite re-verifies the full containment chain before returning the
// space. A space outside the site reads as missing.
func getSpaceInSite(ctx context.Context, q querier, siteID, spaceID int64, plotID *int64) (storage.Space, error) {
	query := `SELECT sp.id, sp.plot_id, sp.position, sp.status, sp.notes, sp.created_at
	   FROM cemetery_spaces sp
	   JOIN cemetery_plots p ON p.id = sp.plot_id
	   JOIN cemetery_subsectors sub ON sub.id = p.subsector_id
	   JOIN cemetery_sectors sec ON sec.id = sub.sector_id
	   JOIN cemetery_areas a ON a.id = sec.area_id
	  WHERE sp.id = ? AND a.site_id = ?`
	params := []any{spaceID, siteID}
	if plotID != nil {
		query += ` AND sp.plot_id = ?`
		params = append(params, *plotID)
	}

	space, err := scanSpace(q.QueryRowContext(ctx, query, params...))
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return storage.Space{}, storage.ErrNotFound
		}
		return storage.Space{}, fmt.Errorf("get space: %w", err)
	}
	return space, nil
}

// setSpaceStatus writes the space status, leaving notes untouched when nil.
func setSpaceStatus(ctx context.Context, q querier, spaceID int64, status storage.SpaceStatus, notes *string) error {
	var err error
	if notes != nil {
		_, err = q.ExecContext(
			ctx,
			`UPDATE cemetery_spaces SET status = ?, notes = ? WHERE id = ?`,
			string(status),
			*notes,
			spaceID,
		)
	} else {
		_, err = q.ExecContext(
			ctx,
			`UPDATE cemetery_spaces SET status = ? WHERE id = ?`,
			string(status),
			spaceID,
		)
	}
	if err != nil {
		return fmt.Errorf("set space status: %w", err)
	}
	return nil
}

// claimSpace flips an AVAILABLE or RESERVED space to OCCUPIED, surfacing the
// per-status conflict errors for anything else.
func claimSpace(ctx context.Context, q querier, siteID, spaceID int64, plotID *int64) error {
	space, err := getSpaceInSite(ctx, q, siteID, spaceID, plotID)
	if err != nil {
		return err
	}
	switch space.Status {
	case storage.SpaceOccupied:
		return storage.ErrSpaceOccupied
	case storage.SpaceLocked:
		return storage.ErrSpaceLocked
	}
	return setSpaceStatus(ctx, q, spaceID, storage.SpaceOccupied, nil)
}

// releaseSpace returns a space to AVAILABLE. Releasing an already free space
// is a no-op.
func releaseSpace(ctx context.Context, q querier, spaceID int64) error {
	return setSpaceStatus(ctx, q, spaceID, storage.SpaceAvailable, nil)
}

func scanSpace(row rowScanner) (storage.Space, error) {
	var space storage.Space
	var status string
	var notes sql.NullString
	var createdAt int64
	err := row.Scan(&space.ID, &space.PlotID, &space.Position, &status, &notes, &createdAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return storage.Space{}, storage.ErrNotFound
		}
		return storage.Space{}, err
	}
	space.Status = storage.SpaceStatus(status)
	space.Notes = notes.String
	space.CreatedAt = fromMillis(createdAt)
	return space, nil
}
