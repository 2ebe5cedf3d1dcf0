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

const requestColumns = `br.id, br.funeral_org_id, br.cemetery_org_id, br.cemetery_site_id,
	br.deceased_full_name, br.date_of_death, br.requested_plot_type_id, br.requested_date,
	br.status, br.assigned_plot_id, br.assigned_space_id, br.notes, br.created_at,
	fo.name, co.name, cs.name`

const requestJoins = `FROM burial_requests br
	JOIN organizations fo ON fo.id = br.funeral_org_id
	JOIN organizations co ON co.id = br.cemetery_org_id
	JOIN cemetery_sites cs ON cs.id = br.cemetery_site_id`

// CreateBurialRequest inserts one PENDING request from a funeral organization
// to a cemetery site.
func (s *Store) CreateBurialRequest(ctx context.Context, funeralOrgID int64, request storage.NewBurialRequest) (storage.BurialRequest, error) {
	if err := ctx.Err(); err != nil {
		return storage.BurialRequest{}, err
	}
	if err := s.ready(); err != nil {
		return storage.BurialRequest{}, err
	}
	fullName := strings.TrimSpace(request.DeceasedFullName)
	if fullName == "" {
		return storage.BurialRequest{}, fmt.Errorf("deceased full name is required")
	}

	// The target organization must exist, be a CEMENTERIO, and own the
	// site; each failure reads differently to the caller.
	var orgKind string
	row := s.sqlDB.QueryRowContext(
		ctx,
		`SELECT kind FROM organizations WHERE id = ?`,
		request.CemeteryOrgID,
	)
	if err := row.Scan(&orgKind); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return storage.BurialRequest{}, storage.ErrOrgNotFound
		}
		return storage.BurialRequest{}, fmt.Errorf("create burial request: %w", err)
	}
	if orgKind != string(storage.OrgKindCemetery) {
		return storage.BurialRequest{}, storage.ErrWrongOrgKind
	}

	var checkID int64
	row = s.sqlDB.QueryRowContext(
		ctx,
		`SELECT id FROM cemetery_sites WHERE id = ? AND organization_id = ?`,
		request.CemeterySiteID,
		request.CemeteryOrgID,
	)
	if err := row.Scan(&checkID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return storage.BurialRequest{}, storage.ErrNotFound
		}
		return storage.BurialRequest{}, fmt.Errorf("create burial request: %w", err)
	}

	now := toMillis(time.Now())
	result, err := s.sqlDB.ExecContext(
		ctx,
		`INSERT INTO burial_requests (
		   funeral_org_id, cemetery_org_id, cemetery_site_id,
		   deceased_full_name, date_of_death, requested_plot_type_id,
		   requested_date, status, notes, created_at, updated_at
		 ) VALUES (?, ?, ?, ?, ?, ?, ?, 'PENDING', ?, ?, ?)`,
		funeralOrgID,
		request.CemeteryOrgID,
		request.CemeterySiteID,
		fullName,
		request.DateOfDeath,
		toNullInt(request.RequestedPlotTypeID),
		request.RequestedDate,
		request.Notes,
		now,
		now,
	)
	if err != nil {
		return storage.BurialRequest{}, fmt.Errorf("create burial request: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return storage.BurialRequest{}, fmt.Errorf("create burial request: %w", err)
	}

	return s.getBurialRequest(ctx, id)
}

// ListBurialRequestsForFuneralOrg returns the funeral organization's
// requests, newest first.
func (s *Store) ListBurialRequestsForFuneralOrg(ctx context.Context, funeralOrgID int64) ([]storage.BurialRequest, error) {
	return s.listBurialRequests(
		ctx,
		`WHERE br.funeral_org_id = ?`,
		funeralOrgID,
	)
}

// ListBurialRequestsForCemeteryOrg returns the cemetery organization's
// incoming requests, newest first, optionally narrowed to one site.
func (s *Store) ListBurialRequestsForCemeteryOrg(ctx context.Context, cemeteryOrgID int64, siteID *int64) ([]storage.BurialRequest, error) {
	if siteID != nil {
		return s.listBurialRequests(
			ctx,
			`WHERE br.cemetery_org_id = ? AND br.cemetery_site_id = ?`,
			cemeteryOrgID,
			*siteID,
		)
	}
	return s.listBurialRequests(
		ctx,
		`WHERE br.cemetery_org_id = ?`,
		cemeteryOrgID,
	)
}

// SetBurialRequestStatus moves a request owned by the cemetery organization to
// APPROVED or REJECTED. A non-nil reason replaces the request notes.
func (s *Store) SetBurialRequestStatus(ctx context.Context, cemeteryOrgID, requestID int64, status storage.RequestStatus, reason *string) (storage.BurialRequest, error) {
	if err := ctx.Err(); err != nil {
		return storage.BurialRequest{}, err
	}
	if err := s.ready(); err != nil {
		return storage.BurialRequest{}, err
	}
	if status != storage.RequestApproved && status != storage.RequestRejected {
		return storage.BurialRequest{}, fmt.Errorf("request status %q is not a reviewable outcome", status)
	}

	now := toMillis(time.Now())
	var result sql.Result
	var err error
	if reason != nil {
		result, err = s.sqlDB.ExecContext(
			ctx,
			`UPDATE burial_requests SET status = ?, notes = ?, updated_at = ?
			  WHERE id = ? AND cemetery_org_id = ?`,
			string(status),
			*reason,
			now,
			requestID,
			cemeteryOrgID,
		)
	} else {
		result, err = s.sqlDB.ExecContext(
			ctx,
			`UPDATE burial_requests SET status = ?, updated_at = ?
			  WHERE id = ? AND cemetery_org_id = ?`,
			string(status),
			now,
			requestID,
			cemeteryOrgID,
		)
	}
	if err != nil {
		return storage.BurialRequest{}, fmt.Errorf("set burial request status: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return storage.BurialRequest{}, fmt.Errorf("set burial request status: %w", err)
	}
	if affected == 0 {
		return storage.BurialRequest{}, storage.ErrNotFound
	}
	return s.getBurialRequest(ctx, requestID)
}

// AssignPlot allocates a concrete plot and space to a request in one
// transaction. Ownership, site, plot ancestry and space state are verified in
// order; any failure rolls the whole allocation back.
func (s *Store) AssignPlot(ctx context.Context, cemeteryOrgID, siteID, requestID, plotID, spaceID int64) (storage.BurialRequest, error) {
	tx, err := s.beginTx(ctx)
	if err != nil {
		return storage.BurialRequest{}, err
	}
	defer tx.Rollback()

	var requestSiteID int64
	row := tx.QueryRowContext(
		ctx,
		`SELECT cemetery_site_id FROM burial_requests
		  WHERE id = ? AND cemetery_org_id = ?`,
		requestID,
		cemeteryOrgID,
	)
	if err := row.Scan(&requestSiteID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return storage.BurialRequest{}, storage.ErrNotFound
		}
		return storage.BurialRequest{}, fmt.Errorf("assign plot: %w", err)
	}
	if requestSiteID != siteID {
		return storage.BurialRequest{}, storage.ErrSiteMismatch
	}

	var checkID int64
	row = tx.QueryRowContext(
		ctx,
		`SELECT p.id
		   FROM cemetery_plots p
		   JOIN cemetery_subsectors sub ON sub.id = p.subsector_id
		   JOIN cemetery_sectors sec ON sec.id = sub.sector_id
		   JOIN cemetery_areas a ON a.id = sec.area_id
		  WHERE p.id = ? AND a.site_id = ?`,
		plotID,
		siteID,
	)
	if err := row.Scan(&checkID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return storage.BurialRequest{}, storage.ErrPlotNotFound
		}
		return storage.BurialRequest{}, fmt.Errorf("assign plot: %w", err)
	}

	if err := claimSpace(ctx, tx, siteID, spaceID, &plotID); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return storage.BurialRequest{}, storage.ErrSpaceNotFound
		}
		return storage.BurialRequest{}, err
	}

	if _, err := tx.ExecContext(
		ctx,
		`UPDATE burial_requests
		    SET status = 'ASSIGNED', assigned_plot_id = ?, assigned_space_id = ?, updated_at = ?
		  WHERE id = ?`,
		plotID,
		spaceID,
		toMillis(time.Now()),
		requestID,
	); err != nil {
		return storage.BurialRequest{}, fmt.Errorf("assign plot: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return storage.BurialRequest{}, fmt.Errorf("assign plot: %w", err)
	}
	return s.getBurialRequest(ctx, requestID)
}

func (s *Store) listBurialRequests(ctx context.Context, where string, params ...any) ([]storage.BurialRequest, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := s.ready(); err != nil {
		return nil, err
	}

	rows, err := s.sqlDB.QueryContext(
		ctx,
		`SELECT `+requestColumns+` `+requestJoins+` `+where+`
		  ORDER BY br.created_at DESC, br.id DESC`,
		params...,
	)
	if err != nil {
		return nil, fmt.Errorf("list burial requests: %w", err)
	}
	defer rows.Close()

	var requests []storage.BurialRequest
	for rows.Next() {
		request, err := scanBurialRequest(rows)
		if err != nil {
			return nil, fmt.Errorf("list burial requests: %w", err)
		}
		requests = append(requests, request)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list burial requests: %w", err)
	}
	return requests, nil
}

func (s *Store) getBurialRequest(ctx context.Context, requestID int64) (storage.BurialRequest, error) {
	row := s.sqlDB.QueryRowContext(
		ctx,
		`SELECT `+requestColumns+` `+requestJoins+`
		  WHERE br.id = ?`,
		requestID,
	)
	request, err := scanBurialRequest(row)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return storage.BurialRequest{}, storage.ErrNotFound
		}
		return storage.BurialRequest{}, fmt.Errorf("get burial request: %w", err)
	}
	return request, nil
}

func scanBurialRequest(row rowScanner) (storage.BurialRequest, error) {
	var request storage.BurialRequest
	var dateOfDeath, requestedDate, notes sql.NullString
	var requestedPlotTypeID, assignedPlotID, assignedSpaceID sql.NullInt64
	var status string
	var createdAt int64
	err := row.Scan(
		&request.ID,
		&request.FuneralOrgID,
		&request.CemeteryOrgID,
		&request.CemeterySiteID,
		&request.DeceasedFullName,
		&dateOfDeath,
		&requestedPlotTypeID,
		&requestedDate,
		&status,
		&assignedPlotID,
		&assignedSpaceID,
		&notes,
		&createdAt,
		&request.FuneralName,
		&request.CemeteryName,
		&request.CemeterySiteName,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return storage.BurialRequest{}, storage.ErrNotFound
		}
		return storage.BurialRequest{}, err
	}
	request.DateOfDeath = dateOfDeath.String
	request.RequestedDate = requestedDate.String
	request.Notes = notes.String
	request.Status = storage.RequestStatus(status)
	request.RequestedPlotTypeID = fromNullInt(requestedPlotTypeID)
	request.AssignedPlotID = fromNullInt(assignedPlotID)
	request.AssignedSpaceID = fromNullInt(assignedSpaceID)
	request.CreatedAt = fromMillis(createdAt)
	return request, nil
}

func toNullInt(value *int64) sql.NullInt64 {
	if value == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: *value, Valid: true}
}

func fromNullInt(value sql.NullInt64) *int64 {
	if !value.Valid {
		return nil
	}
	v := value.Int64
	return &v
}
