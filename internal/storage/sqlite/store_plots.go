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

const plotColumns = `p.id, p.subsector_id, p.plot_type_id, pt.code, pt.name,
	p.code, p.row_label, p.column_label, p.capacity_spaces, p.is_active, p.notes, p.created_at`

// ListPlotTypes returns the plot type catalog.
func (s *Store) ListPlotTypes(ctx context.Context) ([]storage.PlotType, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := s.ready(); err != nil {
		return nil, err
	}

	rows, err := s.sqlDB.QueryContext(
		ctx,
		`SELECT id, code, name, default_capacity_spaces, description, created_at
		   FROM cemetery_plot_types
		  ORDER BY id ASC`,
	)
	if err != nil {
		return nil, fmt.Errorf("list plot types: %w", err)
	}
	defer rows.Close()

	var plotTypes []storage.PlotType
	for rows.Next() {
		var plotType storage.PlotType
		var description sql.NullString
		var createdAt int64
		if err := rows.Scan(
			&plotType.ID,
			&plotType.Code,
			&plotType.Name,
			&plotType.DefaultCapacitySpaces,
			&description,
			&createdAt,
		); err != nil {
			return nil, fmt.Errorf("list plot types: %w", err)
		}
		plotType.Description = description.String
		plotType.CreatedAt = fromMillis(createdAt)
		plotTypes = append(plotTypes, plotType)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list plot types: %w", err)
	}
	return plotTypes, nil
}

// EnsurePlotType inserts the plot type if its code is new, otherwise returns
// the existing catalog entry unchanged.
func (s *Store) EnsurePlotType(ctx context.Context, plotType storage.PlotType) (storage.PlotType, error) {
	if err := ctx.Err(); err != nil {
		return storage.PlotType{}, err
	}
	if err := s.ready(); err != nil {
		return storage.PlotType{}, err
	}
	code := strings.TrimSpace(plotType.Code)
	name := strings.TrimSpace(plotType.Name)
	if code == "" {
		return storage.PlotType{}, fmt.Errorf("plot type code is required")
	}
	if name == "" {
		return storage.PlotType{}, fmt.Errorf("plot type name is required")
	}
	if plotType.DefaultCapacitySpaces <= 0 {
		plotType.DefaultCapacitySpaces = 1
	}

	_, err := s.sqlDB.ExecContext(
		ctx,
		`INSERT INTO cemetery_plot_types (code, name, default_capacity_spaces, description, created_at)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(code) DO NOTHING`,
		code,
		name,
		plotType.DefaultCapacitySpaces,
		plotType.Description,
		toMillis(time.Now()),
	)
	if err != nil {
		return storage.PlotType{}, fmt.Errorf("ensure plot type: %w", err)
	}

	row := s.sqlDB.QueryRowContext(
		ctx,
		`SELECT id, code, name, default_capacity_spaces, description, created_at
		   FROM cemetery_plot_types
		  WHERE code = ?`,
		code,
	)
	var stored storage.PlotType
	var description sql.NullString
	var createdAt int64
	if err := row.Scan(
		&stored.ID,
		&stored.Code,
		&stored.Name,
		&stored.DefaultCapacitySpaces,
		&description,
		&createdAt,
	); err != nil {
		return storage.PlotType{}, fmt.Errorf("ensure plot type: %w", err)
	}
	stored.Description = description.String
	stored.CreatedAt = fromMillis(createdAt)
	return stored, nil
}

// CreatePlot inserts the plot and one AVAILABLE space per position up to
// capacity in a single transaction. A non-positive capacity falls back to the
// plot type's default. The subsector must belong to the site and the plot
// type must exist; either check failing aborts the whole insert.
func (s *Store) CreatePlot(ctx context.Context, siteID, subsectorID int64, plot storage.NewPlot) (storage.Plot, error) {
	code := strings.TrimSpace(plot.Code)
	if code == "" {
		return storage.Plot{}, fmt.Errorf("plot code is required")
	}

	tx, err := s.beginTx(ctx)
	if err != nil {
		return storage.Plot{}, err
	}
	defer tx.Rollback()

	if _, err := s.getSubsector(ctx, siteID, subsectorID); err != nil {
		return storage.Plot{}, err
	}

	var plotTypeID int64
	var defaultCapacity int
	row := tx.QueryRowContext(
		ctx,
		`SELECT id, default_capacity_spaces FROM cemetery_plot_types WHERE id = ?`,
		plot.PlotTypeID,
	)
	if err := row.Scan(&plotTypeID, &defaultCapacity); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return storage.Plot{}, storage.ErrPlotTypeNotFound
		}
		return storage.Plot{}, fmt.Errorf("create plot: %w", err)
	}

	capacity := plot.CapacitySpaces
	if capacity <= 0 {
		capacity = defaultCapacity
	}
	if capacity < 1 {
		capacity = 1
	}

	now := toMillis(time.Now())
	result, err := tx.ExecContext(
		ctx,
		`INSERT INTO cemetery_plots (
		   subsector_id, plot_type_id, code, row_label, column_label,
		   capacity_spaces, is_active, notes, created_at
		 ) VALUES (?, ?, ?, ?, ?, ?, 1, ?, ?)`,
		subsectorID,
		plotTypeID,
		code,
		plot.RowLabel,
		plot.ColumnLabel,
		capacity,
		plot.Notes,
		now,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return storage.Plot{}, storage.ErrAlreadyExists
		}
		return storage.Plot{}, fmt.Errorf("create plot: %w", err)
	}
	plotID, err := result.LastInsertId()
	if err != nil {
		return storage.Plot{}, fmt.Errorf("create plot: %w", err)
	}

	for position := 1; position <= capacity; position++ {
		if _, err := tx.ExecContext(
			ctx,
			`INSERT INTO cemetery_spaces (plot_id, position, status, created_at)
			 VALUES (?, ?, 'AVAILABLE', ?)`,
			plotID,
			position,
			now,
		); err != nil {
			return storage.Plot{}, fmt.Errorf("create plot spaces: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return storage.Plot{}, fmt.Errorf("create plot: %w", err)
	}
	return s.getPlot(ctx, siteID, plotID)
}

// ListPlots returns the subsector's plots after verifying it belongs to the
// site.
func (s *Store) ListPlots(ctx context.Context, siteID, subsectorID int64) ([]storage.Plot, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := s.ready(); err != nil {
		return nil, err
	}
	if _, err := s.getSubsector(ctx, siteID, subsectorID); err != nil {
		return nil, err
	}

	rows, err := s.sqlDB.QueryContext(
		ctx,
		`SELECT `+plotColumns+`
		   FROM cemetery_plots p
		   JOIN cemetery_plot_types pt ON pt.id = p.plot_type_id
		  WHERE p.subsector_id = ?
		  ORDER BY p.code ASC, p.id ASC`,
		subsectorID,
	)
	if err != nil {
		return nil, fmt.Errorf("list plots: %w", err)
	}
	defer rows.Close()

	var plots []storage.Plot
	for rows.Next() {
		plot, err := scanPlot(rows)
		if err != nil {
			return nil, fmt.Errorf("list plots: %w", err)
		}
		plots = append(plots, plot)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list plots: %w", err)
	}
	return plots, nil
}

// DeletePlot removes one plot in the site along with its spaces.
func (s *Store) DeletePlot(ctx context.Context, siteID, plotID int64) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := s.ready(); err != nil {
		return err
	}

	result, err := s.sqlDB.ExecContext(
		ctx,
		`DELETE FROM cemetery_plots
		  WHERE id = ?
		    AND subsector_id IN (
		      SELECT sub.id FROM cemetery_subsectors sub
		      JOIN cemetery_sectors sec ON sec.id = sub.sector_id
		      JOIN cemetery_areas a ON a.id = sec.area_id
		      WHERE a.site_id = ?
		    )`,
		plotID,
		siteID,
	)
	if err != nil {
		return fmt.Errorf("delete plot: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete plot: %w", err)
	}
	if affected == 0 {
		return storage.ErrNotFound
	}
	return nil
}

func (s *Store) getPlot(ctx context.Context, siteID, plotID int64) (storage.Plot, error) {
	row := s.sqlDB.QueryRowContext(
		ctx,
		`SELECT `+plotColumns+`
		   FROM cemetery_plots p
		   JOIN cemetery_plot_types pt ON pt.id = p.plot_type_id
		   JOIN cemetery_subsectors sub ON sub.id = p.subsector_id
		   JOIN cemetery_sectors sec ON sec.id = sub.sector_id
		   JOIN cemetery_areas a ON a.id = sec.area_id
		  WHERE p.id = ? AND a.site_id = ?`,
		plotID,
		siteID,
	)
	plot, err := scanPlot(row)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return storage.Plot{}, storage.ErrNotFound
		}
		return storage.Plot{}, fmt.Errorf("get plot: %w", err)
	}
	return plot, nil
}

func scanPlot(row rowScanner) (storage.Plot, error) {
	var plot storage.Plot
	var rowLabel, columnLabel, notes sql.NullString
	var isActive int
	var createdAt int64
	err := row.Scan(
		&plot.ID,
		&plot.SubsectorID,
		&plot.PlotTypeID,
		&plot.PlotTypeCode,
		&plot.PlotTypeName,
		&plot.Code,
		&rowLabel,
		&columnLabel,
		&plot.CapacitySpaces,
		&isActive,
		&notes,
		&createdAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return storage.Plot{}, storage.ErrNotFound
		}
		return storage.Plot{}, err
	}
	plot.RowLabel = rowLabel.String
	plot.ColumnLabel = columnLabel.String
	plot.Notes = notes.String
	plot.IsActive = isActive != 0
	plot.CreatedAt = fromMillis(createdAt)
	return plot, nil
}
