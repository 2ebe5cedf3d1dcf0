package sqlite

import (
	"context"
	"fmt"

	"github.com/camposanto/camposanto/internal/storage"
)

// GetSiteDashboard returns the per-site structural counts and space
// histogram in one round trip per aggregate.
func (s *Store) GetSiteDashboard(ctx context.Context, siteID int64) (storage.DashboardCounts, error) {
	if err := ctx.Err(); err != nil {
		return storage.DashboardCounts{}, err
	}
	if err := s.ready(); err != nil {
		return storage.DashboardCounts{}, err
	}

	var counts storage.DashboardCounts
	row := s.sqlDB.QueryRowContext(
		ctx,
		`SELECT
		   (SELECT COUNT(*) FROM cemetery_areas a WHERE a.site_id = ?),
		   (SELECT COUNT(*) FROM cemetery_sectors sec
		      JOIN cemetery_areas a ON a.id = sec.area_id
		     WHERE a.site_id = ?),
		   (SELECT COUNT(*) FROM cemetery_subsectors sub
		      JOIN cemetery_sectors sec ON sec.id = sub.sector_id
		      JOIN cemetery_areas a ON a.id = sec.area_id
		     WHERE a.site_id = ?),
		   (SELECT COUNT(*) FROM cemetery_plots p
		      JOIN cemetery_subsectors sub ON sub.id = p.subsector_id
		      JOIN cemetery_sectors sec ON sec.id = sub.sector_id
		      JOIN cemetery_areas a ON a.id = sec.area_id
		     WHERE a.site_id = ?)`,
		siteID,
		siteID,
		siteID,
		siteID,
	)
	if err := row.Scan(&counts.Areas, &counts.Sectors, &counts.Subsectors, &counts.Plots); err != nil {
		return storage.DashboardCounts{}, fmt.Errorf("site dashboard: %w", err)
	}

	rows, err := s.sqlDB.QueryContext(
		ctx,
		`SELECT sp.status, COUNT(*)
		   FROM cemetery_spaces sp
		   JOIN cemetery_plots p ON p.id = sp.plot_id
		   JOIN cemetery_subsectors sub ON sub.id = p.subsector_id
		   JOIN cemetery_sectors sec ON sec.id = sub.sector_id
		   JOIN cemetery_areas a ON a.id = sec.area_id
		  WHERE a.site_id = ?
		  GROUP BY sp.status`,
		siteID,
	)
	if err != nil {
		return storage.DashboardCounts{}, fmt.Errorf("site dashboard: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var status string
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return storage.DashboardCounts{}, fmt.Errorf("site dashboard: %w", err)
		}
		switch storage.SpaceStatus(status) {
		case storage.SpaceAvailable:
			counts.Spaces.Available = count
		case storage.SpaceReserved:
			counts.Spaces.Reserved = count
		case storage.SpaceOccupied:
			counts.Spaces.Occupied = count
		case storage.SpaceLocked:
			counts.Spaces.Locked = count
		}
	}
	if err := rows.Err(); err != nil {
		return storage.DashboardCounts{}, fmt.Errorf("site dashboard: %w", err)
	}
	return counts, nil
}
