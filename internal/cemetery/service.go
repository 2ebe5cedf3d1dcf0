// Package cemetery manages the spatial inventory of one cemetery site: the
// area/sector/subsector hierarchy, plots, spaces and the occupancy dashboard.
package cemetery

import (
	"context"
	stderrors "errors"
	"strings"

	"github.com/camposanto/camposanto/internal/platform/errors"
	"github.com/camposanto/camposanto/internal/storage"
)

// Store is the persistence surface the cemetery service depends on.
type Store interface {
	storage.StructureStore
	storage.PlotStore
	storage.SpaceStore
	storage.DashboardStore
}

// Service exposes spatial inventory management. Every operation is scoped to
// the caller's active site.
type Service struct {
	store Store
}

// NewService wires a cemetery service over the given store.
func NewService(store Store) *Service {
	return &Service{store: store}
}

// NewNode carries the caller-supplied fields for hierarchy node creation.
type NewNode struct {
	Code        string
	Name        string
	Description string
}

// ListAreas returns the site's areas.
func (s *Service) ListAreas(ctx context.Context, siteID int64) ([]storage.Area, error) {
	areas, err := s.store.ListAreas(ctx, siteID)
	if err != nil {
		return nil, errors.Wrap(errors.CodeInternalError, "list areas", err)
	}
	return areas, nil
}

// CreateArea adds one area to the site.
func (s *Service) CreateArea(ctx context.Context, siteID int64, input NewNode) (storage.Area, error) {
	if strings.TrimSpace(input.Name) == "" {
		return storage.Area{}, errors.New(errors.CodeAreaNameRequired, "area name is required")
	}
	area, err := s.store.CreateArea(ctx, siteID, storage.Area{
		Code:        input.Code,
		Name:        input.Name,
		Description: input.Description,
		IsActive:    true,
	})
	if err != nil {
		if stderrors.Is(err, storage.ErrAlreadyExists) {
			return storage.Area{}, errors.WithMetadata(errors.CodeDuplicateCode, "area code already in use", map[string]string{"code": input.Code})
		}
		return storage.Area{}, errors.Wrap(errors.CodeInternalError, "create area", err)
	}
	return area, nil
}

// UpdateArea applies a partial update to one area.
func (s *Service) UpdateArea(ctx context.Context, siteID, areaID int64, patch storage.NodePatch) (storage.Area, error) {
	if patchBlanksName(patch) {
		return storage.Area{}, errors.New(errors.CodeAreaNameRequired, "area name is required")
	}
	area, err := s.store.UpdateArea(ctx, siteID, areaID, patch)
	if err != nil {
		return storage.Area{}, mapNodeError(err, errors.CodeAreaNotFound, "area")
	}
	return area, nil
}

// DeleteArea removes one area and everything beneath it.
func (s *Service) DeleteArea(ctx context.Context, siteID, areaID int64) error {
	if err := s.store.DeleteArea(ctx, siteID, areaID); err != nil {
		return mapNodeError(err, errors.CodeAreaNotFound, "area")
	}
	return nil
}

// ListSectors returns the sectors of one area in the site.
func (s *Service) ListSectors(ctx context.Context, siteID, areaID int64) ([]storage.Sector, error) {
	sectors, err := s.store.ListSectors(ctx, siteID, areaID)
	if err != nil {
		return nil, mapNodeError(err, errors.CodeAreaNotFound, "area")
	}
	return sectors, nil
}

// CreateSector adds one sector under an area.
func (s *Service) CreateSector(ctx context.Context, siteID, areaID int64, input NewNode) (storage.Sector, error) {
	if strings.TrimSpace(input.Name) == "" {
		return storage.Sector{}, errors.New(errors.CodeSectorNameRequired, "sector name is required")
	}
	sector, err := s.store.CreateSector(ctx, siteID, areaID, storage.Sector{
		Code:        input.Code,
		Name:        input.Name,
		Description: input.Description,
		IsActive:    true,
	})
	if err != nil {
		if stderrors.Is(err, storage.ErrNotFound) {
			return storage.Sector{}, errors.New(errors.CodeAreaNotFound, "area not found")
		}
		if stderrors.Is(err, storage.ErrAlreadyExists) {
			return storage.Sector{}, errors.WithMetadata(errors.CodeDuplicateCode, "sector code already in use", map[string]string{"code": input.Code})
		}
		return storage.Sector{}, errors.Wrap(errors.CodeInternalError, "create sector", err)
	}
	return sector, nil
}

// UpdateSector applies a partial update to one sector.
func (s *Service) UpdateSector(ctx context.Context, siteID, sectorID int64, patch storage.NodePatch) (storage.Sector, error) {
	if patchBlanksName(patch) {
		return storage.Sector{}, errors.New(errors.CodeSectorNameRequired, "sector name is required")
	}
	sector, err := s.store.UpdateSector(ctx, siteID, sectorID, patch)
	if err != nil {
		return storage.Sector{}, mapNodeError(err, errors.CodeSectorNotFound, "sector")
	}
	return sector, nil
}

// DeleteSector removes one sector and everything beneath it.
func (s *Service) DeleteSector(ctx context.Context, siteID, sectorID int64) error {
	if err := s.store.DeleteSector(ctx, siteID, sectorID); err != nil {
		return mapNodeError(err, errors.CodeSectorNotFound, "sector")
	}
	return nil
}

// ListSubsectors returns the subsectors of one sector in the site.
func (s *Service) ListSubsectors(ctx context.Context, siteID, sectorID int64) ([]storage.Subsector, error) {
	subsectors, err := s.store.ListSubsectors(ctx, siteID, sectorID)
	if err != nil {
		return nil, mapNodeError(err, errors.CodeSectorNotFound, "sector")
	}
	return subsectors, nil
}

// CreateSubsector adds one subsector under a sector.
func (s *Service) CreateSubsector(ctx context.Context, siteID, sectorID int64, input NewNode) (storage.Subsector, error) {
	if strings.TrimSpace(input.Name) == "" {
		return storage.Subsector{}, errors.New(errors.CodeSubsectorNameRequired, "subsector name is required")
	}
	subsector, err := s.store.CreateSubsector(ctx, siteID, sectorID, storage.Subsector{
		Code:        input.Code,
		Name:        input.Name,
		Description: input.Description,
		IsActive:    true,
	})
	if err != nil {
		if stderrors.Is(err, storage.ErrNotFound) {
			return storage.Subsector{}, errors.New(errors.CodeSectorNotFound, "sector not found")
		}
		if stderrors.Is(err, storage.ErrAlreadyExists) {
			return storage.Subsector{}, errors.WithMetadata(errors.CodeDuplicateCode, "subsector code already in use", map[string]string{"code": input.Code})
		}
		return storage.Subsector{}, errors.Wrap(errors.CodeInternalError, "create subsector", err)
	}
	return subsector, nil
}

// UpdateSubsector applies a partial update to one subsector.
func (s *Service) UpdateSubsector(ctx context.Context, siteID, subsectorID int64, patch storage.NodePatch) (storage.Subsector, error) {
	if patchBlanksName(patch) {
		return storage.Subsector{}, errors.New(errors.CodeSubsectorNameRequired, "subsector name is required")
	}
	subsector, err := s.store.UpdateSubsector(ctx, siteID, subsectorID, patch)
	if err != nil {
		return storage.Subsector{}, mapNodeError(err, errors.CodeSubsectorNotFound, "subsector")
	}
	return subsector, nil
}

// DeleteSubsector removes one subsector and everything beneath it.
func (s *Service) DeleteSubsector(ctx context.Context, siteID, subsectorID int64) error {
	if err := s.store.DeleteSubsector(ctx, siteID, subsectorID); err != nil {
		return mapNodeError(err, errors.CodeSubsectorNotFound, "subsector")
	}
	return nil
}

// ListPlotTypes returns the plot type catalog.
func (s *Service) ListPlotTypes(ctx context.Context) ([]storage.PlotType, error) {
	plotTypes, err := s.store.ListPlotTypes(ctx)
	if err != nil {
		return nil, errors.Wrap(errors.CodeInternalError, "list plot types", err)
	}
	return plotTypes, nil
}

// CreatePlot adds one plot with its full set of spaces to a subsector of the
// site. An omitted capacity falls back to the plot type's default.
func (s *Service) CreatePlot(ctx context.Context, siteID, subsectorID int64, input storage.NewPlot) (storage.Plot, error) {
	if input.PlotTypeID <= 0 || strings.TrimSpace(input.Code) == "" {
		return storage.Plot{}, errors.New(errors.CodePlotTypeCodeRequired, "plot type and code are required")
	}
	plot, err := s.store.CreatePlot(ctx, siteID, subsectorID, input)
	if err != nil {
		switch {
		case stderrors.Is(err, storage.ErrPlotTypeNotFound):
			return storage.Plot{}, errors.New(errors.CodePlotTypeNotFound, "plot type not found")
		case stderrors.Is(err, storage.ErrNotFound):
			return storage.Plot{}, errors.New(errors.CodeSubsectorNotFound, "subsector not found")
		case stderrors.Is(err, storage.ErrAlreadyExists):
			return storage.Plot{}, errors.WithMetadata(errors.CodeDuplicateCode, "plot code already in use", map[string]string{"code": input.Code})
		}
		return storage.Plot{}, errors.Wrap(errors.CodeInternalError, "create plot", err)
	}
	return plot, nil
}

// ListPlots returns the plots of one subsector in the site.
func (s *Service) ListPlots(ctx context.Context, siteID, subsectorID int64) ([]storage.Plot, error) {
	plots, err := s.store.ListPlots(ctx, siteID, subsectorID)
	if err != nil {
		return nil, mapNodeError(err, errors.CodeSubsectorNotFound, "subsector")
	}
	return plots, nil
}

// DeletePlot removes one plot and its spaces.
func (s *Service) DeletePlot(ctx context.Context, siteID, plotID int64) error {
	if err := s.store.DeletePlot(ctx, siteID, plotID); err != nil {
		return mapNodeError(err, errors.CodePlotNotFound, "plot")
	}
	return nil
}

// ListSpaces returns the spaces of one plot in the site.
func (s *Service) ListSpaces(ctx context.Context, siteID, plotID int64) ([]storage.Space, error) {
	spaces, err := s.store.ListSpaces(ctx, siteID, plotID)
	if err != nil {
		return nil, mapNodeError(err, errors.CodePlotNotFound, "plot")
	}
	return spaces, nil
}

// GetSpace returns one space in the site.
func (s *Service) GetSpace(ctx context.Context, siteID, spaceID int64) (storage.Space, error) {
	space, err := s.store.GetSpaceInSite(ctx, siteID, spaceID, nil)
	if err != nil {
		return storage.Space{}, mapNodeError(err, errors.CodeSpaceNotFound, "space")
	}
	return space, nil
}

// SetSpaceStatus applies an administrative status override to one space.
// Claim and release rules for burials live in the workflow services; this
// path lets site staff reserve, lock or free spaces directly.
func (s *Service) SetSpaceStatus(ctx context.Context, siteID, spaceID int64, status string, notes *string) (storage.Space, error) {
	next := storage.SpaceStatus(strings.ToUpper(strings.TrimSpace(status)))
	if !next.Valid() {
		return storage.Space{}, errors.WithMetadata(errors.CodeInvalidStatus, "space status is not valid", map[string]string{"status": status})
	}
	space, err := s.store.UpdateSpaceStatus(ctx, siteID, spaceID, next, notes)
	if err != nil {
		return storage.Space{}, mapNodeError(err, errors.CodeSpaceNotFound, "space")
	}
	return space, nil
}

// Dashboard returns the read-only occupancy rollup for the site.
func (s *Service) Dashboard(ctx context.Context, siteID int64) (storage.DashboardCounts, error) {
	counts, err := s.store.GetSiteDashboard(ctx, siteID)
	if err != nil {
		return storage.DashboardCounts{}, errors.Wrap(errors.CodeInternalError, "site dashboard", err)
	}
	return counts, nil
}

// patchBlanksName reports whether a patch would blank out the node name.
func patchBlanksName(patch storage.NodePatch) bool {
	return patch.Name != nil && strings.TrimSpace(*patch.Name) == ""
}

func mapNodeError(err error, notFound errors.Code, noun string) error {
	if stderrors.Is(err, storage.ErrNotFound) {
		return errors.New(notFound, noun+" not found")
	}
	if stderrors.Is(err, storage.ErrAlreadyExists) {
		return errors.New(errors.CodeDuplicateCode, noun+" code already in use")
	}
	return errors.Wrap(errors.CodeInternalError, noun+" operation", err)
}
