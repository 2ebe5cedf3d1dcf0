package cemetery

import (
	"context"
	"testing"

	"github.com/camposanto/camposanto/internal/platform/errors"
	"github.com/camposanto/camposanto/internal/storage"
)

func TestCreateAreaRequiresName(t *testing.T) {
	t.Parallel()

	service := NewService(&fakeStore{})
	_, err := service.CreateArea(context.Background(), 1, NewNode{Code: "A1"})
	if got := errors.GetCode(err); got != errors.CodeAreaNameRequired {
		t.Fatalf("code = %q, want %q", got, errors.CodeAreaNameRequired)
	}
}

func TestCreateAreaMapsDuplicateCode(t *testing.T) {
	t.Parallel()

	service := NewService(&fakeStore{createAreaErr: storage.ErrAlreadyExists})
	_, err := service.CreateArea(context.Background(), 1, NewNode{Code: "A1", Name: "Jardín"})
	if got := errors.GetCode(err); got != errors.CodeDuplicateCode {
		t.Fatalf("code = %q, want %q", got, errors.CodeDuplicateCode)
	}
}

func TestCreateSectorMapsMissingArea(t *testing.T) {
	t.Parallel()

	service := NewService(&fakeStore{createSectorErr: storage.ErrNotFound})
	_, err := service.CreateSector(context.Background(), 1, 9, NewNode{Name: "Sector"})
	if got := errors.GetCode(err); got != errors.CodeAreaNotFound {
		t.Fatalf("code = %q, want %q", got, errors.CodeAreaNotFound)
	}
}

func TestUpdateAreaMapsMissing(t *testing.T) {
	t.Parallel()

	service := NewService(&fakeStore{updateAreaErr: storage.ErrNotFound})
	name := "Renombrado"
	_, err := service.UpdateArea(context.Background(), 1, 2, storage.NodePatch{Name: &name})
	if got := errors.GetCode(err); got != errors.CodeAreaNotFound {
		t.Fatalf("code = %q, want %q", got, errors.CodeAreaNotFound)
	}
}

func TestUpdateNodeRejectsBlankName(t *testing.T) {
	t.Parallel()

	service := NewService(&fakeStore{})
	blank := "  "

	if _, err := service.UpdateArea(context.Background(), 1, 2, storage.NodePatch{Name: &blank}); errors.GetCode(err) != errors.CodeAreaNameRequired {
		t.Fatalf("area code = %q, want %q", errors.GetCode(err), errors.CodeAreaNameRequired)
	}
	if _, err := service.UpdateSector(context.Background(), 1, 2, storage.NodePatch{Name: &blank}); errors.GetCode(err) != errors.CodeSectorNameRequired {
		t.Fatalf("sector code = %q, want %q", errors.GetCode(err), errors.CodeSectorNameRequired)
	}
	if _, err := service.UpdateSubsector(context.Background(), 1, 2, storage.NodePatch{Name: &blank}); errors.GetCode(err) != errors.CodeSubsectorNameRequired {
		t.Fatalf("subsector code = %q, want %q", errors.GetCode(err), errors.CodeSubsectorNameRequired)
	}
}

func TestCreatePlotValidatesTypeAndCode(t *testing.T) {
	t.Parallel()

	service := NewService(&fakeStore{})
	testCases := []struct {
		name  string
		input storage.NewPlot
	}{
		{name: "missing type", input: storage.NewPlot{Code: "A-1"}},
		{name: "missing code", input: storage.NewPlot{PlotTypeID: 1}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			_, err := service.CreatePlot(context.Background(), 1, 2, tc.input)
			if got := errors.GetCode(err); got != errors.CodePlotTypeCodeRequired {
				t.Fatalf("code = %q, want %q", got, errors.CodePlotTypeCodeRequired)
			}
		})
	}
}

func TestCreatePlotForwardsOmittedCapacity(t *testing.T) {
	t.Parallel()

	store := &fakeStore{}
	service := NewService(store)
	if _, err := service.CreatePlot(context.Background(), 1, 2, storage.NewPlot{PlotTypeID: 1, Code: "A-1"}); err != nil {
		t.Fatalf("create plot: %v", err)
	}
	if store.createdPlot.CapacitySpaces != 0 {
		t.Fatalf("capacity = %d, want 0 so the store resolves the plot type default", store.createdPlot.CapacitySpaces)
	}
}

func TestCreatePlotMapsStorageErrors(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name     string
		storeErr error
		wantCode errors.Code
	}{
		{name: "plot type missing", storeErr: storage.ErrPlotTypeNotFound, wantCode: errors.CodePlotTypeNotFound},
		{name: "subsector missing", storeErr: storage.ErrNotFound, wantCode: errors.CodeSubsectorNotFound},
		{name: "duplicate code", storeErr: storage.ErrAlreadyExists, wantCode: errors.CodeDuplicateCode},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			service := NewService(&fakeStore{createPlotErr: tc.storeErr})
			_, err := service.CreatePlot(context.Background(), 1, 2, storage.NewPlot{PlotTypeID: 1, Code: "A-1"})
			if got := errors.GetCode(err); got != tc.wantCode {
				t.Fatalf("code = %q, want %q", got, tc.wantCode)
			}
		})
	}
}

func TestSetSpaceStatusValidatesStatus(t *testing.T) {
	t.Parallel()

	service := NewService(&fakeStore{})
	_, err := service.SetSpaceStatus(context.Background(), 1, 2, "BURIED", nil)
	if got := errors.GetCode(err); got != errors.CodeInvalidStatus {
		t.Fatalf("code = %q, want %q", got, errors.CodeInvalidStatus)
	}
}

func TestSetSpaceStatusNormalizesCase(t *testing.T) {
	t.Parallel()

	store := &fakeStore{}
	service := NewService(store)
	if _, err := service.SetSpaceStatus(context.Background(), 1, 2, "locked", nil); err != nil {
		t.Fatalf("set status: %v", err)
	}
	if store.updatedStatus != storage.SpaceLocked {
		t.Fatalf("status = %q, want %q", store.updatedStatus, storage.SpaceLocked)
	}
}

type fakeStore struct {
	createAreaErr   error
	updateAreaErr   error
	createSectorErr error
	createPlotErr   error
	createdPlot     storage.NewPlot
	updatedStatus   storage.SpaceStatus
}

func (f *fakeStore) ListAreas(_ context.Context, siteID int64) ([]storage.Area, error) {
	return nil, nil
}

func (f *fakeStore) CreateArea(_ context.Context, siteID int64, area storage.Area) (storage.Area, error) {
	if f.createAreaErr != nil {
		return storage.Area{}, f.createAreaErr
	}
	area.ID = 1
	area.SiteID = siteID
	return area, nil
}

func (f *fakeStore) UpdateArea(_ context.Context, siteID, areaID int64, patch storage.NodePatch) (storage.Area, error) {
	if f.updateAreaErr != nil {
		return storage.Area{}, f.updateAreaErr
	}
	return storage.Area{ID: areaID, SiteID: siteID}, nil
}

func (f *fakeStore) DeleteArea(_ context.Context, siteID, areaID int64) error {
	return nil
}

func (f *fakeStore) ListSectors(_ context.Context, siteID, areaID int64) ([]storage.Sector, error) {
	return nil, nil
}

func (f *fakeStore) CreateSector(_ context.Context, siteID, areaID int64, sector storage.Sector) (storage.Sector, error) {
	if f.createSectorErr != nil {
		return storage.Sector{}, f.createSectorErr
	}
	sector.ID = 1
	sector.AreaID = areaID
	return sector, nil
}

func (f *fakeStore) UpdateSector(_ context.Context, siteID, sectorID int64, patch storage.NodePatch) (storage.Sector, error) {
	return storage.Sector{ID: sectorID}, nil
}

func (f *fakeStore) DeleteSector(_ context.Context, siteID, sectorID int64) error {
	return nil
}

func (f *fakeStore) ListSubsectors(_ context.Context, siteID, sectorID int64) ([]storage.Subsector, error) {
	return nil, nil
}

func (f *fakeStore) CreateSubsector(_ context.Context, siteID, sectorID int64, subsector storage.Subsector) (storage.Subsector, error) {
	subsector.ID = 1
	subsector.SectorID = sectorID
	return subsector, nil
}

func (f *fakeStore) UpdateSubsector(_ context.Context, siteID, subsectorID int64, patch storage.NodePatch) (storage.Subsector, error) {
	return storage.Subsector{ID: subsectorID}, nil
}

func (f *fakeStore) DeleteSubsector(_ context.Context, siteID, subsectorID int64) error {
	return nil
}

func (f *fakeStore) ListPlotTypes(_ context.Context) ([]storage.PlotType, error) {
	return nil, nil
}

func (f *fakeStore) EnsurePlotType(_ context.Context, plotType storage.PlotType) (storage.PlotType, error) {
	plotType.ID = 1
	return plotType, nil
}

func (f *fakeStore) CreatePlot(_ context.Context, siteID, subsectorID int64, plot storage.NewPlot) (storage.Plot, error) {
	if f.createPlotErr != nil {
		return storage.Plot{}, f.createPlotErr
	}
	f.createdPlot = plot
	return storage.Plot{ID: 1, SubsectorID: subsectorID, Code: plot.Code, CapacitySpaces: plot.CapacitySpaces}, nil
}

func (f *fakeStore) ListPlots(_ context.Context, siteID, subsectorID int64) ([]storage.Plot, error) {
	return nil, nil
}

func (f *fakeStore) DeletePlot(_ context.Context, siteID, plotID int64) error {
	return nil
}

func (f *fakeStore) ListSpaces(_ context.Context, siteID, plotID int64) ([]storage.Space, error) {
	return nil, nil
}

func (f *fakeStore) GetSpaceInSite(_ context.Context, siteID, spaceID int64, plotID *int64) (storage.Space, error) {
	return storage.Space{ID: spaceID}, nil
}

func (f *fakeStore) UpdateSpaceStatus(_ context.Context, siteID, spaceID int64, status storage.SpaceStatus, notes *string) (storage.Space, error) {
	f.updatedStatus = status
	return storage.Space{ID: spaceID, Status: status}, nil
}

func (f *fakeStore) GetSiteDashboard(_ context.Context, siteID int64) (storage.DashboardCounts, error) {
	return storage.DashboardCounts{}, nil
}
