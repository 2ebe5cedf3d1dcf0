package burial

import (
	"context"
	"testing"

	"github.com/camposanto/camposanto/internal/platform/errors"
	"github.com/camposanto/camposanto/internal/storage"
)

func TestSubmitValidatesInput(t *testing.T) {
	t.Parallel()

	service := NewService(&fakeStore{})
	testCases := []struct {
		name     string
		input    Submission
		wantCode errors.Code
	}{
		{
			name:     "missing name",
			input:    Submission{CemeteryOrgID: 1, CemeterySiteID: 1},
			wantCode: errors.CodeDeceasedNameRequired,
		},
		{
			name:     "missing date of death",
			input:    Submission{DeceasedFullName: "María González", CemeteryOrgID: 1, CemeterySiteID: 1},
			wantCode: errors.CodeDateOfDeathRequired,
		},
		{
			name:     "missing cemetery",
			input:    Submission{DeceasedFullName: "María González", DateOfDeath: "2026-08-20", CemeterySiteID: 1},
			wantCode: errors.CodeCemeteryRequired,
		},
		{
			name:     "missing site",
			input:    Submission{DeceasedFullName: "María González", DateOfDeath: "2026-08-20", CemeteryOrgID: 1},
			wantCode: errors.CodeCemeterySiteRequired,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			_, err := service.Submit(context.Background(), 7, tc.input)
			if got := errors.GetCode(err); got != tc.wantCode {
				t.Fatalf("code = %q, want %q", got, tc.wantCode)
			}
		})
	}
}

func TestSubmitMapsTargetErrors(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name     string
		storeErr error
		wantCode errors.Code
	}{
		{name: "org missing", storeErr: storage.ErrOrgNotFound, wantCode: errors.CodeCemeteryOrgNotFound},
		{name: "org is a funeral home", storeErr: storage.ErrWrongOrgKind, wantCode: errors.CodeInvalidCemeteryOrg},
		{name: "site missing", storeErr: storage.ErrNotFound, wantCode: errors.CodeCemeterySiteNotFound},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			service := NewService(&fakeStore{createErr: tc.storeErr})
			_, err := service.Submit(context.Background(), 7, Submission{
				DeceasedFullName: "María González",
				DateOfDeath:      "2026-08-20",
				CemeteryOrgID:    1,
				CemeterySiteID:   2,
			})
			if got := errors.GetCode(err); got != tc.wantCode {
				t.Fatalf("code = %q, want %q", got, tc.wantCode)
			}
		})
	}
}

func TestReviewRejectsNonReviewOutcome(t *testing.T) {
	t.Parallel()

	service := NewService(&fakeStore{})
	_, err := service.Review(context.Background(), 1, 2, "ASSIGNED", nil)
	if got := errors.GetCode(err); got != errors.CodeInvalidStatus {
		t.Fatalf("code = %q, want %q", got, errors.CodeInvalidStatus)
	}
}

func TestReviewNormalizesOutcomeCase(t *testing.T) {
	t.Parallel()

	store := &fakeStore{}
	service := NewService(store)
	if _, err := service.Review(context.Background(), 1, 2, "approved", nil); err != nil {
		t.Fatalf("review: %v", err)
	}
	if store.setStatus != storage.RequestApproved {
		t.Fatalf("status = %q, want %q", store.setStatus, storage.RequestApproved)
	}
}

func TestAssignValidatesIdentifiers(t *testing.T) {
	t.Parallel()

	service := NewService(&fakeStore{})
	testCases := []struct {
		name                     string
		request, plot, space     int64
		wantCode                 errors.Code
	}{
		{name: "request", request: 0, plot: 1, space: 1, wantCode: errors.CodeInvalidRequestID},
		{name: "plot", request: 1, plot: 0, space: 1, wantCode: errors.CodeInvalidPlotID},
		{name: "space", request: 1, plot: 1, space: 0, wantCode: errors.CodeInvalidSpaceID},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			_, err := service.Assign(context.Background(), 1, 1, tc.request, tc.plot, tc.space)
			if got := errors.GetCode(err); got != tc.wantCode {
				t.Fatalf("code = %q, want %q", got, tc.wantCode)
			}
		})
	}
}

func TestAssignMapsStorageErrors(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name     string
		storeErr error
		wantCode errors.Code
	}{
		{name: "request missing", storeErr: storage.ErrNotFound, wantCode: errors.CodeRequestNotFound},
		{name: "site mismatch", storeErr: storage.ErrSiteMismatch, wantCode: errors.CodeSiteMismatch},
		{name: "plot missing", storeErr: storage.ErrPlotNotFound, wantCode: errors.CodePlotNotFound},
		{name: "space missing", storeErr: storage.ErrSpaceNotFound, wantCode: errors.CodeSpaceNotFound},
		{name: "space occupied", storeErr: storage.ErrSpaceOccupied, wantCode: errors.CodeSpaceOccupied},
		{name: "space locked", storeErr: storage.ErrSpaceLocked, wantCode: errors.CodeSpaceLocked},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			service := NewService(&fakeStore{assignErr: tc.storeErr})
			_, err := service.Assign(context.Background(), 1, 1, 2, 3, 4)
			if got := errors.GetCode(err); got != tc.wantCode {
				t.Fatalf("code = %q, want %q", got, tc.wantCode)
			}
		})
	}
}

type fakeStore struct {
	createErr error
	assignErr error
	setStatus storage.RequestStatus
}

func (f *fakeStore) CreateBurialRequest(_ context.Context, funeralOrgID int64, request storage.NewBurialRequest) (storage.BurialRequest, error) {
	if f.createErr != nil {
		return storage.BurialRequest{}, f.createErr
	}
	return storage.BurialRequest{
		ID:               1,
		FuneralOrgID:     funeralOrgID,
		CemeteryOrgID:    request.CemeteryOrgID,
		CemeterySiteID:   request.CemeterySiteID,
		DeceasedFullName: request.DeceasedFullName,
		Status:           storage.RequestPending,
	}, nil
}

func (f *fakeStore) ListBurialRequestsForFuneralOrg(_ context.Context, funeralOrgID int64) ([]storage.BurialRequest, error) {
	return nil, nil
}

func (f *fakeStore) ListBurialRequestsForCemeteryOrg(_ context.Context, cemeteryOrgID int64, siteID *int64) ([]storage.BurialRequest, error) {
	return nil, nil
}

func (f *fakeStore) SetBurialRequestStatus(_ context.Context, cemeteryOrgID, requestID int64, status storage.RequestStatus, reason *string) (storage.BurialRequest, error) {
	f.setStatus = status
	return storage.BurialRequest{ID: requestID, Status: status}, nil
}

func (f *fakeStore) AssignPlot(_ context.Context, cemeteryOrgID, siteID, requestID, plotID, spaceID int64) (storage.BurialRequest, error) {
	if f.assignErr != nil {
		return storage.BurialRequest{}, f.assignErr
	}
	return storage.BurialRequest{
		ID:              requestID,
		Status:          storage.RequestAssigned,
		AssignedPlotID:  &plotID,
		AssignedSpaceID: &spaceID,
	}, nil
}
