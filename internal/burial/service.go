// Package burial runs the cross-tenant burial request workflow: funeral homes
// submit requests, cemeteries review them and allocate concrete spaces.
package burial

import (
	"context"
	stderrors "errors"
	"strings"

	"github.com/camposanto/camposanto/internal/platform/errors"
	"github.com/camposanto/camposanto/internal/storage"
)

// Store is the persistence surface the burial workflow depends on.
type Store interface {
	storage.BurialRequestStore
}

// Service exposes the burial request pipeline.
type Service struct {
	store Store
}

// NewService wires a burial service over the given store.
func NewService(store Store) *Service {
	return &Service{store: store}
}

// Submission carries the funeral home's request fields.
type Submission struct {
	CemeteryOrgID       int64
	CemeterySiteID      int64
	DeceasedFullName    string
	DateOfDeath         string
	RequestedPlotTypeID *int64
	RequestedDate       string
	Notes               string
}

// Submit files one PENDING burial request against a cemetery site.
func (s *Service) Submit(ctx context.Context, funeralOrgID int64, input Submission) (storage.BurialRequest, error) {
	if strings.TrimSpace(input.DeceasedFullName) == "" {
		return storage.BurialRequest{}, errors.New(errors.CodeDeceasedNameRequired, "deceased full name is required")
	}
	if strings.TrimSpace(input.DateOfDeath) == "" {
		return storage.BurialRequest{}, errors.New(errors.CodeDateOfDeathRequired, "date of death is required")
	}
	if input.CemeteryOrgID <= 0 {
		return storage.BurialRequest{}, errors.New(errors.CodeCemeteryRequired, "cemetery organization is required")
	}
	if input.CemeterySiteID <= 0 {
		return storage.BurialRequest{}, errors.New(errors.CodeCemeterySiteRequired, "cemetery site is required")
	}

	request, err := s.store.CreateBurialRequest(ctx, funeralOrgID, storage.NewBurialRequest{
		CemeteryOrgID:       input.CemeteryOrgID,
		CemeterySiteID:      input.CemeterySiteID,
		DeceasedFullName:    input.DeceasedFullName,
		DateOfDeath:         input.DateOfDeath,
		RequestedPlotTypeID: input.RequestedPlotTypeID,
		RequestedDate:       input.RequestedDate,
		Notes:               input.Notes,
	})
	if err != nil {
		switch {
		case stderrors.Is(err, storage.ErrOrgNotFound):
			return storage.BurialRequest{}, errors.New(errors.CodeCemeteryOrgNotFound, "cemetery organization not found")
		case stderrors.Is(err, storage.ErrWrongOrgKind):
			return storage.BurialRequest{}, errors.New(errors.CodeInvalidCemeteryOrg, "organization is not a cemetery")
		case stderrors.Is(err, storage.ErrNotFound):
			return storage.BurialRequest{}, errors.New(errors.CodeCemeterySiteNotFound, "cemetery site not found for that organization")
		}
		return storage.BurialRequest{}, errors.Wrap(errors.CodeInternalError, "submit burial request", err)
	}
	return request, nil
}

// ListOutgoing returns the funeral home's submitted requests.
func (s *Service) ListOutgoing(ctx context.Context, funeralOrgID int64) ([]storage.BurialRequest, error) {
	requests, err := s.store.ListBurialRequestsForFuneralOrg(ctx, funeralOrgID)
	if err != nil {
		return nil, errors.Wrap(errors.CodeInternalError, "list outgoing requests", err)
	}
	return requests, nil
}

// ListIncoming returns the cemetery's received requests, optionally narrowed
// to one site.
func (s *Service) ListIncoming(ctx context.Context, cemeteryOrgID int64, siteID *int64) ([]storage.BurialRequest, error) {
	requests, err := s.store.ListBurialRequestsForCemeteryOrg(ctx, cemeteryOrgID, siteID)
	if err != nil {
		return nil, errors.Wrap(errors.CodeInternalError, "list incoming requests", err)
	}
	return requests, nil
}

// Review moves a request to APPROVED or REJECTED.
func (s *Service) Review(ctx context.Context, cemeteryOrgID, requestID int64, outcome string, reason *string) (storage.BurialRequest, error) {
	status := storage.RequestStatus(strings.ToUpper(strings.TrimSpace(outcome)))
	if status != storage.RequestApproved && status != storage.RequestRejected {
		return storage.BurialRequest{}, errors.WithMetadata(errors.CodeInvalidStatus, "review outcome must be APPROVED or REJECTED", map[string]string{"status": outcome})
	}
	request, err := s.store.SetBurialRequestStatus(ctx, cemeteryOrgID, requestID, status, reason)
	if err != nil {
		if stderrors.Is(err, storage.ErrNotFound) {
			return storage.BurialRequest{}, errors.New(errors.CodeRequestNotFound, "burial request not found")
		}
		return storage.BurialRequest{}, errors.Wrap(errors.CodeInternalError, "review burial request", err)
	}
	return request, nil
}

// Assign allocates a concrete plot and space to a request. The allocation is
// atomic: a conflict at any step leaves the request and the space untouched.
func (s *Service) Assign(ctx context.Context, cemeteryOrgID, siteID, requestID, plotID, spaceID int64) (storage.BurialRequest, error) {
	if requestID <= 0 {
		return storage.BurialRequest{}, errors.New(errors.CodeInvalidRequestID, "request id is required")
	}
	if plotID <= 0 {
		return storage.BurialRequest{}, errors.New(errors.CodeInvalidPlotID, "plot id is required")
	}
	if spaceID <= 0 {
		return storage.BurialRequest{}, errors.New(errors.CodeInvalidSpaceID, "space id is required")
	}

	request, err := s.store.AssignPlot(ctx, cemeteryOrgID, siteID, requestID, plotID, spaceID)
	if err != nil {
		switch {
		case stderrors.Is(err, storage.ErrNotFound):
			return storage.BurialRequest{}, errors.New(errors.CodeRequestNotFound, "burial request not found")
		case stderrors.Is(err, storage.ErrSiteMismatch):
			return storage.BurialRequest{}, errors.New(errors.CodeSiteMismatch, "request targets a different site")
		case stderrors.Is(err, storage.ErrPlotNotFound):
			return storage.BurialRequest{}, errors.New(errors.CodePlotNotFound, "plot not found")
		case stderrors.Is(err, storage.ErrSpaceNotFound):
			return storage.BurialRequest{}, errors.New(errors.CodeSpaceNotFound, "space not found")
		case stderrors.Is(err, storage.ErrSpaceOccupied):
			return storage.BurialRequest{}, errors.New(errors.CodeSpaceOccupied, "space is already occupied")
		case stderrors.Is(err, storage.ErrSpaceLocked):
			return storage.BurialRequest{}, errors.New(errors.CodeSpaceLocked, "space is locked")
		}
		return storage.BurialRequest{}, errors.Wrap(errors.CodeInternalError, "assign plot", err)
	}
	return request, nil
}
