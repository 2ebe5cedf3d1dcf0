// Package deceased manages interment records, the public directory search and
// memorial pages.
package deceased

import (
	"context"
	stderrors "errors"
	"strings"

	"github.com/camposanto/camposanto/internal/platform/errors"
	"github.com/camposanto/camposanto/internal/search"
	"github.com/camposanto/camposanto/internal/storage"
)

// publicSearchLimit caps public directory results per query.
const publicSearchLimit = 50

// Store is the persistence surface the deceased service depends on.
type Store interface {
	storage.DeceasedStore
	storage.MemorialStore
}

// Service exposes interment record management.
type Service struct {
	store Store
}

// NewService wires a deceased service over the given store.
func NewService(store Store) *Service {
	return &Service{store: store}
}

// NewRecord carries the caller-supplied fields for record creation.
type NewRecord struct {
	FullName    string
	RUT         string
	DateOfBirth string
	DateOfDeath string
	Notes       string
	PlotID      int64
	SpaceID     *int64
}

// Create registers one interment record. When the record names a space, the
// space is claimed atomically with the insert.
func (s *Service) Create(ctx context.Context, orgID, siteID int64, input NewRecord) (storage.DeceasedRecord, error) {
	if strings.TrimSpace(input.FullName) == "" {
		return storage.DeceasedRecord{}, errors.New(errors.CodeFullNameRequired, "full name is required")
	}
	if strings.TrimSpace(input.DateOfDeath) == "" {
		return storage.DeceasedRecord{}, errors.New(errors.CodeDateOfDeathRequired, "date of death is required")
	}
	if input.PlotID <= 0 {
		return storage.DeceasedRecord{}, errors.New(errors.CodeInvalidPlotID, "plot id is required")
	}

	record, err := s.store.CreateDeceasedRecord(ctx, orgID, siteID, storage.NewDeceasedRecord{
		FullName:    input.FullName,
		RUT:         input.RUT,
		DateOfBirth: input.DateOfBirth,
		DateOfDeath: input.DateOfDeath,
		Notes:       input.Notes,
		PlotID:      input.PlotID,
		SpaceID:     input.SpaceID,
	})
	if err != nil {
		switch {
		case stderrors.Is(err, storage.ErrNotFound):
			return storage.DeceasedRecord{}, errors.New(errors.CodeSiteNotFound, "site not found")
		case stderrors.Is(err, storage.ErrPlotNotFound):
			return storage.DeceasedRecord{}, errors.New(errors.CodePlotNotFound, "plot not found")
		case stderrors.Is(err, storage.ErrSpaceNotFound):
			return storage.DeceasedRecord{}, errors.New(errors.CodeSpaceNotFound, "space not found")
		case stderrors.Is(err, storage.ErrSpaceOccupied):
			return storage.DeceasedRecord{}, errors.New(errors.CodeSpaceOccupied, "space is already occupied")
		case stderrors.Is(err, storage.ErrSpaceLocked):
			return storage.DeceasedRecord{}, errors.New(errors.CodeSpaceLocked, "space is locked")
		}
		return storage.DeceasedRecord{}, errors.Wrap(errors.CodeInternalError, "create deceased record", err)
	}
	return record, nil
}

// List returns the site's records, optionally narrowed by an AIP-160 filter
// expression over full_name, rut, dates, plot_id and space_id.
func (s *Service) List(ctx context.Context, orgID, siteID int64, filter string) ([]storage.DeceasedRecord, error) {
	cond, err := search.ParseDeceasedFilter(filter)
	if err != nil {
		return nil, errors.Wrap(errors.CodeInvalidSearchFilter, "invalid filter expression", err)
	}

	records, err := s.store.ListDeceasedRecords(ctx, orgID, siteID, storage.DeceasedCondition{
		Clause: cond.Clause,
		Params: cond.Params,
	})
	if err != nil {
		if stderrors.Is(err, storage.ErrNotFound) {
			return nil, errors.New(errors.CodeSiteNotFound, "site not found")
		}
		return nil, errors.Wrap(errors.CodeInternalError, "list deceased records", err)
	}
	return records, nil
}

// Get returns one record scoped to the caller's organization and site.
func (s *Service) Get(ctx context.Context, orgID, siteID, recordID int64) (storage.DeceasedRecord, error) {
	record, err := s.store.GetDeceasedRecord(ctx, orgID, siteID, recordID)
	if err != nil {
		if stderrors.Is(err, storage.ErrNotFound) {
			return storage.DeceasedRecord{}, errors.New(errors.CodeDeceasedNotFound, "deceased record not found")
		}
		return storage.DeceasedRecord{}, errors.Wrap(errors.CodeInternalError, "get deceased record", err)
	}
	return record, nil
}

// Delete removes one record and frees its claimed space.
func (s *Service) Delete(ctx context.Context, orgID, siteID, recordID int64) error {
	if err := s.store.DeleteDeceasedRecord(ctx, orgID, siteID, recordID); err != nil {
		if stderrors.Is(err, storage.ErrNotFound) {
			return errors.New(errors.CodeDeceasedNotFound, "deceased record not found")
		}
		return errors.Wrap(errors.CodeInternalError, "delete deceased record", err)
	}
	return nil
}

// PublicSearch matches records by name or RUT for the unauthenticated
// directory. Terms shorter than two characters return no matches.
func (s *Service) PublicSearch(ctx context.Context, term string) ([]storage.DeceasedMatch, error) {
	matches, err := s.store.SearchDeceasedPublic(ctx, term, publicSearchLimit)
	if err != nil {
		return nil, errors.Wrap(errors.CodeInternalError, "public search", err)
	}
	return matches, nil
}

// NewMemorial carries the caller-supplied fields for memorial creation.
type NewMemorial struct {
	Slug      string
	Headline  string
	Biography string
}

// CreateMemorial publishes a memorial page shell for one record. The slug
// defaults to a lowercased form of the record's full name.
func (s *Service) CreateMemorial(ctx context.Context, orgID, siteID, recordID int64, input NewMemorial) (storage.Memorial, error) {
	record, err := s.Get(ctx, orgID, siteID, recordID)
	if err != nil {
		return storage.Memorial{}, err
	}
	slug := strings.TrimSpace(input.Slug)
	if slug == "" {
		slug = slugify(record.FullName)
	}

	memorial, err := s.store.CreateMemorial(ctx, storage.Memorial{
		DeceasedRecordID: record.ID,
		Slug:             slug,
		Headline:         input.Headline,
		Biography:        input.Biography,
	})
	if err != nil {
		if stderrors.Is(err, storage.ErrAlreadyExists) {
			return storage.Memorial{}, errors.WithMetadata(errors.CodeMemorialSlugConflict, "memorial slug already in use", map[string]string{"slug": slug})
		}
		return storage.Memorial{}, errors.Wrap(errors.CodeInternalError, "create memorial", err)
	}
	return memorial, nil
}

// GetMemorial returns the memorial bound to one record in the caller's site.
func (s *Service) GetMemorial(ctx context.Context, orgID, siteID, recordID int64) (storage.Memorial, error) {
	if _, err := s.Get(ctx, orgID, siteID, recordID); err != nil {
		return storage.Memorial{}, err
	}
	memorial, err := s.store.GetMemorialForRecord(ctx, recordID)
	if err != nil {
		if stderrors.Is(err, storage.ErrNotFound) {
			return storage.Memorial{}, errors.New(errors.CodeMemorialNotFound, "memorial not found")
		}
		return storage.Memorial{}, errors.Wrap(errors.CodeInternalError, "get memorial", err)
	}
	return memorial, nil
}

// UpdateMemorial rewrites the memorial's editable fields, including the
// publication flag.
func (s *Service) UpdateMemorial(ctx context.Context, orgID, siteID, recordID int64, memorial storage.Memorial) (storage.Memorial, error) {
	current, err := s.GetMemorial(ctx, orgID, siteID, recordID)
	if err != nil {
		return storage.Memorial{}, err
	}
	memorial.ID = current.ID
	memorial.DeceasedRecordID = current.DeceasedRecordID
	if strings.TrimSpace(memorial.Slug) == "" {
		memorial.Slug = current.Slug
	}

	updated, err := s.store.UpdateMemorial(ctx, memorial)
	if err != nil {
		switch {
		case stderrors.Is(err, storage.ErrNotFound):
			return storage.Memorial{}, errors.New(errors.CodeMemorialNotFound, "memorial not found")
		case stderrors.Is(err, storage.ErrAlreadyExists):
			return storage.Memorial{}, errors.New(errors.CodeMemorialSlugConflict, "memorial slug already in use")
		}
		return storage.Memorial{}, errors.Wrap(errors.CodeInternalError, "update memorial", err)
	}
	return updated, nil
}

// PublicMemorial returns one published memorial by slug.
func (s *Service) PublicMemorial(ctx context.Context, slug string) (storage.Memorial, error) {
	memorial, err := s.store.GetPublishedMemorialBySlug(ctx, slug)
	if err != nil {
		if stderrors.Is(err, storage.ErrNotFound) {
			return storage.Memorial{}, errors.New(errors.CodeMemorialNotFound, "memorial not found")
		}
		return storage.Memorial{}, errors.Wrap(errors.CodeInternalError, "public memorial", err)
	}
	return memorial, nil
}

func slugify(name string) string {
	var b strings.Builder
	lastHyphen := true
	for _, r := range strings.ToLower(name) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastHyphen = false
		default:
			if !lastHyphen {
				b.WriteByte('-')
				lastHyphen = true
			}
		}
	}
	return strings.Trim(b.String(), "-")
}
