// Package directory manages tenants, plans and cemetery sites.
package directory

import (
	"context"
	stderrors "errors"
	"strings"

	"github.com/camposanto/camposanto/internal/platform/errors"
	"github.com/camposanto/camposanto/internal/storage"
)

// Store is the persistence surface the directory service depends on.
type Store interface {
	storage.OrganizationStore
	storage.PlanStore
	storage.SiteStore
}

// Service exposes tenant and site management.
type Service struct {
	store Store
}

// NewService wires a directory service over the given store.
func NewService(store Store) *Service {
	return &Service{store: store}
}

// NewOrganization carries the caller-supplied fields for tenant signup.
type NewOrganization struct {
	Kind string
	Name string
	Slug string
}

// CreateOrganization registers one tenant.
func (s *Service) CreateOrganization(ctx context.Context, input NewOrganization) (storage.Organization, error) {
	kind := storage.OrgKind(strings.ToUpper(strings.TrimSpace(input.Kind)))
	if !kind.Valid() {
		return storage.Organization{}, errors.New(errors.CodeOrgInvalidKind, "organization kind must be FUNERARIA or CEMENTERIO")
	}
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return storage.Organization{}, errors.New(errors.CodeOrgNameRequired, "organization name is required")
	}
	slug := strings.TrimSpace(input.Slug)
	if slug == "" {
		slug = slugify(name)
	}

	org, err := s.store.CreateOrganization(ctx, storage.Organization{
		Kind: kind,
		Name: name,
		Slug: slug,
	})
	if err != nil {
		if stderrors.Is(err, storage.ErrAlreadyExists) {
			return storage.Organization{}, errors.WithMetadata(errors.CodeOrgSlugTaken, "organization slug already in use", map[string]string{"slug": slug})
		}
		return storage.Organization{}, errors.Wrap(errors.CodeInternalError, "create organization", err)
	}
	return org, nil
}

// GetOrganization returns one tenant.
func (s *Service) GetOrganization(ctx context.Context, orgID int64) (storage.Organization, error) {
	org, err := s.store.GetOrganization(ctx, orgID)
	if err != nil {
		if stderrors.Is(err, storage.ErrNotFound) {
			return storage.Organization{}, errors.New(errors.CodeOrgNotFound, "organization not found")
		}
		return storage.Organization{}, errors.Wrap(errors.CodeInternalError, "get organization", err)
	}
	return org, nil
}

// ListCemeteries returns all cemetery tenants. Funeral homes use this to pick
// a burial request destination.
func (s *Service) ListCemeteries(ctx context.Context) ([]storage.Organization, error) {
	orgs, err := s.store.ListOrganizationsByKind(ctx, storage.OrgKindCemetery)
	if err != nil {
		return nil, errors.Wrap(errors.CodeInternalError, "list cemeteries", err)
	}
	return orgs, nil
}

// CreatePlan adds one entry to the plan catalog.
func (s *Service) CreatePlan(ctx context.Context, plan storage.Plan) (storage.Plan, error) {
	if strings.TrimSpace(plan.Code) == "" {
		return storage.Plan{}, errors.New(errors.CodePlanCodeRequired, "plan code is required")
	}
	created, err := s.store.CreatePlan(ctx, plan)
	if err != nil {
		if stderrors.Is(err, storage.ErrAlreadyExists) {
			return storage.Plan{}, errors.New(errors.CodePlanCodeTaken, "plan code already in use")
		}
		return storage.Plan{}, errors.Wrap(errors.CodeInternalError, "create plan", err)
	}
	return created, nil
}

// ListPlans returns the active plan catalog.
func (s *Service) ListPlans(ctx context.Context) ([]storage.Plan, error) {
	plans, err := s.store.ListActivePlans(ctx)
	if err != nil {
		return nil, errors.Wrap(errors.CodeInternalError, "list plans", err)
	}
	return plans, nil
}

// Subscribe binds the organization to a plan.
func (s *Service) Subscribe(ctx context.Context, orgID, planID int64) (storage.Subscription, error) {
	sub, err := s.store.SubscribeOrganization(ctx, orgID, planID)
	if err != nil {
		if stderrors.Is(err, storage.ErrNotFound) {
			return storage.Subscription{}, errors.New(errors.CodePlanNotFound, "plan not found")
		}
		return storage.Subscription{}, errors.Wrap(errors.CodeInternalError, "subscribe organization", err)
	}
	return sub, nil
}

// GetSubscription returns the organization's current subscription.
func (s *Service) GetSubscription(ctx context.Context, orgID int64) (storage.Subscription, error) {
	sub, err := s.store.GetSubscription(ctx, orgID)
	if err != nil {
		if stderrors.Is(err, storage.ErrNotFound) {
			return storage.Subscription{}, errors.New(errors.CodeSubscriptionEmpty, "organization has no subscription")
		}
		return storage.Subscription{}, errors.Wrap(errors.CodeInternalError, "get subscription", err)
	}
	return sub, nil
}

// NewSite carries the caller-supplied fields for site creation.
type NewSite struct {
	Code        string
	Name        string
	Description string
	Region      string
	Comuna      string
	Address     string
	Latitude    *float64
	Longitude   *float64
}

// CreateSite registers one physical cemetery location for a cemetery tenant.
func (s *Service) CreateSite(ctx context.Context, orgID int64, input NewSite) (storage.Site, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return storage.Site{}, errors.New(errors.CodeSiteNameRequired, "site name is required")
	}
	org, err := s.GetOrganization(ctx, orgID)
	if err != nil {
		return storage.Site{}, err
	}
	if org.Kind != storage.OrgKindCemetery {
		return storage.Site{}, errors.New(errors.CodeWrongOrgKind, "only cemetery organizations manage sites")
	}

	site, err := s.store.CreateSite(ctx, storage.Site{
		OrganizationID: orgID,
		Code:           input.Code,
		Name:           name,
		Description:    input.Description,
		Region:         input.Region,
		Comuna:         input.Comuna,
		Address:        input.Address,
		Latitude:       input.Latitude,
		Longitude:      input.Longitude,
	})
	if err != nil {
		return storage.Site{}, errors.Wrap(errors.CodeInternalError, "create site", err)
	}
	return site, nil
}

// GetSite returns one site owned by the organization.
func (s *Service) GetSite(ctx context.Context, orgID, siteID int64) (storage.Site, error) {
	site, err := s.store.GetSiteForOrganization(ctx, orgID, siteID)
	if err != nil {
		if stderrors.Is(err, storage.ErrNotFound) {
			return storage.Site{}, errors.New(errors.CodeSiteNotFound, "site not found")
		}
		return storage.Site{}, errors.Wrap(errors.CodeInternalError, "get site", err)
	}
	return site, nil
}

// ListSites returns the organization's sites.
func (s *Service) ListSites(ctx context.Context, orgID int64) ([]storage.Site, error) {
	sites, err := s.store.ListSitesByOrganization(ctx, orgID)
	if err != nil {
		return nil, errors.Wrap(errors.CodeInternalError, "list sites", err)
	}
	return sites, nil
}

// UpdateSite applies a partial update to one owned site.
func (s *Service) UpdateSite(ctx context.Context, orgID, siteID int64, patch storage.SitePatch) (storage.Site, error) {
	site, err := s.store.UpdateSite(ctx, orgID, siteID, patch)
	if err != nil {
		if stderrors.Is(err, storage.ErrNotFound) {
			return storage.Site{}, errors.New(errors.CodeSiteNotFound, "site not found")
		}
		return storage.Site{}, errors.Wrap(errors.CodeInternalError, "update site", err)
	}
	return site, nil
}

// slugify lowercases the name and collapses non-alphanumerics to hyphens.
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
