package directory

import (
	"context"
	"testing"

	"github.com/camposanto/camposanto/internal/platform/errors"
	"github.com/camposanto/camposanto/internal/storage"
)

func TestCreateOrganizationValidatesInput(t *testing.T) {
	t.Parallel()

	service := NewService(&fakeStore{})
	testCases := []struct {
		name     string
		input    NewOrganization
		wantCode errors.Code
	}{
		{
			name:     "invalid kind",
			input:    NewOrganization{Kind: "FLORERIA", Name: "Flores del Sur"},
			wantCode: errors.CodeOrgInvalidKind,
		},
		{
			name:     "missing name",
			input:    NewOrganization{Kind: "CEMENTERIO"},
			wantCode: errors.CodeOrgNameRequired,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			_, err := service.CreateOrganization(context.Background(), tc.input)
			if got := errors.GetCode(err); got != tc.wantCode {
				t.Fatalf("code = %q, want %q", got, tc.wantCode)
			}
		})
	}
}

func TestCreateOrganizationDerivesSlug(t *testing.T) {
	t.Parallel()

	store := &fakeStore{}
	service := NewService(store)
	org, err := service.CreateOrganization(context.Background(), NewOrganization{
		Kind: "cementerio",
		Name: "Parque del Recuerdo Américo Vespucio",
	})
	if err != nil {
		t.Fatalf("create organization: %v", err)
	}
	if org.Slug != "parque-del-recuerdo-am-rico-vespucio" {
		t.Fatalf("slug = %q, want derived slug", org.Slug)
	}
	if org.Kind != storage.OrgKindCemetery {
		t.Fatalf("kind = %q, want %q", org.Kind, storage.OrgKindCemetery)
	}
}

func TestCreateOrganizationMapsSlugConflict(t *testing.T) {
	t.Parallel()

	service := NewService(&fakeStore{createOrgErr: storage.ErrAlreadyExists})
	_, err := service.CreateOrganization(context.Background(), NewOrganization{
		Kind: "FUNERARIA",
		Name: "Funeraria San José",
	})
	if got := errors.GetCode(err); got != errors.CodeOrgSlugTaken {
		t.Fatalf("code = %q, want %q", got, errors.CodeOrgSlugTaken)
	}
}

func TestCreateSiteRequiresCemeteryKind(t *testing.T) {
	t.Parallel()

	service := NewService(&fakeStore{
		org: storage.Organization{ID: 1, Kind: storage.OrgKindFuneral},
	})
	_, err := service.CreateSite(context.Background(), 1, NewSite{Name: "Sede"})
	if got := errors.GetCode(err); got != errors.CodeWrongOrgKind {
		t.Fatalf("code = %q, want %q", got, errors.CodeWrongOrgKind)
	}
}

func TestCreateSiteRequiresName(t *testing.T) {
	t.Parallel()

	service := NewService(&fakeStore{})
	_, err := service.CreateSite(context.Background(), 1, NewSite{})
	if got := errors.GetCode(err); got != errors.CodeSiteNameRequired {
		t.Fatalf("code = %q, want %q", got, errors.CodeSiteNameRequired)
	}
}

func TestSubscribeMapsMissingPlan(t *testing.T) {
	t.Parallel()

	service := NewService(&fakeStore{subscribeErr: storage.ErrNotFound})
	_, err := service.Subscribe(context.Background(), 1, 99)
	if got := errors.GetCode(err); got != errors.CodePlanNotFound {
		t.Fatalf("code = %q, want %q", got, errors.CodePlanNotFound)
	}
}

func TestGetSubscriptionMapsEmpty(t *testing.T) {
	t.Parallel()

	service := NewService(&fakeStore{getSubErr: storage.ErrNotFound})
	_, err := service.GetSubscription(context.Background(), 1)
	if got := errors.GetCode(err); got != errors.CodeSubscriptionEmpty {
		t.Fatalf("code = %q, want %q", got, errors.CodeSubscriptionEmpty)
	}
}

type fakeStore struct {
	org          storage.Organization
	createOrgErr error
	subscribeErr error
	getSubErr    error
}

func (f *fakeStore) CreateOrganization(_ context.Context, org storage.Organization) (storage.Organization, error) {
	if f.createOrgErr != nil {
		return storage.Organization{}, f.createOrgErr
	}
	org.ID = 1
	return org, nil
}

func (f *fakeStore) GetOrganization(_ context.Context, id int64) (storage.Organization, error) {
	if f.org.ID == 0 {
		return storage.Organization{ID: id, Kind: storage.OrgKindCemetery}, nil
	}
	return f.org, nil
}

func (f *fakeStore) ListOrganizationsByKind(_ context.Context, kind storage.OrgKind) ([]storage.Organization, error) {
	return nil, nil
}

func (f *fakeStore) CreatePlan(_ context.Context, plan storage.Plan) (storage.Plan, error) {
	plan.ID = 1
	return plan, nil
}

func (f *fakeStore) ListActivePlans(_ context.Context) ([]storage.Plan, error) {
	return nil, nil
}

func (f *fakeStore) SubscribeOrganization(_ context.Context, orgID, planID int64) (storage.Subscription, error) {
	if f.subscribeErr != nil {
		return storage.Subscription{}, f.subscribeErr
	}
	return storage.Subscription{ID: 1, OrganizationID: orgID, PlanID: planID}, nil
}

func (f *fakeStore) GetSubscription(_ context.Context, orgID int64) (storage.Subscription, error) {
	if f.getSubErr != nil {
		return storage.Subscription{}, f.getSubErr
	}
	return storage.Subscription{ID: 1, OrganizationID: orgID}, nil
}

func (f *fakeStore) CreateSite(_ context.Context, site storage.Site) (storage.Site, error) {
	site.ID = 1
	return site, nil
}

func (f *fakeStore) GetSiteForOrganization(_ context.Context, orgID, siteID int64) (storage.Site, error) {
	return storage.Site{ID: siteID, OrganizationID: orgID}, nil
}

func (f *fakeStore) ListSitesByOrganization(_ context.Context, orgID int64) ([]storage.Site, error) {
	return nil, nil
}

func (f *fakeStore) UpdateSite(_ context.Context, orgID, siteID int64, patch storage.SitePatch) (storage.Site, error) {
	return storage.Site{ID: siteID, OrganizationID: orgID}, nil
}
