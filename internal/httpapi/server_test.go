package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"testing"

	"github.com/camposanto/camposanto/internal/burial"
	"github.com/camposanto/camposanto/internal/cemetery"
	"github.com/camposanto/camposanto/internal/deceased"
	"github.com/camposanto/camposanto/internal/directory"
	"github.com/camposanto/camposanto/internal/platform/requestctx"
	"github.com/camposanto/camposanto/internal/platform/token"
	"github.com/camposanto/camposanto/internal/storage"
	"github.com/camposanto/camposanto/internal/storage/sqlite"
)

type testEnv struct {
	server *httptest.Server
	store  *sqlite.Store
	tokens *token.Manager
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	store, err := sqlite.Open(filepath.Join(t.TempDir(), "camposanto.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		if err := store.Close(); err != nil {
			t.Errorf("close store: %v", err)
		}
	})

	tokens, err := token.NewManager("test-secret", "camposanto", 0)
	if err != nil {
		t.Fatalf("new token manager: %v", err)
	}

	handler := NewServer(
		tokens,
		directory.NewService(store),
		cemetery.NewService(store),
		burial.NewService(store),
		deceased.NewService(store),
	).Handler()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	return &testEnv{server: server, store: store, tokens: tokens}
}

func (env *testEnv) issue(t *testing.T, session requestctx.Session) string {
	t.Helper()
	signed, err := env.tokens.Issue(session)
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}
	return signed
}

// do sends a JSON request and decodes the response body into out when out is
// non-nil.
func (env *testEnv) do(t *testing.T, method, path, bearer string, payload, out any) *http.Response {
	t.Helper()

	var body *bytes.Buffer
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			t.Fatalf("marshal payload: %v", err)
		}
		body = bytes.NewBuffer(encoded)
	} else {
		body = bytes.NewBuffer(nil)
	}

	req, err := http.NewRequest(method, env.server.URL+path, body)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := env.server.Client().Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	t.Cleanup(func() { _ = resp.Body.Close() })

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			t.Fatalf("decode %s %s response: %v", method, path, err)
		}
	}
	return resp
}

// seedCemetery creates a cemetery org with one site directly in the store.
func seedCemetery(t *testing.T, store *sqlite.Store) (orgID, siteID int64) {
	t.Helper()
	ctx := context.Background()

	org, err := store.CreateOrganization(ctx, storage.Organization{
		Kind: storage.OrgKindCemetery,
		Name: "Cementerio Parque del Mar",
		Slug: "parque-del-mar-" + t.Name(),
	})
	if err != nil {
		t.Fatalf("create cemetery org: %v", err)
	}
	site, err := store.CreateSite(ctx, storage.Site{
		OrganizationID: org.ID,
		Name:           "Sede Valparaíso",
		Region:         "Valparaíso",
		Comuna:         "Valparaíso",
	})
	if err != nil {
		t.Fatalf("create site: %v", err)
	}
	return org.ID, site.ID
}

func seedFuneral(t *testing.T, store *sqlite.Store) int64 {
	t.Helper()
	org, err := store.CreateOrganization(context.Background(), storage.Organization{
		Kind: storage.OrgKindFuneral,
		Name: "Funeraria San José",
		Slug: "san-jose-" + t.Name(),
	})
	if err != nil {
		t.Fatalf("create funeral org: %v", err)
	}
	return org.ID
}

func seedPlotType(t *testing.T, store *sqlite.Store) int64 {
	t.Helper()
	plotType, err := store.EnsurePlotType(context.Background(), storage.PlotType{
		Code:                  "TIERRA",
		Name:                  "Sepultura en tierra",
		DefaultCapacitySpaces: 2,
	})
	if err != nil {
		t.Fatalf("ensure plot type: %v", err)
	}
	return plotType.ID
}

func cemeterySession(orgID, siteID int64) requestctx.Session {
	return requestctx.Session{
		UserID:     "user-cemetery",
		OrgID:      orgID,
		OrgKind:    string(storage.OrgKindCemetery),
		ActiveSite: siteID,
		Role:       "admin",
	}
}

func funeralSession(orgID int64) requestctx.Session {
	return requestctx.Session{
		UserID:  "user-funeral",
		OrgID:   orgID,
		OrgKind: string(storage.OrgKindFuneral),
		Role:    "admin",
	}
}

func TestHealthAndPublicRoutesNeedNoToken(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)

	resp := env.do(t, http.MethodGet, "/up", "", nil, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("GET /up status = %d, want %d", resp.StatusCode, http.StatusOK)
	}

	var matches []deceasedMatchView
	resp = env.do(t, http.MethodGet, "/public/deceased?q=soto", "", nil, &matches)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("public search status = %d, want %d", resp.StatusCode, http.StatusOK)
	}
	if len(matches) != 0 {
		t.Fatalf("public search matches = %d, want 0", len(matches))
	}
}

func TestMissingTokenIsUnauthorized(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)

	var envelope errorEnvelope
	resp := env.do(t, http.MethodGet, "/sites", "", nil, &envelope)
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("status = %d, want %d", resp.StatusCode, http.StatusUnauthorized)
	}
	if envelope.Error != "UNAUTHORIZED" {
		t.Fatalf("error = %q, want UNAUTHORIZED", envelope.Error)
	}
}

func TestFuneralOrgCannotManageSites(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	funeralOrgID := seedFuneral(t, env.store)
	bearer := env.issue(t, funeralSession(funeralOrgID))

	var envelope errorEnvelope
	resp := env.do(t, http.MethodGet, "/sites", bearer, nil, &envelope)
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("status = %d, want %d", resp.StatusCode, http.StatusForbidden)
	}
	if envelope.Error != "WRONG_ORG_KIND" {
		t.Fatalf("error = %q, want WRONG_ORG_KIND", envelope.Error)
	}
}

func TestSiteRoutesRequireActiveSite(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	orgID, _ := seedCemetery(t, env.store)
	bearer := env.issue(t, cemeterySession(orgID, 0))

	var envelope errorEnvelope
	resp := env.do(t, http.MethodGet, "/site/areas", bearer, nil, &envelope)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", resp.StatusCode, http.StatusBadRequest)
	}
	if envelope.Error != "NO_ACTIVE_SITE" {
		t.Fatalf("error = %q, want NO_ACTIVE_SITE", envelope.Error)
	}
}

func TestErrorMessagesFollowLocale(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)

	req, err := http.NewRequest(http.MethodGet, env.server.URL+"/public/memorials/no-such-slug", nil)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	req.Header.Set("Accept-Language", "es-CL")
	resp, err := env.server.Client().Do(req)
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("status = %d, want %d", resp.StatusCode, http.StatusNotFound)
	}
	var envelope errorEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode envelope: %v", err)
	}
	if envelope.Error != "MEMORIAL_NOT_FOUND" {
		t.Fatalf("error = %q, want MEMORIAL_NOT_FOUND", envelope.Error)
	}
	if envelope.Message != "Página conmemorativa no encontrada." {
		t.Fatalf("message = %q, want the es-CL rendering", envelope.Message)
	}
}

func TestStructureLifecycleOverHTTP(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	orgID, siteID := seedCemetery(t, env.store)
	plotTypeID := seedPlotType(t, env.store)
	bearer := env.issue(t, cemeterySession(orgID, siteID))

	var area nodeView
	resp := env.do(t, http.MethodPost, "/site/areas", bearer,
		map[string]any{"code": "A", "name": "Jardín Norte"}, &area)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create area status = %d, want %d", resp.StatusCode, http.StatusCreated)
	}
	if area.Name != "Jardín Norte" || !area.IsActive {
		t.Fatalf("area = %+v, want active Jardín Norte", area)
	}

	var sector nodeView
	resp = env.do(t, http.MethodPost, fmt.Sprintf("/site/areas/%d/sectors", area.ID), bearer,
		map[string]any{"name": "Sector 1"}, &sector)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create sector status = %d, want %d", resp.StatusCode, http.StatusCreated)
	}

	var subsector nodeView
	resp = env.do(t, http.MethodPost, fmt.Sprintf("/site/sectors/%d/subsectors", sector.ID), bearer,
		map[string]any{"name": "Cuartel 1"}, &subsector)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create subsector status = %d, want %d", resp.StatusCode, http.StatusCreated)
	}

	var plot plotView
	resp = env.do(t, http.MethodPost, fmt.Sprintf("/site/subsectors/%d/plots", subsector.ID), bearer,
		map[string]any{"plot_type_id": plotTypeID, "code": "A-1", "capacity_spaces": 2}, &plot)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create plot status = %d, want %d", resp.StatusCode, http.StatusCreated)
	}
	if plot.CapacitySpaces != 2 || plot.PlotTypeCode != "TIERRA" {
		t.Fatalf("plot = %+v, want capacity 2 of type TIERRA", plot)
	}

	var spaces []spaceView
	resp = env.do(t, http.MethodGet, fmt.Sprintf("/site/plots/%d/spaces", plot.ID), bearer, nil, &spaces)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("list spaces status = %d, want %d", resp.StatusCode, http.StatusOK)
	}
	if len(spaces) != 2 {
		t.Fatalf("spaces = %d, want 2", len(spaces))
	}

	var locked spaceView
	resp = env.do(t, http.MethodPatch, fmt.Sprintf("/site/spaces/%d", spaces[0].ID), bearer,
		map[string]any{"status": "locked", "notes": "litigio pendiente"}, &locked)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("set space status = %d, want %d", resp.StatusCode, http.StatusOK)
	}
	if locked.Status != string(storage.SpaceLocked) || locked.Notes != "litigio pendiente" {
		t.Fatalf("space = %+v, want LOCKED with notes", locked)
	}

	var dashboard dashboardView
	resp = env.do(t, http.MethodGet, "/site/dashboard", bearer, nil, &dashboard)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("dashboard status = %d, want %d", resp.StatusCode, http.StatusOK)
	}
	if dashboard.Areas != 1 || dashboard.Plots != 1 || dashboard.Spaces.Available != 1 || dashboard.Spaces.Locked != 1 {
		t.Fatalf("dashboard = %+v, want 1 area, 1 plot, 1 available, 1 locked", dashboard)
	}
}

func TestBurialRequestFlowOverHTTP(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	cemeteryOrgID, siteID := seedCemetery(t, env.store)
	plotTypeID := seedPlotType(t, env.store)
	funeralOrgID := seedFuneral(t, env.store)

	cemeteryBearer := env.issue(t, cemeterySession(cemeteryOrgID, siteID))
	funeralBearer := env.issue(t, funeralSession(funeralOrgID))

	// The cemetery lays out one plot with two spaces.
	var area nodeView
	env.do(t, http.MethodPost, "/site/areas", cemeteryBearer, map[string]any{"name": "Jardín"}, &area)
	var sector nodeView
	env.do(t, http.MethodPost, fmt.Sprintf("/site/areas/%d/sectors", area.ID), cemeteryBearer, map[string]any{"name": "S1"}, &sector)
	var subsector nodeView
	env.do(t, http.MethodPost, fmt.Sprintf("/site/sectors/%d/subsectors", sector.ID), cemeteryBearer, map[string]any{"name": "C1"}, &subsector)
	var plot plotView
	env.do(t, http.MethodPost, fmt.Sprintf("/site/subsectors/%d/plots", subsector.ID), cemeteryBearer,
		map[string]any{"plot_type_id": plotTypeID, "code": "B-4", "capacity_spaces": 2}, &plot)
	var spaces []spaceView
	env.do(t, http.MethodGet, fmt.Sprintf("/site/plots/%d/spaces", plot.ID), cemeteryBearer, nil, &spaces)

	var request burialRequestView
	resp := env.do(t, http.MethodPost, "/requests", funeralBearer, map[string]any{
		"cemetery_org_id":    cemeteryOrgID,
		"cemetery_site_id":   siteID,
		"deceased_full_name": "María Teresa Donoso",
		"date_of_death":      "2026-08-20",
	}, &request)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("submit status = %d, want %d", resp.StatusCode, http.StatusCreated)
	}
	if request.Status != string(storage.RequestPending) {
		t.Fatalf("request status = %q, want PENDING", request.Status)
	}

	var outgoing []burialRequestView
	env.do(t, http.MethodGet, "/requests/outgoing", funeralBearer, nil, &outgoing)
	if len(outgoing) != 1 {
		t.Fatalf("outgoing = %d, want 1", len(outgoing))
	}

	var incoming []burialRequestView
	env.do(t, http.MethodGet, "/requests/incoming", cemeteryBearer, nil, &incoming)
	if len(incoming) != 1 || incoming[0].FuneralName == "" {
		t.Fatalf("incoming = %+v, want one request with funeral name", incoming)
	}

	var reviewed burialRequestView
	resp = env.do(t, http.MethodPost, fmt.Sprintf("/requests/%d/review", request.ID), cemeteryBearer,
		map[string]any{"outcome": "approved"}, &reviewed)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("review status = %d, want %d", resp.StatusCode, http.StatusOK)
	}
	if reviewed.Status != string(storage.RequestApproved) {
		t.Fatalf("reviewed status = %q, want APPROVED", reviewed.Status)
	}

	var assigned burialRequestView
	resp = env.do(t, http.MethodPost, fmt.Sprintf("/requests/%d/assign", request.ID), cemeteryBearer,
		map[string]any{"plot_id": plot.ID, "space_id": spaces[0].ID}, &assigned)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("assign status = %d, want %d", resp.StatusCode, http.StatusOK)
	}
	if assigned.Status != string(storage.RequestAssigned) {
		t.Fatalf("assigned status = %q, want ASSIGNED", assigned.Status)
	}
	if assigned.AssignedSpaceID == nil || *assigned.AssignedSpaceID != spaces[0].ID {
		t.Fatalf("assigned space = %v, want %d", assigned.AssignedSpaceID, spaces[0].ID)
	}

	var space spaceView
	env.do(t, http.MethodGet, fmt.Sprintf("/site/spaces/%d", spaces[0].ID), cemeteryBearer, nil, &space)
	if space.Status != string(storage.SpaceOccupied) {
		t.Fatalf("space status = %q, want OCCUPIED", space.Status)
	}

	// A second assignment against the same space must conflict.
	var second burialRequestView
	env.do(t, http.MethodPost, "/requests", funeralBearer, map[string]any{
		"cemetery_org_id":    cemeteryOrgID,
		"cemetery_site_id":   siteID,
		"deceased_full_name": "Luis Ahumada",
		"date_of_death":      "2026-08-25",
	}, &second)
	var envelope errorEnvelope
	resp = env.do(t, http.MethodPost, fmt.Sprintf("/requests/%d/assign", second.ID), cemeteryBearer,
		map[string]any{"plot_id": plot.ID, "space_id": spaces[0].ID}, &envelope)
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("conflicting assign status = %d, want %d", resp.StatusCode, http.StatusConflict)
	}
	if envelope.Error != "SPACE_OCCUPIED" {
		t.Fatalf("error = %q, want SPACE_OCCUPIED", envelope.Error)
	}
}

func TestDeceasedAndMemorialOverHTTP(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	orgID, siteID := seedCemetery(t, env.store)
	plotTypeID := seedPlotType(t, env.store)
	bearer := env.issue(t, cemeterySession(orgID, siteID))

	var area nodeView
	env.do(t, http.MethodPost, "/site/areas", bearer, map[string]any{"name": "Jardín"}, &area)
	var sector nodeView
	env.do(t, http.MethodPost, fmt.Sprintf("/site/areas/%d/sectors", area.ID), bearer, map[string]any{"name": "S1"}, &sector)
	var subsector nodeView
	env.do(t, http.MethodPost, fmt.Sprintf("/site/sectors/%d/subsectors", sector.ID), bearer, map[string]any{"name": "C1"}, &subsector)
	var plot plotView
	env.do(t, http.MethodPost, fmt.Sprintf("/site/subsectors/%d/plots", subsector.ID), bearer,
		map[string]any{"plot_type_id": plotTypeID, "code": "D-7", "capacity_spaces": 1}, &plot)
	var spaces []spaceView
	env.do(t, http.MethodGet, fmt.Sprintf("/site/plots/%d/spaces", plot.ID), bearer, nil, &spaces)

	var record deceasedRecordView
	resp := env.do(t, http.MethodPost, "/site/deceased", bearer, map[string]any{
		"full_name":     "Pedro Soto Rojas",
		"rut":           "9.876.543-2",
		"date_of_death": "2026-07-30",
		"plot_id":       plot.ID,
		"space_id":      spaces[0].ID,
	}, &record)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create record status = %d, want %d", resp.StatusCode, http.StatusCreated)
	}
	if record.SpaceStatus != string(storage.SpaceOccupied) {
		t.Fatalf("record space status = %q, want OCCUPIED", record.SpaceStatus)
	}

	var filtered []deceasedRecordView
	resp = env.do(t, http.MethodGet, "/site/deceased?filter="+url.QueryEscape(`full_name = "Pedro Soto Rojas"`), bearer, nil, &filtered)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("filtered list status = %d, want %d", resp.StatusCode, http.StatusOK)
	}
	if len(filtered) != 1 {
		t.Fatalf("filtered = %d, want 1", len(filtered))
	}

	var envelope errorEnvelope
	resp = env.do(t, http.MethodGet, "/site/deceased?filter="+url.QueryEscape(`unknown_field = 1`), bearer, nil, &envelope)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("bad filter status = %d, want %d", resp.StatusCode, http.StatusBadRequest)
	}
	if envelope.Error != "INVALID_SEARCH_FILTER" {
		t.Fatalf("error = %q, want INVALID_SEARCH_FILTER", envelope.Error)
	}

	var memorial memorialView
	resp = env.do(t, http.MethodPost, fmt.Sprintf("/site/deceased/%d/memorial", record.ID), bearer,
		map[string]any{"headline": "Siempre en nuestra memoria"}, &memorial)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create memorial status = %d, want %d", resp.StatusCode, http.StatusCreated)
	}
	if memorial.Slug != "pedro-soto-rojas" {
		t.Fatalf("slug = %q, want pedro-soto-rojas", memorial.Slug)
	}

	// Unpublished memorials stay private.
	resp = env.do(t, http.MethodGet, "/public/memorials/pedro-soto-rojas", "", nil, nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("unpublished memorial status = %d, want %d", resp.StatusCode, http.StatusNotFound)
	}

	resp = env.do(t, http.MethodPut, fmt.Sprintf("/site/deceased/%d/memorial", record.ID), bearer, map[string]any{
		"headline":     "Siempre en nuestra memoria",
		"biography":    "Carpintero de Valparaíso.",
		"is_published": true,
	}, &memorial)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("publish memorial status = %d, want %d", resp.StatusCode, http.StatusOK)
	}

	var published memorialView
	resp = env.do(t, http.MethodGet, "/public/memorials/pedro-soto-rojas", "", nil, &published)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("published memorial status = %d, want %d", resp.StatusCode, http.StatusOK)
	}
	if !published.IsPublished || published.Biography != "Carpintero de Valparaíso." {
		t.Fatalf("published memorial = %+v, want published biography", published)
	}

	var results []deceasedMatchView
	resp = env.do(t, http.MethodGet, "/public/deceased?q=Soto", "", nil, &results)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("public search status = %d, want %d", resp.StatusCode, http.StatusOK)
	}
	if len(results) != 1 || results[0].PlotCode != "D-7" {
		t.Fatalf("search results = %+v, want one hit at plot D-7", results)
	}

	resp = env.do(t, http.MethodDelete, fmt.Sprintf("/site/deceased/%d", record.ID), bearer, nil, nil)
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("delete record status = %d, want %d", resp.StatusCode, http.StatusNoContent)
	}
	var freed spaceView
	env.do(t, http.MethodGet, fmt.Sprintf("/site/spaces/%d", spaces[0].ID), bearer, nil, &freed)
	if freed.Status != string(storage.SpaceAvailable) {
		t.Fatalf("space status = %q, want AVAILABLE after delete", freed.Status)
	}
}
