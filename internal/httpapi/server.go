// Package httpapi exposes the Camposanto services over a JSON HTTP API.
//
// The boundary verifies the bearer token once per request, builds the
// session, and enforces organization-kind and active-site guards before a
// handler runs. Handlers read tenant scope from the session, never from the
// URL, so a caller cannot address another tenant's tree.
package httpapi

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/camposanto/camposanto/internal/burial"
	"github.com/camposanto/camposanto/internal/cemetery"
	"github.com/camposanto/camposanto/internal/deceased"
	"github.com/camposanto/camposanto/internal/directory"
	apperrors "github.com/camposanto/camposanto/internal/platform/errors"
	"github.com/camposanto/camposanto/internal/platform/requestctx"
	"github.com/camposanto/camposanto/internal/storage"
)

// Server wires the domain services behind HTTP handlers.
type Server struct {
	tokens    sessionVerifier
	directory *directory.Service
	cemetery  *cemetery.Service
	burial    *burial.Service
	deceased  *deceased.Service
}

// NewServer builds a server over the given services.
func NewServer(tokens sessionVerifier, dir *directory.Service, cem *cemetery.Service, bur *burial.Service, dec *deceased.Service) *Server {
	return &Server{
		tokens:    tokens,
		directory: dir,
		cemetery:  cem,
		burial:    bur,
		deceased:  dec,
	}
}

// Handler returns the routed handler with the full middleware chain applied.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc(http.MethodGet+" /up", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	// Public routes: no session required.
	mux.HandleFunc(http.MethodGet+" /public/deceased", s.handlePublicSearch)
	mux.HandleFunc(http.MethodGet+" /public/memorials/{slug}", s.handlePublicMemorial)

	authed := func(h http.HandlerFunc, guards ...middleware) http.Handler {
		wrappers := append([]middleware{requireSession(s.tokens)}, guards...)
		return chain(h, wrappers...)
	}
	asCemetery := requireOrgKind(storage.OrgKindCemetery)
	asFuneral := requireOrgKind(storage.OrgKindFuneral)
	withSite := requireActiveSite()

	// Directory: organizations, plans, subscriptions.
	mux.Handle(http.MethodPost+" /orgs", authed(s.handleCreateOrganization))
	mux.Handle(http.MethodGet+" /orgs/{orgID}", authed(s.handleGetOrganization))
	mux.Handle(http.MethodGet+" /cemeteries", authed(s.handleListCemeteries))
	mux.Handle(http.MethodPost+" /plans", authed(s.handleCreatePlan))
	mux.Handle(http.MethodGet+" /plans", authed(s.handleListPlans))
	mux.Handle(http.MethodPost+" /subscription", authed(s.handleSubscribe))
	mux.Handle(http.MethodGet+" /subscription", authed(s.handleGetSubscription))

	// Sites: cemetery tenants only.
	mux.Handle(http.MethodPost+" /sites", authed(s.handleCreateSite, asCemetery))
	mux.Handle(http.MethodGet+" /sites", authed(s.handleListSites, asCemetery))
	mux.Handle(http.MethodGet+" /sites/{siteID}", authed(s.handleGetSite, asCemetery))
	mux.Handle(http.MethodPatch+" /sites/{siteID}", authed(s.handleUpdateSite, asCemetery))

	// Spatial hierarchy: scoped to the session's active site.
	mux.Handle(http.MethodGet+" /site/areas", authed(s.handleListAreas, asCemetery, withSite))
	mux.Handle(http.MethodPost+" /site/areas", authed(s.handleCreateArea, asCemetery, withSite))
	mux.Handle(http.MethodPatch+" /site/areas/{areaID}", authed(s.handleUpdateArea, asCemetery, withSite))
	mux.Handle(http.MethodDelete+" /site/areas/{areaID}", authed(s.handleDeleteArea, asCemetery, withSite))

	mux.Handle(http.MethodGet+" /site/areas/{areaID}/sectors", authed(s.handleListSectors, asCemetery, withSite))
	mux.Handle(http.MethodPost+" /site/areas/{areaID}/sectors", authed(s.handleCreateSector, asCemetery, withSite))
	mux.Handle(http.MethodPatch+" /site/sectors/{sectorID}", authed(s.handleUpdateSector, asCemetery, withSite))
	mux.Handle(http.MethodDelete+" /site/sectors/{sectorID}", authed(s.handleDeleteSector, asCemetery, withSite))

	mux.Handle(http.MethodGet+" /site/sectors/{sectorID}/subsectors", authed(s.handleListSubsectors, asCemetery, withSite))
	mux.Handle(http.MethodPost+" /site/sectors/{sectorID}/subsectors", authed(s.handleCreateSubsector, asCemetery, withSite))
	mux.Handle(http.MethodPatch+" /site/subsectors/{subsectorID}", authed(s.handleUpdateSubsector, asCemetery, withSite))
	mux.Handle(http.MethodDelete+" /site/subsectors/{subsectorID}", authed(s.handleDeleteSubsector, asCemetery, withSite))

	// Plots and spaces.
	mux.Handle(http.MethodGet+" /plot-types", authed(s.handleListPlotTypes))
	mux.Handle(http.MethodGet+" /site/subsectors/{subsectorID}/plots", authed(s.handleListPlots, asCemetery, withSite))
	mux.Handle(http.MethodPost+" /site/subsectors/{subsectorID}/plots", authed(s.handleCreatePlot, asCemetery, withSite))
	mux.Handle(http.MethodDelete+" /site/plots/{plotID}", authed(s.handleDeletePlot, asCemetery, withSite))
	mux.Handle(http.MethodGet+" /site/plots/{plotID}/spaces", authed(s.handleListSpaces, asCemetery, withSite))
	mux.Handle(http.MethodGet+" /site/spaces/{spaceID}", authed(s.handleGetSpace, asCemetery, withSite))
	mux.Handle(http.MethodPatch+" /site/spaces/{spaceID}", authed(s.handleSetSpaceStatus, asCemetery, withSite))

	mux.Handle(http.MethodGet+" /site/dashboard", authed(s.handleDashboard, asCemetery, withSite))

	// Burial requests: the funeral side submits, the cemetery side reviews.
	mux.Handle(http.MethodPost+" /requests", authed(s.handleSubmitRequest, asFuneral))
	mux.Handle(http.MethodGet+" /requests/outgoing", authed(s.handleListOutgoing, asFuneral))
	mux.Handle(http.MethodGet+" /requests/incoming", authed(s.handleListIncoming, asCemetery))
	mux.Handle(http.MethodPost+" /requests/{requestID}/review", authed(s.handleReviewRequest, asCemetery))
	mux.Handle(http.MethodPost+" /requests/{requestID}/assign", authed(s.handleAssignRequest, asCemetery, withSite))

	// Deceased records and memorials.
	mux.Handle(http.MethodPost+" /site/deceased", authed(s.handleCreateDeceased, asCemetery, withSite))
	mux.Handle(http.MethodGet+" /site/deceased", authed(s.handleListDeceased, asCemetery, withSite))
	mux.Handle(http.MethodGet+" /site/deceased/{recordID}", authed(s.handleGetDeceased, asCemetery, withSite))
	mux.Handle(http.MethodDelete+" /site/deceased/{recordID}", authed(s.handleDeleteDeceased, asCemetery, withSite))
	mux.Handle(http.MethodPost+" /site/deceased/{recordID}/memorial", authed(s.handleCreateMemorial, asCemetery, withSite))
	mux.Handle(http.MethodGet+" /site/deceased/{recordID}/memorial", authed(s.handleGetMemorial, asCemetery, withSite))
	mux.Handle(http.MethodPut+" /site/deceased/{recordID}/memorial", authed(s.handleUpdateMemorial, asCemetery, withSite))

	return chain(mux, recoverPanic(), withTracing(), withTimeout())
}

// sessionFrom returns the verified session. The middleware chain guarantees
// it is present on authenticated routes.
func sessionFrom(r *http.Request) requestctx.Session {
	session, _ := requestctx.SessionFromContext(r.Context())
	return session
}

// pathID parses a positive integer path segment.
func pathID(r *http.Request, name string) (int64, error) {
	raw := strings.TrimSpace(r.PathValue(name))
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, apperrors.New(apperrors.CodeInvalidID, "invalid "+name)
	}
	return id, nil
}
