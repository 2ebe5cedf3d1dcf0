// Package storage defines persistence contracts for Camposanto state.
//
// All entities live in one relational database; the spatial containment tree
// (site → area → sector → subsector → plot → space) is the tenant isolation
// boundary, and every scoped lookup re-verifies ancestry up to the caller's
// site. A lookup that fails the ancestry check is indistinguishable from a
// missing row so existence never leaks across tenants.
package storage

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrNotFound indicates a requested record is missing or fails an
	// ancestry/ownership check.
	ErrNotFound = errors.New("record not found")
	// ErrAlreadyExists indicates a uniqueness-constrained record already exists.
	ErrAlreadyExists = errors.New("record already exists")
	// ErrPlotTypeNotFound indicates an unknown plot type reference.
	ErrPlotTypeNotFound = errors.New("plot type not found")
	// ErrPlotNotFound indicates a referenced plot is missing from the
	// caller's site during an allocation.
	ErrPlotNotFound = errors.New("plot not found")
	// ErrSpaceNotFound indicates a referenced space is missing from the
	// caller's site or plot during an allocation.
	ErrSpaceNotFound = errors.New("space not found")
	// ErrSpaceOccupied indicates a claim attempt against an OCCUPIED space.
	ErrSpaceOccupied = errors.New("space is occupied")
	// ErrSpaceLocked indicates a claim attempt against a LOCKED space.
	ErrSpaceLocked = errors.New("space is locked")
	// ErrOrgNotFound indicates a referenced organization is missing.
	ErrOrgNotFound = errors.New("organization not found")
	// ErrWrongOrgKind indicates an organization whose kind does not allow
	// the operation.
	ErrWrongOrgKind = errors.New("organization has the wrong kind")
	// ErrSiteMismatch indicates a burial request whose recorded site differs
	// from the caller's active site.
	ErrSiteMismatch = errors.New("request belongs to a different site")
)

// OrgKind distinguishes the two tenant kinds.
type OrgKind string

const (
	// OrgKindFuneral identifies a funeral home organization.
	OrgKindFuneral OrgKind = "FUNERARIA"
	// OrgKindCemetery identifies a cemetery organization.
	OrgKindCemetery OrgKind = "CEMENTERIO"
)

// Valid reports whether the kind is one of the two known tenant kinds.
func (k OrgKind) Valid() bool {
	return k == OrgKindFuneral || k == OrgKindCemetery
}

// SpaceStatus is the lifecycle state of one burial space.
type SpaceStatus string

const (
	SpaceAvailable SpaceStatus = "AVAILABLE"
	SpaceReserved  SpaceStatus = "RESERVED"
	SpaceOccupied  SpaceStatus = "OCCUPIED"
	SpaceLocked    SpaceStatus = "LOCKED"
)

// Valid reports whether the status is one of the four space states.
func (s SpaceStatus) Valid() bool {
	switch s {
	case SpaceAvailable, SpaceReserved, SpaceOccupied, SpaceLocked:
		return true
	}
	return false
}

// RequestStatus is the lifecycle state of one burial request.
type RequestStatus string

const (
	RequestPending  RequestStatus = "PENDING"
	RequestApproved RequestStatus = "APPROVED"
	RequestRejected RequestStatus = "REJECTED"
	RequestAssigned RequestStatus = "ASSIGNED"
)

// Organization is one tenant: a funeral home or a cemetery.
type Organization struct {
	ID        int64
	Kind      OrgKind
	Name      string
	Slug      string
	Status    string
	CreatedAt time.Time
}

// Plan is one subscription plan from the catalog.
type Plan struct {
	ID              int64
	Code            string
	Name            string
	PriceMonthlyCLP int64
	MaxSites        int
	IsActive        bool
}

// Subscription binds one organization to one plan.
type Subscription struct {
	ID             int64
	OrganizationID int64
	PlanID         int64
	PlanCode       string
	PlanName       string
	Status         string
	StartedAt      time.Time
}

// Site is one physical cemetery location, root of the spatial tree.
type Site struct {
	ID             int64
	OrganizationID int64
	Code           string
	Name           string
	Description    string
	Region         string
	Comuna         string
	Address        string
	Latitude       *float64
	Longitude      *float64
	Status         string
	CreatedAt      time.Time
}

// Area is a first-level subdivision of a site.
type Area struct {
	ID          int64
	SiteID      int64
	Code        string
	Name        string
	Description string
	IsActive    bool
	CreatedAt   time.Time
}

// Sector is a subdivision of an area.
type Sector struct {
	ID          int64
	AreaID      int64
	Code        string
	Name        string
	Description string
	IsActive    bool
	CreatedAt   time.Time
}

// Subsector is a subdivision of a sector.
type Subsector struct {
	ID          int64
	SectorID    int64
	Code        string
	Name        string
	Description string
	IsActive    bool
	CreatedAt   time.Time
}

// NodePatch is a partial update for one hierarchy node. Nil fields are left
// untouched.
type NodePatch struct {
	Code        *string
	Name        *string
	Description *string
	IsActive    *bool
}

// Empty reports whether the patch changes nothing.
func (p NodePatch) Empty() bool {
	return p.Code == nil && p.Name == nil && p.Description == nil && p.IsActive == nil
}

// SitePatch is a partial update for one site.
type SitePatch struct {
	Code        *string
	Name        *string
	Description *string
	Region      *string
	Comuna      *string
	Address     *string
	Latitude    *float64
	Longitude   *float64
	Status      *string
}

// PlotType is one entry of the plot type catalog.
type PlotType struct {
	ID                    int64
	Code                  string
	Name                  string
	DefaultCapacitySpaces int
	Description           string
	CreatedAt             time.Time
}

// Plot is one purchasable burial unit inside a subsector.
type Plot struct {
	ID             int64
	SubsectorID    int64
	PlotTypeID     int64
	PlotTypeCode   string
	PlotTypeName   string
	Code           string
	RowLabel       string
	ColumnLabel    string
	CapacitySpaces int
	IsActive       bool
	Notes          string
	CreatedAt      time.Time
}

// NewPlot carries the caller-supplied fields for plot creation.
type NewPlot struct {
	PlotTypeID     int64
	Code           string
	RowLabel       string
	ColumnLabel    string
	CapacitySpaces int
	Notes          string
}

// Space is one interment slot within a plot, the unit of occupancy.
type Space struct {
	ID        int64
	PlotID    int64
	Position  int
	Status    SpaceStatus
	Notes     string
	CreatedAt time.Time
}

// BurialRequest spans two tenants: a funeral organization asking a cemetery
// organization to allocate a space at one of its sites.
type BurialRequest struct {
	ID                  int64
	FuneralOrgID        int64
	CemeteryOrgID       int64
	CemeterySiteID      int64
	DeceasedFullName    string
	DateOfDeath         string
	RequestedPlotTypeID *int64
	RequestedDate       string
	Status              RequestStatus
	AssignedPlotID      *int64
	AssignedSpaceID     *int64
	Notes               string
	CreatedAt           time.Time

	// Joined display fields, populated by list queries.
	FuneralName      string
	CemeteryName     string
	CemeterySiteName string
}

// NewBurialRequest carries the caller-supplied fields for request creation.
type NewBurialRequest struct {
	CemeteryOrgID       int64
	CemeterySiteID      int64
	DeceasedFullName    string
	DateOfDeath         string
	RequestedPlotTypeID *int64
	RequestedDate       string
	Notes               string
}

// DeceasedRecord is one cemetery-side record of an interred person.
type DeceasedRecord struct {
	ID             int64
	FullName       string
	RUT            string
	DateOfBirth    string
	DateOfDeath    string
	Notes          string
	PlotID         int64
	SpaceID        *int64
	OrganizationID int64
	SiteID         int64
	CreatedAt      time.Time

	// Joined display fields, populated by list and get queries.
	PlotCode      string
	SpaceStatus   SpaceStatus
	SpacePosition int
	AreaName      string
	SectorName    string
	SubsectorName string
}

// NewDeceasedRecord carries the caller-supplied fields for record creation.
type NewDeceasedRecord struct {
	FullName    string
	RUT         string
	DateOfBirth string
	DateOfDeath string
	Notes       string
	PlotID      int64
	SpaceID     *int64
}

// DeceasedMatch is one public search hit.
type DeceasedMatch struct {
	ID            int64
	FullName      string
	DateOfDeath   string
	CemeteryName  string
	SiteName      string
	AreaName      string
	SectorName    string
	SubsectorName string
	PlotCode      string
}

// DeceasedCondition narrows a deceased-record listing with a pre-translated
// SQL fragment. Column names are validated by the translator before they
// reach the store.
type DeceasedCondition struct {
	Clause string
	Params []any
}

// Memorial is one public memorial page bound to a deceased record.
type Memorial struct {
	ID               int64
	DeceasedRecordID int64
	Slug             string
	Headline         string
	Biography        string
	IsPublished      bool
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// SpaceCounts is the per-status space histogram for one site.
type SpaceCounts struct {
	Available int
	Reserved  int
	Occupied  int
	Locked    int
}

// DashboardCounts is the read-only rollup for one site.
type DashboardCounts struct {
	Areas      int
	Sectors    int
	Subsectors int
	Plots      int
	Spaces     SpaceCounts
}

// OrganizationStore persists tenants.
type OrganizationStore interface {
	CreateOrganization(ctx context.Context, org Organization) (Organization, error)
	GetOrganization(ctx context.Context, id int64) (Organization, error)
	ListOrganizationsByKind(ctx context.Context, kind OrgKind) ([]Organization, error)
}

// PlanStore persists the plan catalog and organization subscriptions.
type PlanStore interface {
	CreatePlan(ctx context.Context, plan Plan) (Plan, error)
	ListActivePlans(ctx context.Context) ([]Plan, error)
	SubscribeOrganization(ctx context.Context, orgID, planID int64) (Subscription, error)
	GetSubscription(ctx context.Context, orgID int64) (Subscription, error)
}

// SiteStore persists cemetery sites.
type SiteStore interface {
	CreateSite(ctx context.Context, site Site) (Site, error)
	GetSiteForOrganization(ctx context.Context, orgID, siteID int64) (Site, error)
	ListSitesByOrganization(ctx context.Context, orgID int64) ([]Site, error)
	UpdateSite(ctx context.Context, orgID, siteID int64, patch SitePatch) (Site, error)
}

// StructureStore persists the area/sector/subsector hierarchy. Every
// operation verifies ancestry up to the given site before touching a row.
type StructureStore interface {
	ListAreas(ctx context.Context, siteID int64) ([]Area, error)
	CreateArea(ctx context.Context, siteID int64, area Area) (Area, error)
	UpdateArea(ctx context.Context, siteID, areaID int64, patch NodePatch) (Area, error)
	DeleteArea(ctx context.Context, siteID, areaID int64) error

	ListSectors(ctx context.Context, siteID, areaID int64) ([]Sector, error)
	CreateSector(ctx context.Context, siteID, areaID int64, sector Sector) (Sector, error)
	UpdateSector(ctx context.Context, siteID, sectorID int64, patch NodePatch) (Sector, error)
	DeleteSector(ctx context.Context, siteID, sectorID int64) error

	ListSubsectors(ctx context.Context, siteID, sectorID int64) ([]Subsector, error)
	CreateSubsector(ctx context.Context, siteID, sectorID int64, subsector Subsector) (Subsector, error)
	UpdateSubsector(ctx context.Context, siteID, subsectorID int64, patch NodePatch) (Subsector, error)
	DeleteSubsector(ctx context.Context, siteID, subsectorID int64) error
}

// PlotStore persists plots and their bulk-created spaces.
type PlotStore interface {
	ListPlotTypes(ctx context.Context) ([]PlotType, error)
	EnsurePlotType(ctx context.Context, plotType PlotType) (PlotType, error)
	// CreatePlot inserts the plot and one AVAILABLE space per position
	// 1..capacity in a single transaction.
	CreatePlot(ctx context.Context, siteID, subsectorID int64, plot NewPlot) (Plot, error)
	ListPlots(ctx context.Context, siteID, subsectorID int64) ([]Plot, error)
	DeletePlot(ctx context.Context, siteID, plotID int64) error
}

// SpaceStore persists space state.
type SpaceStore interface {
	ListSpaces(ctx context.Context, siteID, plotID int64) ([]Space, error)
	// GetSpaceInSite resolves a space under the site's containment tree,
	// optionally constrained to one plot.
	GetSpaceInSite(ctx context.Context, siteID, spaceID int64, plotID *int64) (Space, error)
	// UpdateSpaceStatus applies a status (and, when non-nil, notes) to a
	// space after the ancestry check. It performs no transition check; the
	// claim/release discipline lives in the higher-level flows.
	UpdateSpaceStatus(ctx context.Context, siteID, spaceID int64, status SpaceStatus, notes *string) (Space, error)
}

// BurialRequestStore persists the cross-tenant request pipeline.
type BurialRequestStore interface {
	CreateBurialRequest(ctx context.Context, funeralOrgID int64, request NewBurialRequest) (BurialRequest, error)
	ListBurialRequestsForFuneralOrg(ctx context.Context, funeralOrgID int64) ([]BurialRequest, error)
	ListBurialRequestsForCemeteryOrg(ctx context.Context, cemeteryOrgID int64, siteID *int64) ([]BurialRequest, error)
	// SetBurialRequestStatus moves a request owned by the cemetery org to
	// APPROVED or REJECTED. A non-nil reason replaces notes; nil keeps them.
	SetBurialRequestStatus(ctx context.Context, cemeteryOrgID, requestID int64, status RequestStatus, reason *string) (BurialRequest, error)
	// AssignPlot validates ownership, site, plot and space inside one
	// transaction, marks the request ASSIGNED and the space OCCUPIED.
	// A failure at any step leaves both untouched.
	AssignPlot(ctx context.Context, cemeteryOrgID, siteID, requestID, plotID, spaceID int64) (BurialRequest, error)
}

// DeceasedStore persists deceased records and their space claims.
type DeceasedStore interface {
	// CreateDeceasedRecord inserts the record and, when it references a
	// space, flips that space to OCCUPIED in the same transaction.
	CreateDeceasedRecord(ctx context.Context, orgID, siteID int64, record NewDeceasedRecord) (DeceasedRecord, error)
	ListDeceasedRecords(ctx context.Context, orgID, siteID int64, cond DeceasedCondition) ([]DeceasedRecord, error)
	GetDeceasedRecord(ctx context.Context, orgID, siteID, recordID int64) (DeceasedRecord, error)
	// DeleteDeceasedRecord removes the record and releases its space back
	// to AVAILABLE in the same transaction.
	DeleteDeceasedRecord(ctx context.Context, orgID, siteID, recordID int64) error
	SearchDeceasedPublic(ctx context.Context, term string, limit int) ([]DeceasedMatch, error)
}

// MemorialStore persists public memorial pages.
type MemorialStore interface {
	CreateMemorial(ctx context.Context, memorial Memorial) (Memorial, error)
	GetMemorialForRecord(ctx context.Context, recordID int64) (Memorial, error)
	GetPublishedMemorialBySlug(ctx context.Context, slug string) (Memorial, error)
	UpdateMemorial(ctx context.Context, memorial Memorial) (Memorial, error)
}

// DashboardStore serves read-only rollups.
type DashboardStore interface {
	GetSiteDashboard(ctx context.Context, siteID int64) (DashboardCounts, error)
}
