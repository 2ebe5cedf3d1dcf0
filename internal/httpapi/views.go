package httpapi

import (
	"time"

	"github.com/camposanto/camposanto/internal/storage"
)

// Wire shapes for response payloads. Storage entities stay tag-free; the
// boundary owns the JSON field names.

type organizationView struct {
	ID        int64     `json:"id"`
	Kind      string    `json:"kind"`
	Name      string    `json:"name"`
	Slug      string    `json:"slug"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

func newOrganizationView(org storage.Organization) organizationView {
	return organizationView{
		ID:        org.ID,
		Kind:      string(org.Kind),
		Name:      org.Name,
		Slug:      org.Slug,
		Status:    org.Status,
		CreatedAt: org.CreatedAt,
	}
}

func newOrganizationViews(orgs []storage.Organization) []organizationView {
	views := make([]organizationView, 0, len(orgs))
	for _, org := range orgs {
		views = append(views, newOrganizationView(org))
	}
	return views
}

type planView struct {
	ID              int64  `json:"id"`
	Code            string `json:"code"`
	Name            string `json:"name"`
	PriceMonthlyCLP int64  `json:"price_monthly_clp"`
	MaxSites        int    `json:"max_sites"`
	IsActive        bool   `json:"is_active"`
}

func newPlanView(plan storage.Plan) planView {
	return planView{
		ID:              plan.ID,
		Code:            plan.Code,
		Name:            plan.Name,
		PriceMonthlyCLP: plan.PriceMonthlyCLP,
		MaxSites:        plan.MaxSites,
		IsActive:        plan.IsActive,
	}
}

type subscriptionView struct {
	ID             int64     `json:"id"`
	OrganizationID int64     `json:"organization_id"`
	PlanID         int64     `json:"plan_id"`
	PlanCode       string    `json:"plan_code"`
	PlanName       string    `json:"plan_name"`
	Status         string    `json:"status"`
	StartedAt      time.Time `json:"started_at"`
}

func newSubscriptionView(sub storage.Subscription) subscriptionView {
	return subscriptionView{
		ID:             sub.ID,
		OrganizationID: sub.OrganizationID,
		PlanID:         sub.PlanID,
		PlanCode:       sub.PlanCode,
		PlanName:       sub.PlanName,
		Status:         sub.Status,
		StartedAt:      sub.StartedAt,
	}
}

type siteView struct {
	ID             int64     `json:"id"`
	OrganizationID int64     `json:"organization_id"`
	Code           string    `json:"code,omitempty"`
	Name           string    `json:"name"`
	Description    string    `json:"description,omitempty"`
	Region         string    `json:"region,omitempty"`
	Comuna         string    `json:"comuna,omitempty"`
	Address        string    `json:"address,omitempty"`
	Latitude       *float64  `json:"latitude,omitempty"`
	Longitude      *float64  `json:"longitude,omitempty"`
	Status         string    `json:"status"`
	CreatedAt      time.Time `json:"created_at"`
}

func newSiteView(site storage.Site) siteView {
	return siteView{
		ID:             site.ID,
		OrganizationID: site.OrganizationID,
		Code:           site.Code,
		Name:           site.Name,
		Description:    site.Description,
		Region:         site.Region,
		Comuna:         site.Comuna,
		Address:        site.Address,
		Latitude:       site.Latitude,
		Longitude:      site.Longitude,
		Status:         site.Status,
		CreatedAt:      site.CreatedAt,
	}
}

type nodeView struct {
	ID          int64     `json:"id"`
	ParentID    int64     `json:"parent_id"`
	Code        string    `json:"code,omitempty"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
}

func newAreaView(area storage.Area) nodeView {
	return nodeView{
		ID:          area.ID,
		ParentID:    area.SiteID,
		Code:        area.Code,
		Name:        area.Name,
		Description: area.Description,
		IsActive:    area.IsActive,
		CreatedAt:   area.CreatedAt,
	}
}

func newSectorView(sector storage.Sector) nodeView {
	return nodeView{
		ID:          sector.ID,
		ParentID:    sector.AreaID,
		Code:        sector.Code,
		Name:        sector.Name,
		Description: sector.Description,
		IsActive:    sector.IsActive,
		CreatedAt:   sector.CreatedAt,
	}
}

func newSubsectorView(subsector storage.Subsector) nodeView {
	return nodeView{
		ID:          subsector.ID,
		ParentID:    subsector.SectorID,
		Code:        subsector.Code,
		Name:        subsector.Name,
		Description: subsector.Description,
		IsActive:    subsector.IsActive,
		CreatedAt:   subsector.CreatedAt,
	}
}

type plotTypeView struct {
	ID                    int64  `json:"id"`
	Code                  string `json:"code"`
	Name                  string `json:"name"`
	DefaultCapacitySpaces int    `json:"default_capacity_spaces"`
	Description           string `json:"description,omitempty"`
}

func newPlotTypeView(plotType storage.PlotType) plotTypeView {
	return plotTypeView{
		ID:                    plotType.ID,
		Code:                  plotType.Code,
		Name:                  plotType.Name,
		DefaultCapacitySpaces: plotType.DefaultCapacitySpaces,
		Description:           plotType.Description,
	}
}

type plotView struct {
	ID             int64     `json:"id"`
	SubsectorID    int64     `json:"subsector_id"`
	PlotTypeID     int64     `json:"plot_type_id"`
	PlotTypeCode   string    `json:"plot_type_code"`
	PlotTypeName   string    `json:"plot_type_name"`
	Code           string    `json:"code"`
	RowLabel       string    `json:"row_label,omitempty"`
	ColumnLabel    string    `json:"column_label,omitempty"`
	CapacitySpaces int       `json:"capacity_spaces"`
	IsActive       bool      `json:"is_active"`
	Notes          string    `json:"notes,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}

func newPlotView(plot storage.Plot) plotView {
	return plotView{
		ID:             plot.ID,
		SubsectorID:    plot.SubsectorID,
		PlotTypeID:     plot.PlotTypeID,
		PlotTypeCode:   plot.PlotTypeCode,
		PlotTypeName:   plot.PlotTypeName,
		Code:           plot.Code,
		RowLabel:       plot.RowLabel,
		ColumnLabel:    plot.ColumnLabel,
		CapacitySpaces: plot.CapacitySpaces,
		IsActive:       plot.IsActive,
		Notes:          plot.Notes,
		CreatedAt:      plot.CreatedAt,
	}
}

type spaceView struct {
	ID        int64     `json:"id"`
	PlotID    int64     `json:"plot_id"`
	Position  int       `json:"position"`
	Status    string    `json:"status"`
	Notes     string    `json:"notes,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

func newSpaceView(space storage.Space) spaceView {
	return spaceView{
		ID:        space.ID,
		PlotID:    space.PlotID,
		Position:  space.Position,
		Status:    string(space.Status),
		Notes:     space.Notes,
		CreatedAt: space.CreatedAt,
	}
}

type burialRequestView struct {
	ID                  int64     `json:"id"`
	FuneralOrgID        int64     `json:"funeral_org_id"`
	CemeteryOrgID       int64     `json:"cemetery_org_id"`
	CemeterySiteID      int64     `json:"cemetery_site_id"`
	DeceasedFullName    string    `json:"deceased_full_name"`
	DateOfDeath         string    `json:"date_of_death,omitempty"`
	RequestedPlotTypeID *int64    `json:"requested_plot_type_id,omitempty"`
	RequestedDate       string    `json:"requested_date,omitempty"`
	Status              string    `json:"status"`
	AssignedPlotID      *int64    `json:"assigned_plot_id,omitempty"`
	AssignedSpaceID     *int64    `json:"assigned_space_id,omitempty"`
	Notes               string    `json:"notes,omitempty"`
	CreatedAt           time.Time `json:"created_at"`
	FuneralName         string    `json:"funeral_name,omitempty"`
	CemeteryName        string    `json:"cemetery_name,omitempty"`
	CemeterySiteName    string    `json:"cemetery_site_name,omitempty"`
}

func newBurialRequestView(request storage.BurialRequest) burialRequestView {
	return burialRequestView{
		ID:                  request.ID,
		FuneralOrgID:        request.FuneralOrgID,
		CemeteryOrgID:       request.CemeteryOrgID,
		CemeterySiteID:      request.CemeterySiteID,
		DeceasedFullName:    request.DeceasedFullName,
		DateOfDeath:         request.DateOfDeath,
		RequestedPlotTypeID: request.RequestedPlotTypeID,
		RequestedDate:       request.RequestedDate,
		Status:              string(request.Status),
		AssignedPlotID:      request.AssignedPlotID,
		AssignedSpaceID:     request.AssignedSpaceID,
		Notes:               request.Notes,
		CreatedAt:           request.CreatedAt,
		FuneralName:         request.FuneralName,
		CemeteryName:        request.CemeteryName,
		CemeterySiteName:    request.CemeterySiteName,
	}
}

func newBurialRequestViews(requests []storage.BurialRequest) []burialRequestView {
	views := make([]burialRequestView, 0, len(requests))
	for _, request := range requests {
		views = append(views, newBurialRequestView(request))
	}
	return views
}

type deceasedRecordView struct {
	ID            int64     `json:"id"`
	FullName      string    `json:"full_name"`
	RUT           string    `json:"rut,omitempty"`
	DateOfBirth   string    `json:"date_of_birth,omitempty"`
	DateOfDeath   string    `json:"date_of_death,omitempty"`
	Notes         string    `json:"notes,omitempty"`
	PlotID        int64     `json:"plot_id"`
	SpaceID       *int64    `json:"space_id,omitempty"`
	SiteID        int64     `json:"site_id"`
	CreatedAt     time.Time `json:"created_at"`
	PlotCode      string    `json:"plot_code,omitempty"`
	SpaceStatus   string    `json:"space_status,omitempty"`
	SpacePosition int       `json:"space_position,omitempty"`
	AreaName      string    `json:"area_name,omitempty"`
	SectorName    string    `json:"sector_name,omitempty"`
	SubsectorName string    `json:"subsector_name,omitempty"`
}

func newDeceasedRecordView(record storage.DeceasedRecord) deceasedRecordView {
	return deceasedRecordView{
		ID:            record.ID,
		FullName:      record.FullName,
		RUT:           record.RUT,
		DateOfBirth:   record.DateOfBirth,
		DateOfDeath:   record.DateOfDeath,
		Notes:         record.Notes,
		PlotID:        record.PlotID,
		SpaceID:       record.SpaceID,
		SiteID:        record.SiteID,
		CreatedAt:     record.CreatedAt,
		PlotCode:      record.PlotCode,
		SpaceStatus:   string(record.SpaceStatus),
		SpacePosition: record.SpacePosition,
		AreaName:      record.AreaName,
		SectorName:    record.SectorName,
		SubsectorName: record.SubsectorName,
	}
}

type deceasedMatchView struct {
	ID            int64  `json:"id"`
	FullName      string `json:"full_name"`
	DateOfDeath   string `json:"date_of_death,omitempty"`
	CemeteryName  string `json:"cemetery_name"`
	SiteName      string `json:"site_name"`
	AreaName      string `json:"area_name,omitempty"`
	SectorName    string `json:"sector_name,omitempty"`
	SubsectorName string `json:"subsector_name,omitempty"`
	PlotCode      string `json:"plot_code,omitempty"`
}

func newDeceasedMatchViews(matches []storage.DeceasedMatch) []deceasedMatchView {
	views := make([]deceasedMatchView, 0, len(matches))
	for _, match := range matches {
		views = append(views, deceasedMatchView{
			ID:            match.ID,
			FullName:      match.FullName,
			DateOfDeath:   match.DateOfDeath,
			CemeteryName:  match.CemeteryName,
			SiteName:      match.SiteName,
			AreaName:      match.AreaName,
			SectorName:    match.SectorName,
			SubsectorName: match.SubsectorName,
			PlotCode:      match.PlotCode,
		})
	}
	return views
}

type memorialView struct {
	ID               int64     `json:"id"`
	DeceasedRecordID int64     `json:"deceased_record_id"`
	Slug             string    `json:"slug"`
	Headline         string    `json:"headline,omitempty"`
	Biography        string    `json:"biography,omitempty"`
	IsPublished      bool      `json:"is_published"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

func newMemorialView(memorial storage.Memorial) memorialView {
	return memorialView{
		ID:               memorial.ID,
		DeceasedRecordID: memorial.DeceasedRecordID,
		Slug:             memorial.Slug,
		Headline:         memorial.Headline,
		Biography:        memorial.Biography,
		IsPublished:      memorial.IsPublished,
		CreatedAt:        memorial.CreatedAt,
		UpdatedAt:        memorial.UpdatedAt,
	}
}

type dashboardView struct {
	Areas      int             `json:"areas"`
	Sectors    int             `json:"sectors"`
	Subsectors int             `json:"subsectors"`
	Plots      int             `json:"plots"`
	Spaces     spaceCountsView `json:"spaces"`
}

type spaceCountsView struct {
	Available int `json:"available"`
	Reserved  int `json:"reserved"`
	Occupied  int `json:"occupied"`
	Locked    int `json:"locked"`
}

func newDashboardView(counts storage.DashboardCounts) dashboardView {
	return dashboardView{
		Areas:      counts.Areas,
		Sectors:    counts.Sectors,
		Subsectors: counts.Subsectors,
		Plots:      counts.Plots,
		Spaces: spaceCountsView{
			Available: counts.Spaces.Available,
			Reserved:  counts.Spaces.Reserved,
			Occupied:  counts.Spaces.Occupied,
			Locked:    counts.Spaces.Locked,
		},
	}
}
