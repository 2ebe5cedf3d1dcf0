package httpapi

import (
	"net/http"

	"github.com/camposanto/camposanto/internal/directory"
	"github.com/camposanto/camposanto/internal/storage"
)

func (s *Server) handleCreateOrganization(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Kind string `json:"kind"`
		Name string `json:"name"`
		Slug string `json:"slug"`
	}
	if err := decodeJSON(r, &payload); err != nil {
		writeError(w, r, err)
		return
	}
	org, err := s.directory.CreateOrganization(r.Context(), directory.NewOrganization{
		Kind: payload.Kind,
		Name: payload.Name,
		Slug: payload.Slug,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, newOrganizationView(org))
}

func (s *Server) handleGetOrganization(w http.ResponseWriter, r *http.Request) {
	orgID, err := pathID(r, "orgID")
	if err != nil {
		writeError(w, r, err)
		return
	}
	org, err := s.directory.GetOrganization(r.Context(), orgID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newOrganizationView(org))
}

func (s *Server) handleListCemeteries(w http.ResponseWriter, r *http.Request) {
	orgs, err := s.directory.ListCemeteries(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newOrganizationViews(orgs))
}

func (s *Server) handleCreatePlan(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Code            string `json:"code"`
		Name            string `json:"name"`
		PriceMonthlyCLP int64  `json:"price_monthly_clp"`
		MaxSites        int    `json:"max_sites"`
	}
	if err := decodeJSON(r, &payload); err != nil {
		writeError(w, r, err)
		return
	}
	plan, err := s.directory.CreatePlan(r.Context(), storage.Plan{
		Code:            payload.Code,
		Name:            payload.Name,
		PriceMonthlyCLP: payload.PriceMonthlyCLP,
		MaxSites:        payload.MaxSites,
		IsActive:        true,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, newPlanView(plan))
}

func (s *Server) handleListPlans(w http.ResponseWriter, r *http.Request) {
	plans, err := s.directory.ListPlans(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	views := make([]planView, 0, len(plans))
	for _, plan := range plans {
		views = append(views, newPlanView(plan))
	}
	writeJSON(w, http.StatusOK, views)
}

func (s *Server) handleSubscribe(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		PlanID int64 `json:"plan_id"`
	}
	if err := decodeJSON(r, &payload); err != nil {
		writeError(w, r, err)
		return
	}
	sub, err := s.directory.Subscribe(r.Context(), sessionFrom(r).OrgID, payload.PlanID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, newSubscriptionView(sub))
}

func (s *Server) handleGetSubscription(w http.ResponseWriter, r *http.Request) {
	sub, err := s.directory.GetSubscription(r.Context(), sessionFrom(r).OrgID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newSubscriptionView(sub))
}

func (s *Server) handleCreateSite(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Code        string   `json:"code"`
		Name        string   `json:"name"`
		Description string   `json:"description"`
		Region      string   `json:"region"`
		Comuna      string   `json:"comuna"`
		Address     string   `json:"address"`
		Latitude    *float64 `json:"latitude"`
		Longitude   *float64 `json:"longitude"`
	}
	if err := decodeJSON(r, &payload); err != nil {
		writeError(w, r, err)
		return
	}
	site, err := s.directory.CreateSite(r.Context(), sessionFrom(r).OrgID, directory.NewSite{
		Code:        payload.Code,
		Name:        payload.Name,
		Description: payload.Description,
		Region:      payload.Region,
		Comuna:      payload.Comuna,
		Address:     payload.Address,
		Latitude:    payload.Latitude,
		Longitude:   payload.Longitude,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, newSiteView(site))
}

func (s *Server) handleListSites(w http.ResponseWriter, r *http.Request) {
	sites, err := s.directory.ListSites(r.Context(), sessionFrom(r).OrgID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	views := make([]siteView, 0, len(sites))
	for _, site := range sites {
		views = append(views, newSiteView(site))
	}
	writeJSON(w, http.StatusOK, views)
}

func (s *Server) handleGetSite(w http.ResponseWriter, r *http.Request) {
	siteID, err := pathID(r, "siteID")
	if err != nil {
		writeError(w, r, err)
		return
	}
	site, err := s.directory.GetSite(r.Context(), sessionFrom(r).OrgID, siteID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newSiteView(site))
}

func (s *Server) handleUpdateSite(w http.ResponseWriter, r *http.Request) {
	siteID, err := pathID(r, "siteID")
	if err != nil {
		writeError(w, r, err)
		return
	}
	var payload struct {
		Code        *string  `json:"code"`
		Name        *string  `json:"name"`
		Description *string  `json:"description"`
		Region      *string  `json:"region"`
		Comuna      *string  `json:"comuna"`
		Address     *string  `json:"address"`
		Latitude    *float64 `json:"latitude"`
		Longitude   *float64 `json:"longitude"`
		Status      *string  `json:"status"`
	}
	if err := decodeJSON(r, &payload); err != nil {
		writeError(w, r, err)
		return
	}
	site, err := s.directory.UpdateSite(r.Context(), sessionFrom(r).OrgID, siteID, storage.SitePatch{
		Code:        payload.Code,
		Name:        payload.Name,
		Description: payload.Description,
		Region:      payload.Region,
		Comuna:      payload.Comuna,
		Address:     payload.Address,
		Latitude:    payload.Latitude,
		Longitude:   payload.Longitude,
		Status:      payload.Status,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newSiteView(site))
}
