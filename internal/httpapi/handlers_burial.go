package httpapi

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/camposanto/camposanto/internal/burial"
	apperrors "github.com/camposanto/camposanto/internal/platform/errors"
)

func (s *Server) handleSubmitRequest(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		CemeteryOrgID       int64  `json:"cemetery_org_id"`
		CemeterySiteID      int64  `json:"cemetery_site_id"`
		DeceasedFullName    string `json:"deceased_full_name"`
		DateOfDeath         string `json:"date_of_death"`
		RequestedPlotTypeID *int64 `json:"requested_plot_type_id"`
		RequestedDate       string `json:"requested_date"`
		Notes               string `json:"notes"`
	}
	if err := decodeJSON(r, &payload); err != nil {
		writeError(w, r, err)
		return
	}
	request, err := s.burial.Submit(r.Context(), sessionFrom(r).OrgID, burial.Submission{
		CemeteryOrgID:       payload.CemeteryOrgID,
		CemeterySiteID:      payload.CemeterySiteID,
		DeceasedFullName:    payload.DeceasedFullName,
		DateOfDeath:         payload.DateOfDeath,
		RequestedPlotTypeID: payload.RequestedPlotTypeID,
		RequestedDate:       payload.RequestedDate,
		Notes:               payload.Notes,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, newBurialRequestView(request))
}

func (s *Server) handleListOutgoing(w http.ResponseWriter, r *http.Request) {
	requests, err := s.burial.ListOutgoing(r.Context(), sessionFrom(r).OrgID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newBurialRequestViews(requests))
}

func (s *Server) handleListIncoming(w http.ResponseWriter, r *http.Request) {
	var siteID *int64
	if raw := strings.TrimSpace(r.URL.Query().Get("site_id")); raw != "" {
		parsed, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || parsed <= 0 {
			writeError(w, r, apperrors.New(apperrors.CodeInvalidID, "invalid site_id"))
			return
		}
		siteID = &parsed
	}
	requests, err := s.burial.ListIncoming(r.Context(), sessionFrom(r).OrgID, siteID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newBurialRequestViews(requests))
}

func (s *Server) handleReviewRequest(w http.ResponseWriter, r *http.Request) {
	requestID, err := pathID(r, "requestID")
	if err != nil {
		writeError(w, r, err)
		return
	}
	var payload struct {
		Outcome string  `json:"outcome"`
		Reason  *string `json:"reason"`
	}
	if err := decodeJSON(r, &payload); err != nil {
		writeError(w, r, err)
		return
	}
	request, err := s.burial.Review(r.Context(), sessionFrom(r).OrgID, requestID, payload.Outcome, payload.Reason)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newBurialRequestView(request))
}

func (s *Server) handleAssignRequest(w http.ResponseWriter, r *http.Request) {
	requestID, err := pathID(r, "requestID")
	if err != nil {
		writeError(w, r, err)
		return
	}
	var payload struct {
		PlotID  int64 `json:"plot_id"`
		SpaceID int64 `json:"space_id"`
	}
	if err := decodeJSON(r, &payload); err != nil {
		writeError(w, r, err)
		return
	}
	session := sessionFrom(r)
	request, err := s.burial.Assign(r.Context(), session.OrgID, session.ActiveSite, requestID, payload.PlotID, payload.SpaceID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newBurialRequestView(request))
}
