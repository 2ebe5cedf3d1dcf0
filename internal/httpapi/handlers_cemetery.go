package httpapi

import (
	"net/http"

	"github.com/camposanto/camposanto/internal/cemetery"
	"github.com/camposanto/camposanto/internal/storage"
)

// nodePayload is the request shape for hierarchy node creation.
type nodePayload struct {
	Code        string `json:"code"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// nodePatchPayload is the request shape for hierarchy node updates. Absent
// fields are left untouched.
type nodePatchPayload struct {
	Code        *string `json:"code"`
	Name        *string `json:"name"`
	Description *string `json:"description"`
	IsActive    *bool   `json:"is_active"`
}

func (p nodePatchPayload) patch() storage.NodePatch {
	return storage.NodePatch{
		Code:        p.Code,
		Name:        p.Name,
		Description: p.Description,
		IsActive:    p.IsActive,
	}
}

func (s *Server) handleListAreas(w http.ResponseWriter, r *http.Request) {
	areas, err := s.cemetery.ListAreas(r.Context(), sessionFrom(r).ActiveSite)
	if err != nil {
		writeError(w, r, err)
		return
	}
	views := make([]nodeView, 0, len(areas))
	for _, area := range areas {
		views = append(views, newAreaView(area))
	}
	writeJSON(w, http.StatusOK, views)
}

func (s *Server) handleCreateArea(w http.ResponseWriter, r *http.Request) {
	var payload nodePayload
	if err := decodeJSON(r, &payload); err != nil {
		writeError(w, r, err)
		return
	}
	area, err := s.cemetery.CreateArea(r.Context(), sessionFrom(r).ActiveSite, cemetery.NewNode{
		Code:        payload.Code,
		Name:        payload.Name,
		Description: payload.Description,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, newAreaView(area))
}

func (s *Server) handleUpdateArea(w http.ResponseWriter, r *http.Request) {
	areaID, err := pathID(r, "areaID")
	if err != nil {
		writeError(w, r, err)
		return
	}
	var payload nodePatchPayload
	if err := decodeJSON(r, &payload); err != nil {
		writeError(w, r, err)
		return
	}
	area, err := s.cemetery.UpdateArea(r.Context(), sessionFrom(r).ActiveSite, areaID, payload.patch())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newAreaView(area))
}

func (s *Server) handleDeleteArea(w http.ResponseWriter, r *http.Request) {
	areaID, err := pathID(r, "areaID")
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := s.cemetery.DeleteArea(r.Context(), sessionFrom(r).ActiveSite, areaID); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleListSectors(w http.ResponseWriter, r *http.Request) {
	areaID, err := pathID(r, "areaID")
	if err != nil {
		writeError(w, r, err)
		return
	}
	sectors, err := s.cemetery.ListSectors(r.Context(), sessionFrom(r).ActiveSite, areaID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	views := make([]nodeView, 0, len(sectors))
	for _, sector := range sectors {
		views = append(views, newSectorView(sector))
	}
	writeJSON(w, http.StatusOK, views)
}

func (s *Server) handleCreateSector(w http.ResponseWriter, r *http.Request) {
	areaID, err := pathID(r, "areaID")
	if err != nil {
		writeError(w, r, err)
		return
	}
	var payload nodePayload
	if err := decodeJSON(r, &payload); err != nil {
		writeError(w, r, err)
		return
	}
	sector, err := s.cemetery.CreateSector(r.Context(), sessionFrom(r).ActiveSite, areaID, cemetery.NewNode{
		Code:        payload.Code,
		Name:        payload.Name,
		Description: payload.Description,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, newSectorView(sector))
}

func (s *Server) handleUpdateSector(w http.ResponseWriter, r *http.Request) {
	sectorID, err := pathID(r, "sectorID")
	if err != nil {
		writeError(w, r, err)
		return
	}
	var payload nodePatchPayload
	if err := decodeJSON(r, &payload); err != nil {
		writeError(w, r, err)
		return
	}
	sector, err := s.cemetery.UpdateSector(r.Context(), sessionFrom(r).ActiveSite, sectorID, payload.patch())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newSectorView(sector))
}

func (s *Server) handleDeleteSector(w http.ResponseWriter, r *http.Request) {
	sectorID, err := pathID(r, "sectorID")
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := s.cemetery.DeleteSector(r.Context(), sessionFrom(r).ActiveSite, sectorID); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleListSubsectors(w http.ResponseWriter, r *http.Request) {
	sectorID, err := pathID(r, "sectorID")
	if err != nil {
		writeError(w, r, err)
		return
	}
	subsectors, err := s.cemetery.ListSubsectors(r.Context(), sessionFrom(r).ActiveSite, sectorID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	views := make([]nodeView, 0, len(subsectors))
	for _, subsector := range subsectors {
		views = append(views, newSubsectorView(subsector))
	}
	writeJSON(w, http.StatusOK, views)
}

func (s *Server) handleCreateSubsector(w http.ResponseWriter, r *http.Request) {
	sectorID, err := pathID(r, "sectorID")
	if err != nil {
		writeError(w, r, err)
		return
	}
	var payload nodePayload
	if err := decodeJSON(r, &payload); err != nil {
		writeError(w, r, err)
		return
	}
	subsector, err := s.cemetery.CreateSubsector(r.Context(), sessionFrom(r).ActiveSite, sectorID, cemetery.NewNode{
		Code:        payload.Code,
		Name:        payload.Name,
		Description: payload.Description,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, newSubsectorView(subsector))
}

func (s *Server) handleUpdateSubsector(w http.ResponseWriter, r *http.Request) {
	subsectorID, err := pathID(r, "subsectorID")
	if err != nil {
		writeError(w, r, err)
		return
	}
	var payload nodePatchPayload
	if err := decodeJSON(r, &payload); err != nil {
		writeError(w, r, err)
		return
	}
	subsector, err := s.cemetery.UpdateSubsector(r.Context(), sessionFrom(r).ActiveSite, subsectorID, payload.patch())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newSubsectorView(subsector))
}

func (s *Server) handleDeleteSubsector(w http.ResponseWriter, r *http.Request) {
	subsectorID, err := pathID(r, "subsectorID")
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := s.cemetery.DeleteSubsector(r.Context(), sessionFrom(r).ActiveSite, subsectorID); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleListPlotTypes(w http.ResponseWriter, r *http.Request) {
	plotTypes, err := s.cemetery.ListPlotTypes(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	views := make([]plotTypeView, 0, len(plotTypes))
	for _, plotType := range plotTypes {
		views = append(views, newPlotTypeView(plotType))
	}
	writeJSON(w, http.StatusOK, views)
}

func (s *Server) handleListPlots(w http.ResponseWriter, r *http.Request) {
	subsectorID, err := pathID(r, "subsectorID")
	if err != nil {
		writeError(w, r, err)
		return
	}
	plots, err := s.cemetery.ListPlots(r.Context(), sessionFrom(r).ActiveSite, subsectorID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	views := make([]plotView, 0, len(plots))
	for _, plot := range plots {
		views = append(views, newPlotView(plot))
	}
	writeJSON(w, http.StatusOK, views)
}

func (s *Server) handleCreatePlot(w http.ResponseWriter, r *http.Request) {
	subsectorID, err := pathID(r, "subsectorID")
	if err != nil {
		writeError(w, r, err)
		return
	}
	var payload struct {
		PlotTypeID     int64  `json:"plot_type_id"`
		Code           string `json:"code"`
		RowLabel       string `json:"row_label"`
		ColumnLabel    string `json:"column_label"`
		CapacitySpaces int    `json:"capacity_spaces"`
		Notes          string `json:"notes"`
	}
	if err := decodeJSON(r, &payload); err != nil {
		writeError(w, r, err)
		return
	}
	plot, err := s.cemetery.CreatePlot(r.Context(), sessionFrom(r).ActiveSite, subsectorID, storage.NewPlot{
		PlotTypeID:     payload.PlotTypeID,
		Code:           payload.Code,
		RowLabel:       payload.RowLabel,
		ColumnLabel:    payload.ColumnLabel,
		CapacitySpaces: payload.CapacitySpaces,
		Notes:          payload.Notes,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, newPlotView(plot))
}

func (s *Server) handleDeletePlot(w http.ResponseWriter, r *http.Request) {
	plotID, err := pathID(r, "plotID")
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := s.cemetery.DeletePlot(r.Context(), sessionFrom(r).ActiveSite, plotID); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleListSpaces(w http.ResponseWriter, r *http.Request) {
	plotID, err := pathID(r, "plotID")
	if err != nil {
		writeError(w, r, err)
		return
	}
	spaces, err := s.cemetery.ListSpaces(r.Context(), sessionFrom(r).ActiveSite, plotID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	views := make([]spaceView, 0, len(spaces))
	for _, space := range spaces {
		views = append(views, newSpaceView(space))
	}
	writeJSON(w, http.StatusOK, views)
}

func (s *Server) handleGetSpace(w http.ResponseWriter, r *http.Request) {
	spaceID, err := pathID(r, "spaceID")
	if err != nil {
		writeError(w, r, err)
		return
	}
	space, err := s.cemetery.GetSpace(r.Context(), sessionFrom(r).ActiveSite, spaceID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newSpaceView(space))
}

func (s *Server) handleSetSpaceStatus(w http.ResponseWriter, r *http.Request) {
	spaceID, err := pathID(r, "spaceID")
	if err != nil {
		writeError(w, r, err)
		return
	}
	var payload struct {
		Status string  `json:"status"`
		Notes  *string `json:"notes"`
	}
	if err := decodeJSON(r, &payload); err != nil {
		writeError(w, r, err)
		return
	}
	space, err := s.cemetery.SetSpaceStatus(r.Context(), sessionFrom(r).ActiveSite, spaceID, payload.Status, payload.Notes)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newSpaceView(space))
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	counts, err := s.cemetery.Dashboard(r.Context(), sessionFrom(r).ActiveSite)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newDashboardView(counts))
}
