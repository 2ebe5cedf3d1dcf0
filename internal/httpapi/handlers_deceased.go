package httpapi

import (
	"net/http"

	"github.com/camposanto/camposanto/internal/deceased"
	"github.com/camposanto/camposanto/internal/storage"
)

func (s *Server) handleCreateDeceased(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		FullName    string `json:"full_name"`
		RUT         string `json:"rut"`
		DateOfBirth string `json:"date_of_birth"`
		DateOfDeath string `json:"date_of_death"`
		Notes       string `json:"notes"`
		PlotID      int64  `json:"plot_id"`
		SpaceID     *int64 `json:"space_id"`
	}
	if err := decodeJSON(r, &payload); err != nil {
		writeError(w, r, err)
		return
	}
	session := sessionFrom(r)
	record, err := s.deceased.Create(r.Context(), session.OrgID, session.ActiveSite, deceased.NewRecord{
		FullName:    payload.FullName,
		RUT:         payload.RUT,
		DateOfBirth: payload.DateOfBirth,
		DateOfDeath: payload.DateOfDeath,
		Notes:       payload.Notes,
		PlotID:      payload.PlotID,
		SpaceID:     payload.SpaceID,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, newDeceasedRecordView(record))
}

func (s *Server) handleListDeceased(w http.ResponseWriter, r *http.Request) {
	session := sessionFrom(r)
	records, err := s.deceased.List(r.Context(), session.OrgID, session.ActiveSite, r.URL.Query().Get("filter"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	views := make([]deceasedRecordView, 0, len(records))
	for _, record := range records {
		views = append(views, newDeceasedRecordView(record))
	}
	writeJSON(w, http.StatusOK, views)
}

func (s *Server) handleGetDeceased(w http.ResponseWriter, r *http.Request) {
	recordID, err := pathID(r, "recordID")
	if err != nil {
		writeError(w, r, err)
		return
	}
	session := sessionFrom(r)
	record, err := s.deceased.Get(r.Context(), session.OrgID, session.ActiveSite, recordID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newDeceasedRecordView(record))
}

func (s *Server) handleDeleteDeceased(w http.ResponseWriter, r *http.Request) {
	recordID, err := pathID(r, "recordID")
	if err != nil {
		writeError(w, r, err)
		return
	}
	session := sessionFrom(r)
	if err := s.deceased.Delete(r.Context(), session.OrgID, session.ActiveSite, recordID); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleCreateMemorial(w http.ResponseWriter, r *http.Request) {
	recordID, err := pathID(r, "recordID")
	if err != nil {
		writeError(w, r, err)
		return
	}
	var payload struct {
		Slug      string `json:"slug"`
		Headline  string `json:"headline"`
		Biography string `json:"biography"`
	}
	if err := decodeJSON(r, &payload); err != nil {
		writeError(w, r, err)
		return
	}
	session := sessionFrom(r)
	memorial, err := s.deceased.CreateMemorial(r.Context(), session.OrgID, session.ActiveSite, recordID, deceased.NewMemorial{
		Slug:      payload.Slug,
		Headline:  payload.Headline,
		Biography: payload.Biography,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, newMemorialView(memorial))
}

func (s *Server) handleGetMemorial(w http.ResponseWriter, r *http.Request) {
	recordID, err := pathID(r, "recordID")
	if err != nil {
		writeError(w, r, err)
		return
	}
	session := sessionFrom(r)
	memorial, err := s.deceased.GetMemorial(r.Context(), session.OrgID, session.ActiveSite, recordID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newMemorialView(memorial))
}

func (s *Server) handleUpdateMemorial(w http.ResponseWriter, r *http.Request) {
	recordID, err := pathID(r, "recordID")
	if err != nil {
		writeError(w, r, err)
		return
	}
	var payload struct {
		Slug        string `json:"slug"`
		Headline    string `json:"headline"`
		Biography   string `json:"biography"`
		IsPublished bool   `json:"is_published"`
	}
	if err := decodeJSON(r, &payload); err != nil {
		writeError(w, r, err)
		return
	}
	session := sessionFrom(r)
	memorial, err := s.deceased.UpdateMemorial(r.Context(), session.OrgID, session.ActiveSite, recordID, storage.Memorial{
		Slug:        payload.Slug,
		Headline:    payload.Headline,
		Biography:   payload.Biography,
		IsPublished: payload.IsPublished,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newMemorialView(memorial))
}

func (s *Server) handlePublicSearch(w http.ResponseWriter, r *http.Request) {
	matches, err := s.deceased.PublicSearch(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newDeceasedMatchViews(matches))
}

func (s *Server) handlePublicMemorial(w http.ResponseWriter, r *http.Request) {
	memorial, err := s.deceased.PublicMemorial(r.Context(), r.PathValue("slug"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newMemorialView(memorial))
}
