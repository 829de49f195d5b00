package server

import (
	"net/http"
)

func (s *Server) listInsights(w http.ResponseWriter, r *http.Request) {
	insights, err := s.insights.List(r.Context(), currentUser(r))
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, insights)
}

func (s *Server) actionableInsights(w http.ResponseWriter, r *http.Request) {
	insights, err := s.insights.Actionable(r.Context(), currentUser(r))
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, insights)
}

func (s *Server) getInsight(w http.ResponseWriter, r *http.Request) {
	id, err := uintParam(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	insight, err := s.insights.Get(r.Context(), currentUser(r), id)
	if err != nil {
		respondLookupError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, insight)
}

func (s *Server) dismissInsight(w http.ResponseWriter, r *http.Request) {
	id, err := uintParam(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	insight, err := s.insights.Dismiss(r.Context(), currentUser(r), id)
	if err != nil {
		respondLookupError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, insight)
}

func (s *Server) deleteInsight(w http.ResponseWriter, r *http.Request) {
	id, err := uintParam(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := s.insights.Delete(r.Context(), currentUser(r), id); err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
