package server

import (
	"net/http"

	"github.com/jonathan/resume-studio/internal/types"
)

// handleListResumes lists saved resumes. Repeated ?tag= values match any tag.
func (s *Server) handleListResumes(w http.ResponseWriter, r *http.Request) {
	var filter *types.ListFilter
	if tags := r.URL.Query()["tag"]; len(tags) > 0 {
		filter = &types.ListFilter{Tags: tags}
	}

	resumes, err := s.backend.ListResumes(r.Context(), filter)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if resumes == nil {
		resumes = []types.SavedResume{}
	}
	s.jsonResponse(w, http.StatusOK, resumes)
}

func (s *Server) handleDeleteResume(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	deleted, err := s.backend.DeleteResume(r.Context(), id)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if !deleted {
		s.writeError(w, &ErrSavedResumeNotFound{ID: id})
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
