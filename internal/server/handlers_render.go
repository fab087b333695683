package server

import (
	"bytes"
	"fmt"
	"mime"
	"net/http"

	"github.com/jonathan/resume-studio/internal/export"
	"github.com/jonathan/resume-studio/internal/rendering"
)

// handleListTemplates lists the available layouts.
func (s *Server) handleListTemplates(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, rendering.Layouts())
}

// handlePreview renders the displayed resume. ?template= overrides the
// session's layout for this response only.
func (s *Server) handlePreview(w http.ResponseWriter, r *http.Request) {
	sess, err := s.lookupSession(r)
	if err != nil {
		s.writeError(w, err)
		return
	}

	resume := sess.Snapshot().Displayed()
	id := resume.TemplateID
	if override := r.URL.Query().Get("template"); override != "" {
		id = override
	}

	html, err := rendering.RenderString(id, resume)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.htmlResponse(w, html)
}

func (s *Server) handleCoverLetter(w http.ResponseWriter, r *http.Request) {
	sess, err := s.lookupSession(r)
	if err != nil {
		s.writeError(w, err)
		return
	}

	st := sess.Snapshot()
	if st.Tailoring == nil || st.Tailoring.CoverLetter == "" {
		s.errorResponse(w, http.StatusNotFound, "no cover letter has been generated")
		return
	}

	var buf bytes.Buffer
	if err := rendering.RenderCoverLetter(&buf, st.Displayed(), st.Tailoring.CoverLetter); err != nil {
		s.writeError(w, err)
		return
	}
	s.htmlResponse(w, buf.String())
}

// handleExportPDF prints the displayed resume with the session's layout.
func (s *Server) handleExportPDF(w http.ResponseWriter, r *http.Request) {
	sess, err := s.lookupSession(r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if s.exporter == nil {
		s.writeError(w, &ErrExportUnavailable{})
		return
	}

	resume := sess.Snapshot().Displayed()
	html, err := rendering.RenderString(resume.TemplateID, resume)
	if err != nil {
		s.writeError(w, err)
		return
	}

	pdf, err := s.exporter.ExportPDF(r.Context(), html)
	if err != nil {
		s.writeError(w, fmt.Errorf("export pdf: %w", err))
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{
		"filename": export.Filename(resume.DocumentTitle()),
	}))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(pdf)
}

func (s *Server) htmlResponse(w http.ResponseWriter, html string) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(html))
}
