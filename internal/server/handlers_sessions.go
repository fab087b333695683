package server

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/jonathan/resume-studio/internal/photo"
	"github.com/jonathan/resume-studio/internal/rendering"
	"github.com/jonathan/resume-studio/internal/schemas"
	"github.com/jonathan/resume-studio/internal/session"
	"github.com/jonathan/resume-studio/internal/types"
)

// stateResponse is a session snapshot plus the projection a renderer shows.
type stateResponse struct {
	ID string `json:"id"`
	session.State
	Displayed types.ResumeData `json:"displayed"`
}

func newStateResponse(id string, st session.State) stateResponse {
	return stateResponse{ID: id, State: st, Displayed: st.Displayed()}
}

// lookupSession returns the session named by the {id} path value.
func (s *Server) lookupSession(r *http.Request) (*session.Session, error) {
	id := r.PathValue("id")
	sess, ok := s.sessions.Get(id)
	if !ok {
		return nil, &ErrSessionNotFound{SessionID: id}
	}
	return sess, nil
}

// handleCreateSession starts a session and returns its bearer token.
func (s *Server) handleCreateSession(w http.ResponseWriter, _ *http.Request) {
	sess := s.sessions.Create()
	if s.defaultTemplate != "" {
		if id, ok := rendering.ResolveLayout(s.defaultTemplate); ok {
			sess.SetTemplate(string(id))
		}
	}

	token, err := s.jwtService.GenerateToken(sess.ID())
	if err != nil {
		s.sessions.Delete(sess.ID())
		s.errorResponse(w, http.StatusInternalServerError, "Failed to generate token")
		return
	}

	log.Printf("[session] created %s", sess.ID())
	s.jsonResponse(w, http.StatusCreated, types.SessionResponse{
		ID:        sess.ID(),
		Token:     token,
		ExpiresAt: time.Now().Add(s.jwtService.config.Expiration).UTC(),
	})
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	sess, err := s.lookupSession(r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, newStateResponse(sess.ID(), sess.Snapshot()))
}

func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	sess, err := s.lookupSession(r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.sessions.Delete(sess.ID())
	w.WriteHeader(http.StatusNoContent)
}

// handleSetResume replaces the edited resume. The body is checked against the
// resume JSON schema before it is decoded.
func (s *Server) handleSetResume(w http.ResponseWriter, r *http.Request) {
	sess, err := s.lookupSession(r)
	if err != nil {
		s.writeError(w, err)
		return
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxJSONBody))
	if err != nil {
		s.writeError(w, &ErrValidation{Field: "body", Message: err.Error()})
		return
	}
	if !json.Valid(body) {
		s.writeError(w, &ErrValidation{Field: "body", Message: "invalid JSON"})
		return
	}
	if err := schemas.ValidateResume(body); err != nil {
		s.writeError(w, err)
		return
	}

	var resume types.ResumeData
	if err := json.Unmarshal(body, &resume); err != nil {
		s.writeError(w, &ErrValidation{Field: "body", Message: err.Error()})
		return
	}

	s.jsonResponse(w, http.StatusOK, newStateResponse(sess.ID(), sess.SetResume(resume)))
}

func (s *Server) handleSetJobDescription(w http.ResponseWriter, r *http.Request) {
	sess, err := s.lookupSession(r)
	if err != nil {
		s.writeError(w, err)
		return
	}

	var req types.JobDescriptionRequest
	if err := s.decodeJSON(w, r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	if err := req.Validate(); err != nil {
		s.writeError(w, validationError(err))
		return
	}

	s.jsonResponse(w, http.StatusOK, newStateResponse(sess.ID(), sess.SetJobDescription(req.JobDescription)))
}

// handleSetTemplate stores the canonical id of a known layout or alias.
func (s *Server) handleSetTemplate(w http.ResponseWriter, r *http.Request) {
	sess, err := s.lookupSession(r)
	if err != nil {
		s.writeError(w, err)
		return
	}

	var req types.TemplateRequest
	if err := s.decodeJSON(w, r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	if err := req.Validate(); err != nil {
		s.writeError(w, validationError(err))
		return
	}
	id, ok := rendering.ResolveLayout(req.Template)
	if !ok {
		s.writeError(w, &ErrValidation{Field: "template", Message: "unknown layout " + req.Template})
		return
	}

	s.jsonResponse(w, http.StatusOK, newStateResponse(sess.ID(), sess.SetTemplate(string(id))))
}

// handleUploadPhoto reads the multipart "photo" field and stores it on the
// resume as a data URI.
func (s *Server) handleUploadPhoto(w http.ResponseWriter, r *http.Request) {
	sess, err := s.lookupSession(r)
	if err != nil {
		s.writeError(w, err)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, photo.DefaultLimit+maxJSONBody)
	file, _, err := r.FormFile("photo")
	if err != nil {
		var tooLarge *http.MaxBytesError
		switch {
		case errors.As(err, &tooLarge):
			s.writeError(w, &photo.TooLargeError{Limit: photo.DefaultLimit})
		default:
			s.writeError(w, &ErrValidation{Field: "photo", Message: "required"})
		}
		return
	}
	defer func() { _ = file.Close() }()

	uri, err := photo.EncodeDataURI(file, photo.DefaultLimit)
	if err != nil {
		s.writeError(w, err)
		return
	}

	s.jsonResponse(w, http.StatusOK, newStateResponse(sess.ID(), sess.SetProfileImage(uri)))
}

func (s *Server) handleDismissNotice(w http.ResponseWriter, r *http.Request) {
	sess, err := s.lookupSession(r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, newStateResponse(sess.ID(), sess.DismissNotice()))
}

// handleAnalyze scores the resume. A failure is returned and also recorded
// as the session notice.
func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	sess, err := s.lookupSession(r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if _, err := sess.Analyze(r.Context()); err != nil {
		s.writeError(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, newStateResponse(sess.ID(), sess.Snapshot()))
}

func (s *Server) handleTailor(w http.ResponseWriter, r *http.Request) {
	sess, err := s.lookupSession(r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if _, err := sess.Tailor(r.Context()); err != nil {
		s.writeError(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, newStateResponse(sess.ID(), sess.Snapshot()))
}

func (s *Server) handleApplyTailoring(w http.ResponseWriter, r *http.Request) {
	sess, err := s.lookupSession(r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	st, err := sess.ApplyTailoring()
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, newStateResponse(sess.ID(), st))
}

func (s *Server) handleDiscardTailoring(w http.ResponseWriter, r *http.Request) {
	sess, err := s.lookupSession(r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, newStateResponse(sess.ID(), sess.DiscardTailoring()))
}

// handleSave persists the edited resume, not the tailored projection.
func (s *Server) handleSave(w http.ResponseWriter, r *http.Request) {
	sess, err := s.lookupSession(r)
	if err != nil {
		s.writeError(w, err)
		return
	}

	var req types.SaveRequest
	if err := s.decodeJSON(w, r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	if err := req.Validate(); err != nil {
		s.writeError(w, validationError(err))
		return
	}

	res, err := sess.Save(r.Context(), req.Tags, req.Version)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.jsonResponse(w, http.StatusCreated, res)
}

func (s *Server) handleLoad(w http.ResponseWriter, r *http.Request) {
	sess, err := s.lookupSession(r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	st, err := sess.LoadSaved(r.Context(), r.PathValue("resume_id"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, newStateResponse(sess.ID(), st))
}
