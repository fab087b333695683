package session

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"

	"github.com/jonathan/resume-studio/internal/backend"
	"github.com/jonathan/resume-studio/internal/contract"
	"github.com/jonathan/resume-studio/internal/types"
)

var (
	// ErrSuperseded is returned when a newer request of the same kind was
	// issued before this one completed. Its response is discarded.
	ErrSuperseded = errors.New("response superseded by a newer request")
	// ErrNoTailoring is returned by ApplyTailoring when nothing is pending.
	ErrNoTailoring = errors.New("no tailoring result to apply")
	// ErrSavedResumeNotFound is returned by LoadSaved for an unknown id.
	ErrSavedResumeNotFound = errors.New("saved resume not found")
	// ErrEmptyResponse is returned when the backend reports success without
	// a result. Nothing is applied.
	ErrEmptyResponse = errors.New("backend returned an empty response")
)

type requestKind int

const (
	analyzeRequest requestKind = iota
	tailorRequest
	saveRequest
	loadRequest
	numRequestKinds
)

func (k requestKind) String() string {
	switch k {
	case analyzeRequest:
		return "analyze"
	case tailorRequest:
		return "tailor"
	case saveRequest:
		return "save"
	case loadRequest:
		return "load"
	default:
		return "unknown"
	}
}

func (k requestKind) failureNotice(err error) string {
	switch k {
	case analyzeRequest:
		return fmt.Sprintf("Error validating resume: %v", err)
	case tailorRequest:
		return fmt.Sprintf("Error tailoring resume: %v", err)
	case saveRequest:
		return fmt.Sprintf("Failed to save resume: %v", err)
	default:
		return fmt.Sprintf("Failed to load resume: %v", err)
	}
}

// Session is one client's editing state. All methods are safe for concurrent use.
type Session struct {
	id      string
	backend backend.Contract
	version contract.SchemaVersion

	mu     sync.Mutex
	state  State
	issued [numRequestKinds]uint64
}

// New creates a session with an empty resume.
func New(id string, b backend.Contract, version contract.SchemaVersion) *Session {
	return &Session{
		id:      id,
		backend: b,
		version: version,
		state:   State{Resume: types.NewResume()},
	}
}

// ID returns the session id.
func (s *Session) ID() string {
	return s.id
}

// Snapshot returns a copy of the current state.
func (s *Session) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.clone()
}

// update replaces the state with a modified copy.
func (s *Session) update(fn func(*State)) State {
	s.mu.Lock()
	defer s.mu.Unlock()
	next := s.state.clone()
	fn(&next)
	s.state = next
	return next.clone()
}

// SetResume replaces the edited resume. Analysis and tailoring results are kept.
func (s *Session) SetResume(r types.ResumeData) State {
	r = r.Clone()
	return s.update(func(st *State) {
		st.Resume = r
	})
}

// SetJobDescription replaces the job description. Results are kept.
func (s *Session) SetJobDescription(jd string) State {
	return s.update(func(st *State) {
		st.JobDescription = jd
	})
}

// SetTemplate sets the resume's layout id.
func (s *Session) SetTemplate(id string) State {
	return s.update(func(st *State) {
		st.Resume.TemplateID = id
	})
}

// SetProfileImage sets the resume's profile image reference.
func (s *Session) SetProfileImage(uri string) State {
	return s.update(func(st *State) {
		st.Resume.ProfileImage = uri
	})
}

// DismissNotice clears the user-facing failure notice.
func (s *Session) DismissNotice() State {
	return s.update(func(st *State) {
		st.Notice = ""
	})
}

// DiscardTailoring drops the pending tailoring result.
func (s *Session) DiscardTailoring() State {
	return s.update(func(st *State) {
		st.Tailoring = nil
	})
}

// ApplyTailoring makes the displayed projection the edited resume. The cover
// letter is kept so it can still be rendered.
func (s *Session) ApplyTailoring() (State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state.Tailoring == nil {
		return s.state.clone(), ErrNoTailoring
	}
	next := s.state.clone()
	next.Resume = next.Displayed()
	next.Tailoring.TailoredResume = types.TailoredResume{}
	s.state = next
	return next.clone(), nil
}

// begin issues a generation token for a request and returns the state the
// request is built from.
func (s *Session) begin(kind requestKind) (uint64, State) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.issued[kind]++
	return s.issued[kind], s.state.clone()
}

// finish applies a completed request. Responses for superseded tokens are
// discarded; failures set the notice and leave everything else untouched.
// A success clears the notice.
func (s *Session) finish(kind requestKind, token uint64, err error, apply func(*State)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if token != s.issued[kind] {
		log.Printf("[%s] session %s: discarding response %d, latest is %d", kind, s.id, token, s.issued[kind])
		return ErrSuperseded
	}
	if err != nil {
		log.Printf("[%s] session %s: %v", kind, s.id, err)
		next := s.state.clone()
		next.Notice = kind.failureNotice(err)
		s.state = next
		return err
	}
	next := s.state.clone()
	next.Notice = ""
	if apply != nil {
		apply(&next)
	}
	s.state = next
	return nil
}

// Analyze scores the current resume against the job description. The
// previous analysis stays visible until this one succeeds.
func (s *Session) Analyze(ctx context.Context) (*types.ATSScore, error) {
	token, st := s.begin(analyzeRequest)
	score, err := s.backend.ValidateResume(ctx, contract.Narrow(st.Resume, s.version), st.JobDescription)
	if err == nil && score == nil {
		err = ErrEmptyResponse
	}
	if err := s.finish(analyzeRequest, token, err, func(next *State) {
		next.Analysis = score
	}); err != nil {
		return nil, err
	}
	return score, nil
}

// Tailor requests a tailored override. The previous result stays visible
// until this one succeeds.
func (s *Session) Tailor(ctx context.Context) (*types.TailorResponse, error) {
	token, st := s.begin(tailorRequest)
	resp, err := s.backend.TailorResume(ctx, contract.Narrow(st.Resume, s.version), st.JobDescription)
	if err == nil && resp == nil {
		err = ErrEmptyResponse
	}
	if err := s.finish(tailorRequest, token, err, func(next *State) {
		next.Tailoring = resp
	}); err != nil {
		return nil, err
	}
	return resp, nil
}

// Save persists the edited resume under the given tags and version.
func (s *Session) Save(ctx context.Context, tags []string, version string) (*types.SaveResult, error) {
	token, st := s.begin(saveRequest)
	res, err := s.backend.SaveResume(ctx, contract.Narrow(st.Resume, s.version), tags, version)
	if err == nil && res == nil {
		err = ErrEmptyResponse
	}
	if err := s.finish(saveRequest, token, err, nil); err != nil {
		return nil, err
	}
	return res, nil
}

// LoadSaved fetches a saved resume by id and replaces the edited resume
// with it, keeping local-only fields the backend cannot store.
func (s *Session) LoadSaved(ctx context.Context, id string) (State, error) {
	token, _ := s.begin(loadRequest)
	saved, err := s.findSaved(ctx, id)
	if err := s.finish(loadRequest, token, err, func(next *State) {
		next.Resume = contract.Reattach(next.Resume, saved.Resume, s.version)
	}); err != nil {
		return State{}, err
	}
	return s.Snapshot(), nil
}

func (s *Session) findSaved(ctx context.Context, id string) (*types.SavedResume, error) {
	saved, err := backend.FindResume(ctx, s.backend, id)
	if err != nil {
		return nil, err
	}
	if saved == nil {
		return nil, fmt.Errorf("%w: %s", ErrSavedResumeNotFound, id)
	}
	return saved, nil
}
