// Package session holds the per-client editing state: the resume being edited,
// the job description, and the latest analysis and tailoring results.
package session

import (
	"github.com/jonathan/resume-studio/internal/contract"
	"github.com/jonathan/resume-studio/internal/types"
)

// State is an immutable snapshot of a session.
type State struct {
	Resume         types.ResumeData      `json:"resume"`
	JobDescription string                `json:"jobDescription"`
	Analysis       *types.ATSScore       `json:"analysis,omitempty"`
	Tailoring      *types.TailorResponse `json:"tailoring,omitempty"`
	Notice         string                `json:"notice,omitempty"`
}

// Displayed is the resume a renderer shows: the tailoring override merged on
// top of the edited resume when one is present.
func (s State) Displayed() types.ResumeData {
	if s.Tailoring == nil {
		return s.Resume
	}
	return contract.Merge(s.Resume, s.Tailoring.TailoredResume)
}

func (s State) clone() State {
	out := s
	out.Resume = s.Resume.Clone()
	if s.Analysis != nil {
		a := *s.Analysis
		a.MissingKeywords = append([]string(nil), s.Analysis.MissingKeywords...)
		a.Feedback = append([]string(nil), s.Analysis.Feedback...)
		out.Analysis = &a
	}
	if s.Tailoring != nil {
		t := *s.Tailoring
		if s.Tailoring.TailoredResume.Summary != nil {
			summary := *s.Tailoring.TailoredResume.Summary
			t.TailoredResume.Summary = &summary
		}
		if s.Tailoring.TailoredResume.Skills != nil {
			t.TailoredResume.Skills = append([]string{}, s.Tailoring.TailoredResume.Skills...)
		}
		if s.Tailoring.TailoredResume.Experience != nil {
			t.TailoredResume.Experience = append([]types.Experience{}, s.Tailoring.TailoredResume.Experience...)
		}
		out.Tailoring = &t
	}
	return out
}
