// Package backend defines the scoring, tailoring and persistence contract and
// a GraphQL client for the remote service that implements it.
package backend

import (
	"context"

	"github.com/jonathan/resume-studio/internal/contract"
	"github.com/jonathan/resume-studio/internal/types"
)

// Contract is the set of operations the resume service consumes.
type Contract interface {
	// ValidateResume scores the resume against a job description.
	ValidateResume(ctx context.Context, resume contract.ResumeInput, jobDescription string) (*types.ATSScore, error)
	// TailorResume returns a partial resume override and an optional cover letter.
	TailorResume(ctx context.Context, resume contract.ResumeInput, jobDescription string) (*types.TailorResponse, error)
	// SaveResume persists a resume version.
	SaveResume(ctx context.Context, resume contract.ResumeInput, tags []string, version string) (*types.SaveResult, error)
	// ListResumes returns saved resumes, optionally filtered by tag.
	ListResumes(ctx context.Context, filter *types.ListFilter) ([]types.SavedResume, error)
	// DeleteResume removes a saved resume and reports whether it existed.
	DeleteResume(ctx context.Context, id string) (bool, error)
}

// ResumeGetter is implemented by backends that can fetch a single saved
// resume. GetResume returns nil when no resume has the id.
type ResumeGetter interface {
	GetResume(ctx context.Context, id string) (*types.SavedResume, error)
}

// FindResume returns the saved resume with the given id, or nil. Backends
// without ResumeGetter are searched through ListResumes.
func FindResume(ctx context.Context, b Contract, id string) (*types.SavedResume, error) {
	if g, ok := b.(ResumeGetter); ok {
		return g.GetResume(ctx, id)
	}

	all, err := b.ListResumes(ctx, nil)
	if err != nil {
		return nil, err
	}
	for i := range all {
		if all[i].ID == id {
			return &all[i], nil
		}
	}
	return nil, nil
}
