// Package standalone implements the backend contract in-process: keyword
// scoring, Gemini tailoring and saved resumes in PostgreSQL or memory.
package standalone

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/jonathan/resume-studio/internal/backend"
	"github.com/jonathan/resume-studio/internal/contract"
	"github.com/jonathan/resume-studio/internal/db"
	"github.com/jonathan/resume-studio/internal/llm"
	"github.com/jonathan/resume-studio/internal/types"
)

// Backend is an in-process backend.Contract.
type Backend struct {
	store Store
	llm   llm.Client
}

var (
	_ backend.Contract     = (*Backend)(nil)
	_ backend.ResumeGetter = (*Backend)(nil)
)

// New creates a Backend. client may be nil, in which case analysis has no
// reasoning and tailoring fails with ErrNoModel.
func New(store Store, client llm.Client) *Backend {
	if store == nil {
		store = NewMemoryStore()
	}
	return &Backend{store: store, llm: client}
}

// ValidateResume scores the resume by keyword overlap and, when a model is
// available, adds a short explanation. A failed explanation is logged and
// the score is still returned.
func (b *Backend) ValidateResume(ctx context.Context, resume contract.ResumeInput, jobDescription string) (*types.ATSScore, error) {
	result := Score(resume.Resume().PlainText(), jobDescription)

	if b.llm != nil {
		reasoning, err := Explain(ctx, b.llm, resume, jobDescription, result)
		if err != nil {
			log.Printf("[standalone] analysis reasoning unavailable: %v", err)
		} else {
			result.Reasoning = reasoning
		}
	}
	return result, nil
}

// TailorResume implements backend.Contract.
func (b *Backend) TailorResume(ctx context.Context, resume contract.ResumeInput, jobDescription string) (*types.TailorResponse, error) {
	if b.llm == nil {
		return nil, ErrNoModel
	}
	return Tailor(ctx, b.llm, resume, jobDescription)
}

// SaveResume implements backend.Contract.
func (b *Backend) SaveResume(ctx context.Context, resume contract.ResumeInput, tags []string, version string) (*types.SaveResult, error) {
	data, err := json.Marshal(resume)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal resume: %w", err)
	}

	saved, err := b.store.SaveResume(ctx, data, tags, version)
	if err != nil {
		return nil, err
	}
	log.Printf("[standalone] saved resume %s version %q tags %v", saved.ID, saved.Version, saved.Tags)

	return &types.SaveResult{
		ID:        saved.ID.String(),
		Version:   saved.Version,
		Tags:      saved.Tags,
		CreatedAt: saved.CreatedAt,
	}, nil
}

// ListResumes implements backend.Contract. Rows whose document no longer
// decodes are skipped.
func (b *Backend) ListResumes(ctx context.Context, filter *types.ListFilter) ([]types.SavedResume, error) {
	var tags []string
	if filter != nil {
		tags = filter.Tags
	}

	rows, err := b.store.ListResumes(ctx, tags)
	if err != nil {
		return nil, err
	}

	out := make([]types.SavedResume, 0, len(rows))
	for _, row := range rows {
		saved, err := decodeSaved(row)
		if err != nil {
			log.Printf("[standalone] skipping saved resume %s: %v", row.ID, err)
			continue
		}
		out = append(out, saved)
	}
	return out, nil
}

// GetResume implements backend.ResumeGetter.
func (b *Backend) GetResume(ctx context.Context, id string) (*types.SavedResume, error) {
	parsed, err := db.ParseID(id)
	if err != nil {
		return nil, err
	}

	row, err := b.store.GetResume(ctx, parsed)
	if err != nil || row == nil {
		return nil, err
	}
	saved, err := decodeSaved(*row)
	if err != nil {
		return nil, fmt.Errorf("saved resume %s: %w", id, err)
	}
	return &saved, nil
}

func decodeSaved(row db.SavedResume) (types.SavedResume, error) {
	var in contract.ResumeInput
	if err := json.Unmarshal(row.Resume, &in); err != nil {
		return types.SavedResume{}, err
	}
	return types.SavedResume{
		ID:        row.ID.String(),
		Resume:    in.Resume(),
		Tags:      row.Tags,
		Version:   row.Version,
		CreatedAt: row.CreatedAt,
	}, nil
}

// DeleteResume implements backend.Contract.
func (b *Backend) DeleteResume(ctx context.Context, id string) (bool, error) {
	parsed, err := db.ParseID(id)
	if err != nil {
		return false, err
	}
	return b.store.DeleteResume(ctx, parsed)
}
