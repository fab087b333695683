package standalone

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/jonathan/resume-studio/internal/contract"
	"github.com/jonathan/resume-studio/internal/llm"
	"github.com/jonathan/resume-studio/internal/prompts"
	"github.com/jonathan/resume-studio/internal/schemas"
	"github.com/jonathan/resume-studio/internal/types"
)

// ErrNoModel is returned by TailorResume when no LLM client is configured.
var ErrNoModel = errors.New("tailoring requires an LLM API key")

// tailorReply is the JSON object the model returns.
type tailorReply struct {
	Summary     string             `json:"summary"`
	Skills      []string           `json:"skills"`
	Experience  []types.Experience `json:"experience"`
	CoverLetter string             `json:"cover_letter"`
}

type analysisReply struct {
	Reasoning string `json:"reasoning"`
}

// Tailor asks the model to rewrite the summary, skills and experience of a
// resume for a job description. The reply is schema-checked before use.
func Tailor(ctx context.Context, client llm.Client, resume contract.ResumeInput, jobDescription string) (*types.TailorResponse, error) {
	resumeJSON, err := json.Marshal(resume)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal resume: %w", err)
	}

	prompt, err := prompts.Get(prompts.Tailor)
	if err != nil {
		return nil, err
	}
	user, err := prompt.Render(map[string]string{
		"JobDescription": jobDescription,
		"Resume":         string(resumeJSON),
	})
	if err != nil {
		return nil, err
	}

	raw, err := client.GenerateJSON(ctx, llm.TaskTailor, prompt.System, user)
	if err != nil {
		return nil, fmt.Errorf("LLM generation failed: %w", err)
	}
	raw = llm.CleanJSONBlock(raw)

	if err := schemas.ValidateTailorResponse([]byte(raw)); err != nil {
		return nil, fmt.Errorf("tailoring reply rejected: %w", err)
	}

	var reply tailorReply
	if err := json.Unmarshal([]byte(raw), &reply); err != nil {
		return nil, fmt.Errorf("failed to parse LLM response: %w", err)
	}
	return reply.toResponse(), nil
}

// toResponse maps the reply onto a partial override. An empty summary or an
// absent experience list leaves the local value in place.
func (r tailorReply) toResponse() *types.TailorResponse {
	out := &types.TailorResponse{CoverLetter: strings.TrimSpace(r.CoverLetter)}

	if summary := strings.TrimSpace(r.Summary); summary != "" {
		out.TailoredResume.Summary = &summary
	}
	out.TailoredResume.Skills = r.Skills
	if out.TailoredResume.Skills == nil {
		out.TailoredResume.Skills = []string{}
	}
	if len(r.Experience) > 0 {
		out.TailoredResume.Experience = r.Experience
	}
	return out
}

// Explain asks the model for a short explanation of a keyword score.
func Explain(ctx context.Context, client llm.Client, resume contract.ResumeInput, jobDescription string, score *types.ATSScore) (string, error) {
	resumeJSON, err := json.Marshal(resume)
	if err != nil {
		return "", fmt.Errorf("failed to marshal resume: %w", err)
	}

	prompt, err := prompts.Get(prompts.Analyze)
	if err != nil {
		return "", err
	}
	user, err := prompt.Render(struct {
		JobDescription  string
		Resume          string
		Score           int
		MissingKeywords string
	}{
		JobDescription:  jobDescription,
		Resume:          string(resumeJSON),
		Score:           score.Score,
		MissingKeywords: strings.Join(score.MissingKeywords, ", "),
	})
	if err != nil {
		return "", err
	}

	raw, err := client.GenerateJSON(ctx, llm.TaskAnalyze, prompt.System, user)
	if err != nil {
		return "", fmt.Errorf("LLM generation failed: %w", err)
	}
	raw = llm.CleanJSONBlock(raw)

	if err := schemas.Validate(schemas.Analysis, []byte(raw)); err != nil {
		return "", fmt.Errorf("analysis reply rejected: %w", err)
	}

	var reply analysisReply
	if err := json.Unmarshal([]byte(raw), &reply); err != nil {
		return "", fmt.Errorf("failed to parse LLM response: %w", err)
	}
	return strings.TrimSpace(reply.Reasoning), nil
}
