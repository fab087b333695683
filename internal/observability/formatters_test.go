package observability

import (
	"bytes"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/jonathan/resume-studio/internal/types"
	"github.com/stretchr/testify/assert"
)

func TestPrintScore(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintScore(&types.ATSScore{
		Score:           66,
		MissingKeywords: []string{"Kubernetes", "Terraform"},
		Feedback:        []string{"Good match, but could be improved by adding specific technical terms."},
		Reasoning:       "Strong Go background; infrastructure tooling is not mentioned.",
	})
	output := buf.String()

	assert.Contains(t, output, "ATS SCORE")
	assert.Contains(t, output, "Score: 66/100")
	assert.Contains(t, output, "Kubernetes")
	assert.Contains(t, output, "Terraform")
	assert.Contains(t, output, "Reasoning:")
}

func TestPrintScore_TruncatesMissingKeywords(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintScore(&types.ATSScore{
		MissingKeywords: []string{"a1", "a2", "a3", "a4", "a5", "a6", "a7"},
	})

	assert.Contains(t, buf.String(), "... and 2 more")
	assert.NotContains(t, buf.String(), "a6")
}

func TestPrintScore_Nil(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf).PrintScore(nil)
	assert.Empty(t, buf.String())
}

func TestPrintTailoring(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	summary := "Backend engineer focused on reliable distributed systems."
	p.PrintTailoring(&types.TailorResponse{
		TailoredResume: types.TailoredResume{
			Summary:    &summary,
			Skills:     []string{"Go", "PostgreSQL"},
			Experience: []types.Experience{{Title: "Engineer", Company: "Acme"}},
		},
		CoverLetter: "Dear team,\nI am writing to apply.",
	})
	output := buf.String()

	assert.Contains(t, output, "TAILORING RESULT")
	assert.Contains(t, output, "Skills (2)")
	assert.Contains(t, output, "Engineer, Acme")
	assert.Contains(t, output, "Cover letter: 2 lines")
	assert.Contains(t, output, "Dear team,")
}

func TestPrintTailoring_Empty(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf).PrintTailoring(&types.TailorResponse{})
	assert.Contains(t, buf.String(), "No changes suggested.")
}

func TestPrintSavedResumes(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintSavedResumes([]types.SavedResume{
		{
			ID:        "6f1c",
			Resume:    types.ResumeData{FullName: "Ada Lovelace"},
			Tags:      []string{"backend", "go"},
			Version:   "v2",
			CreatedAt: time.Date(2024, 5, 1, 9, 30, 0, 0, time.UTC),
		},
		{ID: "9a2b", Version: "draft"},
	})
	output := buf.String()

	assert.Contains(t, output, "SAVED RESUMES (2)")
	assert.Contains(t, output, "2024-05-01 09:30")
	assert.Contains(t, output, "Ada Lovelace, version v2")
	assert.Contains(t, output, "tags: backend, go")
	assert.Contains(t, output, "(unnamed), version draft")
}

func TestPrintBox_LinesFitWidth(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.printBox("TITLE", strings.Repeat("é", 200))
	for _, line := range strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n") {
		assert.Equal(t, boxWidth, utf8.RuneCountInString(line), line)
	}
}

func TestWrap(t *testing.T) {
	assert.Equal(t, "one two\nthree", wrap("one two three", 8))
	assert.Equal(t, "", wrap("   ", 10))
	assert.Equal(t, "supercalifragilistic", wrap("supercalifragilistic", 5))
}
