// Package observability provides formatted output for the CLI.
package observability

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/jonathan/resume-studio/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer handles formatted output for CLI commands
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, truncate(title, boxWidth-4))
	fmt.Fprintf(p.out, "├%s┤\n", border)

	for _, line := range strings.Split(content, "\n") {
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, truncate(line, boxWidth-4))
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// truncate shortens s to at most n runes, marking the cut with "...".
func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	runes := []rune(s)
	return string(runes[:n-3]) + "..."
}

// PrintScore outputs the keyword score, missing keywords and feedback.
func (p *Printer) PrintScore(score *types.ATSScore) {
	if score == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Score: %d/100 %s\n", score.Score, scoreBar(score.Score)))

	if len(score.MissingKeywords) > 0 {
		sb.WriteString("\nMissing keywords:\n")
		count := min(len(score.MissingKeywords), maxItemsToShow)
		for i := 0; i < count; i++ {
			sb.WriteString(fmt.Sprintf("  • %s\n", score.MissingKeywords[i]))
		}
		if len(score.MissingKeywords) > maxItemsToShow {
			sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(score.MissingKeywords)-maxItemsToShow))
		}
	}

	for _, f := range score.Feedback {
		sb.WriteString("\n")
		sb.WriteString(wrap(f, boxWidth-4))
		sb.WriteString("\n")
	}

	if score.Reasoning != "" {
		sb.WriteString("\nReasoning:\n")
		sb.WriteString(wrap(score.Reasoning, boxWidth-4))
		sb.WriteString("\n")
	}

	p.printBox("ATS SCORE", strings.TrimSuffix(sb.String(), "\n"))
}

// scoreBar draws a 20 cell bar for a 0-100 score.
func scoreBar(score int) string {
	filled := max(0, min(20, score/5))
	return "[" + strings.Repeat("█", filled) + strings.Repeat("░", 20-filled) + "]"
}

// PrintTailoring outputs the fields a tailoring result overrides and the
// start of the cover letter.
func (p *Printer) PrintTailoring(resp *types.TailorResponse) {
	if resp == nil {
		return
	}

	var sb strings.Builder
	tr := resp.TailoredResume
	if tr.Summary != nil {
		sb.WriteString("Summary:\n")
		sb.WriteString(wrap(*tr.Summary, boxWidth-4))
		sb.WriteString("\n\n")
	}
	if tr.Skills != nil {
		sb.WriteString(fmt.Sprintf("Skills (%d):\n", len(tr.Skills)))
		sb.WriteString(wrap(strings.Join(tr.Skills, ", "), boxWidth-4))
		sb.WriteString("\n\n")
	}
	if len(tr.Experience) > 0 {
		sb.WriteString(fmt.Sprintf("Experience (%d entries):\n", len(tr.Experience)))
		count := min(len(tr.Experience), maxItemsToShow)
		for i := 0; i < count; i++ {
			sb.WriteString(fmt.Sprintf("  • %s, %s\n", tr.Experience[i].Title, tr.Experience[i].Company))
		}
		sb.WriteString("\n")
	}
	if resp.CoverLetter != "" {
		lines := strings.Split(strings.TrimSpace(resp.CoverLetter), "\n")
		sb.WriteString(fmt.Sprintf("Cover letter: %d lines\n", len(lines)))
		sb.WriteString(fmt.Sprintf("  %s\n", lines[0]))
	}
	if sb.Len() == 0 {
		sb.WriteString("No changes suggested.")
	}

	p.printBox("TAILORING RESULT", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintSavedResumes lists saved resume versions, newest first as given.
func (p *Printer) PrintSavedResumes(resumes []types.SavedResume) {
	var sb strings.Builder
	if len(resumes) == 0 {
		sb.WriteString("No saved resumes.")
	}
	for i, r := range resumes {
		sb.WriteString(fmt.Sprintf("%s  %s\n", r.ID, r.CreatedAt.Format("2006-01-02 15:04")))
		sb.WriteString(fmt.Sprintf("  %s, version %s\n", nameOrPlaceholder(r.Resume.FullName), r.Version))
		if len(r.Tags) > 0 {
			sb.WriteString(fmt.Sprintf("  tags: %s\n", strings.Join(r.Tags, ", ")))
		}
		if i < len(resumes)-1 {
			sb.WriteString("\n")
		}
	}

	p.printBox(fmt.Sprintf("SAVED RESUMES (%d)", len(resumes)), strings.TrimSuffix(sb.String(), "\n"))
}

func nameOrPlaceholder(name string) string {
	if strings.TrimSpace(name) == "" {
		return "(unnamed)"
	}
	return name
}

// wrap breaks text into lines of at most width runes on word boundaries.
func wrap(text string, width int) string {
	var lines []string
	var line strings.Builder
	for _, word := range strings.Fields(text) {
		if line.Len() > 0 && utf8.RuneCountInString(line.String())+1+utf8.RuneCountInString(word) > width {
			lines = append(lines, line.String())
			line.Reset()
		}
		if line.Len() > 0 {
			line.WriteByte(' ')
		}
		line.WriteString(word)
	}
	if line.Len() > 0 {
		lines = append(lines, line.String())
	}
	return strings.Join(lines, "\n")
}
