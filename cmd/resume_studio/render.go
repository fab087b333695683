package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/jonathan/resume-studio/internal/rendering"
	"github.com/jonathan/resume-studio/internal/schemas"
	"github.com/jonathan/resume-studio/internal/types"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Render a resume JSON file to HTML",
	Long:  "Renders a resume JSON document with one layout, or with every layout when --all is set.",
	RunE:  runRender,
}

var (
	renderInputFile   string
	renderTemplate    string
	renderOutputFile  string
	renderAllLayouts  bool
	renderOutputDir   string
	renderCoverLetter string
)

func init() {
	renderCmd.Flags().StringVarP(&renderInputFile, "in", "i", "", "Path to resume JSON file (required)")
	renderCmd.Flags().StringVarP(&renderTemplate, "template", "t", "", "Layout id or alias (default: the resume's templateId)")
	renderCmd.Flags().StringVarP(&renderOutputFile, "out", "o", "", "Output HTML file (default: stdout)")
	renderCmd.Flags().BoolVar(&renderAllLayouts, "all", false, "Render every layout into --out-dir")
	renderCmd.Flags().StringVar(&renderOutputDir, "out-dir", ".", "Output directory for --all")
	renderCmd.Flags().StringVar(&renderCoverLetter, "cover-letter", "", "Render this cover letter text file instead of the resume")

	_ = renderCmd.MarkFlagRequired("in")
	rootCmd.AddCommand(renderCmd)
}

func runRender(cmd *cobra.Command, _ []string) error {
	resume, err := readResume(renderInputFile)
	if err != nil {
		return err
	}

	if renderAllLayouts {
		paths, err := renderAll(cmd.Context(), resume, renderOutputDir)
		if err != nil {
			return err
		}
		for _, p := range paths {
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", p)
		}
		return nil
	}

	var html string
	if renderCoverLetter != "" {
		letter, err := os.ReadFile(renderCoverLetter)
		if err != nil {
			return fmt.Errorf("failed to read cover letter: %w", err)
		}
		html, err = renderCoverLetterString(resume, string(letter))
		if err != nil {
			return err
		}
	} else {
		id := renderTemplate
		if id == "" {
			id = resume.TemplateID
		}
		html, err = rendering.RenderString(id, resume)
		if err != nil {
			return err
		}
	}

	if renderOutputFile == "" {
		_, err := fmt.Fprint(cmd.OutOrStdout(), html)
		return err
	}
	if err := os.WriteFile(renderOutputFile, []byte(html), 0o644); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", renderOutputFile)
	return nil
}

// readResume loads a resume JSON file after checking it against the resume schema.
func readResume(path string) (types.ResumeData, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return types.ResumeData{}, fmt.Errorf("failed to read resume: %w", err)
	}
	if !json.Valid(data) {
		return types.ResumeData{}, fmt.Errorf("%s is not valid JSON", path)
	}
	if err := schemas.ValidateResume(data); err != nil {
		return types.ResumeData{}, err
	}

	resume := types.NewResume()
	if err := json.Unmarshal(data, &resume); err != nil {
		return types.ResumeData{}, fmt.Errorf("failed to parse resume: %w", err)
	}
	return resume, nil
}

// renderAll writes <dir>/<layout>.html for every layout concurrently and
// returns the written paths in layout order.
func renderAll(ctx context.Context, resume types.ResumeData, dir string) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	layouts := rendering.Layouts()
	paths := make([]string, len(layouts))

	g, gCtx := errgroup.WithContext(ctx)
	for i, layout := range layouts {
		g.Go(func() error {
			if err := gCtx.Err(); err != nil {
				return err
			}
			f, err := os.Create(filepath.Join(dir, string(layout.ID)+".html"))
			if err != nil {
				return err
			}
			if err := layout.Render(f, resume); err != nil {
				_ = f.Close()
				return fmt.Errorf("layout %s: %w", layout.ID, err)
			}
			if err := f.Close(); err != nil {
				return err
			}
			paths[i] = f.Name()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return paths, nil
}

// renderCoverLetterString renders letter under the resume's contact header.
func renderCoverLetterString(resume types.ResumeData, letter string) (string, error) {
	var buf bytes.Buffer
	if err := rendering.RenderCoverLetter(&buf, resume, letter); err != nil {
		return "", err
	}
	return buf.String(), nil
}
