package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/jonathan/resume-studio/internal/config"
	"github.com/jonathan/resume-studio/internal/contract"
	"github.com/jonathan/resume-studio/internal/jobpost"
	"github.com/jonathan/resume-studio/internal/observability"
	"github.com/jonathan/resume-studio/internal/session"
	"github.com/jonathan/resume-studio/internal/types"
	"github.com/spf13/cobra"
)

// jobFlags are shared by commands that need a job description.
type jobFlags struct {
	file    string
	url     string
	browser bool
}

func (f *jobFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.file, "jd", "", "Path to a job description text file")
	cmd.Flags().StringVar(&f.url, "jd-url", "", "URL of a job posting page")
	cmd.Flags().BoolVar(&f.browser, "browser", false, "Render script-driven posting pages in headless Chrome")
	cmd.MarkFlagsMutuallyExclusive("jd", "jd-url")
	cmd.MarkFlagsOneRequired("jd", "jd-url")
}

// load returns the cleaned job description text.
func (f *jobFlags) load(ctx context.Context, cfg *config.Config) (string, error) {
	if f.file != "" {
		return jobpost.ReadFile(f.file)
	}

	opts := jobpost.DefaultOptions()
	if f.browser {
		opts.Renderer = jobpost.NewChromeRenderer(cfg.ChromePath)
	}
	posting, err := jobpost.Fetch(ctx, f.url, opts)
	if err != nil {
		return "", err
	}
	log.Printf("[jobpost] loaded %q from %s (%s)", posting.Title, posting.URL, posting.Platform)
	return posting.Text, nil
}

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Score a resume against a job description",
	Long:  "Scores a resume JSON file against a job description with the configured backend and prints the missing keywords.",
	RunE:  runAnalyze,
}

var (
	analyzeInputFile string
	analyzeJob       jobFlags
	analyzeJSON      bool
)

func init() {
	analyzeCmd.Flags().StringVarP(&analyzeInputFile, "in", "i", "", "Path to resume JSON file (required)")
	analyzeCmd.Flags().BoolVar(&analyzeJSON, "json", false, "Print the result as JSON")
	analyzeJob.register(analyzeCmd)

	_ = analyzeCmd.MarkFlagRequired("in")
	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command, _ []string) error {
	sess, cleanup, err := newCLISession(cmd.Context(), analyzeInputFile, &analyzeJob)
	if err != nil {
		return err
	}
	defer cleanup()

	score, err := sess.Analyze(cmd.Context())
	if err != nil {
		return err
	}

	if analyzeJSON {
		return writeJSON(cmd.OutOrStdout(), score)
	}
	observability.NewPrinter(cmd.OutOrStdout()).PrintScore(score)
	return nil
}

// newCLISession builds a one-off session holding the resume and job
// description, backed by the configured backend.
func newCLISession(ctx context.Context, resumePath string, job *jobFlags) (*session.Session, func(), error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, err
	}
	resume, err := readResume(resumePath)
	if err != nil {
		return nil, nil, err
	}
	jd, err := job.load(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}
	version, err := contract.ParseSchemaVersion(cfg.BackendSchema)
	if err != nil {
		return nil, nil, err
	}

	b, cleanup, err := buildBackend(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}

	sess := session.New("cli", b, version)
	sess.SetResume(resume)
	sess.SetJobDescription(jd)
	return sess, cleanup, nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// writeResumeFile writes a resume as indented JSON.
func writeResumeFile(path string, resume types.ResumeData) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := writeJSON(f, resume); err != nil {
		_ = f.Close()
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return f.Close()
}
