package main

import (
	"fmt"
	"os"

	"github.com/jonathan/resume-studio/internal/observability"
	"github.com/spf13/cobra"
)

var tailorCmd = &cobra.Command{
	Use:   "tailor",
	Short: "Tailor a resume to a job description",
	Long:  "Requests a tailored summary, skills and cover letter from the configured backend. The merged resume and the cover letter can be written to files.",
	RunE:  runTailor,
}

var (
	tailorInputFile   string
	tailorJob         jobFlags
	tailorOutputFile  string
	tailorLetterFile  string
	tailorPrintAsJSON bool
)

func init() {
	tailorCmd.Flags().StringVarP(&tailorInputFile, "in", "i", "", "Path to resume JSON file (required)")
	tailorCmd.Flags().StringVarP(&tailorOutputFile, "out", "o", "", "Write the tailored resume JSON here")
	tailorCmd.Flags().StringVar(&tailorLetterFile, "cover-letter-out", "", "Write the cover letter text here")
	tailorCmd.Flags().BoolVar(&tailorPrintAsJSON, "json", false, "Print the result as JSON")
	tailorJob.register(tailorCmd)

	_ = tailorCmd.MarkFlagRequired("in")
	rootCmd.AddCommand(tailorCmd)
}

func runTailor(cmd *cobra.Command, _ []string) error {
	sess, cleanup, err := newCLISession(cmd.Context(), tailorInputFile, &tailorJob)
	if err != nil {
		return err
	}
	defer cleanup()

	resp, err := sess.Tailor(cmd.Context())
	if err != nil {
		return err
	}

	if tailorPrintAsJSON {
		if err := writeJSON(cmd.OutOrStdout(), resp); err != nil {
			return err
		}
	} else {
		observability.NewPrinter(cmd.OutOrStdout()).PrintTailoring(resp)
	}

	if tailorOutputFile != "" {
		st, err := sess.ApplyTailoring()
		if err != nil {
			return err
		}
		if err := writeResumeFile(tailorOutputFile, st.Resume); err != nil {
			return err
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "Wrote %s\n", tailorOutputFile)
	}

	if tailorLetterFile != "" {
		if resp.CoverLetter == "" {
			return fmt.Errorf("the backend returned no cover letter")
		}
		if err := os.WriteFile(tailorLetterFile, []byte(resp.CoverLetter+"\n"), 0o644); err != nil {
			return fmt.Errorf("failed to write cover letter: %w", err)
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "Wrote %s\n", tailorLetterFile)
	}
	return nil
}
