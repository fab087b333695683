package main

import (
	"fmt"
	"os"
	"time"

	"github.com/jonathan/resume-studio/internal/config"
	"github.com/jonathan/resume-studio/internal/export"
	"github.com/jonathan/resume-studio/internal/rendering"
	"github.com/spf13/cobra"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export a resume JSON file to PDF",
	Long:  "Renders a resume with its layout and prints it to an A4 PDF through headless Chrome.",
	RunE:  runExport,
}

var (
	exportInputFile  string
	exportTemplate   string
	exportOutputFile string
	exportTimeout    time.Duration
)

func init() {
	exportCmd.Flags().StringVarP(&exportInputFile, "in", "i", "", "Path to resume JSON file (required)")
	exportCmd.Flags().StringVarP(&exportTemplate, "template", "t", "", "Layout id or alias (default: the resume's templateId)")
	exportCmd.Flags().StringVarP(&exportOutputFile, "out", "o", "", "Output PDF file (default: <Name>_Resume.pdf)")
	exportCmd.Flags().DurationVar(&exportTimeout, "timeout", export.DefaultTimeout, "Maximum time to wait for Chrome")

	_ = exportCmd.MarkFlagRequired("in")
	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	resume, err := readResume(exportInputFile)
	if err != nil {
		return err
	}

	id := exportTemplate
	if id == "" {
		id = resume.TemplateID
	}
	html, err := rendering.RenderString(id, resume)
	if err != nil {
		return err
	}

	exporter := newExporter(cfg, export.WithTimeout(exportTimeout))
	pdf, err := exporter.ExportPDF(cmd.Context(), html)
	if err != nil {
		return err
	}

	out := exportOutputFile
	if out == "" {
		out = export.Filename(resume.DocumentTitle())
	}
	if err := os.WriteFile(out, pdf, 0o644); err != nil {
		return fmt.Errorf("failed to write PDF: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s (%d bytes)\n", out, len(pdf))
	return nil
}
