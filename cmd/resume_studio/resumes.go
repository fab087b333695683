package main

import (
	"context"
	"fmt"

	"github.com/jonathan/resume-studio/internal/backend"
	"github.com/jonathan/resume-studio/internal/config"
	"github.com/jonathan/resume-studio/internal/observability"
	"github.com/jonathan/resume-studio/internal/types"
	"github.com/spf13/cobra"
)

var resumesCmd = &cobra.Command{
	Use:   "resumes",
	Short: "List and delete saved resumes",
}

var resumesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved resumes",
	RunE:  runResumesList,
}

var resumesDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a saved resume",
	Args:  cobra.ExactArgs(1),
	RunE:  runResumesDelete,
}

var (
	resumesTags []string
	resumesJSON bool
)

func init() {
	resumesListCmd.Flags().StringSliceVar(&resumesTags, "tag", nil, "Only list resumes with any of these tags")
	resumesListCmd.Flags().BoolVar(&resumesJSON, "json", false, "Print the result as JSON")

	resumesCmd.AddCommand(resumesListCmd, resumesDeleteCmd)
	rootCmd.AddCommand(resumesCmd)
}

func withBackend(ctx context.Context, fn func(backend.Contract) error) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	b, cleanup, err := buildBackend(ctx, cfg)
	if err != nil {
		return err
	}
	defer cleanup()
	return fn(b)
}

func runResumesList(cmd *cobra.Command, _ []string) error {
	return withBackend(cmd.Context(), func(b backend.Contract) error {
		var filter *types.ListFilter
		if len(resumesTags) > 0 {
			filter = &types.ListFilter{Tags: resumesTags}
		}
		resumes, err := b.ListResumes(cmd.Context(), filter)
		if err != nil {
			return err
		}
		if resumesJSON {
			return writeJSON(cmd.OutOrStdout(), resumes)
		}
		observability.NewPrinter(cmd.OutOrStdout()).PrintSavedResumes(resumes)
		return nil
	})
}

func runResumesDelete(cmd *cobra.Command, args []string) error {
	return withBackend(cmd.Context(), func(b backend.Contract) error {
		deleted, err := b.DeleteResume(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		if !deleted {
			return fmt.Errorf("saved resume %s not found", args[0])
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", args[0])
		return nil
	})
}
