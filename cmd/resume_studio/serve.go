package main

import (
	"context"
	"fmt"

	"github.com/jonathan/resume-studio/internal/config"
	"github.com/jonathan/resume-studio/internal/contract"
	"github.com/jonathan/resume-studio/internal/export"
	"github.com/jonathan/resume-studio/internal/server"
	"github.com/spf13/cobra"
)

var (
	servePort     int
	serveNoExport bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST API server",
	Long:  `Start an HTTP server that exposes session endpoints for editing, scoring, tailoring and exporting resumes.`,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "Port to listen on (overrides PORT)")
	serveCmd.Flags().BoolVar(&serveNoExport, "no-export", false, "Disable PDF export")
	rootCmd.AddCommand(serveCmd)
}

func runServe(_ *cobra.Command, _ []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if servePort != 0 {
		cfg.Port = servePort
	}

	ttl, err := cfg.SessionLifetime()
	if err != nil {
		return err
	}
	jwtConfig, err := config.NewJWTConfig(cfg)
	if err != nil {
		return fmt.Errorf("failed to create session token config: %w", err)
	}
	version, err := contract.ParseSchemaVersion(cfg.BackendSchema)
	if err != nil {
		return err
	}

	b, cleanup, err := buildBackend(context.Background(), cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	var exporter export.Exporter
	if !serveNoExport {
		exporter = newExporter(cfg)
	}

	srv, err := server.New(server.Config{
		Port:            cfg.Port,
		Backend:         b,
		SchemaVersion:   version,
		SessionTTL:      ttl,
		JWT:             jwtConfig,
		Exporter:        exporter,
		DefaultTemplate: cfg.DefaultTemplate,
	})
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	return srv.Start()
}

func newExporter(cfg *config.Config, opts ...export.Option) *export.ChromeExporter {
	if cfg.ChromePath != "" {
		opts = append(opts, export.WithExecPath(cfg.ChromePath))
	}
	return export.NewChromeExporter(opts...)
}
