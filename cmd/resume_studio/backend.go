package main

import (
	"context"
	"fmt"
	"log"

	"github.com/jonathan/resume-studio/internal/backend"
	"github.com/jonathan/resume-studio/internal/config"
	"github.com/jonathan/resume-studio/internal/contract"
	"github.com/jonathan/resume-studio/internal/db"
	"github.com/jonathan/resume-studio/internal/llm"
	"github.com/jonathan/resume-studio/internal/standalone"
)

// buildBackend returns the contract implementation selected by the config
// and a function that releases what it opened.
func buildBackend(ctx context.Context, cfg *config.Config) (backend.Contract, func(), error) {
	version, err := contract.ParseSchemaVersion(cfg.BackendSchema)
	if err != nil {
		return nil, nil, err
	}

	if cfg.BackendMode == config.BackendGraphQL {
		log.Printf("[backend] using GraphQL backend at %s (schema %s)", cfg.BackendURL, version)
		return backend.NewGraphQLClient(cfg.BackendURL, version), func() {}, nil
	}

	var closers []func()
	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	var store standalone.Store
	if cfg.DatabaseURL != "" {
		database, err := db.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		closers = append(closers, database.Close)
		if err := database.EnsureSchema(ctx); err != nil {
			cleanup()
			return nil, nil, fmt.Errorf("failed to prepare database schema: %w", err)
		}
		store = database
	} else {
		log.Printf("[backend] DATABASE_URL not set, saved resumes are kept in memory")
		store = standalone.NewMemoryStore()
	}

	var client llm.Client
	if cfg.APIKey != "" {
		c, err := llm.NewClient(ctx, llm.DefaultConfig(), cfg.APIKey)
		if err != nil {
			cleanup()
			return nil, nil, fmt.Errorf("failed to create LLM client: %w", err)
		}
		closers = append(closers, func() { _ = c.Close() })
		client = c
	} else {
		log.Printf("[backend] GEMINI_API_KEY not set, tailoring is disabled")
	}

	log.Printf("[backend] using local backend")
	return standalone.New(store, client), cleanup, nil
}
