// Package llm wraps the generative model used by the standalone backend.
package llm

import (
	"fmt"
	"strings"
)

// Task names a kind of generation so each can use a different model.
type Task string

const (
	// TaskTailor rewrites resume sections and drafts a cover letter.
	TaskTailor Task = "tailor"
	// TaskAnalyze explains a keyword score in a few sentences.
	TaskAnalyze Task = "analyze"
)

// Provider represents an LLM provider
type Provider string

// ProviderGemini is the Google Gemini provider.
const ProviderGemini Provider = "gemini"

// Config selects the provider and the model per task.
type Config struct {
	Provider    Provider
	Models      map[Task]string
	Temperature float32
}

// DefaultConfig returns the Gemini configuration used when none is given.
func DefaultConfig() *Config {
	return &Config{
		Provider: ProviderGemini,
		Models: map[Task]string{
			TaskTailor:  "gemini-2.5-flash",
			TaskAnalyze: "gemini-2.5-flash-lite",
		},
		Temperature: 0.2,
	}
}

// Model returns the model for a task, falling back to the tailoring model.
func (c *Config) Model(task Task) string {
	if model, ok := c.Models[task]; ok && model != "" {
		return model
	}
	return c.Models[TaskTailor]
}

// WithModel returns a copy of the config using model for task.
func (c *Config) WithModel(task Task, model string) *Config {
	out := &Config{
		Provider:    c.Provider,
		Models:      make(map[Task]string, len(c.Models)+1),
		Temperature: c.Temperature,
	}
	for k, v := range c.Models {
		out.Models[k] = v
	}
	out.Models[task] = model
	return out
}

// ParseProvider validates a configured provider name.
func ParseProvider(name string) (Provider, error) {
	switch Provider(strings.ToLower(strings.TrimSpace(name))) {
	case ProviderGemini, "":
		return ProviderGemini, nil
	default:
		return "", fmt.Errorf("unsupported LLM provider %q", name)
	}
}
