// Package prompts provides the LLM prompt pairs used for tailoring and
// analysis. Prompts are stored as JSON and embedded at compile time.
package prompts

import (
	"embed"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"sync"
	"text/template"
)

// Prompt names.
const (
	Tailor  = "tailor"
	Analyze = "analyze"
)

//go:embed tailoring.json
var promptFiles embed.FS

// Prompt is a system instruction plus a user message template.
type Prompt struct {
	Name   string
	System string
	user   *template.Template
}

// Render executes the user template against data. Referencing a missing map
// key is an error rather than an empty string.
func (p *Prompt) Render(data any) (string, error) {
	var sb strings.Builder
	if err := p.user.Execute(&sb, data); err != nil {
		return "", fmt.Errorf("failed to render prompt %s: %w", p.Name, err)
	}
	return sb.String(), nil
}

type promptSource struct {
	System string `json:"system"`
	User   string `json:"user"`
}

var (
	loadOnce sync.Once
	loaded   map[string]*Prompt
	loadErr  error
)

// Get returns the named prompt.
func Get(name string) (*Prompt, error) {
	loadOnce.Do(func() {
		loaded, loadErr = parse("tailoring.json")
	})
	if loadErr != nil {
		return nil, loadErr
	}

	p, ok := loaded[name]
	if !ok {
		return nil, fmt.Errorf("prompt %q not found", name)
	}
	return p, nil
}

// Names lists the available prompts, sorted.
func Names() ([]string, error) {
	if _, err := Get(Tailor); err != nil {
		return nil, err
	}
	names := make([]string, 0, len(loaded))
	for name := range loaded {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

func parse(filename string) (map[string]*Prompt, error) {
	data, err := promptFiles.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read prompt file %s: %w", filename, err)
	}

	var sources map[string]promptSource
	if err := json.Unmarshal(data, &sources); err != nil {
		return nil, fmt.Errorf("failed to parse prompt file %s: %w", filename, err)
	}

	out := make(map[string]*Prompt, len(sources))
	for name, src := range sources {
		if src.System == "" || src.User == "" {
			return nil, fmt.Errorf("prompt %s in %s needs both system and user text", name, filename)
		}
		tmpl, err := template.New(name).Option("missingkey=error").Parse(src.User)
		if err != nil {
			return nil, fmt.Errorf("failed to parse prompt %s: %w", name, err)
		}
		out[name] = &Prompt{Name: name, System: src.System, user: tmpl}
	}
	return out, nil
}
