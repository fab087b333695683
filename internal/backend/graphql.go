package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/jonathan/resume-studio/internal/contract"
	"github.com/jonathan/resume-studio/internal/types"
	"github.com/sony/gobreaker/v2"
)

// DefaultTimeout bounds a single backend round trip.
const DefaultTimeout = 60 * time.Second

// maxResponseBytes caps how much of a response body is read.
const maxResponseBytes = 10 << 20

// BreakerConfig controls when the client stops calling a failing backend.
type BreakerConfig struct {
	MaxRequests      uint32
	Interval         time.Duration
	Timeout          time.Duration
	MinRequests      uint32
	FailureThreshold float64
}

// DefaultBreakerConfig trips after 60% of at least five calls fail and
// probes again after thirty seconds.
func DefaultBreakerConfig() BreakerConfig {
	return BreakerConfig{
		MaxRequests:      1,
		Interval:         time.Minute,
		Timeout:          30 * time.Second,
		MinRequests:      5,
		FailureThreshold: 0.6,
	}
}

// GraphQLClient implements Contract against a remote GraphQL endpoint.
type GraphQLClient struct {
	endpoint   string
	version    contract.SchemaVersion
	httpClient *http.Client
	breaker    *gobreaker.CircuitBreaker[json.RawMessage]
}

// Option configures a GraphQLClient.
type Option func(*GraphQLClient)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(c *http.Client) Option {
	return func(g *GraphQLClient) {
		g.httpClient = c
	}
}

// WithBreaker replaces the default circuit breaker settings.
func WithBreaker(cfg BreakerConfig) Option {
	return func(g *GraphQLClient) {
		g.breaker = newBreaker(cfg)
	}
}

// NewGraphQLClient creates a client for the GraphQL endpoint at url.
func NewGraphQLClient(url string, version contract.SchemaVersion, opts ...Option) *GraphQLClient {
	c := &GraphQLClient{
		endpoint:   url,
		version:    version,
		httpClient: &http.Client{Timeout: DefaultTimeout},
		breaker:    newBreaker(DefaultBreakerConfig()),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func newBreaker(cfg BreakerConfig) *gobreaker.CircuitBreaker[json.RawMessage] {
	return gobreaker.NewCircuitBreaker[json.RawMessage](gobreaker.Settings{
		Name:        "graphql-backend",
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < cfg.MinRequests {
				return false
			}
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return failureRatio >= cfg.FailureThreshold
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			log.Printf("[backend] circuit breaker %s: %s -> %s", name, from, to)
		},
		// A rejected operation still proves the backend is alive, and a
		// caller that hung up says nothing about it.
		IsSuccessful: func(err error) bool {
			var reqErr *RequestError
			return err == nil || errors.As(err, &reqErr) || errors.Is(err, context.Canceled)
		},
	})
}

// BreakerState reports the circuit breaker state for health output.
func (c *GraphQLClient) BreakerState() string {
	return c.breaker.State().String()
}

type graphQLRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables,omitempty"`
}

type graphQLResponse struct {
	Data   json.RawMessage `json:"data"`
	Errors []GraphQLError  `json:"errors"`
}

// ValidateResume scores a resume against a job description.
func (c *GraphQLClient) ValidateResume(ctx context.Context, resume contract.ResumeInput, jobDescription string) (*types.ATSScore, error) {
	var out struct {
		ValidateResume *types.ATSScore `json:"validateResume"`
	}
	vars := map[string]any{
		"input": map[string]any{
			"resume":         resume,
			"jobDescription": jobDescription,
		},
	}
	if err := c.do(ctx, "validateResume", validateDocument(c.version), vars, &out); err != nil {
		return nil, err
	}
	if out.ValidateResume == nil {
		return nil, &RequestError{Operation: "validateResume", Errors: []GraphQLError{{Message: "empty result"}}}
	}
	return out.ValidateResume, nil
}

// TailorResume requests a tailored override for the resume.
func (c *GraphQLClient) TailorResume(ctx context.Context, resume contract.ResumeInput, jobDescription string) (*types.TailorResponse, error) {
	var out struct {
		TailorResume *types.TailorResponse `json:"tailorResume"`
	}
	vars := map[string]any{
		"input": map[string]any{
			"originalResume": resume,
			"jobDescription": jobDescription,
		},
	}
	if err := c.do(ctx, "tailorResume", tailorDocument(c.version), vars, &out); err != nil {
		return nil, err
	}
	if out.TailorResume == nil {
		return nil, &RequestError{Operation: "tailorResume", Errors: []GraphQLError{{Message: "empty result"}}}
	}
	return out.TailorResume, nil
}

type savedResumeWire struct {
	ID        string                `json:"id"`
	Resume    *contract.ResumeInput `json:"resume"`
	Tags      []string              `json:"tags"`
	Version   string                `json:"version"`
	CreatedAt string                `json:"createdAt"`
}

// SaveResume persists a resume version.
func (c *GraphQLClient) SaveResume(ctx context.Context, resume contract.ResumeInput, tags []string, version string) (*types.SaveResult, error) {
	if tags == nil {
		tags = []string{}
	}
	var out struct {
		SaveResume *savedResumeWire `json:"saveResume"`
	}
	vars := map[string]any{
		"input": map[string]any{
			"resume":  resume,
			"tags":    tags,
			"version": version,
		},
	}
	if err := c.do(ctx, "saveResume", saveResumeDocument, vars, &out); err != nil {
		return nil, err
	}
	if out.SaveResume == nil {
		return nil, &RequestError{Operation: "saveResume", Errors: []GraphQLError{{Message: "empty result"}}}
	}
	return &types.SaveResult{
		ID:        out.SaveResume.ID,
		Version:   out.SaveResume.Version,
		Tags:      out.SaveResume.Tags,
		CreatedAt: parseTimestamp(out.SaveResume.CreatedAt),
	}, nil
}

// ListResumes lists saved resumes. A nil or empty filter lists everything.
func (c *GraphQLClient) ListResumes(ctx context.Context, filter *types.ListFilter) ([]types.SavedResume, error) {
	var filterVar any
	if filter != nil && len(filter.Tags) > 0 {
		filterVar = map[string]any{"tags": filter.Tags}
	}

	var out struct {
		ListResumes []savedResumeWire `json:"listResumes"`
	}
	vars := map[string]any{"filter": filterVar}
	if err := c.do(ctx, "listResumes", listDocument(c.version), vars, &out); err != nil {
		return nil, err
	}

	saved := make([]types.SavedResume, 0, len(out.ListResumes))
	for _, w := range out.ListResumes {
		resume := types.NewResume()
		if w.Resume != nil {
			resume = w.Resume.Resume()
		}
		saved = append(saved, types.SavedResume{
			ID:        w.ID,
			Resume:    resume,
			Tags:      w.Tags,
			Version:   w.Version,
			CreatedAt: parseTimestamp(w.CreatedAt),
		})
	}
	return saved, nil
}

// DeleteResume deletes a saved resume.
func (c *GraphQLClient) DeleteResume(ctx context.Context, id string) (bool, error) {
	var out struct {
		DeleteResume bool `json:"deleteResume"`
	}
	if err := c.do(ctx, "deleteResume", deleteResumeDocument, map[string]any{"id": id}, &out); err != nil {
		return false, err
	}
	return out.DeleteResume, nil
}

// do posts one GraphQL operation through the circuit breaker and decodes
// its data into out.
func (c *GraphQLClient) do(ctx context.Context, operation, query string, vars map[string]any, out any) error {
	data, err := c.breaker.Execute(func() (json.RawMessage, error) {
		return c.post(ctx, operation, query, vars)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return &TransportError{Operation: operation, Cause: err}
		}
		return err
	}

	if err := json.Unmarshal(data, out); err != nil {
		return &TransportError{Operation: operation, Cause: fmt.Errorf("failed to decode data: %w", err)}
	}
	return nil
}

func (c *GraphQLClient) post(ctx context.Context, operation, query string, vars map[string]any) (json.RawMessage, error) {
	body, err := json.Marshal(graphQLRequest{Query: query, Variables: vars})
	if err != nil {
		return nil, fmt.Errorf("%s: failed to encode request: %w", operation, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, &TransportError{Operation: operation, Cause: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &TransportError{Operation: operation, Cause: err}
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, &TransportError{Operation: operation, StatusCode: resp.StatusCode, Cause: err}
	}

	var gqlResp graphQLResponse
	if err := json.Unmarshal(raw, &gqlResp); err != nil {
		if resp.StatusCode != http.StatusOK {
			return nil, &TransportError{Operation: operation, StatusCode: resp.StatusCode, Cause: fmt.Errorf("%s", bytes.TrimSpace(raw))}
		}
		return nil, &TransportError{Operation: operation, StatusCode: resp.StatusCode, Cause: fmt.Errorf("invalid response: %w", err)}
	}

	if len(gqlResp.Errors) > 0 {
		return nil, &RequestError{Operation: operation, Errors: gqlResp.Errors}
	}
	if resp.StatusCode != http.StatusOK {
		return nil, &TransportError{Operation: operation, StatusCode: resp.StatusCode, Cause: errors.New(http.StatusText(resp.StatusCode))}
	}
	if len(gqlResp.Data) == 0 || string(gqlResp.Data) == "null" {
		return nil, &RequestError{Operation: operation, Errors: []GraphQLError{{Message: "response has no data"}}}
	}
	return gqlResp.Data, nil
}

func parseTimestamp(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t
	}
	return time.Time{}
}
