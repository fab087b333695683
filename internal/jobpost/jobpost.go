// Package jobpost loads job descriptions from posting pages and text files.
package jobpost

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

// DefaultTimeout is the default HTTP request timeout.
const DefaultTimeout = 30 * time.Second

// DefaultUserAgent is the user agent string for HTTP requests.
const DefaultUserAgent = "Mozilla/5.0 (compatible; ResumeStudio/1.0)"

// maxPageSize bounds how much of a posting page is read.
const maxPageSize = 5 << 20

// Posting is a job description extracted from a page.
type Posting struct {
	URL      string   `json:"url"`
	Platform Platform `json:"platform"`
	Title    string   `json:"title,omitempty"`
	Text     string   `json:"text"`
	Rendered bool     `json:"rendered"` // true when the text came from a headless browser
}

// Error represents an error loading a posting.
type Error struct {
	URL        string
	StatusCode int
	Message    string
	Cause      error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("job posting %s: %s: %v", e.URL, e.Message, e.Cause)
	}
	return fmt.Sprintf("job posting %s: %s", e.URL, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Renderer returns the HTML of a page after scripts have run.
type Renderer interface {
	RenderHTML(ctx context.Context, url string) (string, error)
}

// Options configures Fetch.
type Options struct {
	Timeout    time.Duration
	UserAgent  string
	HTTPClient *http.Client
	// Renderer is used when the static page yields less than
	// MinContentLength characters. Nil disables the fallback.
	Renderer Renderer
}

// DefaultOptions returns the options used when Fetch is given nil.
func DefaultOptions() *Options {
	return &Options{
		Timeout:   DefaultTimeout,
		UserAgent: DefaultUserAgent,
	}
}

// Fetch downloads a posting page and extracts its description text.
func Fetch(ctx context.Context, rawURL string, opts *Options) (*Posting, error) {
	if opts == nil {
		opts = DefaultOptions()
	}

	parsed, err := url.Parse(rawURL)
	if err != nil || parsed.Host == "" || (parsed.Scheme != "http" && parsed.Scheme != "https") {
		return nil, &Error{URL: rawURL, Message: "invalid URL", Cause: err}
	}

	html, err := download(ctx, rawURL, opts)
	if err != nil {
		return nil, err
	}

	posting, err := FromHTML(html, rawURL)
	if err != nil {
		return nil, err
	}

	if opts.Renderer != nil && needsRendering(posting.Text) {
		log.Printf("[jobpost] %s yielded %d characters, rendering in browser", rawURL, len(posting.Text))
		rendered, err := opts.Renderer.RenderHTML(ctx, rawURL)
		if err != nil {
			return nil, &Error{URL: rawURL, Message: "browser rendering failed", Cause: err}
		}
		posting, err = FromHTML(rendered, rawURL)
		if err != nil {
			return nil, err
		}
		posting.Rendered = true
	}

	if posting.Text == "" {
		return nil, &Error{URL: rawURL, Message: "no job description text found"}
	}
	return posting, nil
}

func download(ctx context.Context, rawURL string, opts *Options) (string, error) {
	client := opts.HTTPClient
	if client == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = DefaultTimeout
		}
		client = &http.Client{Timeout: timeout}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", &Error{URL: rawURL, Message: "failed to create request", Cause: err}
	}
	userAgent := opts.UserAgent
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml")

	resp, err := client.Do(req)
	if err != nil {
		return "", &Error{URL: rawURL, Message: "HTTP request failed", Cause: err}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return "", &Error{URL: rawURL, StatusCode: resp.StatusCode, Message: fmt.Sprintf("HTTP status %d", resp.StatusCode)}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxPageSize))
	if err != nil {
		return "", &Error{URL: rawURL, Message: "failed to read response body", Cause: err}
	}
	return string(body), nil
}

// FromHTML extracts the description from a posting page using the
// selectors of the platform detected from pageURL.
func FromHTML(html, pageURL string) (*Posting, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, &Error{URL: pageURL, Message: "failed to parse HTML", Cause: err}
	}

	platform := DetectPlatform(pageURL)
	rules := rulesFor(platform)

	title := strings.TrimSpace(doc.Find("h1").First().Text())
	if title == "" {
		title = strings.TrimSpace(doc.Find("title").First().Text())
	}

	doc.Find(strings.Join(append(commonNoise, rules.noise...), ", ")).Remove()

	content := doc.Find("body")
	for _, selector := range rules.content {
		if sel := doc.Find(selector); sel.Length() > 0 {
			content = sel.First()
			break
		}
	}

	return &Posting{
		URL:      pageURL,
		Platform: platform,
		Title:    title,
		Text:     Clean(blockText(content)),
	}, nil
}

// blockText returns the text of sel with a line break after each block
// element, so paragraphs and list items do not run together.
func blockText(sel *goquery.Selection) string {
	sel.Find("p, li, h1, h2, h3, h4, h5, h6, div, br, tr").Each(func(_ int, s *goquery.Selection) {
		if goquery.NodeName(s) == "li" {
			s.PrependHtml("- ")
		}
		s.AppendHtml("\n")
	})
	return sel.Text()
}

// ReadFile loads a plain-text job description.
func ReadFile(path string) (string, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("file not found: %w", err)
		}
		return "", fmt.Errorf("failed to read file: %w", err)
	}
	return Clean(string(content)), nil
}
