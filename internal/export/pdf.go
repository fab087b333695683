// Package export renders HTML documents to PDF in headless Chrome.
package export

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
)

// DefaultTimeout bounds one export including browser start-up.
const DefaultTimeout = 60 * time.Second

// A4 paper in inches.
const (
	a4Width  = 8.27
	a4Height = 11.69
)

// ErrEmptyDocument is returned when there is nothing to print.
var ErrEmptyDocument = errors.New("export: empty document")

// Exporter turns an HTML document into PDF bytes.
type Exporter interface {
	ExportPDF(ctx context.Context, html string) ([]byte, error)
}

// ChromeExporter prints HTML with a fresh headless Chrome per export.
type ChromeExporter struct {
	execPath string
	timeout  time.Duration
}

// Option configures a ChromeExporter.
type Option func(*ChromeExporter)

// WithExecPath sets the Chrome binary. Empty uses chromedp's lookup.
func WithExecPath(path string) Option {
	return func(e *ChromeExporter) { e.execPath = path }
}

// WithTimeout overrides DefaultTimeout.
func WithTimeout(d time.Duration) Option {
	return func(e *ChromeExporter) {
		if d > 0 {
			e.timeout = d
		}
	}
}

// NewChromeExporter creates a ChromeExporter.
func NewChromeExporter(opts ...Option) *ChromeExporter {
	e := &ChromeExporter{timeout: DefaultTimeout}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func (e *ChromeExporter) allocatorOptions() []chromedp.ExecAllocatorOption {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
	)
	if e.execPath != "" {
		opts = append(opts, chromedp.ExecPath(e.execPath))
	}
	return opts
}

// ExportPDF loads html into a blank page and prints it to an A4 PDF with
// backgrounds, so accent colours survive.
func (e *ChromeExporter) ExportPDF(ctx context.Context, html string) ([]byte, error) {
	if html == "" {
		return nil, ErrEmptyDocument
	}
	start := time.Now()

	allocCtx, cancel := chromedp.NewExecAllocator(ctx, e.allocatorOptions()...)
	defer cancel()

	browserCtx, cancel := chromedp.NewContext(allocCtx)
	defer cancel()

	browserCtx, cancel = context.WithTimeout(browserCtx, e.timeout)
	defer cancel()

	var pdf []byte
	err := chromedp.Run(browserCtx,
		chromedp.Navigate("about:blank"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			tree, err := page.GetFrameTree().Do(ctx)
			if err != nil {
				return err
			}
			return page.SetDocumentContent(tree.Frame.ID, html).Do(ctx)
		}),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.ActionFunc(func(ctx context.Context) error {
			var err error
			pdf, _, err = page.PrintToPDF().
				WithPrintBackground(true).
				WithPaperWidth(a4Width).
				WithPaperHeight(a4Height).
				WithPreferCSSPageSize(true).
				Do(ctx)
			return err
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("pdf export failed: %w", err)
	}

	log.Printf("[export] printed %d bytes in %s", len(pdf), time.Since(start).Round(time.Millisecond))
	return pdf, nil
}

// Filename returns the download name for a document title.
func Filename(title string) string {
	if title == "" {
		title = "Resume"
	}
	return title + ".pdf"
}
