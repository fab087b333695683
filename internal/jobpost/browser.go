package jobpost

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/chromedp/chromedp"
)

// ChromeRenderer renders script-driven posting pages in headless Chrome.
type ChromeRenderer struct {
	ExecPath string
	Timeout  time.Duration
	// Settle is how long to wait after the body is ready for scripts to fill
	// in the description.
	Settle time.Duration
}

// NewChromeRenderer returns a renderer with default timings.
func NewChromeRenderer(execPath string) *ChromeRenderer {
	return &ChromeRenderer{
		ExecPath: execPath,
		Timeout:  DefaultTimeout,
		Settle:   3 * time.Second,
	}
}

// RenderHTML implements Renderer.
func (r *ChromeRenderer) RenderHTML(ctx context.Context, url string) (string, error) {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
	)
	if r.ExecPath != "" {
		opts = append(opts, chromedp.ExecPath(r.ExecPath))
	}

	allocCtx, cancel := chromedp.NewExecAllocator(ctx, opts...)
	defer cancel()

	browserCtx, cancel := chromedp.NewContext(allocCtx)
	defer cancel()

	timeout := r.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	browserCtx, cancel = context.WithTimeout(browserCtx, timeout)
	defer cancel()

	start := time.Now()
	var html string
	err := chromedp.Run(browserCtx,
		chromedp.Navigate(url),
		chromedp.WaitReady("body"),
		chromedp.Sleep(r.Settle),
		chromedp.OuterHTML("html", &html),
	)
	if err != nil {
		return "", fmt.Errorf("browser rendering failed: %w", err)
	}

	log.Printf("[jobpost] rendered %s: %d bytes in %s", url, len(html), time.Since(start).Round(time.Millisecond))
	return html, nil
}
