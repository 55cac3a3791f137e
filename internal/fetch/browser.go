package fetch

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/chromedp/chromedp"
)

// MinContentLength is the shortest extracted text accepted from a plain
// HTTP fetch before falling back to browser rendering.
const MinContentLength = 500

// ShouldUseBrowser reports whether extracted text is short enough that the
// page probably renders its content with JavaScript.
func ShouldUseBrowser(extractedText string) bool {
	return len(strings.TrimSpace(extractedText)) < MinContentLength
}

// Renderer returns the HTML of a page after scripts have run.
type Renderer interface {
	Render(ctx context.Context, url string) (string, error)
}

// ChromeRenderer renders pages in headless Chrome. Chrome or Chromium must
// be installed.
type ChromeRenderer struct {
	Timeout time.Duration
	// Settle is how long to wait for scripts after the body is ready.
	Settle  time.Duration
	Verbose bool
}

// NewChromeRenderer returns a renderer with a 30 second budget.
func NewChromeRenderer(verbose bool) *ChromeRenderer {
	return &ChromeRenderer{Timeout: DefaultTimeout, Settle: 3 * time.Second, Verbose: verbose}
}

// Render implements Renderer.
func (r *ChromeRenderer) Render(ctx context.Context, url string) (string, error) {
	if r.Verbose {
		log.Printf("[BROWSER] Starting headless browser for: %s", url)
	}

	allocCtx, cancel := chromedp.NewExecAllocator(ctx,
		append(chromedp.DefaultExecAllocatorOptions[:],
			chromedp.Flag("headless", true),
			chromedp.Flag("disable-gpu", true),
			chromedp.Flag("no-sandbox", true),
			chromedp.Flag("disable-dev-shm-usage", true),
		)...,
	)
	defer cancel()

	browserCtx, cancel := chromedp.NewContext(allocCtx)
	defer cancel()

	browserCtx, cancel = context.WithTimeout(browserCtx, r.Timeout)
	defer cancel()

	var html string
	err := chromedp.Run(browserCtx,
		chromedp.Navigate(url),
		chromedp.WaitReady("body"),
		chromedp.Sleep(r.Settle),
		chromedp.ActionFunc(func(ctx context.Context) error {
			// cookie banners; missing buttons are fine
			_ = chromedp.Click(`button[id*="accept"], button[class*="accept"]`, chromedp.NodeVisible, chromedp.AtLeast(0)).Do(ctx)
			return nil
		}),
		chromedp.OuterHTML("html", &html),
	)
	if err != nil {
		return "", &Error{URL: url, Message: "browser rendering failed", Cause: fmt.Errorf("chromedp: %w", err)}
	}

	if r.Verbose {
		log.Printf("[BROWSER] Rendered HTML: %d bytes", len(html))
	}
	return html, nil
}
