// Package ingestion turns a job posting URL or file into clean job
// description text for the generation form.
package ingestion

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/jonathan/cover-letter/internal/fetch"
)

var (
	// ErrNoContent is returned when a page yields no readable text.
	ErrNoContent = errors.New("no job description text found")
)

// Options configures FromURL.
type Options struct {
	// UseBrowser allows a headless browser fallback for pages whose text
	// is rendered by scripts.
	UseBrowser bool
	Verbose    bool
	Fetch      *fetch.Options
	// Renderer defaults to a headless Chrome renderer.
	Renderer fetch.Renderer
}

// FromURL fetches a job posting and returns its cleaned description text.
// Platform specific selectors pick the posting body; a browser render is
// tried when the plain fetch yields too little text and UseBrowser is set.
func FromURL(ctx context.Context, urlStr string, opts Options) (string, *Metadata, error) {
	platform := fetch.DetectPlatform(urlStr)
	if opts.Verbose {
		log.Printf("[VERBOSE] URL: %s", urlStr)
		log.Printf("[VERBOSE] Detected platform: %s", platform)
	}

	result, err := fetch.URL(ctx, urlStr, opts.Fetch)
	if err != nil {
		return "", nil, err
	}
	if opts.Verbose {
		log.Printf("[VERBOSE] Fetched HTML: %d bytes", len(result.HTML))
	}

	contentSelectors := fetch.PlatformContentSelectors(platform)
	noiseSelectors := fetch.PlatformNoiseSelectors(platform)

	text, err := fetch.ExtractMainText(result.HTML, contentSelectors, noiseSelectors...)
	if err != nil {
		return "", nil, &fetch.Error{URL: urlStr, Message: "content extraction failed", Cause: err}
	}
	if opts.Verbose {
		log.Printf("[VERBOSE] Extracted text: %d chars", len(text))
	}

	rendered := false
	if opts.UseBrowser && (fetch.ShouldUseBrowser(text) || platform.NeedsBrowser()) {
		renderer := opts.Renderer
		if renderer == nil {
			renderer = fetch.NewChromeRenderer(opts.Verbose)
		}

		html, renderErr := renderer.Render(ctx, urlStr)
		switch {
		case renderErr != nil:
			log.Printf("[ingest] browser rendering failed for %s, using HTTP content: %v", urlStr, renderErr)
		default:
			browserText, extractErr := fetch.ExtractMainText(html, contentSelectors, noiseSelectors...)
			if extractErr != nil {
				log.Printf("[ingest] browser content extraction failed for %s: %v", urlStr, extractErr)
			} else if len(browserText) > len(text) {
				text, rendered = browserText, true
			}
		}
	}

	cleaned := CleanText(text)
	if cleaned == "" {
		return "", nil, &fetch.Error{URL: urlStr, Message: "content extraction failed", Cause: ErrNoContent}
	}
	if opts.Verbose {
		log.Printf("[VERBOSE] Cleaned text: %d chars", len(cleaned))
	}

	metadata := NewMetadata(cleaned, urlStr)
	metadata.Platform = string(platform)
	metadata.Rendered = rendered
	return cleaned, metadata, nil
}

// FormatSource describes where the text came from, for CLI output.
func FormatSource(m *Metadata) string {
	if m == nil || m.URL == "" {
		return "file"
	}
	if m.Rendered {
		return fmt.Sprintf("%s (%s, rendered)", m.URL, m.Platform)
	}
	return fmt.Sprintf("%s (%s)", m.URL, m.Platform)
}
