package fetch

import (
	"context"
	"fmt"
	"log"
	"time"
)

// Renderer returns the rendered HTML of a page.
type Renderer func(ctx context.Context, rawURL string, timeout time.Duration) (string, error)

// JobFetcher turns a job posting URL into description text.
type JobFetcher struct {
	Options *Options
	// Render is used when the plain HTTP response holds too little text.
	// Nil disables the browser fallback.
	Render Renderer
}

// NewJobFetcher creates a fetcher. useBrowser enables the headless Chrome fallback.
func NewJobFetcher(useBrowser bool) *JobFetcher {
	f := &JobFetcher{Options: DefaultOptions()}
	if useBrowser {
		f.Render = RenderHTML
	}
	return f
}

// JobText fetches rawURL and extracts the posting text.
func (f *JobFetcher) JobText(ctx context.Context, rawURL string) (string, error) {
	opts := f.Options
	if opts == nil {
		opts = DefaultOptions()
	}
	platform := DetectPlatform(rawURL)

	result, err := URL(ctx, rawURL, opts)
	if err != nil && f.Render == nil {
		return "", err
	}

	var text string
	if err == nil {
		text, err = ExtractMainText(result.HTML, platform.ContentSelectors(), platform.NoiseSelectors()...)
		if err != nil {
			return "", err
		}
		if !ShouldUseBrowser(text) || f.Render == nil {
			return text, nil
		}
	}

	log.Printf("[fetch] %s returned little text, falling back to browser", rawURL)
	html, renderErr := f.Render(ctx, rawURL, opts.Timeout)
	if renderErr != nil {
		if text != "" {
			return text, nil
		}
		return "", fmt.Errorf("fetch job text: %w", renderErr)
	}

	rendered, err := ExtractMainText(html, platform.ContentSelectors(), platform.NoiseSelectors()...)
	if err != nil {
		return "", err
	}
	if len(rendered) < len(text) {
		return text, nil
	}
	return rendered, nil
}
