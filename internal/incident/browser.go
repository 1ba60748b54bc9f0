package incident

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/playwright-community/playwright-go"
)

// BrowserFetcher loads the page in headless Chromium and returns the rendered
// DOM. Use it when the incident table is filled in by JavaScript.
// Each Fetch starts and stops its own browser; nothing is kept between runs.
type BrowserFetcher struct {
	timeout   time.Duration
	userAgent string
}

func NewBrowserFetcher(timeout time.Duration, userAgent string) *BrowserFetcher {
	return &BrowserFetcher{timeout: timeout, userAgent: userAgent}
}

func (f *BrowserFetcher) pageOptions() playwright.BrowserNewPageOptions {
	var opts playwright.BrowserNewPageOptions
	if f.userAgent != "" {
		opts.UserAgent = playwright.String(f.userAgent)
	}
	return opts
}

func (f *BrowserFetcher) Fetch(ctx context.Context, url string) (body []byte, err error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	pw, err := playwright.Run()
	if err != nil {
		return nil, fmt.Errorf("could not start playwright: %w", err)
	}
	defer func() {
		if stopErr := pw.Stop(); stopErr != nil && err == nil {
			err = fmt.Errorf("failed to stop playwright: %w", stopErr)
		}
	}()

	browser, err := pw.Chromium.Launch()
	if err != nil {
		return nil, fmt.Errorf("could not launch browser: %w", err)
	}
	defer browser.Close()

	page, err := browser.NewPage(f.pageOptions())
	if err != nil {
		return nil, fmt.Errorf("could not create page: %w", err)
	}

	resp, err := page.Goto(url, playwright.PageGotoOptions{
		Timeout:   playwright.Float(float64(f.timeout.Milliseconds())),
		WaitUntil: playwright.WaitUntilStateNetworkidle,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to navigate to %s: %w", url, err)
	}
	if resp == nil {
		return nil, errors.New("navigation returned no response")
	}
	if status := resp.Status(); status < 200 || status > 299 {
		return nil, &StatusError{URL: url, StatusCode: status}
	}

	html, err := page.Content()
	if err != nil {
		return nil, fmt.Errorf("failed to read page content: %w", err)
	}
	return []byte(html), nil
}
