package fetcher

import (
	"context"
	"fmt"
	"os"

	"marathon-scraper/models"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
)

// RodFetcher implements the Fetcher interface using rod (headless browser).
// Use it when the portal only renders the results table client-side.
type RodFetcher struct {
	endpoint Endpoint
	opts     Options
	browser  *rod.Browser
}

// NewRodFetcher launches a headless browser and connects to it
func NewRodFetcher(endpoint Endpoint, opts Options) (*RodFetcher, error) {
	l := launcher.New().
		Headless(true).
		Set("disable-blink-features", "AutomationControlled").
		NoSandbox(true).
		Leakless(false).
		Set("disable-dev-shm-usage").
		Set("disable-gpu").
		Set("no-first-run").
		Set("no-default-browser-check").
		Set("disable-extensions").
		Set("mute-audio")

	if opts.UserAgent != "" {
		l = l.Set("user-agent", opts.UserAgent)
	}

	// Prefer a system Chrome/Chromium; rod downloads one otherwise
	for _, path := range []string{
		"/usr/bin/google-chrome",
		"/usr/bin/google-chrome-stable",
		"/usr/bin/chromium",
		"/usr/bin/chromium-browser",
		"/snap/bin/chromium",
	} {
		if _, err := os.Stat(path); err == nil {
			l = l.Bin(path)
			break
		}
	}

	browserURL, err := l.Launch()
	if err != nil {
		return nil, fmt.Errorf("failed to launch browser: %w", err)
	}

	browser := rod.New().ControlURL(browserURL)
	if err := browser.Connect(); err != nil {
		return nil, fmt.Errorf("failed to connect to browser: %w", err)
	}

	return &RodFetcher{
		endpoint: endpoint,
		opts:     opts,
		browser:  browser,
	}, nil
}

// Close closes the browser
func (rf *RodFetcher) Close() error {
	if rf.browser != nil {
		return rf.browser.Close()
	}
	return nil
}

// Fetch implements the Fetcher interface
func (rf *RodFetcher) Fetch(ctx context.Context, req PageRequest) (*models.Document, error) {
	url, err := rf.endpoint.URL(req)
	if err != nil {
		return nil, &TransportError{URL: url, Gender: req.Gender, Page: req.Page, Err: err}
	}

	page, err := rf.browser.Page(proto.TargetCreateTarget{})
	if err != nil {
		return nil, &TransportError{URL: url, Gender: req.Gender, Page: req.Page, Err: fmt.Errorf("failed to create page: %w", err)}
	}
	defer page.Close()

	p := page.Context(ctx)
	if rf.opts.Timeout > 0 {
		p = p.Timeout(rf.opts.Timeout)
	}

	if err := p.Navigate(url); err != nil {
		return nil, &TransportError{URL: url, Gender: req.Gender, Page: req.Page, Err: fmt.Errorf("failed to navigate: %w", err)}
	}
	if err := p.WaitLoad(); err != nil {
		return nil, &TransportError{URL: url, Gender: req.Gender, Page: req.Page, Err: fmt.Errorf("failed to load: %w", err)}
	}

	html, err := p.HTML()
	if err != nil {
		return nil, &TransportError{URL: url, Gender: req.Gender, Page: req.Page, Err: fmt.Errorf("failed to get HTML: %w", err)}
	}

	return &models.Document{
		URL:         url,
		ContentType: "text/html; charset=utf-8",
		Body:        []byte(html),
	}, nil
}
