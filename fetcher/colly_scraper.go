package fetcher

import (
	"context"
	"net/http"
	"strings"

	"marathon-scraper/models"

	"github.com/gocolly/colly/v2"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// CollyFetcher implements the Fetcher interface using colly
type CollyFetcher struct {
	endpoint  Endpoint
	collector *colly.Collector
}

// NewCollyFetcher creates a new CollyFetcher instance
func NewCollyFetcher(endpoint Endpoint, opts Options) *CollyFetcher {
	options := []colly.CollectorOption{colly.AllowURLRevisit()}
	if opts.UserAgent != "" {
		options = append(options, colly.UserAgent(opts.UserAgent))
	}
	c := colly.NewCollector(options...)

	c.WithTransport(otelhttp.NewTransport(http.DefaultTransport))
	c.SetRequestTimeout(opts.Timeout)

	return &CollyFetcher{
		endpoint:  endpoint,
		collector: c,
	}
}

// Fetch implements the Fetcher interface
func (cf *CollyFetcher) Fetch(ctx context.Context, req PageRequest) (*models.Document, error) {
	url, err := cf.endpoint.URL(req)
	if err != nil {
		return nil, &TransportError{URL: url, Gender: req.Gender, Page: req.Page, Err: err}
	}
	if err := ctx.Err(); err != nil {
		return nil, &TransportError{URL: url, Gender: req.Gender, Page: req.Page, Err: err}
	}

	// Clone shares the backend (transport, timeout) but not the callbacks
	c := cf.collector.Clone()

	var doc *models.Document
	var fetchErr *TransportError

	c.OnResponse(func(r *colly.Response) {
		contentType := r.Headers.Get("Content-Type")
		// colly has already converted a declared non-UTF-8 charset
		if strings.Contains(strings.ToLower(contentType), "charset") {
			contentType = "text/html; charset=utf-8"
		}
		doc = &models.Document{
			URL:         r.Request.URL.String(),
			ContentType: contentType,
			Body:        r.Body,
		}
	})

	c.OnError(func(r *colly.Response, err error) {
		fetchErr = &TransportError{URL: url, Gender: req.Gender, Page: req.Page, Err: err}
		if r != nil {
			fetchErr.Status = r.StatusCode
		}
	})

	if err := c.Visit(url); err != nil && fetchErr == nil {
		fetchErr = &TransportError{URL: url, Gender: req.Gender, Page: req.Page, Err: err}
	}
	c.Wait()

	if fetchErr != nil {
		return nil, fetchErr
	}
	if doc == nil {
		return nil, &TransportError{URL: url, Gender: req.Gender, Page: req.Page, Err: errNoResponse}
	}
	return doc, nil
}
