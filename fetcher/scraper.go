package fetcher

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"marathon-scraper/models"
)

// Fetcher retrieves one results page
type Fetcher interface {
	// Fetch issues a single request for the page described by req and returns
	// the raw document. Failures are reported as *TransportError.
	Fetch(ctx context.Context, req PageRequest) (*models.Document, error)
}

// PageRequest identifies one page of one gender's results for a year
type PageRequest struct {
	Year     int
	Gender   models.Gender
	Page     int
	PageSize int
}

// Endpoint describes the year-scoped results listing endpoint
type Endpoint struct {
	URLTemplate string `yaml:"url_template"` // must contain {year}
	Event       string `yaml:"event"`
	Lang        string `yaml:"lang"`
	View        string `yaml:"view"`
}

// DefaultEndpoint returns the Chicago Marathon results list endpoint
func DefaultEndpoint() Endpoint {
	return Endpoint{
		URLTemplate: "http://results.chicagomarathon.com/{year}/",
		Event:       "MAR",
		Lang:        "EN_CAP",
		View:        "list",
	}
}

// URL builds the request URL for a page
func (e Endpoint) URL(req PageRequest) (string, error) {
	base := strings.ReplaceAll(e.URLTemplate, "{year}", strconv.Itoa(req.Year))

	parsedURL, err := url.Parse(base)
	if err != nil {
		return "", fmt.Errorf("failed to parse URL: %w", err)
	}

	query := parsedURL.Query()
	query.Set("page", strconv.Itoa(req.Page))
	query.Set("event", e.Event)
	query.Set("lang", e.Lang)
	query.Set("num_results", strconv.Itoa(req.PageSize))
	query.Set("pid", e.View)
	query.Set("search[sex]", string(req.Gender))
	parsedURL.RawQuery = query.Encode()

	return parsedURL.String(), nil
}

// Options controls how requests are issued
type Options struct {
	Timeout   time.Duration // zero means no timeout
	UserAgent string
}

var errNoResponse = errors.New("no response received")

// TransportError reports a failed page request: timeout, connection error or
// a non-success HTTP status
type TransportError struct {
	URL    string
	Gender models.Gender
	Page   int
	Status int
	Err    error
}

func (e *TransportError) Error() string {
	msg := fmt.Sprintf("failed to fetch page %d (gender %s) from %s", e.Page, e.Gender, e.URL)
	if e.Status != 0 {
		msg += fmt.Sprintf(": HTTP %d", e.Status)
	}
	if e.Err != nil {
		msg += fmt.Sprintf(": %v", e.Err)
	}
	return msg
}

func (e *TransportError) Unwrap() error {
	return e.Err
}
