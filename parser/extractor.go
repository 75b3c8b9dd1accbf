package parser

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"marathon-scraper/models"
	"marathon-scraper/record"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html/charset"
)

// Selectors locates the results table and the pagination links in a page
type Selectors struct {
	Rows        string   `yaml:"rows"`
	Cells       string   `yaml:"cells"`
	Pagination  string   `yaml:"pagination"`
	NextMarkers []string `yaml:"next_markers"`
}

// DefaultSelectors returns the selectors of the results list view
func DefaultSelectors() Selectors {
	return Selectors{
		Rows:        "tbody tr",
		Cells:       "td",
		Pagination:  "div.pages a",
		NextMarkers: []string{">"},
	}
}

// Page is the content extracted from one results page
type Page struct {
	Rows    [][]string
	HasNext bool
}

// ParseError reports a document that could not be turned into a node tree.
// It is distinct from a page that parses fine but has no rows.
type ParseError struct {
	URL string
	Err error
}

func (e *ParseError) Error() string {
	if e.URL == "" {
		return fmt.Sprintf("failed to parse document: %v", e.Err)
	}
	return fmt.Sprintf("failed to parse document %s: %v", e.URL, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// ErrEmptyDocument is wrapped by ParseError when the response body is empty
var ErrEmptyDocument = errors.New("empty document")

// Extractor pulls result rows and the next-page signal out of a results page
type Extractor struct {
	sel Selectors
}

// NewExtractor creates an Extractor using the given selectors
func NewExtractor(sel Selectors) *Extractor {
	return &Extractor{sel: sel}
}

// Extract decodes the document, then returns its table rows as trimmed cell
// text and whether an enabled "next" link closes the pagination area
func (e *Extractor) Extract(doc *models.Document) (*Page, error) {
	if doc == nil || len(bytes.TrimSpace(doc.Body)) == 0 {
		url := ""
		if doc != nil {
			url = doc.URL
		}
		return nil, &ParseError{URL: url, Err: ErrEmptyDocument}
	}

	r, err := charset.NewReader(bytes.NewReader(doc.Body), doc.ContentType)
	if err != nil {
		return nil, &ParseError{URL: doc.URL, Err: fmt.Errorf("failed to decode: %w", err)}
	}

	root, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, &ParseError{URL: doc.URL, Err: err}
	}

	page := &Page{}
	root.Find(e.sel.Rows).Each(func(i int, row *goquery.Selection) {
		var cells []string
		row.Find(e.sel.Cells).Each(func(j int, cell *goquery.Selection) {
			cells = append(cells, record.StripDecorations(cell.Text()))
		})
		page.Rows = append(page.Rows, cells)
	})
	page.HasNext = e.hasNext(root)

	return page, nil
}

func (e *Extractor) hasNext(root *goquery.Document) bool {
	last := root.Find(e.sel.Pagination).Last()
	if last.Length() == 0 {
		return false
	}

	if last.HasClass("disabled") || last.AttrOr("aria-disabled", "") == "true" {
		return false
	}

	text := strings.ToLower(strings.TrimSpace(last.Text()))
	for _, marker := range e.sel.NextMarkers {
		if marker != "" && strings.Contains(text, strings.ToLower(marker)) {
			return true
		}
	}
	return false
}
