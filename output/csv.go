package output

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"marathon-scraper/models"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/transform"
)

// Quoting modes
const (
	// QuoteWrap wraps the free-text fields in double quotes without escaping
	// anything inside them. Output stays column-compatible with existing consumers.
	QuoteWrap = "wrap"
	// QuoteCSV applies RFC 4180 quoting to every field that needs it
	QuoteCSV = "csv"
)

// CSVSink writes comma-separated lines in the configured text encoding
type CSVSink struct {
	buf     *bufio.Writer
	csv     *csv.Writer
	quoting string
}

// NewCSVSink creates a sink writing to w, encoding text with the named
// character set (any WHATWG label, e.g. "utf-8", "iso-8859-1"). Characters the
// target set cannot represent are replaced rather than failing the run.
func NewCSVSink(w io.Writer, encodingName, quoting string) (*CSVSink, error) {
	enc, err := htmlindex.Get(encodingName)
	if err != nil {
		return nil, fmt.Errorf("unknown output encoding %q: %w", encodingName, err)
	}

	s := &CSVSink{
		buf:     bufio.NewWriter(transform.NewWriter(w, encoding.ReplaceUnsupported(enc.NewEncoder()))),
		quoting: quoting,
	}

	switch quoting {
	case QuoteWrap:
	case QuoteCSV:
		s.csv = csv.NewWriter(s.buf)
	default:
		return nil, fmt.Errorf("unknown quoting mode %q", quoting)
	}

	return s, nil
}

// WriteHeader implements Sink
func (s *CSVSink) WriteHeader(fields []string) error {
	return s.writeLine(fields)
}

// Write implements Sink
func (s *CSVSink) Write(rec models.Finisher) error {
	if s.csv != nil {
		return s.writeLine(rec.RawValues())
	}
	return s.writeLine(rec.Values())
}

// Flush implements Sink
func (s *CSVSink) Flush() error {
	if s.csv != nil {
		s.csv.Flush()
		if err := s.csv.Error(); err != nil {
			return err
		}
	}
	return s.buf.Flush()
}

func (s *CSVSink) writeLine(fields []string) error {
	if s.csv != nil {
		return s.csv.Write(fields)
	}
	_, err := s.buf.WriteString(strings.Join(fields, ",") + "\n")
	return err
}
