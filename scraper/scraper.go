package scraper

import (
	"context"
	"errors"
	"fmt"

	"marathon-scraper/fetcher"
	"marathon-scraper/models"
	"marathon-scraper/output"
	"marathon-scraper/parser"
	"marathon-scraper/record"

	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var tracer = otel.Tracer("marathon-scraper/scraper")

// Extractor turns a fetched document into rows and a next-page signal
type Extractor interface {
	Extract(doc *models.Document) (*parser.Page, error)
}

// Builder turns one row into a record tagged with the fetch gender
type Builder interface {
	Build(cells []string, gender models.Gender) (models.Finisher, error)
}

// Options bounds a run
type Options struct {
	Year      int
	PageSize  int
	PageLimit int // per gender, 0 = unlimited
	Genders   []models.Gender
}

// Driver runs the fetch, extract, build and emit loop once per gender
type Driver struct {
	fetcher   fetcher.Fetcher
	extractor Extractor
	builder   Builder
	sink      output.Sink
	log       *logrus.Logger
	opts      Options
}

// NewDriver creates a Driver with all dependencies
func NewDriver(
	f fetcher.Fetcher,
	e Extractor,
	b Builder,
	s output.Sink,
	log *logrus.Logger,
	opts Options,
) *Driver {
	return &Driver{
		fetcher:   f,
		extractor: e,
		builder:   b,
		sink:      s,
		log:       log,
		opts:      opts,
	}
}

// Run writes the header, then walks every gender's pages in order. Records
// reach the sink in (gender, page, row) order and the sink is flushed after
// each page, so a failed run leaves every record emitted before the failure.
// Cancellation is only observed between pages.
func (d *Driver) Run(ctx context.Context) (*Stats, error) {
	stats := &Stats{Year: d.opts.Year}

	if err := d.sink.WriteHeader(models.Fields); err != nil {
		return stats, fmt.Errorf("failed to write header: %w", err)
	}
	if err := d.sink.Flush(); err != nil {
		return stats, fmt.Errorf("failed to flush output: %w", err)
	}

	for _, gender := range d.opts.Genders {
		gs := stats.add(gender)
		if err := d.runGender(ctx, gender, gs); err != nil {
			return stats, err
		}
		d.log.WithFields(logrus.Fields{
			"gender":  gender,
			"pages":   gs.Pages,
			"records": gs.Records,
			"skipped": gs.Skipped,
		}).Info("Finished gender")
	}

	return stats, nil
}

func (d *Driver) runGender(ctx context.Context, gender models.Gender, gs *GenderStats) error {
	for page := 1; ; page++ {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("run cancelled before page %d (gender %s): %w", page, gender, err)
		}

		hasNext, err := d.runPage(ctx, gender, page, gs)
		if err != nil {
			return err
		}

		if !hasNext || (d.opts.PageLimit > 0 && page >= d.opts.PageLimit) {
			return nil
		}
	}
}

func (d *Driver) runPage(ctx context.Context, gender models.Gender, page int, gs *GenderStats) (bool, error) {
	ctx, span := tracer.Start(ctx, "FetchPage")
	defer span.End()
	span.SetAttributes(
		attribute.Int("year", d.opts.Year),
		attribute.String("gender", string(gender)),
		attribute.Int("page", page),
	)

	req := fetcher.PageRequest{
		Year:     d.opts.Year,
		Gender:   gender,
		Page:     page,
		PageSize: d.opts.PageSize,
	}

	doc, err := d.fetcher.Fetch(ctx, req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "fetch failed")
		return false, err
	}

	extracted, err := d.extractor.Extract(doc)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "extract failed")
		return false, fmt.Errorf("page %d (gender %s): %w", page, gender, err)
	}
	gs.Pages++

	emitted := 0
	for i, cells := range extracted.Rows {
		rec, err := d.builder.Build(cells, gender)
		if err != nil {
			var malformed *record.MalformedRowError
			if !errors.As(err, &malformed) {
				return false, fmt.Errorf("page %d (gender %s) row %d: %w", page, gender, i, err)
			}
			gs.Skipped++
			d.log.WithFields(logrus.Fields{
				"gender": gender,
				"page":   page,
				"row":    i,
				"cells":  cells,
			}).Warnf("Invalid row: %v", err)
			continue
		}

		if err := d.sink.Write(rec); err != nil {
			return false, fmt.Errorf("failed to write record: %w", err)
		}
		emitted++
	}
	gs.Records += emitted

	if err := d.sink.Flush(); err != nil {
		return false, fmt.Errorf("failed to flush output: %w", err)
	}

	span.SetAttributes(
		attribute.Int("rows", len(extracted.Rows)),
		attribute.Int("records", emitted),
		attribute.Bool("has_next", extracted.HasNext),
	)
	d.log.WithFields(logrus.Fields{
		"gender":   gender,
		"page":     page,
		"rows":     len(extracted.Rows),
		"records":  emitted,
		"has_next": extracted.HasNext,
	}).Info("Fetched page")

	return extracted.HasNext, nil
}
