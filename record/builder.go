package record

import (
	"fmt"
	"strings"

	"marathon-scraper/models"
)

// Raquo is the right-pointing double angle quotation mark the portal renders
// next to linked names
const Raquo = "»"

// ColumnMap names the cell position of every parsed field. The source table
// carries no column metadata, so positions are the only way to identify fields.
type ColumnMap struct {
	MinCells      int `yaml:"min_cells"`
	Place         int `yaml:"place"`
	PlaceGender   int `yaml:"place_gender"`
	PlaceDivision int `yaml:"place_division"`
	NameLocation  int `yaml:"name_location"`
	CityState     int `yaml:"city_state"`
	Bib           int `yaml:"bib"`
	Division      int `yaml:"division"`
	Age           int `yaml:"age"`
	HalfSplit     int `yaml:"half_split"`
	Finish        int `yaml:"finish"`
}

// DefaultColumns returns the layout of the results list view.
// Position 9 (estimated finish) is always empty and is not mapped.
func DefaultColumns() ColumnMap {
	return ColumnMap{
		MinCells:      11,
		Place:         0,
		PlaceGender:   1,
		PlaceDivision: 2,
		NameLocation:  3,
		CityState:     4,
		Bib:           5,
		Division:      6,
		Age:           7,
		HalfSplit:     8,
		Finish:        10,
	}
}

// Positions returns every mapped position keyed by field name
func (c ColumnMap) Positions() map[string]int {
	return map[string]int{
		"place":          c.Place,
		"place_gender":   c.PlaceGender,
		"place_division": c.PlaceDivision,
		"name_location":  c.NameLocation,
		"city_state":     c.CityState,
		"bib":            c.Bib,
		"division":       c.Division,
		"age":            c.Age,
		"half_split":     c.HalfSplit,
		"finish":         c.Finish,
	}
}

// MalformedRowError reports a row with too few cells. It is the builder's
// skip signal: callers log it and move on to the next row.
type MalformedRowError struct {
	Cells int
	Min   int
}

func (e *MalformedRowError) Error() string {
	return fmt.Sprintf("row has %d cells, need at least %d", e.Cells, e.Min)
}

// Builder turns positional cells into Finisher records
type Builder struct {
	columns ColumnMap
}

// NewBuilder creates a Builder for the given column layout
func NewBuilder(columns ColumnMap) *Builder {
	return &Builder{columns: columns}
}

// Build maps cells onto a Finisher and tags it with the gender used for the fetch.
// A row shorter than the configured minimum yields a *MalformedRowError.
func (b *Builder) Build(cells []string, gender models.Gender) (models.Finisher, error) {
	if len(cells) < b.columns.MinCells {
		return models.Finisher{}, &MalformedRowError{Cells: len(cells), Min: b.columns.MinCells}
	}

	c := b.columns
	return models.Finisher{
		Place:         StripDecorations(cells[c.Place]),
		PlaceGender:   StripDecorations(cells[c.PlaceGender]),
		PlaceDivision: StripDecorations(cells[c.PlaceDivision]),
		NameLocation:  StripDecorations(cells[c.NameLocation]),
		CityState:     StripDecorations(cells[c.CityState]),
		Bib:           StripDecorations(cells[c.Bib]),
		Division:      StripDecorations(cells[c.Division]),
		Age:           StripDecorations(cells[c.Age]),
		HalfSplit:     StripDecorations(cells[c.HalfSplit]),
		Finish:        StripDecorations(cells[c.Finish]),
		Gender:        gender,
	}, nil
}

// StripDecorations removes the raquo glyph and surrounding whitespace
func StripDecorations(s string) string {
	return strings.TrimSpace(strings.ReplaceAll(s, Raquo, ""))
}
