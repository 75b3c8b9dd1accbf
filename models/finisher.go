package models

import "strings"

// Gender is the sex filter value sent to the results portal
type Gender string

const (
	GenderMale   Gender = "M"
	GenderFemale Gender = "W"
)

// Fields is the fixed output column order, shared by the header and every record line
var Fields = []string{
	"place",
	"place_gender",
	"place_division",
	"name_location",
	"city_state",
	"bib",
	"division",
	"age",
	"half_split",
	"finish",
	"gender",
}

// Header returns the comma-joined header line
func Header() string {
	return strings.Join(Fields, ",")
}

// Finisher represents one participant's result row
type Finisher struct {
	Place         string
	PlaceGender   string
	PlaceDivision string
	NameLocation  string // free text, quoted on output
	CityState     string // free text, quoted on output
	Bib           string
	Division      string
	Age           string
	HalfSplit     string
	Finish        string

	// Gender is the filter the page was fetched with, never read from a cell
	Gender Gender
}

// RawValues returns the record's fields in Fields order without any quoting
func (f Finisher) RawValues() []string {
	return []string{
		f.Place,
		f.PlaceGender,
		f.PlaceDivision,
		f.NameLocation,
		f.CityState,
		f.Bib,
		f.Division,
		f.Age,
		f.HalfSplit,
		f.Finish,
		string(f.Gender),
	}
}

// Values returns the record's output fields in Fields order with the free-text
// fields wrapped in double quotes. Embedded quotes and commas are not escaped.
func (f Finisher) Values() []string {
	values := f.RawValues()
	values[3] = Quote(f.NameLocation)
	values[4] = Quote(f.CityState)
	return values
}

// Line returns the comma-joined output line for the record
func (f Finisher) Line() string {
	return strings.Join(f.Values(), ",")
}

// Quote wraps s in double quotes
func Quote(s string) string {
	return `"` + s + `"`
}
