package parser

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"marathon-scraper/models"
)

const utf8HTML = "text/html; charset=utf-8"

func resultsPage(rows []string, pagination string) []byte {
	var b strings.Builder
	b.WriteString("<html><head><title>Results</title></head><body>")
	b.WriteString("<table><thead><tr><th>Place</th><th>Name</th></tr></thead><tbody>")
	for _, row := range rows {
		b.WriteString(row)
	}
	b.WriteString("</tbody></table>")
	b.WriteString(pagination)
	b.WriteString("</body></html>")
	return []byte(b.String())
}

func row(cells ...string) string {
	var b strings.Builder
	b.WriteString("<tr>")
	for _, c := range cells {
		fmt.Fprintf(&b, "<td>%s</td>", c)
	}
	b.WriteString("</tr>")
	return b.String()
}

func doc(body []byte) *models.Document {
	return &models.Document{URL: "http://example.test/2013/", ContentType: utf8HTML, Body: body}
}

func TestExtractRows(t *testing.T) {
	body := resultsPage([]string{
		row("1", "1", "1", `<a href="?content=detail">&raquo; Kipsang, Dennis (KEN)</a>`, "  Iten  ", "3", "20-24", "24", "01:02:03", "", "02:03:45"),
		row("2", "2", "1", "Doe, John", "Chicago, IL", "17", "25-29", "27", "01:05:00", "", "02:10:00"),
	}, "")

	page, err := NewExtractor(DefaultSelectors()).Extract(doc(body))
	require.NoError(t, err)

	want := [][]string{
		{"1", "1", "1", "Kipsang, Dennis (KEN)", "Iten", "3", "20-24", "24", "01:02:03", "", "02:03:45"},
		{"2", "2", "1", "Doe, John", "Chicago, IL", "17", "25-29", "27", "01:05:00", "", "02:10:00"},
	}
	if diff := cmp.Diff(want, page.Rows); diff != "" {
		t.Errorf("rows mismatch (-want +got):\n%s", diff)
	}
	assert.False(t, page.HasNext)
}

func TestExtractNoRowsNoPagination(t *testing.T) {
	page, err := NewExtractor(DefaultSelectors()).Extract(doc(resultsPage(nil, "")))
	require.NoError(t, err)
	assert.Empty(t, page.Rows)
	assert.False(t, page.HasNext)
}

func TestExtractHasNext(t *testing.T) {
	tests := []struct {
		name       string
		pagination string
		expected   bool
	}{
		{
			name:       "next glyph last",
			pagination: `<div class="pages"><a href="?page=1">1</a><a href="?page=2">2</a><a href="?page=2">&gt;</a></div>`,
			expected:   true,
		},
		{
			name:       "next glyph with label",
			pagination: `<div class="pages"><a href="?page=1">1</a><a href="?page=2">Next &gt;</a></div>`,
			expected:   true,
		},
		{
			name:       "page number last",
			pagination: `<div class="pages"><a href="?page=1">&lt;</a><a href="?page=1">1</a><a href="?page=2">2</a></div>`,
			expected:   false,
		},
		{
			name:       "previous last",
			pagination: `<div class="pages"><a href="?page=3">4</a><a href="?page=3">previous</a></div>`,
			expected:   false,
		},
		{
			name:       "previous glyph last",
			pagination: `<div class="pages"><a href="?page=3">&lt;</a></div>`,
			expected:   false,
		},
		{
			name:       "disabled next",
			pagination: `<div class="pages"><a href="?page=1">1</a><a class="disabled">&gt;</a></div>`,
			expected:   false,
		},
		{
			name:       "aria disabled next",
			pagination: `<div class="pages"><a href="?page=1">1</a><a aria-disabled="true">&gt;</a></div>`,
			expected:   false,
		},
		{
			name:       "empty pagination area",
			pagination: `<div class="pages"></div>`,
			expected:   false,
		},
		{
			name:       "next link outside pagination area",
			pagination: `<div class="footer"><a href="?page=2">&gt;</a></div>`,
			expected:   false,
		},
	}

	e := NewExtractor(DefaultSelectors())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page, err := e.Extract(doc(resultsPage([]string{row("1")}, tt.pagination)))
			require.NoError(t, err)
			assert.Equal(t, tt.expected, page.HasNext)
		})
	}
}

func TestExtractCustomNextMarkers(t *testing.T) {
	sel := DefaultSelectors()
	sel.NextMarkers = []string{"weiter"}

	pagination := `<div class="pages"><a href="?page=2">Weiter</a></div>`
	page, err := NewExtractor(sel).Extract(doc(resultsPage(nil, pagination)))
	require.NoError(t, err)
	assert.True(t, page.HasNext)
}

func TestExtractRaquoNeverSurvives(t *testing.T) {
	body := resultsPage([]string{
		row("1", "»", "» » »", "»Name»", "City »", "6", "7", "8", "9", "10", "11"),
	}, "")

	page, err := NewExtractor(DefaultSelectors()).Extract(doc(body))
	require.NoError(t, err)
	require.Len(t, page.Rows, 1)
	for _, cell := range page.Rows[0] {
		assert.NotContains(t, cell, "»")
	}
	assert.Equal(t, "Name", page.Rows[0][3])
}

func TestExtractDecodesDeclaredCharset(t *testing.T) {
	// ISO-8859-1: 0xFC is u-umlaut, 0xBB is raquo
	name := []byte{0xBB, ' ', 'M', 0xFC, 'l', 'l', 'e', 'r'}
	body := resultsPage([]string{row("1", "1", "1", string(name), "Bern", "5", "30-34", "31", "01:20:00", "", "02:45:00")}, "")

	d := &models.Document{ContentType: "text/html; charset=iso-8859-1", Body: body}
	page, err := NewExtractor(DefaultSelectors()).Extract(d)
	require.NoError(t, err)
	require.Len(t, page.Rows, 1)
	assert.Equal(t, "Müller", page.Rows[0][3])
}

func TestExtractSniffsMetaCharset(t *testing.T) {
	body := []byte("<html><head><meta charset=\"windows-1252\"></head><body><table><tbody><tr><td>Jos\xe9</td></tr></tbody></table></body></html>")

	d := &models.Document{ContentType: "text/html", Body: body}
	page, err := NewExtractor(DefaultSelectors()).Extract(d)
	require.NoError(t, err)
	require.Len(t, page.Rows, 1)
	assert.Equal(t, []string{"José"}, page.Rows[0])
}

func TestExtractShortRowsAreKept(t *testing.T) {
	body := resultsPage([]string{
		row("1", "2", "3", "4", "5", "6", "7", "8"),
	}, "")

	page, err := NewExtractor(DefaultSelectors()).Extract(doc(body))
	require.NoError(t, err)
	require.Len(t, page.Rows, 1)
	assert.Len(t, page.Rows[0], 8)
}

func TestExtractEmptyDocument(t *testing.T) {
	e := NewExtractor(DefaultSelectors())

	for _, d := range []*models.Document{nil, doc(nil), doc([]byte("  \n\t "))} {
		page, err := e.Extract(d)
		require.Error(t, err)
		assert.Nil(t, page)

		var parseErr *ParseError
		require.True(t, errors.As(err, &parseErr))
		assert.ErrorIs(t, err, ErrEmptyDocument)
	}
}

func TestExtractIsIdempotent(t *testing.T) {
	body := resultsPage([]string{
		row("1", "1", "1", "» A", "B", "1", "D", "20", "01:00:00", "", "02:00:00"),
		row("2", "2", "2", "» C", "D", "2", "D", "21", "01:00:01", "", "02:00:01"),
		row("short"),
	}, `<div class="pages"><a href="?page=2">&gt;</a></div>`)

	e := NewExtractor(DefaultSelectors())
	d := doc(body)

	first, err := e.Extract(d)
	require.NoError(t, err)
	second, err := e.Extract(d)
	require.NoError(t, err)

	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("extraction not idempotent (-first +second):\n%s", diff)
	}
}
