package cli

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"marathon-scraper/models"
	"marathon-scraper/scraper"
)

func TestRenderSummary(t *testing.T) {
	stats := &scraper.Stats{
		Year: 2013,
		Genders: []*scraper.GenderStats{
			{Gender: models.GenderMale, Pages: 3, Records: 70, Skipped: 2},
			{Gender: models.GenderFemale, Pages: 2, Records: 41, Skipped: 0},
		},
	}

	out := RenderSummary(stats)

	assert.Contains(t, out, "Results 2013")
	assert.Contains(t, strings.ToUpper(out), "RECORDS")
	assert.Contains(t, out, "70")
	assert.Contains(t, out, "41")
	// totals
	assert.Contains(t, out, "111")
	assert.Contains(t, strings.ToUpper(out), "TOTAL")
}
