package scraper

import "marathon-scraper/models"

// Stats summarises a run
type Stats struct {
	Year    int
	Genders []*GenderStats
}

// GenderStats counts one gender pass
type GenderStats struct {
	Gender  models.Gender
	Pages   int
	Records int
	Skipped int // malformed rows
}

func (s *Stats) add(g models.Gender) *GenderStats {
	gs := &GenderStats{Gender: g}
	s.Genders = append(s.Genders, gs)
	return gs
}

// Records returns the number of records emitted across all genders
func (s *Stats) Records() int {
	total := 0
	for _, gs := range s.Genders {
		total += gs.Records
	}
	return total
}

// Skipped returns the number of malformed rows across all genders
func (s *Stats) Skipped() int {
	total := 0
	for _, gs := range s.Genders {
		total += gs.Skipped
	}
	return total
}
