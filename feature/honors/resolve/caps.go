package resolve

import (
	"honor-sync/feature/honors/models"
)

// Unlimited disables a cap.
const Unlimited = -1

// YearCap applies Cap to nominee lists for years From..To inclusive.
// A zero bound is open.
type YearCap struct {
	From int `yaml:"from" json:"from"`
	To   int `yaml:"to" json:"to"`
	Cap  int `yaml:"cap" json:"cap"`
}

func (y YearCap) covers(year int) bool {
	return (y.From == 0 || year >= y.From) && (y.To == 0 || year <= y.To)
}

// Caps bounds the number of honors per (year, award type, category).
type Caps struct {
	Winner         int       `json:"winner"`
	Special        int       `json:"special"`
	NomineeDefault int       `json:"nominee_default"`
	NomineeByYear  []YearCap `json:"nominee_by_year,omitempty"`
}

// DefaultCaps keeps one winner, three nominees, and five recommendations.
func DefaultCaps() Caps {
	return Caps{Winner: 1, Special: 5, NomineeDefault: 3}
}

// NomineeCap returns the nominee cap for year. The first matching range wins.
func (c Caps) NomineeCap(year int) int {
	for _, yc := range c.NomineeByYear {
		if yc.covers(year) {
			return yc.Cap
		}
	}
	return c.NomineeDefault
}

// For returns the cap for a category in a year.
func (c Caps) For(category models.Category, year int) int {
	switch category {
	case models.CategoryWinner:
		return c.Winner
	case models.CategoryNominee:
		return c.NomineeCap(year)
	default:
		return c.Special
	}
}

type capKey struct {
	year      int
	awardType string
	category  models.Category
}

// EnforceCaps keeps at most the capped number of honors per
// (year, award type, category), preserving input order. Honors beyond the cap
// are returned as dropped.
func EnforceCaps(honors []models.CanonicalHonor, caps Caps) (kept, dropped []models.CanonicalHonor) {
	counts := make(map[capKey]int)
	kept = make([]models.CanonicalHonor, 0, len(honors))

	for _, h := range honors {
		k := capKey{year: h.Year, awardType: h.AwardType, category: h.Category}
		limit := caps.For(h.Category, h.Year)
		if limit >= 0 && counts[k] >= limit {
			dropped = append(dropped, h)
			continue
		}
		counts[k]++
		kept = append(kept, h)
	}
	return kept, dropped
}
