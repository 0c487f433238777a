package resolve

import (
	"testing"

	"honor-sync/feature/honors/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ids(honors []models.CanonicalHonor) []string {
	out := make([]string, 0, len(honors))
	for _, h := range honors {
		out = append(out, h.ExternalGameID)
	}
	return out
}

// Scenario B: a nominee cap of 3 keeps the first three in source order.
func TestEnforceCaps_ScenarioB(t *testing.T) {
	var items []Classified
	for _, g := range []string{"G1", "G2", "G3", "G4", "G5"} {
		items = append(items, classified(models.CategoryNominee, entry(2024, "nominee-"+g, g)))
	}
	canonical := Resolve(items, Options{Now: fixedNow})

	kept, dropped := EnforceCaps(canonical, Caps{Winner: 1, Special: 5, NomineeDefault: 3})
	assert.Equal(t, []string{"G1", "G2", "G3"}, ids(kept))
	assert.Equal(t, []string{"G4", "G5"}, ids(dropped))
}

func TestEnforceCaps_SingleWinner(t *testing.T) {
	items := []Classified{
		classified(models.CategoryWinner, entry(2010, "winner-a", "A")),
		classified(models.CategoryWinner, entry(2010, "winner-b", "B")),
	}
	kept, dropped := EnforceCaps(Resolve(items, Options{Now: fixedNow}), DefaultCaps())
	assert.Equal(t, []string{"A"}, ids(kept))
	assert.Equal(t, []string{"B"}, ids(dropped))
}

func TestEnforceCaps_PerYearNomineeTable(t *testing.T) {
	caps := Caps{
		Winner:         1,
		Special:        Unlimited,
		NomineeDefault: 3,
		NomineeByYear: []YearCap{
			{To: 1989, Cap: 0},
			{From: 1990, To: 2000, Cap: 5},
		},
	}
	assert.Equal(t, 0, caps.NomineeCap(1985))
	assert.Equal(t, 5, caps.NomineeCap(1995))
	assert.Equal(t, 3, caps.NomineeCap(2024))

	var items []Classified
	for _, g := range []string{"A", "B"} {
		items = append(items, classified(models.CategoryNominee, entry(1985, "n-"+g, g)))
	}
	kept, dropped := EnforceCaps(Resolve(items, Options{Now: fixedNow}), caps)
	assert.Empty(t, kept)
	assert.Len(t, dropped, 2)
}

func TestEnforceCaps_GroupsAreIndependent(t *testing.T) {
	var items []Classified
	for _, g := range []string{"A", "B", "C", "D", "E", "F", "G"} {
		items = append(items, classified(models.CategorySpecial, entry(2020, "rec-"+g, g)))
	}
	items = append(items, classified(models.CategorySpecial, entry(2021, "rec-X", "X")))
	items = append(items, classified(models.CategoryWinner, entry(2020, "winner", "W")))

	kept, dropped := EnforceCaps(Resolve(items, Options{Now: fixedNow}), DefaultCaps())
	require.Len(t, dropped, 2)
	assert.Equal(t, []string{"F", "G"}, ids(dropped))
	assert.Contains(t, ids(kept), "X")
	assert.Contains(t, ids(kept), "W")
}

func TestEnforceCaps_Property(t *testing.T) {
	var items []Classified
	for year := 2018; year <= 2020; year++ {
		for i := 0; i < 8; i++ {
			g := string(rune('A' + i))
			items = append(items,
				classified(models.CategoryWinner, entry(year, "w"+g, "w"+g)),
				classified(models.CategoryNominee, entry(year, "n"+g, "n"+g)),
				classified(models.CategorySpecial, entry(year, "s"+g, "s"+g)),
			)
		}
	}
	caps := DefaultCaps()
	kept, _ := EnforceCaps(Resolve(items, Options{Now: fixedNow}), caps)

	counts := map[capKey]int{}
	for _, h := range kept {
		counts[capKey{h.Year, h.AwardType, h.Category}]++
	}
	for k, n := range counts {
		assert.LessOrEqual(t, n, caps.For(k.category, k.year), "%+v", k)
	}
}
