package resolve

import (
	"fmt"
	"time"

	"honor-sync/feature/honors/models"
)

// Classified is a normalized entry with its classifier verdict.
type Classified struct {
	Entry     models.HonorEntry
	AwardType string
	Category  models.Category
}

// Options shapes the canonical honors the resolver emits.
type Options struct {
	// Source is the provenance tag stored on every honor.
	Source string
	// SpecialLabel names the Special category in display names.
	// Defaults to "Recommended".
	SpecialLabel string
	// Describe returns the description for an honor. Defaults to the entry title.
	Describe func(c Classified) string
	// Now stamps created_at. Defaults to time.Now.
	Now func() time.Time
}

func (o Options) withDefaults() Options {
	if o.SpecialLabel == "" {
		o.SpecialLabel = "Recommended"
	}
	if o.Describe == nil {
		o.Describe = func(c Classified) string { return c.Entry.Title }
	}
	if o.Now == nil {
		o.Now = time.Now
	}
	return o
}

// Label returns the human label for a category.
func (o Options) Label(c models.Category) string {
	if c == models.CategorySpecial {
		if o.SpecialLabel == "" {
			return "Recommended"
		}
		return o.SpecialLabel
	}
	return string(c)
}

// Resolve collapses classified entries to one canonical honor per
// (game, year, award type). A higher-ranked category replaces a lower one in
// place; equal or lower ranks never overwrite. Output keeps the order in which
// keys were first seen.
//
// A Winner entry that lists several games credits only the first listed game.
func Resolve(items []Classified, opts Options) []models.CanonicalHonor {
	opts = opts.withDefaults()
	createdAt := opts.Now().UTC()

	index := make(map[models.HonorKey]int)
	var out []models.CanonicalHonor

	for _, item := range items {
		if !item.Category.Valid() {
			continue
		}
		games := item.Entry.Boardgames
		if item.Category == models.CategoryWinner && len(games) > 1 {
			games = games[:1]
		}

		for _, game := range games {
			honor := build(item, game, opts, createdAt)
			key := honor.Key()

			i, seen := index[key]
			if !seen {
				index[key] = len(out)
				out = append(out, honor)
				continue
			}
			if honor.Category.Rank() > out[i].Category.Rank() {
				if honor.GameName == "" {
					honor.GameName = out[i].GameName
				}
				out[i] = honor
			}
		}
	}
	return out
}

func build(item Classified, game models.GameRef, opts Options, createdAt time.Time) models.CanonicalHonor {
	year := item.Entry.Year
	return models.CanonicalHonor{
		ExternalGameID: game.ExternalGameID,
		GameName:       game.Name,
		Year:           year,
		AwardType:      item.AwardType,
		Category:       item.Category,
		Name:           fmt.Sprintf("%d %s %s", year, item.AwardType, opts.Label(item.Category)),
		Description:    opts.Describe(item),
		Source:         opts.Source,
		Validated:      false,
		CreatedAt:      createdAt,
		HonorID:        item.Entry.HonorID,
		Slug:           item.Entry.Slug,
	}
}
