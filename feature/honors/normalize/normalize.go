package normalize

import (
	"strings"

	"honor-sync/core/errors"
	"honor-sync/core/utils"
	"honor-sync/feature/honors/models"

	"golang.org/x/text/unicode/norm"
)

// Reject reasons, used as ValidationError fields and report keys.
const (
	ReasonYear       = "year"
	ReasonAwardSet   = "award_set"
	ReasonBoardgames = "boardgames"
	ReasonPosition   = "position"
)

// Field aliases seen across live scrapes and dataset snapshots.
var (
	honorIDKeys  = []string{"honorId", "honor_id", "id", "objectid"}
	slugKeys     = []string{"slug", "href"}
	yearKeys     = []string{"year"}
	awardSetKeys = []string{"awardSet", "award_set", "awardset", "name"}
	positionKeys = []string{"position"}
	titleKeys    = []string{"title"}
	gamesKeys    = []string{"boardgames", "games", "items"}
	gameIDKeys   = []string{"externalGameId", "external_game_id", "objectid", "id", "bggId"}
	gameNameKeys = []string{"name", "title", "primaryName"}
)

// Options controls which records are accepted.
type Options struct {
	// RequirePosition rejects records without a position sub-label.
	RequirePosition bool
}

// Normalize converts one raw record into an HonorEntry.
// Rejected records return an error matching errors.ErrInvalidInput whose
// *errors.ValidationError field names the reason.
func Normalize(raw models.RawRecord, opts Options) (models.HonorEntry, error) {
	e := models.HonorEntry{
		HonorID:  text(raw, honorIDKeys...),
		Slug:     text(raw, slugKeys...),
		AwardSet: text(raw, awardSetKeys...),
		Position: text(raw, positionKeys...),
		Title:    text(raw, titleKeys...),
	}
	if v, ok := utils.FirstOf(raw, yearKeys...); ok {
		e.Year = utils.ToInt(v)
	}

	if e.Year <= 0 {
		return models.HonorEntry{}, errors.NewValidationError(ReasonYear, raw["year"], "missing year")
	}
	if e.AwardSet == "" {
		return models.HonorEntry{}, errors.NewValidationError(ReasonAwardSet, nil, "missing award set")
	}
	if opts.RequirePosition && e.Position == "" {
		return models.HonorEntry{}, errors.NewValidationError(ReasonPosition, nil, "missing position")
	}

	v, _ := utils.FirstOf(raw, gamesKeys...)
	e.Boardgames = games(v)
	if len(e.Boardgames) == 0 {
		return models.HonorEntry{}, errors.NewValidationError(ReasonBoardgames, nil, "no boardgames listed")
	}
	return e, nil
}

// Rejections counts dropped records by reason.
type Rejections map[string]int

// Total returns the number of rejected records.
func (r Rejections) Total() int {
	n := 0
	for _, c := range r {
		n += c
	}
	return n
}

// NormalizeAll normalizes a batch. Malformed records are counted, never fatal.
func NormalizeAll(raws []models.RawRecord, opts Options) ([]models.HonorEntry, Rejections) {
	entries := make([]models.HonorEntry, 0, len(raws))
	rejected := Rejections{}
	for _, raw := range raws {
		e, err := Normalize(raw, opts)
		if err != nil {
			var verr *errors.ValidationError
			if errors.As(err, &verr) {
				rejected[verr.Field]++
			} else {
				rejected["unknown"]++
			}
			continue
		}
		entries = append(entries, e)
	}
	return entries, rejected
}

// games reads the listed games, dropping those without an id and repeated ids.
func games(v any) []models.GameRef {
	var items []map[string]any
	switch list := v.(type) {
	case []any:
		for _, it := range list {
			if m, ok := it.(map[string]any); ok {
				items = append(items, m)
			}
		}
	case []map[string]any:
		items = list
	case []models.GameRef:
		items = make([]map[string]any, 0, len(list))
		for _, g := range list {
			items = append(items, map[string]any{"externalGameId": g.ExternalGameID, "name": g.Name})
		}
	}

	seen := make(map[string]struct{}, len(items))
	out := make([]models.GameRef, 0, len(items))
	for _, m := range items {
		id := text(m, gameIDKeys...)
		if id == "" {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, models.GameRef{ExternalGameID: id, Name: text(m, gameNameKeys...)})
	}
	return out
}

// text returns the first present key as trimmed NFC text.
func text(m map[string]any, keys ...string) string {
	for _, k := range keys {
		v, ok := m[k]
		if !ok || v == nil {
			continue
		}
		if s := strings.TrimSpace(norm.NFC.String(utils.ToString(v))); s != "" {
			return s
		}
	}
	return ""
}
