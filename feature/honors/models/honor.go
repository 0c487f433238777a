package models

import (
	"fmt"
	"time"
)

// RawRecord is one scraped honor page or snapshot row before normalization.
type RawRecord map[string]any

// GameRef is a game listed on an honor page.
type GameRef struct {
	ExternalGameID string `json:"externalGameId"`
	Name           string `json:"name"`
}

// HonorEntry is a validated honor page: one award set and position with the
// games it lists, in source order.
type HonorEntry struct {
	HonorID    string    `json:"honorId"`
	Slug       string    `json:"slug"`
	Year       int       `json:"year"`
	AwardSet   string    `json:"awardSet"`
	Position   string    `json:"position"`
	Title      string    `json:"title"`
	Boardgames []GameRef `json:"boardgames"`
}

// CanonicalHonor is the resolved honor for one (game, year, award type).
// The JSON form is the persisted subset stored on a game record; the game id
// is the document key and is not repeated inside it.
type CanonicalHonor struct {
	ExternalGameID string    `json:"-"`
	GameName       string    `json:"-"`
	Year           int       `json:"year"`
	AwardType      string    `json:"award_type"`
	Category       Category  `json:"category"`
	Name           string    `json:"name"`
	Description    string    `json:"description,omitempty"`
	Source         string    `json:"source,omitempty"`
	Validated      bool      `json:"validated"`
	CreatedAt      time.Time `json:"created_at"`
	HonorID        string    `json:"honor_id,omitempty"`
	Slug           string    `json:"slug,omitempty"`
}

// HonorKey identifies a canonical honor across the whole run.
type HonorKey struct {
	GameID    string
	Year      int
	AwardType string
}

// String renders the key for logs.
func (k HonorKey) String() string {
	return fmt.Sprintf("%s/%d/%s", k.GameID, k.Year, k.AwardType)
}

// MergeKey identifies an honor within one game's document.
type MergeKey struct {
	Year      int
	AwardType string
	Category  Category
}

// Key returns the run-wide resolution key.
func (h CanonicalHonor) Key() HonorKey {
	return HonorKey{GameID: h.ExternalGameID, Year: h.Year, AwardType: h.AwardType}
}

// MergeKey returns the per-document dedupe key.
func (h CanonicalHonor) MergeKey() MergeKey {
	return MergeKey{Year: h.Year, AwardType: h.AwardType, Category: h.Category}
}
