package reconcile

import (
	"context"
	"fmt"

	"honor-sync/core/errors"
	"honor-sync/core/retry"
	"honor-sync/feature/honors/models"

	"go.uber.org/zap"
)

// Mode selects additive or destructive reconciliation.
type Mode string

const (
	// ModeMerge adds missing honors and never overwrites existing ones.
	ModeMerge Mode = "merge"
	// ModeReplace rebuilds the scoped honors of every game and strips stale ones store-wide.
	ModeReplace Mode = "replace"
)

// ParseMode accepts "merge" or "replace"; empty means merge.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case "", ModeMerge:
		return ModeMerge, nil
	case ModeReplace:
		return ModeReplace, nil
	default:
		return "", errors.NewValidationError("mode", s, "must be merge or replace")
	}
}

// Scope is the slice of honors one run owns: a single award type, optionally
// narrowed to a year window. Zero bounds are open.
type Scope struct {
	AwardType string `json:"award_type"`
	Since     int    `json:"since,omitempty"`
	Until     int    `json:"until,omitempty"`
}

// Covers reports whether h belongs to the scope.
func (s Scope) Covers(h models.CanonicalHonor) bool {
	if h.AwardType != s.AwardType {
		return false
	}
	if s.Since != 0 && h.Year < s.Since {
		return false
	}
	if s.Until != 0 && h.Year > s.Until {
		return false
	}
	return true
}

// Document is one game's persisted honor collection.
type Document struct {
	GameID      string
	Name        string
	Provisional bool
	Honors      []models.CanonicalHonor
}

// Store is the record store the reconciler reads and writes.
// Get must return an error matching errors.ErrNotFound for unknown games.
type Store interface {
	Get(ctx context.Context, gameID string) (*Document, error)
	Save(ctx context.Context, doc *Document) error
	Create(ctx context.Context, doc *Document) error
	// Scan returns up to limit documents with GameID > afterID, ordered by GameID.
	Scan(ctx context.Context, afterID string, limit int) ([]Document, error)
}

// Options controls a reconcile run.
type Options struct {
	Mode  Mode
	Scope Scope

	// DryRun plans without writing.
	DryRun bool

	// AutoCreateMissing inserts provisional game records for unknown ids.
	// Merge mode only.
	AutoCreateMissing bool

	// ReportMissingGames lists skipped unknown game ids in the summary.
	ReportMissingGames bool

	// SkipStaleCleanup keeps replace mode from stripping games outside the
	// canonical set. Set it when the canonical set is known to be partial.
	SkipStaleCleanup bool

	// Workers bounds concurrent games. Values below 1 mean sequential.
	Workers int

	// PageSize is the stale cleanup scan page size.
	PageSize int

	// Retry bounds store call retries. The zero value uses retry.DefaultConfig.
	Retry retry.Config

	Logger *zap.Logger
}

func (o Options) validate() error {
	if o.Mode != ModeMerge && o.Mode != ModeReplace {
		return errors.NewValidationError("mode", o.Mode, "must be merge or replace")
	}
	if o.Scope.AwardType == "" {
		return errors.NewValidationError("scope", nil, "award type is required")
	}
	if o.Scope.Since != 0 && o.Scope.Until != 0 && o.Scope.Since > o.Scope.Until {
		return errors.NewValidationError("scope", fmt.Sprintf("%d-%d", o.Scope.Since, o.Scope.Until), "since is after until")
	}
	return nil
}

func (o Options) workers() int {
	if o.Workers < 1 {
		return 1
	}
	return o.Workers
}

func (o Options) retryConfig() retry.Config {
	if o.Retry == (retry.Config{}) {
		return retry.DefaultConfig()
	}
	return o.Retry
}

func (o Options) pageSize() int {
	if o.PageSize < 1 {
		return 200
	}
	return o.PageSize
}

// ActionType represents the type of per-game mutation.
type ActionType string

const (
	// ActionUpdate writes a merged or replaced honor list to an existing game.
	ActionUpdate ActionType = "update"
	// ActionCreate inserts a provisional game carrying its honors.
	ActionCreate ActionType = "create"
	// ActionStripStale removes scoped honors from a game outside the canonical set.
	ActionStripStale ActionType = "strip_stale"
	// ActionSkipMissing records a canonical game with no record and no auto-create.
	ActionSkipMissing ActionType = "skip_missing"
)

// Action represents a planned mutation for one game.
type Action struct {
	Type     ActionType `json:"type"`
	GameID   string     `json:"game_id"`
	GameName string     `json:"game_name,omitempty"`
	Reason   string     `json:"reason"`

	// Added counts honors that would be attached.
	Added int `json:"added"`
	// Removed counts honors that would be dropped.
	Removed int `json:"removed"`

	// Honors are the canonical honors for this game.
	Honors []models.CanonicalHonor `json:"honors,omitempty"`
}

// Failure records a per-game store error.
type Failure struct {
	GameID string `json:"game_id,omitempty"`
	Op     string `json:"op"`
	Error  string `json:"error"`
}

// Plan contains planned actions and aggregate counts. Planning never writes.
type Plan struct {
	Mode     Mode      `json:"mode"`
	Scope    Scope     `json:"scope"`
	Actions  []Action  `json:"actions"`
	Summary  Summary   `json:"summary"`
	Failures []Failure `json:"failures,omitempty"`
}

// Summary provides aggregate reconcile counts. For a plan they describe what
// would happen; after ApplyPlan they describe what did.
type Summary struct {
	Games               int      `json:"games"`
	Created             int      `json:"created"`
	Updated             int      `json:"updated"`
	Unchanged           int      `json:"unchanged"`
	RemovedHonors       int      `json:"removed_honors"`
	RemovedStaleHonors  int      `json:"removed_stale_honors"`
	StaleGames          int      `json:"stale_games"`
	StaleCleanupSkipped bool     `json:"stale_cleanup_skipped,omitempty"`
	HonorsAttached      int      `json:"honors_attached"`
	Skipped             int      `json:"skipped"`
	Errors              int      `json:"errors"`
	MissingGameIDs      []string `json:"missing_game_ids,omitempty"`
	DryRun              bool     `json:"dry_run"`
}

// HasChanges reports whether any game was (or would be) written.
func (s Summary) HasChanges() bool {
	return s.Created > 0 || s.Updated > 0 || s.StaleGames > 0
}
