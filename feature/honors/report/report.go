package report

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"honor-sync/feature/honors/reconcile"

	"go.uber.org/zap"
)

// DefaultPreviewLimit bounds the sample of planned actions.
const DefaultPreviewLimit = 10

// Ingestion counts records on their way from the snapshot to canonical honors.
type Ingestion struct {
	Read          int            `json:"read"`
	Rejected      map[string]int `json:"rejected,omitempty"`
	Filtered      int            `json:"filtered"`
	NotApplicable int            `json:"not_applicable"`
	Classified    int            `json:"classified"`
	CapDropped    int            `json:"cap_dropped"`
	Canonical     int            `json:"canonical"`
}

// RejectedTotal returns the number of malformed records.
func (i Ingestion) RejectedTotal() int {
	n := 0
	for _, c := range i.Rejected {
		n += c
	}
	return n
}

// PreviewItem is one sampled action.
type PreviewItem struct {
	Type     reconcile.ActionType `json:"type"`
	GameID   string               `json:"game_id"`
	GameName string               `json:"game_name,omitempty"`
	Reason   string               `json:"reason"`
	Added    int                  `json:"added,omitempty"`
	Removed  int                  `json:"removed,omitempty"`
}

// Report is the outcome of one sync run.
type Report struct {
	Award  string         `json:"award"`
	Mode   reconcile.Mode `json:"mode"`
	DryRun bool           `json:"dry_run"`

	Created            int `json:"created"`
	Updated            int `json:"updated"`
	Unchanged          int `json:"unchanged"`
	RemovedStaleHonors int `json:"removed_stale_honors"`
	StaleGames         int `json:"stale_games"`
	// StaleCleanupSkipped is set when a replace run left games outside the canonical set alone.
	StaleCleanupSkipped bool `json:"stale_cleanup_skipped,omitempty"`
	HonorsAttached      int  `json:"honors_attached"`
	Skipped             int  `json:"skipped"`
	Errors              int  `json:"errors"`

	MissingGameIDs []string            `json:"missing_game_ids,omitempty"`
	Failures       []reconcile.Failure `json:"failures,omitempty"`

	Ingestion Ingestion `json:"ingestion"`

	TotalActions int           `json:"total_actions"`
	Preview      []PreviewItem `json:"preview,omitempty"`
}

// New creates an empty report for award.
func New(award string, mode reconcile.Mode, dryRun bool) *Report {
	return &Report{Award: award, Mode: mode, DryRun: dryRun}
}

// FromSummary folds reconcile results into the report. previewLimit <= 0
// uses DefaultPreviewLimit.
func (r *Report) FromSummary(s reconcile.Summary, plan *reconcile.Plan, previewLimit int) {
	r.Created = s.Created
	r.Updated = s.Updated
	r.Unchanged = s.Unchanged
	r.RemovedStaleHonors = s.RemovedStaleHonors
	r.StaleGames = s.StaleGames
	r.StaleCleanupSkipped = s.StaleCleanupSkipped
	r.HonorsAttached = s.HonorsAttached
	r.Skipped = s.Skipped
	r.Errors = s.Errors
	r.DryRun = s.DryRun
	r.MissingGameIDs = append([]string(nil), s.MissingGameIDs...)
	sort.Strings(r.MissingGameIDs)

	if plan == nil {
		return
	}
	r.Failures = plan.Failures
	r.TotalActions = len(plan.Actions)

	if previewLimit <= 0 {
		previewLimit = DefaultPreviewLimit
	}
	r.Preview = r.Preview[:0]
	for _, a := range plan.Actions {
		if len(r.Preview) >= previewLimit {
			break
		}
		r.Preview = append(r.Preview, PreviewItem{
			Type:     a.Type,
			GameID:   a.GameID,
			GameName: a.GameName,
			Reason:   a.Reason,
			Added:    a.Added,
			Removed:  a.Removed,
		})
	}
}

// HasChanges reports whether the run wrote, or would write, anything.
func (r *Report) HasChanges() bool {
	return r.Created > 0 || r.Updated > 0 || r.StaleGames > 0
}

// Summary renders a one-line text summary.
func (r *Report) Summary() string {
	var b strings.Builder
	if r.DryRun {
		b.WriteString("[dry-run] ")
	}
	fmt.Fprintf(&b, "%s (%s): %d created, %d updated, %d unchanged, %d stale honors removed, %d skipped, %d errors",
		r.Award, r.Mode, r.Created, r.Updated, r.Unchanged, r.RemovedStaleHonors, r.Skipped, r.Errors)
	if n := r.Ingestion.RejectedTotal(); n > 0 {
		fmt.Fprintf(&b, ", %d records rejected", n)
	}
	return b.String()
}

// JSON returns the indented JSON form.
func (r *Report) JSON() ([]byte, error) {
	return json.MarshalIndent(r, "", "  ")
}

// Log writes the report as structured log lines.
func (r *Report) Log(l *zap.Logger) {
	in := r.Ingestion
	l.Info("Ingestion report",
		zap.String("award", r.Award),
		zap.Int("read", in.Read),
		zap.Int("rejected", in.RejectedTotal()),
		zap.Any("rejected_by_reason", in.Rejected),
		zap.Int("filtered", in.Filtered),
		zap.Int("not_applicable", in.NotApplicable),
		zap.Int("cap_dropped", in.CapDropped),
		zap.Int("canonical", in.Canonical),
	)

	l.Info("Sync report",
		zap.String("mode", string(r.Mode)),
		zap.Bool("dry_run", r.DryRun),
		zap.Int("created", r.Created),
		zap.Int("updated", r.Updated),
		zap.Int("unchanged", r.Unchanged),
		zap.Int("stale_games", r.StaleGames),
		zap.Int("removed_stale_honors", r.RemovedStaleHonors),
		zap.Bool("stale_cleanup_skipped", r.StaleCleanupSkipped),
		zap.Int("honors_attached", r.HonorsAttached),
		zap.Int("skipped", r.Skipped),
		zap.Int("errors", r.Errors),
	)

	if len(r.MissingGameIDs) > 0 {
		l.Info("Games missing from store", zap.Strings("game_ids", r.MissingGameIDs))
	}
	for _, f := range r.Failures {
		l.Warn("Game failed", zap.String("game_id", f.GameID), zap.String("op", f.Op), zap.String("error", f.Error))
	}

	for _, p := range r.Preview {
		l.Info("Sample action",
			zap.String("type", string(p.Type)),
			zap.String("game_id", p.GameID),
			zap.String("game_name", p.GameName),
			zap.String("reason", p.Reason),
		)
	}
	if r.TotalActions > len(r.Preview) {
		l.Info("Additional actions not shown", zap.Int("count", r.TotalActions-len(r.Preview)))
	}
}
