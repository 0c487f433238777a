package reconcile

import (
	"context"
	"fmt"
	"sync"

	"honor-sync/core/errors"
	"honor-sync/core/logger"
	"honor-sync/core/retry"
	"honor-sync/feature/honors/models"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// ReconcileWithPlan reads the store and plans per-game actions for the
// canonical honors. It never writes; use ApplyPlan for that.
//
// Read failures are recorded on the plan and counted as errors; only invalid
// options return an error.
func ReconcileWithPlan(ctx context.Context, store Store, canonical []models.CanonicalHonor, opts Options) (*Plan, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}
	log := logger.OrNop(opts.Logger)

	order, byGame := groupByGame(canonical)
	plan := &Plan{Mode: opts.Mode, Scope: opts.Scope}
	plan.Summary.Games = len(order)
	plan.Summary.DryRun = opts.DryRun

	type outcome struct {
		action  *Action
		failure *Failure
	}
	outcomes := make([]outcome, len(order))

	g := new(errgroup.Group)
	g.SetLimit(opts.workers())
	for i, id := range order {
		if ctx.Err() != nil {
			outcomes[i] = outcome{failure: &Failure{GameID: id, Op: "plan", Error: ctx.Err().Error()}}
			continue
		}
		g.Go(func() error {
			action, err := planGame(ctx, store, id, byGame[id], opts)
			if err != nil {
				log.Warn("Failed to read game", zap.String("game_id", id), zap.Error(err))
				outcomes[i] = outcome{failure: &Failure{GameID: id, Op: "get", Error: err.Error()}}
				return nil
			}
			outcomes[i] = outcome{action: action}
			return nil
		})
	}
	_ = g.Wait()

	for _, o := range outcomes {
		if o.failure != nil {
			plan.Failures = append(plan.Failures, *o.failure)
			plan.Summary.Errors++
			plan.Summary.Skipped++
			continue
		}
		if o.action == nil {
			plan.Summary.Unchanged++
			continue
		}
		plan.add(*o.action, opts)
	}

	if opts.Mode == ModeReplace {
		if opts.SkipStaleCleanup {
			log.Warn("Stale cleanup skipped", zap.String("award_type", opts.Scope.AwardType))
			plan.Summary.StaleCleanupSkipped = true
		} else {
			planStale(ctx, store, byGame, plan, opts, log)
		}
	}

	return plan, nil
}

// planGame returns nil when the game needs no write.
func planGame(ctx context.Context, store Store, id string, honors []models.CanonicalHonor, opts Options) (*Action, error) {
	doc, err := getDocument(ctx, store, id, opts)
	if errors.Is(err, errors.ErrNotFound) {
		if opts.Mode == ModeMerge && opts.AutoCreateMissing {
			honors = Dedupe(honors)
			return &Action{
				Type:     ActionCreate,
				GameID:   id,
				GameName: gameName(honors),
				Reason:   "game not in store; auto-create enabled",
				Added:    len(honors),
				Honors:   honors,
			}, nil
		}
		return &Action{
			Type:     ActionSkipMissing,
			GameID:   id,
			GameName: gameName(honors),
			Reason:   "game not in store",
			Honors:   honors,
		}, nil
	}
	if err != nil {
		return nil, err
	}

	switch opts.Mode {
	case ModeReplace:
		_, removed := Replace(doc.Honors, honors, opts.Scope)
		return &Action{
			Type:     ActionUpdate,
			GameID:   id,
			GameName: doc.Name,
			Reason:   fmt.Sprintf("replace %d scoped honors with %d", removed, len(honors)),
			Added:    len(honors),
			Removed:  removed,
			Honors:   honors,
		}, nil
	default:
		_, added, changed := Merge(doc.Honors, honors)
		if !changed {
			return nil, nil
		}
		return &Action{
			Type:     ActionUpdate,
			GameID:   id,
			GameName: doc.Name,
			Reason:   fmt.Sprintf("merge %d missing honors", added),
			Added:    added,
			Honors:   honors,
		}, nil
	}
}

// planStale pages through the whole store for games outside the canonical
// set that still hold scoped honors.
func planStale(ctx context.Context, store Store, canonical map[string][]models.CanonicalHonor, plan *Plan, opts Options, log *zap.Logger) {
	after := ""
	limit := opts.pageSize()
	for {
		if ctx.Err() != nil {
			plan.Failures = append(plan.Failures, Failure{Op: "scan", Error: ctx.Err().Error()})
			plan.Summary.Errors++
			return
		}

		var page []Document
		err := retry.Do(ctx, opts.retryConfig(), log, func(ctx context.Context) error {
			var err error
			page, err = store.Scan(ctx, after, limit)
			return err
		})
		if err != nil {
			log.Error("Stale cleanup scan failed", zap.String("after", after), zap.Error(err))
			plan.Failures = append(plan.Failures, Failure{Op: "scan", Error: err.Error()})
			plan.Summary.Errors++
			return
		}

		for _, doc := range page {
			if _, ok := canonical[doc.GameID]; ok {
				continue
			}
			n := CountCovered(doc.Honors, opts.Scope)
			if n == 0 {
				continue
			}
			plan.add(Action{
				Type:     ActionStripStale,
				GameID:   doc.GameID,
				GameName: doc.Name,
				Reason:   fmt.Sprintf("%d stale %s honors", n, opts.Scope.AwardType),
				Removed:  n,
			}, opts)
		}

		if len(page) < limit {
			return
		}
		after = page[len(page)-1].GameID
	}
}

func (p *Plan) add(a Action, opts Options) {
	p.Actions = append(p.Actions, a)
	s := &p.Summary
	switch a.Type {
	case ActionCreate:
		s.Created++
		s.HonorsAttached += a.Added
	case ActionUpdate:
		s.Updated++
		s.HonorsAttached += a.Added
		s.RemovedHonors += a.Removed
	case ActionStripStale:
		s.StaleGames++
		s.RemovedStaleHonors += a.Removed
	case ActionSkipMissing:
		s.Skipped++
		if opts.ReportMissingGames {
			s.MissingGameIDs = append(s.MissingGameIDs, a.GameID)
		}
	}
}

func getDocument(ctx context.Context, store Store, id string, opts Options) (*Document, error) {
	var doc *Document
	err := retry.Do(ctx, opts.retryConfig(), opts.Logger, func(ctx context.Context) error {
		var err error
		doc, err = store.Get(ctx, id)
		return err
	})
	return doc, err
}

// recorder collects apply outcomes from concurrent workers.
type recorder struct {
	mu       sync.Mutex
	summary  Summary
	failures []Failure
}

func (r *recorder) do(fn func(s *Summary)) {
	r.mu.Lock()
	fn(&r.summary)
	r.mu.Unlock()
}

func (r *recorder) fail(f Failure) {
	r.mu.Lock()
	r.failures = append(r.failures, f)
	r.summary.Errors++
	r.summary.Skipped++
	r.mu.Unlock()
}
