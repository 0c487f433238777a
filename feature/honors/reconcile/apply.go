package reconcile

import (
	"context"
	"fmt"

	"honor-sync/core/errors"
	"honor-sync/core/logger"
	"honor-sync/core/retry"
	"honor-sync/feature/honors/models"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// ApplyPlan executes the plan's actions with a bounded worker pool.
//
// Each game is re-read and recomputed under its own lock, so a game is never
// written by two workers at once and a write is based on current state.
// Failures are counted per game and the run continues. Cancellation stops new
// games from starting; a write already in flight always completes.
// With opts.DryRun set, nothing is written and the plan summary is returned.
func ApplyPlan(ctx context.Context, store Store, plan *Plan, opts Options) Summary {
	if opts.DryRun {
		s := plan.Summary
		s.DryRun = true
		return s
	}
	log := logger.OrNop(opts.Logger)

	rec := &recorder{}
	rec.summary.Games = plan.Summary.Games
	rec.summary.Unchanged = plan.Summary.Unchanged
	rec.summary.Errors = plan.Summary.Errors
	rec.summary.Skipped = plan.Summary.Skipped
	rec.summary.MissingGameIDs = plan.Summary.MissingGameIDs
	rec.summary.StaleCleanupSkipped = plan.Summary.StaleCleanupSkipped
	rec.failures = append(rec.failures, plan.Failures...)

	locks := newKeyedMutex()
	g := new(errgroup.Group)
	g.SetLimit(opts.workers())

	for _, action := range plan.Actions {
		if action.Type == ActionSkipMissing {
			continue
		}
		if ctx.Err() != nil {
			rec.do(func(s *Summary) { s.Skipped++ })
			continue
		}

		g.Go(func() error {
			if ctx.Err() != nil {
				rec.do(func(s *Summary) { s.Skipped++ })
				return nil
			}
			release := locks.Lock(action.GameID)
			defer release()

			if err := applyAction(ctx, store, action, opts, rec); err != nil {
				log.Warn("Failed to reconcile game",
					zap.String("game_id", action.GameID),
					zap.String("action", string(action.Type)),
					zap.Error(err))
				rec.fail(Failure{GameID: action.GameID, Op: string(action.Type), Error: err.Error()})
			}
			return nil
		})
	}
	_ = g.Wait()

	rec.summary.DryRun = false
	plan.Failures = rec.failures
	return rec.summary
}

func applyAction(ctx context.Context, store Store, action Action, opts Options, rec *recorder) error {
	// Writes run to completion even if the run is canceled mid-game.
	writeCtx := context.WithoutCancel(ctx)

	switch action.Type {
	case ActionCreate:
		doc := &Document{
			GameID:      action.GameID,
			Name:        action.GameName,
			Provisional: true,
			Honors:      Dedupe(action.Honors),
		}
		if err := save(writeCtx, opts, func(ctx context.Context) error { return store.Create(ctx, doc) }); err != nil {
			return err
		}
		rec.do(func(s *Summary) {
			s.Created++
			s.HonorsAttached += len(doc.Honors)
		})
		return nil

	case ActionUpdate:
		doc, err := getDocument(ctx, store, action.GameID, opts)
		if err != nil {
			return err
		}
		var out []models.CanonicalHonor
		var added, removed int
		if opts.Mode == ModeReplace {
			out, removed = Replace(doc.Honors, action.Honors, opts.Scope)
			added = len(action.Honors)
		} else {
			var changed bool
			out, added, changed = Merge(doc.Honors, action.Honors)
			if !changed {
				rec.do(func(s *Summary) { s.Unchanged++ })
				return nil
			}
		}
		doc.Honors = out
		if err := save(writeCtx, opts, func(ctx context.Context) error { return store.Save(ctx, doc) }); err != nil {
			return err
		}
		rec.do(func(s *Summary) {
			s.Updated++
			s.HonorsAttached += added
			s.RemovedHonors += removed
		})
		return nil

	case ActionStripStale:
		doc, err := getDocument(ctx, store, action.GameID, opts)
		if errors.Is(err, errors.ErrNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		out, removed := Strip(doc.Honors, opts.Scope)
		if removed == 0 {
			return nil
		}
		doc.Honors = Dedupe(out)
		if err := save(writeCtx, opts, func(ctx context.Context) error { return store.Save(ctx, doc) }); err != nil {
			return err
		}
		rec.do(func(s *Summary) {
			s.StaleGames++
			s.RemovedStaleHonors += removed
		})
		return nil

	default:
		return fmt.Errorf("unknown action type %q", action.Type)
	}
}

func save(ctx context.Context, opts Options, op func(ctx context.Context) error) error {
	return retry.Do(ctx, opts.retryConfig(), opts.Logger, op)
}

// Reconcile plans and, unless opts.DryRun is set, applies the plan.
func Reconcile(ctx context.Context, store Store, canonical []models.CanonicalHonor, opts Options) (*Plan, Summary, error) {
	plan, err := ReconcileWithPlan(ctx, store, canonical, opts)
	if err != nil {
		return nil, Summary{}, err
	}
	return plan, ApplyPlan(ctx, store, plan, opts), nil
}
