// Package reconcile synchronizes canonical honors into per-game honor
// documents in the record store.
//
// Reconciliation is scoped to one award type (optionally a year window) and
// runs in one of two modes:
//
//   - Merge: add canonical honors whose (year, award type, category) key is
//     absent; existing honors always win. Games are written only when they change.
//   - Replace: drop the scoped honors of every canonical game and append the
//     canonical list, then page through the whole store and strip scoped honors
//     from games that are no longer in the canonical set.
//
// # Plan and Apply
//
// ReconcileWithPlan reads the store and returns the per-game actions it would
// take, without writing. Dry runs stop there. ApplyPlan executes the actions
// with a bounded worker pool; each game is locked, re-read, recomputed, and
// written under bounded exponential backoff. A failure for one game is counted
// and the run moves on; nothing is rolled back.
//
// # Usage
//
//	plan, summary, err := reconcile.Reconcile(ctx, store, canonical, reconcile.Options{
//	    Mode:  reconcile.ModeReplace,
//	    Scope: reconcile.Scope{AwardType: "Spiel des Jahres"},
//	})
package reconcile
