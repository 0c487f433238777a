// Package honors syncs award honors from snapshots into game records.
//
// A run loads a snapshot, normalizes and classifies its records for one award
// family, resolves them to one canonical honor per game, year, and award type,
// enforces per-category caps, and reconciles the result into the record store
// in merge or replace mode. The Service drives the pipeline; the Handler and
// Feature expose it over HTTP.
package honors
