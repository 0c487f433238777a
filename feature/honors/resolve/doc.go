// Package resolve turns classified honor entries into the canonical honor set.
//
// Resolve applies category precedence (Winner > Nominee > Special, upgrade only)
// per (game, year, award type). EnforceCaps then bounds each
// (year, award type, category) group to its configured size, keeping source order.
package resolve
