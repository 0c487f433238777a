// Package models defines the honor types that flow through the sync pipeline:
// raw records from the source feed, validated HonorEntry values, and the
// CanonicalHonor unit that is reconciled into each game's document.
package models
