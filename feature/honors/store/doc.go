// Package store persists game honor documents in a relational database.
//
// Each game is one row in the games table keyed by its external id. Honors
// are stored as a JSON array in a text column, so MySQL and SQLite share the
// same schema. Store implements reconcile.Store.
package store
