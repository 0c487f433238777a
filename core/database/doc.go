// Package database handles record store connections and schema inspection.
//
// It wraps GORM to configure MySQL (production) or SQLite (local runs and tests)
// connections from the application's configuration.
//
// # Schema Inspection
//
// GetTableColumns lists the columns of a table for either dialect. The honors
// store uses it after migration to confirm the games table carries the
// columns the reconciler writes to.
//
// # Usage
//
//	db, err := database.Connect(cfg.Database)
//	if err != nil {
//	    log.Fatal("Database connection failed", err)
//	}
//
//	columns, err := database.GetTableColumns(db, "games")
package database
