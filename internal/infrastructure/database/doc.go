// Package database provides the SQLite connection used for the proxy's
// command audit trail.
//
// Target state is never stored here; the registry is memory-resident by
// design. The database only records scene-set commands so operators can
// see who recalled what, and when.
//
// Usage:
//
//	db, err := database.Open(ctx, database.Config{Path: cfg.Database.Path, WALMode: true, BusyTimeout: 5})
//	if err != nil {
//	    return err
//	}
//	defer db.Close()
//
//	if err := db.Migrate(ctx, migrations.FS); err != nil {
//	    return err
//	}
//
// Migrations are embedded SQL files named YYYYMMDD_HHMMSS_description.up.sql
// with an optional .down.sql, each applied in its own transaction.
package database
