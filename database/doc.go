// Package database opens and manages the GORM-backed SQLite store.
//
// It owns connection pooling, retry on open, query logging through the
// application logger, and auto-migration of the registered models.
// Feature packages (users, courses) define their own models and
// repositories on top of the *DB handle; this package stays free of
// domain types apart from the shared BaseModel.
package database
