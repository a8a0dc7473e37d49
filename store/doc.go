// Package store persists serialized workspaces over database/sql.
//
// A Store wraps an existing *sql.DB (or opens one by driver name and DSN)
// and keeps every workspace as one row in a single workspaces table:
// id, name, msgpack state blob, and timestamps. Migrate creates the table
// with column types fitted to the sqlite, mysql, or postgres dialect;
// sqlite via modernc.org/sqlite is the tested default.
//
// Save serializes through the serial package and upserts by workspace id.
// Load rebuilds a fresh workspace from the stored blob, silently, so a
// loaded workspace starts with empty history. Constraint violations
// surface as *ConstraintError regardless of driver.
package store
