// Package db carries the embedded database schema.
package db

import _ "embed"

// Schema is the DDL applied on startup. Statements are idempotent so the
// schema can run against an already-migrated database.
//
//go:embed schema.sql
var Schema string
