// Package migrations embeds the SQLite schema.
package migrations

import "embed"

// FS holds the NNN_name.sql migration files.
//
//go:embed *.sql
var FS embed.FS
