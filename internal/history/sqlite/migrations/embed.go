package migrations

import "embed"

// FS contains embedded SQLite migrations for calculation history.
//
//go:embed *.sql
var FS embed.FS
