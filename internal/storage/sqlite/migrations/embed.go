package migrations

import "embed"

// FS contains embedded SQLite migrations for roll history storage.
//
//go:embed *.sql
var FS embed.FS
