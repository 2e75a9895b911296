package migrations

import "embed"

// FS contains embedded SQLite migrations for the bank store.
//
//go:embed *.sql
var FS embed.FS
