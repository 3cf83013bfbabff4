package migrations

import "embed"

// FS contains embedded SQLite migrations for dex storage.
//
//go:embed *.sql
var FS embed.FS
