// Package migrations embeds the SQLite schema migrations.
package migrations

import "embed"

// FS contains embedded SQLite migrations for Camposanto storage.
//
//go:embed *.sql
var FS embed.FS
