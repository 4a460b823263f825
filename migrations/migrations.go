// Package migrations embeds the goose schema migrations applied at startup.
package migrations

import "embed"

// FS holds the versioned migration files.
//
//go:embed *.sql
var FS embed.FS
