// Package migrations embeds the goose SQL migrations for the postgres adapter.
package migrations

import "embed"

// FS holds every migration file in this directory.
//
//go:embed *.sql
var FS embed.FS
