// Package migrations embeds the SQL schema so the migrate command ships as a single binary.
package migrations

import "embed"

// FS holds the numbered up/down migration files.
//
//go:embed *.sql
var FS embed.FS
