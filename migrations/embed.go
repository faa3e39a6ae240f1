// Package migrations holds the SQL schema for the postgres record store.
package migrations

import "embed"

// FS contains every *.sql migration in this directory
//
//go:embed *.sql
var FS embed.FS
