// Package migrations embeds the PostgreSQL schema for users and stored options.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
