// Package migrations embeds the per-driver schema migrations so a single
// leadflow binary can bootstrap its own database.
package migrations

import "embed"

//go:embed sqlite/*.sql
var SqliteMigrations embed.FS

//go:embed postgres/*.sql
var PostgresMigrations embed.FS
