// Package migrations embeds the SQL schema for every supported driver.
package migrations

import "embed"

// FS holds one subdirectory per database driver.
//
//go:embed postgres/*.sql sqlite3/*.sql
var FS embed.FS
