// Package migrations embeds the SQL schema applied at startup and by
// container-backed tests.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
