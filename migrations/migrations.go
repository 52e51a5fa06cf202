// Package migrations embeds the goose SQL migration set: schema plus the
// taxonomy and advisor seed rows.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
