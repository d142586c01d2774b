// Package migrations встраивает SQL-схему истории анализов.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
