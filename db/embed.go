// Package db embeds the goose SQL migrations so binaries and integration
// tests can apply them without a checkout-relative path.
package db

import "embed"

//go:embed migrations/*.sql
var Migrations embed.FS
