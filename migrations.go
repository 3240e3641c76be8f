// Package webmention holds assets shared by the binary and its tests.
package webmention

import "embed"

// Migrations contains the goose migrations of the postgres backend.
//
//go:embed migrations/*.sql
var Migrations embed.FS
