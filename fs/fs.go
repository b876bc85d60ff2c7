// Package appfs exposes files embedded in the binary (database migrations).
package appfs

import "embed"

//go:embed migrations/*.sql
var FS embed.FS
