// Package migrations embebe los scripts SQL de goose para que el binario
// pueda aplicarlos sin depender del sistema de archivos.
package migrations

import "embed"

// FS scripts goose (NNNNN_nombre.sql).
//
//go:embed *.sql
var FS embed.FS
