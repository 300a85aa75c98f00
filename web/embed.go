// Package web holds the embedded page shell and stylesheet served by the
// development host. The WASM binary itself is built separately into the
// asset directory.
package web

import "embed"

// FS contains templates/ and static/.
//
//go:embed templates static
var FS embed.FS
