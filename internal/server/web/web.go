// Package web holds the HTML templates served by the HTTP handlers.
package web

import "embed"

// FS contains templates/*.html.
//
//go:embed templates/*.html
var FS embed.FS
