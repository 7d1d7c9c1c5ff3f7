// Package templates embeds the HTML templates and static assets served
// by the web layer.
package templates

import "embed"

//go:embed templates static
var FS embed.FS
