// Package web embeds the control page served at the HTTP root.
package web

import "embed"

//go:embed dist
var DistFS embed.FS
