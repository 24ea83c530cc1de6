// Package app embeds the admin interface templates and static assets.
package app

import "embed"

// FS holds templates/ and static/.
//
//go:embed templates static
var FS embed.FS
