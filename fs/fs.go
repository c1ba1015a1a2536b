// Package appfs embeds file assets shipped with the binary.
package appfs

import "embed"

//go:embed migrations
var FS embed.FS
