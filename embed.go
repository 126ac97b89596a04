package dailybible

import "embed"

// ContentFS holds the markdown pages served under /legal.
//
//go:embed content/legal/*.md
var ContentFS embed.FS
