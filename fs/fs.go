package appfs

import "embed"

// FS embeds non-Go assets (SQL migrations) so binaries stay self-contained.
//go:embed migrations
var FS embed.FS
