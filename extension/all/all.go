// Package all imports all built-in d2cms extensions.
// Import this package to register every command.
package all

import (
	// Each extension registers itself via init()
	_ "github.com/Dyc3r/docs2cms/extension/core"
	_ "github.com/Dyc3r/docs2cms/extension/document"
	_ "github.com/Dyc3r/docs2cms/extension/sync"
)
