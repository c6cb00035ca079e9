// Package module holds cross module port lookup used during bootstrap
package module

import "ganadero/internal/modkit"

// Module is the modkit contract, aliased so callers can stay within this package
type Module = modkit.Module
