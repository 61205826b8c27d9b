// Package domain defines the core entities for finder.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Document: A corpus file split into numbered lines
//   - Match: A ranked fuzzy hit on one line
//   - Turn: One message in the chat log
//   - Citation: A resolved [path:line] reference inside an assistant turn
//   - Mode, Input, Effect: The interactive session vocabulary
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
