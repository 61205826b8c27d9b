// Package services implements the driving port interfaces.
// Services contain the core logic of finder: the corpus index, fuzzy
// search, the chat session and the interactive state machine. They
// orchestrate calls to driven ports (adapters).
//
// Services are pure Go with no CGO or external dependencies.
package services
