// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
// These must be provided for the application to function:
//
//   - CorpusSource: Enumerates the corpus documents
//   - ConfigStore: Application configuration
//   - EditorLauncher: Builds the command that opens a line in an editor
//
// # Optional Interfaces
//
// These can be nil - the application degrades gracefully:
//
//   - ChatStreamer: Streaming language model. Without it, chat is disabled.
//   - PromptStore: Customisable prompts. Without it, built-in prompts are used.
//   - CredentialSource: API key discovery. Without it, only the configured key is used.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter package
package driven
