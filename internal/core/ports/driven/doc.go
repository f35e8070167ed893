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
//   - DocumentSource: Supplies plain-text documents
//   - ResultSink: Consumes finished records and exclusions
//   - SettingsStore: Application configuration
//   - LexiconStore: Keyword configuration
//
// # Optional Interfaces
//
// These can be nil - the application degrades gracefully:
//
//   - CompletionClient: External text-completion model. Without it, extraction is rule-only.
//   - ResponseCache: Model response cache. Without it, every prompt is sent.
//   - PromptStore: Customisable prompts. Without it, built-in prompts are used.
//   - MetricsRecorder: Batch metrics. Without it, nothing is recorded.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter package
package driven
