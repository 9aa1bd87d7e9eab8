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
//   - EmbeddingProvider: Produces document vectors (model-backed or tag fallback)
//   - CorpusSource: Loads the Markdown corpus for a build
//   - ArtifactStore: Writes and reads build artifacts
//   - LexicalIndex: Keyword search over the corpus
//   - InteractionStore: Reading history for personalised recommendations
//   - ConfigStore: Application configuration
//
// # Optional Interfaces
//
// These can be nil - the application degrades gracefully:
//
//   - SemanticCache: Embedding and link persistence across builds. Without it every build recomputes.
//   - Embedder: Remote embed(text) capability. Without it, tag fallback vectors are used.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter package
package driven
