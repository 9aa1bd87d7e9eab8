// Package domain defines the core entities for semlink.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Document: A corpus document as read for a build
//   - Embedding: A fixed-length vector plus sentiment/tag metadata
//   - SemanticLink: A directed, weighted suggestion between two documents
//   - CrossReferenceStrength: A blended relatedness score for a document pair
//   - CacheEntry: A persisted embedding keyed by content fingerprint
//   - Interaction: One visit recorded by a visitor's session
//   - Recommendation: A ranked, ephemeral suggestion for a visitor
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
