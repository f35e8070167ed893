// Package domain defines the core business entities for odiscan.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Document: A disclosure document as plain text
//   - ClassificationResult: The outbound-investment verdict for a document
//   - ExtractionRecord: Structured transaction fields for an accepted document
//   - ExclusionRecord: Why a document was rejected
//   - Lexicon: Keyword configuration shared by the classifier and extractors
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
