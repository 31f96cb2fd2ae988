// Package domain defines the core business entities for the triage pipeline.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Ticket: An incoming support ticket (immutable pipeline input)
//   - ClassificationResult: Category/priority/routing/duplicate analysis
//   - Article and KnowledgeMatch: Knowledge-base material and retrieval hits
//   - DraftResponse: A candidate reply to the requester
//   - ConfidenceAssessment: The fused, calibrated score and recommendation
//   - Suggestion: The aggregate persisted per pipeline run
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
