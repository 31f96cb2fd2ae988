// Package services implements the triage pipeline's core logic: the
// classification, knowledge retrieval, response drafting, and
// confidence scoring components, and the orchestrator that sequences
// them per ticket.
//
// Data flows strictly downstream:
//
//	Ticket → Classification → Retrieval → Drafting → Confidence → Recommendation
//
// Each stage is independently resilient: internal failures degrade the
// stage's output and annotate the suggestion rather than failing the
// run. Shared mutable state (the duplicate cache, the retrieval cache,
// the provider rate limiter, the swappable lexical index) is
// concurrency safe, so one Pipeline may serve many tickets at once.
//
// # Import Rules
//
//   - Can Import: domain, ports, logger
//   - Cannot Import: Any adapter package
package services
