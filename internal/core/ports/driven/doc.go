// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
//   - ArticleStore: Published knowledge articles; feeds index rebuilds
//   - SuggestionStore: Suggestion persistence
//   - MetricsStore: Historical accuracy figures for calibration
//
// # Optional Interfaces
//
// These can be nil - the pipeline degrades gracefully:
//
//   - LLMService: Generative text provider. Without it, drafting is
//     template-only and the hybrid/generative strategies are disabled.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter package
package driven
