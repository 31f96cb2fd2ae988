package driven

import "context"

// LLMService is the generative text provider used by the drafting
// stage. This is an optional service - when nil, drafting degrades to
// template and fallback strategies.
//
// Implementations may include:
//   - OpenAI (chat completions)
//   - Any compatible API surface behind the same interface
//   - A deterministic stub for tests
type LLMService interface {
	// Complete produces a text completion for the prompt. It must
	// honour ctx cancellation and deadlines; an exceeded deadline is a
	// stage failure, never a pipeline-fatal error.
	Complete(ctx context.Context, prompt string, opts CompleteOptions) (string, error)

	// ModelName returns the name of the model being used.
	ModelName() string

	// Close releases resources.
	Close() error
}

// CompleteOptions configures a completion request.
type CompleteOptions struct {
	// MaxTokens is the maximum number of tokens to generate.
	MaxTokens int

	// Temperature controls randomness (0.0 = deterministic).
	Temperature float64
}
