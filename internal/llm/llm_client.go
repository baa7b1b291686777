package llm

// LLMClient is the opaque text-completion boundary consumed by the gateways.
// One prompt in, raw model text out. Retry and backoff policy belongs to
// callers that need it, never to implementations.
type LLMClient interface {
	Complete(prompt string) (string, error)
}

// GenerationOptions carries the sampling settings passed to the model on
// every call. They are injected into clients at construction, not read from
// process-wide state.
type GenerationOptions struct {
	Temperature     float64
	TopP            float64
	MaxOutputTokens int
}

// DefaultGenerationOptions matches the settings the adaptation prompts were
// tuned against.
func DefaultGenerationOptions() GenerationOptions {
	return GenerationOptions{
		Temperature:     0.7,
		TopP:            0.9,
		MaxOutputTokens: 4096,
	}
}
