package ai

import "context"

// Runtime is the narrow prompt-in, text-out collaborator used by the
// insight generator. Client and OllamaClient implement it; tests swap in fakes.
type Runtime interface {
	Generate(ctx context.Context, req GenerateRequest) (*GenerateResponse, error)
}

// Provider identifiers used in configuration.
const (
	ProviderOpenAI = "openai"
	ProviderOllama = "ollama"
)
