package ai

import (
	"fmt"
	"strings"
	"time"
)

// RuntimeFactory builds a Runtime from the generic config below.
type RuntimeFactory func(RuntimeConfig) Runtime

// RuntimeConfig carries the knobs runtimes need. It is passed explicitly at
// construction time; nothing is kept in package-level client state.
type RuntimeConfig struct {
	HTTPTimeout time.Duration
	// OpenAI-compatible
	APIKey  string
	BaseURL string
	// Ollama
	Host string
}

var registry = map[string]RuntimeFactory{}

// RegisterRuntime registers a provider name with its factory.
func RegisterRuntime(name string, f RuntimeFactory) { registry[name] = f }

// GetRuntime creates a Runtime for the given provider if registered.
func GetRuntime(name string, cfg RuntimeConfig) (Runtime, bool) {
	if f, ok := registry[strings.ToLower(name)]; ok {
		return f(cfg), true
	}
	return nil, false
}

// MustRuntime is GetRuntime with an error for unknown providers.
func MustRuntime(name string, cfg RuntimeConfig) (Runtime, error) {
	if name == "" {
		name = ProviderOpenAI
	}
	rt, ok := GetRuntime(name, cfg)
	if !ok {
		return nil, fmt.Errorf("unknown provider %q (use %s or %s)", name, ProviderOpenAI, ProviderOllama)
	}
	return rt, nil
}

func init() {
	RegisterRuntime(ProviderOpenAI, func(c RuntimeConfig) Runtime {
		return NewClient(c.APIKey, c.BaseURL, c.HTTPTimeout)
	})
	RegisterRuntime(ProviderOllama, func(c RuntimeConfig) Runtime {
		return NewOllamaClient(c.Host, c.HTTPTimeout)
	})
}
