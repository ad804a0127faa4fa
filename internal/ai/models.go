package ai

// ModelInfo holds the context window and illustrative pricing of a model,
// used only for console warnings.
type ModelInfo struct {
	Name          string
	ContextTokens int     // approximate context window
	InputPerK     float64 // USD per 1K input tokens
}

var models = map[string]ModelInfo{
	"gpt-4o-mini":   {Name: "gpt-4o-mini", ContextTokens: 128000, InputPerK: 0.00015},
	"gpt-4o":        {Name: "gpt-4o", ContextTokens: 128000, InputPerK: 0.0025},
	"gpt-4.1-mini":  {Name: "gpt-4.1-mini", ContextTokens: 1000000, InputPerK: 0.0004},
	"gpt-3.5-turbo": {Name: "gpt-3.5-turbo", ContextTokens: 16385, InputPerK: 0.0005},
	"llama3:latest": {Name: "llama3:latest", ContextTokens: 8192},
	"mistral:7b":    {Name: "mistral:7b", ContextTokens: 8192},
}

// LookupModel returns ModelInfo and ok flag.
func LookupModel(name string) (ModelInfo, bool) {
	mi, ok := models[name]
	return mi, ok
}

// EstimatePromptCostUSD estimates the input cost of a prompt. Unknown models
// return ok=false.
func EstimatePromptCostUSD(model string, promptTokens int) (float64, bool) {
	mi, ok := LookupModel(model)
	if !ok {
		return 0, false
	}
	return float64(promptTokens) / 1000.0 * mi.InputPerK, true
}
