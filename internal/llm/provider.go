package llm

import "fmt"

const (
	groqBaseURL      = "https://api.groq.com/openai/v1"
	defaultGroqModel = "llama-3.3-70b-versatile"
	defaultOllama    = "llama3.1"
)

type ProviderConfig struct {
	Provider  string
	APIKey    string
	AuthToken string // OAuth token (Bearer auth), anthropic only
	Model     string
	BaseURL   string // ollama endpoint
}

func NewClient(cfg ProviderConfig) (Client, error) {
	switch cfg.Provider {
	case "anthropic":
		return NewAnthropicClient(cfg.APIKey, cfg.AuthToken, cfg.Model), nil
	case "openai":
		return NewOpenAIClient(cfg.APIKey, cfg.Model, ""), nil
	case "groq":
		if cfg.APIKey == "" {
			return nil, fmt.Errorf("groq provider requires GROQ_API_KEY")
		}
		if cfg.Model == "" {
			cfg.Model = defaultGroqModel
		}
		return NewOpenAIClient(cfg.APIKey, cfg.Model, groqBaseURL), nil
	case "ollama":
		if cfg.Model == "" {
			cfg.Model = defaultOllama
		}
		return NewOpenAIClient("ollama", cfg.Model, cfg.BaseURL), nil
	default:
		return nil, fmt.Errorf("unknown LLM provider: %s", cfg.Provider)
	}
}
