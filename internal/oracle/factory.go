package oracle

import (
	"fmt"
	"log"
	"sort"
	"time"

	"pettingzoo/internal/config"
)

// BackendProfile names a selectable provider+model pairing. Profiles
// pin the model and token budget so switching backends is a one-word
// config change.
type BackendProfile struct {
	Name      string
	Provider  string
	Model     string
	MaxTokens int
}

var profiles = map[string]BackendProfile{
	"ollama":        {Name: "ollama", Provider: "ollama", Model: "llama3.2:3b", MaxTokens: 500},
	"claude_haiku":  {Name: "claude_haiku", Provider: "anthropic", Model: "claude-haiku-20240307", MaxTokens: 300},
	"claude_sonnet": {Name: "claude_sonnet", Provider: "anthropic", Model: "claude-sonnet-4-5", MaxTokens: 1000},
	"openai":        {Name: "openai", Provider: "openai", Model: "gpt-4o-mini", MaxTokens: 500},
	"gemini":        {Name: "gemini", Provider: "gemini", Model: "gemini-2.0-flash", MaxTokens: 500},
}

// ProfileFor looks up a backend profile by name.
func ProfileFor(name string) (BackendProfile, bool) {
	p, ok := profiles[name]
	return p, ok
}

// Profiles returns the selectable backend names, sorted.
func Profiles() []string {
	names := make([]string, 0, len(profiles))
	for n := range profiles {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// NewProvider creates a provider for the named backend profile.
func NewProvider(name string, cfg config.OracleConfig) (Provider, BackendProfile, error) {
	profile, ok := ProfileFor(name)
	if !ok {
		return nil, BackendProfile{}, fmt.Errorf("unknown backend: %s (available: %v)", name, Profiles())
	}

	switch profile.Provider {
	case "ollama":
		if cfg.OllamaModel != "" {
			profile.Model = cfg.OllamaModel
		}
		p, err := NewOllamaProvider(OllamaConfig{
			BaseURL: cfg.OllamaURL,
			Model:   profile.Model,
			Timeout: time.Duration(cfg.TimeoutSecs) * time.Second,
		})
		return p, profile, err
	case "anthropic":
		if cfg.AnthropicAPIKey == "" {
			return nil, profile, fmt.Errorf("backend %s requires an Anthropic API key", name)
		}
		p := NewAnthropicProvider(AnthropicConfig{APIKey: cfg.AnthropicAPIKey, Model: profile.Model})
		return p, profile, nil
	case "openai":
		if cfg.OpenAIAPIKey == "" {
			return nil, profile, fmt.Errorf("backend %s requires an OpenAI API key", name)
		}
		p := NewOpenAIProvider(OpenAIConfig{APIKey: cfg.OpenAIAPIKey, BaseURL: cfg.BaseURL, Model: profile.Model})
		return p, profile, nil
	case "gemini":
		if cfg.GeminiAPIKey == "" {
			return nil, profile, fmt.Errorf("backend %s requires a Gemini API key", name)
		}
		p, err := NewGeminiProvider(GeminiConfig{APIKey: cfg.GeminiAPIKey, Model: profile.Model})
		return p, profile, err
	default:
		return nil, profile, fmt.Errorf("unknown provider: %s", profile.Provider)
	}
}

// NewProviderFromConfig builds the configured backend, chained with the
// fallback backend when one is set and constructible.
func NewProviderFromConfig(cfg *config.Config) (Provider, BackendProfile, error) {
	primary, profile, err := NewProvider(cfg.Backend, cfg.Oracle)
	if err != nil {
		return nil, profile, err
	}
	if cfg.Fallback == "" || cfg.Fallback == cfg.Backend {
		return primary, profile, nil
	}

	secondary, _, err := NewProvider(cfg.Fallback, cfg.Oracle)
	if err != nil {
		log.Printf("[oracle] fallback backend %s unavailable: %v", cfg.Fallback, err)
		return primary, profile, nil
	}
	return NewFallbackProvider(primary, secondary), profile, nil
}
