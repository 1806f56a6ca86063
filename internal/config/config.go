package config

// Config is the top-level application configuration.
type Config struct {
	Backend  string         `json:"backend"`            // active oracle profile name
	Fallback string         `json:"fallback,omitempty"` // optional fallback profile name
	Oracle   OracleConfig   `json:"oracle"`
	Server   ServerConfig   `json:"server"`
	Upstream UpstreamConfig `json:"upstream"`
	Channels ChannelsConfig `json:"channels"`
}

type OracleConfig struct {
	AnthropicAPIKey string `json:"anthropic_api_key,omitempty"`
	OpenAIAPIKey    string `json:"openai_api_key,omitempty"`
	GeminiAPIKey    string `json:"gemini_api_key,omitempty"`
	OllamaURL       string `json:"ollama_url"`
	OllamaModel     string `json:"ollama_model"`
	BaseURL         string `json:"base_url,omitempty"` // OpenAI-compatible endpoint override
	TimeoutSecs     int    `json:"timeout_secs"`
}

type ServerConfig struct {
	Host          string `json:"host"`
	Port          int    `json:"port"`
	RatePerMinute int    `json:"rate_per_minute"` // per-client budget for the web API
}

type UpstreamConfig struct {
	DuckURL        string `json:"duck_url"`
	DogURL         string `json:"dog_url"`
	DogFallbackURL string `json:"dog_fallback_url"`
	CatURL         string `json:"cat_url"`
	TimeoutSecs    int    `json:"timeout_secs"`
}

type ChannelsConfig struct {
	Telegram *TelegramConfig `json:"telegram,omitempty"`
}

type TelegramConfig struct {
	Token      string  `json:"token"`
	AllowedIDs []int64 `json:"allowed_ids,omitempty"`
}
