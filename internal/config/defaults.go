package config

// Defaults returns a Config with sensible default values.
func Defaults() *Config {
	return &Config{
		Backend: "ollama",
		Oracle: OracleConfig{
			OllamaURL:   "http://localhost:11434",
			OllamaModel: "llama3.2:3b",
			TimeoutSecs: 30,
		},
		Server: ServerConfig{
			Host:          "0.0.0.0",
			Port:          8000,
			RatePerMinute: 10,
		},
		Upstream: UpstreamConfig{
			DuckURL:        "https://random-d.uk/api/v2/random",
			DogURL:         "https://random.dog/woof.json",
			DogFallbackURL: "https://dog.ceo/api/breeds/image/random",
			CatURL:         "https://api.thecatapi.com/v1/images/search",
			TimeoutSecs:    10,
		},
		Channels: ChannelsConfig{},
	}
}
