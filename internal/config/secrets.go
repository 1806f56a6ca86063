package config

import "log"

// KeyringPlaceholder is what the config file stores in place of a real
// secret once the secret has moved to secure storage.
const KeyringPlaceholder = "[keyring]"

// Secret names shared with the key store.
const (
	secretAnthropicKey  = "anthropic_api_key"
	secretOpenAIKey     = "openai_api_key"
	secretGeminiKey     = "gemini_api_key"
	secretTelegramToken = "telegram_token"
)

// SecretStore is the slice of the key store the config layer needs.
type SecretStore interface {
	Get(name string) (string, error)
	Set(name, value string) error
}

// ResolveSecrets swaps [keyring] placeholders in cfg for real values
// from the store, and migrates plaintext secrets found in cfg into the
// store. It returns true when a migration happened and the file should
// be rewritten with placeholders.
func ResolveSecrets(cfg *Config, store SecretStore) bool {
	if store == nil {
		return false
	}

	migrated := false
	resolve := func(field *string, name string) {
		switch {
		case *field == KeyringPlaceholder:
			val, err := store.Get(name)
			if err != nil {
				log.Printf("[config] failed to read %s from key store: %v", name, err)
				*field = ""
				return
			}
			*field = val
		case *field != "":
			if err := store.Set(name, *field); err != nil {
				log.Printf("[config] failed to store %s in key store: %v", name, err)
				return
			}
			migrated = true
		}
	}

	resolve(&cfg.Oracle.AnthropicAPIKey, secretAnthropicKey)
	resolve(&cfg.Oracle.OpenAIAPIKey, secretOpenAIKey)
	resolve(&cfg.Oracle.GeminiAPIKey, secretGeminiKey)
	if cfg.Channels.Telegram != nil {
		resolve(&cfg.Channels.Telegram.Token, secretTelegramToken)
	}
	return migrated
}

// WithPlaceholders returns a copy of cfg suitable for writing to disk:
// every resolved secret is replaced by the [keyring] placeholder. The
// in-memory config keeps the real values.
func WithPlaceholders(cfg *Config) *Config {
	out := *cfg
	mask := func(field *string) {
		if *field != "" {
			*field = KeyringPlaceholder
		}
	}
	mask(&out.Oracle.AnthropicAPIKey)
	mask(&out.Oracle.OpenAIAPIKey)
	mask(&out.Oracle.GeminiAPIKey)
	if out.Channels.Telegram != nil {
		tg := *out.Channels.Telegram
		mask(&tg.Token)
		out.Channels.Telegram = &tg
	}
	return &out
}
