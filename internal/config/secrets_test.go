package config

import (
	"errors"
	"testing"
)

type fakeStore struct {
	values map[string]string
	sets   int
}

func (f *fakeStore) Get(name string) (string, error) {
	v, ok := f.values[name]
	if !ok {
		return "", errors.New("not found")
	}
	return v, nil
}

func (f *fakeStore) Set(name, value string) error {
	f.values[name] = value
	f.sets++
	return nil
}

func TestResolveSecretsFromStore(t *testing.T) {
	store := &fakeStore{values: map[string]string{
		"anthropic_api_key": "sk-ant-real",
		"telegram_token":    "12345:abc",
	}}
	cfg := Defaults()
	cfg.Oracle.AnthropicAPIKey = KeyringPlaceholder
	cfg.Channels.Telegram = &TelegramConfig{Token: KeyringPlaceholder}

	migrated := ResolveSecrets(cfg, store)

	if migrated {
		t.Error("reading placeholders should not count as migration")
	}
	if cfg.Oracle.AnthropicAPIKey != "sk-ant-real" {
		t.Errorf("AnthropicAPIKey = %q", cfg.Oracle.AnthropicAPIKey)
	}
	if cfg.Channels.Telegram.Token != "12345:abc" {
		t.Errorf("Token = %q", cfg.Channels.Telegram.Token)
	}
}

func TestResolveSecretsMigratesPlaintext(t *testing.T) {
	store := &fakeStore{values: map[string]string{}}
	cfg := Defaults()
	cfg.Oracle.OpenAIAPIKey = "sk-plaintext"

	if !ResolveSecrets(cfg, store) {
		t.Fatal("plaintext secret should trigger migration")
	}
	if store.values["openai_api_key"] != "sk-plaintext" {
		t.Errorf("store = %v", store.values)
	}
	if cfg.Oracle.OpenAIAPIKey != "sk-plaintext" {
		t.Error("in-memory config must keep the real value")
	}
}

func TestResolveSecretsMissingFromStore(t *testing.T) {
	store := &fakeStore{values: map[string]string{}}
	cfg := Defaults()
	cfg.Oracle.GeminiAPIKey = KeyringPlaceholder

	ResolveSecrets(cfg, store)

	if cfg.Oracle.GeminiAPIKey != "" {
		t.Errorf("unresolvable placeholder should clear, got %q", cfg.Oracle.GeminiAPIKey)
	}
}

func TestResolveSecretsNilStore(t *testing.T) {
	cfg := Defaults()
	cfg.Oracle.OpenAIAPIKey = "sk-plaintext"

	if ResolveSecrets(cfg, nil) {
		t.Error("nil store should be a no-op")
	}
	if cfg.Oracle.OpenAIAPIKey != "sk-plaintext" {
		t.Error("config should be untouched without a store")
	}
}

func TestWithPlaceholders(t *testing.T) {
	cfg := Defaults()
	cfg.Oracle.AnthropicAPIKey = "sk-ant-real"
	cfg.Channels.Telegram = &TelegramConfig{Token: "12345:abc", AllowedIDs: []int64{7}}

	disk := WithPlaceholders(cfg)

	if disk.Oracle.AnthropicAPIKey != KeyringPlaceholder {
		t.Errorf("disk AnthropicAPIKey = %q", disk.Oracle.AnthropicAPIKey)
	}
	if disk.Channels.Telegram.Token != KeyringPlaceholder {
		t.Errorf("disk Token = %q", disk.Channels.Telegram.Token)
	}
	if cfg.Oracle.AnthropicAPIKey != "sk-ant-real" || cfg.Channels.Telegram.Token != "12345:abc" {
		t.Error("original config must not be modified")
	}
	if disk.Oracle.OpenAIAPIKey != "" {
		t.Errorf("empty secrets stay empty, got %q", disk.Oracle.OpenAIAPIKey)
	}
}
