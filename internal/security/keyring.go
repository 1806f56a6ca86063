package security

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/zalando/go-keyring"
)

const (
	keyringService = "pettingzoo"
	vaultFile      = "vault.enc"
	saltFile       = "vault.salt"
	vaultKeyEnv    = "PETTINGZOO_VAULT_KEY"
)

// KeyStore manages secure storage of API keys and bot tokens.
// Primary: OS Keychain. Fallback: encrypted vault file, keyed by a
// passphrase taken from the PETTINGZOO_VAULT_KEY environment variable.
type KeyStore struct {
	vaultPath string
	saltPath  string
}

// NewKeyStore creates a key store rooted in ~/.pettingzoo.
func NewKeyStore() (*KeyStore, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, err
	}
	dir := filepath.Join(home, ".pettingzoo")
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, err
	}
	return &KeyStore{
		vaultPath: filepath.Join(dir, vaultFile),
		saltPath:  filepath.Join(dir, saltFile),
	}, nil
}

// Set stores a secret (tries keyring first, falls back to encrypted file).
func (ks *KeyStore) Set(name, value string) error {
	if err := keyring.Set(keyringService, name, value); err == nil {
		return nil
	}
	return ks.setInVault(name, value)
}

// Get retrieves a secret.
func (ks *KeyStore) Get(name string) (string, error) {
	if val, err := keyring.Get(keyringService, name); err == nil {
		return val, nil
	}
	return ks.getFromVault(name)
}

// Delete removes a secret.
func (ks *KeyStore) Delete(name string) error {
	_ = keyring.Delete(keyringService, name)
	return ks.deleteFromVault(name)
}

// MaskKey returns a masked version of an API key for display.
func MaskKey(key string) string {
	if len(key) <= 8 {
		return "****"
	}
	return key[:3] + "..." + key[len(key)-4:]
}

// vaultKey derives the AES key for the vault file from the passphrase in
// the environment. The salt is created on first use and persisted next to
// the vault so the derivation is stable across processes.
func (ks *KeyStore) vaultKey() ([]byte, error) {
	pass := os.Getenv(vaultKeyEnv)
	if pass == "" {
		return nil, fmt.Errorf("keyring unavailable and %s not set", vaultKeyEnv)
	}

	salt, err := os.ReadFile(ks.saltPath)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, err
		}
		salt, err = GenerateSalt()
		if err != nil {
			return nil, err
		}
		if err := os.WriteFile(ks.saltPath, salt, 0600); err != nil {
			return nil, err
		}
	}

	return DeriveKey(pass, salt), nil
}

// Vault operations (encrypted JSON file)
func (ks *KeyStore) loadVault() (map[string]string, error) {
	data, err := os.ReadFile(ks.vaultPath)
	if err != nil {
		if os.IsNotExist(err) {
			return make(map[string]string), nil
		}
		return nil, err
	}

	key, err := ks.vaultKey()
	if err != nil {
		return nil, err
	}

	plaintext, err := Decrypt(string(data), key)
	if err != nil {
		return nil, fmt.Errorf("decrypt vault: %w", err)
	}

	var vault map[string]string
	if err := json.Unmarshal(plaintext, &vault); err != nil {
		return nil, fmt.Errorf("parse vault: %w", err)
	}
	return vault, nil
}

func (ks *KeyStore) saveVault(vault map[string]string) error {
	key, err := ks.vaultKey()
	if err != nil {
		return err
	}

	data, err := json.Marshal(vault)
	if err != nil {
		return err
	}

	encrypted, err := Encrypt(data, key)
	if err != nil {
		return err
	}

	return os.WriteFile(ks.vaultPath, []byte(encrypted), 0600)
}

func (ks *KeyStore) setInVault(name, value string) error {
	vault, err := ks.loadVault()
	if err != nil {
		vault = make(map[string]string)
	}
	vault[name] = value
	return ks.saveVault(vault)
}

func (ks *KeyStore) getFromVault(name string) (string, error) {
	vault, err := ks.loadVault()
	if err != nil {
		return "", err
	}
	val, ok := vault[name]
	if !ok {
		return "", fmt.Errorf("key not found: %s", name)
	}
	return val, nil
}

func (ks *KeyStore) deleteFromVault(name string) error {
	vault, err := ks.loadVault()
	if err != nil {
		return nil // nothing to delete
	}
	delete(vault, name)
	return ks.saveVault(vault)
}
