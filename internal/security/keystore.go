// Package security stores provider API keys: the OS keychain when
// available, an encrypted vault file otherwise.
package security

import (
	"crypto/rand"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/zalando/go-keyring"
)

const (
	keyringService = "bookforge"
	vaultFile      = "keys.enc"
	saltFile       = "keys.salt"
)

// KeyStore manages secure storage of provider API keys.
type KeyStore struct {
	vaultKey  []byte
	vaultPath string
	saltPath  string
	password  string
}

// NewKeyStore creates a key store rooted in dir (usually ~/.bookforge).
// password is only needed when the OS keyring is unavailable and the vault
// fallback kicks in; it may be empty until then.
func NewKeyStore(dir, password string) (*KeyStore, error) {
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		dir = filepath.Join(home, ".bookforge")
	}
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, err
	}
	return &KeyStore{
		vaultPath: filepath.Join(dir, vaultFile),
		saltPath:  filepath.Join(dir, saltFile),
		password:  password,
	}, nil
}

// Set stores an API key for a provider (tries keyring first, falls back to
// the encrypted vault).
func (ks *KeyStore) Set(provider, key string) error {
	if err := keyring.Set(keyringService, provider, key); err == nil {
		return nil
	}
	return ks.setInVault(provider, key)
}

// Get retrieves a provider's API key. The environment override
// BOOKFORGE_<PROVIDER>_KEY is checked first so CI never needs a keychain.
func (ks *KeyStore) Get(provider string) (string, error) {
	if v := os.Getenv(envKeyName(provider)); v != "" {
		return v, nil
	}
	if val, err := keyring.Get(keyringService, provider); err == nil {
		return val, nil
	}
	return ks.getFromVault(provider)
}

// Delete removes a provider's key from both backends.
func (ks *KeyStore) Delete(provider string) error {
	_ = keyring.Delete(keyringService, provider)
	return ks.deleteFromVault(provider)
}

// MaskKey returns a masked version of an API key for display.
func MaskKey(key string) string {
	if len(key) <= 8 {
		return "****"
	}
	return key[:3] + "..." + key[len(key)-4:]
}

func envKeyName(provider string) string {
	name := "BOOKFORGE_"
	for _, r := range provider {
		switch {
		case r >= 'a' && r <= 'z':
			name += string(r - 'a' + 'A')
		case r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			name += string(r)
		default:
			name += "_"
		}
	}
	return name + "_KEY"
}

// vault operations (encrypted JSON file)

func (ks *KeyStore) ensureVaultKey() error {
	if ks.vaultKey != nil {
		return nil
	}
	if ks.password == "" {
		return fmt.Errorf("keyring unavailable and no vault password set")
	}

	salt, err := os.ReadFile(ks.saltPath)
	if os.IsNotExist(err) {
		salt = make([]byte, saltLen)
		if _, err := io.ReadFull(rand.Reader, salt); err != nil {
			return err
		}
		if err := os.WriteFile(ks.saltPath, salt, 0600); err != nil {
			return err
		}
	} else if err != nil {
		return err
	}

	ks.vaultKey = DeriveKey(ks.password, salt)
	return nil
}

func (ks *KeyStore) loadVault() (map[string]string, error) {
	if err := ks.ensureVaultKey(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(ks.vaultPath)
	if err != nil {
		if os.IsNotExist(err) {
			return make(map[string]string), nil
		}
		return nil, err
	}

	plaintext, err := Decrypt(string(data), ks.vaultKey)
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
	if err := ks.ensureVaultKey(); err != nil {
		return err
	}

	data, err := json.Marshal(vault)
	if err != nil {
		return err
	}
	encrypted, err := Encrypt(data, ks.vaultKey)
	if err != nil {
		return err
	}
	return os.WriteFile(ks.vaultPath, []byte(encrypted), 0600)
}

func (ks *KeyStore) setInVault(provider, key string) error {
	vault, err := ks.loadVault()
	if err != nil {
		return err
	}
	vault[provider] = key
	return ks.saveVault(vault)
}

func (ks *KeyStore) getFromVault(provider string) (string, error) {
	vault, err := ks.loadVault()
	if err != nil {
		return "", err
	}
	val, ok := vault[provider]
	if !ok {
		return "", fmt.Errorf("no api key stored for %s", provider)
	}
	return val, nil
}

func (ks *KeyStore) deleteFromVault(provider string) error {
	vault, err := ks.loadVault()
	if err != nil {
		return nil
	}
	delete(vault, provider)
	return ks.saveVault(vault)
}
