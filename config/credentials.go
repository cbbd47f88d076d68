package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
)

// Credential storage lives in the XDG data directory:
//
//	$XDG_DATA_HOME/potool/auth.json  (default: ~/.local/share/potool/auth.json)
//
// The file is a JSON object keyed by provider ID with 0600 permissions.
// Lookup order for API keys: API_KEY environment variable first, then this
// store.

const (
	dataDirName  = "potool"
	authFileName = "auth.json"
)

// credential is the per-provider entry in auth.json.
type credential struct {
	Key string `json:"key"`
}

// credentialStore holds all provider credentials, keyed by provider ID.
type credentialStore map[string]credential

// dataDir returns the XDG data directory for potool.
func dataDir() (string, error) {
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return filepath.Join(xdg, dataDirName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(home, ".local", "share", dataDirName), nil
}

func authFilePath() (string, error) {
	dir, err := dataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, authFileName), nil
}

// loadStore reads auth.json; a missing file yields an empty store.
func loadStore() (credentialStore, error) {
	path, err := authFilePath()
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return credentialStore{}, nil
		}
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	var store credentialStore
	if err := json.Unmarshal(data, &store); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return store, nil
}

// saveStore writes auth.json with owner-only permissions.
func saveStore(store credentialStore) error {
	path, err := authFilePath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("creating %s: %w", filepath.Dir(path), err)
	}

	data, err := json.MarshalIndent(store, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

// StoredAPIKey returns the stored API key for a provider, or "".
func StoredAPIKey(provider string) string {
	store, err := loadStore()
	if err != nil {
		return ""
	}
	return store[provider].Key
}

// StoreAPIKey saves an API key for a provider.
func StoreAPIKey(provider, key string) error {
	store, err := loadStore()
	if err != nil {
		return err
	}
	store[provider] = credential{Key: key}
	return saveStore(store)
}

// RemoveAPIKey deletes a provider's stored API key.
func RemoveAPIKey(provider string) error {
	store, err := loadStore()
	if err != nil {
		return err
	}
	if _, ok := store[provider]; !ok {
		return nil
	}
	delete(store, provider)
	return saveStore(store)
}

// StoredProviders lists providers with stored credentials, sorted.
func StoredProviders() []string {
	store, err := loadStore()
	if err != nil {
		return nil
	}
	providers := make([]string, 0, len(store))
	for id := range store {
		providers = append(providers, id)
	}
	sort.Strings(providers)
	return providers
}
