// Package config assembles the tool's runtime configuration from its three
// sources, later ones winning: built-in defaults, a .potool.yaml project
// file, and environment variables (a .env file in the working directory is
// loaded first when present).
//
// The result is an explicit Config struct handed to constructors; nothing
// else in the program reads the environment.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
)

// Environment keys recognized by Load.
const (
	EnvAPIKey     = "API_KEY"     // authenticates translation API calls
	EnvFilePath   = "FILE_PATH"   // default catalog path
	EnvLogLevel   = "LOG_LEVEL"   // diagnostic verbosity (debug/info/warn/error)
	EnvLogFile    = "LOG_FILE"    // diagnostic log destination
	EnvProvider   = "PROVIDER"    // translation provider (google, openai)
	EnvModel      = "MODEL"       // model identifier
	EnvBaseURL    = "BASE_URL"    // custom API endpoint
	EnvSourceLang = "SOURCE_LANG" // source language code
	EnvTargetLang = "TARGET_LANG" // target language code
	EnvBackupDir  = "BACKUP_DIR"  // where Save places backups
	EnvTimeout    = "TIMEOUT"     // per-request timeout (Go duration syntax)
)

// Config is the resolved tool configuration.
type Config struct {
	// APIKey authenticates translation API calls. Resolution order:
	// API_KEY environment variable, then the credential store entry for
	// the selected provider.
	APIKey string
	// FilePath is the default catalog path (the session prompts when empty).
	FilePath string
	// LogLevel is one of debug, info, warn, error.
	LogLevel string
	// LogFile is the diagnostic log destination.
	LogFile string

	// Provider selects the translation service (default "google").
	Provider string
	// Model is the model identifier (provider default when empty).
	Model string
	// BaseURL overrides the provider endpoint.
	BaseURL string
	// SourceLang is the catalog's source language (default "en").
	SourceLang string
	// TargetLang overrides the catalog's Language header.
	TargetLang string
	// BackupDir is where backups are placed (alongside the catalog when empty).
	BackupDir string
	// Timeout bounds each translation request.
	Timeout time.Duration
}

// defaults returns the built-in configuration.
func defaults() Config {
	return Config{
		LogLevel:   "info",
		LogFile:    "potool.log",
		Provider:   "google",
		SourceLang: "en",
	}
}

// Load resolves the configuration for the working directory dir.
func Load(dir string) (Config, error) {
	cfg := defaults()

	pf, err := LoadProjectFile(dir)
	if err != nil {
		return cfg, err
	}
	if pf != nil {
		pf.applyTo(&cfg)
	}

	// .env is optional; a missing file is not an error.
	_ = godotenv.Load(filepath.Join(dir, ".env"))

	applyEnv(&cfg)

	if cfg.APIKey == "" {
		cfg.APIKey = StoredAPIKey(cfg.Provider)
	}

	return cfg, nil
}

// applyEnv overlays environment variables onto cfg.
func applyEnv(cfg *Config) {
	setIfPresent(EnvAPIKey, &cfg.APIKey)
	setIfPresent(EnvFilePath, &cfg.FilePath)
	setIfPresent(EnvLogLevel, &cfg.LogLevel)
	setIfPresent(EnvLogFile, &cfg.LogFile)
	setIfPresent(EnvProvider, &cfg.Provider)
	setIfPresent(EnvModel, &cfg.Model)
	setIfPresent(EnvBaseURL, &cfg.BaseURL)
	setIfPresent(EnvSourceLang, &cfg.SourceLang)
	setIfPresent(EnvTargetLang, &cfg.TargetLang)
	setIfPresent(EnvBackupDir, &cfg.BackupDir)

	if v := os.Getenv(EnvTimeout); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			cfg.Timeout = d
		}
	}
}

func setIfPresent(key string, dst *string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

// Validate checks settings that would only fail deep inside a session.
func (c Config) Validate() error {
	switch c.LogLevel {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid %s %q (want debug, info, warn, or error)", EnvLogLevel, c.LogLevel)
	}
	switch c.Provider {
	case "", "google", "openai":
	default:
		return fmt.Errorf("unknown %s %q (want google or openai)", EnvProvider, c.Provider)
	}
	return nil
}
