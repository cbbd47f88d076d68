package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// ProjectFileName is the per-project configuration file, looked up in the
// working directory. Environment variables override its values.
const ProjectFileName = ".potool.yaml"

// ProjectFile is the .potool.yaml schema. All fields are optional.
type ProjectFile struct {
	// File is the catalog to open by default.
	File string `yaml:"file,omitempty"`
	// Provider selects the translation service (google, openai).
	Provider string `yaml:"provider,omitempty"`
	// Model is the model identifier.
	Model string `yaml:"model,omitempty"`
	// BaseURL overrides the provider endpoint.
	BaseURL string `yaml:"base_url,omitempty"`
	// SourceLang is the catalog's source language.
	SourceLang string `yaml:"source_lang,omitempty"`
	// TargetLang overrides the catalog's Language header.
	TargetLang string `yaml:"target_lang,omitempty"`
	// BackupDir is where backups are placed.
	BackupDir string `yaml:"backup_dir,omitempty"`
	// LogLevel is one of debug, info, warn, error.
	LogLevel string `yaml:"log_level,omitempty"`
	// LogFile is the diagnostic log destination.
	LogFile string `yaml:"log_file,omitempty"`
}

// LoadProjectFile reads .potool.yaml from dir. Returns nil when the file
// does not exist.
func LoadProjectFile(dir string) (*ProjectFile, error) {
	path := filepath.Join(dir, ProjectFileName)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	var pf ProjectFile
	if err := yaml.Unmarshal(data, &pf); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return &pf, nil
}

// applyTo overlays the project file's non-empty values onto cfg.
func (pf *ProjectFile) applyTo(cfg *Config) {
	overlay := func(src string, dst *string) {
		if src != "" {
			*dst = src
		}
	}
	overlay(pf.File, &cfg.FilePath)
	overlay(pf.Provider, &cfg.Provider)
	overlay(pf.Model, &cfg.Model)
	overlay(pf.BaseURL, &cfg.BaseURL)
	overlay(pf.SourceLang, &cfg.SourceLang)
	overlay(pf.TargetLang, &cfg.TargetLang)
	overlay(pf.BackupDir, &cfg.BackupDir)
	overlay(pf.LogLevel, &cfg.LogLevel)
	overlay(pf.LogFile, &cfg.LogFile)
}
