package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config is the in-memory representation of ~/.skilldex/skilldex.yaml.
type Config struct {
	CorpusPath       string   `yaml:"corpus_path"`
	MaxResponseBytes int      `yaml:"max_response_bytes,omitempty"`
	Excludes         []string `yaml:"excludes,omitempty"`
}

// SkilldexDir returns the absolute path to ~/.skilldex/.
func SkilldexDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(home, ".skilldex"), nil
}

// ConfigPath returns the absolute path to ~/.skilldex/skilldex.yaml.
func ConfigPath() (string, error) {
	dir, err := SkilldexDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "skilldex.yaml"), nil
}

// ExpandPath expands a leading ~ to the user's home directory.
func ExpandPath(p string) (string, error) {
	if !strings.HasPrefix(p, "~") {
		return p, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot expand ~: %w", err)
	}
	return filepath.Join(home, p[1:]), nil
}

// DefaultConfig returns the default Config written on first skilldex init.
func DefaultConfig() (*Config, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, err
	}
	return &Config{
		CorpusPath: filepath.Join(home, ".skilldex", "corpus"),
		Excludes: []string{
			".git",
			".idea",
			".vscode",
			"node_modules",
		},
	}, nil
}

// Load reads and parses ~/.skilldex/skilldex.yaml.
func Load() (*Config, error) {
	path, err := ConfigPath()
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read config %s: %w", path, err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("invalid YAML in %s: %w", path, err)
	}
	// Expand ~ in CorpusPath at load time.
	cfg.CorpusPath, err = ExpandPath(cfg.CorpusPath)
	if err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Save marshals cfg and writes it to ~/.skilldex/skilldex.yaml.
func Save(cfg *Config) error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("cannot marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("cannot write config %s: %w", path, err)
	}
	return nil
}
