// Package config loads the daemon's settings from an optional YAML file
// with PTEROBOT_* environment overrides on top. Environment always wins
// over the file; the file wins over defaults.
package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config is the daemon's full configuration.
type Config struct {
	// ListenAddr is the admin API bind address.
	ListenAddr string `yaml:"listen_addr"`
	// DatabasePath is the SQLite file holding all persistent state.
	DatabasePath string `yaml:"database_path"`
	// VaultSecret derives the key that encrypts stored panel credentials.
	// Changing it makes existing ciphertexts unreadable.
	VaultSecret string `yaml:"vault_secret"`
	// AdminToken is the bearer token the admin API requires.
	AdminToken string `yaml:"admin_token"`
	// AllowPrivatePanels permits panel URLs on loopback and RFC 1918
	// addresses. Off by default.
	AllowPrivatePanels bool `yaml:"allow_private_panels"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		ListenAddr:   "127.0.0.1:8087",
		DatabasePath: "pterobot.db",
	}
}

// Load reads the configuration file at path, if it exists, and applies
// environment overrides. An empty path skips the file entirely.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		raw, err := os.ReadFile(path)
		switch {
		case os.IsNotExist(err):
			// Missing file is fine; env and defaults carry it.
		case err != nil:
			return Config{}, fmt.Errorf("config: read %s: %w", path, err)
		default:
			if err := yaml.Unmarshal(raw, &cfg); err != nil {
				return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
			}
		}
	}

	applyEnv(&cfg)

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects configurations the daemon cannot run with.
func (c Config) Validate() error {
	if c.VaultSecret == "" {
		return fmt.Errorf("config: vault_secret is required (set PTEROBOT_VAULT_SECRET)")
	}
	if c.AdminToken == "" {
		return fmt.Errorf("config: admin_token is required (set PTEROBOT_ADMIN_TOKEN)")
	}
	if c.ListenAddr == "" {
		return fmt.Errorf("config: listen_addr must not be empty")
	}
	if c.DatabasePath == "" {
		return fmt.Errorf("config: database_path must not be empty")
	}
	return nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("PTEROBOT_LISTEN_ADDR"); v != "" {
		cfg.ListenAddr = v
	}
	if v := os.Getenv("PTEROBOT_DB_PATH"); v != "" {
		cfg.DatabasePath = v
	}
	if v := os.Getenv("PTEROBOT_VAULT_SECRET"); v != "" {
		cfg.VaultSecret = v
	}
	if v := os.Getenv("PTEROBOT_ADMIN_TOKEN"); v != "" {
		cfg.AdminToken = v
	}
	if v := os.Getenv("PTEROBOT_ALLOW_PRIVATE_PANELS"); v != "" {
		if parsed, err := strconv.ParseBool(v); err == nil {
			cfg.AllowPrivatePanels = parsed
		}
	}
}
