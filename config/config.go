// ABOUTME: Application configuration stored at XDG paths with env overrides
// ABOUTME: Loads config.json, an optional .env file, and ROOFDESK_* variables
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"

	"github.com/adrg/xdg"
	"github.com/joho/godotenv"
)

const (
	DefaultAPIBaseURL = "http://localhost:8080"
	DefaultPort       = 8080
	DefaultAdminEmail = "admin@roofdesk.local"
)

// Config holds paths, backend endpoints, and admin credentials.
type Config struct {
	DataDir           string `json:"data_dir,omitempty"`
	DBPath            string `json:"db_path,omitempty"`
	KVDir             string `json:"kv_dir,omitempty"`
	APIBaseURL        string `json:"api_base_url"`
	Port              int    `json:"port"`
	RedisURL          string `json:"redis_url,omitempty"`
	AdminEmail        string `json:"admin_email"`
	AdminName         string `json:"admin_name,omitempty"`
	AdminPasswordHash string `json:"admin_password_hash,omitempty"`
	FormPhotoStep     bool   `json:"form_photo_step"`
}

// Dir returns the XDG data directory for roofdesk.
func Dir() string {
	return filepath.Join(xdg.DataHome, "roofdesk")
}

// Path returns the config file location.
func Path() string {
	return filepath.Join(Dir(), "config.json")
}

func defaults() *Config {
	return &Config{
		APIBaseURL: DefaultAPIBaseURL,
		Port:       DefaultPort,
		AdminEmail: DefaultAdminEmail,
		AdminName:  "Admin",
	}
}

// Load reads the config file if present, then applies environment overrides.
// A .env file in the working directory is loaded first; existing variables win.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	cfg := defaults()

	f, err := os.Open(Path())
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to open config file: %w", err)
		}
	} else {
		defer func() { _ = f.Close() }()
		if err := json.NewDecoder(f).Decode(cfg); err != nil {
			return nil, fmt.Errorf("failed to decode config: %w", err)
		}
	}

	applyEnvOverrides(cfg)
	return cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("ROOFDESK_DATA_DIR"); v != "" {
		cfg.DataDir = v
	}
	if v := os.Getenv("ROOFDESK_DB_PATH"); v != "" {
		cfg.DBPath = v
	}
	if v := os.Getenv("ROOFDESK_KV_DIR"); v != "" {
		cfg.KVDir = v
	}
	if v := os.Getenv("ROOFDESK_API_URL"); v != "" {
		cfg.APIBaseURL = v
	}
	if v := os.Getenv("ROOFDESK_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil && port > 0 {
			cfg.Port = port
		}
	}
	if v := os.Getenv("ROOFDESK_REDIS_URL"); v != "" {
		cfg.RedisURL = v
	}
	if v := os.Getenv("ROOFDESK_ADMIN_EMAIL"); v != "" {
		cfg.AdminEmail = v
	}
	if v := os.Getenv("ROOFDESK_ADMIN_NAME"); v != "" {
		cfg.AdminName = v
	}
	if v := os.Getenv("ROOFDESK_ADMIN_PASSWORD_HASH"); v != "" {
		cfg.AdminPasswordHash = v
	}
	if v := os.Getenv("ROOFDESK_FORM_PHOTO_STEP"); v != "" {
		cfg.FormPhotoStep = v == "true" || v == "1"
	}
}

// Save writes the config file with owner-only permissions.
func Save(cfg *Config) error {
	path := Path()

	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer func() { _ = f.Close() }()

	encoder := json.NewEncoder(f)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	return nil
}

// ResolvedDataDir returns DataDir or the XDG default.
func (c *Config) ResolvedDataDir() string {
	if c.DataDir != "" {
		return c.DataDir
	}
	return Dir()
}

// ResolvedDBPath returns the backend SQLite path.
func (c *Config) ResolvedDBPath() string {
	if c.DBPath != "" {
		return c.DBPath
	}
	return filepath.Join(c.ResolvedDataDir(), "leads.db")
}

// ResolvedKVDir returns the local store directory.
func (c *Config) ResolvedKVDir() string {
	if c.KVDir != "" {
		return c.KVDir
	}
	return filepath.Join(c.ResolvedDataDir(), "state")
}
