package config

import (
	"path/filepath"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
)

// Config holds the paths of the two JSON state files. Values come from
// the environment (with .env support); unset values fall back to the
// data directory next to the binary.
type Config struct {
	DataDir   string `env:"DATA_DIR"`
	MediaFile string `env:"MEDIA_FILE"`
	UsersFile string `env:"USERS_FILE"`
}

// NewConfig loads .env if present, reads the environment and fills in
// defaults.
func NewConfig() *Config {
	_ = godotenv.Load()

	cfg := &Config{}
	_ = env.Parse(cfg)

	if cfg.DataDir == "" {
		cfg.DataDir = "data"
	}
	if cfg.MediaFile == "" {
		cfg.MediaFile = "media.json"
	}
	if cfg.UsersFile == "" {
		cfg.UsersFile = "users.json"
	}
	return cfg
}

// MediaPath returns the media file path, resolved under DataDir when
// relative.
func (c *Config) MediaPath() string { return c.resolve(c.MediaFile) }

// UsersPath returns the users file path, resolved under DataDir when
// relative.
func (c *Config) UsersPath() string { return c.resolve(c.UsersFile) }

func (c *Config) resolve(path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(c.DataDir, path)
}
