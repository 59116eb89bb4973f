// Package config provides configuration loading and structs for the SmartUTB server.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixes every environment override, e.g. SMARTUTB_SERVER_PORT.
const EnvPrefix = "SMARTUTB_"

// Config holds all configuration for the application.
type Config struct {
	Debug    bool           `yaml:"debug" env:"DEBUG"`
	Server   ServerConfig   `yaml:"server" envPrefix:"SERVER_"`
	Data     DataConfig     `yaml:"data" envPrefix:"DATA_"`
	History  HistoryConfig  `yaml:"history" envPrefix:"HISTORY_"`
	Matching MatchingConfig `yaml:"matching" envPrefix:"MATCHING_"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host        string   `yaml:"host" env:"HOST"`
	Port        int      `yaml:"port" env:"PORT"`
	CORSOrigins []string `yaml:"cors_origins" env:"CORS_ORIGINS"`
}

// DataConfig locates the reference documents. File names are keys inside Dir.
type DataConfig struct {
	Dir          string `yaml:"dir" env:"DIR"`
	UsersFile    string `yaml:"users_file" env:"USERS_FILE"`
	PublicFile   string `yaml:"public_file" env:"PUBLIC_FILE"`
	AcademicFile string `yaml:"academic_file" env:"ACADEMIC_FILE"`
}

// HistoryConfig selects the chat history backend.
type HistoryConfig struct {
	Backend       string `yaml:"backend" env:"BACKEND"`
	File          string `yaml:"file" env:"FILE"`
	SQLitePath    string `yaml:"sqlite_path" env:"SQLITE_PATH"`
	RedisAddr     string `yaml:"redis_addr" env:"REDIS_ADDR"`
	RedisPassword string `yaml:"redis_password" env:"REDIS_PASSWORD"`
	RedisDB       int    `yaml:"redis_db" env:"REDIS_DB"`
	RedisPrefix   string `yaml:"redis_prefix" env:"REDIS_PREFIX"`
}

// MatchingConfig tunes the public question matcher and session titles.
// A negative CacheSize disables the match cache.
type MatchingConfig struct {
	FuzzyCutoff float64 `yaml:"fuzzy_cutoff" env:"FUZZY_CUTOFF"`
	TitleLength int     `yaml:"title_length" env:"TITLE_LENGTH"`
	CacheSize   int     `yaml:"cache_size" env:"CACHE_SIZE"`
}

// Load reads and parses the config file at path, applies a .env file next to
// it and SMARTUTB_* environment overrides, then applies defaults and expands paths.
// Returns an error if the file cannot be read or parsed.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	configDir := filepath.Dir(path)
	if err := applyEnv(&cfg, filepath.Join(configDir, ".env")); err != nil {
		return nil, err
	}
	ApplyDefaults(&cfg)
	expandPaths(&cfg, configDir)
	return &cfg, nil
}

// Default returns a config built only from defaults and the environment,
// with relative paths resolved against dir.
func Default(dir string) (*Config, error) {
	var cfg Config
	if err := applyEnv(&cfg, filepath.Join(dir, ".env")); err != nil {
		return nil, err
	}
	ApplyDefaults(&cfg)
	expandPaths(&cfg, dir)
	return &cfg, nil
}

// Save writes the config to path.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// applyEnv loads dotenvPath when it exists (without overriding variables that
// are already set) and then applies SMARTUTB_* overrides to cfg.
func applyEnv(cfg *Config, dotenvPath string) error {
	if err := godotenv.Load(dotenvPath); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to load %s: %w", dotenvPath, err)
	}
	if err := env.ParseWithOptions(cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		return fmt.Errorf("failed to parse environment: %w", err)
	}
	return nil
}

func expandPaths(cfg *Config, configDir string) {
	cfg.Data.Dir = expandPath(cfg.Data.Dir, configDir)
	cfg.History.SQLitePath = expandPath(cfg.History.SQLitePath, configDir)
}

// expandPath converts a path to absolute. Paths starting with "./" are relative to configDir;
// other relative paths are relative to the home directory.
func expandPath(path string, configDir string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	if strings.HasPrefix(path, "./") || path == "." {
		return filepath.Join(configDir, path)
	}
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, path)
	}
	return path
}
