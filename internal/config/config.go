package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/adrg/xdg"
	"github.com/go-yaml/yaml"
	"github.com/joho/godotenv"
)

const appDir = "waqt"

// Config holds process-level configuration. Work rules (standard hours,
// session cap) are user data and live in the settings table instead.
type Config struct {
	Port    int    `yaml:"port"`
	DataDir string `yaml:"data_dir"`
	DBPath  string `yaml:"db_path"`
}

// DefaultConfigPath returns where the YAML config file is looked up
func DefaultConfigPath() string {
	return filepath.Join(xdg.ConfigHome, appDir, "config.yaml")
}

// Load builds configuration from defaults, the YAML config file and
// environment variables, in increasing priority
func Load() (*Config, error) {
	// Load .env file if it exists
	godotenv.Load()

	cfg := &Config{
		Port:    8844,
		DataDir: filepath.Join(xdg.DataHome, appDir),
	}

	if err := cfg.readFile(DefaultConfigPath()); err != nil {
		return nil, err
	}

	cfg.Port = getEnvAsIntOrDefault("WAQT_PORT", cfg.Port)
	cfg.DataDir = getEnvOrDefault("WAQT_DATA_DIR", cfg.DataDir)
	if cfg.DBPath == "" {
		cfg.DBPath = filepath.Join(cfg.DataDir, "waqt.db")
	}
	cfg.DBPath = getEnvOrDefault("WAQT_DB_PATH", cfg.DBPath)

	return cfg, nil
}

// Addr returns the listen address for the HTTP server
func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}

// LockPath returns the lock file guarding the serve command
func (c *Config) LockPath() string {
	return filepath.Join(c.DataDir, "waqt.lock")
}

func (c *Config) readFile(path string) error {
	raw, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return err
	}
	if err := yaml.Unmarshal(raw, c); err != nil {
		return fmt.Errorf("parsing %s: %w", path, err)
	}
	return nil
}

func getEnvOrDefault(key, defaultVal string) string {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	return val
}

func getEnvAsIntOrDefault(key string, defaultVal int) int {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		return defaultVal
	}
	return n
}
