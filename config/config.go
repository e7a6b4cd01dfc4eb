// config/config.go
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type StorageConfig struct {
	Backend string `yaml:"backend"`  // "file" or "mysql"
	DataDir string `yaml:"data_dir"` // root for per-source CSV directories
}

type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     string `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	DBName   string `yaml:"dbname"`
}

type ScraperConfig struct {
	TimeoutStr      string `yaml:"timeout"`
	RequestDelayStr string `yaml:"request_delay"`
	UserAgent       string `yaml:"user_agent"`

	Timeout      time.Duration `yaml:"-"` // parsed from TimeoutStr
	RequestDelay time.Duration `yaml:"-"` // parsed from RequestDelayStr
}

type ReferenceConfig struct {
	InputPath  string `yaml:"input_path"`
	OutputPath string `yaml:"output_path"`
}

type Config struct {
	Storage   StorageConfig   `yaml:"storage"`
	Database  DatabaseConfig  `yaml:"database"`
	Scraper   ScraperConfig   `yaml:"scraper"`
	Reference ReferenceConfig `yaml:"reference"`
}

// Load reads configuration from the given YAML file, then applies
// overrides from the environment (a .env file is honored when present,
// so database credentials never need to live in config.yaml).
// The returned Config is constructed once at process start and passed
// to components explicitly; nothing reads it as ambient global state.
func Load(configPath string) (*Config, error) {
	// Missing .env is fine; environment variables still apply.
	_ = godotenv.Load()

	file, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(file, &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	applyEnvOverrides(&cfg)

	if cfg.Storage.Backend == "" {
		cfg.Storage.Backend = "file"
	}
	if cfg.Storage.Backend != "file" && cfg.Storage.Backend != "mysql" {
		return nil, fmt.Errorf("unknown storage backend %q (want \"file\" or \"mysql\")", cfg.Storage.Backend)
	}
	if cfg.Storage.DataDir == "" {
		cfg.Storage.DataDir = "data"
	}

	var err2 error
	cfg.Scraper.Timeout = 30 * time.Second
	if cfg.Scraper.TimeoutStr != "" {
		cfg.Scraper.Timeout, err2 = time.ParseDuration(cfg.Scraper.TimeoutStr)
		if err2 != nil {
			return nil, fmt.Errorf("failed to parse scraper timeout: %w", err2)
		}
	}

	cfg.Scraper.RequestDelay = 2 * time.Second
	if cfg.Scraper.RequestDelayStr != "" {
		cfg.Scraper.RequestDelay, err2 = time.ParseDuration(cfg.Scraper.RequestDelayStr)
		if err2 != nil {
			return nil, fmt.Errorf("failed to parse request delay: %w", err2)
		}
	}

	return &cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("DB_HOST"); v != "" {
		cfg.Database.Host = v
	}
	if v := os.Getenv("DB_PORT"); v != "" {
		cfg.Database.Port = v
	}
	if v := os.Getenv("DB_USER"); v != "" {
		cfg.Database.User = v
	}
	if v := os.Getenv("DB_PASSWORD"); v != "" {
		cfg.Database.Password = v
	}
	if v := os.Getenv("DB_NAME"); v != "" {
		cfg.Database.DBName = v
	}
}
