package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"
)

const (
	StorageFile     = "file"
	StoragePostgres = "postgres"

	OnEmptyFail        = "fail"
	OnEmptyReturnEmpty = "returnEmpty"
)

type Config struct {
	Environment string
	Host        string `toml:"host"`
	Port        int    `toml:"port"`

	// notes
	NotesStorage         string `toml:"notes_storage"`
	NotesFilePath        string `toml:"notes_file_path"`
	NotesOnEmpty         string `toml:"notes_on_empty"`
	SerializeSubmissions bool   `toml:"serialize_submissions"`
	// 0 disables submissions rate limiting
	SubmitRateLimitPerMin int `toml:"submit_rate_limit_per_min"`

	// postgres, used only with notes_storage = "postgres"
	PostgresHost   string `toml:"postgres_host"`
	PostgresPort   string `toml:"postgres_port"`
	PostgresDBName string `toml:"postgres_db_name"`

	// redis, when empty the rate limiter is kept in process
	RedisHost string `toml:"redis_host"`
	RedisPort string `toml:"redis_port"`

	// logging
	LogLevel      string `toml:"log_level"`
	LogsPath      string `toml:"logs_path"`
	LogToStdout   bool   `toml:"log_to_stdout"`
	LogFormatJSON bool   `toml:"log_format_json"`
	SentryEnabled bool   `toml:"sentry_enabled"`

	// metrics
	PrometheusMetricsHost string `toml:"prometheus_metrics_host"`
	PrometheusMetricsPort string `toml:"prometheus_metrics_port"`
}

type Toml struct {
	Development *Config
	Production  *Config
}

// sectionName maps the env flag to its toml table
func sectionName(env string) (string, error) {
	switch strings.ToLower(env) {
	case "dev", "development":
		return "development", nil
	case "prod", "production":
		return "production", nil
	default:
		return "", fmt.Errorf("unknown env: %s", env)
	}
}

func (t *Toml) Get(env string) (*Config, error) {
	section, err := sectionName(env)
	if err != nil {
		return nil, err
	}

	cfg := t.Development
	if section == "production" {
		cfg = t.Production
	}
	if cfg == nil {
		return nil, fmt.Errorf("no config section for env: %s", env)
	}
	cfg.Environment = strings.ToLower(env)
	return cfg, nil
}

func Load(env, configPath string) (*Config, error) {
	var tomlConfig Toml
	meta, err := toml.DecodeFile(configPath, &tomlConfig)
	if err != nil {
		return nil, fmt.Errorf("decode toml config [%s]: %w", configPath, err)
	}

	cfg, err := tomlConfig.Get(env)
	if err != nil {
		return nil, err
	}

	// submissions are serialized unless explicitly turned off
	section, _ := sectionName(env)
	if !meta.IsDefined(section, "serialize_submissions") {
		cfg.SerializeSubmissions = true
	}

	cfg.setDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

func (c *Config) setDefaults() {
	if c.Host == "" {
		c.Host = "localhost"
	}
	if c.Port == 0 {
		c.Port = 8080
	}
	if c.NotesStorage == "" {
		c.NotesStorage = StorageFile
	}
	if c.NotesFilePath == "" {
		c.NotesFilePath = "./notes.json"
	}
	if c.NotesOnEmpty == "" {
		c.NotesOnEmpty = OnEmptyFail
	}
	if c.RedisPort == "" {
		c.RedisPort = "6379"
	}
	if c.PostgresPort == "" {
		c.PostgresPort = "5432"
	}
}

func (c *Config) Validate() error {
	switch c.NotesStorage {
	case StorageFile:
		if c.NotesFilePath == "" {
			return errors.New("notes_file_path must be set for file storage")
		}
	case StoragePostgres:
		if c.PostgresHost == "" || c.PostgresDBName == "" {
			return errors.New("postgres_host and postgres_db_name must be set for postgres storage")
		}
	default:
		return fmt.Errorf("unknown notes_storage: %q", c.NotesStorage)
	}

	switch c.NotesOnEmpty {
	case OnEmptyFail, OnEmptyReturnEmpty:
	default:
		return fmt.Errorf("unknown notes_on_empty: %q", c.NotesOnEmpty)
	}

	if c.SubmitRateLimitPerMin < 0 {
		return errors.New("submit_rate_limit_per_min cannot be negative")
	}

	return nil
}
