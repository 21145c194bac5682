package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const DefaultPath = "config.yaml"

type Config struct {
	Server struct {
		Host            string        `yaml:"host"`
		Port            string        `yaml:"port"`
		CORSOrigins     []string      `yaml:"cors_origins"`
		ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	} `yaml:"server"`
	Database struct {
		URL string `yaml:"url"`
	} `yaml:"database"`
	Redis struct {
		URL string `yaml:"url"`
	} `yaml:"redis"`
	Provider struct {
		APIKey      string        `yaml:"api_key"`
		Timeout     time.Duration `yaml:"timeout"`
		MinInterval time.Duration `yaml:"min_interval"`
		FullHistory bool          `yaml:"full_history"`
	} `yaml:"provider"`
	Auth struct {
		JWTSecret string        `yaml:"jwt_secret"`
		TokenTTL  time.Duration `yaml:"token_ttl"`
	} `yaml:"auth"`
	Cache struct {
		QuoteTTL time.Duration `yaml:"quote_ttl"`
	} `yaml:"cache"`
	Analysis struct {
		BulkWorkers int `yaml:"bulk_workers"`
	} `yaml:"analysis"`
	Alerts struct {
		Cron     string `yaml:"cron"`
		Disabled bool   `yaml:"disabled"`
	} `yaml:"alerts"`
	LogLevel string `yaml:"log_level"`
}

// Load reads the optional YAML file at path, then applies .env and environment
// variable overrides, then defaults.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	// a missing .env is normal outside local development
	_ = godotenv.Load()

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	cfg.applyDefaults()

	return cfg, nil
}

func (c *Config) applyEnv() error {
	setString("HOST", &c.Server.Host)
	setString("PORT", &c.Server.Port)
	setString("DATABASE_URL", &c.Database.URL)
	setString("REDIS_URL", &c.Redis.URL)
	setString("ALPHAVANTAGE_API_KEY", &c.Provider.APIKey)
	setString("JWT_SECRET", &c.Auth.JWTSecret)
	setString("ALERT_CRON", &c.Alerts.Cron)
	setString("LOG_LEVEL", &c.LogLevel)

	if v := os.Getenv("CORS_ORIGINS"); v != "" {
		c.Server.CORSOrigins = nil
		for _, origin := range strings.Split(v, ",") {
			if o := strings.TrimSpace(origin); o != "" {
				c.Server.CORSOrigins = append(c.Server.CORSOrigins, o)
			}
		}
	}

	durations := map[string]*time.Duration{
		"SHUTDOWN_TIMEOUT":      &c.Server.ShutdownTimeout,
		"PROVIDER_TIMEOUT":      &c.Provider.Timeout,
		"PROVIDER_MIN_INTERVAL": &c.Provider.MinInterval,
		"JWT_TTL":               &c.Auth.TokenTTL,
		"QUOTE_CACHE_TTL":       &c.Cache.QuoteTTL,
	}
	for key, target := range durations {
		if v := os.Getenv(key); v != "" {
			d, err := time.ParseDuration(v)
			if err != nil {
				return fmt.Errorf("parse %s: %w", key, err)
			}
			*target = d
		}
	}

	if v := os.Getenv("BULK_WORKERS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("parse BULK_WORKERS: %w", err)
		}
		c.Analysis.BulkWorkers = n
	}
	if v := os.Getenv("ALPHAVANTAGE_FULL_HISTORY"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("parse ALPHAVANTAGE_FULL_HISTORY: %w", err)
		}
		c.Provider.FullHistory = b
	}
	if v := os.Getenv("ALERTS_DISABLED"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("parse ALERTS_DISABLED: %w", err)
		}
		c.Alerts.Disabled = b
	}

	return nil
}

func (c *Config) applyDefaults() {
	if c.Server.Port == "" {
		c.Server.Port = "8080"
	}
	if len(c.Server.CORSOrigins) == 0 {
		c.Server.CORSOrigins = []string{"http://localhost:3000"}
	}
	if c.Server.ShutdownTimeout == 0 {
		c.Server.ShutdownTimeout = 10 * time.Second
	}
	if c.Provider.Timeout == 0 {
		c.Provider.Timeout = 30 * time.Second
	}
	if c.Provider.MinInterval == 0 {
		c.Provider.MinInterval = 100 * time.Millisecond
	}
	if c.Cache.QuoteTTL == 0 {
		c.Cache.QuoteTTL = 60 * time.Second
	}
	if c.Analysis.BulkWorkers <= 0 {
		c.Analysis.BulkWorkers = 4
	}
	if c.Alerts.Cron == "" {
		c.Alerts.Cron = "0 */5 * * * *"
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
}

// Addr is the listen address of the HTTP server
func (c *Config) Addr() string {
	return c.Server.Host + ":" + c.Server.Port
}

// Validate checks that all required fields are set.
func (c *Config) Validate() error {
	var errs []error
	if c.Database.URL == "" {
		errs = append(errs, errors.New("DATABASE_URL is required"))
	}
	if c.Auth.JWTSecret == "" {
		errs = append(errs, errors.New("JWT_SECRET is required"))
	}
	if c.Auth.TokenTTL < 0 {
		errs = append(errs, errors.New("JWT_TTL must not be negative"))
	}
	return errors.Join(errs...)
}

func setString(key string, target *string) {
	if v := os.Getenv(key); v != "" {
		*target = v
	}
}
