package main

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the daemon's infrastructure configuration. The purge settings
// themselves (zone, token, notification policy) live in the settings store.
type Config struct {
	Listen string `yaml:"listen"`

	Site struct {
		Name               string `yaml:"name"`
		URL                string `yaml:"url"`
		AdminURL           string `yaml:"admin_url"`
		DefaultNotifyEmail string `yaml:"default_notify_email"`
	} `yaml:"site"`

	Postgres struct {
		DSN string `yaml:"dsn"`
	} `yaml:"postgres"`

	Redis struct {
		Addr     string `yaml:"addr"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
	} `yaml:"redis"`

	AWS struct {
		Region      string `yaml:"region"`
		FromAddress string `yaml:"from_address"`
	} `yaml:"aws"`

	Vault struct {
		Enabled bool   `yaml:"enabled"`
		Address string `yaml:"address"`
		Mount   string `yaml:"mount"`
		Path    string `yaml:"path"`
		Field   string `yaml:"field"`
	} `yaml:"vault"`

	Cloudflare struct {
		// BaseURL overrides the API endpoint, mainly for integration testing.
		BaseURL string `yaml:"base_url"`
	} `yaml:"cloudflare"`
}

func loadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config file: %w", err)
	}

	overrideFromEnv(&cfg)

	if cfg.Listen == "" {
		cfg.Listen = ":8080"
	}
	if cfg.Site.URL == "" {
		return Config{}, fmt.Errorf("site.url is required")
	}
	if cfg.Site.Name == "" {
		cfg.Site.Name = cfg.Site.URL
	}
	if cfg.Postgres.DSN == "" {
		return Config{}, fmt.Errorf("postgres.dsn is required")
	}
	if cfg.Redis.Addr == "" {
		cfg.Redis.Addr = "localhost:6379"
	}

	return cfg, nil
}

func overrideFromEnv(cfg *Config) {
	if listen := os.Getenv("PURGED_LISTEN"); listen != "" {
		cfg.Listen = listen
	}
	if dsn := os.Getenv("PG_DSN"); dsn != "" {
		cfg.Postgres.DSN = dsn
	}
	if addr := os.Getenv("REDIS_ADDR"); addr != "" {
		cfg.Redis.Addr = addr
	}
	if password := os.Getenv("REDIS_PASSWORD"); password != "" {
		cfg.Redis.Password = password
	}
	if region := os.Getenv("AWS_REGION"); region != "" {
		cfg.AWS.Region = region
	}
}
