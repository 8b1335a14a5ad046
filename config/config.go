package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	HTTP     HTTPConfig     `yaml:"http"`
	Database DatabaseConfig `yaml:"database"`
	Redis    RedisConfig    `yaml:"redis"`
	Kafka    KafkaConfig    `yaml:"kafka"`
	Venue    VenueConfig    `yaml:"venue"`
	Worker   WorkerConfig   `yaml:"worker"`
}

type HTTPConfig struct {
	Address                  string  `yaml:"address"`
	RateLimitPerSec          float64 `yaml:"rate_limit_per_sec"`
	RateLimitBurst           int     `yaml:"rate_limit_burst"`
	DashboardCacheTTLSeconds int     `yaml:"dashboard_cache_ttl_seconds"`
}

type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Name     string `yaml:"name"`
	SSLMode  string `yaml:"ssl_mode"`
}

func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s", d.Host, d.Port, d.User, d.Password, d.Name, d.SSLMode)
}

type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type KafkaConfig struct {
	Brokers            []string `yaml:"brokers"`
	TableEventsTopic   string   `yaml:"table_events_topic"`
	NotificationsTopic string   `yaml:"notifications_topic"`
	GroupID            string   `yaml:"group_id"`
}

// VenueConfig carries venue-level defaults; the dashboard endpoint accepts
// per-request overrides for timezone and live window.
type VenueConfig struct {
	DefaultTimezone          string `yaml:"default_timezone"`
	LiveWindowMinutes        int    `yaml:"live_window_minutes"`
	LookaheadHours           int    `yaml:"reservation_lookahead_hours"`
	SeatLockTTLSeconds       int    `yaml:"seat_lock_ttl_seconds"`
	ResourcesCacheTTLSeconds int    `yaml:"resources_cache_ttl_seconds"`
}

type WorkerConfig struct {
	ArchiveSweepMinutes  int `yaml:"archive_sweep_minutes"`
	SessionRetentionDays int `yaml:"session_retention_days"`
}

func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	applyDefaults(&cfg)
	return &cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.HTTP.Address == "" {
		cfg.HTTP.Address = ":8080"
	}
	if cfg.HTTP.RateLimitPerSec <= 0 {
		cfg.HTTP.RateLimitPerSec = 10
	}
	if cfg.HTTP.RateLimitBurst <= 0 {
		cfg.HTTP.RateLimitBurst = 5
	}
	if cfg.HTTP.DashboardCacheTTLSeconds <= 0 {
		cfg.HTTP.DashboardCacheTTLSeconds = 5
	}
	if cfg.Venue.DefaultTimezone == "" {
		cfg.Venue.DefaultTimezone = "UTC"
	}
	if cfg.Venue.LiveWindowMinutes <= 0 {
		cfg.Venue.LiveWindowMinutes = 30
	}
	if cfg.Venue.LookaheadHours <= 0 {
		cfg.Venue.LookaheadHours = 8
	}
	if cfg.Venue.SeatLockTTLSeconds <= 0 {
		cfg.Venue.SeatLockTTLSeconds = 10
	}
	if cfg.Venue.ResourcesCacheTTLSeconds <= 0 {
		cfg.Venue.ResourcesCacheTTLSeconds = 60
	}
	if cfg.Worker.ArchiveSweepMinutes <= 0 {
		cfg.Worker.ArchiveSweepMinutes = 60
	}
	if cfg.Worker.SessionRetentionDays <= 0 {
		cfg.Worker.SessionRetentionDays = 90
	}
}
