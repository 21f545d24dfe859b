package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all application configuration
type Config struct {
	LogFile string `yaml:"log_file"` // Default path to the access log file
	DBPath  string `yaml:"db_path"`  // Path to SQLite database file
	Listen  string `yaml:"listen"`   // HTTP listen address
	Format  string `yaml:"format"`   // Log format: a preset name or a literal directive string

	// Authentication settings (all optional)
	HtpasswdFile string `yaml:"htpasswd_file"` // Path to htpasswd file for authentication
	AuthUser     string `yaml:"auth_user"`     // Basic auth username (plaintext)
	AuthPass     string `yaml:"auth_pass"`     // Basic auth password (plaintext)

	// GeoIP settings (optional)
	GeoIPPath string `yaml:"geoip_path"` // Path to MaxMind/DB-IP mmdb file for country lookup

	// Reverse DNS settings
	ResolveTimeout  time.Duration `yaml:"resolve_timeout"`   // Per-lookup timeout for reverse DNS
	DNSCacheMaxDays int           `yaml:"dns_cache_max_days"` // Days to keep reverse DNS entries
}

// Load reads configuration from an optional YAML file, then lets
// environment variables override it, then applies defaults. An empty
// path skips the file entirely.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	cfg.LogFile = getEnvOrDefault("TRACKS_LOG_FILE", override(cfg.LogFile, "/logs/access.log"))
	cfg.DBPath = getEnvOrDefault("TRACKS_DB_PATH", override(cfg.DBPath, "/data/tracks.db"))
	cfg.Listen = getEnvOrDefault("TRACKS_LISTEN", override(cfg.Listen, ":8080"))
	cfg.Format = getEnvOrDefault("TRACKS_FORMAT", override(cfg.Format, "extended"))
	cfg.HtpasswdFile = getEnvOrDefault("TRACKS_HTPASSWD_FILE", cfg.HtpasswdFile)
	cfg.AuthUser = getEnvOrDefault("TRACKS_AUTH_USER", cfg.AuthUser)
	cfg.AuthPass = getEnvOrDefault("TRACKS_AUTH_PASS", cfg.AuthPass)
	cfg.GeoIPPath = getEnvOrDefault("TRACKS_GEOIP_PATH", cfg.GeoIPPath)

	if v := os.Getenv("TRACKS_RESOLVE_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("invalid TRACKS_RESOLVE_TIMEOUT: %w", err)
		}
		cfg.ResolveTimeout = d
	}
	if cfg.ResolveTimeout < 0 {
		return nil, fmt.Errorf("resolve_timeout must not be negative, got %s", cfg.ResolveTimeout)
	}
	if cfg.ResolveTimeout == 0 {
		cfg.ResolveTimeout = 5 * time.Second
	}

	if v := os.Getenv("TRACKS_DNS_CACHE_MAX_DAYS"); v != "" {
		days, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("invalid TRACKS_DNS_CACHE_MAX_DAYS: %w", err)
		}
		cfg.DNSCacheMaxDays = days
	}
	if cfg.DNSCacheMaxDays < 0 {
		return nil, fmt.Errorf("dns_cache_max_days must not be negative, got %d", cfg.DNSCacheMaxDays)
	}
	if cfg.DNSCacheMaxDays == 0 {
		cfg.DNSCacheMaxDays = 90
	}

	return cfg, nil
}

// getEnvOrDefault returns the environment variable value or the default if not set
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// override keeps a file-supplied value, falling back to the built-in default
func override(fromFile, fallback string) string {
	if fromFile != "" {
		return fromFile
	}
	return fallback
}
