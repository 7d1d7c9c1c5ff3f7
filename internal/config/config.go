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

type Config struct {
	// Server config
	Server ServerConfig

	// database config
	Database DatabaseConfig

	// CSRF config
	Security SecurityConfig

	// analyzer tuning
	Analysis AnalysisConfig
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port        string
	Environment string // development, staging, production
	BaseURL     string

	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

// DatabaseConfig holds PostgreSQL connection settings.
type DatabaseConfig struct {
	URL string
}

// SecurityConfig holds security-related settings.
type SecurityConfig struct {
	CSRFSecret     string
	SecureCookies  bool // true in production
	TrustedOrigins []string
}

// AnalysisConfig tunes the page fetcher and the analyzers. It is read
// from an optional YAML file so deployments can adjust crawl behavior
// without new environment variables.
type AnalysisConfig struct {
	UserAgent         string        `yaml:"user_agent"`
	FetchTimeout      time.Duration `yaml:"fetch_timeout"`
	RequestsPerSecond float64       `yaml:"requests_per_second"`
	NetworkProbes     bool          `yaml:"network_probes"`
	RecentReports     int           `yaml:"recent_reports"`
}

func defaultAnalysisConfig() AnalysisConfig {
	return AnalysisConfig{
		FetchTimeout:      30 * time.Second,
		RequestsPerSecond: 4,
		NetworkProbes:     false,
		RecentReports:     50,
	}
}

// IsDevelopment returns true if running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Server.Environment == "development"
}

// IsProduction returns true if running in production mode.
func (c *Config) IsProduction() bool {
	return c.Server.Environment == "production"
}

func Load() (*Config, error) {
	// Load .env file if it exists (ignore error if not found)
	// This is useful for local development but not required in production
	// where env vars are typically set by the orchestration platform
	_ = godotenv.Load()

	cfg := &Config{}

	// Load server configuration
	cfg.Server = ServerConfig{
		Port:         getEnvOrDefault("SERVER_PORT", "5000"),
		Environment:  getEnvOrDefault("APP_ENV", "development"),
		BaseURL:      getEnvOrDefault("BASE_URL", "http://localhost:5000"),
		ReadTimeout:  getDurationOrDefault("SERVER_READ_TIMEOUT", 15*time.Second),
		WriteTimeout: getDurationOrDefault("SERVER_WRITE_TIMEOUT", 120*time.Second),
		IdleTimeout:  getDurationOrDefault("SERVER_IDLE_TIMEOUT", 60*time.Second),
	}

	// Load database configuration
	cfg.Database = DatabaseConfig{
		URL: os.Getenv("DATABASE_URL"),
	}

	// Load security configuration
	cfg.Security = SecurityConfig{
		CSRFSecret:    os.Getenv("CSRF_SECRET"),
		SecureCookies: cfg.Server.Environment == "production",
	}
	if origins := os.Getenv("CSRF_TRUSTED_ORIGINS"); origins != "" {
		cfg.Security.TrustedOrigins = strings.FieldsFunc(origins, func(r rune) bool {
			return r == ' ' || r == ','
		})
	}

	// Load analyzer tuning, optionally from a YAML file
	analysis, err := loadAnalysisConfig(os.Getenv("ANALYSIS_CONFIG"))
	if err != nil {
		return nil, err
	}
	cfg.Analysis = analysis

	// Validate required configuration
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// loadAnalysisConfig reads the analyzer tuning file. A missing path or
// missing file falls back to defaults.
func loadAnalysisConfig(path string) (AnalysisConfig, error) {
	cfg := defaultAnalysisConfig()

	if path != "" {
		raw, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(raw, &cfg); err != nil {
				return cfg, fmt.Errorf("failed to parse analysis config %s: %w", path, err)
			}
		case os.IsNotExist(err):
			// fall through to defaults
		default:
			return cfg, fmt.Errorf("failed to read analysis config %s: %w", path, err)
		}
	}

	if probes := os.Getenv("ANALYSIS_NETWORK_PROBES"); probes != "" {
		enabled, err := strconv.ParseBool(probes)
		if err != nil {
			return cfg, fmt.Errorf("invalid ANALYSIS_NETWORK_PROBES: %w", err)
		}
		cfg.NetworkProbes = enabled
	}

	return cfg, nil
}

// validate checks that all required configuration is present and valid.
// This implements the "fail fast" principle - better to fail at startup
// than to fail later when a missing config is accessed.
func (c *Config) validate() error {
	var errs []error

	// Database URL is always required
	if c.Database.URL == "" {
		errs = append(errs, errors.New("DATABASE_URL is required"))
	}

	// CSRF secret must be set and sufficiently long
	if c.Security.CSRFSecret == "" {
		errs = append(errs, errors.New("CSRF_SECRET is required"))
	} else if len(c.Security.CSRFSecret) < 32 {
		errs = append(errs, errors.New("CSRF_SECRET must be at least 32 characters"))
	}

	// Analyzer tuning must stay in sane ranges
	if c.Analysis.FetchTimeout <= 0 {
		errs = append(errs, errors.New("analysis fetch_timeout must be positive"))
	}
	if c.Analysis.RequestsPerSecond <= 0 {
		errs = append(errs, errors.New("analysis requests_per_second must be positive"))
	}

	// Validate environment is a known value
	validEnvs := map[string]bool{
		"development": true,
		"staging":     true,
		"production":  true,
	}
	if !validEnvs[c.Server.Environment] {
		errs = append(errs, fmt.Errorf("APP_ENV must be one of: development, staging, production (got: %s)", c.Server.Environment))
	}

	// Combine all errors
	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed:\n%w", errors.Join(errs...))
	}

	return nil
}

// getEnvOrDefault returns the .env value or a default.
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	duration, err := time.ParseDuration(value)
	if err != nil {
		return defaultValue
	}
	return duration
}

// MustLoad is like Load but panics on error.
// Used in main() where its required to fail fast
func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		panic(fmt.Sprintf("failed to load configuration: %v", err))
	}
	return cfg
}
