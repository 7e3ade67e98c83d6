// Package config loads client configuration from command-line overrides, environment variables, and .env files.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// DefaultAPIURL is the remote booking API used when nothing else is configured.
const DefaultAPIURL = "https://weddingwisebooking.onrender.com/api"

// Config holds the application configuration.
type Config struct {
	App     AppConfig
	Logger  LoggerConfig
	API     APIConfig
	Session SessionConfig
	FakeAPI FakeAPIConfig
}

// AppConfig holds application-level configuration.
type AppConfig struct {
	Environment string
}

// LoggerConfig holds logging configuration.
type LoggerConfig struct {
	Level string
}

// APIConfig holds settings for calls to the remote booking API.
type APIConfig struct {
	BaseURL string        // Remote API root including the /api prefix
	Timeout time.Duration // Per-request timeout (default: 30s)
	RPS     float64       // Outbound requests per second (default: 5)
	Burst   int           // Outbound burst size (default: 10)
}

// SessionConfig holds settings for the persistent session store.
type SessionConfig struct {
	Path     string // Badger directory (default: ~/.weddingwise/session)
	InMemory bool   // Keep the session in memory only
}

// FakeAPIConfig holds settings for the local development API server.
type FakeAPIConfig struct {
	Addr           string
	AccessTokenTTL time.Duration // Lifetime of issued credentials (default: 15m)
	RefreshWindow  time.Duration // How long after expiry a credential can still be renewed (default: 168h)
	KeyDir         string        // Directory holding the token key; empty keeps an ephemeral key
	RPS            float64       // Inbound requests per second per client IP
	Burst          int
}

// Overrides carries values given on the command line. Empty fields are ignored.
type Overrides struct {
	Environment string
	LogLevel    string
	APIURL      string
	SessionPath string
	EnvFile     string
}

// Load loads configuration from multiple sources with precedence:
// 1. Command-line overrides (highest priority).
// 2. Environment variables.
// 3. .env file.
// 4. Default values (lowest priority).
func Load(o Overrides) (*Config, error) {
	envFile := o.EnvFile
	if envFile == "" {
		envFile = ".env"
	}
	// godotenv never overrides variables that are already set; a missing file is fine.
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load env file %q: %w", envFile, err)
	}

	cfg := &Config{
		App: AppConfig{
			Environment: getConfigValue(o.Environment, "ENV", "development"),
		},
		Logger: LoggerConfig{
			Level: getConfigValue(o.LogLevel, "LOG_LEVEL", "info"),
		},
		API: APIConfig{
			BaseURL: strings.TrimRight(getConfigValue(o.APIURL, "WEDDINGWISE_API_URL", DefaultAPIURL), "/"),
			RPS:     getFloatConfigValue("", "WEDDINGWISE_API_RPS", 5),
			Burst:   getIntConfigValue("", "WEDDINGWISE_API_BURST", 10),
		},
		Session: SessionConfig{
			Path:     getConfigValue(o.SessionPath, "WEDDINGWISE_SESSION_PATH", ""),
			InMemory: getBoolConfigValue("", "WEDDINGWISE_SESSION_IN_MEMORY", false),
		},
		FakeAPI: FakeAPIConfig{
			Addr:   getConfigValue("", "FAKEAPI_ADDR", ":5000"),
			KeyDir: getConfigValue("", "FAKEAPI_KEY_DIR", ""),
			RPS:    getFloatConfigValue("", "FAKEAPI_RPS", 20),
			Burst:  getIntConfigValue("", "FAKEAPI_BURST", 40),
		},
	}

	var err error
	if cfg.API.Timeout, err = getDurationConfigValue("WEDDINGWISE_API_TIMEOUT", "30s"); err != nil {
		return nil, err
	}
	if cfg.FakeAPI.AccessTokenTTL, err = getDurationConfigValue("FAKEAPI_ACCESS_TTL", "15m"); err != nil {
		return nil, err
	}
	if cfg.FakeAPI.RefreshWindow, err = getDurationConfigValue("FAKEAPI_REFRESH_WINDOW", "168h"); err != nil {
		return nil, err
	}

	if err := cfg.expandSessionPath(); err != nil {
		return nil, fmt.Errorf("invalid session path: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks that all required config values are present and valid.
func (c *Config) Validate() error {
	validEnvs := map[string]bool{
		"development": true,
		"staging":     true,
		"production":  true,
	}
	if !validEnvs[c.App.Environment] {
		return fmt.Errorf("invalid environment: %q (must be development, staging, or production)", c.App.Environment)
	}

	validLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLevels[strings.ToLower(c.Logger.Level)] {
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", c.Logger.Level)
	}

	if c.API.BaseURL == "" {
		return errors.New("API base URL is required")
	}
	u, err := url.Parse(c.API.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("invalid API base URL: %q", c.API.BaseURL)
	}

	if c.API.Timeout <= 0 {
		return errors.New("API timeout must be positive")
	}
	if c.API.RPS <= 0 || c.API.Burst <= 0 {
		return errors.New("API rate limit must be positive")
	}

	if !c.Session.InMemory && c.Session.Path == "" {
		return errors.New("session path cannot be empty after expansion")
	}

	return nil
}

// expandPath expands ~ and makes the path absolute.
// If path is empty and defaultPath is provided, uses the default.
func expandPath(path, defaultPath string) (string, error) {
	if path == "" {
		return defaultPath, nil
	}

	if strings.HasPrefix(path, "~/") {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		path = filepath.Join(homeDir, path[2:])
	}

	if !filepath.IsAbs(path) {
		absPath, err := filepath.Abs(path)
		if err != nil {
			return "", fmt.Errorf("failed to get absolute path: %w", err)
		}
		path = absPath
	}

	return filepath.Clean(path), nil
}

// expandSessionPath defaults the session directory to ~/.weddingwise/session.
func (c *Config) expandSessionPath() error {
	if c.Session.InMemory {
		return nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return fmt.Errorf("failed to get home directory: %w", err)
	}
	defaultPath := filepath.Join(homeDir, ".weddingwise", "session")

	expanded, err := expandPath(c.Session.Path, defaultPath)
	if err != nil {
		return err
	}
	c.Session.Path = expanded
	return nil
}

// getConfigValue returns the first non-empty value from flag, env var, or default.
func getConfigValue(flagValue, envKey, defaultValue string) string {
	if flagValue != "" {
		return flagValue
	}

	if envValue := os.Getenv(envKey); envValue != "" {
		return envValue
	}

	return defaultValue
}

// getBoolConfigValue returns a bool from flag, env var, or default.
// Accepts: "true", "1", "yes" (case-insensitive) as true; anything else is false.
func getBoolConfigValue(flagValue, envKey string, defaultValue bool) bool {
	strValue := getConfigValue(flagValue, envKey, "")
	if strValue == "" {
		return defaultValue
	}
	strValue = strings.ToLower(strValue)
	return strValue == "true" || strValue == "1" || strValue == "yes"
}

// getIntConfigValue returns an int from flag, env var, or default.
func getIntConfigValue(flagValue, envKey string, defaultValue int) int {
	strValue := getConfigValue(flagValue, envKey, "")
	if strValue == "" {
		return defaultValue
	}
	result, err := strconv.Atoi(strValue)
	if err != nil {
		return defaultValue
	}
	return result
}

// getFloatConfigValue returns a float from flag, env var, or default.
func getFloatConfigValue(flagValue, envKey string, defaultValue float64) float64 {
	strValue := getConfigValue(flagValue, envKey, "")
	if strValue == "" {
		return defaultValue
	}
	result, err := strconv.ParseFloat(strValue, 64)
	if err != nil {
		return defaultValue
	}
	return result
}

// getDurationConfigValue parses a duration from env var or default.
func getDurationConfigValue(envKey, defaultValue string) (time.Duration, error) {
	strValue := getConfigValue("", envKey, defaultValue)
	d, err := time.ParseDuration(strValue)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", envKey, strValue, err)
	}
	return d, nil
}
