// Package config provides application configuration management with support for environment variables, command-line flags, and .env files.
package config

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Config holds the application configuration.
type Config struct {
	App      AppConfig
	Logger   LoggerConfig
	Catalog  CatalogConfig
	Engine   EngineConfig
	Server   ServerConfig
	Database DatabaseConfig
	Metadata MetadataConfig
}

// AppConfig holds application-level configuration.
type AppConfig struct {
	Environment string
}

// LoggerConfig holds logging configuration.
type LoggerConfig struct {
	Level string
}

// CatalogConfig holds catalog source configuration.
type CatalogConfig struct {
	// Path to the tabular book dataset (CSV)
	SourcePath string
}

// EngineConfig holds recommendation engine tuning knobs.
type EngineConfig struct {
	// VocabularySize caps TF-IDF vocabulary at the N most informative terms (default: 5000)
	VocabularySize int
	// DefaultLimit is the result count when the caller does not specify one (default: 8)
	DefaultLimit int
	// MaxLimit bounds the per-request result count (default: 50)
	MaxLimit int
	// CollaborativeUsers is the synthetic user population size (default: 200)
	CollaborativeUsers int
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Name           string
	Port           string        // Server port (default: 8080)
	ReadTimeout    time.Duration // HTTP read timeout (default: 15s)
	WriteTimeout   time.Duration // HTTP write timeout (default: 15s)
	IdleTimeout    time.Duration // HTTP idle timeout (default: 60s)
	AllowedOrigins []string      // CORS origins (default: localhost dev origins)
	RateLimitRPS   int           // Per-client requests per second, 0 disables (default: 20)
	RateLimitBurst int           // Per-client burst size (default: 40)
}

// DatabaseConfig holds SQLite configuration.
type DatabaseConfig struct {
	// Path to the SQLite database file (default: {data}/bookquest.db)
	Path string
}

// MetadataConfig holds external book-metadata lookup configuration.
type MetadataConfig struct {
	// GoogleBooksAPIKey is optional; lookups work unauthenticated at a lower quota
	GoogleBooksAPIKey string
	// Timeout per upstream request (default: 10s)
	Timeout time.Duration
}

// LoadConfig loads configuration from multiple sources with precedence:
// 1. Command-line flags (highest priority).
// 2. Environment variables.
// 3. .env file.
// 4. Default values (lowest priority).
func LoadConfig() (*Config, error) {
	env := flag.String("env", "", "Environment (development, staging, production)")
	logLevel := flag.String("log-level", "", "Log level (debug, info, warn, error)")
	catalogPath := flag.String("catalog-path", "", "Path to the book dataset CSV")
	dbPath := flag.String("db-path", "", "Path to the SQLite database")
	serverName := flag.String("server-name", "", "Name for the server")
	serverPort := flag.String("port", "", "Server port (default: 8080)")
	readTimeout := flag.String("read-timeout", "", "HTTP read timeout (default: 15s)")
	writeTimeout := flag.String("write-timeout", "", "HTTP write timeout (default: 15s)")
	idleTimeout := flag.String("idle-timeout", "", "HTTP idle timeout (default: 60s)")
	allowedOrigins := flag.String("allowed-origins", "", "Comma-separated CORS origins")
	vocabSize := flag.String("vocabulary-size", "", "TF-IDF vocabulary cap (default: 5000)")
	defaultLimit := flag.String("default-limit", "", "Default recommendation count (default: 8)")
	maxLimit := flag.String("max-limit", "", "Maximum recommendation count (default: 50)")
	collabUsers := flag.String("collaborative-users", "", "Synthetic user population (default: 200)")
	metadataTimeout := flag.String("metadata-timeout", "", "External metadata request timeout (default: 10s)")
	envFile := flag.String("env-file", ".env", "Path to .env file")

	flag.Parse()

	// Load .env file if it exists (silently ignore if not found).
	_ = loadEnvFile(*envFile)

	cfg := &Config{
		App: AppConfig{
			Environment: getConfigValue(*env, "ENV", "development"),
		},
		Logger: LoggerConfig{
			Level: getConfigValue(*logLevel, "LOG_LEVEL", "info"),
		},
		Catalog: CatalogConfig{
			SourcePath: getConfigValue(*catalogPath, "CATALOG_PATH", "Books.csv"),
		},
		Engine: EngineConfig{
			VocabularySize:     getIntConfigValue(*vocabSize, "VOCABULARY_SIZE", 5000),
			DefaultLimit:       getIntConfigValue(*defaultLimit, "DEFAULT_LIMIT", 8),
			MaxLimit:           getIntConfigValue(*maxLimit, "MAX_LIMIT", 50),
			CollaborativeUsers: getIntConfigValue(*collabUsers, "COLLABORATIVE_USERS", 200),
		},
		Server: ServerConfig{
			Name:           getConfigValue(*serverName, "SERVER_NAME", "BookQuest Server"),
			Port:           getConfigValue(*serverPort, "SERVER_PORT", "8080"),
			RateLimitRPS:   getIntConfigValue("", "RATE_LIMIT_RPS", 20),
			RateLimitBurst: getIntConfigValue("", "RATE_LIMIT_BURST", 40),
		},
		Database: DatabaseConfig{
			Path: getConfigValue(*dbPath, "DB_PATH", "bookquest.db"),
		},
		Metadata: MetadataConfig{
			GoogleBooksAPIKey: getConfigValue("", "GOOGLE_BOOKS_API_KEY", ""),
		},
	}

	// CORS origins: the original frontend runs on localhost:3000 in development.
	originsStr := getConfigValue(*allowedOrigins, "ALLOWED_ORIGINS", "http://localhost:3000,http://127.0.0.1:3000")
	for _, o := range strings.Split(originsStr, ",") {
		if o = strings.TrimSpace(o); o != "" {
			cfg.Server.AllowedOrigins = append(cfg.Server.AllowedOrigins, o)
		}
	}

	// Parse server timeouts.
	var err error
	cfg.Server.ReadTimeout, err = parseDurationValue(*readTimeout, "SERVER_READ_TIMEOUT", "15s")
	if err != nil {
		return nil, err
	}
	cfg.Server.WriteTimeout, err = parseDurationValue(*writeTimeout, "SERVER_WRITE_TIMEOUT", "15s")
	if err != nil {
		return nil, err
	}
	cfg.Server.IdleTimeout, err = parseDurationValue(*idleTimeout, "SERVER_IDLE_TIMEOUT", "60s")
	if err != nil {
		return nil, err
	}
	cfg.Metadata.Timeout, err = parseDurationValue(*metadataTimeout, "METADATA_TIMEOUT", "10s")
	if err != nil {
		return nil, err
	}

	if err := cfg.expandCatalogPath(); err != nil {
		return nil, fmt.Errorf("invalid catalog path: %w", err)
	}
	if err := cfg.expandDatabasePath(); err != nil {
		return nil, fmt.Errorf("invalid database path: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks that all required config values are present and valid.
func (c *Config) Validate() error {
	if c.App.Environment == "" {
		return errors.New("ENV is required")
	}

	validEnvs := map[string]bool{
		"development": true,
		"staging":     true,
		"production":  true,
	}
	if !validEnvs[c.App.Environment] {
		return fmt.Errorf("invalid environment: %s (must be development, staging, or production)", c.App.Environment)
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

	if c.Catalog.SourcePath == "" {
		return errors.New("catalog source path cannot be empty")
	}

	if c.Engine.VocabularySize < 100 {
		return fmt.Errorf("vocabulary size too small: %d (minimum 100)", c.Engine.VocabularySize)
	}
	if c.Engine.DefaultLimit < 1 || c.Engine.DefaultLimit > c.Engine.MaxLimit {
		return fmt.Errorf("default limit %d out of range [1, %d]", c.Engine.DefaultLimit, c.Engine.MaxLimit)
	}

	return nil
}

// expandPath expands ~ and makes the path absolute.
func expandPath(path string) (string, error) {
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

func (c *Config) expandCatalogPath() error {
	expanded, err := expandPath(c.Catalog.SourcePath)
	if err != nil {
		return err
	}
	c.Catalog.SourcePath = expanded
	return nil
}

func (c *Config) expandDatabasePath() error {
	expanded, err := expandPath(c.Database.Path)
	if err != nil {
		return err
	}
	c.Database.Path = expanded
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

// getIntConfigValue returns an int from flag, env var, or default.
func getIntConfigValue(flagValue, envKey string, defaultValue int) int {
	strValue := getConfigValue(flagValue, envKey, "")
	if strValue == "" {
		return defaultValue
	}
	var result int
	if _, err := fmt.Sscanf(strValue, "%d", &result); err != nil {
		return defaultValue
	}
	return result
}

// parseDurationValue resolves a duration from flag, env var, or default and parses it.
func parseDurationValue(flagValue, envKey, defaultValue string) (time.Duration, error) {
	strValue := getConfigValue(flagValue, envKey, defaultValue)
	d, err := time.ParseDuration(strValue)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", strings.ToLower(strings.ReplaceAll(envKey, "_", " ")), strValue, err)
	}
	return d, nil
}

// loadEnvFile loads environment variables from a .env file.
// Format: KEY=value (one per line, # for comments).
func loadEnvFile(path string) error {
	file, err := os.Open(path) //#nosec G304 -- Config file path from user input is expected
	if err != nil {
		return err
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	lineNum := 0

	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())

		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			return fmt.Errorf("invalid format at line %d: %s", lineNum, line)
		}

		key := strings.TrimSpace(parts[0])
		value := strings.TrimSpace(parts[1])
		value = strings.Trim(value, `"'`)

		// Env vars take precedence over .env file.
		if os.Getenv(key) == "" {
			if err := os.Setenv(key, value); err != nil {
				return fmt.Errorf("failed to set env var %s: %w", key, err)
			}
		}
	}

	return scanner.Err()
}
