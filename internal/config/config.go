// Package config loads logview settings from flags, environment, the TOML
// file and defaults.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// EnvPrefix prefixes every environment variable logview reads.
const EnvPrefix = "LOGVIEW_"

// Config holds application configuration loaded from environment and file.
// Priority: CLI flags → Env vars → config.toml → defaults
type Config struct {
	// Server
	ServerPort     string
	DBPath         string
	CountCacheTTL  time.Duration
	AdminRateLimit int

	// Viewer
	APIURL         string
	AdminToken     string
	Locale         string
	Timezone       string
	PageSize       int
	LogType        int
	RequestTimeout time.Duration

	// Quota display
	QuotaPerUnit      float64
	DisplayInCurrency bool

	// Channel backup
	BackupDir    string
	BackupRemote string
	BackupToken  string

	LogLevel string
}

// Load reads configuration from .env files, the environment and the TOML
// file. Environment variables override file config values.
func Load() (*Config, error) {
	if err := loadDotEnv(".env", filepath.Join(DataDir(), ".env")); err != nil {
		return nil, err
	}

	file, err := LoadFile()
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", ConfigPath(), err)
	}
	return resolve(file)
}

// loadDotEnv loads each file that exists. Variables already set win.
func loadDotEnv(paths ...string) error {
	for _, p := range paths {
		err := godotenv.Load(p)
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("load %s: %w", p, err)
		}
	}
	return nil
}

func resolve(file *FileConfig) (*Config, error) {
	cfg := &Config{
		ServerPort:        getEnvOrFile("SERVER_PORT", file.ServerPort, ":3000"),
		DBPath:            expandHome(getEnvOrFile("DB_PATH", file.DBPath, DBPath())),
		APIURL:            strings.TrimRight(getEnvOrFile("API_URL", file.APIURL, "http://localhost:3000"), "/"),
		AdminToken:        getEnvOrFile("ADMIN_TOKEN", file.AdminToken, ""),
		Locale:            getEnvOrFile("LOCALE", file.Locale, "en"),
		Timezone:          getEnvOrFile("TIMEZONE", file.Timezone, ""),
		LogLevel:          getEnvOrFile("LOG_LEVEL", file.LogLevel, "info"),
		DisplayInCurrency: getEnvBoolOrFile("DISPLAY_IN_CURRENCY", file.DisplayInCurrency, true),
		BackupDir:         expandHome(getEnvOrFile("BACKUP_DIR", file.BackupDir, BackupDir())),
		BackupRemote:      getEnvOrFile("BACKUP_REMOTE", file.BackupRemote, ""),
		BackupToken:       getEnvOrFile("BACKUP_TOKEN", file.BackupToken, ""),
	}

	var errs []error
	collect := func(err error) {
		if err != nil {
			errs = append(errs, err)
		}
	}

	var err error
	cfg.CountCacheTTL, err = getEnvDurationOrFile("COUNT_CACHE_TTL", file.CountCacheTTL, 5*time.Second)
	collect(err)
	cfg.RequestTimeout, err = getEnvDurationOrFile("REQUEST_TIMEOUT", file.RequestTimeout, 30*time.Second)
	collect(err)
	cfg.PageSize, err = getEnvIntOrFile("PAGE_SIZE", file.PageSize, 10)
	collect(err)
	cfg.LogType, err = getEnvIntOrFile("LOG_TYPE", file.LogType, 2)
	collect(err)
	cfg.AdminRateLimit, err = getEnvIntOrFile("ADMIN_RATE_LIMIT", file.AdminRateLimit, 60)
	collect(err)

	cfg.QuotaPerUnit = 500000
	if v := os.Getenv(EnvPrefix + "QUOTA_PER_UNIT"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			collect(fmt.Errorf("%sQUOTA_PER_UNIT: %w", EnvPrefix, err))
		} else {
			cfg.QuotaPerUnit = f
		}
	} else if file.QuotaPerUnit != nil {
		cfg.QuotaPerUnit = *file.QuotaPerUnit
	}

	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return cfg, cfg.Validate()
}

// Validate checks values that cannot be repaired silently.
func (c *Config) Validate() error {
	if c.QuotaPerUnit <= 0 {
		return fmt.Errorf("quota_per_unit must be positive, got %v", c.QuotaPerUnit)
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	if _, err := c.SlogLevel(); err != nil {
		return err
	}
	return nil
}

// Location returns the display time zone; empty means local time.
func (c *Config) Location() (*time.Location, error) {
	if c.Timezone == "" || strings.EqualFold(c.Timezone, "local") {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}

// SlogLevel parses LogLevel.
func (c *Config) SlogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo, fmt.Errorf("log_level %q: %w", c.LogLevel, err)
	}
	return level, nil
}

// getEnvOrFile returns env value, file value, or default (in priority order)
func getEnvOrFile(key, fileValue, defaultValue string) string {
	if value := os.Getenv(EnvPrefix + key); value != "" {
		return value
	}
	if fileValue != "" {
		return fileValue
	}
	return defaultValue
}

// getEnvBoolOrFile returns env bool, file bool, or default (in priority order)
func getEnvBoolOrFile(key string, fileValue *bool, defaultValue bool) bool {
	if value := os.Getenv(EnvPrefix + key); value != "" {
		return value == "true" || value == "1" || value == "yes"
	}
	if fileValue != nil {
		return *fileValue
	}
	return defaultValue
}

func getEnvIntOrFile(key string, fileValue *int, defaultValue int) (int, error) {
	if value := os.Getenv(EnvPrefix + key); value != "" {
		n, err := strconv.Atoi(value)
		if err != nil {
			return 0, fmt.Errorf("%s%s: %w", EnvPrefix, key, err)
		}
		return n, nil
	}
	if fileValue != nil {
		return *fileValue, nil
	}
	return defaultValue, nil
}

func getEnvDurationOrFile(key, fileValue string, defaultValue time.Duration) (time.Duration, error) {
	raw := getEnvOrFile(key, fileValue, "")
	if raw == "" {
		return defaultValue, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", strings.ToLower(key), err)
	}
	return d, nil
}

func expandHome(path string) string {
	rest, ok := strings.CutPrefix(path, "~/")
	if !ok {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, rest)
}
