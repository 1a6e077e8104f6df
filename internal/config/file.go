package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// FileConfig represents the TOML configuration file structure. Pointer
// fields distinguish unset from zero.
type FileConfig struct {
	ServerPort        string   `toml:"server_port"`
	DBPath            string   `toml:"db_path"`
	APIURL            string   `toml:"api_url"`
	AdminToken        string   `toml:"admin_token"`
	Locale            string   `toml:"locale"`
	Timezone          string   `toml:"timezone"`
	QuotaPerUnit      *float64 `toml:"quota_per_unit"`
	DisplayInCurrency *bool    `toml:"display_in_currency"`
	CountCacheTTL     string   `toml:"count_cache_ttl"`
	PageSize          *int     `toml:"page_size"`
	LogType           *int     `toml:"log_type"`
	LogLevel          string   `toml:"log_level"`
	RequestTimeout    string   `toml:"request_timeout"`
	AdminRateLimit    *int     `toml:"admin_rate_limit"`
	BackupDir         string   `toml:"backup_dir"`
	BackupRemote      string   `toml:"backup_remote"`
	BackupToken       string   `toml:"backup_token"`
}

// ConfigPath returns the path to the config file (~/.logview/config.toml).
func ConfigPath() string {
	return filepath.Join(DataDir(), "config.toml")
}

// LoadFile loads configuration from the TOML file.
// Returns an empty FileConfig if the file doesn't exist.
func LoadFile() (*FileConfig, error) {
	cfg := &FileConfig{}

	_, err := toml.DecodeFile(ConfigPath(), cfg)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, err
	}
	return cfg, nil
}

// EnsureConfigFile creates a default config file with commented examples if none exists.
func EnsureConfigFile() error {
	path := ConfigPath()

	if _, err := os.Stat(path); err == nil {
		return nil
	}

	if err := EnsureDataDir(); err != nil {
		return err
	}

	defaultConfig := `# logview configuration
# Environment variables (LOGVIEW_SERVER_PORT, LOGVIEW_API_URL, ...) override these values.

# Server
# server_port = ":3000"
# db_path = "~/.logview/logview.db"
# count_cache_ttl = "5s"
# admin_rate_limit = 60     # admin requests per minute per client IP, 0 disables

# Viewer
# api_url = "http://localhost:3000"
# admin_token = ""          # admin password sent as a Bearer token
# locale = "en"             # en or zh
# timezone = "Local"        # IANA name, e.g. "Asia/Shanghai"
# page_size = 10            # 10, 20, 50 or 100
# log_type = 2              # 0 all, 1 top-up, 2 consume, 3 manage, 4 system
# request_timeout = "30s"

# Quota display
# quota_per_unit = 500000
# display_in_currency = true

# Channel backup (logview backup / logview restore)
# backup_dir = "~/.logview/backup"
# backup_remote = ""        # e.g. "https://github.com/you/logview-backup.git"
# backup_token = ""         # HTTPS token for the remote

# log_level = "info"        # debug, info, warn, error
`

	return os.WriteFile(path, []byte(defaultConfig), 0600)
}
