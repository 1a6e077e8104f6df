package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolate points the data directory at a temp dir and unsets LOGVIEW_ vars.
// Setenv first so the originals are restored after the test.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv(HomeEnv, dir)
	for _, key := range []string{
		"SERVER_PORT", "DB_PATH", "API_URL", "ADMIN_TOKEN", "LOCALE", "TIMEZONE",
		"QUOTA_PER_UNIT", "DISPLAY_IN_CURRENCY", "COUNT_CACHE_TTL", "PAGE_SIZE",
		"LOG_TYPE", "LOG_LEVEL", "REQUEST_TIMEOUT", "ADMIN_RATE_LIMIT",
		"BACKUP_DIR", "BACKUP_REMOTE", "BACKUP_TOKEN",
	} {
		t.Setenv(EnvPrefix+key, "")
		os.Unsetenv(EnvPrefix + key)
	}
	t.Chdir(dir)
	return dir
}

func TestLoadDefaults(t *testing.T) {
	dir := isolate(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":3000", cfg.ServerPort)
	assert.Equal(t, filepath.Join(dir, "logview.db"), cfg.DBPath)
	assert.Equal(t, "http://localhost:3000", cfg.APIURL)
	assert.Equal(t, "en", cfg.Locale)
	assert.Equal(t, 500000.0, cfg.QuotaPerUnit)
	assert.True(t, cfg.DisplayInCurrency)
	assert.Equal(t, 5*time.Second, cfg.CountCacheTTL)
	assert.Equal(t, 30*time.Second, cfg.RequestTimeout)
	assert.Equal(t, 10, cfg.PageSize)
	assert.Equal(t, 2, cfg.LogType)
	assert.Equal(t, 60, cfg.AdminRateLimit)
	assert.Equal(t, filepath.Join(dir, "backup"), cfg.BackupDir)
	assert.Empty(t, cfg.BackupRemote)

	loc, err := cfg.Location()
	require.NoError(t, err)
	assert.Equal(t, time.Local, loc)
}

func TestLoadPrecedence(t *testing.T) {
	dir := isolate(t)

	file := `
server_port = ":4000"
api_url = "http://file:4000/"
page_size = 50
display_in_currency = false
count_cache_ttl = "1m"
quota_per_unit = 1000
backup_remote = "https://example.com/backup.git"
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.toml"), []byte(file), 0600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("LOGVIEW_LOCALE=zh\nLOGVIEW_PAGE_SIZE=20\n"), 0600))
	t.Setenv(EnvPrefix+"SERVER_PORT", ":5000")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":5000", cfg.ServerPort, "env beats file")
	assert.Equal(t, "http://file:4000", cfg.APIURL, "trailing slash trimmed")
	assert.Equal(t, 20, cfg.PageSize, ".env beats file")
	assert.Equal(t, "zh", cfg.Locale)
	assert.False(t, cfg.DisplayInCurrency)
	assert.Equal(t, time.Minute, cfg.CountCacheTTL)
	assert.Equal(t, 1000.0, cfg.QuotaPerUnit)
	assert.Equal(t, "https://example.com/backup.git", cfg.BackupRemote)
}

func TestLoadInvalid(t *testing.T) {
	tests := []struct {
		key   string
		value string
	}{
		{"PAGE_SIZE", "ten"},
		{"COUNT_CACHE_TTL", "soon"},
		{"QUOTA_PER_UNIT", "0"},
		{"TIMEZONE", "Mars/Olympus"},
		{"LOG_LEVEL", "loud"},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			isolate(t)
			t.Setenv(EnvPrefix+tt.key, tt.value)

			_, err := Load()
			assert.Error(t, err)
		})
	}
}

func TestSlogLevel(t *testing.T) {
	cfg := &Config{LogLevel: "debug"}
	level, err := cfg.SlogLevel()
	require.NoError(t, err)
	assert.Equal(t, "DEBUG", level.String())
}

func TestEnsureConfigFile(t *testing.T) {
	dir := isolate(t)

	require.NoError(t, EnsureConfigFile())
	data, err := os.ReadFile(filepath.Join(dir, "config.toml"))
	require.NoError(t, err)
	assert.Contains(t, string(data), `# server_port = ":3000"`)

	// The template parses and leaves every value at its default.
	cfg, err := LoadFile()
	require.NoError(t, err)
	assert.Equal(t, FileConfig{}, *cfg)

	// An existing file is left alone.
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.toml"), []byte(`locale = "zh"`), 0600))
	require.NoError(t, EnsureConfigFile())
	cfg, err = LoadFile()
	require.NoError(t, err)
	assert.Equal(t, "zh", cfg.Locale)
}

func TestExpandHome(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "data", "x.db"), expandHome("~/data/x.db"))
	assert.Equal(t, "/abs/x.db", expandHome("/abs/x.db"))
}
