package config

import (
	"os"
	"path/filepath"
	"runtime"
)

// HomeEnv overrides the data directory.
const HomeEnv = "LOGVIEW_HOME"

// DataDir returns the path to the logview data directory.
// - LOGVIEW_HOME when set
// - Windows: %APPDATA%\logview
// - Other OS: ~/.logview
func DataDir() string {
	if dir := os.Getenv(HomeEnv); dir != "" {
		return dir
	}
	if runtime.GOOS == "windows" {
		if appData := os.Getenv("APPDATA"); appData != "" {
			return filepath.Join(appData, "logview")
		}
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return ".logview"
	}
	return filepath.Join(home, ".logview")
}

// DBPath returns the default path to the SQLite database file.
func DBPath() string {
	return filepath.Join(DataDir(), "logview.db")
}

// LogPath returns the file the terminal viewer logs to.
func LogPath() string {
	return filepath.Join(DataDir(), "logview.log")
}

// BackupDir returns the default working copy for channel backups.
func BackupDir() string {
	return filepath.Join(DataDir(), "backup")
}

// EnsureDataDir creates the data directory if it doesn't exist.
func EnsureDataDir() error {
	return os.MkdirAll(DataDir(), 0700)
}
