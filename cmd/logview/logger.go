package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/fatih/color"

	"github.com/mandalnilabja/logview/internal/config"
	"github.com/mandalnilabja/logview/internal/version"
)

func setupLogger(w io.Writer, level slog.Level) *slog.Logger {
	handler := slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: level,
	})
	return slog.New(handler)
}

// openLogFile returns a logger writing to the data directory log file.
// The full-screen viewer owns the terminal, so it cannot log to stderr.
func openLogFile(level slog.Level) (*slog.Logger, io.Closer, error) {
	if err := config.EnsureDataDir(); err != nil {
		return nil, nil, err
	}
	f, err := os.OpenFile(config.LogPath(), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}
	return setupLogger(f, level), f, nil
}

func printStartupBanner(w io.Writer, cfg *config.Config) {
	title := color.New(color.FgCyan, color.Bold)
	fmt.Fprintf(w, "\n")
	title.Fprintf(w, "logview %s - content log server\n", version.Version)
	fmt.Fprintln(w, "════════════════════════════════════════════════")
	fmt.Fprintf(w, "Logs API:   http://localhost%s/api/log/content\n", cfg.ServerPort)
	fmt.Fprintf(w, "Health:     http://localhost%s/api/health\n", cfg.ServerPort)
	fmt.Fprintf(w, "Database:   %s\n", cfg.DBPath)
	fmt.Fprintf(w, "Data:       %s\n", config.DataDir())
	fmt.Fprintln(w, "════════════════════════════════════════════════")
	fmt.Fprintf(w, "\n")
}
