package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/mandalnilabja/logview/internal/client"
	"github.com/mandalnilabja/logview/internal/config"
	"github.com/mandalnilabja/logview/internal/contentlog"
	"github.com/mandalnilabja/logview/internal/i18n"
	"github.com/mandalnilabja/logview/internal/version"
)

// cli carries the resolved configuration into subcommands.
type cli struct {
	cfg    *config.Config
	logger *slog.Logger

	apiURL     string
	adminToken string
	locale     string
	timezone   string
	logLevel   string
}

func newRootCmd() *cobra.Command {
	a := &cli{}

	root := &cobra.Command{
		Use:           "logview",
		Short:         "Browse AI request content logs",
		Version:       version.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.load(cmd)
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&a.apiURL, "api-url", "", "log server base URL (default from config)")
	pf.StringVar(&a.adminToken, "admin-token", "", "admin password sent as a Bearer token")
	pf.StringVar(&a.locale, "locale", "", "display language: en or zh")
	pf.StringVar(&a.timezone, "timezone", "", "IANA time zone for displayed times")
	pf.StringVar(&a.logLevel, "log-level", "", "debug, info, warn or error")

	root.AddCommand(
		newServeCmd(a),
		newViewCmd(a),
		newListCmd(a),
		newImportCmd(a),
		newPruneCmd(a),
		newPasswdCmd(a),
		newBackupCmd(a),
		newRestoreCmd(a),
	)

	return root
}

// load resolves configuration and applies persistent flag overrides.
func (a *cli) load(cmd *cobra.Command) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}

	flags := cmd.Flags()
	if flags.Changed("api-url") {
		cfg.APIURL = a.apiURL
	}
	if flags.Changed("admin-token") {
		cfg.AdminToken = a.adminToken
	}
	if flags.Changed("locale") {
		cfg.Locale = a.locale
	}
	if flags.Changed("timezone") {
		cfg.Timezone = a.timezone
	}
	if flags.Changed("log-level") {
		cfg.LogLevel = a.logLevel
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}

	level, _ := cfg.SlogLevel()
	a.cfg = cfg
	a.logger = setupLogger(os.Stderr, level)
	return nil
}

func (a *cli) printer() *i18n.Printer {
	return i18n.New(a.cfg.Locale)
}

func (a *cli) quotaFormat() contentlog.QuotaFormat {
	return contentlog.QuotaFormat{
		PerUnit:    a.cfg.QuotaPerUnit,
		InCurrency: a.cfg.DisplayInCurrency,
		Digits:     contentlog.DefaultQuotaFormat.Digits,
	}
}

func (a *cli) client(logger *slog.Logger) *client.Client {
	return client.New(a.cfg.APIURL, a.cfg.AdminToken,
		client.WithTimeout(a.cfg.RequestTimeout),
		client.WithLogger(logger),
	)
}
