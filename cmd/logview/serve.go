package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/mandalnilabja/logview/internal/app"
	"github.com/mandalnilabja/logview/internal/config"
	"github.com/mandalnilabja/logview/internal/storage"
	"github.com/mandalnilabja/logview/internal/transport/http/handler"
	"github.com/mandalnilabja/logview/internal/transport/http/handler/admin"
	"github.com/mandalnilabja/logview/internal/transport/http/handler/infra"
	"github.com/mandalnilabja/logview/internal/transport/http/middleware/auth"
	"github.com/mandalnilabja/logview/internal/transport/http/middleware/ratelimit"
)

func newServeCmd(a *cli) *cobra.Command {
	var port string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the content log API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Flags().Changed("port") {
				a.cfg.ServerPort = port
			}
			return a.serve(cmd.Context())
		},
	}
	cmd.Flags().StringVar(&port, "port", "", "listen address, e.g. :3000")
	addDBFlag(cmd, a)
	return cmd
}

func (a *cli) openStore() (storage.Storage, error) {
	if err := config.EnsureDataDir(); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}
	store, err := storage.NewSQLiteStorage(a.cfg.DBPath, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to open storage: %w", err)
	}
	return store, nil
}

func (a *cli) serve(ctx context.Context) error {
	if err := config.EnsureConfigFile(); err != nil {
		a.logger.Warn("could not create config file", "path", config.ConfigPath(), "error", err)
	}

	store, err := a.openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	if err := ensureAdminPassword(store, newPasswordReader(os.Stdin, os.Stdout)); err != nil {
		return err
	}

	counts, err := admin.NewCountCache()
	if err != nil {
		return fmt.Errorf("failed to create count cache: %w", err)
	}
	defer counts.Close()
	verified, err := auth.NewVerifiedCache()
	if err != nil {
		return fmt.Errorf("failed to create auth cache: %w", err)
	}
	defer verified.Close()

	repo := handler.NewRepo(
		admin.New(store, counts, a.cfg.CountCacheTTL, a.logger),
		infra.New(store, time.Now()),
	)
	router := app.NewRouter(repo, &app.RouterOptions{
		Logger:      a.logger,
		Storage:     store,
		AuthCache:   verified,
		RateLimiter: ratelimit.New(a.cfg.AdminRateLimit),
	})

	printStartupBanner(os.Stderr, a.cfg)

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()
	return app.NewServer(a.cfg, router, a.logger).Run(ctx)
}

// addDBFlag lets commands that open the database override its path.
func addDBFlag(cmd *cobra.Command, a *cli) {
	var path string
	cmd.Flags().StringVar(&path, "db", "", "SQLite database path (default from config)")
	prev := cmd.PreRunE
	cmd.PreRunE = func(cmd *cobra.Command, args []string) error {
		if cmd.Flags().Changed("db") {
			a.cfg.DBPath = path
		}
		if prev != nil {
			return prev(cmd, args)
		}
		return nil
	}
}
