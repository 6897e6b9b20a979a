// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Nursedemic Contributors

package main

import (
	"context"
	"log/slog"
	"net/http"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/samber/oops"
	"github.com/spf13/cobra"

	"github.com/nursedemic/nursedemic/internal/auth"
	authpg "github.com/nursedemic/nursedemic/internal/auth/postgres"
	"github.com/nursedemic/nursedemic/internal/config"
	"github.com/nursedemic/nursedemic/internal/contact"
	contactpg "github.com/nursedemic/nursedemic/internal/contact/postgres"
	"github.com/nursedemic/nursedemic/internal/httpapi"
	"github.com/nursedemic/nursedemic/internal/logging"
	"github.com/nursedemic/nursedemic/internal/mail"
	"github.com/nursedemic/nursedemic/internal/observability"
	"github.com/nursedemic/nursedemic/internal/session"
	"github.com/nursedemic/nursedemic/internal/store"
)

const (
	startupTimeout  = 30 * time.Second
	shutdownTimeout = 10 * time.Second
)

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the portal API server",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd)
		},
	}

	// Flag names double as koanf keys, so they override the config file.
	cmd.Flags().String("http_addr", ":8080", "API listen address")
	cmd.Flags().String("metrics_addr", "127.0.0.1:9100", "metrics/health listen address (empty = disabled)")
	cmd.Flags().String("database_url", "", "PostgreSQL connection URL")
	cmd.Flags().String("redis.addr", "localhost:6379", "Redis address for the session store")
	cmd.Flags().String("log.format", "json", "log format (json or text)")
	cmd.Flags().String("log.level", "info", "log level (debug, info, warn, error)")
	cmd.Flags().Bool("auto_migrate", false, "run pending migrations before serving")

	return cmd
}

func runServe(cmd *cobra.Command) error {
	cfg, err := config.Load(configFile, cmd.Flags())
	if err != nil {
		return err
	}

	logging.SetDefault("nursedemic", version, cfg.Log.Format, cfg.Log.Level)
	logger := slog.Default()

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	startCtx, cancelStart := context.WithTimeout(ctx, startupTimeout)
	defer cancelStart()

	logger.Info("connecting to database")
	pool, err := store.Connect(startCtx, cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer pool.Close()

	if autoMigrate, _ := cmd.Flags().GetBool("auto_migrate"); autoMigrate {
		logger.Info("running migrations")
		migrator, migErr := store.NewMigrator(cfg.DatabaseURL)
		if migErr != nil {
			return migErr
		}
		if upErr := migrator.Up(); upErr != nil {
			return upErr
		}
		if closeErr := migrator.Close(); closeErr != nil {
			logger.Warn("closing migrator", "error", closeErr)
		}
	}

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer func() {
		if closeErr := redisClient.Close(); closeErr != nil {
			logger.Warn("closing redis client", "error", closeErr)
		}
	}()
	if pingErr := redisClient.Ping(startCtx).Err(); pingErr != nil {
		return oops.Code("REDIS_CONNECT_FAILED").
			With("addr", cfg.Redis.Addr).
			Wrap(pingErr)
	}

	sessions, err := session.NewRedisManager(redisClient, cfg.Session.TTL)
	if err != nil {
		return err
	}

	hasher := auth.NewArgon2idHasher()
	accounts := authpg.NewAccountRepository(pool)

	registration, err := auth.NewRegistrationService(accounts, hasher)
	if err != nil {
		return err
	}
	authn, err := auth.NewAuthService(accounts, sessions, hasher)
	if err != nil {
		return err
	}

	var notifier mail.Notifier = mail.NopNotifier{}
	if cfg.Mail.Enabled {
		notifier, err = mail.NewSMTPNotifier(mail.SMTPConfig{
			Host:     cfg.Mail.Host,
			Port:     cfg.Mail.Port,
			Username: cfg.Mail.Username,
			Password: cfg.Mail.Password,
			From:     cfg.Mail.From,
		})
		if err != nil {
			return err
		}
	}

	contacts, err := contact.NewService(contactpg.NewMessageRepository(pool), notifier, cfg.Mail.AdminEmail, logger)
	if err != nil {
		return err
	}

	var ready atomic.Bool
	var metrics *observability.Metrics
	var obs *observability.Server
	var obsErrCh <-chan error
	if cfg.MetricsAddr != "" {
		obs = observability.NewServer(cfg.MetricsAddr, ready.Load)
		errCh, startErr := obs.Start()
		if startErr != nil {
			return startErr
		}
		obsErrCh = errCh
		metrics = obs.Metrics()
	}

	handler, err := httpapi.NewHandler(logger, registration, authn, contacts, httpapi.CookieConfig{
		Name:   cfg.Session.CookieName,
		Secure: cfg.Session.CookieSecure,
		TTL:    cfg.Session.TTL,
	}, metrics)
	if err != nil {
		return err
	}

	httpSrv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           httpapi.NewRouter(handler, metrics),
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveErrCh := make(chan error, 1)
	go func() {
		logger.Info("api server started", "addr", cfg.HTTPAddr)
		if serveErr := httpSrv.ListenAndServe(); serveErr != nil && serveErr != http.ErrServerClosed {
			serveErrCh <- serveErr
		}
	}()
	ready.Store(true)

	// obsErrCh is nil when metrics are disabled; a nil channel never fires.
	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	case serveErr := <-serveErrCh:
		return oops.Code("SERVER_FAILED").Wrap(serveErr)
	case obsErr := <-obsErrCh:
		if obsErr != nil {
			return oops.Code("SERVER_FAILED").
				With("server", "observability").
				Wrap(obsErr)
		}
		logger.Warn("observability server stopped unexpectedly")
	}

	ready.Store(false)
	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancelShutdown()

	if shutdownErr := httpSrv.Shutdown(shutdownCtx); shutdownErr != nil {
		logger.Warn("api server shutdown", "error", shutdownErr)
	}
	if obs != nil {
		if stopErr := obs.Stop(shutdownCtx); stopErr != nil {
			logger.Warn("observability server shutdown", "error", stopErr)
		}
	}

	logger.Info("server stopped")
	return nil
}
