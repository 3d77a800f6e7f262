// Command server runs the uptime monitoring service.
//
// # Usage
//
//	server --config /etc/uptimemon/config.yaml
//
// # Configuration
//
// The server can be configured via:
// - Command-line flags
// - Environment variables (UPTIMEMON_*, EMAIL_*)
// - Config file (YAML)
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/statustrackr/uptime-mon/db/migrate"
	"github.com/statustrackr/uptime-mon/internal/alert"
	"github.com/statustrackr/uptime-mon/internal/api"
	"github.com/statustrackr/uptime-mon/internal/cache"
	"github.com/statustrackr/uptime-mon/internal/config"
	"github.com/statustrackr/uptime-mon/internal/engine"
	"github.com/statustrackr/uptime-mon/internal/metrics"
	"github.com/statustrackr/uptime-mon/internal/probe"
	"github.com/statustrackr/uptime-mon/internal/secrets"
	"github.com/statustrackr/uptime-mon/internal/service"
	"github.com/statustrackr/uptime-mon/internal/store"
)

func main() {
	var (
		configPath = flag.String("config", "", "Path to YAML config file")
		listenAddr = flag.String("listen", "", "HTTP listen address (overrides config)")
		dbURL      = flag.String("database", "", "Database URL (overrides config)")
		debug      = flag.Bool("debug", false, "Enable debug logging")
		version    = flag.Bool("version", false, "Print version and exit")
	)
	flag.Parse()

	if *version {
		fmt.Println("uptimemon-server v0.1.0")
		os.Exit(0)
	}

	// Load configuration: file, then env, then flags
	cfg := config.DefaultConfig()
	if *configPath != "" {
		loaded, err := config.LoadFromFile(*configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
			os.Exit(1)
		}
		cfg = loaded
	}
	cfg.ApplyEnvOverrides()
	if *listenAddr != "" {
		cfg.Server.ListenAddr = *listenAddr
	}
	if *dbURL != "" {
		cfg.Database.URL = *dbURL
	}
	if *debug {
		cfg.Server.Debug = true
	}

	// Set up logging
	logLevel := slog.LevelInfo
	if cfg.Server.Debug {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: logLevel,
	}))

	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	// Connect to database
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	db, err := store.NewStoreFromURL(ctx, cfg.Database.URL)
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := db.Ping(ctx); err != nil {
		logger.Error("database ping failed", "error", err)
		os.Exit(1)
	}
	logger.Info("connected to database")

	// Apply pending migrations
	if err := migrate.Run(ctx, db.Pool(), logger); err != nil {
		logger.Error("migrations failed", "error", err)
		os.Exit(1)
	}

	// Optional Redis response cache
	var responseCache *cache.Cache
	if cfg.Redis.URL != "" {
		responseCache, err = cache.New(cfg.Redis.URL, logger)
		if err != nil {
			logger.Warn("redis unavailable, response caching disabled", "error", err)
		} else {
			defer responseCache.Close()
		}
	}

	// Check engine
	registry := probe.NewDefaultRegistry()
	eng := engine.New(db, registry, engine.Config{
		TickInterval: cfg.Engine.TickInterval,
		UptimeWindow: cfg.Engine.UptimeWindow,
		LogRetention: cfg.Engine.LogRetention,
	}, logger)

	runCtx, runCancel := context.WithCancel(context.Background())
	defer runCancel()
	eng.Start(runCtx)

	// Alert dispatcher, if SMTP is configured
	var dispatcher *alert.Dispatcher
	if cfg.Email.Host != "" {
		password := cfg.Email.Password
		if password == "" {
			secretStore, err := secrets.NewSecretStore(secrets.ConfigFromEnv(), logger)
			if err != nil {
				logger.Error("failed to initialize secrets backend", "error", err)
				os.Exit(1)
			}
			password, err = secretStore.GetSecret(ctx, secrets.SecretSMTPPassword)
			if err != nil {
				logger.Error("failed to read SMTP password", "error", err)
				os.Exit(1)
			}
			secretStore.Close()
		}

		mailer := alert.NewSMTPMailer(alert.SMTPConfig{
			Host:     cfg.Email.Host,
			Port:     cfg.Email.Port,
			Username: cfg.Email.Username,
			Password: password,
			From:     cfg.Email.From,
			FromName: cfg.Email.FromName,
		})

		dispatcher = alert.NewDispatcher(db, mailer, eng.Events(), alert.Config{
			EmailsPerMinute: float64(cfg.Alerts.EmailsPerMinute),
			Burst:           cfg.Alerts.Burst,
		}, logger)
		dispatcher.Start(runCtx)
	} else {
		logger.Info("email not configured, alert dispatch disabled")
	}

	// Service and API
	svc := service.NewService(db, eng, logger)
	collector := metrics.NewCollector(db)
	apiServer := api.NewServer(svc, collector, responseCache, logger)

	server := &http.Server{
		Addr:         cfg.Server.ListenAddr,
		Handler:      apiServer,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		logger.Info("starting server", "addr", cfg.Server.ListenAddr)
		if err := server.ListenAndServe(); err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for shutdown signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	logger.Info("shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), config.ShutdownTimeout)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown error", "error", err)
	}

	eng.Stop()
	if dispatcher != nil {
		dispatcher.Stop()
	}

	logger.Info("shutdown complete")
}
