package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"

	"github.com/andrescamacho/amalgam-go/internal/adapters/grpc"
	"github.com/andrescamacho/amalgam-go/internal/adapters/metrics"
	"github.com/andrescamacho/amalgam-go/internal/adapters/observer"
	"github.com/andrescamacho/amalgam-go/internal/adapters/persistence"
	"github.com/andrescamacho/amalgam-go/internal/application/mediator"
	"github.com/andrescamacho/amalgam-go/internal/application/setup"
	"github.com/andrescamacho/amalgam-go/internal/infrastructure/config"
	"github.com/andrescamacho/amalgam-go/internal/infrastructure/database"
	"github.com/andrescamacho/amalgam-go/internal/infrastructure/logging"
	"github.com/andrescamacho/amalgam-go/internal/infrastructure/pidfile"
)

func main() {
	os.Exit(daemonMain())
}

// daemonMain returns the exit code so deferred cleanup runs before exit
func daemonMain() int {
	forceFlag := flag.Bool("force", false, "Kill any existing daemon and start a new one")
	configFlag := flag.String("config", "", "Path to config file (default: search standard paths)")
	flag.Parse()

	fmt.Println("Amalgam Daemon v0.1.0")
	fmt.Println("=====================")

	fmt.Println("Loading configuration...")
	cfg := config.MustLoadConfig(*configFlag)

	logger, closer, err := logging.New(cfg.Logging)
	if err != nil {
		log.Fatalf("Failed to initialize logging: %v", err)
	}
	defer closer.Close()
	slog.SetDefault(logger)

	if cfg.Daemon.PIDFile != "" {
		fmt.Printf("Acquiring PID file lock: %s\n", cfg.Daemon.PIDFile)
		pf := pidfile.New(cfg.Daemon.PIDFile)

		if err := pf.Acquire(); err != nil {
			if !*forceFlag {
				log.Fatalf("Failed to acquire PID file lock: %v\nUse --force to kill the existing daemon", err)
			}
			fmt.Println("Force mode enabled - attempting to kill existing daemon...")
			if killErr := pf.KillExisting(cfg.Daemon.ShutdownTimeout); killErr != nil {
				log.Fatalf("Failed to kill existing daemon: %v", killErr)
			}
			fmt.Println("Existing daemon killed")

			if err := pf.Acquire(); err != nil {
				log.Fatalf("Failed to acquire PID file lock after killing existing daemon: %v", err)
			}
		}

		defer func() {
			if err := pf.Release(); err != nil {
				log.Printf("Warning: failed to release PID file: %v", err)
			}
		}()
		fmt.Println("PID file lock acquired")
	}

	if err := run(cfg, logger); err != nil {
		logger.Error("daemon stopped", "error", err)
		fmt.Fprintf(os.Stderr, "Fatal error: %v\n", err)
		return 1
	}
	return 0
}

func run(cfg *config.Config, logger *slog.Logger) error {
	// 1. Turn ledger
	fmt.Printf("Connecting to %s database...\n", cfg.Database.Type)
	db, err := database.NewConnection(&cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer database.Close(db)

	if err := database.AutoMigrate(db); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	fmt.Println("Database connected")

	turnRepo := persistence.NewGormTurnRecordRepository(db)
	sessions := persistence.NewMemorySessionRepository(cfg.Daemon.MaxSessions)

	// 2. Metrics
	var middlewares []mediator.Middleware
	var metricsServer *metrics.Server
	if cfg.Metrics.Enabled {
		metrics.InitRegistry()

		commandCollector := metrics.NewCommandMetricsCollector()
		if err := commandCollector.Register(); err != nil {
			return fmt.Errorf("failed to register command metrics: %w", err)
		}
		gameCollector := metrics.NewGameMetricsCollector()
		if err := gameCollector.Register(); err != nil {
			return fmt.Errorf("failed to register game metrics: %w", err)
		}
		metrics.SetGlobalGameCollector(gameCollector)
		middlewares = append(middlewares, metrics.PrometheusMiddleware(commandCollector))

		metricsServer, err = metrics.NewServer(cfg.Metrics.Addr(), cfg.Metrics.Path)
		if err != nil {
			return fmt.Errorf("failed to start metrics server: %w", err)
		}
		metricsServer.Start()
		fmt.Printf("Metrics available at http://%s%s\n", metricsServer.Addr(), cfg.Metrics.Path)
	}

	// 3. Mediator
	hub := observer.NewHub(logger)
	registry := setup.NewHandlerRegistry(sessions, turnRepo, hub, nil, cfg.Game.SessionSettings(), nil)
	med, err := registry.CreateConfiguredMediator(middlewares...)
	if err != nil {
		return fmt.Errorf("failed to configure mediator: %w", err)
	}
	fmt.Println("Mediator configured")

	// 4. Browser observer
	var observerServer *observer.Server
	if cfg.Observer.Enabled {
		observerServer = observer.NewServer(med, hub, observer.Options{
			AllowedOrigins: cfg.Observer.AllowedOrigins,
			MoveCooldown:   cfg.Game.MoveCooldown,
			Logger:         logger,
		})
		if err := observerServer.Listen(cfg.Observer.Address); err != nil {
			return fmt.Errorf("failed to start observer: %w", err)
		}
		observerServer.Start()
		fmt.Printf("Observer listening on http://%s\n", observerServer.Addr())
	}

	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), cfg.Daemon.ShutdownTimeout)
		defer cancel()
		if observerServer != nil {
			if err := observerServer.Shutdown(ctx); err != nil {
				logger.Warn("observer shutdown failed", "error", err)
			}
		}
		if metricsServer != nil {
			if err := metricsServer.Shutdown(ctx); err != nil {
				logger.Warn("metrics shutdown failed", "error", err)
			}
		}
	}()

	// 5. Daemon socket
	daemon, err := grpc.NewDaemonServer(med, logging.NewGameLogger(logger), cfg.Daemon.SocketPath)
	if err != nil {
		return fmt.Errorf("failed to create daemon server: %w", err)
	}

	fmt.Printf("✓ Daemon is ready on %s\n", cfg.Daemon.SocketPath)
	logger.Info("daemon started",
		"socket", cfg.Daemon.SocketPath,
		"max_sessions", cfg.Daemon.MaxSessions,
		"observer", cfg.Observer.Enabled,
		"metrics", cfg.Metrics.Enabled,
	)

	// Blocks until SIGINT/SIGTERM
	return daemon.Start()
}
