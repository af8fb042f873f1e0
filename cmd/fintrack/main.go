package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"fintrack/internal/amqp"
	"fintrack/internal/auth"
	"fintrack/internal/classifier"
	"fintrack/internal/config"
	apphttp "fintrack/internal/http"
	applog "fintrack/internal/log"
	"fintrack/internal/services"
	"fintrack/internal/store"
	memstore "fintrack/internal/store/memory"
	"fintrack/internal/store/sqlite"
)

func main() {
	// .env is for local development; absent in production.
	_ = godotenv.Load()

	logger := applog.New(applog.DefaultConfig())
	applog.SetDefault(logger)

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}

	model, err := loadModel(cfg.ModelPath)
	if err != nil {
		logger.Error("Failed to load classifier model", "error", err, "path", cfg.ModelPath)
		os.Exit(1)
	}

	var (
		txStore    store.TransactionStore
		userStore  store.UserStore
		readyCheck func(ctx context.Context) error
		closeStore func() error
	)
	switch cfg.DataBackend {
	case "sqlite":
		repo, err := sqlite.NewRepository(cfg.SQLiteDBPath)
		if err != nil {
			logger.Error("Failed to initialize SQLite repository", "error", err, "path", cfg.SQLiteDBPath)
			os.Exit(1)
		}
		txStore, userStore = repo, repo
		readyCheck = repo.Ping
		closeStore = repo.Close
		logger.Info("Initialized sqlite backend", "path", cfg.SQLiteDBPath)
	default:
		mem := memstore.NewStore()
		txStore, userStore = mem, mem
		logger.Info("Initialized memory backend")
	}
	if closeStore != nil {
		defer closeStore()
	}

	sessions, err := auth.NewManager(cfg.JWTSecret, cfg.SessionTTL, cfg.SecureCookies)
	if err != nil {
		logger.Error("Failed to initialize session manager", "error", err)
		os.Exit(1)
	}

	var publisher services.SyncPublisher
	if cfg.AMQPURL != "" {
		amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Error("Failed to initialize AMQP client", "error", err)
			os.Exit(1)
		}
		defer amqpClient.Close()
		publisher = amqpClient
		logger.Info("AMQP publisher initialized", "exchange", cfg.AMQPExchange, "queue", cfg.AMQPQueue)
	} else {
		logger.Info("AMQP disabled - no AMQP_URL provided")
	}

	forecasts := services.NewForecastService(txStore, 256, 5*time.Minute)
	srv := apphttp.NewServer(apphttp.Options{
		Addr:               ":" + cfg.Port,
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
		Accounts:           services.NewAccountService(userStore),
		Transactions:       services.NewTransactionService(txStore, model, publisher, forecasts),
		Forecasts:          forecasts,
		Sessions:           sessions,
		ReadyCheck:         readyCheck,
	})

	srv.ReadTimeout = 10 * time.Second
	srv.WriteTimeout = 10 * time.Second
	srv.IdleTimeout = 60 * time.Second
	srv.MaxHeaderBytes = 1 << 16

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigChan
		logger.Info("Shutdown signal received", "signal", sig.String())

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Server shutdown error", "error", err)
		}
		cancel()
	}()

	logger.Info("Starting fintrack server", "port", cfg.Port, "backend", cfg.DataBackend)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("Server error", "error", err, "port", cfg.Port)
		os.Exit(1)
	}

	<-ctx.Done()
	logger.Info("Server stopped gracefully")
}

func loadModel(path string) (*classifier.Model, error) {
	if path != "" {
		return classifier.Load(path)
	}
	return classifier.Default()
}
