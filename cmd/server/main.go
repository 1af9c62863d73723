package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/relaychat/relaychat/internal/api"
	"github.com/relaychat/relaychat/internal/chat"
	"github.com/relaychat/relaychat/internal/factory"
	redisstorage "github.com/relaychat/relaychat/internal/storage/redis"
)

func main() {
	// Set up logging with JSON output
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	// Build factory config from environment
	chatCfg := chat.DefaultConfig()
	if addr := os.Getenv("CHAT_ADDR"); addr != "" {
		chatCfg.Addr = addr
	}

	cfg := factory.Config{
		ChatConfig:  chatCfg,
		Logger:      logger,
		StorageType: os.Getenv("STORAGE_TYPE"),
		UsersFile:   os.Getenv("USERS_FILE"),
	}

	// Configure Redis if storage type is redis
	if cfg.StorageType == factory.StorageTypeRedis {
		redisURL := os.Getenv("REDIS_URL")
		if redisURL == "" {
			logger.Error("REDIS_URL required when STORAGE_TYPE=redis")
			os.Exit(1)
		}
		redisCfg := redisstorage.DefaultConfig()
		redisCfg.URL = redisURL
		cfg.RedisConfig = &redisCfg
	}

	// Create application factory
	app, err := factory.New(cfg)
	if err != nil {
		logger.Error("failed to create application", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Bind the chat listener up front; failing to bind is fatal
	if err := app.ChatServer.Listen(); err != nil {
		logger.Error("failed to bind chat listener", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Create status server
	statusRouter := api.NewRouter(api.RouterConfig{
		Logger:   logger,
		Registry: app.Registry,
	})
	statusCfg := api.DefaultServerConfig()
	if addr := os.Getenv("HTTP_ADDR"); addr != "" {
		statusCfg.Addr = addr
	}
	statusServer := api.NewServer(statusRouter, statusCfg, logger)

	// Handle graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		logger.Info("shutdown signal received")
		cancel()
	}()

	// Start servers in goroutines
	errCh := make(chan error, 2)
	go func() {
		errCh <- app.ChatServer.Start()
	}()
	go func() {
		errCh <- statusServer.Start()
	}()

	logger.Info("server started",
		slog.String("chat_addr", app.ChatServer.Addr()),
		slog.String("http_addr", statusServer.Addr()))

	// Wait for shutdown or error
	select {
	case err := <-errCh:
		if err != nil {
			logger.Error("server error", slog.String("error", err.Error()))
			os.Exit(1)
		}
	case <-ctx.Done():
		if err := app.ChatServer.Shutdown(context.Background()); err != nil {
			logger.Error("chat shutdown error", slog.String("error", err.Error()))
		}
		if err := statusServer.Shutdown(context.Background()); err != nil {
			logger.Error("http shutdown error", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}

	logger.Info("server stopped")
}
