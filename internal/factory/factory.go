package factory

import (
	"errors"
	"io"
	"log/slog"

	"github.com/relaychat/relaychat/internal/chat"
	"github.com/relaychat/relaychat/internal/dependencies/clock"
	"github.com/relaychat/relaychat/internal/services/auth"
	"github.com/relaychat/relaychat/internal/storage"
	filestorage "github.com/relaychat/relaychat/internal/storage/file"
	"github.com/relaychat/relaychat/internal/storage/memory"
	redisstorage "github.com/relaychat/relaychat/internal/storage/redis"
)

// Storage type constants
const (
	StorageTypeMemory = "memory"
	StorageTypeFile   = "file"
	StorageTypeRedis  = "redis"
)

// App contains all wired application components
type App struct {
	// Storage
	Store storage.Store

	// External dependencies
	Clock clock.Clock

	// Services
	AuthService   *auth.Service
	Registry      *chat.Registry
	Router        *chat.Router
	Authenticator *chat.Authenticator
	ChatServer    *chat.Server
}

// Config holds configuration for the application factory
type Config struct {
	// ChatConfig holds the chat server settings (optional)
	// If zero value, defaults to chat.DefaultConfig()
	ChatConfig chat.Config
	// Logger is the application logger (optional)
	// If nil, a no-op logger is used
	Logger *slog.Logger
	// StorageType selects the storage backend ("file", "memory" or "redis")
	// If empty, defaults to "file"
	StorageType string
	// UsersFile is the account store path for the file backend
	UsersFile string
	// RedisConfig holds Redis connection settings (required if StorageType is "redis")
	RedisConfig *redisstorage.Config
}

// New creates a new application with all dependencies wired
func New(cfg Config) (*App, error) {
	// Use no-op logger if not provided
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	// Create storage based on type
	var store storage.Store
	storageType := cfg.StorageType
	if storageType == "" {
		storageType = StorageTypeFile
	}

	switch storageType {
	case StorageTypeMemory:
		store = memory.New()
	case StorageTypeFile:
		usersFile := cfg.UsersFile
		if usersFile == "" {
			usersFile = "users.json"
		}
		fileStore, err := filestorage.New(usersFile)
		if err != nil {
			return nil, err
		}
		store = fileStore
	case StorageTypeRedis:
		if cfg.RedisConfig == nil {
			return nil, errors.New("RedisConfig required when StorageType is redis")
		}
		redisStore, err := redisstorage.New(*cfg.RedisConfig)
		if err != nil {
			return nil, err
		}
		store = redisStore
	default:
		return nil, errors.New("invalid StorageType: must be 'file', 'memory' or 'redis'")
	}

	chatCfg := cfg.ChatConfig
	if chatCfg.Addr == "" {
		chatCfg = chat.DefaultConfig()
	}

	return newWithDependencies(store, clock.New(), chatCfg, logger), nil
}

// newWithDependencies creates an App with the given dependencies (useful for testing)
func newWithDependencies(store storage.Store, clk clock.Clock, chatCfg chat.Config, logger *slog.Logger) *App {
	authService := auth.New(store, clk, logger)
	registry := chat.NewRegistry(logger)
	router := chat.NewRouter(registry, authService, logger)
	authenticator := chat.NewAuthenticator(authService, registry, logger)
	server := chat.NewServer(chatCfg, registry, router, authenticator, logger)

	return &App{
		Store:         store,
		Clock:         clk,
		AuthService:   authService,
		Registry:      registry,
		Router:        router,
		Authenticator: authenticator,
		ChatServer:    server,
	}
}
